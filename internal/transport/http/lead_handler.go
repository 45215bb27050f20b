package http

import (
	"net/http"

	"decor-funnel/internal/app"
	"decor-funnel/internal/domain"
)

// LeadHandler accepts the contact, get-started and newsletter forms.
type LeadHandler struct {
	service *app.LeadService
}

func NewLeadHandler(service *app.LeadService) *LeadHandler {
	return &LeadHandler{service: service}
}

type accepted struct {
	Status string `json:"status"`
	Record any    `json:"record"`
}

func (h *LeadHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var form domain.ContactForm
	if !decodeJSON(w, r, &form) {
		return
	}
	clean, err := h.service.SubmitContact(r.Context(), leadScope(r), form)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, accepted{Status: "sent", Record: clean})
}

func (h *LeadHandler) Inquiry(w http.ResponseWriter, r *http.Request) {
	var inq domain.Inquiry
	if !decodeJSON(w, r, &inq) {
		return
	}
	clean, err := h.service.SubmitInquiry(r.Context(), leadScope(r), inq)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, accepted{Status: "sent", Record: clean})
}

type newsletterRequest struct {
	Email string `json:"email"`
}

func (h *LeadHandler) Newsletter(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email, err := h.service.SubscribeNewsletter(r.Context(), leadScope(r), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, accepted{Status: "subscribed", Record: map[string]string{"email": email}})
}
