package http

import (
	"net/http"

	"decor-funnel/internal/app"
	"decor-funnel/internal/domain"
	"github.com/go-chi/chi/v5"
)

// ContentHandler serves the catalog, the blog and the pricing page.
type ContentHandler struct {
	catalog *app.CatalogService
	blog    *app.BlogService
	pricing *app.PricingService
}

func NewContentHandler(catalog *app.CatalogService, blog *app.BlogService, pricing *app.PricingService) *ContentHandler {
	return &ContentHandler{catalog: catalog, blog: blog, pricing: pricing}
}

func (h *ContentHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listing, err := h.catalog.Search(r.Context(), domain.CatalogQuery{
		Style:    q.Get("style"),
		Room:     q.Get("room"),
		Category: q.Get("category"),
		Search:   q.Get("q"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ContentHandler) CatalogItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.Item(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ContentHandler) Blog(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *ContentHandler) BlogPost(w http.ResponseWriter, r *http.Request) {
	article, err := h.blog.Article(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (h *ContentHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	p, err := h.pricing.Pricing(r.Context(), visitorID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ContentHandler) WhatsApp(w http.ResponseWriter, r *http.Request) {
	handoff, err := h.pricing.Handoff(r.Context(), chi.URLParam(r, "tier"), visitorID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, handoff)
}

func visitorID(r *http.Request) string {
	if v := r.URL.Query().Get("visitor"); v != "" {
		return v
	}
	return r.Header.Get(visitorHeader)
}
