package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"decor-funnel/internal/domain"
)

type errorBody struct {
	Error      string `json:"error"`
	Field      string `json:"field,omitempty"`
	RetryAfter string `json:"retryAfter,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", "err", err)
	}
}

// writeError maps domain failures to status codes. Anything unknown is a 500 and is logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *domain.ValidationError
		limited    *domain.RateLimitedError
		delivery   *domain.DeliveryError
		integrity  *domain.DataIntegrityError
	)
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: validation.Reason, Field: validation.Field})
	case errors.As(err, &limited):
		secs := int(math.Ceil(limited.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: limited.Error(), RetryAfter: limited.Countdown})
	case errors.As(err, &delivery):
		slog.Error("delivery failed", "channel", delivery.Channel, "err", delivery.Err, "path", r.URL.Path)
		writeJSON(w, http.StatusBadGateway, errorBody{Error: delivery.VisitorMessage()})
	case errors.As(err, &integrity):
		slog.Error("quiz data rejected", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "quiz is unavailable"})
	case errors.Is(err, domain.ErrInvalidSelection):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrResultNotFound),
		errors.Is(err, domain.ErrCatalogItemNotFound),
		errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrTierNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrQuizIncomplete), errors.Is(err, domain.ErrNoRecommendation):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		slog.Error("request failed", "err", err, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return false
	}
	return true
}
