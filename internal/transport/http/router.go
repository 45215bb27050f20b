package http

import (
	"net/http"

	"decor-funnel/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Quiz    *QuizHandler
	Content *ContentHandler
	Leads   *LeadHandler
	WS      *WSHandler
}

// RouterOptions configure cross-cutting middleware.
type RouterOptions struct {
	AllowedOrigins []string
	// Throttle limits raw request rates per client address; nil disables it.
	Throttle *ratelimit.Throttle
}

// NewRouter configures routes and middleware.
func NewRouter(h Handlers, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", visitorHeader},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	if h.WS != nil {
		r.Get("/ws", h.WS.ServeWS)
	}

	r.Route("/api", func(r chi.Router) {
		if opts.Throttle != nil {
			r.Use(throttle(opts.Throttle))
		}

		if h.Quiz != nil {
			r.Route("/quiz", func(r chi.Router) {
				r.Post("/sessions", h.Quiz.Start)
				r.Get("/sessions/{id}", h.Quiz.State)
				r.Post("/sessions/{id}/answers", h.Quiz.Answer)
				r.Post("/sessions/{id}/back", h.Quiz.Back)
				r.Post("/sessions/{id}/restart", h.Quiz.Restart)
				r.Get("/sessions/{id}/result", h.Quiz.Result)
				r.Get("/results/{visitorId}", h.Quiz.StoredResult)
			})
		}

		if h.Content != nil {
			r.Get("/catalog", h.Content.Catalog)
			r.Get("/catalog/{id}", h.Content.CatalogItem)
			r.Get("/blog", h.Content.Blog)
			r.Get("/blog/{slug}", h.Content.BlogPost)
			r.Get("/pricing", h.Content.Pricing)
			r.Get("/pricing/{tier}/whatsapp", h.Content.WhatsApp)
		}

		if h.Leads != nil {
			r.Post("/contact", h.Leads.Contact)
			r.Post("/inquiries", h.Leads.Inquiry)
			r.Post("/newsletter", h.Leads.Newsletter)
		}
	})

	return r
}
