package http

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"decor-funnel/internal/app"
	"decor-funnel/internal/domain"
	"decor-funnel/internal/infra/memory"
	"decor-funnel/internal/quiz/quiztest"
	"decor-funnel/internal/ratelimit"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []domain.Message
	fail bool
}

func (m *recordingMailer) Send(_ context.Context, msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("provider down")
	}
	m.sent = append(m.sent, msg)
	return nil
}

type staticContent struct{}

func (staticContent) Catalog(context.Context) (domain.Catalog, error) {
	return domain.Catalog{
		Items: []domain.CatalogItem{
			{ID: "lantern", Name: "Paper Lantern", Category: "lamps", Styles: []string{"japandi"}, Rooms: []string{"living-room", "bedroom"}, Tags: []string{"soft light"}},
			{ID: "kilim", Name: "Kilim Rug", Category: "rugs", Styles: []string{"bohemian"}, Rooms: []string{"living-room"}, Tags: []string{"handwoven"}},
		},
		Styles: []domain.Facet{{ID: "japandi", Name: "Japandi"}, {ID: "bohemian", Name: "Bohemian"}},
	}, nil
}

func (staticContent) BlogIndex(context.Context) ([]domain.BlogIndexEntry, error) {
	return []domain.BlogIndexEntry{{ID: "1", Slug: "calm-corners"}, {ID: "2", Slug: "boho-layers"}}, nil
}

func (staticContent) BlogPost(_ context.Context, id string) (domain.BlogPost, error) {
	switch id {
	case "1":
		return domain.BlogPost{ID: "1", Slug: "calm-corners", Title: "Calm corners", Category: "Styling", Tags: []string{"japandi"}}, nil
	case "2":
		return domain.BlogPost{ID: "2", Slug: "boho-layers", Title: "Boho layers", Category: "Styling", Tags: []string{"bohemian"}}, nil
	}
	return domain.BlogPost{}, domain.ErrPostNotFound
}

type testAPI struct {
	server *httptest.Server
	quiz   *app.QuizService
	mailer *recordingMailer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(map[string]domain.QuizDocument{
		"style-quiz": quiztest.Document(),
	}), time.Minute)
	results := memory.NewResultStore()
	guard := app.NewGuard(ratelimit.New(), nil)
	mailer := &recordingMailer{}

	quizService := app.NewQuizService(memory.NewSessionStore(), quizRepo, results, guard, app.QuizOptions{QuizID: "style-quiz"})
	leads := app.NewLeadService(guard, mailer, app.LeadOptions{BusinessEmail: "hello@decor.test"})

	handler := NewRouter(Handlers{
		Quiz:    NewQuizHandler(quizService),
		Content: NewContentHandler(app.NewCatalogService(staticContent{}), app.NewBlogService(staticContent{}), app.NewPricingService(nil, results, "+91 90000 00000")),
		Leads:   NewLeadHandler(leads),
		WS:      NewWSHandler(quizService),
	}, RouterOptions{})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &testAPI{server: server, quiz: quizService, mailer: mailer}
}
