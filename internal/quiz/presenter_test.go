package quiz

import (
	"errors"
	"strings"
	"testing"

	"decor-funnel/internal/domain"
)

func TestComputeRecommendationTieBreakIsDeterministic(t *testing.T) {
	p := NewPresenter(mustGraph(t, sampleDocument()))
	scores := domain.Scoreboard{"scandinavian": 5, "japandi": 5, "bohemian": 2}

	first, err := p.ComputeRecommendation(scores)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// scandinavian is declared before japandi in the style dictionary.
	if first.Top != "scandinavian" || first.Secondary != "japandi" {
		t.Fatalf("expected scandinavian then japandi, got %+v", first)
	}
	for i := 0; i < 100; i++ {
		again, err := p.ComputeRecommendation(scores.Clone())
		if err != nil {
			t.Fatalf("compute #%d: %v", i, err)
		}
		if again.Top != first.Top || again.Secondary != first.Secondary {
			t.Fatalf("run %d returned %+v, first run %+v", i, again, first)
		}
	}
}

func TestComputeRecommendationSingleStyleHasNoSecondary(t *testing.T) {
	p := NewPresenter(mustGraph(t, sampleDocument()))

	rec, err := p.ComputeRecommendation(domain.Scoreboard{"bohemian": 1, "japandi": 0})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if rec.Top != "bohemian" || rec.Secondary != "" {
		t.Fatalf("unexpected recommendation %+v", rec)
	}
}

func TestComputeRecommendationEmptyScoreboard(t *testing.T) {
	p := NewPresenter(mustGraph(t, sampleDocument()))

	if _, err := p.ComputeRecommendation(domain.Scoreboard{}); !errors.Is(err, domain.ErrNoRecommendation) {
		t.Fatalf("expected ErrNoRecommendation, got %v", err)
	}
}

func TestEndToEndRecommendationAndCatalogQuery(t *testing.T) {
	doc := domain.QuizDocument{
		Questions: []domain.Question{
			{ID: "q1", Prompt: "Room?", Options: []domain.Option{
				{ID: "living-room", Label: "Living Room", Next: "q2"},
			}},
			{ID: "q2", Prompt: "Seed", Options: []domain.Option{
				{ID: "seed", Label: "Seed", Next: domain.TerminalQuestion, Weights: domain.StyleWeights{{Style: "japandi", Weight: 3}}},
			}},
		},
		Styles: domain.StyleProfiles{{ID: "japandi", Name: "Japandi"}},
	}
	g := mustGraph(t, doc)
	e := NewEngine(g, BacktrackKeep)
	walk(t, e, "q1:living-room", "q2:seed")

	p := NewPresenter(g)
	rec, err := p.ComputeRecommendation(e.Scores())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if rec.Top != "japandi" {
		t.Fatalf("expected japandi, got %s", rec.Top)
	}
	q := p.BuildCatalogQuery(rec.Top, e.Trail())
	if q != (domain.CatalogQuery{Style: "japandi", Room: "living-room"}) {
		t.Fatalf("unexpected catalog query %+v", q)
	}

	res, err := p.Result(e.Scores(), e.Trail())
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.TopStyle.Name != "Japandi" || res.RoomName != "Living Room" || res.SecondaryStyle != nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.CatalogURL != "/catalog?room=living-room&style=japandi" {
		t.Fatalf("unexpected catalog url %s", res.CatalogURL)
	}
}

func TestBuildCatalogQueryWithoutTrail(t *testing.T) {
	p := NewPresenter(mustGraph(t, sampleDocument()))
	q := p.BuildCatalogQuery("japandi", nil)
	if q.Room != "" || q.Style != "japandi" {
		t.Fatalf("unexpected query %+v", q)
	}
	if CatalogURL(domain.CatalogQuery{}) != "/catalog" {
		t.Fatalf("empty query should link to the bare catalog")
	}
}

func TestBuildOutboundMessage(t *testing.T) {
	tier := domain.PricingTier{ID: "standard", Name: "Standard", Price: "₹6,999"}

	withResult := BuildOutboundMessage(tier, &domain.StoredResult{StyleName: "Japandi & Co", RoomName: "Living Room"})
	want := "Hi! I'm interested in the Standard plan (₹6,999/month). My style quiz matched me with Japandi & Co for my Living Room. " + CallToAction
	if withResult != want {
		t.Fatalf("got %q\nwant %q", withResult, want)
	}

	bare := BuildOutboundMessage(tier, nil)
	if strings.Contains(bare, "quiz") || !strings.HasSuffix(bare, CallToAction) {
		t.Fatalf("unexpected message without result: %q", bare)
	}
}
