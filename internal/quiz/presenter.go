package quiz

import (
	"net/url"
	"sort"
	"strings"

	"decor-funnel/internal/domain"
)

// CallToAction closes every outbound message.
const CallToAction = "Could you help me get started?"

// Presenter turns a finished scoreboard into a recommendation and its hand-offs.
type Presenter struct {
	graph *Graph
}

func NewPresenter(graph *Graph) *Presenter {
	return &Presenter{graph: graph}
}

// ComputeRecommendation ranks styles by descending score. Ties fall back to the order the
// styles are declared in the quiz document, then to the style id, so the result never depends
// on map iteration order. Styles with a zero score are not ranked.
func (p *Presenter) ComputeRecommendation(scores domain.Scoreboard) (domain.Recommendation, error) {
	ranking := make([]domain.StyleScore, 0, len(scores))
	for style, score := range scores {
		if score <= 0 {
			continue
		}
		ranking = append(ranking, domain.StyleScore{Style: style, Score: score})
	}
	if len(ranking) == 0 {
		return domain.Recommendation{}, domain.ErrNoRecommendation
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Score != ranking[j].Score {
			return ranking[i].Score > ranking[j].Score
		}
		ri, rj := p.graph.rank(ranking[i].Style), p.graph.rank(ranking[j].Style)
		if ri != rj {
			return ri < rj
		}
		return ranking[i].Style < ranking[j].Style
	})

	rec := domain.Recommendation{Top: ranking[0].Style, Ranking: ranking}
	if len(ranking) > 1 {
		rec.Secondary = ranking[1].Style
	}
	return rec, nil
}

// BuildCatalogQuery pairs the top style with the room picked on the first question.
func (p *Presenter) BuildCatalogQuery(top string, trail []domain.TrailEntry) domain.CatalogQuery {
	q := domain.CatalogQuery{Style: top}
	if len(trail) > 0 {
		q.Room = trail[0].OptionID
	}
	return q
}

// RoomName returns the label of the option chosen on the first question.
func (p *Presenter) RoomName(trail []domain.TrailEntry) string {
	if len(trail) == 0 {
		return ""
	}
	opt, ok := p.graph.Option(trail[0].QuestionID, trail[0].OptionID)
	if !ok {
		return ""
	}
	return opt.Label
}

// Result assembles everything the results screen shows.
func (p *Presenter) Result(scores domain.Scoreboard, trail []domain.TrailEntry) (domain.QuizResult, error) {
	rec, err := p.ComputeRecommendation(scores)
	if err != nil {
		return domain.QuizResult{}, err
	}
	query := p.BuildCatalogQuery(rec.Top, trail)
	res := domain.QuizResult{
		Recommendation: rec,
		RoomID:         query.Room,
		RoomName:       p.RoomName(trail),
		CatalogQuery:   query,
		CatalogURL:     CatalogURL(query),
	}
	res.TopStyle, _ = p.graph.Style(rec.Top)
	if rec.Secondary != "" {
		if s, ok := p.graph.Style(rec.Secondary); ok {
			res.SecondaryStyle = &s
		}
	}
	return res, nil
}

// CatalogURL renders a catalog query as the catalog page link.
func CatalogURL(q domain.CatalogQuery) string {
	v := url.Values{}
	if q.Style != "" {
		v.Set("style", q.Style)
	}
	if q.Room != "" {
		v.Set("room", q.Room)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if len(v) == 0 {
		return "/catalog"
	}
	return "/catalog?" + v.Encode()
}

// BuildOutboundMessage composes the plain-text message a visitor sends about a tier.
// The text is not HTML-escaped; it is meant for a messaging app.
func BuildOutboundMessage(tier domain.PricingTier, result *domain.StoredResult) string {
	var b strings.Builder
	b.WriteString("Hi! I'm interested in the ")
	b.WriteString(tier.Name)
	b.WriteString(" plan (")
	b.WriteString(tier.Price)
	b.WriteString("/month).")
	if result != nil && result.StyleName != "" {
		b.WriteString(" My style quiz matched me with ")
		b.WriteString(result.StyleName)
		if result.RoomName != "" {
			b.WriteString(" for my ")
			b.WriteString(result.RoomName)
		}
		b.WriteString(".")
	}
	b.WriteString(" ")
	b.WriteString(CallToAction)
	return b.String()
}
