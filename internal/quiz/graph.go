// Package quiz holds the style-quiz state machine and the result presenter.
package quiz

import (
	"errors"
	"fmt"

	"decor-funnel/internal/domain"
)

// Graph is a validated, read-only question graph. It is safe for concurrent use.
type Graph struct {
	id        string
	entry     string
	order     []string
	questions map[string]*domain.Question
	styles    map[string]domain.StyleProfile
	styleRank map[string]int
	doc       domain.QuizDocument
}

// NewGraph validates doc and builds a Graph. Every integrity problem found is returned,
// joined; each one is a *domain.DataIntegrityError.
func NewGraph(id string, doc domain.QuizDocument) (*Graph, error) {
	doc.Questions = append([]domain.Question(nil), doc.Questions...)
	g := &Graph{
		id:        id,
		questions: make(map[string]*domain.Question, len(doc.Questions)),
		styles:    make(map[string]domain.StyleProfile, len(doc.Styles)),
		styleRank: make(map[string]int, len(doc.Styles)),
		doc:       doc,
	}
	var errs []error
	fail := func(questionID, optionID, format string, args ...any) {
		errs = append(errs, &domain.DataIntegrityError{
			QuestionID: questionID,
			OptionID:   optionID,
			Reason:     fmt.Sprintf(format, args...),
		})
	}

	for i, style := range doc.Styles {
		if style.ID == "" {
			fail("", "", "style #%d has no id", i)
			continue
		}
		if _, dup := g.styles[style.ID]; dup {
			fail("", "", "duplicate style %q", style.ID)
			continue
		}
		g.styles[style.ID] = style
		g.styleRank[style.ID] = i
	}

	if len(doc.Questions) == 0 {
		fail("", "", "document has no questions")
		return nil, errors.Join(errs...)
	}
	for i := range doc.Questions {
		q := &doc.Questions[i]
		if q.ID == "" {
			fail("", "", "question #%d has no id", i)
			continue
		}
		if q.ID == domain.TerminalQuestion {
			fail(q.ID, "", "question id collides with the terminal sentinel")
			continue
		}
		if _, dup := g.questions[q.ID]; dup {
			fail(q.ID, "", "duplicate question id")
			continue
		}
		g.questions[q.ID] = q
		g.order = append(g.order, q.ID)
	}

	for _, qid := range g.order {
		q := g.questions[qid]
		if len(q.Options) == 0 {
			fail(q.ID, "", "question has no options")
		}
		seen := make(map[string]struct{}, len(q.Options))
		for _, opt := range q.Options {
			if opt.ID == "" {
				fail(q.ID, "", "option without id")
				continue
			}
			if _, dup := seen[opt.ID]; dup {
				fail(q.ID, opt.ID, "duplicate option id")
			}
			seen[opt.ID] = struct{}{}

			switch {
			case opt.Next == "":
				fail(q.ID, opt.ID, "missing next question")
			case opt.Next == domain.TerminalQuestion:
			default:
				if _, ok := g.questions[opt.Next]; !ok {
					fail(q.ID, opt.ID, "next question %q does not exist", opt.Next)
				}
			}

			for _, w := range opt.Weights {
				if _, ok := g.styles[w.Style]; !ok {
					fail(q.ID, opt.ID, "weight references unknown style %q", w.Style)
				}
				if w.Weight <= 0 {
					fail(q.ID, opt.ID, "weight for %q must be positive, got %v", w.Style, w.Weight)
				}
			}
		}
	}

	g.entry = doc.Entry
	if g.entry == "" && len(g.order) > 0 {
		g.entry = g.order[0]
	}
	if _, ok := g.questions[g.entry]; !ok {
		fail(g.entry, "", "entry question does not exist")
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return g, nil
}

// ID returns the quiz id the graph was loaded under.
func (g *Graph) ID() string { return g.id }

// Entry returns the first question id.
func (g *Graph) Entry() string { return g.entry }

// Len returns the number of questions.
func (g *Graph) Len() int { return len(g.order) }

// Document returns the source document.
func (g *Graph) Document() domain.QuizDocument { return g.doc }

// Question looks up a question by id.
func (g *Graph) Question(id string) (domain.Question, bool) {
	q, ok := g.questions[id]
	if !ok {
		return domain.Question{}, false
	}
	return *q, true
}

// Option looks up an option of a question.
func (g *Graph) Option(questionID, optionID string) (domain.Option, bool) {
	q, ok := g.questions[questionID]
	if !ok {
		return domain.Option{}, false
	}
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return opt, true
		}
	}
	return domain.Option{}, false
}

// Style returns the profile of a style id.
func (g *Graph) Style(id string) (domain.StyleProfile, bool) {
	s, ok := g.styles[id]
	return s, ok
}

// rank orders styles by their declaration in the document; unknown styles sort last.
func (g *Graph) rank(style string) int {
	if r, ok := g.styleRank[style]; ok {
		return r
	}
	return len(g.styleRank)
}
