package quiz

import (
	"fmt"

	"decor-funnel/internal/domain"
)

// BacktrackPolicy decides what happens to accumulated weights when a visitor goes back.
type BacktrackPolicy string

const (
	// BacktrackKeep leaves weights on the scoreboard; re-answering adds them again.
	BacktrackKeep BacktrackPolicy = "keep"
	// BacktrackRollback undoes the answer being returned to, so the scoreboard always
	// equals the sum of the weights of the answers still in the trail.
	BacktrackRollback BacktrackPolicy = "rollback"
)

// ParseBacktrackPolicy maps a config string to a policy. Empty means BacktrackKeep.
func ParseBacktrackPolicy(raw string) (BacktrackPolicy, error) {
	switch BacktrackPolicy(raw) {
	case "", BacktrackKeep:
		return BacktrackKeep, nil
	case BacktrackRollback:
		return BacktrackRollback, nil
	}
	return "", fmt.Errorf("unknown backtrack policy %q", raw)
}

// State is a snapshot of an engine.
type State struct {
	QuizID    string              `json:"quizId"`
	Current   *domain.Question    `json:"current,omitempty"`
	Complete  bool                `json:"complete"`
	Step      int                 `json:"step"`
	Total     int                 `json:"total"`
	CanGoBack bool                `json:"canGoBack"`
	Trail     []domain.TrailEntry `json:"trail"`
	Scores    domain.Scoreboard   `json:"scores"`
}

// Engine walks one visitor through a quiz graph. It is not safe for concurrent use;
// callers serialise access per session.
type Engine struct {
	graph    *Graph
	policy   BacktrackPolicy
	current  string
	complete bool
	trail    []domain.TrailEntry
	path     []string
	scores   domain.Scoreboard
}

// NewEngine positions a fresh engine on the graph's entry question.
func NewEngine(graph *Graph, policy BacktrackPolicy) *Engine {
	if policy == "" {
		policy = BacktrackKeep
	}
	e := &Engine{graph: graph, policy: policy}
	e.Restart()
	return e
}

// Graph returns the graph the engine walks.
func (e *Engine) Graph() *Graph { return e.graph }

// Advance records optionID as the answer to questionID, adds the option's weights and moves
// to the option's next question, or to the results state on the terminal sentinel.
func (e *Engine) Advance(questionID, optionID string) (State, error) {
	if e.complete {
		return e.State(), fmt.Errorf("%w: quiz already complete", domain.ErrInvalidSelection)
	}
	if questionID != e.current {
		return e.State(), fmt.Errorf("%w: question %q is not the current question %q", domain.ErrInvalidSelection, questionID, e.current)
	}
	opt, ok := e.graph.Option(questionID, optionID)
	if !ok {
		return e.State(), fmt.Errorf("%w: option %q does not belong to question %q", domain.ErrInvalidSelection, optionID, questionID)
	}

	if idx := e.trailIndex(questionID); idx >= 0 {
		if e.policy == BacktrackRollback {
			e.subtract(e.trail[idx])
		}
		e.trail[idx].OptionID = optionID
	} else {
		e.trail = append(e.trail, domain.TrailEntry{QuestionID: questionID, OptionID: optionID})
	}
	for _, w := range opt.Weights {
		e.scores[w.Style] += w.Weight
	}

	if opt.Next == domain.TerminalQuestion {
		e.complete = true
		return e.State(), nil
	}
	e.path = append(e.path, e.current)
	e.current = opt.Next
	return e.State(), nil
}

// GoBack returns to the question answered before questionID. At the first question it is a
// no-op. From the results state it reopens the last answered question.
func (e *Engine) GoBack(questionID string) (State, error) {
	if questionID != e.current {
		return e.State(), fmt.Errorf("%w: question %q is not the current question %q", domain.ErrInvalidSelection, questionID, e.current)
	}
	if e.complete {
		e.complete = false
		e.removeAnswer(e.current)
		return e.State(), nil
	}
	if len(e.path) == 0 {
		return e.State(), nil
	}

	e.removeAnswer(e.current)
	prev := e.path[len(e.path)-1]
	e.path = e.path[:len(e.path)-1]
	e.current = prev
	if e.policy == BacktrackRollback {
		e.removeAnswer(prev)
	}
	return e.State(), nil
}

// Restart clears the trail and the scoreboard and returns to the entry question.
func (e *Engine) Restart() State {
	e.current = e.graph.Entry()
	e.complete = false
	e.trail = nil
	e.path = nil
	e.scores = make(domain.Scoreboard)
	return e.State()
}

// Complete reports whether the terminal answer has been given.
func (e *Engine) Complete() bool { return e.complete }

// Trail returns a copy of the answer trail in answer order.
func (e *Engine) Trail() []domain.TrailEntry {
	return append([]domain.TrailEntry(nil), e.trail...)
}

// Scores returns a copy of the scoreboard.
func (e *Engine) Scores() domain.Scoreboard {
	return e.scores.Clone()
}

// State snapshots the engine.
func (e *Engine) State() State {
	st := State{
		QuizID:    e.graph.ID(),
		Complete:  e.complete,
		Step:      len(e.path) + 1,
		Total:     e.graph.Len(),
		CanGoBack: len(e.path) > 0 || e.complete,
		Trail:     e.Trail(),
		Scores:    e.Scores(),
	}
	if !e.complete {
		if q, ok := e.graph.Question(e.current); ok {
			st.Current = &q
		}
	}
	return st
}

func (e *Engine) trailIndex(questionID string) int {
	for i, entry := range e.trail {
		if entry.QuestionID == questionID {
			return i
		}
	}
	return -1
}

// removeAnswer drops the trail entry of questionID; under rollback its weights go too.
func (e *Engine) removeAnswer(questionID string) {
	idx := e.trailIndex(questionID)
	if idx < 0 {
		return
	}
	if e.policy == BacktrackRollback {
		e.subtract(e.trail[idx])
	}
	e.trail = append(e.trail[:idx], e.trail[idx+1:]...)
}

func (e *Engine) subtract(entry domain.TrailEntry) {
	opt, ok := e.graph.Option(entry.QuestionID, entry.OptionID)
	if !ok {
		return
	}
	for _, w := range opt.Weights {
		left := e.scores[w.Style] - w.Weight
		if left <= 1e-9 {
			delete(e.scores, w.Style)
			continue
		}
		e.scores[w.Style] = left
	}
}
