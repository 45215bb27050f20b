package domain

import "time"

// TerminalQuestion is the next-question value that ends the quiz.
const TerminalQuestion = "result"

// QuizDocument is the question graph plus the style dictionary, as served by the content provider.
type QuizDocument struct {
	ID        string        `json:"id,omitempty" yaml:"id,omitempty"`
	Entry     string        `json:"entry,omitempty" yaml:"entry,omitempty"` // defaults to the first question
	Questions []Question    `json:"questions" yaml:"questions"`
	Styles    StyleProfiles `json:"styles" yaml:"styles"`
}

// Question is one node of the quiz graph.
type Question struct {
	ID      string   `json:"id" yaml:"id"`
	Type    string   `json:"type,omitempty" yaml:"type,omitempty"`
	Prompt  string   `json:"question" yaml:"question"`
	Glyph   string   `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	Options []Option `json:"options" yaml:"options"`
}

// Option is an edge of the quiz graph. Option order is presentational only.
type Option struct {
	ID          string       `json:"id" yaml:"id"`
	Label       string       `json:"label" yaml:"label"`
	Glyph       string       `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	ImageURL    string       `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Next        string       `json:"nextQuestion" yaml:"nextQuestion"`
	Weights     StyleWeights `json:"styleWeights,omitempty" yaml:"styleWeights,omitempty"`
}

// StyleProfile is read-only reference data describing one décor style.
type StyleProfile struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Tagline         string   `json:"tagline" yaml:"tagline"`
	Description     string   `json:"description" yaml:"description"`
	Characteristics []string `json:"characteristics" yaml:"characteristics"`
	ColorPalette    []string `json:"colorPalette" yaml:"colorPalette"`
	ImageURL        string   `json:"imageUrl" yaml:"imageUrl"`
}

// TrailEntry is one recorded answer.
type TrailEntry struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

// Scoreboard maps style ids to accumulated weight.
type Scoreboard map[string]float64

// Clone returns an independent copy.
func (s Scoreboard) Clone() Scoreboard {
	out := make(Scoreboard, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// StyleScore is one ranked scoreboard row.
type StyleScore struct {
	Style string  `json:"style"`
	Score float64 `json:"score"`
}

// Recommendation is the ranked outcome of a finished quiz.
type Recommendation struct {
	Top       string       `json:"top"`
	Secondary string       `json:"secondary,omitempty"`
	Ranking   []StyleScore `json:"ranking"`
}

// CatalogQuery narrows the catalog listing. Empty fields mean no filter.
type CatalogQuery struct {
	Style    string `json:"style,omitempty"`
	Room     string `json:"room,omitempty"`
	Category string `json:"category,omitempty"`
	Search   string `json:"q,omitempty"`
}

// QuizResult is what the results screen needs.
type QuizResult struct {
	Recommendation Recommendation `json:"recommendation"`
	TopStyle       StyleProfile   `json:"topStyle"`
	SecondaryStyle *StyleProfile  `json:"secondaryStyle,omitempty"`
	RoomID         string         `json:"roomId,omitempty"`
	RoomName       string         `json:"roomName,omitempty"`
	CatalogQuery   CatalogQuery   `json:"catalogQuery"`
	CatalogURL     string         `json:"catalogUrl"`
}

// StoredResult is the recommendation mirrored to session storage for later pages.
type StoredResult struct {
	Style     string    `json:"style"`
	StyleName string    `json:"styleName"`
	Room      string    `json:"room,omitempty"`
	RoomName  string    `json:"roomName,omitempty"`
	SavedAt   time.Time `json:"savedAt"`
}
