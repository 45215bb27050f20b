// Package quiztest holds quiz fixtures shared by tests.
package quiztest

import "decor-funnel/internal/domain"

// Document is a three-question style quiz: room, palette, material. Styles are declared
// scandinavian, japandi, bohemian.
func Document() domain.QuizDocument {
	return domain.QuizDocument{
		Questions: []domain.Question{
			{
				ID:     "q1",
				Prompt: "Which room are we styling?",
				Glyph:  "🏠",
				Options: []domain.Option{
					{ID: "living-room", Label: "Living Room", Next: "q2"},
					{ID: "bedroom", Label: "Bedroom", Next: "q2"},
				},
			},
			{
				ID:     "q2",
				Prompt: "Pick a palette",
				Options: []domain.Option{
					{ID: "warm", Label: "Warm neutrals", Next: "q3", Weights: domain.StyleWeights{{Style: "japandi", Weight: 3}}},
					{ID: "cool", Label: "Cool whites", Next: "q3", Weights: domain.StyleWeights{{Style: "scandinavian", Weight: 3}}},
				},
			},
			{
				ID:     "q3",
				Prompt: "Favourite material?",
				Options: []domain.Option{
					{ID: "natural", Label: "Wood and linen", Next: domain.TerminalQuestion, Weights: domain.StyleWeights{{Style: "japandi", Weight: 2}, {Style: "bohemian", Weight: 1}}},
					{ID: "none", Label: "No preference", Next: domain.TerminalQuestion},
				},
			},
		},
		Styles: domain.StyleProfiles{
			{ID: "scandinavian", Name: "Scandinavian", Tagline: "Light and airy"},
			{ID: "japandi", Name: "Japandi", Tagline: "Calm minimalism"},
			{ID: "bohemian", Name: "Bohemian", Tagline: "Layered and free"},
		},
	}
}
