package app

import (
	"context"
	"errors"

	"decor-funnel/internal/delivery"
	"decor-funnel/internal/domain"
	"decor-funnel/internal/quiz"
)

// PricingService shows subscription tiers next to the visitor's quiz result and builds the
// WhatsApp hand-off for a chosen tier.
type PricingService struct {
	tiers    []domain.PricingTier
	results  ResultStore
	whatsapp string
}

func NewPricingService(tiers []domain.PricingTier, results ResultStore, whatsappNumber string) *PricingService {
	if len(tiers) == 0 {
		tiers = domain.DefaultPricingTiers()
	}
	return &PricingService{tiers: tiers, results: results, whatsapp: whatsappNumber}
}

// Pricing is the pricing page model.
type Pricing struct {
	Tiers  []domain.PricingTier `json:"tiers"`
	Result *domain.StoredResult `json:"quizResult,omitempty"`
}

// Handoff is a prepared messaging deep link.
type Handoff struct {
	Tier    domain.PricingTier `json:"tier"`
	Message string             `json:"message"`
	Link    string             `json:"link"`
}

func (s *PricingService) Pricing(ctx context.Context, visitorID string) (Pricing, error) {
	res, err := s.storedResult(ctx, visitorID)
	if err != nil {
		return Pricing{}, err
	}
	return Pricing{Tiers: s.tiers, Result: res}, nil
}

// Handoff prepares the WhatsApp message for tierID, mentioning the stored quiz result
// when there is one.
func (s *PricingService) Handoff(ctx context.Context, tierID, visitorID string) (Handoff, error) {
	var tier *domain.PricingTier
	for i := range s.tiers {
		if s.tiers[i].ID == tierID {
			tier = &s.tiers[i]
			break
		}
	}
	if tier == nil {
		return Handoff{}, domain.ErrTierNotFound
	}
	res, err := s.storedResult(ctx, visitorID)
	if err != nil {
		return Handoff{}, err
	}
	msg := quiz.BuildOutboundMessage(*tier, res)
	return Handoff{Tier: *tier, Message: msg, Link: delivery.WhatsAppLink(s.whatsapp, msg)}, nil
}

func (s *PricingService) storedResult(ctx context.Context, visitorID string) (*domain.StoredResult, error) {
	if visitorID == "" {
		return nil, nil
	}
	res, err := s.results.LoadResult(ctx, visitorID)
	if errors.Is(err, domain.ErrResultNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}
