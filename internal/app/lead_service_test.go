package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"decor-funnel/internal/app"
	"decor-funnel/internal/domain"
	"decor-funnel/internal/ratelimit"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []domain.Message
	err  error
	// failKind fails only messages of this kind.
	failKind string
}

func (m *fakeMailer) Send(_ context.Context, msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.failKind != "" && msg.Kind == m.failKind {
		return errors.New("receipt bounced")
	}
	m.sent = append(m.sent, msg)
	return nil
}

type countingRecorder struct {
	mu     sync.Mutex
	events []ratelimit.Event
}

func (r *countingRecorder) Record(_ context.Context, e ratelimit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func newLeadService(mailer app.Mailer) *app.LeadService {
	return app.NewLeadService(app.NewGuard(ratelimit.New(), nil), mailer, app.LeadOptions{BusinessEmail: "hello@decor.test"})
}

func validInquiry() domain.Inquiry {
	return domain.Inquiry{
		Name:          "Asha Rao",
		Email:         "Asha@Example.com",
		Phone:         "+91 98765 43210",
		RentalItems:   []string{"Plants", "Lamps"},
		MonthlyBudget: domain.MonthlyBudgetChoices[0],
		UsageLocation: []string{"Home"},
	}
}

func TestSubmitContactSendsCleanParams(t *testing.T) {
	mailer := &fakeMailer{}
	s := newLeadService(mailer)

	clean, err := s.SubmitContact(context.Background(), "1.2.3.4", domain.ContactForm{
		Name:    "  John Doe ",
		Email:   "JOHN@Example.com",
		Message: "<b>Hello</b>",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if clean.Email != "john@example.com" || clean.Name != "John Doe" {
		t.Fatalf("unexpected clean form %+v", clean)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.Kind != domain.MessageContact || msg.To != "hello@decor.test" {
		t.Fatalf("unexpected message %+v", msg)
	}
	if msg.Params["phone"] != "Not provided" || msg.Params["message"] != "Hello" || msg.Params["timestamp"] == "" {
		t.Fatalf("unexpected params %v", msg.Params)
	}
}

func TestSubmitContactRejectsBeforeSending(t *testing.T) {
	mailer := &fakeMailer{}
	s := newLeadService(mailer)

	_, err := s.SubmitContact(context.Background(), "1.2.3.4", domain.ContactForm{Name: "J", Email: "john@example.com", Message: "hi"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("nothing should be sent, got %d", len(mailer.sent))
	}
}

func TestContactBudgetIsPerScope(t *testing.T) {
	s := newLeadService(&fakeMailer{})
	ctx := context.Background()
	form := domain.ContactForm{Name: "John Doe", Email: "john@example.com", Message: "hi"}

	for i := 0; i < 3; i++ {
		if _, err := s.SubmitContact(ctx, "a", form); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
	_, err := s.SubmitContact(ctx, "a", form)
	var limited *domain.RateLimitedError
	if !errors.As(err, &limited) || limited.Action != ratelimit.ContactForm.Key {
		t.Fatalf("expected contact budget exhausted, got %v", err)
	}
	if limited.Countdown == "" {
		t.Fatal("expected countdown text")
	}
	if _, err := s.SubmitContact(ctx, "b", form); err != nil {
		t.Fatalf("other scope should be allowed: %v", err)
	}
}

func TestSubmitInquirySendsReceipt(t *testing.T) {
	mailer := &fakeMailer{}
	s := newLeadService(mailer)

	clean, err := s.SubmitInquiry(context.Background(), "v", validInquiry())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if clean.Email != "asha@example.com" {
		t.Fatalf("expected lower-cased email, got %q", clean.Email)
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("expected business mail and receipt, got %d", len(mailer.sent))
	}
	business, receipt := mailer.sent[0], mailer.sent[1]
	if business.Kind != domain.MessageInquiry || business.Params["rental_items"] != "Lamps, Plants" {
		t.Fatalf("unexpected business message %+v", business)
	}
	if business.Params["whatsapp"] != "Not provided" || business.Params["additional_comments"] != "None" {
		t.Fatalf("unexpected defaults %v", business.Params)
	}
	if receipt.Kind != domain.MessageInquiryReceipt || receipt.To != "asha@example.com" || receipt.Params["to_name"] != "Asha Rao" {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
}

func TestInquiryReceiptFailureKeepsLead(t *testing.T) {
	mailer := &fakeMailer{failKind: domain.MessageInquiryReceipt}
	s := newLeadService(mailer)

	if _, err := s.SubmitInquiry(context.Background(), "v", validInquiry()); err != nil {
		t.Fatalf("receipt failure surfaced as %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].Kind != domain.MessageInquiry {
		t.Fatalf("expected only the business mail, got %+v", mailer.sent)
	}

	mailer.failKind = domain.MessageInquiry
	_, err := s.SubmitInquiry(context.Background(), "v", validInquiry())
	var derr *domain.DeliveryError
	if !errors.As(err, &derr) {
		t.Fatalf("business mail failure must surface, got %v", err)
	}
}

func TestDeliveryFailureCarriesFallback(t *testing.T) {
	s := newLeadService(&fakeMailer{err: errors.New("503")})

	_, err := s.SubscribeNewsletter(context.Background(), "v", "reader@example.com")
	var derr *domain.DeliveryError
	if !errors.As(err, &derr) {
		t.Fatalf("expected delivery error, got %v", err)
	}
	if derr.Contact != "hello@decor.test" || derr.Channel != "email" {
		t.Fatalf("unexpected delivery error %+v", derr)
	}
}

func TestNewsletterBudget(t *testing.T) {
	s := newLeadService(&fakeMailer{})
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := s.SubscribeNewsletter(ctx, "v", "reader@example.com"); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
	var limited *domain.RateLimitedError
	if _, err := s.SubscribeNewsletter(ctx, "v", "reader@example.com"); !errors.As(err, &limited) {
		t.Fatalf("expected newsletter budget exhausted, got %v", err)
	}
}

func TestGuardRecordsDecisions(t *testing.T) {
	rec := &countingRecorder{}
	g := app.NewGuard(ratelimit.New(), rec)
	p := ratelimit.Preset{Key: "trial", MaxAttempts: 1, Window: time.Minute}

	_ = g.Allow(context.Background(), p, "x")
	_ = g.Allow(context.Background(), p, "x")
	if len(rec.events) != 2 || !rec.events[0].Allowed || rec.events[1].Allowed || rec.events[1].Action != "trial" {
		t.Fatalf("unexpected events %+v", rec.events)
	}
}
