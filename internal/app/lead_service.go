package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"decor-funnel/internal/domain"
	"decor-funnel/internal/ratelimit"
	"decor-funnel/internal/validation"
)

// Mailer delivers prepared messages (EmailJS, queue, log).
type Mailer interface {
	Send(ctx context.Context, msg domain.Message) error
}

// LeadOptions tune a LeadService.
type LeadOptions struct {
	// BusinessEmail receives contact and inquiry mail and is offered as manual fallback.
	BusinessEmail string
	// Channel names the delivery provider in errors.
	Channel string
	Presets ratelimit.Presets
}

// LeadService accepts contact, inquiry and newsletter submissions. Each is budgeted,
// validated and only then handed to the mailer.
type LeadService struct {
	guard  *Guard
	mailer Mailer
	opts   LeadOptions
	now    func() time.Time
}

func NewLeadService(guard *Guard, mailer Mailer, opts LeadOptions) *LeadService {
	if opts.Channel == "" {
		opts.Channel = "email"
	}
	if opts.Presets == (ratelimit.Presets{}) {
		opts.Presets = ratelimit.DefaultPresets()
	}
	return &LeadService{guard: guard, mailer: mailer, opts: opts, now: time.Now}
}

// SubmitContact handles the contact page form. scope identifies the visitor for budgeting.
func (s *LeadService) SubmitContact(ctx context.Context, scope string, form domain.ContactForm) (domain.ContactForm, error) {
	if err := s.guard.Allow(ctx, s.opts.Presets.Contact, scope); err != nil {
		return domain.ContactForm{}, err
	}
	clean, err := validation.ValidateContactForm(form)
	if err != nil {
		return domain.ContactForm{}, err
	}
	phone := clean.Phone
	if phone == "" {
		phone = "Not provided"
	}
	err = s.send(ctx, domain.Message{
		Kind: domain.MessageContact,
		To:   s.opts.BusinessEmail,
		Params: map[string]string{
			"from_name":  clean.Name,
			"from_email": clean.Email,
			"phone":      phone,
			"message":    clean.Message,
			"timestamp":  s.timestamp(),
		},
	})
	if err != nil {
		return domain.ContactForm{}, err
	}
	return clean, nil
}

// SubmitInquiry handles the get-started form: one mail to the business and a receipt
// to the visitor. Once the business mail is out the inquiry counts as delivered; a
// failed receipt is only logged so a resubmit does not duplicate the lead.
func (s *LeadService) SubmitInquiry(ctx context.Context, scope string, inq domain.Inquiry) (domain.Inquiry, error) {
	if err := s.guard.Allow(ctx, s.opts.Presets.Contact, scope); err != nil {
		return domain.Inquiry{}, err
	}
	clean, err := validation.ValidateInquiry(inq)
	if err != nil {
		return domain.Inquiry{}, err
	}

	items := strings.Join(clean.RentalItems, ", ")
	locations := strings.Join(clean.UsageLocation, ", ")
	whatsapp := clean.WhatsApp
	if whatsapp == "" {
		whatsapp = "Not provided"
	}
	comments := clean.Comments
	if comments == "" {
		comments = "None"
	}

	err = s.send(ctx, domain.Message{
		Kind: domain.MessageInquiry,
		To:   s.opts.BusinessEmail,
		Params: map[string]string{
			"from_name":           clean.Name,
			"from_email":          clean.Email,
			"phone":               clean.Phone,
			"rental_items":        items,
			"monthly_budget":      clean.MonthlyBudget,
			"usage_location":      locations,
			"whatsapp":            whatsapp,
			"additional_comments": comments,
			"timestamp":           s.timestamp(),
		},
	})
	if err != nil {
		return domain.Inquiry{}, err
	}
	err = s.mailer.Send(ctx, domain.Message{
		Kind: domain.MessageInquiryReceipt,
		To:   clean.Email,
		Params: map[string]string{
			"to_name":        clean.Name,
			"rental_items":   items,
			"monthly_budget": clean.MonthlyBudget,
			"usage_location": locations,
		},
	})
	if err != nil {
		slog.Warn("inquiry receipt failed", "channel", s.opts.Channel, "err", err)
	}
	return clean, nil
}

// SubscribeNewsletter signs an address up for the newsletter.
func (s *LeadService) SubscribeNewsletter(ctx context.Context, scope, email string) (string, error) {
	if err := s.guard.Allow(ctx, s.opts.Presets.Newsletter, scope); err != nil {
		return "", err
	}
	clean, err := validation.ValidateNewsletter(email)
	if err != nil {
		return "", err
	}
	err = s.send(ctx, domain.Message{
		Kind:   domain.MessageNewsletter,
		To:     clean,
		Params: map[string]string{"email": clean, "timestamp": s.timestamp()},
	})
	if err != nil {
		return "", err
	}
	return clean, nil
}

func (s *LeadService) send(ctx context.Context, msg domain.Message) error {
	if err := s.mailer.Send(ctx, msg); err != nil {
		return &domain.DeliveryError{Channel: s.opts.Channel, Contact: s.opts.BusinessEmail, Err: err}
	}
	return nil
}

func (s *LeadService) timestamp() string {
	return s.now().UTC().Format(time.RFC1123)
}
