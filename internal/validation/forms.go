package validation

import (
	"slices"
	"strings"

	"decor-funnel/internal/domain"
)

func invalid(field, reason string) error {
	return &domain.ValidationError{Field: field, Reason: reason}
}

// ValidateContactForm checks fields in the order name, email, phone, message and returns
// the first failure as a *domain.ValidationError.
func ValidateContactForm(in domain.ContactForm) (domain.ContactForm, error) {
	name, ok := SanitizeName(in.Name)
	if !ok {
		return domain.ContactForm{}, invalid("name", "Invalid name format")
	}
	email, err := cleanEmail(in.Email)
	if err != nil {
		return domain.ContactForm{}, err
	}
	phone := strings.TrimSpace(in.Phone)
	if phone != "" {
		if !IsValidPhone(phone) {
			return domain.ContactForm{}, invalid("phone", "Invalid phone format")
		}
		phone = SanitizePlainText(phone)
	}
	msg, ok := SanitizeMessage(in.Message, DefaultMaxLength)
	if !ok {
		return domain.ContactForm{}, invalid("message", "Invalid message format or length")
	}
	return domain.ContactForm{Name: name, Email: email, Phone: phone, Message: msg}, nil
}

// ValidateInquiry checks the get-started form.
func ValidateInquiry(in domain.Inquiry) (domain.Inquiry, error) {
	if isBlank(in.Name) || isBlank(in.Email) || isBlank(in.Phone) {
		return domain.Inquiry{}, invalid("required", "Please fill in all required fields (Name, Email, Phone)")
	}
	name, ok := SanitizeName(in.Name)
	if !ok {
		return domain.Inquiry{}, invalid("name", "Invalid name format")
	}
	email, err := cleanEmail(in.Email)
	if err != nil {
		return domain.Inquiry{}, err
	}
	if !IsValidPhone(in.Phone) {
		return domain.Inquiry{}, invalid("phone", "Invalid phone format")
	}
	items, ok := pickChoices(in.RentalItems, domain.RentalItemChoices)
	if !ok {
		return domain.Inquiry{}, invalid("rentalItems", "Please select at least one rental item")
	}
	budget := strings.TrimSpace(in.MonthlyBudget)
	if !slices.Contains(domain.MonthlyBudgetChoices, budget) {
		return domain.Inquiry{}, invalid("monthlyBudget", "Please select your monthly budget")
	}
	locations, ok := pickChoices(in.UsageLocation, domain.UsageLocationChoices)
	if !ok {
		return domain.Inquiry{}, invalid("usageLocation", "Please select where you'll use the items")
	}
	whatsapp := strings.TrimSpace(in.WhatsApp)
	if whatsapp != "" && !IsValidPhone(whatsapp) {
		return domain.Inquiry{}, invalid("whatsapp", "Invalid WhatsApp number")
	}
	var comments string
	if !isBlank(in.Comments) {
		comments, ok = SanitizeMessage(in.Comments, 1000)
		if !ok {
			return domain.Inquiry{}, invalid("additionalComments", "Comments are too long")
		}
	}
	return domain.Inquiry{
		Name:          name,
		Email:         email,
		Phone:         SanitizePlainText(strings.TrimSpace(in.Phone)),
		RentalItems:   items,
		MonthlyBudget: budget,
		UsageLocation: locations,
		WhatsApp:      SanitizePlainText(whatsapp),
		Comments:      comments,
	}, nil
}

// ValidateNewsletter returns the lower-cased address.
func ValidateNewsletter(email string) (string, error) {
	return cleanEmail(email)
}

func cleanEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if !IsValidEmail(email) {
		return "", invalid("email", "Invalid email format")
	}
	return strings.ToLower(SanitizePlainText(email)), nil
}

// pickChoices keeps the selections that belong to allowed, in allowed's order, without
// duplicates. It fails when nothing valid was selected or a selection is unknown.
func pickChoices(selected, allowed []string) ([]string, bool) {
	if len(selected) == 0 {
		return nil, false
	}
	for _, s := range selected {
		if !slices.Contains(allowed, strings.TrimSpace(s)) {
			return nil, false
		}
	}
	out := make([]string, 0, len(selected))
	for _, a := range allowed {
		for _, s := range selected {
			if strings.TrimSpace(s) == a {
				out = append(out, a)
				break
			}
		}
	}
	return out, true
}
