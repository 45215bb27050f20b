package validation

import (
	"errors"
	"strings"
	"testing"

	"decor-funnel/internal/domain"
)

func TestSanitizePlainText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello there", "Hello there"},
		{"<b>bold</b> text", "bold text"},
		{`<img src="x" onerror="alert(1)">Hi`, "Hi"},
		{`<a href="javascript:alert(1)">click</a>`, "click"},
		{"O'Brien & Sons", "O'Brien & Sons"},
		{"&lt;b&gt;x&lt;/b&gt;", "x"},
		{"&amp;amp;lt;script&amp;amp;gt;alert(1)&amp;amp;lt;/script&amp;amp;gt;", ""},
		{"&amp;amp;amp;lt;b&amp;amp;amp;gt;deep&amp;amp;amp;lt;/b&amp;amp;amp;gt;", "deep"},
		{"a < b", "a < b"},
	}
	for _, tc := range cases {
		if got := SanitizePlainText(tc.in); got != tc.want {
			t.Fatalf("SanitizePlainText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	if !IsValidEmail("a@b.co") {
		t.Fatalf("a@b.co should be valid")
	}
	if IsValidEmail("not-an-email") {
		t.Fatalf("not-an-email should be invalid")
	}
	if IsValidEmail("a@" + strings.Repeat("x", 260)) {
		t.Fatalf("overlong address should be invalid")
	}
	if IsValidEmail("a@" + strings.Repeat("x", 250) + ".com") {
		t.Fatalf("address over 254 bytes should be invalid")
	}
	if IsValidEmail("a b@c.de") {
		t.Fatalf("whitespace should be rejected")
	}
}

func TestIsValidPhone(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"+91 98765 43210", true},
		{"(555) 123-4567", true},
		{"123456789", false},
		{"1234567890123456", false},
		{"123456789012345", true},
		{"call me", false},
	}
	for _, tc := range cases {
		if got := IsValidPhone(tc.in); got != tc.want {
			t.Fatalf("IsValidPhone(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeName(t *testing.T) {
	if _, ok := SanitizeName("Jane <b>Doe</b>"); ok {
		t.Fatalf("name with markup should be invalid")
	}
	if got, ok := SanitizeName("  Mary-Jane O'Neil "); !ok || got != "Mary-Jane O'Neil" {
		t.Fatalf("unexpected %q %v", got, ok)
	}
	for _, bad := range []string{"J", "R2D2", strings.Repeat("a", 101), ""} {
		if _, ok := SanitizeName(bad); ok {
			t.Fatalf("%q should be invalid", bad)
		}
	}
}

func TestSanitizeMessage(t *testing.T) {
	if got, ok := SanitizeMessage("  <p>Hello</p>  ", 0); !ok || got != "Hello" {
		t.Fatalf("unexpected %q %v", got, ok)
	}
	if _, ok := SanitizeMessage("<b></b>   ", 0); ok {
		t.Fatalf("empty message should be invalid")
	}
	if got, ok := SanitizeMessage("&amp;amp;lt;img src=x onerror=alert(1)&amp;amp;gt;", 0); ok || strings.ContainsAny(got, "<>") {
		t.Fatalf("nested entities must not decode into markup, got %q %v", got, ok)
	}
	if got, ok := SanitizeMessage("Hi &amp;amp;lt;b&amp;amp;gt;there&amp;amp;lt;/b&amp;amp;gt;", 0); !ok || got != "Hi there" {
		t.Fatalf("unexpected %q %v", got, ok)
	}
	if _, ok := SanitizeMessage("abcdef", 5); ok {
		t.Fatalf("message over limit should be invalid")
	}
	if _, ok := SanitizeMessage(strings.Repeat("é", 5000), 0); !ok {
		t.Fatalf("limit counts characters, not bytes")
	}
}

func TestValidateContactForm(t *testing.T) {
	got, err := ValidateContactForm(domain.ContactForm{
		Name:    "John Doe",
		Email:   "JOHN@Example.com",
		Message: "Hello there",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.Email != "john@example.com" || got.Name != "John Doe" || got.Message != "Hello there" {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestValidateContactFormFieldPriority(t *testing.T) {
	cases := []struct {
		name  string
		form  domain.ContactForm
		field string
	}{
		{"everything wrong", domain.ContactForm{Name: "x", Email: "bad", Phone: "1", Message: ""}, "name"},
		{"email then phone", domain.ContactForm{Name: "Ann Lee", Email: "bad", Phone: "1", Message: ""}, "email"},
		{"phone when present", domain.ContactForm{Name: "Ann Lee", Email: "a@b.co", Phone: "1", Message: ""}, "phone"},
		{"message last", domain.ContactForm{Name: "Ann Lee", Email: "a@b.co", Message: " "}, "message"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateContactForm(tc.form)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field || ve.Reason == "" {
				t.Fatalf("expected field %s, got %+v", tc.field, ve)
			}
		})
	}
}

func validInquiry() domain.Inquiry {
	return domain.Inquiry{
		Name:          "Priya Shah",
		Email:         "Priya@Example.com",
		Phone:         "+91 98765 43210",
		RentalItems:   []string{"Plants", "Lamps"},
		MonthlyBudget: "₹499",
		UsageLocation: []string{"Home"},
		Comments:      "<i>Soon</i> please",
	}
}

func TestValidateInquiry(t *testing.T) {
	got, err := ValidateInquiry(validInquiry())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.Email != "priya@example.com" || got.Comments != "Soon please" {
		t.Fatalf("unexpected %+v", got)
	}
	if strings.Join(got.RentalItems, ",") != "Lamps,Plants" {
		t.Fatalf("rental items should follow the offered order, got %v", got.RentalItems)
	}
}

func TestValidateInquiryMessages(t *testing.T) {
	cases := []struct {
		mutate func(*domain.Inquiry)
		reason string
	}{
		{func(i *domain.Inquiry) { i.Phone = "" }, "Please fill in all required fields (Name, Email, Phone)"},
		{func(i *domain.Inquiry) { i.RentalItems = nil }, "Please select at least one rental item"},
		{func(i *domain.Inquiry) { i.RentalItems = []string{"Sofas"} }, "Please select at least one rental item"},
		{func(i *domain.Inquiry) { i.MonthlyBudget = "" }, "Please select your monthly budget"},
		{func(i *domain.Inquiry) { i.UsageLocation = nil }, "Please select where you'll use the items"},
		{func(i *domain.Inquiry) { i.WhatsApp = "12" }, "Invalid WhatsApp number"},
	}
	for _, tc := range cases {
		in := validInquiry()
		tc.mutate(&in)
		_, err := ValidateInquiry(in)
		if err == nil || err.Error() != tc.reason {
			t.Fatalf("expected %q, got %v", tc.reason, err)
		}
	}
}

func TestValidateNewsletter(t *testing.T) {
	if got, err := ValidateNewsletter(" News@Letter.IO "); err != nil || got != "news@letter.io" {
		t.Fatalf("unexpected %q %v", got, err)
	}
	if _, err := ValidateNewsletter("nope"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSanitizeURL(t *testing.T) {
	if got, ok := SanitizeURL("https://example.com/a?b=c"); !ok || got != "https://example.com/a?b=c" {
		t.Fatalf("unexpected %q %v", got, ok)
	}
	for _, bad := range []string{"javascript:alert(1)", "data:text/html,hi", "/relative", "ftp://x.y"} {
		if _, ok := SanitizeURL(bad); ok {
			t.Fatalf("%q should be rejected", bad)
		}
	}
}

func TestEscapeHTML(t *testing.T) {
	got := EscapeHTML(`<a href="/x">Tom's & co</a>`)
	want := "&lt;a href=&quot;&#x2F;x&quot;&gt;Tom&#x27;s &amp; co&lt;&#x2F;a&gt;"
	if got != want {
		t.Fatalf("got %q", got)
	}
}
