package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"decor-funnel/internal/domain"
)

func TestEmailJSSend(t *testing.T) {
	var got emailJSRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	e := NewEmailJS(EmailJSConfig{
		Endpoint:  srv.URL,
		ServiceID: "svc",
		PublicKey: "pub",
		Templates: map[string]string{domain.MessageContact: "tmpl-contact"},
	})
	err := e.Send(context.Background(), domain.Message{
		Kind:   domain.MessageContact,
		To:     "hello@decor.test",
		Params: map[string]string{"from_name": "John Doe"},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.ServiceID != "svc" || got.TemplateID != "tmpl-contact" || got.UserID != "pub" {
		t.Fatalf("unexpected envelope %+v", got)
	}
	if got.TemplateParams["from_name"] != "John Doe" || got.TemplateParams["to_email"] != "hello@decor.test" {
		t.Fatalf("unexpected params %v", got.TemplateParams)
	}
}

func TestEmailJSErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "The public key is invalid", http.StatusBadRequest)
	}))
	defer srv.Close()

	e := NewEmailJS(EmailJSConfig{Endpoint: srv.URL, Templates: map[string]string{domain.MessageNewsletter: "t"}})

	err := e.Send(context.Background(), domain.Message{Kind: domain.MessageNewsletter})
	if err == nil || !strings.Contains(err.Error(), "status 400") || !strings.Contains(err.Error(), "public key") {
		t.Fatalf("expected status error with detail, got %v", err)
	}

	err = e.Send(context.Background(), domain.Message{Kind: domain.MessageInquiry})
	if err == nil || !strings.Contains(err.Error(), "no template") {
		t.Fatalf("expected missing template error, got %v", err)
	}
}

type stubSender struct {
	calls int
	err   error
}

func (s *stubSender) Send(context.Context, domain.Message) error {
	s.calls++
	return s.err
}

func TestFanout(t *testing.T) {
	primary := &stubSender{}
	mirror := &stubSender{err: errors.New("queue down")}
	f := Fanout{Primary: primary, Mirrors: []Sender{mirror}}

	if err := f.Send(context.Background(), domain.Message{Kind: "contact"}); err != nil {
		t.Fatalf("mirror failures must not surface: %v", err)
	}
	if primary.calls != 1 || mirror.calls != 1 {
		t.Fatalf("expected one call each, got %d %d", primary.calls, mirror.calls)
	}

	primary.err = errors.New("provider down")
	if err := f.Send(context.Background(), domain.Message{Kind: "contact"}); err == nil {
		t.Fatal("expected primary failure")
	}
	if mirror.calls != 1 {
		t.Fatalf("mirrors must not run after a primary failure, got %d calls", mirror.calls)
	}
}

func TestDisabledQueuePublisher(t *testing.T) {
	p, err := NewQueuePublisher("")
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	if err := p.Send(context.Background(), domain.Message{Kind: "contact"}); err != nil {
		t.Fatalf("disabled publisher should skip, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if RoutingKey(domain.MessageInquiryReceipt) != "lead.inquiry-receipt" {
		t.Fatalf("unexpected routing key %q", RoutingKey(domain.MessageInquiryReceipt))
	}
}

func TestWhatsAppLink(t *testing.T) {
	cases := []struct {
		number, text, want string
	}{
		{"+91 90000-00000", "", "https://wa.me/919000000000"},
		{"919000000000", "Hi there", "https://wa.me/919000000000?text=Hi%20there"},
		{"1", "a&b=c", "https://wa.me/1?text=a%26b%3Dc"},
	}
	for _, tc := range cases {
		if got := WhatsAppLink(tc.number, tc.text); got != tc.want {
			t.Errorf("WhatsAppLink(%q, %q) = %q, want %q", tc.number, tc.text, got, tc.want)
		}
	}
}
