// Package delivery hands prepared visitor messages to outside providers: the EmailJS
// REST API, a RabbitMQ exchange for downstream consumers, and WhatsApp deep links.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"decor-funnel/internal/domain"
)

const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSConfig names the EmailJS account and which template renders each message kind.
type EmailJSConfig struct {
	Endpoint    string
	ServiceID   string
	PublicKey   string
	AccessToken string
	Templates   map[string]string
	Timeout     time.Duration
}

// EmailJS sends templated email through the EmailJS REST API.
type EmailJS struct {
	cfg    EmailJSConfig
	client *http.Client
}

func NewEmailJS(cfg EmailJSConfig) *EmailJS {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEmailJSEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &EmailJS{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
	AccessToken    string            `json:"accessToken,omitempty"`
}

func (e *EmailJS) Send(ctx context.Context, msg domain.Message) error {
	tmpl, ok := e.cfg.Templates[msg.Kind]
	if !ok || tmpl == "" {
		return fmt.Errorf("emailjs: no template for %q", msg.Kind)
	}
	params := make(map[string]string, len(msg.Params)+1)
	for k, v := range msg.Params {
		params[k] = v
	}
	if msg.To != "" {
		params["to_email"] = msg.To
	}

	body, err := json.Marshal(emailJSRequest{
		ServiceID:      e.cfg.ServiceID,
		TemplateID:     tmpl,
		UserID:         e.cfg.PublicKey,
		TemplateParams: params,
		AccessToken:    e.cfg.AccessToken,
	})
	if err != nil {
		return fmt.Errorf("emailjs: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("emailjs: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("emailjs: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
