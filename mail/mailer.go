package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Mailer sends outbound email. Sends are best-effort: callers fire them in a
// goroutine and log failures without propagating them.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// HTTPMailer posts messages to an HTTP mail provider API.
type HTTPMailer struct {
	apiURL string
	apiKey string
	sender string
	client *http.Client
}

// NewHTTPMailer creates an HTTPMailer.
func NewHTTPMailer(apiURL, apiKey, sender string) *HTTPMailer {
	return &HTTPMailer{
		apiURL: apiURL,
		apiKey: apiKey,
		sender: sender,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type mailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Send posts one message to the provider.
func (m *HTTPMailer) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(mailMessage{
		From:    m.sender,
		To:      to,
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}
	return nil
}

// NoopMailer drops every message. Used when no provider is configured and in
// tests.
type NoopMailer struct{}

// Send discards the message.
func (NoopMailer) Send(ctx context.Context, to, subject, body string) error {
	return nil
}
