package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-builder-backend/config"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// Notifier sends transactional mail.
type Notifier interface {
	Send(ctx context.Context, subject, html string, recipients []string) error
}

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// Mailer delivers mail through the Resend API. A Mailer without an API key
// or sender drops every message.
type Mailer struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
}

func NewMailer(apiKey, from string, client *http.Client) *Mailer {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Mailer{apiKey: apiKey, from: from, endpoint: resendEndpoint, client: client}
}

// NewMailerFromConfig reads RESEND_API_KEY and RESEND_FROM_EMAIL.
func NewMailerFromConfig(cfg map[string]string, client *http.Client) *Mailer {
	return NewMailer(
		config.GetString(cfg, "RESEND_API_KEY", ""),
		config.GetString(cfg, "RESEND_FROM_EMAIL", ""),
		client,
	)
}

// WithEndpoint points the mailer at another Resend-compatible URL.
func (m *Mailer) WithEndpoint(endpoint string) *Mailer {
	m.endpoint = endpoint
	return m
}

func (m *Mailer) Enabled() bool {
	return m.apiKey != "" && m.from != ""
}

// Send posts one message to the Resend API.
func (m *Mailer) Send(ctx context.Context, subject, html string, recipients []string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if !m.Enabled() {
		log.Debug().Str("subject", subject).Msg("mailer not configured, dropping email")
		return nil
	}

	payload := ResendEmailRequest{
		From:    m.from,
		To:      recipients,
		Subject: subject,
		Html:    html,
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}
