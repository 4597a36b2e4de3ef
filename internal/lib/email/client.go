// Package email sends transactional email through Resend. Bodies are
// rendered from embedded HTML templates.
package email

import (
	"fmt"

	"github.com/deppfellow/sales-org-service/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

const (
	defaultFromName    = "Sales Org Service"
	defaultFromAddress = "onboarding@resend.dev"
)

// Sender is the part of the Resend emails API the client needs.
type Sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client wraps the Resend client and a logger.
type Client struct {
	sender Sender
	from   string
	logger *zerolog.Logger
}

// NewClient creates an email Client. Without a Resend API key the client
// is disabled: sends are logged and dropped.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	from := cfg.Integration.EmailFrom
	if from == "" {
		from = defaultFromAddress
	}

	c := &Client{
		from:   fmt.Sprintf("%s <%s>", defaultFromName, from),
		logger: logger,
	}
	if cfg.Integration.ResendAPIKey != "" {
		c.sender = resend.NewClient(cfg.Integration.ResendAPIKey).Emails
	}
	return c
}

// NewClientWithSender builds a Client on an explicit sender.
func NewClientWithSender(sender Sender, from string, logger *zerolog.Logger) *Client {
	return &Client{sender: sender, from: from, logger: logger}
}

// Enabled reports whether the client can deliver mail.
func (c *Client) Enabled() bool {
	return c.sender != nil
}

// SendEmail renders templateName with data and sends it to a single
// recipient.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	body, err := Render(templateName, data)
	if err != nil {
		return err
	}

	if !c.Enabled() {
		c.logger.Warn().
			Str("to", to).
			Str("template", string(templateName)).
			Msg("email delivery disabled, dropping message")
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}

	if _, err := c.sender.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
