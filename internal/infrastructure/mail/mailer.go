// Package mail sends donor-facing confirmation messages.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"text/template"

	"github.com/spendenwerk/fundraising-backend/internal/application"
	"github.com/spendenwerk/fundraising-backend/internal/config"
)

var confirmationTemplate = template.Must(template.New("confirmation").Parse(
	`To: {{.Recipient}}
From: {{.From}}
Subject: Thank you for your donation

Dear {{.FirstName}} {{.LastName}},

we received your donation of {{.Amount}} EUR (donation number {{.DonationID}}).
Thank you for your support.
`))

type confirmationData struct {
	Recipient  string
	From       string
	FirstName  string
	LastName   string
	Amount     string
	DonationID int64
}

// SMTPMailer sends confirmation mails through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
}

func NewSMTPMailer(cfg config.MailerConfig) *SMTPMailer {
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.FromAddress,
	}
}

func (m *SMTPMailer) SendConfirmation(ctx context.Context, recipient string, args application.ConfirmationArgs) error {
	if recipient == "" {
		// anonymous donations carry no address; nothing to send
		return nil
	}

	var body bytes.Buffer
	err := confirmationTemplate.Execute(&body, confirmationData{
		Recipient:  recipient,
		From:       m.from,
		FirstName:  args.FirstName,
		LastName:   args.LastName,
		Amount:     args.Amount.String(),
		DonationID: args.DonationID,
	})
	if err != nil {
		return fmt.Errorf("render confirmation mail: %w", err)
	}

	if err := smtp.SendMail(m.addr, nil, m.from, []string{recipient}, body.Bytes()); err != nil {
		return fmt.Errorf("send confirmation mail: %w", err)
	}

	return nil
}

// NullMailer discards all messages. Used in development and tests.
type NullMailer struct{}

func (NullMailer) SendConfirmation(ctx context.Context, recipient string, args application.ConfirmationArgs) error {
	return nil
}
