package service

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"invoicing/config"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled email settings are switched off
var ErrEmailDisabled = errors.New("email is not enabled, set email.enabled=true")

// Attachment file sent with an email
type Attachment struct {
	Filename string
	Content  []byte
}

// EmailService sends mail through the configured SMTP server
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates an email service
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Recipient to when given, otherwise the configured accountant
func (s *EmailService) Recipient(to string) string {
	if to = strings.TrimSpace(to); to != "" {
		return to
	}
	return s.cfg.Accountant
}

// SendInvoiceExport emails a monthly invoice export file
func (s *EmailService) SendInvoiceExport(to, period string, file Attachment, rows int) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	to = s.Recipient(to)
	if to == "" {
		return invalid("to", "no recipient given and email.accountant is not set")
	}

	subject := fmt.Sprintf("GSL invoices export %s", period)
	body := s.generateInvoiceExportBody(period, file.Filename, rows)

	return s.sendEmail(s.buildMessage(to, subject, body, &file))
}

// generateInvoiceExportBody html body of the export email
func (s *EmailService) generateInvoiceExportBody(period, filename string, rows int) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <p>Hi,</p>
    <p>Attached are the invoices for <strong>%s</strong> ready for import into MYOB.</p>
    <p>File: %s (%d lines)</p>
    <p style="color: #666;">Sent by GSL invoicing</p>
</body>
</html>
`, html.EscapeString(period), html.EscapeString(filename), rows)
}

func (s *EmailService) buildMessage(to, subject, body string, file *Attachment) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if file != nil {
		content := file.Content
		m.Attach(file.Filename,
			gomail.SetHeader(map[string][]string{
				"Content-Type": {"text/tab-separated-values; charset=utf-8"},
			}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
		)
	}
	return m
}

// sendEmail delivers m over SMTP
func (s *EmailService) sendEmail(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}

// SendTestEmail sends a message confirming the SMTP settings work
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	to := s.Recipient(toEmail)
	if to == "" {
		return invalid("to", "no recipient given and email.accountant is not set")
	}

	subject := "GSL invoicing email test"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>Email settings work</h2>
    <p>If you can read this, outgoing mail is configured correctly.</p>
</body>
</html>
`
	return s.sendEmail(s.buildMessage(to, subject, body, nil))
}
