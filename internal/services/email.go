package services

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"github.com/dimitrije/volunteer-api/internal/config"
)

type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

// Send is a no-op when SMTP is not configured.
func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, s.buildMessage(to, subject, body))
}

func (s *EmailService) buildMessage(to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

func (s *EmailService) SendEventInvite(to, eventName, eventDate, location, eventURL string) error {
	subject := fmt.Sprintf("You've been invited to volunteer at %s", eventName)
	return s.Send(to, subject, eventInviteBody(eventName, eventDate, location, eventURL))
}

func eventInviteBody(eventName, eventDate, location, eventURL string) string {
	return fmt.Sprintf(`
		<html>
		<body>
			<h2>Volunteer Invitation</h2>
			<p>Hi,</p>
			<p>You have been invited to volunteer at <strong>%s</strong> on %s.</p>
			<p>Location: %s</p>
			<p><a href="%s">Review the event and respond to this invitation</a></p>
		</body>
		</html>
	`, html.EscapeString(eventName), html.EscapeString(eventDate), html.EscapeString(location), eventURL)
}
