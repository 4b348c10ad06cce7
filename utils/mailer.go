package utils

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/wneessen/go-mail"
)

var ErrMailerNotConfigured = errors.New("smtp credentials are not configured")

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
}

// MailConfigFromEnv defaults to the Gmail relay.
func MailConfigFromEnv() MailConfig {
	return MailConfig{
		Host:     EnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		Port:     EnvIntOrDefault("SMTP_PORT", 587),
		Username: EnvOrDefault("SMTP_USERNAME", ""),
		Password: EnvOrDefault("SMTP_PASSWORD", ""),
		FromName: EnvOrDefault("SMTP_FROM_NAME", "Misafirhane Rezervasyon"),
	}
}

type Mailer struct {
	cfg MailConfig
}

func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Configured() bool {
	return m.cfg.Username != "" && m.cfg.Password != "" && m.cfg.Host != ""
}

// Send returns ErrMailerNotConfigured when credentials are missing; any other
// failure is logged and reported as false.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) (bool, error) {
	if !m.Configured() {
		return false, ErrMailerNotConfigured
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.Username); err != nil {
		log.Printf("❌ email: invalid from address: %v", err)
		return false, nil
	}
	if err := msg.To(safe(to)); err != nil {
		log.Printf("❌ email: invalid recipient %s: %v", to, err)
		return false, nil
	}
	msg.Subject(safe(subject))
	msg.SetBodyString(mail.TypeTextPlain, body)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody(subject, body))

	client, err := mail.NewClient(
		m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		log.Printf("❌ email: could not initialize smtp client: %v", err)
		return false, nil
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		log.Printf("❌ email to %s failed: %v", to, err)
		return false, nil
	}

	log.Printf("✅ email sent to %s", to)
	return true, nil
}

func htmlBody(title, text string) string {
	paragraphs := strings.Split(strings.TrimSpace(text), "\n\n")
	var sb strings.Builder
	for _, p := range paragraphs {
		sb.WriteString("<p>")
		sb.WriteString(strings.ReplaceAll(html.EscapeString(p), "\n", "<br>"))
		sb.WriteString("</p>\n")
	}
	return fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222; }
.card { max-width:640px; margin:20px auto; background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px; }
</style>
</head>
<body>
<div class="card">
%s</div>
</body>
</html>`, html.EscapeString(title), sb.String())
}
