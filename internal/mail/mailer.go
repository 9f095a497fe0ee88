package mail

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"origiganics/api/internal/config"
)

// Sender delivers transactional mail to a single recipient.
type Sender interface {
	Send(to string, subject string, body string) error
}

type SMTPSender struct {
	cfg config.SMTPConfig
	log zerolog.Logger
}

func NewSMTPSender(cfg config.SMTPConfig, log zerolog.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log}
}

func (s *SMTPSender) Send(to string, subject string, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	s.log.Debug().Str("to", to).Str("subject", subject).Msg("mail sent")
	return nil
}

func VerificationCodeBody(code string) string {
	return fmt.Sprintf(
		`<p>Welcome to Origiganics by Wallian!</p>
<p>Your email verification code is <strong>%s</strong>. It expires in 10 minutes.</p>`, code)
}

func PasswordResetBody(link string) string {
	return fmt.Sprintf(
		`<p>We received a request to reset your Origiganics password.</p>
<p><a href="%s">Reset your password</a>. The link expires in 1 hour.</p>
<p>If you did not request this, you can ignore this email.</p>`, link)
}
