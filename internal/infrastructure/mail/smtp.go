package mail

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Hriday2406/NoAI-Backend/internal/api/metrics"
	"github.com/Hriday2406/NoAI-Backend/internal/core/domain"
)

// ErrSMTPHostPortRequired is returned when Host/Port are missing.
var ErrSMTPHostPortRequired = errors.New("smtp host and port are required")

// SMTPConfig configures the live SMTP sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the envelope sender and From header.
	From string
}

// SMTPSender delivers OTP emails over SMTP using net/smtp.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: from,
		auth: auth,
	}, nil
}

// Send delivers the code to the recipient. A non-nil error means the message
// did not reach the transport and the caller must fail its request.
func (s *SMTPSender) Send(ctx context.Context, email, code string, purpose domain.OTPPurpose) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(s.from, email, subject(purpose), body(code, purpose))
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{email}, msg); err != nil {
		metrics.EmailErrorsTotal.Inc()
		return fmt.Errorf("smtp send: %w", err)
	}

	metrics.EmailsSentTotal.WithLabelValues("smtp").Inc()
	return nil
}

func buildMessage(from, to, subj, text string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subj)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(text)
	b.WriteString("\r\n")
	return []byte(b.String())
}
