package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"oneshot-backend/internal/config"

	"github.com/rs/zerolog/log"
)

var ErrNoRecipient = errors.New("no recipient configured")

// Sender delivers e-mail.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendFunc is the signature of smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpSender struct {
	addr     string
	from     string
	auth     smtp.Auth
	sendMail SendFunc
	now      func() time.Time
}

// NewSMTPSender sends through cfg.Host:cfg.Port, with PLAIN auth when a
// username is configured.
func NewSMTPSender(cfg config.SMTPConfig) Sender {
	s := &smtpSender{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from:     cfg.From,
		sendMail: smtp.SendMail,
		now:      time.Now,
	}
	if cfg.Username != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return s
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.sendMail(s.addr, s.auth, s.from, msg.To, s.build(msg)); err != nil {
		log.Error().
			Err(err).
			Strs("to", msg.To).
			Str("smtp_addr", s.addr).
			Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("Email sent")
	return nil
}

func (s *smtpSender) build(msg Message) []byte {
	var b bytes.Buffer
	header := func(name, value string) {
		fmt.Fprintf(&b, "%s: %s\r\n", name, headerValue(value))
	}

	header("From", s.from)
	header("To", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		header("Reply-To", msg.ReplyTo)
	}
	header("Subject", msg.Subject)
	header("Date", s.now().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=UTF-8")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(msg.Body, "\r\n", "\n"), "\n", "\r\n"))
	return b.Bytes()
}

// headerValue strips line breaks so user input cannot add headers.
func headerValue(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
