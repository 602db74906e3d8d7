// Package mailer wraps outbound SMTP delivery behind a small interface so
// handlers can be tested against a stub instead of a live server.
package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/hafizkhan902/portfolio-backend/config"
)

type Message struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(msg Message) error
}

// SMTP delivers via gomail. One dialer is reused for the process lifetime;
// gomail opens a fresh connection per Send, which is fine at contact-form
// volume.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
	name   string
}

func NewSMTP(cfg config.SMTP) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.User,
		name:   cfg.FromName,
	}
}

func (s *SMTP) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.name)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
	}
	if msg.HTML != "" {
		if msg.Text != "" {
			m.AddAlternative("text/html", msg.HTML)
		} else {
			m.SetBody("text/html", msg.HTML)
		}
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}
