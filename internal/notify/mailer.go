package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/Zachkp/folio/internal/contact"
)

// MailConfig is the SMTP account and the mailbox that receives submissions.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	Timeout  time.Duration
}

// Mailer emails each submission to the site owner, with Reply-To set to the
// visitor so a reply goes straight back to them.
type Mailer struct {
	cfg  MailConfig
	send func(ctx context.Context, m *mail.Msg) error
}

// NewMailer validates cfg and returns a Mailer.
func NewMailer(cfg MailConfig) (*Mailer, error) {
	if cfg.Host == "" || cfg.To == "" || cfg.From == "" {
		return nil, errors.New("notify: mailer needs host, from and to")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	m := &Mailer{cfg: cfg}
	m.send = m.dialAndSend
	return m, nil
}

// Notify implements Notifier.
func (m *Mailer) Notify(ctx context.Context, sub contact.Submission) error {
	msg, err := m.message(sub)
	if err != nil {
		return err
	}
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("notify: send mail: %w", err)
	}
	return nil
}

func (m *Mailer) message(sub contact.Submission) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("notify: invalid from address: %w", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return nil, fmt.Errorf("notify: invalid to address: %w", err)
	}
	// The visitor's address passed the form's structural check, which is
	// looser than RFC 5322; skip Reply-To rather than fail delivery.
	_ = msg.ReplyTo(sub.Email)

	msg.Subject("Portfolio Contact: " + sub.Name)
	msg.SetBodyString(mail.TypeTextPlain, mailBody(sub))
	return msg, nil
}

func mailBody(sub contact.Submission) string {
	return fmt.Sprintf(`New contact form submission from your portfolio:

Name: %s
Email: %s
Received: %s
Message:
%s

---
Sent from your portfolio contact form (id %s)
`, sub.Name, sub.Email, sub.ReceivedAt.Format(time.RFC1123), sub.Message, sub.ID)
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTimeout(m.cfg.Timeout),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	if m.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	c, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return c.DialAndSendWithContext(ctx, msg)
}
