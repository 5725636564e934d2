// Package notify delivers accepted contact submissions.
package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/contact"
)

// Notifier is told about every accepted submission.
type Notifier interface {
	Notify(ctx context.Context, sub contact.Submission) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, sub contact.Submission) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, sub contact.Submission) error {
	return f(ctx, sub)
}

// Multi runs every notifier in order and joins their errors. A failing
// notifier does not stop the ones after it.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, sub contact.Submission) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, sub); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Log records the submission in the application log. The message body is
// left out; only its length is logged.
type Log struct {
	Logger *zap.Logger
}

// Notify implements Notifier.
func (l Log) Notify(_ context.Context, sub contact.Submission) error {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("contact submission accepted",
		zap.String("id", sub.ID),
		zap.String("name", sub.Name),
		zap.String("email", sub.Email),
		zap.Int("message_len", len(sub.Message)),
	)
	return nil
}

// Inbox is where submissions are kept for the admin dashboard.
type Inbox interface {
	SaveMessage(ctx context.Context, sub contact.Submission) error
}

// Store returns a Notifier that saves submissions into inbox.
func Store(inbox Inbox) Notifier {
	return NotifierFunc(func(ctx context.Context, sub contact.Submission) error {
		return inbox.SaveMessage(ctx, sub)
	})
}
