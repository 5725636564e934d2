package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Zachkp/folio/internal/contact"
)

func sample() contact.Submission {
	return contact.NewSubmission(contact.FormState{
		Name:    "Ada",
		Email:   "ada@example.com",
		Message: "Hello from the contact form",
	}, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestMulti_RunsAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	var calls int
	count := NotifierFunc(func(context.Context, contact.Submission) error {
		calls++
		return nil
	})
	fail := NotifierFunc(func(context.Context, contact.Submission) error {
		calls++
		return boom
	})

	err := Multi{fail, nil, count}.Notify(context.Background(), sample())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if err := (Multi{count}).Notify(context.Background(), sample()); err != nil {
		t.Errorf("err = %v, want nil", err)
	}
}

func TestLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sub := sample()
	if err := (Log{Logger: zap.New(core)}).Notify(context.Background(), sub); err != nil {
		t.Fatal(err)
	}
	entries := logs.FilterMessage("contact submission accepted").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["id"] != sub.ID {
		t.Errorf("id = %v", ctx["id"])
	}
	if _, ok := ctx["message"]; ok {
		t.Error("message body should not be logged")
	}
}

type fakeInbox struct{ got []contact.Submission }

func (f *fakeInbox) SaveMessage(_ context.Context, sub contact.Submission) error {
	f.got = append(f.got, sub)
	return nil
}

func TestStore(t *testing.T) {
	inbox := &fakeInbox{}
	sub := sample()
	if err := Store(inbox).Notify(context.Background(), sub); err != nil {
		t.Fatal(err)
	}
	if len(inbox.got) != 1 || inbox.got[0].ID != sub.ID {
		t.Errorf("inbox = %+v", inbox.got)
	}
}

func TestNewMailer_RequiresAddresses(t *testing.T) {
	if _, err := NewMailer(MailConfig{Host: "smtp.example.com"}); err == nil {
		t.Error("expected error without from/to")
	}
}

func TestMailer_BuildsMessage(t *testing.T) {
	m, err := NewMailer(MailConfig{
		Host: "smtp.example.com",
		From: "site@example.com",
		To:   "owner@example.com",
	})
	if err != nil {
		t.Fatalf("NewMailer: %v", err)
	}

	var sent *mail.Msg
	m.send = func(_ context.Context, msg *mail.Msg) error {
		sent = msg
		return nil
	}

	if err := m.Notify(context.Background(), sample()); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if sent == nil {
		t.Fatal("nothing sent")
	}

	var buf bytes.Buffer
	if _, err := sent.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	raw := buf.String()
	for _, want := range []string{
		"Portfolio Contact: Ada",
		"owner@example.com",
		"Reply-To: <ada@example.com>",
		"Name: Ada",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q:\n%s", want, raw)
		}
	}
}

func TestMailer_SendError(t *testing.T) {
	m, err := NewMailer(MailConfig{Host: "smtp.example.com", From: "site@example.com", To: "owner@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	m.send = func(context.Context, *mail.Msg) error { return errors.New("connection refused") }
	if err := m.Notify(context.Background(), sample()); err == nil || !strings.Contains(err.Error(), "send mail") {
		t.Errorf("err = %v", err)
	}
}
