// Package mail delivers verification codes and password reset links.
package mail

import (
	"context"
	"fmt"
	"time"
)

// Message is a rendered plain text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender hands a message to a transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer renders localised templates and passes them to a Sender.
type Mailer struct {
	Sender  Sender
	CodeTTL time.Duration
	LinkTTL time.Duration
}

// SendVerificationCode mails a one-time email verification code.
func (m *Mailer) SendVerificationCode(ctx context.Context, to, lang, code string) error {
	tpl := templateFor(lang)
	body, err := render(tpl.code, map[string]any{
		"Code":    code,
		"Minutes": int(m.CodeTTL.Minutes()),
	})
	if err != nil {
		return fmt.Errorf("render verification mail: %w", err)
	}

	return m.Sender.Send(ctx, Message{To: to, Subject: tpl.codeSubject, Body: body})
}

// SendPasswordReset mails a password reset link.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, lang, link string) error {
	tpl := templateFor(lang)
	body, err := render(tpl.reset, map[string]any{
		"Link":    link,
		"Minutes": int(m.LinkTTL.Minutes()),
	})
	if err != nil {
		return fmt.Errorf("render reset mail: %w", err)
	}

	return m.Sender.Send(ctx, Message{To: to, Subject: tpl.resetSubject, Body: body})
}
