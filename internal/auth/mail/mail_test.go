package mail

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type captureSender struct {
	sent []Message
}

func (c *captureSender) Send(_ context.Context, msg Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

func TestTemplateForMatchesLanguage(t *testing.T) {
	tests := []struct {
		lang    string
		subject string
	}{
		{"", "Your Inkwell verification code"},
		{"en", "Your Inkwell verification code"},
		{"es", "Tu código de verificación de Inkwell"},
		{"es-MX", "Tu código de verificación de Inkwell"},
		{"fr-CA", "Votre code de vérification Inkwell"},
		{"de-DE,de;q=0.9,en;q=0.8", "Dein Inkwell-Bestätigungscode"},
		{"ja", "Your Inkwell verification code"},
		{"not a language", "Your Inkwell verification code"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			require.Equal(t, tt.subject, templateFor(tt.lang).codeSubject)
		})
	}
}

func TestMailerRendersCode(t *testing.T) {
	sender := &captureSender{}
	m := &Mailer{Sender: sender, CodeTTL: 10 * time.Minute, LinkTTL: 30 * time.Minute}

	require.NoError(t, m.SendVerificationCode(context.Background(), "b@x.com", "en", "012345"))
	require.Len(t, sender.sent, 1)
	require.Equal(t, "b@x.com", sender.sent[0].To)
	require.Contains(t, sender.sent[0].Body, "012345")
	require.Contains(t, sender.sent[0].Body, "10 minutes")
}

func TestMailerRendersResetLink(t *testing.T) {
	sender := &captureSender{}
	m := &Mailer{Sender: sender, CodeTTL: 10 * time.Minute, LinkTTL: 30 * time.Minute}

	link := "https://app.example/reset-password?token=abc.def.ghi"
	require.NoError(t, m.SendPasswordReset(context.Background(), "a@x.com", "fr", link))
	require.Len(t, sender.sent, 1)
	require.Equal(t, "Réinitialisez votre mot de passe Inkwell", sender.sent[0].Subject)
	require.Contains(t, sender.sent[0].Body, link)
	require.Contains(t, sender.sent[0].Body, "30 minutes")
}

func TestSMTPCompose(t *testing.T) {
	s := &SMTPSender{Host: "smtp.example", Port: 587, From: "no-reply@inkwell.app"}
	raw := string(s.compose(Message{To: "a@x.com", Subject: "Réinitialisez", Body: "line one\nline two"}))

	require.Contains(t, raw, "From: no-reply@inkwell.app\r\n")
	require.Contains(t, raw, "To: a@x.com\r\n")
	require.Contains(t, raw, "Subject: =?utf-8?q?")
	require.True(t, strings.HasSuffix(raw, "\r\n\r\nline one\r\nline two"))
}

func TestSMTPSendHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &SMTPSender{Host: "127.0.0.1", Port: 1}
	require.ErrorIs(t, s.Send(ctx, Message{To: "a@x.com"}), context.Canceled)
}

func TestLogSender(t *testing.T) {
	require.NoError(t, LogSender{}.Send(context.Background(), Message{To: "a@x.com"}))
}
