package service

import (
	"context"
	"time"
)

// Notifier delivers secrets to the owner of an email address. Implemented by
// mail.Mailer.
type Notifier interface {
	SendVerificationCode(ctx context.Context, to, lang, code string) error
	SendPasswordReset(ctx context.Context, to, lang, link string) error
}

// clock returns now in UTC, using fn when set.
func clock(fn func() time.Time) time.Time {
	if fn == nil {
		return time.Now().UTC()
	}
	return fn().UTC()
}
