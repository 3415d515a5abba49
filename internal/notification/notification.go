// Package notification delivers OTP and welcome emails. The auth flow owns
// the failure policy (swallow vs propagate); implementations only report.
package notification

import (
	"context"
	"log/slog"
	"time"
)

// Notifier delivers account emails to users.
type Notifier interface {
	// SendOTP delivers a one-time passcode valid for the given duration.
	SendOTP(ctx context.Context, email, name, code string, ttl time.Duration) error
	// SendWelcome delivers the post-verification welcome message.
	SendWelcome(ctx context.Context, email, name string) error
}

// SlogNotifier writes notifications to the structured logger instead of
// sending mail. Default in development and tests.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier constructs a logging notifier.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger}
}

// SendOTP logs the passcode delivery.
func (n *SlogNotifier) SendOTP(_ context.Context, email, name, code string, ttl time.Duration) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("otp email", "to", email, "name", name, "code", code, "valid_for", ttl.String())
	return nil
}

// SendWelcome logs the welcome delivery.
func (n *SlogNotifier) SendWelcome(_ context.Context, email, name string) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("welcome email", "to", email, "name", name)
	return nil
}
