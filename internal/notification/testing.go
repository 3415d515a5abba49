package notification

import (
	"context"
	"sync"
	"time"
)

// SentOTP records a passcode handed to the capture notifier.
type SentOTP struct {
	Email string
	Name  string
	Code  string
	TTL   time.Duration
}

// Capture is a Notifier for tests: it records deliveries and can be told to
// fail on demand.
type Capture struct {
	mu       sync.Mutex
	otps     []SentOTP
	welcomes []string

	FailOTP     error
	FailWelcome error
}

// NewCapture constructs an empty capture notifier.
func NewCapture() *Capture {
	return &Capture{}
}

func (c *Capture) SendOTP(_ context.Context, email, name, code string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailOTP != nil {
		return c.FailOTP
	}
	c.otps = append(c.otps, SentOTP{Email: email, Name: name, Code: code, TTL: ttl})
	return nil
}

func (c *Capture) SendWelcome(_ context.Context, email, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailWelcome != nil {
		return c.FailWelcome
	}
	c.welcomes = append(c.welcomes, email)
	return nil
}

// LastCode returns the most recent passcode sent to the address, or "".
func (c *Capture) LastCode(email string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.otps) - 1; i >= 0; i-- {
		if c.otps[i].Email == email {
			return c.otps[i].Code
		}
	}
	return ""
}

// OTPCount returns the number of passcodes sent so far.
func (c *Capture) OTPCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.otps)
}

// WelcomeCount returns the number of welcome messages sent so far.
func (c *Capture) WelcomeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.welcomes)
}
