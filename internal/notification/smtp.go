package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

// SMTPNotifier sends mail through a plain SMTP relay.
type SMTPNotifier struct {
	host     string
	port     string
	username string
	password string
	sender   string
	appName  string
}

// NewSMTPNotifier builds a notifier that talks to the given SMTP relay.
func NewSMTPNotifier(host, port, username, password, sender, appName string) *SMTPNotifier {
	return &SMTPNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		sender:   sender,
		appName:  appName,
	}
}

// SendOTP delivers a one-time passcode email.
func (n *SMTPNotifier) SendOTP(ctx context.Context, email, name, code string, ttl time.Duration) error {
	subject := "Your verification code"
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYour verification code is: %s\r\n\r\nThis code will expire in %d minutes.\r\nIf you didn't request this code, please ignore this email.\r\n\r\nBest regards,\r\n%s Team\r\n",
		firstName(name), code, int(ttl.Minutes()), n.appName,
	)
	return n.send(ctx, email, subject, body)
}

// SendWelcome delivers the welcome email after a successful verification.
func (n *SMTPNotifier) SendWelcome(ctx context.Context, email, name string) error {
	subject := fmt.Sprintf("Welcome to %s", n.appName)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYour email has been verified. You are all set.\r\n\r\nBest regards,\r\n%s Team\r\n",
		firstName(name), n.appName,
	)
	return n.send(ctx, email, subject, body)
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		n.appName, n.sender, to, subject, body)

	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	addr := n.host + ":" + n.port
	if err := smtp.SendMail(addr, auth, n.sender, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func firstName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "there"
	}
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}
