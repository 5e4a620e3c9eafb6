// Package mail delivers account notifications over SMTP. Delivery is
// best-effort: callers treat failures as non-fatal and record them to the
// audit trail instead of surfacing them.
package mail

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string // optional; AUTH is skipped when empty
	Password string
	From     string
	AppURL   string // base URL used to build links in mail bodies
}

// Mailer sends account mails via a single SMTP host using STARTTLS when the
// server offers it (smtp.SendMail negotiates this automatically).
type Mailer struct {
	cfg Config
}

func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendPasswordReset mails a reset link containing the raw token.
func (m *Mailer) SendPasswordReset(toEmail, username, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", m.cfg.AppURL, token)

	text := fmt.Sprintf(`Hello %s,

You have requested a password reset for your workout tracker account.

Copy and paste this link to reset your password:
%s

This link will expire in 1 hour.

If you did not request this reset, please ignore this email.`, username, resetURL)

	html := fmt.Sprintf(`<html><body>
<h2>Password Reset Request</h2>
<p>Hello %s,</p>
<p>You have requested a password reset for your workout tracker account.</p>
<p><a href="%s">Reset Password</a></p>
<p>This link will expire in 1 hour.</p>
<p>If you did not request this reset, please ignore this email.</p>
</body></html>`, username, resetURL)

	return m.send(toEmail, "Password Reset - Workout Tracker", text, html)
}

// SendAccountCreated mails initial credentials for an admin-provisioned
// account. The recipient must change the password on first login.
func (m *Mailer) SendAccountCreated(toEmail, username, tempPassword string) error {
	text := fmt.Sprintf(`Hello %s,

An administrator has created an account for you.

Your login credentials:
Username: %s
Temporary Password: %s

Login at: %s

IMPORTANT: You will be required to change your password on first login.`,
		username, username, tempPassword, m.cfg.AppURL)

	html := fmt.Sprintf(`<html><body>
<h2>Welcome to Workout Tracker</h2>
<p>Hello %s,</p>
<p>An administrator has created an account for you.</p>
<p><strong>Your login credentials:</strong></p>
<ul><li>Username: %s</li><li>Temporary Password: %s</li></ul>
<p><a href="%s">Login to Workout Tracker</a></p>
<p><strong>IMPORTANT:</strong> You will be required to change your password on first login.</p>
</body></html>`, username, username, tempPassword, m.cfg.AppURL)

	return m.send(toEmail, "Your Workout Tracker Account - Action Required", text, html)
}

func (m *Mailer) send(to, subject, text, html string) error {
	const boundary = "liftlog-alt-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	// Plain text part first so clients without HTML fall back to it.
	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(text)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}
