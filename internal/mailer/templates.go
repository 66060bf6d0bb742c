package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
)

const verificationSubject = "Verify Your Email Address"

const passwordResetSubject = "Reset Your Password"

var verificationBody = template.Must(template.New("verification").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Welcome to DraftForge!</h2>
  <p>Thank you for registering. Please verify your email address by clicking the button below:</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.Link}}" style="background-color: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; display: inline-block;">Verify Email Address</a>
  </div>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">{{.Link}}</p>
  <p style="color: #666; font-size: 12px;">This link will expire in 24 hours. If you didn't create an account, please ignore this email.</p>
</div>`))

var passwordResetBody = template.Must(template.New("password_reset").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Password Reset Request</h2>
  <p>You requested to reset your password. Click the button below to reset it:</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.Link}}" style="background-color: #dc3545; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; display: inline-block;">Reset Password</a>
  </div>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">{{.Link}}</p>
  <p style="color: #666; font-size: 12px;">This link will expire in 1 hour. If you didn't request this, please ignore this email.</p>
</div>`))

// buildMessage renders the subject and HTML body for a notification.
// Verification links point at the API's browser-facing endpoint,
// password-reset links at the frontend's reset page.
func buildMessage(kind Kind, baseURL, frontendURL, token string) (subject, body string, err error) {
	var (
		link string
		tmpl *template.Template
	)

	switch kind {
	case KindVerification:
		link = baseURL + "/verify-email?token=" + url.QueryEscape(token)
		subject = verificationSubject
		tmpl = verificationBody
	case KindPasswordReset:
		link = frontendURL + "/reset-password?token=" + url.QueryEscape(token)
		subject = passwordResetSubject
		tmpl = passwordResetBody
	default:
		return "", "", fmt.Errorf("unknown notification kind %q", kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Link string }{Link: link}); err != nil {
		return "", "", fmt.Errorf("rendering %s email: %w", kind, err)
	}
	return subject, buf.String(), nil
}
