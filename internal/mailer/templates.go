package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome to ResumeForge, {{.Name}}!</h2>
  <p>Thanks for signing up. Use the code below to verify your email address:</p>
  <div style="background: #f4f4f5; padding: 16px; text-align: center; border-radius: 8px;">
    <span style="font-size: 32px; letter-spacing: 8px; font-weight: bold;">{{.Code}}</span>
  </div>
  <p>This code expires in 10 minutes.</p>
  <p>If you did not create an account, you can safely ignore this email.</p>
</div>`))

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Password Reset Request</h2>
  <p>Hi {{.Name}},</p>
  <p>We received a request to reset your password. Use the code below to continue:</p>
  <div style="background: #f4f4f5; padding: 16px; text-align: center; border-radius: 8px;">
    <span style="font-size: 32px; letter-spacing: 8px; font-weight: bold;">{{.Code}}</span>
  </div>
  <p>This code expires in 10 minutes.</p>
  <p>If you did not request a password reset, you can safely ignore this email.</p>
</div>`))

type templateData struct {
	Name string
	Code string
}

// VerificationEmail renders the email-verification message body.
func VerificationEmail(name, code string) (subject, body string, err error) {
	body, err = render(verificationTmpl, templateData{Name: name, Code: code})
	return "Verify your email - ResumeForge", body, err
}

// PasswordResetEmail renders the password-reset message body.
func PasswordResetEmail(name, code string) (subject, body string, err error) {
	body, err = render(passwordResetTmpl, templateData{Name: name, Code: code})
	return "Reset your password - ResumeForge", body, err
}

func render(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}
