package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	FrontendURL  string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// SendInvitationEmail sends a business invitation email with the accept link
func (s *EmailService) SendInvitationEmail(toEmail, businessName, role, token string) error {
	acceptURL := fmt.Sprintf("%s/invitations/accept?token=%s",
		s.config.FrontendURL,
		url.QueryEscape(token),
	)

	htmlContent, err := s.renderInvitationEmail(businessName, role, acceptURL)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("You've been invited to join %s", businessName)
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	return smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
}

// buildHTMLEmail builds a MIME email with HTML content
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	return msg.Bytes()
}

const invitationTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>You've been invited</h2>
  <p>You have been invited to join <strong>{{.BusinessName}}</strong> as a <strong>{{.Role}}</strong>.</p>
  <p>
    <a href="{{.AcceptURL}}" style="display:inline-block;padding:10px 20px;background:#2d7d46;color:#fff;text-decoration:none;border-radius:4px;">
      Accept Invitation
    </a>
  </p>
  <p>This invitation expires. If you weren't expecting it, you can ignore this email.</p>
</body>
</html>
`

// renderInvitationEmail renders the invitation HTML body
func (s *EmailService) renderInvitationEmail(businessName, role, acceptURL string) (string, error) {
	tmpl, err := template.New("invitation").Parse(invitationTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		BusinessName string
		Role         string
		AcceptURL    string
	}{
		BusinessName: businessName,
		Role:         role,
		AcceptURL:    acceptURL,
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
