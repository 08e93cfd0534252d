package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"camdencare/reference-checker/internal/config"
	"camdencare/reference-checker/internal/models"
)

// ReferenceInvite carries everything one outbound reference-request email
// needs. Values are copies taken at dispatch time.
type ReferenceInvite struct {
	RequestID      uuid.UUID
	ReferenceName  string
	ReferenceEmail string
	CandidateName  string
	Role           string
	Organization   string
	Questions      []string
}

type MailerService interface {
	SendReferenceRequest(ctx context.Context, invite ReferenceInvite) error
	Enabled() bool
}

type smtpMailer struct {
	dialer     *gomail.Dialer
	from       string
	appBaseURL string
	enabled    bool
}

func NewSMTPMailer(cfg config.SMTPConfig) MailerService {
	enabled := cfg.User != "" && cfg.Password != ""

	return &smtpMailer{
		dialer:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:       cfg.From,
		appBaseURL: cfg.AppBaseURL,
		enabled:    enabled,
	}
}

func (m *smtpMailer) Enabled() bool {
	return m.enabled
}

// SendReferenceRequest implements MailerService.
func (m *smtpMailer) SendReferenceRequest(ctx context.Context, invite ReferenceInvite) error {
	if !m.enabled {
		return models.NewCollaboratorError("email service is not configured", nil)
	}

	if invite.ReferenceEmail == "" {
		return models.NewValidationError("reference email is required")
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	formURL := fmt.Sprintf("%s/reference-form/%s", strings.TrimRight(m.appBaseURL, "/"), invite.RequestID)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", invite.ReferenceEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Reference Check Request for %s - %s", invite.CandidateName, invite.Organization))
	msg.SetBody("text/plain", m.textBody(invite, formURL))
	msg.AddAlternative("text/html", m.htmlBody(invite, formURL))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return models.NewCollaboratorError(fmt.Sprintf("failed to send email to %s", invite.ReferenceEmail), err)
	}

	return nil
}

func (m *smtpMailer) textBody(invite ReferenceInvite, formURL string) string {
	var questions strings.Builder
	for i, q := range invite.Questions {
		questions.WriteString(fmt.Sprintf("%d. %s\n", i+1, q))
	}

	return fmt.Sprintf(`Dear %s,

We hope this message finds you well.

%s has listed you as a reference for the position of %s at %s.
We would greatly appreciate your feedback to help us in our evaluation process.

Please use this link to complete the reference form:
%s

The form covers the following questions:
%s
Your responses will be kept confidential and will only be used for evaluating %s's suitability for this position.

Thank you for your time and assistance.

Best regards,
%s Hiring Team

Reference ID: %s
`,
		invite.ReferenceName,
		invite.CandidateName,
		invite.Role,
		invite.Organization,
		formURL,
		questions.String(),
		invite.CandidateName,
		invite.Organization,
		invite.RequestID,
	)
}

func (m *smtpMailer) htmlBody(invite ReferenceInvite, formURL string) string {
	var questions strings.Builder
	for _, q := range invite.Questions {
		questions.WriteString(fmt.Sprintf("<li>%s</li>", q))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #f8f9fa; padding: 20px; border-radius: 5px;">
      <h2>Reference Check Request</h2>
    </div>
    <p>Dear %s,</p>
    <p><strong>%s</strong> has listed you as a reference for the position of
    <strong>%s</strong> at <strong>%s</strong>. We would greatly appreciate your
    feedback to help us in our evaluation process.</p>
    <p><a href="%s" style="background: #0d6efd; color: #fff; padding: 10px 20px; border-radius: 5px; text-decoration: none;">Complete the reference form</a></p>
    <p>The form covers the following questions:</p>
    <ol>%s</ol>
    <p>Your responses will be kept confidential and will only be used for
    evaluating %s's suitability for this position.</p>
    <p>Best regards,<br/>%s Hiring Team</p>
    <p style="color: #888; font-size: 12px;">Reference ID: %s</p>
  </div>
</body>
</html>`,
		invite.ReferenceName,
		invite.CandidateName,
		invite.Role,
		invite.Organization,
		formURL,
		questions.String(),
		invite.CandidateName,
		invite.Organization,
		invite.RequestID,
	)
}
