package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"tinysteps/internal/models"
)

// Notifier tells parents about consent and data deletion events
type Notifier interface {
	ConsentRecorded(ctx context.Context, parent models.Parent, consent models.Consent) error
	DeletionQueued(ctx context.Context, parent models.Parent, request models.DeletionRequest) error
}

// sesSender is the part of the SES client the email service uses
type sesSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService sends parent notifications via Amazon SES
type EmailService struct {
	client     sesSender
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
	logger     *slog.Logger
}

// NewEmailService creates a new email service. An empty fromEmail yields a
// disabled service that skips every send.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, debug bool, logger *slog.Logger) (*EmailService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if fromEmail == "" {
		logger.Info("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug, logger: logger}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info("email service enabled", "from", fromEmail, "region", awsRegion)

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
		logger:     logger,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// ConsentRecorded sends the parent a receipt of their consent
func (s *EmailService) ConsentRecorded(ctx context.Context, parent models.Parent, consent models.Consent) error {
	subject := "Your TinySteps consent receipt"
	textBody := fmt.Sprintf(`Hello,

Thank you for giving consent for your child to learn with TinySteps.

Market: %s
Accepted at: %s

You can request deletion of your child's data at any time from %s.

---
This is an automated email from TinySteps. Please do not reply.
`, consent.Market, consent.AcceptedAt.Format("2 Jan 2006 15:04 MST"), s.appBaseURL)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<h2>Consent receipt</h2>
	<p>Thank you for giving consent for your child to learn with TinySteps.</p>
	<p><strong>Market:</strong> %s<br><strong>Accepted at:</strong> %s</p>
	<p>You can request deletion of your child's data at any time from <a href="%s">your dashboard</a>.</p>
	<p style="font-size: 12px; color: #666;">This is an automated email from TinySteps. Please do not reply.</p>
</body>
</html>
`, consent.Market, consent.AcceptedAt.Format("2 Jan 2006 15:04 MST"), s.appBaseURL)

	return s.send(ctx, parent, subject, htmlBody, textBody)
}

// DeletionQueued confirms that a data deletion request was received
func (s *EmailService) DeletionQueued(ctx context.Context, parent models.Parent, request models.DeletionRequest) error {
	subject := "We received your data deletion request"
	textBody := fmt.Sprintf(`Hello,

We received your request to delete your child's learning data.

Request reference: %s
Requested at: %s

The request is queued and will be processed shortly. No further action is needed.

---
This is an automated email from TinySteps. Please do not reply.
`, request.ID, request.RequestedAt.Format("2 Jan 2006 15:04 MST"))

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<h2>Data deletion request received</h2>
	<p>We received your request to delete your child's learning data.</p>
	<p><strong>Request reference:</strong> %s<br><strong>Requested at:</strong> %s</p>
	<p>The request is queued and will be processed shortly. No further action is needed.</p>
	<p style="font-size: 12px; color: #666;">This is an automated email from TinySteps. Please do not reply.</p>
</body>
</html>
`, request.ID, request.RequestedAt.Format("2 Jan 2006 15:04 MST"))

	return s.send(ctx, parent, subject, htmlBody, textBody)
}

func (s *EmailService) send(ctx context.Context, parent models.Parent, subject, htmlBody, textBody string) error {
	if !s.enabled {
		if s.debug {
			s.logger.Debug("skipping email send (service disabled)", "parent_id", parent.ID, "subject", subject)
		}
		return nil
	}
	if parent.Email == "" {
		// Phone-only parents have no address to write to.
		s.logger.Debug("skipping email send: parent has no email", "parent_id", parent.ID)
		return nil
	}
	return s.sendEmail(ctx, parent.Email, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		s.logger.Debug("sending email", "from", fromAddress, "to", toEmail, "subject", subject, "html_bytes", len(htmlBody))
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent", "to", toEmail, "message_id", aws.ToString(result.MessageId))
	return nil
}
