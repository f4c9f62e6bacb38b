package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"github.com/poc3/api-backend/internal/models"
	"github.com/poc3/api-backend/internal/templates"
)

// Mailer delivers a rendered email
type Mailer interface {
	Send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error
}

// sesSender is the part of the SES v2 client used for sending
type sesSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer sends email via AWS SES
type SESMailer struct {
	client    sesSender
	fromEmail string
	logger    *zap.Logger
}

// EmailConfig holds configuration for the SES mailer
type EmailConfig struct {
	// FromEmail is the email address that will appear in the From field
	FromEmail string
	// Region is the AWS region for SES (e.g., "us-east-1", "eu-west-1")
	Region string
}

// NewSESMailer creates a mailer using the default AWS credentials chain
// (environment variables, shared config file, then instance role)
func NewSESMailer(ctx context.Context, cfg *EmailConfig, logger *zap.Logger) (*SESMailer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("email config is required")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESMailer{
		client:    sesv2.NewFromConfig(awsCfg),
		fromEmail: cfg.FromEmail,
		logger:    logger,
	}, nil
}

// Send implements Mailer
func (m *SESMailer) Send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	if toEmail == "" {
		return fmt.Errorf("recipient email is required")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.fromEmail),
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

	result, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("SES SendEmail failed: %w", err)
	}

	if result.MessageId != nil {
		m.logger.Info("email sent", zap.String("to", toEmail), zap.String("message_id", *result.MessageId))
	}

	return nil
}

// AlertService emails the operator when a target changes status
type AlertService struct {
	mailer    Mailer
	toEmail   string
	templates *templates.TemplateRenderer
}

// NewAlertService creates an alert service delivering to toEmail through mailer
func NewAlertService(mailer Mailer, toEmail string, renderer *templates.TemplateRenderer) (*AlertService, error) {
	if mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	if toEmail == "" {
		return nil, fmt.Errorf("alert recipient is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("template renderer is required")
	}

	return &AlertService{
		mailer:    mailer,
		toEmail:   toEmail,
		templates: renderer,
	}, nil
}

// NotifyTransition sends one alert for a target whose status differs from previous
func (s *AlertService) NotifyTransition(ctx context.Context, previous string, current models.ServiceResult, checkedAt time.Time) error {
	data := templates.NewStatusChangeData(previous, current, checkedAt)

	htmlBody, err := s.templates.RenderStatusChangeHTML(data)
	if err != nil {
		return fmt.Errorf("failed to render HTML template: %w", err)
	}

	textBody, err := s.templates.RenderStatusChangeText(data)
	if err != nil {
		return fmt.Errorf("failed to render text template: %w", err)
	}

	if err := s.mailer.Send(ctx, s.toEmail, templates.StatusChangeSubject(data), htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send alert for %s: %w", current.Name, err)
	}

	return nil
}
