package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	pkglogger "github.com/precure-app/precure-api/pkg/logger"
)

// EmailService defines the interface for sending emails
type EmailService interface {
	SendPasswordResetCode(ctx context.Context, email, name, code string, ttl time.Duration) error
}

// AWSSESEmailService sends emails using AWS SES
type AWSSESEmailService struct {
	sesClient   *ses.Client
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

// NewAWSSESEmailService creates a new AWS SES email service
func NewAWSSESEmailService(region, fromAddress, fromName string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
		logger:      logger,
	}, nil
}

// SendPasswordResetCode emails a one-time password reset code to the account
// holder. The plaintext code appears only here and in the HTTP request that
// eventually redeems it.
func (s *AWSSESEmailService) SendPasswordResetCode(ctx context.Context, email, name, code string, ttl time.Duration) error {
	expiry := formatTTL(ttl)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body>
    <h1>Password Reset</h1>
    <p>Hello %s,</p>
    <p>You requested a password reset. Please use the following code to reset your password:</p>
    <h2 style="background-color: #f4f4f4; padding: 10px; display: inline-block;">%s</h2>
    <p>This code will expire in %s.</p>
    <p>If you didn't request a password reset, please ignore this email.</p>
    <p>Thank you,</p>
    <p>%s Team</p>
</body>
</html>
`, name, code, expiry, s.fromName)

	textBody := fmt.Sprintf(`Password Reset

Hello %s,

You requested a password reset. Please use the following code to reset your password:

%s

This code will expire in %s.

If you didn't request a password reset, please ignore this email.

Thank you,
%s Team
`, name, code, expiry, s.fromName)

	input := &ses.SendEmailInput{
		Source: aws.String(fmt.Sprintf("%q <%s>", s.fromName, s.fromAddress)),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(fmt.Sprintf("%s Reset Password", s.fromName)),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send password reset email via SES",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("password reset email sent",
		slog.String("email", pkglogger.SanitizedEmail(email)),
		slog.String("message_id", *result.MessageId))

	return nil
}

func formatTTL(ttl time.Duration) string {
	minutes := int(ttl.Minutes())
	if minutes <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
