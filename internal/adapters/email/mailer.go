package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"eventhub/internal/domain"
)

// SESConfig holds credentials and region for AWS SES.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// MailerConfig selects and configures an outbound mail provider.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
	Logger      *slog.Logger
}

// NewMailer builds a domain.Mailer for the configured provider.
// "ses" sends through AWS SES; "noop" and anything unrecognized log
// instead of sending, which keeps local development mail-free.
func NewMailer(cfg MailerConfig) (domain.Mailer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Provider {
	case "ses":
		return newSESMailer(cfg, logger), nil
	case "noop":
		return &noopMailer{logger: logger}, nil
	default:
		logger.Warn("unknown email provider, falling back to noop", "provider", cfg.Provider)
		return &noopMailer{logger: logger}, nil
	}
}

type sesMailer struct {
	client *ses.Client
	source string
	logger *slog.Logger
}

func newSESMailer(cfg MailerConfig, logger *slog.Logger) *sesMailer {
	awsCfg := aws.Config{
		Region: cfg.SES.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.SES.AccessKeyID, cfg.SES.SecretAccessKey, ""),
		),
	}
	source := cfg.FromAddress
	if cfg.FromName != "" {
		source = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)
	}
	return &sesMailer{
		client: ses.NewFromConfig(awsCfg),
		source: source,
		logger: logger,
	}
}

func (s *sesMailer) Send(to, subject, html, text string) error {
	body := &types.Body{}
	if html != "" {
		body.Html = sesContent(html)
	}
	if text != "" {
		body.Text = sesContent(text)
	}
	input := &ses.SendEmailInput{
		Source:      aws.String(s.source),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: sesContent(subject),
			Body:    body,
		},
	}
	out, err := s.client.SendEmail(context.Background(), input)
	if err != nil {
		return fmt.Errorf("send email via ses: %w", err)
	}
	s.logger.Info("email sent", "provider", "ses", "message_id", aws.ToString(out.MessageId))
	return nil
}

func sesContent(data string) *types.Content {
	return &types.Content{Data: aws.String(data), Charset: aws.String("UTF-8")}
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(to, subject, html, text string) error {
	n.logger.Info("email suppressed", "provider", "noop", "to", to, "subject", subject)
	return nil
}
