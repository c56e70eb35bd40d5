package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"eventhubconnect/internal/domain"
)

// SESConfig holds AWS SES credentials and region.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// MailerConfig selects and configures the outbound mail provider.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// NewMailer builds a Mailer for the configured provider. "ses" sends through
// AWS SES; anything else logs instead of sending, which is the dev default.
func NewMailer(cfg MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	switch cfg.Provider {
	case "ses":
		awsCfg := aws.Config{
			Region: cfg.SES.Region,
			Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
				cfg.SES.AccessKeyID, cfg.SES.SecretAccessKey, "",
			)),
		}
		return &sesMailer{
			client: ses.NewFromConfig(awsCfg),
			from:   formatFrom(cfg.FromName, cfg.FromAddress),
			logger: logger,
		}, nil
	case "noop", "":
		return &noopMailer{logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

func formatFrom(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

type sesMailer struct {
	client *ses.Client
	from   string
	logger *slog.Logger
}

func (s *sesMailer) Send(to, subject, html, text string) error {
	content := func(data string) *types.Content {
		return &types.Content{Data: aws.String(data), Charset: aws.String("UTF-8")}
	}
	body := &types.Body{}
	if html != "" {
		body.Html = content(html)
	}
	if text != "" {
		body.Text = content(text)
	}
	out, err := s.client.SendEmail(context.Background(), &ses.SendEmailInput{
		Source:      aws.String(s.from),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: content(subject),
			Body:    body,
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	s.logger.Info("email sent", "to", to, "message_id", aws.ToString(out.MessageId))
	return nil
}

// noopMailer logs what would have been sent. Used in development and tests.
type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(to, subject, html, text string) error {
	n.logger.Info("email suppressed (noop provider)", "to", to, "subject", subject)
	return nil
}
