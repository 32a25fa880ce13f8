package sns

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/go-otp-core/internal/config"
)

// Sender delivers verification messages via AWS SNS: direct publish to
// a phone number for SMS, publish to a platform endpoint ARN for push.
type Sender interface {
	SendSMS(ctx context.Context, to, message string) error
	SendPush(ctx context.Context, endpointARN, message string) error
}

type sender struct {
	client *sns.Client
}

func NewSender(cfg *config.Config) (Sender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &sender{client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *sender) SendSMS(ctx context.Context, to, message string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &to,
		Message:     &message,
	})
	return err
}

func (s *sender) SendPush(ctx context.Context, endpointARN, message string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		TargetArn: &endpointARN,
		Message:   &message,
	})
	return err
}
