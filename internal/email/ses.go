package email

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/phishaware/backend/internal/models"
)

// Mailer sends simulation emails via AWS SES
type Mailer struct {
	client    *ses.Client
	fromEmail string
	fromName  string
	baseURL   string
}

// NewMailer creates a new mailer using AWS SES
func NewMailer(region, fromEmail, fromName, baseURL string) (*Mailer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Mailer{
		client:    ses.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   baseURL,
	}, nil
}

// TrackingLink builds the click-tracking URL for an enrollment token
func (m *Mailer) TrackingLink(token string) string {
	return fmt.Sprintf("%s/t/%s", m.baseURL, token)
}

// SendSimulationEmail renders a campaign's template for one enrollment and
// sends it to the employee. The sender identity comes from the campaign, not
// the service default, so different campaigns can impersonate different
// senders.
func (m *Mailer) SendSimulationEmail(ctx context.Context, campaign *models.Campaign, employee *models.Employee, trackingToken string) error {
	link := m.TrackingLink(trackingToken)
	htmlBody := RenderTemplate(campaign.EmailTemplate, link, employee.Email)
	textBody := fmt.Sprintf("%s\n\nOpen the link below:\n%s\n", campaign.SubjectLine, link)

	from := m.fromEmail
	if campaign.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", campaign.SenderName, m.fromEmail)
	} else if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	}

	return m.send(ctx, from, employee.Email, campaign.SubjectLine, htmlBody, textBody)
}

// SendTestEmail sends a campaign preview to an arbitrary address with a
// non-tracking placeholder link
func (m *Mailer) SendTestEmail(ctx context.Context, campaign *models.Campaign, toEmail string) error {
	htmlBody := RenderTemplate(campaign.EmailTemplate, m.baseURL+"/t/test", toEmail)
	textBody := fmt.Sprintf("[TEST] %s\n", campaign.SubjectLine)

	from := m.fromEmail
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	}

	return m.send(ctx, from, toEmail, "[TEST] "+campaign.SubjectLine, htmlBody, textBody)
}

func (m *Mailer) send(ctx context.Context, from, to, subject, htmlBody, textBody string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
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
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
