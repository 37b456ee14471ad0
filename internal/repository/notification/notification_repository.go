package notification

import (
	"agriVest/domain"
	"agriVest/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pobyzaarif/goshortcute"
)

type MailjetConfig struct {
	MailjetBaseURL           string
	MailjetBasicAuthUsername string
	MailjetBasicAuthPassword string
	MailjetSenderName        string
}

type MailjetRepository struct {
	mailjetConfig MailjetConfig
	client        *http.Client
}

func NewMailjetRepository(cfg MailjetConfig) *MailjetRepository {
	return &MailjetRepository{
		mailjetConfig: cfg,
		client:        &http.Client{Timeout: 5 * time.Second},
	}
}

type payloadSendEmail struct {
	Messages []Messages `json:"Messages"`
}

type From struct {
	Email string `json:"Email"`
	Name  string `json:"Name"`
}

type To struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type Messages struct {
	From     From   `json:"From"`
	To       []To   `json:"To"`
	Subject  string `json:"Subject"`
	TextPart string `json:"TextPart"`
}

// Send delivers mail through the Mailjet v3.1 send API.
func (r *MailjetRepository) Send(ctx context.Context, mail domain.Mail) error {
	if len(mail.To) == 0 {
		return fmt.Errorf("%w: mail has no recipients", domain.ErrValidation)
	}

	url := r.mailjetConfig.MailjetBaseURL + "/v3.1/send"

	toBody := make([]To, 0, len(mail.To))
	for _, addr := range mail.To {
		toBody = append(toBody, To{Email: addr})
	}

	payload := payloadSendEmail{
		Messages: []Messages{{
			From: From{
				Email: mail.From,
				Name:  r.mailjetConfig.MailjetSenderName,
			},
			To:       toBody,
			Subject:  mail.Subject,
			TextPart: mail.Body,
		}},
	}

	payloadByte, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payloadByte)))
	if err != nil {
		return err
	}

	buildBasicAuth := goshortcute.StringtoBase64Encode(r.mailjetConfig.MailjetBasicAuthUsername + ":" + r.mailjetConfig.MailjetBasicAuthPassword)
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Basic "+buildBasicAuth)

	res, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("mailer service unreachable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return nil
	}

	bodyBytes, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	logger.Warn("Mailjet negative response", "status", res.StatusCode, "body", string(bodyBytes))

	return fmt.Errorf("mailer service return negative response %v", res.StatusCode)
}

// LogRepository writes mails to the application log instead of sending them.
// It stands in for a real transport in development.
type LogRepository struct{}

func NewLogRepository() *LogRepository {
	return &LogRepository{}
}

func (LogRepository) Send(_ context.Context, mail domain.Mail) error {
	logger.Info("Outbound mail",
		"subject", mail.Subject,
		"from", mail.From,
		"to", mail.To,
		"body", mail.Body,
	)
	return nil
}
