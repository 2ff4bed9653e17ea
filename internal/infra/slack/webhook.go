package slack

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"team_rotator/internal/domain/notify"
)

type webhookPayload struct {
	Text string `json:"text"`
}

// WebhookClient posts messages to Slack incoming webhooks. The destination is the webhook URL.
type WebhookClient struct {
	http *http.Client
}

var _ notify.Client = (*WebhookClient)(nil)

func NewWebhookClient(client *http.Client) *WebhookClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &WebhookClient{http: client}
}

// SendText posts {"text": body} to the webhook. Any non-2xx response is a *notify.DeliveryError.
func (c *WebhookClient) SendText(ctx context.Context, destination, body string) error {
	payload, err := sonic.Marshal(webhookPayload{Text: body})
	if err != nil {
		return &notify.DeliveryError{Destination: destination, Detail: "encode payload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destination, bytes.NewReader(payload))
	if err != nil {
		return &notify.DeliveryError{Destination: destination, Detail: "build request", Err: withoutURL(err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &notify.DeliveryError{Destination: destination, Err: withoutURL(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &notify.DeliveryError{
			Destination: destination,
			StatusCode:  resp.StatusCode,
			Detail:      strings.TrimSpace(string(detail)),
		}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// withoutURL strips the *url.Error wrapper, whose message embeds the webhook URL and its token.
func withoutURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s request: %w", strings.ToLower(ue.Op), ue.Err)
	}
	return err
}
