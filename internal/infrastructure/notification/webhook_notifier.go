package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// WebhookNotifier posts plain-text messages to a chat webhook. It is
// used for operational alerts such as low stock or feed shortages;
// delivery is best-effort and callers must not fail on notifier errors.
type WebhookNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
}

// webhookPayload is the message body the webhook expects
type webhookPayload struct {
	Content string `json:"content"`
}

// NewWebhookNotifier creates a webhook notifier
func NewWebhookNotifier(webhookURL string, timeout time.Duration, logger *zap.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Send posts a message to the webhook
func (n *WebhookNotifier) Send(ctx context.Context, message string) error {
	body, err := json.Marshal(webhookPayload{Content: message})
	if err != nil {
		return fmt.Errorf("notification: failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notification: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notification: webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notification: webhook returned HTTP %d", resp.StatusCode)
	}

	n.logger.Debug("webhook notification sent",
		zap.Int("status", resp.StatusCode),
	)
	return nil
}

// LoggingNotifier writes messages to the log instead of a webhook.
// Used when no webhook URL is configured.
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier creates a logging notifier
func NewLoggingNotifier(logger *zap.Logger) *LoggingNotifier {
	return &LoggingNotifier{logger: logger}
}

// Send logs the message at warn level
func (n *LoggingNotifier) Send(_ context.Context, message string) error {
	n.logger.Warn("ALERT", zap.String("message", message))
	return nil
}
