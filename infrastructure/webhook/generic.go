package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"gridwatch/domain/entities"
	"gridwatch/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const placeholderURL = "https://your-webhook-url-here.com/webhook"

// GenericNotifier posts the screenshot as a multipart upload with a small
// set of metadata fields, for plain HTTP webhook receivers.
type GenericNotifier struct {
	url    string
	site   string
	client *http.Client
	logger *logrus.Logger
}

// NewGenericNotifier - creates a multipart webhook notifier.
func NewGenericNotifier(url, site string, timeout time.Duration, logger *logrus.Logger) *GenericNotifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GenericNotifier{
		url:    url,
		site:   site,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// SendReport - uploads the periodic screenshot with its classification.
func (n *GenericNotifier) SendReport(ctx context.Context, capture entities.Capture, result entities.Classification) error {
	fields := map[string]string{
		"timestamp": capture.TakenAt.Format(time.RFC3339),
		"source":    "gridwatch",
		"site":      n.site,
		"status":    string(result.Status),
	}
	return n.post(ctx, capture.Data, fields)
}

// SendAlert - uploads the triggering screenshot with the alert message.
func (n *GenericNotifier) SendAlert(ctx context.Context, event entities.AlertEvent, capture entities.Capture) error {
	fields := map[string]string{
		"timestamp": event.ObservedAt.Format(time.RFC3339),
		"source":    "gridwatch",
		"site":      n.site,
		"status":    string(event.Status),
		"previous":  string(event.Previous),
		"message":   event.Message,
	}
	return n.post(ctx, capture.Data, fields)
}

func (n *GenericNotifier) post(ctx context.Context, screenshot []byte, fields map[string]string) error {
	if n.url == "" || n.url == placeholderURL {
		n.logger.Warn("Webhook URL not configured - skipping webhook send")
		return nil
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := createImagePart(writer, "file", "solar_dashboard.png")
	if err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(screenshot); err != nil {
		return fmt.Errorf("failed to write screenshot part: %w", err)
	}

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, &body)
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	n.logger.Info("Webhook sent successfully")
	return nil
}

var _ interfaces.Notifier = (*GenericNotifier)(nil)
