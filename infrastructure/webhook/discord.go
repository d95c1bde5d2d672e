package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"gridwatch/domain/entities"
	"gridwatch/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Discord embed sidebar colors.
const (
	colorRed   = 15158332
	colorGreen = 3066993
	colorGrey  = 9807270
)

type discordEmbed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Timestamp   string       `json:"timestamp"`
	Image       discordImage `json:"image"`
}

type discordImage struct {
	URL string `json:"url"`
}

type discordPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds"`
}

// DiscordNotifier delivers screenshots and alerts as Discord webhook
// messages: a payload_json part carrying the embed plus the screenshot as a
// file attachment referenced through an attachment:// URL.
type DiscordNotifier struct {
	url    string
	site   string
	client *http.Client
	logger *logrus.Logger
}

// NewDiscordNotifier - creates a Discord webhook notifier.
func NewDiscordNotifier(url, site string, timeout time.Duration, logger *logrus.Logger) *DiscordNotifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DiscordNotifier{
		url:    url,
		site:   site,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// SendReport - posts the periodic screenshot as an embed.
func (n *DiscordNotifier) SendReport(ctx context.Context, capture entities.Capture, result entities.Classification) error {
	color := colorGreen
	if result.Status == entities.StatusOffline {
		color = colorRed
	} else if result.Status == entities.StatusUnknown {
		color = colorGrey
	}

	payload := discordPayload{
		Embeds: []discordEmbed{{
			Title:       "Solar Assistant Dashboard",
			Description: fmt.Sprintf("Grid status: **%s**\n%s", result.Status, result.Reason),
			Color:       color,
			Timestamp:   capture.TakenAt.Format(time.RFC3339),
			Image:       discordImage{URL: "attachment://solar_dashboard.png"},
		}},
	}

	return n.post(ctx, payload, capture.Data)
}

// SendAlert - posts a status-change alert with a mention-worthy content line.
func (n *DiscordNotifier) SendAlert(ctx context.Context, event entities.AlertEvent, capture entities.Capture) error {
	color := colorGreen
	if event.Status == entities.StatusOffline {
		color = colorRed
	}

	payload := discordPayload{
		Content: event.Message,
		Embeds: []discordEmbed{{
			Title:       "Grid Status Alert",
			Description: fmt.Sprintf("%s\nSite: %s", event.Message, n.site),
			Color:       color,
			Timestamp:   event.ObservedAt.Format(time.RFC3339),
			Image:       discordImage{URL: "attachment://solar_dashboard.png"},
		}},
	}

	return n.post(ctx, payload, capture.Data)
}

func (n *DiscordNotifier) post(ctx context.Context, payload discordPayload, screenshot []byte) error {
	if n.url == "" {
		n.logger.Warn("Discord webhook URL not configured - skipping send")
		return nil
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal discord payload: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("payload_json", string(payloadJSON)); err != nil {
		return fmt.Errorf("failed to write payload_json: %w", err)
	}

	part, err := createImagePart(writer, "file", "solar_dashboard.png")
	if err != nil {
		return fmt.Errorf("failed to build attachment part: %w", err)
	}
	if _, err := part.Write(screenshot); err != nil {
		return fmt.Errorf("failed to write attachment: %w", err)
	}

	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, &body)
	if err != nil {
		return fmt.Errorf("failed to create discord request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("discord request failed: %w", err)
	}
	defer resp.Body.Close()

	// Discord answers 204 without ?wait=true and 200 with it.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	n.logger.Info("Discord webhook sent successfully")
	return nil
}

// createImagePart - adds a PNG file part with an explicit content type.
func createImagePart(writer *multipart.Writer, fieldName, fileName string) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fieldName, fileName))
	header.Set("Content-Type", "image/png")
	return writer.CreatePart(header)
}

var _ interfaces.Notifier = (*DiscordNotifier)(nil)
