package interfaces

import (
	"context"

	"gridwatch/domain/entities"
)

// Notifier delivers screenshots and alerts to an outbound webhook.
type Notifier interface {
	// SendReport delivers the periodic screenshot with its classification.
	SendReport(ctx context.Context, capture entities.Capture, result entities.Classification) error

	// SendAlert delivers a status-change alert, attaching the screenshot
	// that triggered it.
	SendAlert(ctx context.Context, event entities.AlertEvent, capture entities.Capture) error
}
