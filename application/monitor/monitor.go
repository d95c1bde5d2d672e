package monitor

import (
	"context"
	"fmt"
	"time"

	"gridwatch/application/classifier"
	"gridwatch/domain/entities"
	"gridwatch/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Archiver persists the raw screenshot of a cycle for later inspection.
type Archiver interface {
	SaveCapture(data []byte, takenAt time.Time) (string, error)
}

// Monitor runs the capture-classify-alert cycle against the dashboard.
// One cycle at a time, a fresh browser session per cycle.
type Monitor struct {
	newBrowser interfaces.BrowserFactory
	classifier *classifier.Classifier
	notifier   interfaces.Notifier
	store      interfaces.StatusStore
	archive    Archiver
	policy     AlertPolicy
	logger     *logrus.Logger

	creds      entities.Credentials
	settleWait time.Duration

	now func() time.Time
}

// Config carries the monitor wiring.
type Config struct {
	Credentials entities.Credentials
	SettleWait  time.Duration
	Policy      AlertPolicy
}

// New - creates a monitor instance.
func New(
	newBrowser interfaces.BrowserFactory,
	cls *classifier.Classifier,
	notifier interfaces.Notifier,
	store interfaces.StatusStore,
	archive Archiver,
	cfg Config,
	logger *logrus.Logger,
) *Monitor {
	if cfg.SettleWait <= 0 {
		cfg.SettleWait = 10 * time.Second
	}

	return &Monitor{
		newBrowser: newBrowser,
		classifier: cls,
		notifier:   notifier,
		store:      store,
		archive:    archive,
		policy:     cfg.Policy,
		logger:     logger,
		creds:      cfg.Credentials,
		settleWait: cfg.SettleWait,
		now:        time.Now,
	}
}

// RunCycle executes one complete monitoring cycle. Any failure aborts this
// cycle only; the previous status record is left untouched.
func (m *Monitor) RunCycle(ctx context.Context) error {
	m.logger.Info("Starting capture cycle")

	previous, err := m.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load status record: %w", err)
	}

	capture, err := m.captureDashboard(ctx)
	if err != nil {
		return err
	}

	result, err := m.classifier.Classify(capture.Data)
	if err != nil {
		return fmt.Errorf("failed to classify screenshot: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"status":     result.Status,
		"green":      result.GreenPixels,
		"red":        result.RedPixels,
		"brightness": fmt.Sprintf("%.1f", result.MeanBrightness),
	}).Info("Screenshot classified")

	now := m.now()
	record := entities.StatusRecord{
		Status:      result.Status,
		ObservedAt:  now,
		LastAlertAt: previous.LastAlertAt,
	}

	if err := m.notifier.SendReport(ctx, capture, result); err != nil {
		m.logger.Warnf("Failed to send report webhook: %v", err)
	}

	if m.policy.ShouldAlert(previous, result.Status, now) {
		event := buildEvent(previous, result.Status, now)
		if err := m.notifier.SendAlert(ctx, event, capture); err != nil {
			m.logger.Errorf("Failed to send alert: %v", err)
		} else {
			m.logger.WithField("message", event.Message).Info("Alert sent")
			record.LastAlertAt = &now
		}
	}

	if err := m.store.Save(record); err != nil {
		return fmt.Errorf("failed to persist status record: %w", err)
	}

	m.logger.WithField("status", record.Status).Info("Capture cycle completed")
	return nil
}

// captureDashboard - opens a session, logs in, waits for the dashboard to
// settle and grabs the screenshot.
func (m *Monitor) captureDashboard(ctx context.Context) (entities.Capture, error) {
	browser, err := m.newBrowser()
	if err != nil {
		return entities.Capture{}, fmt.Errorf("failed to start browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			m.logger.Warnf("Failed to close browser: %v", err)
		}
	}()

	if err := browser.Login(ctx, m.creds); err != nil {
		return entities.Capture{}, fmt.Errorf("login failed: %w", err)
	}

	m.logger.Infof("Waiting %s for dashboard to load", m.settleWait)
	select {
	case <-ctx.Done():
		return entities.Capture{}, ctx.Err()
	case <-time.After(m.settleWait):
	}

	data, err := browser.CaptureScreenshot(ctx)
	if err != nil {
		return entities.Capture{}, fmt.Errorf("screenshot capture failed: %w", err)
	}

	capture := entities.Capture{Data: data, TakenAt: m.now()}

	if m.archive != nil {
		path, err := m.archive.SaveCapture(data, capture.TakenAt)
		if err != nil {
			m.logger.Warnf("Failed to archive screenshot: %v", err)
		} else {
			capture.Path = path
			m.logger.Infof("Screenshot saved: %s", path)
		}
	}

	return capture, nil
}
