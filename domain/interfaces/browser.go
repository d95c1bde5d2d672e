package interfaces

import (
	"context"

	"gridwatch/domain/entities"
)

// Browser abstracts the browser-automation driver used to reach the
// dashboard. A session lives for exactly one monitoring cycle.
type Browser interface {
	// Login navigates to the dashboard and authenticates if a login form
	// is presented. It is a no-op when the session is already signed in.
	Login(ctx context.Context, creds entities.Credentials) error

	// CaptureScreenshot returns the current viewport as PNG bytes.
	CaptureScreenshot(ctx context.Context) ([]byte, error)

	// CurrentURL returns the URL of the active page.
	CurrentURL(ctx context.Context) (string, error)

	// Close shuts down the driver and releases the browser.
	Close() error
}

// BrowserFactory creates a fresh browser session. The monitor opens and
// closes one session per cycle so a wedged browser never outlives a cycle.
type BrowserFactory func() (Browser, error)
