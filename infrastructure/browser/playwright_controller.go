package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"gridwatch/domain/entities"
	"gridwatch/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

type playwrightController struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  *logrus.Logger
}

// NewPlaywrightController - launches a headless Chromium session through
// Playwright.
func NewPlaywrightController(headless bool, logger *logrus.Logger) (interfaces.Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
			"--disable-extensions",
			"--disable-notifications",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1920,
			Height: 1080,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		browserContext.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	logger.Info("Playwright Chromium session started")

	return &playwrightController{
		pw:      pw,
		browser: browser,
		context: browserContext,
		page:    page,
		logger:  logger,
	}, nil
}

// Login - navigates to the dashboard and walks the Solar Assistant sign-in
// form. A session already redirected off the login page is left alone.
func (p *playwrightController) Login(ctx context.Context, creds entities.Credentials) error {
	p.logger.Infof("Navigating to %s", creds.URL)

	if _, err := p.page.Goto(creds.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return fmt.Errorf("failed to open dashboard: %w", err)
	}

	if looksLoggedIn(p.page.URL()) {
		p.logger.Info("Already logged in, dashboard reached directly")
		return nil
	}

	emailField, err := p.findField(emailSelector, emailFallbackSelector)
	if err != nil {
		p.saveDebugScreenshot()
		return fmt.Errorf("could not find email input field: %w", err)
	}

	passwordField, err := p.findField(passwordSelector, passwordFallbackSelector)
	if err != nil {
		p.saveDebugScreenshot()
		return fmt.Errorf("could not find password input field: %w", err)
	}

	p.logger.Info("Entering credentials")
	if err := emailField.Fill(creds.Username); err != nil {
		return fmt.Errorf("failed to fill email field: %w", err)
	}
	if err := passwordField.Fill(creds.Password); err != nil {
		return fmt.Errorf("failed to fill password field: %w", err)
	}

	if err := p.page.Locator(submitSelector).Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		// No submit button found: submit the form from the password
		// field instead.
		if err := passwordField.Press("Enter"); err != nil {
			return fmt.Errorf("could not submit login form: %w", err)
		}
	}

	p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(15000),
	})
	time.Sleep(2 * time.Second)

	if !looksLoggedIn(p.page.URL()) {
		p.saveDebugScreenshot()
		return fmt.Errorf("login failed, still on sign-in page: %s", p.page.URL())
	}

	p.logger.Infof("Login successful, redirected to %s", p.page.URL())
	return nil
}

// findField - waits for the primary selector, falling back to the alternate
// one the dashboard sometimes serves.
func (p *playwrightController) findField(selector, fallback string) (playwright.Locator, error) {
	locator := p.page.Locator(selector)
	err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(10000),
	})
	if err == nil {
		return locator, nil
	}

	locator = p.page.Locator(fallback)
	err = locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(5000),
	})
	if err != nil {
		return nil, fmt.Errorf("neither %s nor %s visible: %w", selector, fallback, err)
	}

	return locator, nil
}

// CaptureScreenshot - returns the current viewport as PNG bytes.
func (p *playwrightController) CaptureScreenshot(ctx context.Context) ([]byte, error) {
	data, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

// CurrentURL - returns the URL of the active page.
func (p *playwrightController) CurrentURL(ctx context.Context) (string, error) {
	return p.page.URL(), nil
}

// saveDebugScreenshot - keeps a frame of the failed login page for selector
// debugging.
func (p *playwrightController) saveDebugScreenshot() {
	data, err := p.page.Screenshot()
	if err != nil {
		p.logger.Warnf("Failed to capture debug screenshot: %v", err)
		return
	}
	if err := os.WriteFile(debugScreenshotPath, data, 0644); err != nil {
		p.logger.Warnf("Failed to save debug screenshot: %v", err)
		return
	}
	p.logger.Infof("Saved debug screenshot as %s", debugScreenshotPath)
}

// Close - closes the page, context and browser and stops the driver.
func (p *playwrightController) Close() error {
	if p.context != nil {
		p.context.Close()
		p.context = nil
	}

	var closeErr error
	if p.browser != nil {
		if err := p.browser.Close(); err != nil {
			closeErr = fmt.Errorf("failed to close browser: %w", err)
		}
		p.browser = nil
	}

	if p.pw != nil {
		if err := p.pw.Stop(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("failed to stop playwright: %w", err)
		}
		p.pw = nil
	}

	return closeErr
}
