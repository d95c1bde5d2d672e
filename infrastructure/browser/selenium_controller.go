package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"gridwatch/domain/entities"
	"gridwatch/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

const chromeDriverPort = 9515

type seleniumController struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  *logrus.Logger
}

// findChromeDriver - finds the ChromeDriver executable path.
func findChromeDriver() (string, error) {
	if path := os.Getenv("BROWSER_DRIVER_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds the Chrome/Chromium browser executable path.
func findChromeBinary() string {
	if path := os.Getenv("CHROME_BINARY_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	if path, err := exec.LookPath("google-chrome"); err == nil {
		return path
	}
	if path, err := exec.LookPath("chromium"); err == nil {
		return path
	}

	return ""
}

// NewSeleniumController - starts chromedriver and opens a WebDriver session.
// Alternate driver for hosts where the Playwright bundle is unavailable.
func NewSeleniumController(headless bool, logger *logrus.Logger) (interfaces.Browser, error) {
	driverPath, err := findChromeDriver()
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	service, err := selenium.NewChromeDriverService(driverPath, chromeDriverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	args := []string{
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-gpu",
		"--disable-extensions",
		"--window-size=1920,1080",
	}
	if headless {
		args = append(args, "--headless=new")
	}

	chromeCaps := chrome.Capabilities{Args: args}
	if binary := findChromeBinary(); binary != "" {
		logger.Infof("Using Chrome binary at: %s", binary)
		chromeCaps.Path = binary
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", chromeDriverPort))
	if err != nil {
		service.Stop()
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	return &seleniumController{
		wd:      wd,
		service: service,
		logger:  logger,
	}, nil
}

// Login - navigates to the dashboard and walks the Solar Assistant sign-in
// form, mirroring the Playwright controller.
func (s *seleniumController) Login(ctx context.Context, creds entities.Credentials) error {
	s.logger.Infof("Navigating to %s", creds.URL)

	if err := s.wd.Get(creds.URL); err != nil {
		return fmt.Errorf("failed to open dashboard: %w", err)
	}

	time.Sleep(3 * time.Second)

	currentURL, err := s.wd.CurrentURL()
	if err != nil {
		return fmt.Errorf("failed to read current URL: %w", err)
	}
	if looksLoggedIn(currentURL) {
		s.logger.Info("Already logged in, dashboard reached directly")
		return nil
	}

	emailField, err := s.findField(emailSelector, emailFallbackSelector)
	if err != nil {
		s.saveDebugScreenshot()
		return fmt.Errorf("could not find email input field: %w", err)
	}

	passwordField, err := s.findField(passwordSelector, passwordFallbackSelector)
	if err != nil {
		s.saveDebugScreenshot()
		return fmt.Errorf("could not find password input field: %w", err)
	}

	s.logger.Info("Entering credentials")
	emailField.Clear()
	if err := emailField.SendKeys(creds.Username); err != nil {
		return fmt.Errorf("failed to fill email field: %w", err)
	}

	passwordField.Clear()
	if err := passwordField.SendKeys(creds.Password); err != nil {
		return fmt.Errorf("failed to fill password field: %w", err)
	}

	if submit, err := s.wd.FindElement(selenium.ByCSSSelector, submitSelector); err == nil {
		if err := submit.Click(); err != nil {
			return fmt.Errorf("failed to click submit button: %w", err)
		}
	} else if err := passwordField.SendKeys(selenium.EnterKey); err != nil {
		return fmt.Errorf("could not submit login form: %w", err)
	}

	time.Sleep(8 * time.Second)

	currentURL, err = s.wd.CurrentURL()
	if err != nil {
		return fmt.Errorf("failed to read current URL: %w", err)
	}
	if !looksLoggedIn(currentURL) {
		s.saveDebugScreenshot()
		return fmt.Errorf("login failed, still on sign-in page: %s", currentURL)
	}

	s.logger.Infof("Login successful, redirected to %s", currentURL)
	return nil
}

// findField - polls for the primary selector, falling back to the alternate
// one.
func (s *seleniumController) findField(selector, fallback string) (selenium.WebElement, error) {
	deadline := time.Now().Add(10 * time.Second)
	for {
		if element, err := s.wd.FindElement(selenium.ByCSSSelector, selector); err == nil {
			return element, nil
		}
		if element, err := s.wd.FindElement(selenium.ByCSSSelector, fallback); err == nil {
			return element, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("neither %s nor %s present after 10s", selector, fallback)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// CaptureScreenshot - returns the current viewport as PNG bytes.
func (s *seleniumController) CaptureScreenshot(ctx context.Context) ([]byte, error) {
	data, err := s.wd.Screenshot()
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

// CurrentURL - returns the URL of the active page.
func (s *seleniumController) CurrentURL(ctx context.Context) (string, error) {
	return s.wd.CurrentURL()
}

func (s *seleniumController) saveDebugScreenshot() {
	data, err := s.wd.Screenshot()
	if err != nil {
		s.logger.Warnf("Failed to capture debug screenshot: %v", err)
		return
	}
	if err := os.WriteFile(debugScreenshotPath, data, 0644); err != nil {
		s.logger.Warnf("Failed to save debug screenshot: %v", err)
		return
	}
	s.logger.Infof("Saved debug screenshot as %s", debugScreenshotPath)
}

// Close - quits the WebDriver session and stops the chromedriver service.
func (s *seleniumController) Close() error {
	if s.wd != nil {
		s.wd.Quit()
		s.wd = nil
	}
	if s.service != nil {
		s.service.Stop()
		s.service = nil
	}
	return nil
}
