package browser

import "strings"

// Solar Assistant login form selectors, with the fallbacks the dashboard has
// been seen serving.
const (
	emailSelector         = "input[name='user[email]']"
	emailFallbackSelector = "#user_email"

	passwordSelector         = "input[name='user[password]']"
	passwordFallbackSelector = "#user_password"

	submitSelector = "button[type='submit']"

	debugScreenshotPath = "debug_login_failed.png"
)

// looksLoggedIn - a session is authenticated once the dashboard redirects
// away from the sign-in page.
func looksLoggedIn(url string) bool {
	lower := strings.ToLower(url)
	return !strings.Contains(lower, "sign_in") && !strings.Contains(lower, "login")
}
