package entities

// Credentials identify the dashboard account used for the login flow.
type Credentials struct {
	URL      string
	Username string
	Password string
}
