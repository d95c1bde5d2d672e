package entities

import "time"

// Status represents the inferred grid connectivity state shown by the
// colored indicator on the dashboard.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
	StatusUnknown Status = "unknown"
)

// StatusRecord is the sole piece of durable state. It is read at the start
// of a monitoring cycle and written back at the end.
type StatusRecord struct {
	Status      Status     `json:"status"`
	ObservedAt  time.Time  `json:"observed_at"`
	LastAlertAt *time.Time `json:"last_alert_at,omitempty"`
}

// Classification is the result of analyzing one screenshot.
type Classification struct {
	Status         Status  `json:"status"`
	GreenPixels    int     `json:"green_pixels"`
	RedPixels      int     `json:"red_pixels"`
	MeanBrightness float64 `json:"mean_brightness"`
	Reason         string  `json:"reason"`
}
