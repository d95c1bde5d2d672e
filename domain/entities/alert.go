package entities

import "time"

// AlertEvent describes a status change (or a persistent-offline reminder)
// that should be delivered through the configured notifier.
type AlertEvent struct {
	Status     Status    `json:"status"`
	Previous   Status    `json:"previous"`
	Message    string    `json:"message"`
	ObservedAt time.Time `json:"observed_at"`
}
