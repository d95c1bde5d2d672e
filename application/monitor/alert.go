package monitor

import (
	"fmt"
	"time"

	"gridwatch/domain/entities"
)

// AlertPolicy decides whether a cycle result warrants a notification.
// Rule: alert on any online/offline transition; while persistently offline,
// re-alert once the cooldown has elapsed. Unknown observations never alert,
// they only record.
type AlertPolicy struct {
	Enabled  bool
	Cooldown time.Duration
}

// ShouldAlert - returns true when an alert must be sent for the new status
// given the previously persisted record.
func (p AlertPolicy) ShouldAlert(previous entities.StatusRecord, status entities.Status, now time.Time) bool {
	if !p.Enabled {
		return false
	}

	switch {
	case status == entities.StatusUnknown:
		return false

	case previous.Status == entities.StatusOnline && status == entities.StatusOffline:
		return true

	case previous.Status == entities.StatusOffline && status == entities.StatusOnline:
		return true

	case previous.Status == entities.StatusUnknown && status == entities.StatusOffline:
		// First observation ever (or after a blind spell) is already bad:
		// treat it like a fresh outage.
		return true

	case previous.Status == entities.StatusOffline && status == entities.StatusOffline:
		if previous.LastAlertAt == nil {
			return true
		}
		return now.Sub(*previous.LastAlertAt) >= p.Cooldown
	}

	return false
}

// buildEvent - builds the alert event message for a firing decision.
func buildEvent(previous entities.StatusRecord, status entities.Status, now time.Time) entities.AlertEvent {
	var message string
	switch {
	case status == entities.StatusOffline && previous.Status == entities.StatusOffline:
		message = "Grid is still OFFLINE"
	case status == entities.StatusOffline:
		message = "Grid went OFFLINE"
	default:
		message = fmt.Sprintf("Grid is back ONLINE (was %s)", previous.Status)
	}

	return entities.AlertEvent{
		Status:     status,
		Previous:   previous.Status,
		Message:    message,
		ObservedAt: now,
	}
}
