package interfaces

import "gridwatch/domain/entities"

// StatusStore persists the last observed status between cycles.
type StatusStore interface {
	// Load returns the last persisted record. A store with no record yet
	// returns a zero record with StatusUnknown and no error.
	Load() (entities.StatusRecord, error)

	// Save replaces the persisted record.
	Save(record entities.StatusRecord) error
}
