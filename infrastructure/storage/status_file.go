package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gridwatch/domain/entities"
	"gridwatch/domain/interfaces"
)

type statusFile struct {
	path string
}

// NewStatusFile - creates a JSON-file backed status store.
func NewStatusFile(path string) interfaces.StatusStore {
	if dir := filepath.Dir(path); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	return &statusFile{path: path}
}

// Load - loads the last persisted status record. A missing file means the
// monitor has never run: return a zero record with unknown status.
func (s *statusFile) Load() (entities.StatusRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entities.StatusRecord{Status: entities.StatusUnknown}, nil
		}
		return entities.StatusRecord{}, fmt.Errorf("failed to read status file: %w", err)
	}

	var record entities.StatusRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return entities.StatusRecord{}, fmt.Errorf("invalid status file %s: %w", s.path, err)
	}

	if record.Status == "" {
		record.Status = entities.StatusUnknown
	}

	return record, nil
}

// Save - writes the status record to disk.
func (s *statusFile) Save(record entities.StatusRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
