package entities

import "time"

// Capture holds one dashboard screenshot. Data is the raw PNG bytes; Path is
// set when the screenshot has been archived to disk.
type Capture struct {
	Data    []byte
	Path    string
	TakenAt time.Time
}
