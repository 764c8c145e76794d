package model

import "time"

// Record is a single count event: a scanned or typed code, the location it
// was counted at, and the counted quantity. Records are immutable after
// creation; corrections are made by deleting and re-scanning.
//
// The JSON field names define the persisted blob format, so renaming one is
// a breaking change.
type Record struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Location  string    `json:"location"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"date"`
}
