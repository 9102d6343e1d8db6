package model

import "time"

type EventStatus string

const (
	EventStatusActive   EventStatus = "Active"
	EventStatusResolved EventStatus = "Resolved"
	EventStatusVerified EventStatus = "Verified"
	EventStatusDeclined EventStatus = "Declined"
)

// Valid reports whether s is one of the known statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusActive, EventStatusResolved, EventStatusVerified, EventStatusDeclined:
		return true
	default:
		return false
	}
}

const (
	EventTypeMotion = "Unauthorized Movement"
	EventTypeFire   = "Fire Detected"
	EventTypeAccess = "RFID Access"
	EventTypeScan   = "RFID Scan"
)

// EventRecord is one entry in a bounded newest-first log. Only Status
// changes after the record is appended.
type EventRecord struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      string      `json:"type"`
	Status    EventStatus `json:"status"`
	Subject   string      `json:"subject,omitempty"`
}
