// Package eventlog keeps bounded, newest-first event histories.
package eventlog

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smart-office/dashboard/backend/internal/model"
)

const DefaultCapacity = 50

type Log struct {
	mu       sync.RWMutex
	capacity int
	records  []model.EventRecord
	now      func() time.Time
}

func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity, now: time.Now}
}

// WithClock overrides the timestamp source.
func (l *Log) WithClock(now func() time.Time) *Log {
	l.now = now
	return l
}

// Append prepends a new record and trims the log to capacity.
func (l *Log) Append(eventType string, status model.EventStatus, subject string) model.EventRecord {
	record := model.EventRecord{
		ID:        uuid.NewString(),
		Timestamp: l.now().UTC(),
		Type:      eventType,
		Status:    status,
		Subject:   subject,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append([]model.EventRecord{record}, l.records...)
	if len(l.records) > l.capacity {
		l.records = l.records[:l.capacity]
	}
	return record
}

// ResolveLatest sets status on the newest Active record of eventType.
func (l *Log) ResolveLatest(eventType string, status model.EventStatus) (model.EventRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.records {
		if l.records[i].Type != eventType {
			continue
		}
		if l.records[i].Status != model.EventStatusActive {
			return model.EventRecord{}, false
		}
		l.records[i].Status = status
		return l.records[i], true
	}
	return model.EventRecord{}, false
}

// Resolve sets status on the record with id if it is still Active.
func (l *Log) Resolve(id string, status model.EventStatus) (model.EventRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.records {
		if l.records[i].ID != id {
			continue
		}
		if l.records[i].Status != model.EventStatusActive {
			return model.EventRecord{}, false
		}
		l.records[i].Status = status
		return l.records[i], true
	}
	return model.EventRecord{}, false
}

// SetStatus updates the status of the record with id.
func (l *Log) SetStatus(id string, status model.EventStatus) (model.EventRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.records {
		if l.records[i].ID == id {
			l.records[i].Status = status
			return l.records[i], true
		}
	}
	return model.EventRecord{}, false
}

// List returns a copy, newest first.
func (l *Log) List() []model.EventRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.EventRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
