package storage

import "dexamm/internal/model"

// EventSink is a destination for emitted pool events.
type EventSink interface {
	PutEventBatch(events []model.EventRecord) error
}
