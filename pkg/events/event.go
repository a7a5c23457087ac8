package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_READY").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewDocumentReadyEvent fires when ingestion completes and the document
// becomes queryable.
func NewDocumentReadyEvent(documentId, userId uuid.UUID, chunkCount, imageCount int) Event {
	return BaseEvent{
		Type: "DOCUMENT_READY",
		Data: map[string]interface{}{
			"documentId": documentId.String(),
			"userId":     userId.String(),
			"chunkCount": chunkCount,
			"imageCount": imageCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentFailedEvent fires when ingestion ends in the Failed state.
func NewDocumentFailedEvent(documentId, userId uuid.UUID, reason string) Event {
	return BaseEvent{
		Type: "DOCUMENT_FAILED",
		Data: map[string]interface{}{
			"documentId": documentId.String(),
			"userId":     userId.String(),
			"reason":     reason,
		},
		OccurredAt: time.Now(),
	}
}
