package answer

import (
	"encoding/json"
	"fmt"

	"pdf-rag-be/internal/entity"
)

// Stream event types, in emission order: citations first, then chunks,
// then exactly one of done or error.
const (
	EventCitations = "citations"
	EventChunk     = "chunk"
	EventDone      = "done"
	EventError     = "error"
)

// StreamEvent is one SSE frame of a streamed answer.
type StreamEvent struct {
	Type      string            `json:"type"`
	Content   string            `json:"content,omitempty"`
	Citations []entity.Citation `json:"citations,omitempty"`
	Message   string            `json:"message,omitempty"`
}

func CitationsEvent(citations []entity.Citation) StreamEvent {
	return StreamEvent{Type: EventCitations, Citations: citations}
}

func ChunkEvent(content string) StreamEvent {
	return StreamEvent{Type: EventChunk, Content: content}
}

func DoneEvent() StreamEvent {
	return StreamEvent{Type: EventDone}
}

func ErrorEvent(message string) StreamEvent {
	return StreamEvent{Type: EventError, Message: message}
}

// Encode renders the event as an SSE data frame.
func (e StreamEvent) Encode() (string, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data: %s\n\n", payload), nil
}
