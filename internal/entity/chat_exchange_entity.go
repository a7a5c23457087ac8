package entity

import (
	"time"

	"github.com/google/uuid"
)

// CitationImage references an image associated with a cited chunk.
type CitationImage struct {
	Id string `json:"id"`
}

// Citation points an answer back to the supporting chunk. Citations are
// derived from retrieval order, never from model output.
type Citation struct {
	Id     int             `json:"id"` // rank, 1-based in retrieval order
	Page   string          `json:"page"`
	Text   string          `json:"text"`
	Score  float64         `json:"score"`
	Images []CitationImage `json:"images"`
}

// ChatExchange is one query/answer pair. Append-only; never mutated.
type ChatExchange struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	DocumentId uuid.UUID
	Query      string
	Answer     string
	Citations  []Citation
	CreatedAt  time.Time
}
