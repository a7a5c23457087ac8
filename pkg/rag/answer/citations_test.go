package answer

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/repository/contract"
)

func scoredChunk(content string, page int, score float64, imageIds ...string) *contract.ScoredDocumentChunk {
	images := make([]entity.ChunkImageRef, len(imageIds))
	for i, id := range imageIds {
		images[i] = entity.ChunkImageRef{ImageId: id}
	}
	return &contract.ScoredDocumentChunk{
		Chunk: &entity.DocumentChunk{
			Id:      uuid.New(),
			Content: content,
			Metadata: entity.ChunkMetadata{
				Page:   page,
				Images: images,
			},
		},
		Similarity: score,
	}
}

func TestBuildCitationsRanksByRetrievalOrder(t *testing.T) {
	scored := []*contract.ScoredDocumentChunk{
		scoredChunk("first chunk", 3, 0.91),
		scoredChunk("second chunk", 7, 0.85),
		scoredChunk("third chunk", 1, 0.62),
	}

	citations := BuildCitations(scored)

	if len(citations) != 3 {
		t.Fatalf("expected 3 citations, got %d", len(citations))
	}
	for i, c := range citations {
		if c.Id != i+1 {
			t.Errorf("citation %d has id %d", i, c.Id)
		}
	}
	if citations[0].Page != "3" || citations[1].Page != "7" || citations[2].Page != "1" {
		t.Errorf("unexpected pages: %s %s %s", citations[0].Page, citations[1].Page, citations[2].Page)
	}
	if citations[0].Score != 0.91 {
		t.Errorf("unexpected score: %f", citations[0].Score)
	}
}

func TestBuildCitationsUnknownPage(t *testing.T) {
	citations := BuildCitations([]*contract.ScoredDocumentChunk{
		scoredChunk("no page metadata", 0, 0.5),
	})

	if citations[0].Page != "unknown" {
		t.Errorf("expected unknown page, got %q", citations[0].Page)
	}
}

func TestBuildCitationsTruncatesPreview(t *testing.T) {
	long := strings.Repeat("a", 250)
	citations := BuildCitations([]*contract.ScoredDocumentChunk{
		scoredChunk(long, 1, 0.5),
	})

	if len(citations[0].Text) != citationPreviewLen+3 {
		t.Errorf("expected %d chars, got %d", citationPreviewLen+3, len(citations[0].Text))
	}
	if !strings.HasSuffix(citations[0].Text, "...") {
		t.Errorf("expected ellipsis suffix: %q", citations[0].Text)
	}

	short := BuildCitations([]*contract.ScoredDocumentChunk{
		scoredChunk("short text", 1, 0.5),
	})
	if short[0].Text != "short text" {
		t.Errorf("short content must not be truncated: %q", short[0].Text)
	}
}

func TestBuildCitationsCarriesImages(t *testing.T) {
	citations := BuildCitations([]*contract.ScoredDocumentChunk{
		scoredChunk("chunk with figures", 2, 0.7, "img-0", "img-1"),
	})

	if len(citations[0].Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(citations[0].Images))
	}
	if citations[0].Images[0].Id != "img-0" || citations[0].Images[1].Id != "img-1" {
		t.Errorf("unexpected image ids: %+v", citations[0].Images)
	}
}

func TestBuildPromptGroundsOnContext(t *testing.T) {
	scored := []*contract.ScoredDocumentChunk{
		scoredChunk("alpha content", 1, 0.9),
		scoredChunk("beta content", 2, 0.8),
	}

	prompt := BuildPrompt("what is alpha?", scored)

	if !strings.Contains(prompt, "alpha content\n\nbeta content") {
		t.Errorf("prompt missing joined context: %q", prompt)
	}
	if !strings.Contains(prompt, "Question: what is alpha?") {
		t.Errorf("prompt missing question: %q", prompt)
	}
	if !strings.Contains(prompt, "based only on the provided context") {
		t.Errorf("prompt missing grounding instruction: %q", prompt)
	}
}

func TestStreamEventEncode(t *testing.T) {
	frame, err := ChunkEvent("hello").Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if frame != `data: {"type":"chunk","content":"hello"}`+"\n\n" {
		t.Errorf("unexpected frame: %q", frame)
	}

	done, _ := DoneEvent().Encode()
	if done != `data: {"type":"done"}`+"\n\n" {
		t.Errorf("unexpected done frame: %q", done)
	}
}
