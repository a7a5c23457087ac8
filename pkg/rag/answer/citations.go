package answer

import (
	"strconv"

	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/repository/contract"
)

const citationPreviewLen = 100

// BuildCitations derives citations from retrieval order. The model never
// influences them: rank i in the scored list becomes citation i+1.
func BuildCitations(scored []*contract.ScoredDocumentChunk) []entity.Citation {
	citations := make([]entity.Citation, len(scored))
	for i, sc := range scored {
		page := "unknown"
		if sc.Chunk.Metadata.Page > 0 {
			page = strconv.Itoa(sc.Chunk.Metadata.Page)
		}

		images := make([]entity.CitationImage, 0, len(sc.Chunk.Metadata.Images))
		for _, img := range sc.Chunk.Metadata.Images {
			images = append(images, entity.CitationImage{Id: img.ImageId})
		}

		citations[i] = entity.Citation{
			Id:     i + 1,
			Page:   page,
			Text:   preview(sc.Chunk.Content),
			Score:  sc.Similarity,
			Images: images,
		}
	}
	return citations
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= citationPreviewLen {
		return content
	}
	return string(runes[:citationPreviewLen]) + "..."
}
