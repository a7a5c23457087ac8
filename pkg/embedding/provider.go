package embedding

import "context"

// Provider generates embeddings for a batch of inputs. The result keeps
// input order: result[i] is the vector for inputs[i].
//
// taskType hints the intended use ("document" at ingestion, "query" at
// retrieval); providers that have no notion of task types ignore it.
type Provider interface {
	Generate(ctx context.Context, inputs []string, taskType string) ([][]float32, error)

	// Dimension is the vector width this provider produces. Rows are only
	// storable when it matches the column type.
	Dimension() int
}
