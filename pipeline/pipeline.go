// Package pipeline declares the engine's upstream and downstream
// collaborator interfaces and a minimal in-memory glue for exercising them.
// Parsing, embedding backends, and persistence live elsewhere; only their
// contracts are fixed here.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/roivaz/textchunk/chunker"
	"github.com/roivaz/textchunk/internal/logging"
)

// DocParser extracts a plain-text Document (with optional protected-block
// annotations) from an upstream source.
type DocParser interface {
	Parse(ctx context.Context, source string) (chunker.Document, error)
}

// Embedder turns chunk texts into vectors, one per input, in order.
type Embedder interface {
	EmbedTexts(ctx context.Context, inputs []string) ([][]float32, error)
}

// Embedding is a vector keyed back to its chunk.
type Embedding struct {
	DocumentID    string
	SequenceIndex int
	Vector        []float32
}

// Run wires parser, chunker, and embedder for one source: parse, chunk,
// embed every non-blank chunk in a single call. It performs no retries and
// no persistence.
func Run(ctx context.Context, parser DocParser, ck *chunker.Chunker, embedder Embedder, source string, log logr.Logger) ([]Embedding, error) {
	l := logging.New(log).WithName("pipeline")

	doc, err := parser.Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}

	chunks, err := ck.ChunkDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", doc.ID, err)
	}
	l.Debug("chunked document", "doc", doc.ID, "chunks", len(chunks))

	var texts []string
	var kept []chunker.Chunk
	for _, c := range chunks {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		texts = append(texts, c.Text)
		kept = append(kept, c)
	}
	if len(texts) == 0 {
		return nil, nil
	}

	vecs, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", doc.ID, err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embed %s: got %d vectors for %d chunks", doc.ID, len(vecs), len(texts))
	}

	out := make([]Embedding, 0, len(kept))
	for i, c := range kept {
		out = append(out, Embedding{
			DocumentID:    c.DocumentID,
			SequenceIndex: c.Index,
			Vector:        vecs[i],
		})
	}
	l.Info("embedded document", "doc", doc.ID, "vectors", len(out))
	return out, nil
}
