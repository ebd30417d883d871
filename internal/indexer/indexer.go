// Package indexer drives the ingestion pipeline for one corpus: chunk each
// source document, embed the chunks in batches, and upsert them into that
// corpus's collection under deterministic ids. Chunk ids are
// "<documentID>:<chunkIndex>", so re-running the pipeline over an unchanged
// document set replaces rather than duplicates.
//
// Indexing is the only write path into a collection and is expected to run
// exclusively; it must not race another run on the same collection.
package indexer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ymaeda-ai/insurag/internal/chunker"
	"github.com/ymaeda-ai/insurag/internal/corpus"
	"github.com/ymaeda-ai/insurag/internal/db"
	"github.com/ymaeda-ai/insurag/internal/embeddings"
	"github.com/ymaeda-ai/insurag/internal/vectordb"
)

// ProgressFunc is called after each document is handled.
type ProgressFunc func(done, total int, documentID string)

// SkippedDoc records a document the pipeline could not index.
type SkippedDoc struct {
	DocumentID string `json:"document_id"`
	Reason     string `json:"reason"`
}

// Summary reports what one indexing run did.
type Summary struct {
	RunID         string        `json:"run_id"`
	Collection    string        `json:"collection"`
	DocsIndexed   int           `json:"docs_indexed"`
	DocsUnchanged int           `json:"docs_unchanged"`
	Skipped       []SkippedDoc  `json:"skipped,omitempty"`
	ChunksIndexed int           `json:"chunks_indexed"`
	Duration      time.Duration `json:"duration"`
}

// Indexer owns write access to the vector store's collections.
type Indexer struct {
	embedder   embeddings.Embedder
	store      vectordb.Store
	manifest   *db.DB // nil disables change detection
	chunkSize  int
	overlap    int
	onProgress ProgressFunc
}

// New creates an Indexer. Chunking parameters are validated up front: an
// overlap that is not smaller than the chunk size is a configuration error
// and no work starts.
func New(embedder embeddings.Embedder, store vectordb.Store, manifest *db.DB, chunkSize, overlap int) (*Indexer, error) {
	if _, err := chunker.Split("", chunkSize, overlap); err != nil {
		return nil, err
	}
	return &Indexer{
		embedder:  embedder,
		store:     store,
		manifest:  manifest,
		chunkSize: chunkSize,
		overlap:   overlap,
	}, nil
}

// SetProgressFunc sets the per-document progress callback.
func (ix *Indexer) SetProgressFunc(fn ProgressFunc) { ix.onProgress = fn }

// Index runs the pipeline for corpusTag ("existing" or "design") over the
// given documents. A single document's failure is logged, recorded in the
// summary, and does not stop the run. The summary is recorded in the
// manifest when one is configured.
func (ix *Indexer) Index(ctx context.Context, corpusTag string, docs []corpus.Document) (*Summary, error) {
	collection := vectordb.CollectionForCorpus(corpusTag)
	if collection == "" {
		return nil, fmt.Errorf("indexer: unknown corpus %q", corpusTag)
	}

	start := time.Now()
	summary := &Summary{
		RunID:      uuid.NewString(),
		Collection: collection,
	}

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch err := ix.indexDocument(ctx, collection, corpusTag, doc, summary); {
		case err == nil:
		default:
			log.Printf("indexer: skipping %s: %v", doc.ID, err)
			summary.Skipped = append(summary.Skipped, SkippedDoc{DocumentID: doc.ID, Reason: err.Error()})
		}

		if ix.onProgress != nil {
			ix.onProgress(i+1, len(docs), doc.ID)
		}
	}

	summary.Duration = time.Since(start)

	if ix.manifest != nil {
		err := ix.manifest.RecordRun(db.IndexRun{
			ID:            summary.RunID,
			Collection:    collection,
			StartedAt:     start,
			Duration:      summary.Duration,
			DocsIndexed:   summary.DocsIndexed,
			DocsUnchanged: summary.DocsUnchanged,
			DocsSkipped:   len(summary.Skipped),
			ChunksIndexed: summary.ChunksIndexed,
		})
		if err != nil {
			log.Printf("indexer: recording run: %v", err)
		}
	}

	return summary, nil
}

// indexDocument chunks, embeds, and upserts one document. It returns an
// error only for this document; the caller decides whether to continue.
func (ix *Indexer) indexDocument(ctx context.Context, collection, corpusTag string, doc corpus.Document, summary *Summary) error {
	hash := doc.ContentHash()

	if ix.manifest != nil {
		stored, err := ix.manifest.DocumentHash(collection, doc.ID)
		if err != nil {
			return fmt.Errorf("manifest lookup: %w", err)
		}
		if stored == hash {
			summary.DocsUnchanged++
			return nil
		}
	}

	chunks, err := chunker.Split(doc.Text, ix.chunkSize, ix.overlap)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("document is empty")
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	// A changed document may have fewer chunks than before; clear its old
	// entries so stale trailing chunks do not linger.
	if err := ix.store.DeleteDocument(ctx, collection, doc.ID); err != nil {
		return fmt.Errorf("clearing old chunks: %w", err)
	}

	stored := make([]vectordb.Document, len(chunks))
	for i, c := range chunks {
		stored[i] = vectordb.Document{
			ID:        fmt.Sprintf("%s:%d", doc.ID, c.Index),
			Text:      c.Text,
			Embedding: vectors[i],
			Metadata: vectordb.Metadata{
				DocumentID: doc.ID,
				Corpus:     corpusTag,
				ChunkIndex: c.Index,
			},
		}
	}

	if err := ix.store.Upsert(ctx, collection, stored); err != nil {
		return fmt.Errorf("storing chunks: %w", err)
	}

	if ix.manifest != nil {
		if err := ix.manifest.RecordDocument(collection, doc.ID, hash, len(chunks)); err != nil {
			return fmt.Errorf("recording manifest entry: %w", err)
		}
	}

	summary.DocsIndexed++
	summary.ChunksIndexed += len(chunks)
	return nil
}
