package vectordb

import "strconv"

// Document is one stored chunk: its text, vector, and provenance.
type Document struct {
	ID        string // deterministic: "<documentID>:<chunkIndex>"
	Text      string
	Embedding []float32
	Metadata  Metadata
}

// Metadata records where a chunk came from.
type Metadata struct {
	DocumentID string // source document identifier (relative path)
	Corpus     string // "existing" or "design"
	ChunkIndex int
}

// Result pairs a stored chunk with its similarity to a query vector.
type Result struct {
	Document   Document
	Similarity float32
}

// metadataToMap flattens Metadata for chromem, which stores string maps.
func metadataToMap(m Metadata) map[string]string {
	return map[string]string{
		"document_id": m.DocumentID,
		"corpus":      m.Corpus,
		"chunk_index": strconv.Itoa(m.ChunkIndex),
	}
}

// mapToMetadata is the inverse of metadataToMap.
func mapToMetadata(m map[string]string) Metadata {
	idx, _ := strconv.Atoi(m["chunk_index"])
	return Metadata{
		DocumentID: m["document_id"],
		Corpus:     m["corpus"],
		ChunkIndex: idx,
	}
}
