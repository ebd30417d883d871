package corpus

import (
	"crypto/sha256"
	"encoding/hex"
)

// Format identifies the on-disk format a document was extracted from.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// Document is a named unit of original content: one source file with its
// text already extracted. Documents are immutable once loaded and are not
// persisted by the engine — only their chunks and embeddings are.
type Document struct {
	ID     string // path relative to the corpus root
	Path   string // absolute path on disk
	Format Format
	Text   string
}

// ContentHash returns the SHA-256 hex digest of the extracted text. It is
// used by the index manifest to skip unchanged documents on re-indexing.
func (d Document) ContentHash() string {
	sum := sha256.Sum256([]byte(d.Text))
	return hex.EncodeToString(sum[:])
}
