// Package corpus loads source documents from a corpus directory. It consumes
// already-extracted text formats (.txt, .md); converting Word/Excel/PDF into
// text is the job of an upstream tool.
package corpus

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest document the loader will read (4 MB). Larger
// files are skipped rather than embedded wholesale.
const MaxFileSize int64 = 4 << 20

// Skipped records a file the loader could not turn into a Document.
type Skipped struct {
	Path   string
	Reason string
}

// Load walks the directory tree rooted at dir and returns a Document for
// every readable .txt/.md file passing the include/exclude glob filters.
// Unreadable or unsupported files are logged, recorded in the skipped list,
// and do not abort the load. A missing directory is an error; an empty one
// is not.
func Load(dir string, include, exclude []string) ([]Document, []Skipped, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("corpus: resolve root: %w", err)
	}
	if info, err := os.Stat(root); err != nil {
		return nil, nil, fmt.Errorf("corpus: %w", err)
	} else if !info.IsDir() {
		return nil, nil, fmt.Errorf("corpus: %s is not a directory", root)
	}

	var docs []Document
	var skipped []Skipped

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if !MatchesInclude(relPath, include) || MatchesExclude(relPath, exclude) {
			return nil
		}

		format, ok := formatForPath(relPath)
		if !ok {
			skipped = append(skipped, Skipped{Path: relPath, Reason: "unsupported format"})
			log.Printf("corpus: skipping %s: unsupported format", relPath)
			return nil
		}

		if info, err := d.Info(); err == nil && info.Size() > MaxFileSize {
			skipped = append(skipped, Skipped{Path: relPath, Reason: "file too large"})
			log.Printf("corpus: skipping %s: %d bytes exceeds limit", relPath, info.Size())
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			skipped = append(skipped, Skipped{Path: relPath, Reason: err.Error()})
			log.Printf("corpus: skipping %s: %v", relPath, err)
			return nil
		}

		text := string(raw)
		if format == FormatMarkdown {
			text = MarkdownToText(raw)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			skipped = append(skipped, Skipped{Path: relPath, Reason: "empty document"})
			return nil
		}

		docs = append(docs, Document{
			ID:     relPath,
			Path:   path,
			Format: format,
			Text:   text,
		})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("corpus: walking %s: %w", root, err)
	}

	return docs, skipped, nil
}

func formatForPath(relPath string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(relPath)) {
	case ".txt":
		return FormatText, true
	case ".md", ".markdown":
		return FormatMarkdown, true
	default:
		return "", false
	}
}
