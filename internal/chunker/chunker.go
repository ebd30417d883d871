// Package chunker splits raw document text into overlapping fixed-size
// passages for embedding. Consecutive chunks share a configurable number of
// characters so that context spanning a chunk boundary is preserved in at
// least one passage.
package chunker

import "fmt"

// Chunk is a contiguous slice of a source document's text.
type Chunk struct {
	Index int    // sequence number within the document, starting at 0
	Start int    // rune offset of the chunk within the document
	End   int    // rune offset one past the last rune of the chunk
	Text  string
}

// Split cuts text into chunks of at most size characters where consecutive
// chunks share overlap characters. Sizes count runes, not bytes, so a
// window never lands mid-character in multibyte text. The windows step by
// size-overlap, so the non-overlapping portions concatenate back to the
// original text with no gaps. A trailing remainder shorter than the
// overlap is still emitted. Text shorter than size yields exactly one
// chunk. Empty text yields none.
func Split(text string, size, overlap int) ([]Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunker: size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunker: overlap must be non-negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunker: overlap (%d) must be smaller than size (%d)", overlap, size)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}
	if len(runes) <= size {
		return []Chunk{{Index: 0, Start: 0, End: len(runes), Text: text}}, nil
	}

	step := size - overlap
	var chunks []Chunk
	for start := 0; ; start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, Chunk{
				Index: len(chunks),
				Start: start,
				End:   len(runes),
				Text:  string(runes[start:]),
			})
			return chunks, nil
		}
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Start: start,
			End:   end,
			Text:  string(runes[start:end]),
		})
	}
}
