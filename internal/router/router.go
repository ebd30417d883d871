// Package router classifies a question into the corpus (or corpora) most
// likely to answer it, using a static keyword table. It is a pure function
// of its inputs: no network, no state, fully deterministic.
package router

import (
	"fmt"
	"strings"
)

// Source selects which corpus a question targets.
type Source string

const (
	SourceAuto     Source = "auto" // let the router decide
	SourceExisting Source = "existing"
	SourceDesign   Source = "design"
	SourceBoth     Source = "both"
)

// ParseSource validates a caller-supplied source selector. An empty string
// means auto.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case "", SourceAuto:
		return SourceAuto, nil
	case SourceExisting:
		return SourceExisting, nil
	case SourceDesign:
		return SourceDesign, nil
	case SourceBoth:
		return SourceBoth, nil
	default:
		return "", fmt.Errorf("invalid source %q: must be auto, existing, design, or both", s)
	}
}

// Router holds the two keyword tables. Keywords are matched as
// case-insensitive substrings of the question.
type Router struct {
	existing []string
	design   []string
}

// New creates a Router from the configured keyword tables.
func New(existingKeywords, designKeywords []string) *Router {
	return &Router{
		existing: lowerAll(existingKeywords),
		design:   lowerAll(designKeywords),
	}
}

// Route picks a source for the question. If only one side's keywords match,
// that side wins; if both sides match, or neither does, it returns both —
// over-retrieving is cheaper than missing the corpus that holds the answer.
func (r *Router) Route(question string) Source {
	q := strings.ToLower(question)

	hitsExisting := matchesAny(q, r.existing)
	hitsDesign := matchesAny(q, r.design)

	switch {
	case hitsExisting && !hitsDesign:
		return SourceExisting
	case hitsDesign && !hitsExisting:
		return SourceDesign
	default:
		return SourceBoth
	}
}

func matchesAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
