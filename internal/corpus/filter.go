package corpus

import "github.com/bmatcuk/doublestar/v4"

// MatchesInclude returns true if the given relative path matches any of the
// include patterns. If patterns is empty, everything is included.
func MatchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// MatchesExclude returns true if the given relative path matches any of the
// exclude patterns. If patterns is empty, nothing is excluded.
func MatchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

func matchesAny(relPath string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, relPath); err == nil && ok {
			return true
		}
	}
	return false
}
