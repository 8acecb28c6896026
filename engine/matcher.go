package engine

import "publicsuffix/parser"

// MatchResult describes how much of a host name is public suffix.
type MatchResult struct {
	Labels int         // trailing labels belonging to the public suffix
	Kind   parser.Kind // rule kind that produced the decisive match
}

// Match applies public-suffix precedence to a host's labels: the longest
// matching rule wins, an exception beats a same-length plain or wildcard
// match and carves one label out of the suffix, and a host whose rightmost
// label is unknown to the index falls back to the implicit "*" rule.
func Match(hostLabels []string, ix *Index) MatchResult {
	n := len(hostLabels)
	if n == 0 || !ix.hasTLD(hostLabels[n-1]) {
		return MatchResult{Labels: 1, Kind: parser.KindPlain}
	}

	longest := n
	if ix.maxLen < longest {
		longest = ix.maxLen
	}

	for k := longest; k >= 1; k-- {
		plain, wildcard, exception := ix.Lookup(hostLabels[n-k:])
		switch {
		case exception:
			// The exception's own label is registrable; only its parent
			// remains public.
			return MatchResult{Labels: k - 1, Kind: parser.KindException}
		case plain:
			return MatchResult{Labels: k, Kind: parser.KindPlain}
		case wildcard:
			return MatchResult{Labels: k, Kind: parser.KindWildcard}
		}
	}

	// Rightmost label is known but nothing matched; the implicit rule
	// still applies.
	return MatchResult{Labels: 1, Kind: parser.KindPlain}
}
