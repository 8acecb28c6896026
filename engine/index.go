package engine

import (
	"strings"

	"publicsuffix/parser"
)

// kindSet records which rule kinds are present for one suffix key.
// Matching is presence-based, so duplicate rules collapse here and the
// same suffix appearing as both plain and exception keeps both bits
// (exception wins at match time).
type kindSet struct {
	plain     bool
	exception bool
}

// Index is an immutable lookup structure over a parsed rule set. Exact
// rules (plain and exception) are keyed by their labels joined with the
// separator; wildcard rules are keyed by the labels after the wildcard
// marker. Once built it is read-only and safe for concurrent matching.
type Index struct {
	exact    map[string]kindSet
	wildcard map[string]struct{}
	tlds     map[string]struct{} // rightmost labels seen in any rule
	maxLen   int                 // longest rule, in labels
	rules    []*parser.Rule      // retained for Suffixes dumps
}

// BuildIndex constructs an Index from a rule slice. The slice is not
// retained for matching, only for enumeration; duplicates are tolerated.
func BuildIndex(rules []*parser.Rule) *Index {
	ix := &Index{
		exact:    make(map[string]kindSet, len(rules)),
		wildcard: make(map[string]struct{}),
		tlds:     make(map[string]struct{}),
		rules:    rules,
	}

	for _, r := range rules {
		if len(r.Labels) > ix.maxLen {
			ix.maxLen = len(r.Labels)
		}
		ix.tlds[r.Labels[len(r.Labels)-1]] = struct{}{}

		switch r.Kind {
		case parser.KindWildcard:
			// "*.ck" is keyed by "ck" and probed one label short.
			ix.wildcard[strings.Join(r.Labels[1:], ".")] = struct{}{}
		case parser.KindException:
			key := strings.Join(r.Labels, ".")
			ks := ix.exact[key]
			ks.exception = true
			ix.exact[key] = ks
		default:
			key := strings.Join(r.Labels, ".")
			ks := ix.exact[key]
			ks.plain = true
			ix.exact[key] = ks
		}
	}

	return ix
}

// Lookup reports which rule kinds match exactly the given trailing
// labels: plain and exception via the exact key, wildcard via the key one
// label short of the probe (the wildcard marker consumes the extra label).
func (ix *Index) Lookup(suffixLabels []string) (plain, wildcard, exception bool) {
	if len(suffixLabels) == 0 {
		return false, false, false
	}
	ks := ix.exact[strings.Join(suffixLabels, ".")]
	if len(suffixLabels) >= 2 {
		_, wildcard = ix.wildcard[strings.Join(suffixLabels[1:], ".")]
	}
	return ks.plain, wildcard, ks.exception
}

// Len returns the number of indexed rules.
func (ix *Index) Len() int {
	return len(ix.rules)
}

// Rules returns the rules the index was built from.
func (ix *Index) Rules() []*parser.Rule {
	return ix.rules
}

func (ix *Index) hasTLD(label string) bool {
	_, ok := ix.tlds[label]
	return ok
}
