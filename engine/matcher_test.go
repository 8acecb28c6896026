package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"publicsuffix/parser"
)

func TestMatch(t *testing.T) {
	ix := BuildIndex(parser.ParseString(`com
uk
co.uk
*.ck
!www.ck
*.kawasaki.jp
!city.kawasaki.jp
jp
`))

	tests := []struct {
		host string
		want MatchResult
	}{
		// Plain rules, longest match wins.
		{"example.com", MatchResult{1, parser.KindPlain}},
		{"www.bbc.co.uk", MatchResult{2, parser.KindPlain}},
		{"parliament.uk", MatchResult{1, parser.KindPlain}},
		{"co.uk", MatchResult{2, parser.KindPlain}},

		// Wildcard consumes exactly one label.
		{"foo.ck", MatchResult{2, parser.KindWildcard}},
		{"bar.foo.ck", MatchResult{2, parser.KindWildcard}},
		{"ck", MatchResult{1, parser.KindPlain}}, // implicit rule, "*.ck" needs two labels

		// Exception carves its own label out of the suffix.
		{"www.ck", MatchResult{1, parser.KindException}},
		{"sub.www.ck", MatchResult{1, parser.KindException}},
		{"city.kawasaki.jp", MatchResult{2, parser.KindException}},
		{"sub.city.kawasaki.jp", MatchResult{2, parser.KindException}},
		{"other.kawasaki.jp", MatchResult{3, parser.KindWildcard}},

		// Unknown TLD falls back to the implicit rule.
		{"example.foobar", MatchResult{1, parser.KindPlain}},
		{"foobar", MatchResult{1, parser.KindPlain}},

		// Known TLD but no matching rule at any length.
		{"kawasaki.jp", MatchResult{1, parser.KindPlain}},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			got := Match(strings.Split(tt.host, "."), ix)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMatchEmptyIndex(t *testing.T) {
	ix := BuildIndex(nil)
	got := Match([]string{"www", "example", "com"}, ix)
	require.Equal(t, MatchResult{Labels: 1, Kind: parser.KindPlain}, got)
}

func TestMatchHostShorterThanRules(t *testing.T) {
	ix := BuildIndex(parser.ParseString("a.b.c.com\ncom\n"))
	got := Match([]string{"com"}, ix)
	require.Equal(t, MatchResult{Labels: 1, Kind: parser.KindPlain}, got)
}
