package parser

import "strings"

// Kind distinguishes the matching strategy required for a rule.
type Kind int

const (
	KindPlain     Kind = iota // ordinary suffix: "com", "co.uk"
	KindWildcard              // leading wildcard label: "*.ck"
	KindException             // carve-out from a wildcard: "!www.ck"
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindWildcard:
		return "wildcard"
	case KindException:
		return "exception"
	}
	return "unknown"
}

// Rule represents one parsed public suffix rule.
type Rule struct {
	Labels  []string // lowercased labels, left to right as written
	Kind    Kind
	Private bool // true for rules from the PRIVATE DOMAINS section of the list
}

// String renders the rule back in list syntax.
func (r Rule) String() string {
	s := strings.Join(r.Labels, ".")
	if r.Kind == KindException {
		return "!" + s
	}
	return s
}
