package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	commentPrefix   = "//"
	exceptionPrefix = "!"
	wildcardLabel   = "*"

	// Section markers carried in the published list. Everything between
	// them describes privately-operated suffixes (github.io and friends).
	beginPrivate = "// ===BEGIN PRIVATE DOMAINS==="
	endPrivate   = "// ===END PRIVATE DOMAINS==="
)

// ParseRule parses a single line of public suffix rule text.
// Returns nil if the line is blank or a comment, and an error if the
// line cannot be expressed as a valid rule.
func ParseRule(line string) (*Rule, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, commentPrefix) {
		return nil, nil // Comment or empty
	}

	rule := &Rule{Kind: KindPlain}

	// 1. Exception marker
	if strings.HasPrefix(line, exceptionPrefix) {
		rule.Kind = KindException
		line = line[1:]
	}

	// 2. Normalize: rules end at the first whitespace, a leading dot is
	// optional, and matching is case-insensitive.
	if i := strings.IndexFunc(line, isSpace); i != -1 {
		line = line[:i]
	}
	line = strings.TrimPrefix(line, ".")
	line = strings.ToLower(line)
	if line == "" {
		return nil, fmt.Errorf("rule has no labels")
	}

	// 3. Split into labels
	rule.Labels = strings.Split(line, ".")
	for i, label := range rule.Labels {
		if label == "" {
			return nil, fmt.Errorf("rule %q has an empty label", line)
		}
		if label == wildcardLabel {
			switch {
			case rule.Kind == KindException:
				return nil, fmt.Errorf("exception rule %q contains a wildcard", line)
			case i != 0:
				return nil, fmt.Errorf("rule %q has a non-leading wildcard", line)
			case len(rule.Labels) == 1:
				// A bare "*" would shadow the implicit default rule with
				// unclear semantics; treat it as invalid input.
				return nil, fmt.Errorf("rule is a bare wildcard")
			}
			rule.Kind = KindWildcard
		}
	}

	return rule, nil
}

// Parse reads newline-delimited rule text and returns every valid rule.
// Malformed lines are skipped, never fatal; only a read failure is an
// error. Rules between the PRIVATE DOMAINS section markers are flagged
// Private.
func Parse(r io.Reader) ([]*Rule, error) {
	var rules []*Rule
	private := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		// Section markers are comments, so check before ParseRule drops them.
		switch strings.TrimSpace(line) {
		case beginPrivate:
			private = true
			continue
		case endPrivate:
			private = false
			continue
		}

		rule, err := ParseRule(line)
		if err != nil || rule == nil {
			continue
		}
		rule.Private = private
		rules = append(rules, rule)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

// ParseString is Parse over an in-memory list.
func ParseString(text string) []*Rule {
	rules, _ := Parse(strings.NewReader(text))
	return rules
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}
