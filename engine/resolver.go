package engine

import (
	"errors"
	"strings"
)

// ErrInvalidHost is reported for queries that carry no usable labels.
var ErrInvalidHost = errors.New("invalid host name")

// Result carries the resolved boundaries for one host name.
type Result struct {
	PublicSuffix     string `json:"public_suffix"`
	RegisteredDomain string `json:"registered_domain,omitempty"`
}

// Resolve derives the public suffix and the registered domain from a
// match. A host consisting of exactly its public suffix has no
// registrable part; RegisteredDomain is left empty and that is not an
// error.
func Resolve(hostLabels []string, m MatchResult) (Result, error) {
	n := len(hostLabels)
	if n == 0 {
		return Result{}, ErrInvalidHost
	}
	if m.Labels > n {
		return Result{}, ErrInvalidHost
	}

	res := Result{
		PublicSuffix: strings.Join(hostLabels[n-m.Labels:], "."),
	}
	if m.Labels < n {
		res.RegisteredDomain = strings.Join(hostLabels[n-m.Labels-1:], ".")
	}
	return res, nil
}
