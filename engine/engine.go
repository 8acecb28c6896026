package engine

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"publicsuffix/config"
	"publicsuffix/parser"
)

// Engine answers public-suffix queries against the currently loaded rule
// index. The index is held behind an atomic pointer so a reload swaps it
// in one step: queries in flight see either the old or the new index,
// never a half-built one.
type Engine struct {
	cfg *config.Config
	idx atomic.Pointer[Index]
	log *zap.SugaredLogger
}

// NewEngine initializes the engine with an empty index. Every query then
// falls back to the implicit default rule until rules are loaded.
func NewEngine(cfg *config.Config, log *zap.SugaredLogger) *Engine {
	e := &Engine{cfg: cfg, log: log}
	e.idx.Store(BuildIndex(nil))
	return e
}

// Index returns the current rule index.
func (e *Engine) Index() *Index {
	return e.idx.Load()
}

// Load builds a fresh index from the given rules and swaps it in. When
// icann_only is configured, rules from the private section are dropped.
func (e *Engine) Load(rules []*parser.Rule) {
	if e.cfg.ICANNOnly {
		kept := rules[:0:0]
		for _, r := range rules {
			if !r.Private {
				kept = append(kept, r)
			}
		}
		rules = kept
	}
	e.idx.Store(BuildIndex(rules))
}

// ReloadRules loads every configured source concurrently, merges the
// results and atomically replaces the index. One failing source fails the
// reload and leaves the previous index in place.
func (e *Engine) ReloadRules(loader *parser.Loader) error {
	var (
		mu  sync.Mutex
		all []*parser.Rule
	)

	g := new(errgroup.Group)
	for _, src := range e.cfg.Sources {
		src := src
		g.Go(func() error {
			var (
				rules []*parser.Rule
				err   error
			)
			switch {
			case src.Path != "":
				rules, err = loader.LoadFromPath(src.Path)
			case src.URL != "":
				rules, err = loader.LoadFromURL(src.URL)
			default:
				return fmt.Errorf("source %q has neither url nor path", src.Name)
			}
			if err != nil {
				return fmt.Errorf("source %q: %w", src.Name, err)
			}

			mu.Lock()
			all = append(all, rules...)
			mu.Unlock()

			e.log.Infow("loaded rule source", "source", src.Name, "rules", len(rules))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	e.Load(all)
	e.log.Infow("rule index replaced", "rules", e.Index().Len())
	return nil
}

// Resolve normalizes the host and returns its public suffix boundaries.
func (e *Engine) Resolve(host string) (Result, error) {
	labels, err := NormalizeHost(host)
	if err != nil {
		return Result{}, err
	}
	return Resolve(labels, Match(labels, e.Index()))
}

// Tld returns the effective top-level domain (public suffix) of host.
func (e *Engine) Tld(host string) (string, error) {
	res, err := e.Resolve(host)
	if err != nil {
		return "", err
	}
	return res.PublicSuffix, nil
}

// Domain returns the registered domain of host, or the empty string when
// the host has no registrable part (it is itself a public suffix).
func (e *Engine) Domain(host string) (string, error) {
	res, err := e.Resolve(host)
	if err != nil {
		return "", err
	}
	return res.RegisteredDomain, nil
}

// Parents lists the host's parents ordered by specificity, stopping at
// the registered domain. A host at or below its registered domain has no
// parents worth reporting.
func (e *Engine) Parents(host string) ([]string, error) {
	labels, err := NormalizeHost(host)
	if err != nil {
		return nil, err
	}
	res, err := Resolve(labels, Match(labels, e.Index()))
	if err != nil {
		return nil, err
	}
	if res.RegisteredDomain == "" || strings.Join(labels, ".") == res.RegisteredDomain {
		return nil, nil
	}

	var parents []string
	for labels = labels[1:]; ; labels = labels[1:] {
		parent := strings.Join(labels, ".")
		parents = append(parents, parent)
		if parent == res.RegisteredDomain {
			return parents, nil
		}
	}
}

// Parent returns the host's immediate parent, or the empty string for a
// host with no parent above the registered domain.
func (e *Engine) Parent(host string) (string, error) {
	parents, err := e.Parents(host)
	if err != nil || len(parents) == 0 {
		return "", err
	}
	return parents[0], nil
}

// Suffixes returns the loaded rules in list syntax.
func (e *Engine) Suffixes() []string {
	rules := e.Index().Rules()
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.String())
	}
	return out
}
