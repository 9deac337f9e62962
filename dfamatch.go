// Package dfamatch compiles sets of patterns into minimized deterministic
// automata and runs them over strings.
//
// A Builder collects patterns, each mapped to an accept value, and builds
// an automaton with one start state per language, where a language is a
// subset of the accept values. Languages built together are minimized jointly and share
// equivalent states. The resulting start states drive the scanners in the
// searcher package.
//
// Building is comparatively expensive, so it is typically done once per
// pattern set. A BuilderCache can persist built automata across runs; on a
// hit the whole compilation pipeline is skipped.
package dfamatch

import (
	"log/slog"

	"github.com/coregx/dfamatch/dfa"
	"github.com/coregx/dfamatch/nfa"
	"github.com/coregx/dfamatch/pattern"
)

// Builder accumulates patterns and compiles them into automata. The zero
// value is not usable; create builders with NewBuilder.
type Builder[M comparable] struct {
	order    []M
	patterns map[M][]pattern.Pattern
	cache    BuilderCache
	logger   *slog.Logger
	config   dfa.Config
}

// NewBuilder creates an empty builder with the default configuration, no
// cache and the default logger.
func NewBuilder[M comparable]() *Builder[M] {
	return &Builder[M]{
		patterns: make(map[M][]pattern.Pattern),
		logger:   slog.Default(),
		config:   dfa.DefaultConfig(),
	}
}

// SetCache installs a cache for built automata. Cache failures are logged
// and the builder falls back to an uncached build, so a flaky cache never
// fails a Build call.
func (b *Builder[M]) SetCache(cache BuilderCache) {
	b.cache = cache
}

// SetLogger replaces the logger used for cache warnings.
func (b *Builder[M]) SetLogger(logger *slog.Logger) {
	b.logger = logger
}

// SetConfig replaces the build configuration.
func (b *Builder[M]) SetConfig(cfg dfa.Config) {
	b.config = cfg
}

// Clear forgets all the patterns that have been added.
func (b *Builder[M]) Clear() {
	b.order = nil
	b.patterns = make(map[M][]pattern.Pattern)
}

// AddPattern adds a pattern to the set. Multiple patterns may share an
// accept value; a string matching any of them yields that value.
func (b *Builder[M]) AddPattern(p pattern.Pattern, accept M) {
	if _, ok := b.patterns[accept]; !ok {
		b.order = append(b.order, accept)
	}
	b.patterns[accept] = append(b.patterns[accept], p)
}

// Build compiles the patterns of a single language, given as the subset of
// accept values to include. The resolver combines accept values when
// patterns for several of them match the same string; a nil resolver makes
// such an ambiguity a build error.
func (b *Builder[M]) Build(language []M, resolve dfa.Resolver[M]) (dfa.State[M], error) {
	states, err := b.BuildMany([][]M{language}, resolve)
	if err != nil {
		return dfa.State[M]{}, err
	}
	return states[0], nil
}

// BuildMany compiles several languages simultaneously into one automaton,
// minimized jointly so the languages share as many states as possible, and
// returns one start state per language.
func (b *Builder[M]) BuildMany(languages [][]M, resolve dfa.Resolver[M]) ([]dfa.State[M], error) {
	if len(languages) == 0 {
		return nil, nil
	}

	var key string
	digestible := false
	if b.cache != nil {
		key, digestible = b.digest(languages, resolve != nil)
	}
	if digestible {
		if d, ok := b.cacheGet(key, len(languages)); ok {
			return startStates(d, len(languages)), nil
		}
	}

	d, err := b.build(languages, resolve)
	if err != nil {
		return nil, err
	}
	if digestible {
		b.cachePut(key, d)
	}
	return startStates(d, len(languages)), nil
}

func (b *Builder[M]) build(languages [][]M, resolve dfa.Resolver[M]) (*dfa.DFA[M], error) {
	var n nfa.NFA[M]
	starts := make([]int, len(languages))
	for i := range languages {
		starts[i] = n.AddState()
	}

	for _, accept := range b.order {
		patList := b.patterns[accept]
		if len(patList) == 0 {
			continue
		}
		matchState := -1
		for i, language := range languages {
			if !containsAccept(language, accept) {
				continue
			}
			if matchState < 0 {
				acceptState := n.AddAcceptingState(accept)
				if len(patList) > 1 {
					matchState = n.AddState()
					for _, p := range patList {
						n.AddEpsilon(matchState, p.EmitIntoNFA(&n, acceptState))
					}
				} else {
					matchState = patList[0].EmitIntoNFA(&n, acceptState)
				}
			}
			n.AddEpsilon(starts[i], matchState)
		}
	}

	return dfa.Build(&n, starts, resolve, b.config)
}

func (b *Builder[M]) cacheGet(key string, numStarts int) (*dfa.DFA[M], bool) {
	data, ok, err := b.cache.Get(key)
	if err != nil {
		b.logger.Warn("automaton cache read failed", "key", key,
			"error", &dfa.Error{Kind: dfa.CacheIO, Message: "cache read failed", Cause: err})
		return nil, false
	}
	if !ok {
		return nil, false
	}
	d, err := dfa.Deserialize[M](data)
	if err != nil {
		b.logger.Warn("automaton cache entry unusable", "key", key, "error", err)
		return nil, false
	}
	if d.NumStarts() != numStarts {
		b.logger.Warn("automaton cache entry unusable", "key", key, "error", "wrong start state count")
		return nil, false
	}
	return d, true
}

func (b *Builder[M]) cachePut(key string, d *dfa.DFA[M]) {
	data, err := dfa.Serialize(d)
	if err != nil {
		b.logger.Warn("automaton not cacheable", "key", key, "error", err)
		return
	}
	if err := b.cache.Put(key, data); err != nil {
		b.logger.Warn("automaton cache write failed", "key", key,
			"error", &dfa.Error{Kind: dfa.CacheIO, Message: "cache write failed", Cause: err})
	}
}

func startStates[M comparable](d *dfa.DFA[M], n int) []dfa.State[M] {
	states := make([]dfa.State[M], n)
	for i := range states {
		states[i] = d.Start(i)
	}
	return states
}

func containsAccept[M comparable](language []M, accept M) bool {
	for _, a := range language {
		if a == accept {
			return true
		}
	}
	return false
}
