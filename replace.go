package dfamatch

import (
	"log/slog"

	"github.com/coregx/dfamatch/dfa"
	"github.com/coregx/dfamatch/literal"
	"github.com/coregx/dfamatch/pattern"
	"github.com/coregx/dfamatch/prefilter"
	"github.com/coregx/dfamatch/searcher"
)

// StringReplacement generates the replacement for one occurrence of a
// pattern. It may append any content to dest and returns the position
// where scanning resumes, normally end.
type StringReplacement func(dest *searcher.ReplaceAppendable, src searcher.Chars, start, end int) int

// SearchAndReplaceBuilder builds functions that find patterns in strings
// and replace them.
//
// When matches to more than one pattern occur at the same position, the
// longest match is used; ties go to the pattern added first. When every
// pattern is a plain ASCII literal, the built function scans ASCII inputs
// with a multi-literal prefilter instead of probing each position; other
// inputs are probed position by position.
type SearchAndReplaceBuilder struct {
	builder      *Builder[int]
	replacements []StringReplacement
}

// NewSearchAndReplaceBuilder creates an empty builder.
func NewSearchAndReplaceBuilder() *SearchAndReplaceBuilder {
	return &SearchAndReplaceBuilder{builder: NewBuilder[int]()}
}

// SetCache installs a cache for the underlying automaton builds.
func (b *SearchAndReplaceBuilder) SetCache(cache BuilderCache) {
	b.builder.SetCache(cache)
}

// SetLogger replaces the logger used for cache warnings.
func (b *SearchAndReplaceBuilder) SetLogger(logger *slog.Logger) {
	b.builder.SetLogger(logger)
}

// Clear forgets all the patterns that have been added.
func (b *SearchAndReplaceBuilder) Clear() {
	b.builder.Clear()
	b.replacements = nil
}

// AddPattern adds a pattern and the replacement generator for its matches.
func (b *SearchAndReplaceBuilder) AddPattern(p pattern.Pattern, replacement StringReplacement) {
	b.builder.AddPattern(p, len(b.replacements))
	b.replacements = append(b.replacements, replacement)
}

// AddReplacement adds a pattern whose matches are replaced by a fixed
// string.
func (b *SearchAndReplaceBuilder) AddReplacement(p pattern.Pattern, replacement string) {
	b.AddPattern(p, func(dest *searcher.ReplaceAppendable, _ searcher.Chars, _, end int) int {
		dest.AppendString(replacement)
		return end
	})
}

// Build compiles the patterns and returns the search-and-replace function.
// The returned function is safe for concurrent use.
func (b *SearchAndReplaceBuilder) Build() (func(string) string, error) {
	language := make([]int, len(b.replacements))
	pats := make([]pattern.Pattern, 0, len(b.replacements))
	for i := range language {
		language[i] = i
		pats = append(pats, b.builder.patterns[i]...)
	}

	start, err := b.builder.Build(language, firstAddedResolver)
	if err != nil {
		return nil, err
	}

	s := searcher.NewStringSearcher(start, literalPrefilter(pats))
	funcs := append([]StringReplacement{}, b.replacements...)
	replace := func(dest *searcher.ReplaceAppendable, mr int, src searcher.Chars, start, end int) int {
		return funcs[mr](dest, src, start, end)
	}
	return func(str string) string {
		return s.FindAndReplace(str, replace)
	}, nil
}

// firstAddedResolver picks the smallest accept value, which corresponds to
// the pattern added to the builder first.
func firstAddedResolver(candidates []int) (int, error) {
	min := candidates[0]
	for _, c := range candidates[1:] {
		if c < min {
			min = c
		}
	}
	return min, nil
}

// BuildFromSearcher wraps an already built searcher and replacer into a
// search-and-replace function.
func BuildFromSearcher[M comparable](s *searcher.StringSearcher[M], replace searcher.ReplaceFunc[M]) func(string) string {
	return func(str string) string {
		return s.FindAndReplace(str, replace)
	}
}

// BuildStringSearcher compiles every pattern added to the builder into a
// searcher over the full language. The resolver combines accept values
// when patterns for several of them match the same string.
func BuildStringSearcher[M comparable](b *Builder[M], resolve dfa.Resolver[M]) (*searcher.StringSearcher[M], error) {
	language := append([]M{}, b.order...)
	start, err := b.Build(language, resolve)
	if err != nil {
		return nil, err
	}
	var pats []pattern.Pattern
	for _, accept := range b.order {
		pats = append(pats, b.patterns[accept]...)
	}
	return searcher.NewStringSearcher(start, literalPrefilter(pats)), nil
}

// literalPrefilter returns a prefilter for an all-literal pattern set, or
// nil when the set is not one.
func literalPrefilter(pats []pattern.Pattern) prefilter.Prefilter {
	seq, ok := literal.Extract(pats)
	if !ok || seq.IsEmpty() {
		return nil
	}
	lits, err := prefilter.NewLiterals(seq)
	if err != nil {
		return nil
	}
	return lits
}
