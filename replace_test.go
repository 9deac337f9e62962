package dfamatch_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coregx/dfamatch"
	"github.com/coregx/dfamatch/pattern"
	"github.com/coregx/dfamatch/searcher"
)

func TestSearchAndReplaceBuilder(t *testing.T) {
	t.Run("tagging tokens", func(t *testing.T) {
		b := dfamatch.NewSearchAndReplaceBuilder()
		tag := func(name string) dfamatch.StringReplacement {
			return func(dest *searcher.ReplaceAppendable, src searcher.Chars, start, end int) int {
				dest.AppendString("[" + name + "=")
				dest.Append(src, start, end)
				dest.AppendString("]")
				return end
			}
		}
		b.AddPattern(pattern.Repeat(pattern.Range('0', '9')), tag("NUM"))
		b.AddPattern(pattern.Repeat(pattern.Range('a', 'z')), tag("WORD"))

		replace, err := b.Build()
		require.NoError(t, err)
		require.Equal(t, "[WORD=abc] [NUM=123]", replace("abc 123"))
	})

	t.Run("fixed replacement", func(t *testing.T) {
		b := dfamatch.NewSearchAndReplaceBuilder()
		b.AddReplacement(pattern.Repeat(pattern.Range('a', 'z')), "X")

		replace, err := b.Build()
		require.NoError(t, err)
		require.Equal(t, " X X ", replace(" foo bar "))
	})

	t.Run("first added wins ties", func(t *testing.T) {
		b := dfamatch.NewSearchAndReplaceBuilder()
		b.AddReplacement(pattern.Match("ab"), "first")
		b.AddReplacement(pattern.Match("ab"), "second")

		replace, err := b.Build()
		require.NoError(t, err)
		require.Equal(t, "first", replace("ab"))
	})

	t.Run("longest match wins", func(t *testing.T) {
		b := dfamatch.NewSearchAndReplaceBuilder()
		b.AddReplacement(pattern.Match("a"), "short")
		b.AddReplacement(pattern.Match("ab"), "long")

		replace, err := b.Build()
		require.NoError(t, err)
		require.Equal(t, "long", replace("ab"))
	})

	t.Run("repositioning", func(t *testing.T) {
		word := pattern.Repeat(pattern.AnyCharIn("abcdefghijklmnopqrstuvwxyz0123456789"))
		b := dfamatch.NewSearchAndReplaceBuilder()
		b.AddPattern(word.ThenRepeatString(" ").Then(word), func(dest *searcher.ReplaceAppendable, src searcher.Chars, start, _ int) int {
			e := start
			for src[e] != ' ' {
				e++
			}
			dest.Append(src, start, e)
			dest.AppendString(", ")
			for src[e] == ' ' {
				e++
			}
			return e
		})

		replace, err := b.Build()
		require.NoError(t, err)
		require.Equal(t, " one, two, three, four, five ", replace(" one two  three   four five "))
	})

	t.Run("all-literal set uses prefilter", func(t *testing.T) {
		b := dfamatch.NewSearchAndReplaceBuilder()
		b.AddReplacement(pattern.Match("cat"), "CAT")
		b.AddReplacement(pattern.Match("dog"), "DOG")

		replace, err := b.Build()
		require.NoError(t, err)
		require.Equal(t, "a DOG and a CAT", replace("a dog and a cat"))
		require.Equal(t, "no animals", replace("no animals"))
		require.Equal(t, "ünicode dög CAT", replace("ünicode dög cat"))
	})

	t.Run("concurrent use", func(t *testing.T) {
		b := dfamatch.NewSearchAndReplaceBuilder()
		b.AddReplacement(pattern.Repeat(pattern.Range('0', '9')), "#")

		replace, err := b.Build()
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					if got := replace("a1b22c333"); got != "a#b#c#" {
						t.Errorf("replace = %q, want %q", got, "a#b#c#")
						return
					}
				}
			}()
		}
		wg.Wait()
	})

	t.Run("clear", func(t *testing.T) {
		b := dfamatch.NewSearchAndReplaceBuilder()
		b.AddReplacement(pattern.Match("old"), "!")
		b.Clear()
		b.AddReplacement(pattern.Match("new"), "?")

		replace, err := b.Build()
		require.NoError(t, err)
		require.Equal(t, "old ?", replace("old new"))
	})
}

func TestBuildFromSearcher(t *testing.T) {
	b := dfamatch.NewBuilder[string]()
	b.AddPattern(pattern.Repeat(pattern.Range('a', 'z')), "word")

	s, err := dfamatch.BuildStringSearcher(b, nil)
	require.NoError(t, err)

	replace := dfamatch.BuildFromSearcher(s, func(dest *searcher.ReplaceAppendable, _ string, src searcher.Chars, start, end int) int {
		dest.AppendString("<")
		dest.Append(src, start, end)
		dest.AppendString(">")
		return end
	})
	require.Equal(t, "<foo> 12 <bar>", replace("foo 12 bar"))
}
