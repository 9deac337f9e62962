package literal_test

import (
	"testing"

	"github.com/coregx/dfamatch/literal"
	"github.com/coregx/dfamatch/pattern"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		pats []pattern.Pattern
		want []string
		ok   bool
	}{
		{
			name: "keywords",
			pats: []pattern.Pattern{pattern.Match("if"), pattern.Match("else"), pattern.Match("for")},
			want: []string{"if", "else", "for"},
			ok:   true,
		},
		{
			name: "concatenated literals",
			pats: []pattern.Pattern{pattern.Match("foo").ThenString("bar")},
			want: []string{"foobar"},
			ok:   true,
		},
		{
			name: "duplicates collapse",
			pats: []pattern.Pattern{pattern.Match("dup"), pattern.Match("dup"), pattern.Match("x")},
			want: []string{"dup", "x"},
			ok:   true,
		},
		{
			name: "non-literal pattern",
			pats: []pattern.Pattern{pattern.Match("if"), pattern.Repeat(pattern.Match("a"))},
			ok:   false,
		},
		{
			name: "case-insensitive literal",
			pats: []pattern.Pattern{pattern.MatchI("if")},
			ok:   false,
		},
		{
			name: "empty literal",
			pats: []pattern.Pattern{pattern.Match("")},
			ok:   false,
		},
		{
			name: "non-ascii literal",
			pats: []pattern.Pattern{pattern.Match("café")},
			ok:   false,
		},
		{
			name: "no patterns",
			pats: nil,
			want: []string{},
			ok:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, ok := literal.Extract(tt.pats)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if seq.Len() != len(tt.want) {
				t.Fatalf("Len() = %d, want %d", seq.Len(), len(tt.want))
			}
			for i, w := range tt.want {
				got := seq.Get(i)
				if string(got.Bytes) != w {
					t.Errorf("Get(%d).Bytes = %q, want %q", i, got.Bytes, w)
				}
				if !got.Complete {
					t.Errorf("Get(%d).Complete = false, want true", i)
				}
			}
		})
	}
}

func TestSeq_Dedupe(t *testing.T) {
	seq := literal.NewSeq(
		literal.NewLiteral([]byte("aa"), false),
		literal.NewLiteral([]byte("bb"), true),
		literal.NewLiteral([]byte("aa"), true),
	)
	seq.Dedupe()
	if seq.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", seq.Len())
	}
	if got := seq.Get(0); string(got.Bytes) != "aa" || !got.Complete {
		t.Errorf("Get(0) = {%q, %v}, want {\"aa\", true}", got.Bytes, got.Complete)
	}
}

func TestSeq_MinLen(t *testing.T) {
	if got := literal.NewSeq().MinLen(); got != 0 {
		t.Errorf("empty MinLen() = %d, want 0", got)
	}
	seq := literal.NewSeq(
		literal.NewLiteral([]byte("three"), true),
		literal.NewLiteral([]byte("if"), true),
	)
	if got := seq.MinLen(); got != 2 {
		t.Errorf("MinLen() = %d, want 2", got)
	}
}
