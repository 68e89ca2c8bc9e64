package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []Occurrence
	}{
		{
			name: "bare tag",
			line: "Hello <cf> world",
			want: []Occurrence{{Name: "cf"}},
		},
		{
			name: "parameterized",
			line: "<IfGender_ACTOR(him,her,it)>",
			want: []Occurrence{{Name: "IfGender_ACTOR", Declared: 3, Filled: 3}},
		},
		{
			name: "blank parameters",
			line: "<Foo(,,)>",
			want: []Occurrence{{Name: "Foo", Declared: 3, Filled: 0}},
		},
		{
			name: "partially filled",
			line: "<Foo(a, ,c)>",
			want: []Occurrence{{Name: "Foo", Declared: 3, Filled: 2}},
		},
		{
			name: "empty argument list",
			line: "<Foo()>",
			want: []Occurrence{{Name: "Foo"}},
		},
		{
			name: "whitespace argument list",
			line: "<Foo(  )>",
			want: []Occurrence{{Name: "Foo"}},
		},
		{
			name: "name is trimmed",
			line: "< Foo (a) >",
			want: []Occurrence{{Name: "Foo", Declared: 1, Filled: 1}},
		},
		{
			name: "open paren without close",
			line: "<Foo(a>",
			want: []Occurrence{{Name: "Foo"}},
		},
		{
			name: "several tags in order",
			line: "<A><B(x)><A(y,z)>",
			want: []Occurrence{
				{Name: "A"},
				{Name: "B", Declared: 1, Filled: 1},
				{Name: "A", Declared: 2, Filled: 2},
			},
		},
		{
			name: "unterminated bracket",
			line: "a < b and <c",
			want: nil,
		},
		{
			name: "empty brackets",
			line: "<>",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.line))
		})
	}
}

func TestExtractKeepsFilledWithinDeclared(t *testing.T) {
	for _, line := range []string{"<X(a,,b,)>", "<X(,)>", "<X(a)>", "<X>"} {
		for _, o := range Extract(line) {
			assert.LessOrEqual(t, o.Filled, o.Declared, line)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"{X}", "{X}", "{Y}"}, Placeholders("{X} {X} {Y}"))
	assert.Equal(t, []string{"{ACTOR}"}, Placeholders("hi {ACTOR} {unterminated"))
	assert.Nil(t, Placeholders("no braces {} here"))
}

func TestGroupByName(t *testing.T) {
	groups := GroupByName(Extract("<B(x)><A><B(y,z)>"))
	require.Len(t, groups, 2)

	assert.Equal(t, "B", groups[0].Name)
	assert.Equal(t, []Slots{{1, 1}, {2, 2}}, groups[0].Slots)
	assert.Equal(t, "A", groups[1].Name)
	assert.Equal(t, []Slots{{0, 0}}, groups[1].Slots)
}

func TestSubtract(t *testing.T) {
	orig := []string{"{X}", "{X}", "{Y}"}
	trans := []string{"{X}", "{Y}", "{Y}"}

	assert.Equal(t, []string{"{X}"}, Subtract(orig, trans))
	assert.Equal(t, []string{"{Y}"}, Subtract(trans, orig))
	assert.Nil(t, Subtract(orig, orig))
	assert.Equal(t, orig, Subtract(orig, nil))
}
