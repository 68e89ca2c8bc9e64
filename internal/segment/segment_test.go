package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderSegmenter(t *testing.T) {
	lines := []string{
		"preamble dropped",
		"Txt_A",
		"first",
		"second",
		"  Txt_B  ",
		"third",
	}

	doc := NewHeaderSegmenter("").Segment(lines)
	require.Equal(t, []string{"Txt_A", "Txt_B"}, doc.Keys())

	a, ok := doc.Get("Txt_A")
	require.True(t, ok)
	assert.Equal(t, []Line{{Index: 2, Text: "first"}, {Index: 3, Text: "second"}}, a.Lines)

	b, ok := doc.Get("Txt_B")
	require.True(t, ok)
	assert.Equal(t, []Line{{Index: 5, Text: "third"}}, b.Lines)
}

func TestHeaderSegmenterNoHeaders(t *testing.T) {
	doc := NewHeaderSegmenter("Txt_").Segment([]string{"a", "b"})
	assert.Equal(t, 0, doc.Len())
	assert.Empty(t, doc.Keys())
}

func TestHeaderSegmenterRepeatedKeyRestarts(t *testing.T) {
	lines := []string{"Txt_A", "old", "Txt_B", "b", "Txt_A", "new"}

	doc := NewHeaderSegmenter("").Segment(lines)
	assert.Equal(t, []string{"Txt_A", "Txt_B"}, doc.Keys())

	a, _ := doc.Get("Txt_A")
	assert.Equal(t, []Line{{Index: 5, Text: "new"}}, a.Lines)
}

func TestHeaderSegmenterCustomPrefix(t *testing.T) {
	doc := NewHeaderSegmenter("##").Segment([]string{"Txt_A", "## one", "x"})
	assert.Equal(t, []string{"## one"}, doc.Keys())
}

func TestHeaderSegmenterEmptyBody(t *testing.T) {
	doc := NewHeaderSegmenter("").Segment([]string{"Txt_A", "Txt_B", "x"})
	a, ok := doc.Get("Txt_A")
	require.True(t, ok)
	assert.Empty(t, a.Lines)
}

func TestRecordSegmenter(t *testing.T) {
	lines := []string{
		"Header=ignored",
		"SelfId=1001",
		"Speaker=Bob",
		"Text=<cf>Hello {NAME}",
		"Text=second text line ignored",
		"SelfId=1002",
		"Speaker=Ann",
		"  SelfId=1003",
		"  Text=Bye",
	}

	doc := NewRecordSegmenter().Segment(lines)
	require.Equal(t, []string{"1001", "1002", "1003"}, doc.Keys())

	r1, _ := doc.Get("1001")
	assert.Equal(t, []Line{{Index: 3, Text: "<cf>Hello {NAME}"}}, r1.Lines)

	r2, _ := doc.Get("1002")
	assert.Empty(t, r2.Lines)

	r3, _ := doc.Get("1003")
	assert.Equal(t, []Line{{Index: 8, Text: "Bye"}}, r3.Lines)
}

func TestRecordSegmenterDuplicateIDKeepsLast(t *testing.T) {
	lines := []string{"SelfId=1", "Text=a", "SelfId=1", "Text=b"}

	doc := NewRecordSegmenter().Segment(lines)
	r, _ := doc.Get("1")
	assert.Equal(t, []Line{{Index: 3, Text: "b"}}, r.Lines)
}

func TestLookup(t *testing.T) {
	s, err := Lookup("", "")
	require.NoError(t, err)
	assert.Equal(t, ModeHeader, s.Name())
	assert.Equal(t, DefaultHeaderPrefix, s.(*HeaderSegmenter).Prefix())

	s, err = Lookup(ModeRecord, "")
	require.NoError(t, err)
	assert.Equal(t, ModeRecord, s.Name())

	_, err = Lookup("xml", "")
	assert.Error(t, err)
}
