package span

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex_ASCII(t *testing.T) {
	idx := New("hello world")

	assert.Equal(t, 11, idx.Len())
	start, end := idx.Range(6, 11)
	assert.Equal(t, 6, start)
	assert.Equal(t, 11, end)
}

func TestIndex_Empty(t *testing.T) {
	idx := New("")

	assert.Equal(t, 0, idx.Len())
	start, end := idx.Range(0, 0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestIndex_MultiByteClusters(t *testing.T) {
	// The family emoji is one grapheme made of several code points.
	family := "\U0001F468\u200D\U0001F469\u200D\U0001F467"
	text := family + " code 1234"
	idx := New(text)

	from := strings.Index(text, "1234")
	start, end := idx.Range(from, from+4)

	// family, space, c,o,d,e, space => "1234" starts at grapheme 7.
	assert.Equal(t, 7, start)
	assert.Equal(t, 11, end)
	assert.Equal(t, 11, idx.Len())
}

func TestIndex_CombiningMarks(t *testing.T) {
	// "é" written as e + combining acute is one cluster of 3 bytes.
	text := "cafe\u0301 @bob"
	idx := New(text)

	from := strings.Index(text, "@bob")
	start, end := idx.Range(from, len(text))

	assert.Equal(t, 5, start)
	assert.Equal(t, 9, end)
}

func TestIndex_RangeInsideCluster(t *testing.T) {
	// Keycap "1️⃣" is one cluster; a match covering only the digit is
	// widened to the whole cluster.
	text := "1\uFE0F\u20E3!"
	idx := New(text)

	start, end := idx.Range(0, 1)
	assert.Equal(t, 0, start)
	assert.Equal(t, 1, end)
}

func TestClusters(t *testing.T) {
	assert.Equal(t, []string{"a", "\U0001F600", "\u00e9"}, Clusters("a\U0001F600\u00e9"))
	assert.Nil(t, Clusters(""))
}
