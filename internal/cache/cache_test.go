package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagcheck/internal/compare"
)

func TestKeyDependsOnEveryPart(t *testing.T) {
	base := Key("a", "b", "header")
	assert.Equal(t, base, Key("a", "b", "header"))
	assert.NotEqual(t, base, Key("a", "c", "header"))
	assert.NotEqual(t, base, Key("b", "b", "header"))
	assert.NotEqual(t, base, Key("a", "b", "record"))
	// swapping sides is a different pair
	assert.NotEqual(t, Key("a", "b", "x"), Key("b", "a", "x"))
}

func TestGetSet(t *testing.T) {
	c := NewSessionCache()
	s, err := compare.Check("Txt_A\nx\n", "Txt_A\ny\n", compare.Options{})
	require.NoError(t, err)

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Set("k", s)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Hits())
}

func TestConcurrentAccess(t *testing.T) {
	c := NewSessionCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key("o", string(rune('a'+i%4)), "v")
			if _, ok := c.Get(key); !ok {
				c.Set(key, &compare.Session{})
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 4, c.Len())
}
