package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUPutGet(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3) // evicts "a"

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUGetPromotes(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)

	// touching "a" makes "b" the eviction candidate
	_, ok := c.Get("a")
	require.True(t, ok)
	c.Put("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestLRUPutReplaces(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Put("a", 1)
	c.Put("a", 10)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, c.Len())
}

func TestLRUPop(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Put("a", 1)

	v, ok := c.Pop("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.True(t, c.IsEmpty())

	_, ok = c.Pop("a")
	assert.False(t, ok)
}

func TestLRUChangeCapacity(t *testing.T) {
	c := NewLRU[int, int](4)
	for i := 0; i < 4; i++ {
		c.Put(i, i)
	}
	c.ChangeCapacity(2)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.Capacity())

	// the two most recently used survive
	_, ok := c.Get(3)
	assert.True(t, ok)
	_, ok = c.Get(2)
	assert.True(t, ok)
	_, ok = c.Get(0)
	assert.False(t, ok)

	assert.Panics(t, func() { c.ChangeCapacity(0) })
}
