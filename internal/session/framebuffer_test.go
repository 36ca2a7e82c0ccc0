package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameBuffer(t *testing.T) {
	t.Run("empty buffer has nothing to take", func(t *testing.T) {
		b := NewFrameBuffer()
		frame, ok := b.Take()
		assert.False(t, ok)
		assert.Nil(t, frame)
	})

	t.Run("take drains the slot", func(t *testing.T) {
		b := NewFrameBuffer()
		b.Put([]byte("frame-1"))

		frame, ok := b.Take()
		assert.True(t, ok)
		assert.Equal(t, []byte("frame-1"), frame)

		_, ok = b.Take()
		assert.False(t, ok)
	})

	t.Run("newer frame overwrites the older one", func(t *testing.T) {
		b := NewFrameBuffer()
		b.Put([]byte("frame-1"))
		b.Put([]byte("frame-2"))
		b.Put([]byte("frame-3"))

		frame, ok := b.Take()
		assert.True(t, ok)
		assert.Equal(t, []byte("frame-3"), frame)
		assert.Equal(t, uint64(2), b.Dropped())
	})

	t.Run("clear resets slot and counter", func(t *testing.T) {
		b := NewFrameBuffer()
		b.Put([]byte("frame-1"))
		b.Put([]byte("frame-2"))
		b.Clear()

		_, ok := b.Take()
		assert.False(t, ok)
		assert.Zero(t, b.Dropped())
	})
}
