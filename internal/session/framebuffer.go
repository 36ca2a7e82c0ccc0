package session

import "sync"

// FrameBuffer holds at most one frame: the latest one submitted. Producers
// overwrite freely; the consumer drains whatever is newest. Frames that
// arrive faster than the recognition cycle are intentionally dropped.
type FrameBuffer struct {
	mu      sync.Mutex
	frame   []byte
	dropped uint64
}

// NewFrameBuffer creates an empty single-slot buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Put replaces the buffered frame with the given one.
func (b *FrameBuffer) Put(frame []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frame != nil {
		b.dropped++
	}
	b.frame = frame
}

// Take removes and returns the buffered frame. The second return is false
// when the buffer is empty.
func (b *FrameBuffer) Take() ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	frame := b.frame
	b.frame = nil
	return frame, frame != nil
}

// Dropped returns how many frames were overwritten before being consumed.
func (b *FrameBuffer) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Clear discards any buffered frame. Called when a session ends.
func (b *FrameBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frame = nil
	b.dropped = 0
}
