package log

import (
	"fmt"
	"io"
	"sync"
)

// DefaultBufferCapacity is used by [NewCircularBuffer] for capacities below 1.
const DefaultBufferCapacity = 100

// CircularBuffer is an [io.Writer] keeping the most recent writes. Each call
// to Write is one entry; once the buffer is full the oldest entry is dropped.
//
// It collects log records while the terminal belongs to the UI, see
// [CircularBuffer.Flush].
type CircularBuffer struct {
	entries [][]byte
	// next is the slot of the next write.
	next int
	// count is the number of stored entries, at most len(entries).
	count int
	mu    sync.RWMutex
}

// NewCircularBuffer creates a new [CircularBuffer] holding up to capacity
// entries.
func NewCircularBuffer(capacity int) *CircularBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}

	return &CircularBuffer{
		entries: make([][]byte, capacity),
	}
}

// Write stores a copy of p as a new entry.
func (cb *CircularBuffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	entry := append([]byte(nil), p...)

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.entries[cb.next] = entry
	cb.next = (cb.next + 1) % len(cb.entries)
	cb.count = min(cb.count+1, len(cb.entries))

	return len(p), nil
}

// Entries returns copies of the stored entries, oldest first.
func (cb *CircularBuffer) Entries() [][]byte {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	if cb.count == 0 {
		return nil
	}

	oldest := (cb.next - cb.count + len(cb.entries)) % len(cb.entries)

	out := make([][]byte, cb.count)
	for i := range out {
		out[i] = append([]byte(nil), cb.entries[(oldest+i)%len(cb.entries)]...)
	}

	return out
}

// Size returns the number of stored entries.
func (cb *CircularBuffer) Size() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.count
}

// Capacity returns the maximum number of entries.
func (cb *CircularBuffer) Capacity() int {
	return len(cb.entries)
}

// IsFull reports whether older entries are being dropped.
func (cb *CircularBuffer) IsFull() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.count == len(cb.entries)
}

// Clear removes all entries.
func (cb *CircularBuffer) Clear() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	clear(cb.entries)
	cb.next = 0
	cb.count = 0
}

// WriteTo writes the stored entries to w, oldest first.
func (cb *CircularBuffer) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, entry := range cb.Entries() {
		n, err := w.Write(entry)
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("write log entry: %w", err)
		}
	}

	return total, nil
}

// Flush writes the stored entries to w and clears the buffer.
func (cb *CircularBuffer) Flush(w io.Writer) error {
	_, err := cb.WriteTo(w)
	if err != nil {
		return err
	}

	cb.Clear()

	return nil
}
