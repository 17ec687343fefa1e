package log_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/pagelegend/pkg/log"
)

func TestNewCircularBuffer(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		capacity int
		want     int
	}{
		"positive": {capacity: 10, want: 10},
		"zero":     {capacity: 0, want: log.DefaultBufferCapacity},
		"negative": {capacity: -5, want: log.DefaultBufferCapacity},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cb := log.NewCircularBuffer(tc.capacity)
			assert.Equal(t, tc.want, cb.Capacity())
			assert.Equal(t, 0, cb.Size())
			assert.False(t, cb.IsFull())
			assert.Nil(t, cb.Entries())
		})
	}
}

func TestCircularBuffer_Entries(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		writes []string
		want   []string
		full   bool
	}{
		"empty writes are ignored": {
			writes: []string{"", "a", ""},
			want:   []string{"a"},
		},
		"partially filled": {
			writes: []string{"a", "b"},
			want:   []string{"a", "b"},
		},
		"exactly full": {
			writes: []string{"a", "b", "c"},
			want:   []string{"a", "b", "c"},
			full:   true,
		},
		"oldest entries dropped": {
			writes: []string{"a", "b", "c", "d", "e"},
			want:   []string{"c", "d", "e"},
			full:   true,
		},
		"wrapped twice": {
			writes: []string{"a", "b", "c", "d", "e", "f", "g"},
			want:   []string{"e", "f", "g"},
			full:   true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cb := log.NewCircularBuffer(3)
			for _, w := range tc.writes {
				n, err := cb.Write([]byte(w))
				require.NoError(t, err)
				assert.Equal(t, len(w), n)
			}

			got := []string{}
			for _, e := range cb.Entries() {
				got = append(got, string(e))
			}

			assert.Equal(t, tc.want, got)
			assert.Equal(t, len(tc.want), cb.Size())
			assert.Equal(t, tc.full, cb.IsFull())
		})
	}
}

func TestCircularBuffer_Copies(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(2)

	in := []byte("pass")
	_, err := cb.Write(in)
	require.NoError(t, err)

	in[0] = 'X'
	out := cb.Entries()
	require.Len(t, out, 1)
	assert.Equal(t, "pass", string(out[0]))

	out[0][0] = 'Y'
	assert.Equal(t, "pass", string(cb.Entries()[0]))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestCircularBuffer_Flush(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(2)
	for _, w := range []string{"one\n", "two\n", "three\n"} {
		_, err := cb.Write([]byte(w))
		require.NoError(t, err)
	}

	require.Error(t, cb.Flush(failingWriter{}))
	assert.Equal(t, 2, cb.Size(), "entries are kept when the write fails")

	var out bytes.Buffer
	require.NoError(t, cb.Flush(&out))
	assert.Equal(t, "two\nthree\n", out.String())
	assert.Equal(t, 0, cb.Size())
	assert.False(t, cb.IsFull())

	// Writes start over after a flush.
	_, err := cb.Write([]byte("four\n"))
	require.NoError(t, err)

	n, err := cb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "two\nthree\nfour\n", out.String())
}

func TestCircularBuffer_Handler(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(10)
	logger := slog.New(log.CreateHandler(cb, slog.LevelInfo, log.FormatJSON))

	logger.Debug("hidden")
	logger.Info("legend pass", slog.Int("page", 1))
	logger.Warn("reload legend file")

	entries := cb.Entries()
	require.Len(t, entries, 2)
	assert.Contains(t, string(entries[0]), `"msg":"legend pass"`)
	assert.Contains(t, string(entries[1]), `"level":"WARN"`)
}

func TestCircularBuffer_Concurrent(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(50)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range 20 {
				_, err := fmt.Fprintf(cb, "%d-%d\n", i, j)
				assert.NoError(t, err)
				_ = cb.Entries()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 50, cb.Size())
	assert.True(t, cb.IsFull())
}
