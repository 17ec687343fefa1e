package anchor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/pagelegend/pkg/anchor"
)

func TestDispatcher_Flush(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		req      anchor.ScrollRequest
		wantA    int
		wantB    int
		wantDone bool
	}{
		"targets a single legend": {
			req:      anchor.NewScrollRequest(4, "a"),
			wantA:    4,
			wantB:    0,
			wantDone: true,
		},
		"empty id targets every legend of the subtype": {
			req:      anchor.NewScrollRequest(2, ""),
			wantA:    2,
			wantB:    2,
			wantDone: true,
		},
		"nil index is a no-op": {
			req:      anchor.ScrollRequest{LegendID: "a"},
			wantA:    0,
			wantB:    0,
			wantDone: false,
		},
		"other subtype does not match": {
			req: anchor.ScrollRequest{
				ScrollDataIndex: ptr(3),
				SubType:         "continuous",
			},
			wantA:    0,
			wantB:    0,
			wantDone: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a := anchor.NewStore("a")
			b := anchor.NewStore("b")
			d := anchor.NewDispatcher(a, b)

			assert.Equal(t, tc.wantDone, d.Submit(tc.req))

			// Nothing changes until the queue is flushed.
			assert.Equal(t, 0, a.Index())
			assert.Equal(t, 0, b.Index())

			d.Flush()
			assert.Equal(t, tc.wantA, a.Index())
			assert.Equal(t, tc.wantB, b.Index())
			assert.False(t, d.Pending())
		})
	}
}

func TestDispatcher_Subscribe(t *testing.T) {
	t.Parallel()

	s := anchor.NewStore("legend", anchor.WithIndex(1))
	d := anchor.NewDispatcher()
	d.Register(s)

	ch := make(chan anchor.Event, 4)
	d.Subscribe(ch)

	require.True(t, d.Submit(anchor.NewScrollRequest(3, "legend")))
	require.True(t, d.Submit(anchor.NewScrollRequest(5, "legend")))
	require.True(t, d.Pending())

	events := d.Flush()
	require.Len(t, events, 2)
	assert.Equal(t, anchor.EventScrolled{LegendID: "legend", From: 1, To: 3}, events[0])
	assert.Equal(t, anchor.EventScrolled{LegendID: "legend", From: 3, To: 5}, events[1])
	assert.Equal(t, 5, s.Index())

	require.Len(t, ch, 2)
	assert.Equal(t, events[0], <-ch)
}

func TestDispatcher_Unregister(t *testing.T) {
	t.Parallel()

	a := anchor.NewStore("a")
	b := anchor.NewStore("b")
	d := anchor.NewDispatcher(a, b)

	d.Unregister(a)
	// Unknown stores are ignored.
	d.Unregister(anchor.NewStore("c"))

	require.True(t, d.Submit(anchor.NewScrollRequest(3, "")))

	events := d.Flush()
	require.Len(t, events, 1)
	assert.Equal(t, "b", events[0].LegendID)
	assert.Equal(t, 0, a.Index())
	assert.Equal(t, 3, b.Index())
}

func TestStore(t *testing.T) {
	t.Parallel()

	s := anchor.NewStore("x", anchor.WithSubType("custom"), anchor.WithIndex(7))
	assert.Equal(t, "x", s.ID())
	assert.Equal(t, "custom", s.SubType())
	assert.Equal(t, 7, s.Index())

	req := anchor.ScrollRequest{ScrollDataIndex: ptr(1), SubType: "custom"}
	assert.True(t, req.Matches(s))
	assert.False(t, anchor.NewScrollRequest(1, "x").Matches(s))
}

func ptr[T any](v T) *T {
	return &v
}
