package legend

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/pagelegend/pkg/layout"
)

const defaultFPS = 60

// frameMsg advances the transition with the matching id.
type frameMsg struct {
	time time.Time
	id   int
}

// transition moves the content from one offset to another over time. A new
// transition supersedes the previous one by taking a new id.
type transition struct {
	start    time.Time
	from, to layout.Point
	duration time.Duration
	id       int
	active   bool
}

func (t *transition) retarget(from, to layout.Point, now time.Time, d time.Duration) {
	t.id++
	t.from, t.to = from, to
	t.start = now
	t.duration = d
	t.active = true
}

func (t *transition) stop() {
	t.id++
	t.active = false
}

// at returns the offset at now and whether the transition has finished.
func (t *transition) at(now time.Time) (layout.Point, bool) {
	if !t.active || t.duration <= 0 {
		return t.to, true
	}

	p := float64(now.Sub(t.start)) / float64(t.duration)
	if p >= 1 {
		return t.to, true
	}

	e := easeCubicOut(max(p, 0))

	return layout.Point{
		X: lerp(t.from.X, t.to.X, e),
		Y: lerp(t.from.Y, t.to.Y, e),
	}, false
}

func (t *transition) tick(fps int) tea.Cmd {
	id := t.id

	return tea.Tick(time.Second/time.Duration(fps), func(now time.Time) tea.Msg {
		return frameMsg{id: id, time: now}
	})
}

func easeCubicOut(p float64) float64 {
	p--

	return p*p*p + 1
}

func lerp(a, b int, e float64) int {
	return a + int(math.Round(float64(b-a)*e))
}
