package uitest

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/x/exp/teatest"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTimeout bounds every wait of the helpers in this package.
const DefaultTimeout = 3 * time.Second

// BubbleModel is a constraint for Bubble Tea model types that return their
// concrete type from Update instead of [tea.Model].
type BubbleModel[T any] interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (T, tea.Cmd) //nolint:ireturn // Must satisfy [tea.Model].
	View() string
}

// program runs a concrete model as a [tea.Model].
type program[T BubbleModel[T]] struct {
	model T
}

func (p program[T]) Init() tea.Cmd {
	return p.model.Init()
}

//nolint:ireturn // Must satisfy [tea.Model].
func (p program[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := p.model.Update(msg)

	return program[T]{model: m}, cmd
}

func (p program[T]) View() string {
	return p.model.View()
}

// NewTestModel starts m in a test program with the given terminal size.
func NewTestModel[T BubbleModel[T]](tb testing.TB, m T, size Size) *teatest.TestModel {
	tb.Helper()

	return teatest.NewTestModel(
		tb, program[T]{model: m},
		teatest.WithInitialTermSize(size.Width, size.Height),
	)
}

// WaitForText waits until the output of tm contains text. Output read while
// waiting is consumed, so consecutive calls observe newer frames.
func WaitForText(tb testing.TB, tm *teatest.TestModel, text string) {
	tb.Helper()

	teatest.WaitFor(tb, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte(text))
	}, teatest.WithDuration(DefaultTimeout))
}

// SendKey sends a key press. Named keys such as "pgdown" are resolved to
// their key type, anything else is sent as runes.
func SendKey(tm *teatest.TestModel, key string) {
	for kt, name := range keyNames {
		if name == key {
			tm.Send(tea.KeyMsg{Type: kt})

			return
		}
	}

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

var keyNames = map[tea.KeyType]string{
	tea.KeyPgUp:   "pgup",
	tea.KeyPgDown: "pgdown",
	tea.KeyLeft:   "left",
	tea.KeyRight:  "right",
	tea.KeyUp:     "up",
	tea.KeyDown:   "down",
	tea.KeySpace:  " ",
	tea.KeyEnter:  "enter",
	tea.KeyCtrlC:  "ctrl+c",
}

// Quit sends key and waits for the program to exit.
func Quit(tb testing.TB, tm *teatest.TestModel, key string) {
	tb.Helper()

	SendKey(tm, key)
	tm.WaitFinished(tb, teatest.WithFinalTimeout(DefaultTimeout))
}
