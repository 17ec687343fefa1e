// Package ui runs the legend as a bubbletea program and connects it to
// file reloads and external scroll requests.
package ui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/pagelegend/pkg/anchor"
	"github.com/macropower/pagelegend/pkg/log"
	"github.com/macropower/pagelegend/pkg/watch"

	uilegend "github.com/macropower/pagelegend/pkg/ui/legend"
)

// Sender sends messages to a running program. [*tea.Program] implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// model adapts [uilegend.Model] to [tea.Model].
type model struct {
	legend *uilegend.Model
}

func (m model) Init() tea.Cmd {
	return m.legend.Init()
}

//nolint:ireturn // Must satisfy [tea.Model].
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	l, cmd := m.legend.Update(msg)

	return model{legend: l}, cmd
}

func (m model) View() string {
	return m.legend.View()
}

// NewProgram returns a new Tea program showing the legend.
func NewProgram(cfg uilegend.Config, opts ...tea.ProgramOption) *tea.Program {
	slog.Debug("starting pagelegend ui")

	return tea.NewProgram(model{legend: uilegend.NewModel(cfg)}, opts...)
}

// Scroller submits scroll requests to a dispatcher and wakes the program so
// they are applied on its next pass.
type Scroller struct {
	dispatcher *anchor.Dispatcher
	sender     Sender
}

// NewScroller creates a new [Scroller].
func NewScroller(d *anchor.Dispatcher, s Sender) *Scroller {
	return &Scroller{dispatcher: d, sender: s}
}

// Scroll submits req. It returns false if the request was dropped.
func (s *Scroller) Scroll(req anchor.ScrollRequest) bool {
	if !s.dispatcher.Submit(req) {
		return false
	}

	s.sender.Send(uilegend.FlushMsg{})

	return true
}

// LoadFunc reads the legend file again.
type LoadFunc func(ctx context.Context) (uilegend.ReloadMsg, error)

// ForwardReloads reloads the legend for every watch event and sends the
// result to the program, until events is closed or ctx is done.
func ForwardReloads(ctx context.Context, events <-chan watch.Event, load LoadFunc, s Sender) {
	logger := log.WithContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-events:
			if !ok {
				return
			}

			if evt.Err != nil {
				logger.ErrorContext(ctx, "watch legend file", slog.Any("error", evt.Err))
				s.Send(uilegend.ErrMsg{Err: evt.Err})

				continue
			}

			msg, err := load(ctx)
			if err != nil {
				logger.WarnContext(ctx, "reload legend file",
					slog.String("path", evt.Path),
					slog.Any("error", err),
				)
				s.Send(uilegend.ErrMsg{Err: err})

				continue
			}

			logger.DebugContext(ctx, "reloaded legend file", slog.String("path", evt.Path))
			s.Send(msg)
		}
	}
}
