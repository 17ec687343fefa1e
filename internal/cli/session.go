package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aymanbagabas/go-udiff"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/pagelegend/api"
	"github.com/macropower/pagelegend/api/v1beta1/configs"
	"github.com/macropower/pagelegend/api/v1beta1/legends"
	"github.com/macropower/pagelegend/pkg/anchor"
	"github.com/macropower/pagelegend/pkg/config"
	"github.com/macropower/pagelegend/pkg/telemetry"
	"github.com/macropower/pagelegend/pkg/ui/theme"

	uilegend "github.com/macropower/pagelegend/pkg/ui/legend"
)

var ErrNoLegend = errors.New("no legend file found")

// session holds everything loaded before a legend is shown.
type session struct {
	cfg        *configs.Config
	theme      *theme.Theme
	telemetry  *telemetry.Telemetry
	tracer     trace.Tracer
	dispatcher *anchor.Dispatcher
	status     *uilegend.Status
	initial    uilegend.ReloadMsg
	path       string
	data       []byte
	anchor     *int
}

type sessionArgs struct {
	ConfigPath    string
	LegendPath    string
	TraceEndpoint string
	// Anchor overrides the anchor of the legend options when set.
	Anchor *int
}

func newSession(ctx context.Context, sa sessionArgs) (*session, error) {
	cfg, err := loadConfig(sa.ConfigPath)
	if err != nil {
		return nil, err
	}

	err = cfg.UI.RegisterThemes()
	if err != nil {
		return nil, fmt.Errorf("register themes: %w", err)
	}

	path, err := resolveLegendPath(sa.LegendPath)
	if err != nil {
		return nil, err
	}

	tcfg := telemetry.Config{Endpoint: sa.TraceEndpoint}
	if cfg.Telemetry != nil {
		if tcfg.Endpoint == "" && cfg.Telemetry.Endpoint != nil {
			tcfg.Endpoint = *cfg.Telemetry.Endpoint
		}
		if cfg.Telemetry.Insecure != nil {
			tcfg.Insecure = *cfg.Telemetry.Insecure
		}
	}

	tel, err := telemetry.New(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}

	s := &session{
		cfg:        cfg,
		theme:      theme.New(*cfg.UI.Theme),
		telemetry:  tel,
		tracer:     tel.Tracer(cmdName),
		dispatcher: anchor.NewDispatcher(),
		status:     uilegend.NewStatus(),
		path:       path,
		anchor:     sa.Anchor,
	}

	s.initial, err = s.load(ctx)
	if err != nil {
		return nil, errors.Join(err, s.Close(ctx))
	}

	return s, nil
}

// load reads and validates the legend file.
func (s *session) load(ctx context.Context) (uilegend.ReloadMsg, error) {
	_, span := s.tracer.Start(ctx, "legend.load")
	defer span.End()

	data, err := api.ReadFile(s.path)
	if err != nil {
		return uilegend.ReloadMsg{}, fmt.Errorf("read legend %q: %w", s.path, err)
	}

	cl := config.NewLoaderFromBytes(data, legends.New, legends.DefaultValidator,
		config.WithThemeFromData(),
	)

	l, err := cl.LoadValid()
	if err != nil {
		return uilegend.ReloadMsg{}, fmt.Errorf("invalid legend %q: %w", s.path, err)
	}

	settings, err := l.Settings(s.cfg.Legend)
	if err != nil {
		return uilegend.ReloadMsg{}, fmt.Errorf("invalid legend %q: %w", s.path, err)
	}

	if s.anchor != nil {
		settings.Anchor = *s.anchor
	}

	if s.data != nil {
		slog.DebugContext(ctx, "legend changed",
			slog.String("diff", udiff.Unified("before", "after", string(s.data), string(data))),
		)
	}

	s.data = data

	slog.DebugContext(ctx, "loaded legend",
		slog.String("path", s.path),
		slog.String("id", l.ID),
		slog.Int("pieces", len(l.Pieces)),
	)

	return uilegend.ReloadMsg{
		Legend:   settings.NewLegend(l.ID, l.Pieces),
		Title:    l.Title,
		Settings: settings,
	}, nil
}

// modelConfig returns the configuration of the legend model.
func (s *session) modelConfig() uilegend.Config {
	return uilegend.Config{
		Legend:     s.initial.Legend,
		Title:      s.initial.Title,
		Settings:   s.initial.Settings,
		Theme:      s.theme,
		KeyBinds:   s.cfg.UI.KeyBinds,
		Dispatcher: s.dispatcher,
		Status:     s.status,
		Tracer:     s.tracer,
		FPS:        *s.cfg.UI.FPS,
		ShowHelp:   *s.cfg.UI.ShowHelp,
	}
}

// mcpAddress returns the MCP address of the configuration, unless flag is
// set.
func (s *session) mcpAddress(flag string) string {
	if flag != "" {
		return flag
	}
	if s.cfg.MCP != nil && s.cfg.MCP.Address != nil {
		return *s.cfg.MCP.Address
	}

	return ""
}

// logScrolls logs every applied scroll request until ctx is done.
func (s *session) logScrolls(ctx context.Context) {
	ch := make(chan anchor.Event, 16)
	s.dispatcher.Subscribe(ch)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-ch:
				if e, ok := evt.(anchor.EventScrolled); ok {
					slog.DebugContext(ctx, "legend scrolled",
						slog.String("legend", e.LegendID),
						slog.Int("from", e.From),
						slog.Int("to", e.To),
					)
				}
			}
		}
	}()
}

func (s *session) Close(ctx context.Context) error {
	err := s.telemetry.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown telemetry: %w", err)
	}

	return nil
}

func loadConfig(path string) (*configs.Config, error) {
	if path == "" {
		path = configs.GetPath()
	}

	cl, err := config.NewLoaderFromFile(path, configs.New, configs.DefaultValidator,
		config.WithThemeFromData(),
	)
	if err != nil {
		slog.Warn("could not read config, using defaults", slog.Any("err", err))

		return configs.New(), nil
	}

	cfg, err := cl.LoadValid()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return cfg, nil
}

// resolveLegendPath returns path, or the nearest legend file when path is
// empty or a directory.
func resolveLegendPath(path string) (string, error) {
	if path == "" {
		path = "."
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat legend: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	found, err := api.FindFile(path, api.LegendFileNames)
	if err != nil {
		return "", fmt.Errorf("find legend: %w", err)
	}
	if found == "" {
		return "", fmt.Errorf("%w in %q", ErrNoLegend, path)
	}

	return found, nil
}
