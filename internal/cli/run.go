package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/pagelegend/api/v1beta1/configs"
	"github.com/macropower/pagelegend/pkg/log"
	"github.com/macropower/pagelegend/pkg/mcp"
	"github.com/macropower/pagelegend/pkg/ui"
	"github.com/macropower/pagelegend/pkg/watch"

	uilegend "github.com/macropower/pagelegend/pkg/ui/legend"
)

const (
	cmdExamples = `  # Show the legend in the current directory:
  pagelegend

  # Show a legend file:
  pagelegend ./example/temperature.yaml

  # Watch for changes and reload:
  pagelegend ./example/temperature.yaml --watch

  # Start on the page containing the fifth piece:
  pagelegend ./example/temperature.yaml --anchor 4

  # Accept scroll requests over MCP:
  pagelegend ./example/temperature.yaml --serve-mcp localhost:50165

  # Send a single page to a file (disables TUI):
  pagelegend ./example/temperature.yaml --width 60 > legend.txt`

	defaultWidth  = 80
	defaultHeight = 24
	logBufferSize = 100
)

type RunArgs struct {
	*RootArgs

	Path          string
	ConfigPath    string
	ServeMCP      string
	TraceEndpoint string
	Anchor        int
	Width         int
	Height        int
	Watch         bool
	WriteConfig   bool
	ShowConfig    bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.ConfigPath, "config", "", "Path to the pagelegend configuration file")
	cmd.Flags().StringVar(&ra.ServeMCP, "serve-mcp", "", "Serve the MCP server at the specified address")
	cmd.Flags().StringVar(&ra.TraceEndpoint, "trace-endpoint", "", "OTLP gRPC endpoint to export traces to")
	cmd.Flags().IntVar(&ra.Anchor, "anchor", 0, "Data index of the piece to start on")
	cmd.Flags().IntVar(&ra.Width, "width", defaultWidth, "Width of the output when it is not a terminal")
	cmd.Flags().IntVar(&ra.Height, "height", defaultHeight, "Height of the output when it is not a terminal")
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Watch the legend file and reload on changes")
	cmd.Flags().BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration file and exit")
	cmd.Flags().BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")

	err := cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "run [legend]",
		Short:             "Default command, can be used explicitly if the path is ambiguous",
		Example:           cmdExamples,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: runCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				ra.Path = args[0]
			}

			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runCompletion(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return []cobra.Completion{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	}

	return nil, cobra.ShellCompDirectiveNoFileComp
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	configPath := ra.ConfigPath
	if configPath == "" {
		configPath = configs.GetPath()
	}

	err := configs.WriteDefault(configPath, false)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}
	if ra.WriteConfig {
		// Exit early after writing the default config.
		// Also, if there was an error, it should be fatal.
		return err
	}

	if ra.ShowConfig {
		return showConfig(cmd.OutOrStdout(), configPath)
	}

	sa := sessionArgs{
		ConfigPath:    configPath,
		LegendPath:    ra.Path,
		TraceEndpoint: ra.TraceEndpoint,
	}
	if cmd.Flags().Changed("anchor") {
		sa.Anchor = &ra.Anchor
	}

	s, err := newSession(ctx, sa)
	if err != nil {
		return err
	}

	defer func() {
		err := s.Close(context.WithoutCancel(ctx))
		if err != nil {
			slog.Error("close session", slog.Any("err", err))
		}
	}()

	// If stdout is not a terminal, print a single page.
	out := cmd.OutOrStdout()
	if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		view := uilegend.Render(s.modelConfig(), ra.Width, ra.Height)
		_, err := fmt.Fprintln(out, trimBlankLines(view))
		if err != nil {
			return fmt.Errorf("write to stdout: %w", err)
		}

		return nil
	}

	logBuf := log.NewCircularBuffer(logBufferSize)
	logHandler, err := log.CreateHandlerWithStrings(logBuf, ra.LogLevel, ra.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	slog.SetDefault(slog.New(logHandler))

	err = runUI(ctx, s, ra)
	if err != nil {
		slog.Error("run UI", slog.Any("err", err))
		flushLogs(cmd.ErrOrStderr(), logBuf)

		return fmt.Errorf("ui program failure: %w", err)
	}

	flushLogs(cmd.ErrOrStderr(), logBuf)

	return nil
}

// runUI starts the UI program with its file watcher and MCP server.
func runUI(ctx context.Context, s *session, ra *RunArgs) error {
	p := ui.NewProgram(s.modelConfig(), tea.WithAltScreen(), tea.WithContext(ctx))

	s.logScrolls(ctx)

	if ra.Watch {
		err := watchLegend(ctx, s, p)
		if err != nil {
			return err
		}
	}

	if addr := s.mcpAddress(ra.ServeMCP); addr != "" {
		mcpServer := mcp.NewServer(addr, ui.NewScroller(s.dispatcher, p), s.status,
			mcp.WithTracer(s.tracer),
		)

		go func() {
			err := mcpServer.Serve(ctx)
			if err != nil {
				slog.Error("MCP server failed", slog.Any("err", err))
			}
		}()
	}

	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("tea: %w", err)
	}

	return nil
}

// watchLegend reloads the legend on every change of its file.
func watchLegend(ctx context.Context, s *session, sender ui.Sender) error {
	delay, err := s.cfg.UI.Delay()
	if err != nil {
		return fmt.Errorf("watch legend: %w", err)
	}

	w, err := watch.New(s.path, watch.WithDelay(delay))
	if err != nil {
		return fmt.Errorf("watch legend: %w", err)
	}

	events := make(chan watch.Event)
	w.Subscribe(events)

	go func() {
		w.Run(ctx)

		err := w.Close()
		if err != nil {
			slog.Error("close watcher", slog.Any("err", err))
		}
	}()

	go ui.ForwardReloads(ctx, events, s.load, sender)

	return nil
}

func showConfig(w io.Writer, path string) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	slog.Info("active configuration", slog.String("path", path))

	yamlBytes, err := cfg.MarshalYAML()
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	yamlConfig := string(yamlBytes)

	err = cfg.UI.RegisterThemes()
	if err != nil {
		slog.Warn("register themes", slog.Any("err", err))
	}

	err = quick.Highlight(w, yamlConfig, "yaml", "terminal256", *cfg.UI.Theme)
	if err != nil {
		mustN(fmt.Fprintln(w, yamlConfig))

		return fmt.Errorf("highlight config: %w", err)
	}

	return nil
}

// trimBlankLines removes trailing lines containing only spaces.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	return strings.Join(lines, "\n")
}

func flushLogs(w io.Writer, buf *log.CircularBuffer) {
	slog.Debug("flush logs to console",
		slog.Int("count", buf.Size()),
		slog.Int("max", buf.Capacity()),
		slog.Bool("truncated", buf.IsFull()),
	)

	err := buf.Flush(w)
	if err != nil {
		panic(err)
	}
}
