package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/pagelegend/api/v1beta1/configs"
	"github.com/macropower/pagelegend/pkg/mcp"
	"github.com/macropower/pagelegend/pkg/ui"
)

type MCPArgs struct {
	*RootArgs

	Path          string
	ConfigPath    string
	Address       string
	TraceEndpoint string
	Width         int
	Height        int
	Watch         bool
}

func NewMCPArgs(rootArgs *RootArgs) *MCPArgs {
	return &MCPArgs{
		RootArgs: rootArgs,
	}
}

func (ma *MCPArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ma.ConfigPath, "config", "", "Path to the pagelegend configuration file")
	cmd.Flags().StringVar(&ma.Address, "address", "", "Serve over streamable HTTP at the specified address instead of stdio")
	cmd.Flags().StringVar(&ma.TraceEndpoint, "trace-endpoint", "", "OTLP gRPC endpoint to export traces to")
	cmd.Flags().IntVar(&ma.Width, "width", defaultWidth, "Width of the legend")
	cmd.Flags().IntVar(&ma.Height, "height", defaultHeight, "Height of the legend")
	cmd.Flags().BoolVarP(&ma.Watch, "watch", "w", false, "Watch the legend file and reload on changes")
}

// NewMCPCmd creates a command that serves a legend over MCP without a
// terminal UI.
func NewMCPCmd(ma *MCPArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp [legend]",
		Short: "Serve a legend over MCP without showing it",
		Example: `  # Serve the legend in the current directory over stdio:
  pagelegend mcp

  # Serve over streamable HTTP:
  pagelegend mcp ./example/temperature.yaml --address localhost:50165`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: runCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				ma.Path = args[0]
			}

			return serveMCP(cmd, ma)
		},
	}
	ma.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func serveMCP(cmd *cobra.Command, ma *MCPArgs) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	configPath := ma.ConfigPath
	if configPath == "" {
		configPath = configs.GetPath()
	}

	s, err := newSession(ctx, sessionArgs{
		ConfigPath:    configPath,
		LegendPath:    ma.Path,
		TraceEndpoint: ma.TraceEndpoint,
	})
	if err != nil {
		return err
	}

	defer func() {
		err := s.Close(context.WithoutCancel(ctx))
		if err != nil {
			slog.Error("close session", slog.Any("err", err))
		}
	}()

	// The program still applies scroll requests and runs passes, but stdio
	// belongs to the MCP transport.
	p := ui.NewProgram(s.modelConfig(),
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)

	s.logScrolls(ctx)

	if ma.Watch {
		err := watchLegend(ctx, s, p)
		if err != nil {
			return err
		}
	}

	go func() {
		p.Send(tea.WindowSizeMsg{Width: ma.Width, Height: ma.Height})
	}()

	errCh := make(chan error, 1)
	go func() {
		_, err := p.Run()
		errCh <- err
	}()

	mcpServer := mcp.NewServer(s.mcpAddress(ma.Address), ui.NewScroller(s.dispatcher, p), s.status,
		mcp.WithTracer(s.tracer),
	)

	err = mcpServer.Serve(ctx)

	p.Quit()

	if perr := <-errCh; perr != nil && err == nil {
		err = fmt.Errorf("tea: %w", perr)
	}

	return err
}
