package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/pagelegend/pkg/anchor"
	"github.com/macropower/pagelegend/pkg/legend"
	"github.com/macropower/pagelegend/pkg/version"

	uilegend "github.com/macropower/pagelegend/pkg/ui/legend"
)

const (
	tracerName = "github.com/macropower/pagelegend/pkg/mcp"

	// DefaultWaitTimeout is how long scroll_to_index waits for the request
	// to be applied.
	DefaultWaitTimeout = time.Second
)

var (
	ErrNoIndex = errors.New("scrollDataIndex is required")
	ErrNoLabel = errors.New("label is required")
	ErrNoMatch = errors.New("no piece matches label")
)

// Scroller accepts scroll requests for the displayed legend.
type Scroller interface {
	// Scroll submits req. It returns false if the request was dropped.
	Scroll(req anchor.ScrollRequest) bool
}

// StatusReader returns the page state of the displayed legend.
type StatusReader interface {
	Snapshot() uilegend.Snapshot
}

// GetPageInfoParams are the arguments of get_page_info.
type GetPageInfoParams struct{}

// ScrollToIndexParams are the arguments of scroll_to_index.
type ScrollToIndexParams struct {
	ScrollDataIndex *int   `json:"scrollDataIndex"`
	LegendID        string `json:"legendId,omitempty"`
}

// ScrollToLabelParams are the arguments of scroll_to_label.
type ScrollToLabelParams struct {
	Label    string `json:"label"`
	LegendID string `json:"legendId,omitempty"`
}

// ScrollToIndexResult is the result of scroll_to_index and scroll_to_label.
type ScrollToIndexResult struct {
	Page            uilegend.Snapshot `json:"page"`
	ScrollDataIndex int               `json:"scrollDataIndex"`
	Applied         bool              `json:"applied"`
}

// Server implements the MCP server for pagelegend.
type Server struct {
	scroller Scroller
	status   StatusReader
	server   *mcp.Server
	tracer   trace.Tracer
	address  string
	timeout  time.Duration
	poll     time.Duration
}

// ServerOpt configures a [Server].
type ServerOpt func(*Server)

// WithTracer sets the tracer used for tool calls.
func WithTracer(t trace.Tracer) ServerOpt {
	return func(s *Server) {
		s.tracer = t
	}
}

// WithWaitTimeout sets how long scroll_to_index waits for the request to be
// applied.
func WithWaitTimeout(d time.Duration) ServerOpt {
	return func(s *Server) {
		s.timeout = d
	}
}

// NewServer creates a new MCP server instance. An empty address serves
// over stdio.
func NewServer(address string, scroller Scroller, status StatusReader, opts ...ServerOpt) *Server {
	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	s := &Server{
		address:  address,
		scroller: scroller,
		status:   status,
		server:   mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		tracer:   otel.Tracer(tracerName),
		timeout:  DefaultWaitTimeout,
		poll:     10 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()

	return s
}

// registerTools registers all available tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_page_info",
		Description: "Get the current page of the legend, including the visible pieces and the indices reachable with the page controls.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
		OutputSchema: newPageInfoSchema(),
	}, WithTracing(s.tracer, "get_page_info", s.HandleGetPageInfo))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "scroll_to_index",
		Description: "Scroll the legend to the page containing a piece index. Use indices from get_page_info.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"scrollDataIndex": {
					Type:        "integer",
					Description: "The piece index to scroll to.",
				},
				"legendId": {
					Type:        "string",
					Description: "The ID of the legend. Defaults to all legends.",
				},
			},
			Required: []string{"scrollDataIndex"},
		},
	}, WithTracing(s.tracer, "scroll_to_index", s.HandleScrollToIndex))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "scroll_to_label",
		Description: "Scroll the legend to the page containing the piece whose label best matches a fuzzy query.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"label": {
					Type:        "string",
					Description: "The label to search for, e.g. \"warm\" or \"10 - 20\".",
				},
				"legendId": {
					Type:        "string",
					Description: "The ID of the legend. Defaults to all legends.",
				},
			},
			Required: []string{"label"},
		},
	}, WithTracing(s.tracer, "scroll_to_label", s.HandleScrollToLabel))
}

// HandleGetPageInfo handles the get_page_info tool call.
func (s *Server) HandleGetPageInfo(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ GetPageInfoParams,
) (*mcp.CallToolResult, uilegend.Snapshot, error) {
	snap := s.status.Snapshot()

	result, err := textResult(snap)
	if err != nil {
		return nil, uilegend.Snapshot{}, err
	}

	return result, snap, nil
}

// HandleScrollToIndex handles the scroll_to_index tool call.
func (s *Server) HandleScrollToIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	params ScrollToIndexParams,
) (*mcp.CallToolResult, ScrollToIndexResult, error) {
	if params.ScrollDataIndex == nil {
		return nil, ScrollToIndexResult{}, ErrNoIndex
	}

	req := anchor.ScrollRequest{
		ScrollDataIndex: params.ScrollDataIndex,
		LegendID:        params.LegendID,
	}

	return s.scroll(ctx, req)
}

// HandleScrollToLabel handles the scroll_to_label tool call.
func (s *Server) HandleScrollToLabel(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	params ScrollToLabelParams,
) (*mcp.CallToolResult, ScrollToIndexResult, error) {
	if params.Label == "" {
		return nil, ScrollToIndexResult{}, ErrNoLabel
	}

	idx, ok := legend.FindLabel(params.Label, s.status.Snapshot().Pieces)
	if !ok {
		return nil, ScrollToIndexResult{}, fmt.Errorf("%w: %q", ErrNoMatch, params.Label)
	}

	return s.scroll(ctx, anchor.NewScrollRequest(idx, params.LegendID))
}

func (s *Server) scroll(ctx context.Context, req anchor.ScrollRequest) (*mcp.CallToolResult, ScrollToIndexResult, error) {
	out := ScrollToIndexResult{ScrollDataIndex: *req.ScrollDataIndex}
	if s.scroller.Scroll(req) {
		out.Page, out.Applied = s.waitForAnchor(ctx, req)
	} else {
		out.Page = s.status.Snapshot()
	}

	slog.DebugContext(ctx, "scroll request handled",
		slog.Int("index", *req.ScrollDataIndex),
		slog.String("legend", req.LegendID),
		slog.Bool("applied", out.Applied),
	)

	result, err := textResult(out)
	if err != nil {
		return nil, ScrollToIndexResult{}, err
	}

	return result, out, nil
}

// waitForAnchor polls the status until a pass has observed the requested
// anchor, the timeout elapses or ctx is done.
func (s *Server) waitForAnchor(ctx context.Context, req anchor.ScrollRequest) (uilegend.Snapshot, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		snap := s.status.Snapshot()
		if applied(snap, req) {
			return snap, true
		}

		select {
		case <-ctx.Done():
			return snap, false
		case <-ticker.C:
		}
	}
}

func applied(snap uilegend.Snapshot, req anchor.ScrollRequest) bool {
	if req.LegendID != "" && req.LegendID != snap.LegendID {
		return true
	}

	return snap.Anchor == *req.ScrollDataIndex
}

func textResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil
}

// Server returns the underlying [mcp.Server].
func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve starts the MCP server and blocks until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.server.Run(ctx, &mcp.StdioTransport{})
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

// Handler returns the streamable HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

func (s *Server) serveHTTP(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),

		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("MCP server failed: %w", err)
		}

		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx) //nolint:contextcheck // The parent context is done.
		if err != nil {
			return fmt.Errorf("shutdown MCP server: %w", err)
		}

		return nil
	}
}
