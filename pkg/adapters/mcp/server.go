package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/internal/logging"
	"github.com/aretw0/cascade/internal/presentation/graph"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	sceneURI = "cascade://scene"
	graphURI = "cascade://graph"

	drainTimeout = 5 * time.Second
)

// Engine defines what the MCP server needs from cascade.Engine.
type Engine interface {
	ports.Engine
	graph.RuleSource
	Describe(id domain.EntityID) (domain.EntitySnapshot, bool)
}

// Server wraps a cascade engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine: engine,
		logger: logger,
		mcpServer: server.NewMCPServer("cascade-mcp", strings.TrimSpace(cascade.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// SSEHandler routes the SSE stream and its message endpoint. baseURL is the
// address clients are told to post messages to.
func (s *Server) SSEHandler(baseURL string) http.Handler {
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer, allowAnyOrigin)
	r.Handle("/sse", sse.SSEHandler())
	r.Handle("/message", sse.MessageHandler())
	return r
}

// ServeSSE listens on port until ctx is done, then drains open connections
// for up to drainTimeout.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := ":" + strconv.Itoa(port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.SSEHandler("http://localhost" + addr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("mcp sse listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()
	s.logger.Info("mcp sse draining")
	if err := srv.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("drain mcp sse: %w", err)
	}
	return nil
}

func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("trigger",
		mcp.WithDescription("Send an interaction to an entity. The resulting changes are queued and applied by the next tick."),
		mcp.WithString("entity", mcp.Required(), mcp.Description("Entity name or numeric handle")),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Interaction kind"),
			mcp.Enum(string(domain.Hover), string(domain.Clicked), string(domain.Dragged), string(domain.Scrolled))),
		mcp.WithNumber("dx", mcp.Description("Cursor or wheel delta on x (dragged/scrolled)")),
		mcp.WithNumber("dy", mcp.Description("Cursor or wheel delta on y (dragged/scrolled)")),
		mcp.WithOutputSchema[TriggerResult](),
	), triggerHandler(s.engine))

	s.mcpServer.AddTool(mcp.NewTool("tick",
		mcp.WithDescription("Apply every queued change and advance the scene tick."),
		mcp.WithOutputSchema[TickResult](),
	), tickHandler(s.engine))

	s.mcpServer.AddTool(mcp.NewTool("inspect_entity",
		mcp.WithDescription("Describe one entity: parent, children, groups and attributes."),
		mcp.WithString("entity", mcp.Required(), mcp.Description("Entity name or numeric handle")),
		mcp.WithOutputSchema[EntityView](),
	), inspectHandler(s.engine))

	s.mcpServer.AddTool(mcp.NewTool("press",
		mcp.WithDescription("Start dragging an entity."),
		mcp.WithString("entity", mcp.Required(), mcp.Description("Entity name or numeric handle")),
	), pressHandler(s.engine))

	s.mcpServer.AddTool(mcp.NewTool("release",
		mcp.WithDescription("End the active drag."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.engine.Release()
		return mcp.NewToolResultText("released"), nil
	})
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(sceneURI, "Scene entities",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return sceneResource(s.engine)
	})

	s.mcpServer.AddResource(mcp.NewResource(graphURI, "Scene graph (Mermaid)",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      graphURI,
				MIMEType: "text/plain",
				Text:     graph.GenerateMermaid(s.engine.Inspect(), graph.Edges(s.engine), nil),
			},
		}, nil
	})
}

func sceneResource(engine Engine) ([]mcp.ResourceContents, error) {
	snaps := engine.Inspect()
	views := make([]EntityView, len(snaps))
	for i, snap := range snaps {
		views[i] = viewFromSnapshot(snap)
	}
	data, err := json.Marshal(views)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scene: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      sceneURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func triggerHandler(engine Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input TriggerInput
		if err := request.BindArguments(&input); err != nil {
			return mcp.NewToolResultErrorFromErr("invalid trigger arguments", err), nil
		}
		kind, err := domain.ParseTrigger(input.Kind)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("invalid trigger kind", err), nil
		}
		id, ok := resolve(engine, input.Entity)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown entity %q", input.Entity)), nil
		}

		sig := domain.Signal{Entity: id, Kind: kind}
		if input.DX != 0 || input.DY != 0 {
			sig.Delta = &domain.Vec2{X: input.DX, Y: input.DY}
		}
		batch, err := engine.Trigger(ctx, sig)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("trigger failed", err), nil
		}

		result := TriggerResult{BatchID: batch.ID, Tick: batch.Tick, Descriptors: make([]string, len(batch.Descriptors))}
		for i, d := range batch.Descriptors {
			result.Descriptors[i] = d.String()
		}
		return mcp.NewToolResultStructuredOnly(result), nil
	}
}

func tickHandler(engine Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := engine.Tick(ctx)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("tick failed", err), nil
		}
		result := TickResult{
			Tick:    report.Tick,
			Batches: report.Batches,
			Applied: report.Applied(),
			Dropped: report.Dropped(),
		}
		for _, res := range report.Results {
			result.Outcomes = append(result.Outcomes, fmt.Sprintf("%s: %s", res.Status, res.Descriptor))
		}
		return mcp.NewToolResultStructuredOnly(result), nil
	}
}

func inspectHandler(engine Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("entity")
		if err != nil {
			return mcp.NewToolResultErrorFromErr("invalid inspect arguments", err), nil
		}
		id, ok := resolve(engine, ref)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown entity %q", ref)), nil
		}
		snap, _ := engine.Describe(id)
		return mcp.NewToolResultStructuredOnly(viewFromSnapshot(snap)), nil
	}
}

func pressHandler(engine Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("entity")
		if err != nil {
			return mcp.NewToolResultErrorFromErr("invalid press arguments", err), nil
		}
		id, ok := resolve(engine, ref)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown entity %q", ref)), nil
		}
		engine.Press(id)
		return mcp.NewToolResultText("pressed " + id.String()), nil
	}
}

// resolve accepts a name or a numeric handle of an existing entity.
func resolve(engine Engine, ref string) (domain.EntityID, bool) {
	if id, ok := engine.Resolve(ref); ok {
		return id, true
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(ref, "e"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	_, ok := engine.Describe(domain.EntityID(n))
	return domain.EntityID(n), ok
}
