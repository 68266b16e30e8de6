// Package server exposes the macro pad as MCP tools: virtual button presses,
// the loaded profile and the believed mouse position.
package server

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/macropad/internal/clock"
	"github.com/mj1618/macropad/internal/executor"
	"github.com/mj1618/macropad/internal/model"
)

// DefaultTapHold is how long tap_button holds a button when no hold is given.
const DefaultTapHold = 50 * time.Millisecond

// Runner is the executor surface the tools drive.
type Runner interface {
	Press(id model.ButtonID)
	Release(id model.ButtonID)
	Profile() model.Profile
	State(id model.ButtonID) executor.State
	Held(id model.ButtonID) []model.Key
}

// MouseInspector reports the controller's believed position.
type MouseInspector interface {
	Position() (x, y int, synced bool)
	Screen() model.Screen
}

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	Version   string
}

// Server wraps the MCP server with the executor it drives.
type Server struct {
	runner  Runner
	mouse   MouseInspector
	errs    *ErrorLog
	backend string
	clk     clock.Clock
	log     *slog.Logger
	mcp     *mcpserver.MCPServer
}

// Option configures a Server.
type Option func(*Server)

func WithClock(c clock.Clock) Option { return func(s *Server) { s.clk = c } }

func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.log = l } }

// WithBackend names the injection backend in mouse_state output.
func WithBackend(name string) Option { return func(s *Server) { s.backend = name } }

// New creates a server with all tools registered. errs must be the log the
// runner reports capability errors to; mouse may be nil.
func New(runner Runner, mouse MouseInspector, errs *ErrorLog, version string, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		mouse:  mouse,
		errs:   errs,
		clk:    clock.Real{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.errs == nil {
		s.errs = NewErrorLog(0, s.clk)
	}
	s.mcp = mcpserver.NewMCPServer("macropad", version)
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		s.log.Info("mcp server listening", "port", cfg.Port)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("press_button",
			mcp.WithDescription("Press a macro pad button and run its macro. Keys the macro presses stay held until release_button."),
			mcp.WithNumber("button", mcp.Description("Button id (pin number)"), mcp.Required()),
		),
		s.handlePress,
	)

	s.mcp.AddTool(
		mcp.NewTool("release_button",
			mcp.WithDescription("Release a macro pad button, releasing the keys its last run holds"),
			mcp.WithNumber("button", mcp.Description("Button id (pin number)"), mcp.Required()),
		),
		s.handleRelease,
	)

	s.mcp.AddTool(
		mcp.NewTool("tap_button",
			mcp.WithDescription("Press a button, hold it, then release it"),
			mcp.WithNumber("button", mcp.Description("Button id (pin number)"), mcp.Required()),
			mcp.WithNumber("hold", mcp.Description("Hold time in ms (default: 50)")),
		),
		s.handleTap,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_profile",
			mcp.WithDescription("Show the loaded button to macro mapping"),
			mcp.WithString("format", mcp.Description("Document format: yaml, json, text (default: yaml)")),
		),
		s.handleListProfile,
	)

	s.mcp.AddTool(
		mcp.NewTool("mouse_state",
			mcp.WithDescription("Show the believed cursor position, the screen bounds and the input backend"),
		),
		s.handleMouseState,
	)
}
