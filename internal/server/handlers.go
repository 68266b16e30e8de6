package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/macropad/internal/model"
	"github.com/mj1618/macropad/internal/output"
	"github.com/mj1618/macropad/internal/profile"
	"gopkg.in/yaml.v3"
)

// resultToText serializes a StepResult to YAML for MCP response.
func resultToText(result output.StepResult) string {
	b, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Sprintf("ok: %v\nbutton: %d\nerror: %s", result.OK, result.Button, result.Error)
	}
	return string(b)
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func buttonParam(params map[string]interface{}) (model.ButtonID, error) {
	if _, ok := params["button"]; !ok {
		return 0, fmt.Errorf("button is required")
	}
	id := model.ButtonID(intParam(params, "button", -1))
	if !id.Valid() {
		return 0, fmt.Errorf("button %d out of range 0-%d", id, model.MaxButtonID)
	}
	return id, nil
}

// buttonHandler runs fn for the requested button and reports the capability
// errors raised while it ran.
func (s *Server) buttonHandler(
	request mcp.CallToolRequest,
	edge model.Edge,
	fn func(id model.ButtonID, params map[string]interface{}),
) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	id, err := buttonParam(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.errs.Take(id)
	fn(id, params)

	result := output.StepResult{
		OK:      true,
		Button:  int(id),
		Edge:    edge.String(),
		Actions: len(s.runner.Profile().Actions(id)),
	}
	for _, k := range s.runner.Held(id) {
		result.Held = append(result.Held, k.String())
	}
	if errs := s.errs.Take(id); len(errs) > 0 {
		result.OK = false
		result.Error = errs[0].Error()
		if len(errs) > 1 {
			result.Error = fmt.Sprintf("%s (and %d more)", result.Error, len(errs)-1)
		}
		return mcp.NewToolResultError(resultToText(result)), nil
	}
	return mcp.NewToolResultText(resultToText(result)), nil
}

func (s *Server) handlePress(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.buttonHandler(request, model.Pressed, func(id model.ButtonID, _ map[string]interface{}) {
		s.runner.Press(id)
	})
}

func (s *Server) handleRelease(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.buttonHandler(request, model.Released, func(id model.ButtonID, _ map[string]interface{}) {
		s.runner.Release(id)
	})
}

func (s *Server) handleTap(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.buttonHandler(request, model.Released, func(id model.ButtonID, params map[string]interface{}) {
		hold := time.Duration(intParam(params, "hold", int(DefaultTapHold/time.Millisecond))) * time.Millisecond
		s.runner.Press(id)
		s.clk.Sleep(hold)
		s.runner.Release(id)
	})
}

func (s *Server) handleListProfile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	f, err := profile.ParseFormat(stringParam(params, "format", "yaml"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := profile.Encode(s.runner.Profile(), f)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(doc)), nil
}

type mouseState struct {
	Backend string `yaml:"backend,omitempty"`
	Mouse   bool   `yaml:"mouse"`
	Synced  bool   `yaml:"synced"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Screen  string `yaml:"screen,omitempty"`
}

func (s *Server) handleMouseState(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := mouseState{Backend: s.backend}
	if s.mouse != nil {
		st.Mouse = true
		st.X, st.Y, st.Synced = s.mouse.Position()
		st.Screen = s.mouse.Screen().String()
	}
	b, err := yaml.Marshal(st)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
