package aeisdk

import (
	"context"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	internalmcp "github.com/arimaakit/aei-sdk-go/internal/mcp"
)

// Re-export MCP SDK types for the public API.
// These are the official MCP protocol types.
type (
	// CallToolResult is the server's response to a tool call.
	// Use TextResult or ErrorResult helpers to create results.
	CallToolResult = mcp.CallToolResult

	// CallToolRequest is the request passed to tool handlers.
	CallToolRequest = mcp.CallToolRequest

	// McpContent is the interface for content types in tool results.
	McpContent = mcp.Content

	// McpTextContent represents text content in a tool result.
	McpTextContent = mcp.TextContent

	// McpTool represents an MCP tool definition from the official SDK.
	McpTool = mcp.Tool

	// McpToolAnnotations describes optional hints about tool behavior.
	// Fields include ReadOnlyHint, DestructiveHint, IdempotentHint,
	// OpenWorldHint, and Title.
	McpToolAnnotations = mcp.ToolAnnotations

	// Schema is a JSON Schema object for tool input validation.
	Schema = jsonschema.Schema
)

// EngineMcpServer is an in-process MCP server exposing engine analysis
// tools. Create one with CreateEngineMcpServer.
type EngineMcpServer = internalmcp.Server

// EngineToolHandler is the function signature for engine tool handlers.
// It receives the context and request, and returns the result.
//
// Use ParseArguments to extract input as map[string]any from the request.
// Use TextResult and ErrorResult helpers to create results.
type EngineToolHandler = mcp.ToolHandler

// EngineToolOption configures an EngineTool during construction.
type EngineToolOption func(*EngineTool)

// WithToolAnnotations sets MCP tool annotations (hints about tool
// behavior such as read-only or idempotent).
func WithToolAnnotations(annotations *McpToolAnnotations) EngineToolOption {
	return func(t *EngineTool) {
		t.ToolAnnotations = annotations
	}
}

// EngineTool represents a tool created with NewEngineTool.
type EngineTool struct {
	ToolName        string
	ToolDescription string
	ToolSchema      *jsonschema.Schema
	ToolHandler     EngineToolHandler
	ToolAnnotations *McpToolAnnotations
}

// Name returns the tool name.
func (t *EngineTool) Name() string {
	return t.ToolName
}

// Description returns the tool description.
func (t *EngineTool) Description() string {
	return t.ToolDescription
}

// InputSchema returns the JSON Schema for the tool input.
func (t *EngineTool) InputSchema() *jsonschema.Schema {
	return t.ToolSchema
}

// NewEngineTool creates an EngineTool with optional configuration.
//
// The inputSchema should be a *jsonschema.Schema. Use SimpleSchema for
// convenience or create a full Schema struct for more control.
//
// Example:
//
//	evalTool := aeisdk.NewEngineTool("evaluate", "Scores a position",
//	    aeisdk.SimpleSchema(map[string]string{"position": "string"}),
//	    func(ctx context.Context, req *aeisdk.CallToolRequest) (*aeisdk.CallToolResult, error) {
//	        args, err := aeisdk.ParseArguments(req)
//	        if err != nil {
//	            return aeisdk.ErrorResult(err.Error()), nil
//	        }
//	        // run the engine...
//	        return aeisdk.TextResult("eval 120"), nil
//	    },
//	)
func NewEngineTool(
	name, description string,
	inputSchema *jsonschema.Schema,
	handler EngineToolHandler,
	opts ...EngineToolOption,
) *EngineTool {
	t := &EngineTool{
		ToolName:        name,
		ToolDescription: description,
		ToolSchema:      inputSchema,
		ToolHandler:     handler,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// CreateEngineMcpServer creates an in-process MCP server with the given
// tools.
//
// The server runs within your application; tools are invoked directly
// through ListTools and CallTool without any wire transport:
//
//	server := aeisdk.CreateEngineMcpServer("arimaa", "1.0.0",
//	    aeisdk.BestMoveTool("/usr/games/bot_opfor"),
//	)
//
//	result, err := server.CallTool(ctx, "best_move", map[string]any{
//	    "move_time_seconds": 5,
//	})
func CreateEngineMcpServer(name, version string, tools ...*EngineTool) *EngineMcpServer {
	server := internalmcp.NewServer(name, version)

	for _, tool := range tools {
		mcpTool := internalmcp.NewTool(tool.ToolName, tool.ToolDescription, tool.ToolSchema)
		mcpTool.Annotations = tool.ToolAnnotations
		server.AddTool(mcpTool, tool.ToolHandler)
	}

	return server
}

// BestMoveTool returns the built-in best_move tool: it runs the one-shot
// BestMove flow against the given engine binary and reports the move as
// text.
//
// Tool arguments (all optional):
//   - position: 64-character board string; defaults to the standard
//     opening setup
//   - side: side to move, "g" or "s"; defaults to gold
//   - move_time_seconds: per-move time limit in seconds
//
// The opts are applied to every analysis the tool runs; per-call
// arguments take precedence.
func BestMoveTool(enginePath string, opts ...Option) *EngineTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"position": {
				Type:        "string",
				Description: "64-character board string; omit for the standard opening setup",
			},
			"side": {
				Type:        "string",
				Description: `side to move: "g" (gold) or "s" (silver)`,
			},
			"move_time_seconds": {
				Type:        "integer",
				Description: "per-move time limit in seconds",
			},
		},
	}

	handler := func(ctx context.Context, req *CallToolRequest) (*CallToolResult, error) {
		args, err := ParseArguments(req)
		if err != nil {
			return ErrorResult(err.Error()), nil
		}

		position := DefaultPosition

		if raw, ok := args["position"].(string); ok && raw != "" {
			position, err = NewPosition(raw)
			if err != nil {
				return ErrorResult(err.Error()), nil
			}
		}

		callOpts := make([]Option, 0, len(opts)+2)
		callOpts = append(callOpts, opts...)

		if raw, ok := args["side"].(string); ok && raw != "" {
			side := Side(raw)
			if side != SideGold && side != SideSilver {
				return ErrorResult(`side must be "g" or "s"`), nil
			}

			callOpts = append(callOpts, WithSideToMove(side))
		}

		// JSON numbers arrive as float64.
		if seconds, ok := args["move_time_seconds"].(float64); ok && seconds > 0 {
			callOpts = append(callOpts, WithMoveTime(time.Duration(seconds)*time.Second))
		}

		result, err := BestMove(ctx, enginePath, position, callOpts...)
		if err != nil {
			return ErrorResult(fmt.Sprintf("engine analysis failed: %v", err)), nil
		}

		return TextResult(result.Move), nil
	}

	return NewEngineTool(
		"best_move",
		"Finds the engine's best move for an Arimaa position",
		schema,
		handler,
		WithToolAnnotations(&McpToolAnnotations{ReadOnlyHint: true}),
	)
}

// SimpleSchema creates a jsonschema.Schema from a simple type map.
//
// Input format: {"position": "string", "move_time_seconds": "int"}
//
// Type mappings:
//   - "string"           → {"type": "string"}
//   - "int", "int64"     → {"type": "integer"}
//   - "float64", "float" → {"type": "number"}
//   - "bool"             → {"type": "boolean"}
//   - "[]string"         → {"type": "array", "items": {"type": "string"}}
//   - "any", "object"    → {"type": "object"}
func SimpleSchema(props map[string]string) *jsonschema.Schema {
	return internalmcp.SimpleSchema(props)
}

// TextResult creates a CallToolResult with text content.
func TextResult(text string) *CallToolResult {
	return internalmcp.TextResult(text)
}

// ErrorResult creates a CallToolResult indicating an error.
func ErrorResult(message string) *CallToolResult {
	return internalmcp.ErrorResult(message)
}

// ParseArguments unmarshals CallToolRequest arguments into a map.
// This is a convenience function for extracting tool input.
func ParseArguments(req *CallToolRequest) (map[string]any, error) {
	return internalmcp.ParseArguments(req)
}
