// Package server speaks MCP (JSON-RPC 2.0 over NDJSON stdio) and exposes
// the policy engine's operations as tools, resources and prompts.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/draupnir/draupnir/internal/engine"
	"github.com/draupnir/draupnir/internal/models"
	"github.com/draupnir/draupnir/internal/observability/logging"
	"github.com/draupnir/draupnir/internal/version"
)

const serverName = "draupnir-mcp-server"

// Capabilities selects which MCP surfaces the server advertises. The
// choice is made once at construction: handlers for disabled surfaces are
// never registered, so the dispatcher itself never branches on capability.
type Capabilities struct {
	Tools     bool
	Resources bool
	Prompts   bool
}

// DefaultCapabilities enables everything.
func DefaultCapabilities() Capabilities {
	return Capabilities{Tools: true, Resources: true, Prompts: true}
}

type handlerFunc func(ctx context.Context, req map[string]any) (any, *models.RPCError)

// Server dispatches MCP requests to the engine.
type Server struct {
	engine   *engine.Engine
	caps     Capabilities
	tools    []Tool
	toolIdx  map[string]*Tool
	handlers map[string]handlerFunc
	writeMu  sync.Mutex
}

func New(eng *engine.Engine, caps Capabilities) *Server {
	s := &Server{
		engine:   eng,
		caps:     caps,
		handlers: map[string]handlerFunc{},
	}

	s.handlers["initialize"] = s.handleInitialize
	s.handlers["ping"] = s.handlePing

	if caps.Tools {
		s.registerTools()
		s.handlers["tools/list"] = s.handleToolsList
		s.handlers["tools/call"] = s.handleToolsCall
	}
	if caps.Resources {
		s.handlers["resources/list"] = s.handleResourcesList
		s.handlers["resources/read"] = s.handleResourcesRead
	}
	if caps.Prompts {
		s.handlers["prompts/list"] = s.handlePromptsList
		s.handlers["prompts/get"] = s.handlePromptsGet
	}

	return s
}

// Run serves NDJSON requests from in until EOF. Each line is one JSON-RPC
// message; notifications produce no reply.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	log := logging.From(ctx)
	reader := NewLimitedLineReader(in, MaxNDJSONLineSize)

	for {
		line, err := reader.ReadLineCopy()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			if err == ErrLineTooLong {
				log.Warn("server", "dropped oversize request line", "limit_bytes", MaxNDJSONLineSize)
				continue
			}
			return err
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		req, err := decodeRequest(line)
		if err != nil {
			if werr := s.write(out, errorResponse(nil, models.JSONRPCParseError, err.Error())); werr != nil {
				return werr
			}
			continue
		}

		resp := s.Dispatch(ctx, req)
		if resp == nil {
			continue // notification
		}
		if err := s.write(out, *resp); err != nil {
			return err
		}
	}
}

// Dispatch routes one decoded request. Returns nil for notifications.
func (s *Server) Dispatch(ctx context.Context, req map[string]any) *models.RPCResponse {
	method, _ := req["method"].(string)
	id, hasID := req["id"]

	handler, ok := s.handlers[method]
	if !ok {
		if !hasID {
			return nil // unknown notification, drop
		}
		resp := errorResponse(id, models.JSONRPCMethodNotFound, fmt.Sprintf("method %q not found", method))
		return &resp
	}

	result, rpcErr := handler(ctx, req)
	if !hasID {
		return nil
	}

	resp := models.RPCResponse{JSONRPC: "2.0", ID: id}
	if rpcErr != nil {
		resp.Error = rpcErr
	} else {
		resp.Result = result
	}
	return &resp
}

func (s *Server) write(out io.Writer, resp models.RPCResponse) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func (s *Server) handleInitialize(ctx context.Context, req map[string]any) (any, *models.RPCError) {
	caps := map[string]any{}
	if s.caps.Tools {
		caps["tools"] = map[string]any{}
	}
	if s.caps.Resources {
		caps["resources"] = map[string]any{}
	}
	if s.caps.Prompts {
		caps["prompts"] = map[string]any{}
	}

	return models.InitializeResult{
		ProtocolVersion: models.MCPProtocolVersion,
		Capabilities:    caps,
		ServerInfo: models.MCPServerInfo{
			Name:    serverName,
			Version: version.BuildVersion(),
		},
	}, nil
}

func (s *Server) handlePing(ctx context.Context, req map[string]any) (any, *models.RPCError) {
	return map[string]any{}, nil
}

// params extracts the request params mapping, tolerating its absence.
func params(req map[string]any) map[string]any {
	p, _ := req["params"].(map[string]any)
	return p
}

// decodeRequest decodes with UseNumber so large integer IDs survive the
// round trip exactly.
func decodeRequest(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("invalid JSON request: %w", err)
	}
	return obj, nil
}

func errorResponse(id any, code int, message string) models.RPCResponse {
	return models.RPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &models.RPCError{Code: code, Message: message},
	}
}
