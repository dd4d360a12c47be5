package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/toolbelt/pkg/credentials"
	"github.com/papercomputeco/toolbelt/pkg/result"
)

// validator is implemented by tool inputs that can be rejected before a
// credential is resolved or any request is sent.
type validator interface {
	validate() result.Result
}

// addTool registers a tool whose handler needs a client built from the
// resolved credential. connect returns either the client or the failure to
// report; run is only called with a client.
func addTool[In, C any](
	s *Server,
	name, description string,
	connect func(ctx context.Context, token string) (C, result.Result),
	run func(ctx context.Context, client C, in In) result.Result,
) error {
	spec, ok := credentials.ForTool(name)
	if !ok {
		return fmt.Errorf("tool %s has no credential spec", name)
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, result.Result, error) {
		callID := uuid.NewString()
		start := time.Now()

		res := s.call(ctx, spec, in, func(ctx context.Context, token string) result.Result {
			client, failure := connect(ctx, token)
			if failure != nil {
				return failure
			}
			return run(ctx, client, in)
		})

		msg, failed := res.Err()
		s.config.Logger.Debug("MCP tool call",
			"call_id", callID,
			"tool", name,
			"integration", spec.Name,
			"elapsed", time.Since(start),
			"failed", failed,
			"error", msg,
		)

		return toCallResult(res), res, nil
	}

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        name,
		Description: description,
	}, handler)

	s.tools = append(s.tools, name)
	return nil
}

// call validates in, resolves the credential for spec and invokes fn with the
// token. Every path yields a Result.
func (s *Server) call(ctx context.Context, spec credentials.Spec, in any, fn func(context.Context, string) result.Result) result.Result {
	if v, ok := in.(validator); ok {
		if failure := v.validate(); failure != nil {
			return failure
		}
	}

	resolution, err := s.config.Resolver.Resolve(ctx, spec.Name)
	if err != nil {
		s.config.Logger.Warn("credential lookup failed",
			"integration", spec.Name,
			"error", err,
		)
		return result.Result{
			result.ErrorKey: err.Error(),
			result.HelpKey:  spec.Help(),
		}
	}
	if !resolution.Found() {
		return result.NotConfigured(spec.Display, spec.Help(), resolution.Problem)
	}

	res := fn(ctx, resolution.Token)
	if res == nil {
		return result.Errorf("%s returned no result", spec.Display)
	}
	return res
}

// toCallResult renders res as a single JSON text block.
func toCallResult(res result.Result) *mcp.CallToolResult {
	text, err := json.Marshal(res)
	if err != nil {
		text = fmt.Appendf(nil, `{"error":%q}`, "encoding result: "+err.Error())
	}

	return &mcp.CallToolResult{
		IsError: res.IsError(),
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(text)},
		},
	}
}
