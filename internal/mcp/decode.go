package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decode maps raw tool arguments onto a typed request struct by
// round-tripping through JSON. Arguments arrive as map[string]any; going
// through the struct tags keeps per-field type assertions out of the
// handlers and rejects mistyped values in one place.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var out T
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return out, fmt.Errorf("marshal tool arguments: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("unmarshal tool arguments: %w", err)
	}
	return out, nil
}
