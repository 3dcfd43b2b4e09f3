package mcpserver

import (
	"fmt"

	"github.com/Aman-CERP/rarian/internal/rarianerrors"
)

// Standard JSON-RPC error codes, per the MCP spec.
const (
	errCodeInvalidParams = -32602
	errCodeInternalError = -32603
	errCodeNotFound      = -32001
)

// MCPError is a JSON-RPC-shaped error returned to MCP clients.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// MapError converts an internal error into an MCPError, preserving
// not-found vs. internal distinctions so clients can react
// differently (e.g. suggest running "rarian ingest" first).
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	if rarianerrors.IsNotFound(err) {
		return &MCPError{Code: errCodeNotFound, Message: err.Error()}
	}

	switch rarianerrors.GetCategory(err) {
	case rarianerrors.CategoryType, rarianerrors.CategoryQuery:
		return &MCPError{Code: errCodeInvalidParams, Message: err.Error()}
	default:
		return &MCPError{Code: errCodeInternalError, Message: err.Error()}
	}
}

func newInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: errCodeInvalidParams, Message: msg}
}
