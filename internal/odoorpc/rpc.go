package odoorpc

import (
	"encoding/json"
)

// Request ids mirror the logical operations; the server echoes them back.
const (
	requestIDAuthenticate = 1
	requestIDReadProfile  = 2
	requestIDWriteProfile = 3
	requestIDLanguages    = 4
)

// rpcRequest is the JSON-RPC 2.0 envelope sent to the server
type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      int         `json:"id"`
}

func newRequest(params interface{}, id int) rpcRequest {
	return rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  params,
		ID:      id,
	}
}

// executeParams is the params shape for /jsonrpc execute_kw calls
type executeParams struct {
	Service string        `json:"service"`
	Method  string        `json:"method"`
	Args    []interface{} `json:"args"`
}

func newExecuteKw(database string, userID int, password, model, method string, args ...interface{}) executeParams {
	kwArgs := append([]interface{}{database, userID, password, model, method}, args...)
	return executeParams{
		Service: "object",
		Method:  "execute_kw",
		Args:    kwArgs,
	}
}

// rpcResponse is the JSON-RPC 2.0 envelope returned by the server.
// Result stays raw; each operation decodes the shape it expects.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Data    *rpcErrorData `json:"data"`
}

type rpcErrorData struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Debug   string `json:"debug"`
}

// bestMessage prefers the nested data message, which carries the
// human-readable cause on Odoo servers
func (e *rpcError) bestMessage() string {
	if e.Data != nil && e.Data.Message != "" {
		return e.Data.Message
	}
	if e.Message != "" {
		return e.Message
	}
	return "Authentication failed"
}

// hasResult reports whether the response carries a non-null result
func (r *rpcResponse) hasResult() bool {
	if len(r.Result) == 0 {
		return false
	}
	var probe interface{}
	if err := json.Unmarshal(r.Result, &probe); err != nil {
		return false
	}
	return probe != nil
}
