package chain

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/rpc"
)

// ErrMalformedResult marks a response whose result could not be read as an object.
var ErrMalformedResult = errors.New("malformed rpc result")

// ErrorClass groups pool-reader call failures for logging and metrics.
type ErrorClass string

const (
	ErrorTransport  ErrorClass = "transport"
	ErrorHTTPStatus ErrorClass = "http_status"
	ErrorMalformed  ErrorClass = "malformed_response"
	ErrorRPC        ErrorClass = "rpc_error"
	ErrorCanceled   ErrorClass = "canceled"
)

// Classify maps an error returned by Client.PoolState to its class.
func Classify(err error) ErrorClass {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return ErrorCanceled
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return ErrorHTTPStatus
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return ErrorRPC
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.Is(err, ErrMalformedResult) || errors.Is(err, rpc.ErrNoResult) ||
		errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return ErrorMalformed
	}
	return ErrorTransport
}

// HTTPStatus returns the status code and body of a non-success HTTP response.
func HTTPStatus(err error) (int, string, bool) {
	var httpErr rpc.HTTPError
	if !errors.As(err, &httpErr) {
		return 0, "", false
	}
	return httpErr.StatusCode, string(httpErr.Body), true
}

// RPCErrorCode returns the JSON-RPC error code carried by err.
func RPCErrorCode(err error) (int, bool) {
	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) {
		return 0, false
	}
	return rpcErr.ErrorCode(), true
}
