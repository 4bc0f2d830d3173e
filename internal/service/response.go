package service

import (
	"errors"

	"github.com/franz/vst-librarian/internal/util"
)

// Response is the uniform envelope returned to the UI layer. Every
// operation yields a success flag and either data or a human-readable
// message, never a raw stack trace.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK wraps a successful result
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// OKMessage wraps a successful result with a message
func OKMessage(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail wraps a failure into a client-safe message
func Fail(err error) Response {
	return Response{Success: false, Message: clientMessage(err)}
}

func clientMessage(err error) string {
	switch {
	case errors.Is(err, util.ErrNotFound):
		return err.Error()
	case errors.Is(err, util.ErrInvalidArgument):
		return err.Error()
	case errors.Is(err, util.ErrMalformedPayload):
		return err.Error()
	case errors.Is(err, util.ErrExternalTool):
		return err.Error()
	default:
		return "operation failed: " + err.Error()
	}
}
