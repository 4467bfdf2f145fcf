// Package httputil holds the JSON response helpers shared by handlers and
// middleware.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "erpsessions/pkg/domain-errors"
)

// ErrorResponse is the JSON envelope for coded errors.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// MessageResponse is the plain {"message": ...} envelope used by the report
// endpoints and the ingress filter.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON encodes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteMessage writes a {"message": ...} body.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, MessageResponse{Message: message})
}

// WriteError translates err into a status and error envelope. Internal errors
// never expose their description.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	description := ""
	if de, ok := dErrors.As(err); ok {
		code = de.Code
		description = de.Message
	}
	if code == dErrors.CodeInternal {
		description = ""
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), ErrorResponse{
		Error:            string(code),
		ErrorDescription: description,
	})
}
