package api

import (
	"encoding/json"
	"net/http"
)

// Error types returned in the error envelope.
const (
	ErrTypeValidation = "VALIDATION_ERROR"
	ErrTypeNotFound   = "NOT_FOUND"
	ErrTypeInternal   = "INTERNAL_ERROR"
)

// ErrorBody is the envelope every failed request carries.
type ErrorBody struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the envelope under a stable key.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Error("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, errType, message string, details map[string]interface{}) {
	s.writeJSON(w, status, ErrorResponse{Error: ErrorBody{
		Type:    errType,
		Message: message,
		Details: details,
	}})
}
