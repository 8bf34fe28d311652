package api

import (
	"encoding/json"
	"net/http"
)

// Error codes reported in ErrorInfo.Code.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInternal         = "INTERNAL_ERROR"
	CodeUnhealthy        = "HEALTH_CHECK_FAILED"

	// Conversion failures
	CodeInvalidDate    = "INVALID_DATE"
	CodeReformationGap = "REFORMATION_GAP"
	CodeOutOfRange     = "OUT_OF_RANGE"
)

// Response is the envelope of every API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details. Input echoes the date argument that
// could not be converted.
type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Input   string `json:"input,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, status int, message, code string) error {
	return writeError(w, status, ErrorInfo{Message: message, Code: code})
}

// WriteConversionError writes a 400 response for an argument that failed to
// parse or convert.
func WriteConversionError(w http.ResponseWriter, input, code string, err error) error {
	return writeError(w, http.StatusBadRequest, ErrorInfo{Message: err.Error(), Code: code, Input: input})
}

func writeError(w http.ResponseWriter, status int, info ErrorInfo) error {
	return WriteJSON(w, status, Response{
		Success: false,
		Error:   &info,
	})
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusBadRequest, message, CodeBadRequest)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusInternalServerError, message, CodeInternal)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}
