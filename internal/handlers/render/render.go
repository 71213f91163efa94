package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	Error string `json:"error"`
	// Machine-readable rejection code, set by the auth middleware only
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// JSON sends data with status 200
func JSON(w http.ResponseWriter, data any) {
	JSONStatus(w, data, http.StatusOK)
}

// JSONStatus sends data as json and enforces the status code
func JSONStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

// Error renders {"error": message} with the given status
func Error(w http.ResponseWriter, message string, code int) {
	JSONStatus(w, ErrorResponse{Error: message}, code)
}

// AuthError renders a 401 carrying a rejection code the client can act
// on: AUTHENTICATION_REQUIRED, TOKEN_REFRESH_REQUIRED or TOKEN_INVALID.
func AuthError(w http.ResponseWriter, message string, rejectionCode string) {
	JSONStatus(w, ErrorResponse{Error: message, Code: rejectionCode}, http.StatusUnauthorized)
}

// DecodeError renders a json decoding failure as 400
func DecodeError(w http.ResponseWriter, err error) {
	message := "Failed to parse request body"

	// Provide a more specific message when the error type allows it
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		message = fmt.Sprintf("Invalid data type for field '%s'", typeErr.Field)
	}

	JSONStatus(w, ErrorResponse{Error: message}, http.StatusBadRequest)
}

// ValidationErrors renders field-level validation failures as 400
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	response := ErrorResponse{
		Error:  "Request validation failed",
		Fields: make(map[string]string, len(errs)),
	}

	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "This field is required"
		case "email":
			message = "Must be a valid email address"
		case "min":
			message = fmt.Sprintf("Value is too short (minimum %s)", fieldError.Param())
		case "max":
			message = fmt.Sprintf("Value is too long (maximum %s)", fieldError.Param())
		default:
			message = "Invalid value"
		}

		response.Fields[fieldError.Field()] = message
	}

	JSONStatus(w, response, http.StatusBadRequest)
}
