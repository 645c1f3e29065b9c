// Package api provides the JSON response and request-validation helpers
// shared by every handler.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// errorBody is the `{"error": ...}` response shape.
type errorBody struct {
	Error string `json:"error"`
}

// messageBody is the `{"message": ...}` response shape used by the accounts
// endpoints and the not-found handler.
type messageBody struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error writes an `{"error": ...}` response.
func Error(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorBody{Error: message})
}

// Message writes a `{"message": ...}` response.
func Message(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, messageBody{Message: message})
}

// Validate is the shared validator instance.
var Validate = validator.New()

// DecodeAndValidate decodes a JSON body and validates the result against its
// struct tags.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return Validate.Struct(v)
}

// FirstInvalidField returns the struct field name of the first validation
// failure, or "" when err is not a validation error. Handlers use it to map
// shape failures onto the legacy error messages.
func FirstInvalidField(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return validationErrors[0].Field()
	}
	return ""
}
