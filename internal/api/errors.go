package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/asset-disposition/internal/errors"
	"github.com/asset-disposition/internal/types"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error types.ServiceError `json:"error"`
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, statusCode int, code, message string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error: types.ServiceError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	json.NewEncoder(w).Encode(response)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// parseJSONBody parses a JSON request body, rejecting unknown fields.
func parseJSONBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// respondServiceError maps a service-layer error onto the wire. Validation
// failures surface as 400 with the coded body, not-found as 404; anything
// categorized as a system fault collapses to a generic 500 so internals
// never leak.
func respondServiceError(w http.ResponseWriter, err error) {
	catErr := apperrors.Categorize(err)
	if catErr == nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", nil)
		return
	}

	if catErr.StatusCode >= http.StatusInternalServerError {
		respondError(w, catErr.StatusCode, "INTERNAL_ERROR", "An internal error occurred", nil)
		return
	}

	respondError(w, catErr.StatusCode, catErr.Code, catErr.Message, catErr.Details)
}
