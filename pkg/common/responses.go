// Package common holds small HTTP helpers shared by the handlers.
package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	pkgerrors "parkwise/pkg/errors"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// RespondJSON writes data as the JSON response body.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ParseJSONBody decodes the request body into v with a size limit. Unknown
// fields and trailing data are rejected.
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return pkgerrors.NewValidationError("request body is required")
		case errors.As(err, &maxErr):
			return pkgerrors.NewValidationError(fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
		default:
			return pkgerrors.NewValidationError("invalid request body").WithCause(err)
		}
	}
	if decoder.More() {
		return pkgerrors.NewValidationError("request body must contain a single JSON object")
	}
	return nil
}

// QueryInt64 parses an optional integer query parameter. A missing parameter
// yields nil.
func QueryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("%s must be an integer", name))
	}
	return &v, nil
}

// QueryInt parses a required integer query parameter.
func QueryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, pkgerrors.NewValidationError(fmt.Sprintf("%s is required", name))
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.NewValidationError(fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}
