// Package handlers adapts HTTP requests to the application services.
package handlers

import (
	"net/http"

	"parkwise/pkg/auth"
	"parkwise/pkg/common"
	pkgerrors "parkwise/pkg/errors"
	"parkwise/pkg/utils"
)

// decode parses and validates a JSON request body.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := common.ParseJSONBody(w, r, v); err != nil {
		return err
	}
	return utils.ValidateStruct(v)
}

// principal returns the authenticated caller. Routes using it sit behind the
// authentication middleware, so a miss means the router is misconfigured.
func principal(r *http.Request) (*auth.Principal, error) {
	p, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		return nil, pkgerrors.NewUnauthorizedError("Unauthorized").WithCause(err)
	}
	return p, nil
}
