package github

import (
	"errors"
	"net/http"

	githublib "github.com/google/go-github/v70/github"
)

// fieldError is a single validation failure reported by GitHub
type fieldError struct {
	Resource string
	Field    string
	Code     string
	Message  string
}

// firstFieldError returns the first validation entry of a GitHub error response
func firstFieldError(err error) (fieldError, bool) {
	var errResp *githublib.ErrorResponse
	if !errors.As(err, &errResp) || len(errResp.Errors) == 0 {
		return fieldError{}, false
	}
	e := errResp.Errors[0]
	return fieldError{Resource: e.Resource, Field: e.Field, Code: e.Code, Message: e.Message}, true
}

// IsInvalidFieldError reports whether GitHub rejected the request because the given field was invalid,
// e.g. an assignee who is not a collaborator of the destination repository.
func IsInvalidFieldError(err error, field string) bool {
	fe, ok := firstFieldError(err)
	return ok && fe.Code == "invalid" && fe.Field == field
}

// IsAlreadyExistsError reports whether GitHub rejected a creation because the resource exists
func IsAlreadyExistsError(err error) bool {
	fe, ok := firstFieldError(err)
	return ok && fe.Code == "already_exists"
}

// IsNotFoundError reports whether the request failed with 404
func IsNotFoundError(err error) bool {
	var errResp *githublib.ErrorResponse
	return errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound
}
