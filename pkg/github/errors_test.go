package github

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	githublib "github.com/google/go-github/v70/github"
	"github.com/stretchr/testify/assert"
)

func errorResponse(status int, errs ...githublib.Error) *githublib.ErrorResponse {
	u, _ := url.Parse("https://api.github.com/repos/octo/source/issues")
	return &githublib.ErrorResponse{
		Response: &http.Response{
			StatusCode: status,
			Request:    &http.Request{Method: http.MethodPost, URL: u},
		},
		Message: "Validation Failed",
		Errors:  errs,
	}
}

func TestIsInvalidFieldError(t *testing.T) {
	invalidAssignee := errorResponse(http.StatusUnprocessableEntity, githublib.Error{Resource: "Issue", Field: "assignee", Code: "invalid"})

	assert.True(t, IsInvalidFieldError(invalidAssignee, "assignee"))
	assert.True(t, IsInvalidFieldError(fmt.Errorf("wrapped: %w", invalidAssignee), "assignee"))
	assert.False(t, IsInvalidFieldError(invalidAssignee, "milestone"))

	// only the first entry is inspected
	second := errorResponse(http.StatusUnprocessableEntity,
		githublib.Error{Resource: "Issue", Field: "labels", Code: "invalid"},
		githublib.Error{Resource: "Issue", Field: "assignee", Code: "invalid"})
	assert.False(t, IsInvalidFieldError(second, "assignee"))

	assert.False(t, IsInvalidFieldError(errorResponse(http.StatusUnprocessableEntity), "assignee"))
	assert.False(t, IsInvalidFieldError(errors.New("boom"), "assignee"))
	assert.False(t, IsInvalidFieldError(nil, "assignee"))
}

func TestIsAlreadyExistsError(t *testing.T) {
	assert.True(t, IsAlreadyExistsError(errorResponse(http.StatusUnprocessableEntity, githublib.Error{Resource: "Label", Field: "name", Code: "already_exists"})))
	assert.False(t, IsAlreadyExistsError(errorResponse(http.StatusUnprocessableEntity, githublib.Error{Code: "invalid"})))
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(errorResponse(http.StatusNotFound)))
	assert.False(t, IsNotFoundError(errorResponse(http.StatusForbidden)))
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errorResponse(http.StatusBadGateway)))
	assert.True(t, isRetryableError(&url.Error{Op: "Get", URL: "https://api.github.com", Err: errors.New("connection reset")}))
	assert.False(t, isRetryableError(errorResponse(http.StatusUnprocessableEntity)))
	assert.False(t, isRetryableError(errors.New("boom")))
}

func TestIsRateLimitError(t *testing.T) {
	assert.True(t, isRateLimitError(errorResponse(http.StatusTooManyRequests)))
	assert.True(t, isRateLimitError(&githublib.RateLimitError{Response: &http.Response{StatusCode: http.StatusForbidden}}))
	assert.False(t, isRateLimitError(errorResponse(http.StatusInternalServerError)))
}
