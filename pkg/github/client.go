package github

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v70/github"
	"github.com/krrrr38/git-mover/pkg/config"
	"github.com/krrrr38/git-mover/pkg/logger"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

var (
	maxRetries    = 5
	initialDelay  = 1 * time.Second
	maxDelay      = 60 * time.Second
	backoffFactor = 2.0
)

// Client wraps the GitHub client with retry capabilities
type Client struct {
	inner *github.Client
	v4    *githubv4.Client
}

// NewClientByBasicAuth creates a client authenticating REST calls with username and token.
// GraphQL only accepts bearer tokens, so the token is also used as an OAuth2 token there.
func NewClientByBasicAuth(root, username, token string) (*Client, error) {
	tp := &github.BasicAuthTransport{
		Username: username,
		Password: token,
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return newClient(root, tp.Client(), oauth2.NewClient(context.Background(), ts))
}

// NewClientByApp creates a client authenticated as a GitHub App installation
func NewClientByApp(root string, appID, installationID int, privateKey string) (*Client, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, int64(appID), int64(installationID), []byte(privateKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App transport: %w", err)
	}
	if config.IsEnterpriseRoot(root) {
		itr.BaseURL = config.NormalizeRoot(root) + "/api/v3"
	}
	httpClient := &http.Client{Transport: itr}
	return newClient(root, httpClient, httpClient)
}

func newClient(root string, restClient, graphqlClient *http.Client) (*Client, error) {
	root = config.NormalizeRoot(root)
	if root == "" || !config.IsEnterpriseRoot(root) {
		return &Client{
			inner: github.NewClient(restClient),
			v4:    githubv4.NewClient(graphqlClient),
		}, nil
	}

	// Enterprise の REST API は /api/v3/ 配下、GraphQL は /api/graphql
	inner, err := github.NewClient(restClient).WithEnterpriseURLs(root+"/", root+"/")
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub root %s: %w", root, err)
	}
	return &Client{
		inner: inner,
		v4:    githubv4.NewEnterpriseClient(root+"/api/graphql", graphqlClient),
	}, nil
}

// GetInner returns the underlying GitHub client
func (client *Client) GetInner() *github.Client {
	return client.inner
}

// GetV4 returns the underlying GitHub GraphQL client
func (client *Client) GetV4() *githubv4.Client {
	return client.v4
}

// RetryableOperation retries a GitHub API operation with exponential backoff
func RetryableOperation(ctx context.Context, operation func() error) error {
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err = operation()
		if err == nil {
			return nil
		}

		// Check if error is related to rate limit
		if isRateLimitError(err) {
			return fmt.Errorf("rate limited: %w", err)
		} else if isRetryableError(err) {
			// Other retryable errors (network issues, 500s, etc.)
			delay := calculateBackoff(attempt, initialDelay, backoffFactor, maxDelay)
			logger.Info(fmt.Sprintf("Retryable error: %v. Retrying after %s (attempt %d/%d)", err, delay, attempt+1, maxRetries))

			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		} else {
			// Non-retryable error
			return err
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", maxRetries, err)
}

// isRateLimitError determines if an error is due to rate limiting
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}

	// Check if err is a GitHub error response
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		statusCode := errResp.Response.StatusCode
		return (statusCode == http.StatusForbidden && errResp.Message == "rate limit") || statusCode == http.StatusTooManyRequests
	}

	return false
}

// isRetryableError determines if an error should be retried
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Check for GitHub error responses
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		if errResp.Response == nil {
			return false
		}
		code := errResp.Response.StatusCode
		// Retry on server errors (5xx)
		return code == http.StatusInternalServerError ||
			code == http.StatusBadGateway ||
			code == http.StatusServiceUnavailable ||
			code == http.StatusGatewayTimeout
	}

	// Also retry on network/transport errors
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// calculateBackoff computes the backoff duration using exponential backoff with jitter
func calculateBackoff(attempt int, initialDelay time.Duration, factor float64, maxDelay time.Duration) time.Duration {
	// Calculate exponential backoff
	backoff := float64(initialDelay) * math.Pow(factor, float64(attempt))

	// Add some jitter (±20%)
	jitter := backoff * 0.2 * (rand.Float64()*2 - 1)
	backoff = backoff + jitter

	// Ensure we don't exceed max delay
	if backoff > float64(maxDelay) {
		backoff = float64(maxDelay)
	}

	return time.Duration(backoff)
}
