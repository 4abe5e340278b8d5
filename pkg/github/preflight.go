package github

import (
	"context"
	"fmt"

	"github.com/krrrr38/git-mover/pkg/logger"
	"github.com/shurcooL/githubv4"
)

// Preflight checks that the repository can receive issues before anything is written
func (r *Repository) Preflight(ctx context.Context) error {
	var query struct {
		Viewer struct {
			Login githubv4.String
		}
		Repository struct {
			NameWithOwner    githubv4.String
			HasIssuesEnabled githubv4.Boolean
			ViewerPermission githubv4.RepositoryPermission
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	variables := map[string]interface{}{
		"owner": githubv4.String(r.owner),
		"name":  githubv4.String(r.name),
	}

	err := RetryableOperation(ctx, func() error {
		return r.client.GetV4().Query(ctx, &query, variables)
	})
	if err != nil {
		return fmt.Errorf("failed to query repository %s: %w", r.FullName(), err)
	}
	if query.Repository.NameWithOwner == "" {
		return fmt.Errorf("repository %s not found", r.FullName())
	}
	if !query.Repository.HasIssuesEnabled {
		return fmt.Errorf("issues are disabled on %s", r.FullName())
	}

	// READ 権限では assignee・labels・state が無視され、クローズもできない
	if query.Repository.ViewerPermission == githubv4.RepositoryPermissionRead {
		return fmt.Errorf("%s has only read permission on %s, issues cannot be created", query.Viewer.Login, r.FullName())
	}

	logger.Info("Preflight passed",
		"repo", r.FullName(),
		"viewer", query.Viewer.Login,
		"permission", query.Repository.ViewerPermission)
	return nil
}
