package migration

import (
	"context"
	"fmt"

	"github.com/krrrr38/git-mover/pkg/logger"
	"github.com/krrrr38/git-mover/pkg/model"
)

// FetchIssues walks every page of the source and returns the issues sorted by number.
// An empty page ends the walk even if the host advertised another one.
func FetchIssues(ctx context.Context, src Source, state string) ([]model.Issue, error) {
	var issues []model.Issue
	page := 0
	for pageIssues, err := range src.IssuePages(ctx, state) {
		if err != nil {
			return nil, fmt.Errorf("failed to fetch issues from %s: %w", src.FullName(), err)
		}
		page++
		if len(pageIssues) == 0 {
			break
		}
		issues = append(issues, pageIssues...)
		logger.Debug("Fetched issue page", "repo", src.FullName(), "page", page, "count", len(pageIssues), "total", len(issues))
	}

	model.SortByNumber(issues)
	return issues, nil
}

// selectIssues applies the number filter, the continue-from point and the pull request filter
func selectIssues(issues []model.Issue, opts *MigrationOptions) []model.Issue {
	if opts.SkipPullRequests {
		issues = model.WithoutPullRequests(issues)
	}
	issues = model.FilterFrom(issues, opts.ContinueFrom)
	return model.FilterByNumbers(issues, opts.FilterIssueNumbers)
}
