package migration

import (
	"context"
	"iter"

	"github.com/krrrr38/git-mover/pkg/model"
)

// Source is a repository issues are read from
type Source interface {
	FullName() string
	IssuePages(ctx context.Context, state string) iter.Seq2[[]model.Issue, error]
	Labels(ctx context.Context) ([]model.Label, error)
	Milestones(ctx context.Context) ([]model.Milestone, error)
}

// Destination is a GitHub repository issues are re-created in
type Destination interface {
	FullName() string
	Preflight(ctx context.Context) error
	CreateIssue(ctx context.Context, req model.IssueRequest) (model.Issue, error)
	CloseIssue(ctx context.Context, number int) error
	CreateLabel(ctx context.Context, label model.Label) error
	Milestones(ctx context.Context) ([]model.Milestone, error)
	CreateMilestone(ctx context.Context, milestone model.Milestone) (int, error)
}
