package migration

import (
	"context"
	"fmt"

	"github.com/krrrr38/git-mover/pkg/github"
	"github.com/krrrr38/git-mover/pkg/logger"
	"github.com/krrrr38/git-mover/pkg/model"
)

// Failure is an issue that could not be re-created
type Failure struct {
	Number int    `yaml:"number"`
	Title  string `yaml:"title"`
	Error  string `yaml:"error"`
}

// Result collects the outcome of an issue migration
type Result struct {
	Created []model.Mapping
	Failed  []Failure
}

// Creator re-creates issues on the destination one at a time
type Creator struct {
	dst         Destination
	sameInstall bool
	milestones  map[int]int
	closeClosed bool
	dryRun      bool
}

// NewCreator creates a Creator. milestones maps source milestone numbers to destination ones and may be nil.
func NewCreator(dst Destination, opts *MigrationOptions, milestones map[int]int) *Creator {
	return &Creator{
		dst:         dst,
		sameInstall: opts.SameInstall,
		milestones:  milestones,
		closeClosed: opts.CloseClosed,
		dryRun:      opts.DryRun,
	}
}

// CreateIssues posts every issue in the given order. A failed issue is logged and recorded,
// and the migration carries on with the next one. Only cancellation stops the loop early.
func (c *Creator) CreateIssues(ctx context.Context, issues []model.Issue) (*Result, error) {
	result := &Result{}
	for _, issue := range issues {
		// コンテキストが既にキャンセルされていないか確認
		if err := ctx.Err(); err != nil {
			return result, err
		}

		req := model.NewIssueRequest(issue, c.sameInstall, c.milestones)
		if c.dryRun {
			logger.Info("Dry run, skipping issue creation",
				"number", issue.Number,
				"title", req.Title,
				"state", req.State,
				"assignee", req.Assignee,
				"labels", req.Labels,
				"milestone", req.Milestone)
			continue
		}

		created, err := c.createIssue(ctx, issue, req)
		if err != nil {
			logger.Error("Failed to create issue", "number", issue.Number, "title", req.Title, "error", err)
			result.Failed = append(result.Failed, Failure{Number: issue.Number, Title: issue.Title, Error: err.Error()})
			continue
		}

		logger.Info(fmt.Sprintf("%d -> %d", issue.Number, created.Number), "title", req.Title)
		result.Created = append(result.Created, model.Mapping{Old: issue.Number, New: created.Number})

		// GitHub は作成時の state を無視するため、close されていた Issue は作成後に close する
		if c.closeClosed && issue.State == model.StateClosed && created.State != model.StateClosed {
			if err := c.dst.CloseIssue(ctx, created.Number); err != nil {
				logger.Warn("Failed to close issue", "number", created.Number, "error", err)
			} else {
				logger.Debug("Closed issue", "number", created.Number)
			}
		}
	}
	return result, nil
}

// createIssue posts req, dropping the assignee and retrying once when the destination rejects it
func (c *Creator) createIssue(ctx context.Context, issue model.Issue, req model.IssueRequest) (model.Issue, error) {
	created, err := c.dst.CreateIssue(ctx, req)
	if err == nil {
		return created, nil
	}
	if req.Assignee == nil || !github.IsInvalidFieldError(err, "assignee") {
		return model.Issue{}, err
	}

	logger.Warn("Assignee does not exist in the destination repository, issue added without assignee field",
		"assignee", *req.Assignee,
		"number", issue.Number,
		"title", req.Title)
	req.Assignee = nil
	return c.dst.CreateIssue(ctx, req)
}
