package github

import (
	"context"
	"fmt"
	"iter"

	githublib "github.com/google/go-github/v70/github"
	"github.com/krrrr38/git-mover/pkg/logger"
	"github.com/krrrr38/git-mover/pkg/model"
)

const perPage = 100

// Repository binds a client to a single owner/repo
type Repository struct {
	client *Client
	owner  string
	name   string
}

// Repository returns a handle on owner/name
func (client *Client) Repository(owner, name string) *Repository {
	return &Repository{client: client, owner: owner, name: name}
}

// FullName returns "owner/name"
func (r *Repository) FullName() string {
	return r.owner + "/" + r.name
}

// IssuePages lists issues page by page, following the next link GitHub returns.
// Every range over the returned sequence starts again from the first page.
func (r *Repository) IssuePages(ctx context.Context, state string) iter.Seq2[[]model.Issue, error] {
	return func(yield func([]model.Issue, error) bool) {
		opts := &githublib.IssueListByRepoOptions{
			State: state,
			ListOptions: githublib.ListOptions{
				PerPage: perPage,
			},
		}
		for {
			logger.Info("Fetching issues", "repo", r.FullName(), "state", state, "page", max(opts.Page, 1))

			var issues []*githublib.Issue
			var resp *githublib.Response
			err := RetryableOperation(ctx, func() error {
				var err error
				issues, resp, err = r.client.GetInner().Issues.ListByRepo(ctx, r.owner, r.name, opts)
				return err
			})
			if err != nil {
				if IsNotFoundError(err) {
					yield(nil, fmt.Errorf("repository %s not found or token cannot read it: %w", r.FullName(), err))
					return
				}
				yield(nil, fmt.Errorf("failed to list issues of %s: %w", r.FullName(), err))
				return
			}

			page := make([]model.Issue, 0, len(issues))
			for _, issue := range issues {
				page = append(page, fromGitHubIssue(issue))
			}
			if !yield(page, nil) {
				return
			}
			if resp.NextPage == 0 {
				return
			}
			opts.Page = resp.NextPage
		}
	}
}

// CreateIssue creates an issue and returns it as GitHub stored it
func (r *Repository) CreateIssue(ctx context.Context, req model.IssueRequest) (model.Issue, error) {
	logger.Debug("Creating GitHub issue", "repo", r.FullName(), "title", req.Title)

	issue, _, err := r.client.GetInner().Issues.Create(ctx, r.owner, r.name, toIssueRequest(req))
	if err != nil {
		return model.Issue{}, err
	}
	return fromGitHubIssue(issue), nil
}

// CloseIssue closes an existing issue
func (r *Repository) CloseIssue(ctx context.Context, number int) error {
	return RetryableOperation(ctx, func() error {
		_, _, err := r.client.GetInner().Issues.Edit(ctx, r.owner, r.name, number, &githublib.IssueRequest{
			State: githublib.Ptr(model.StateClosed),
		})
		return err
	})
}

// Labels lists every label of the repository
func (r *Repository) Labels(ctx context.Context) ([]model.Label, error) {
	var ret []model.Label
	opts := &githublib.ListOptions{PerPage: perPage}
	for {
		logger.Info("Fetching labels", "repo", r.FullName(), "page", max(opts.Page, 1))

		var labels []*githublib.Label
		var resp *githublib.Response
		err := RetryableOperation(ctx, func() error {
			var err error
			labels, resp, err = r.client.GetInner().Issues.ListLabels(ctx, r.owner, r.name, opts)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list labels of %s: %w", r.FullName(), err)
		}
		for _, label := range labels {
			ret = append(ret, model.Label{
				Name:        label.GetName(),
				Color:       label.GetColor(),
				Description: label.GetDescription(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return ret, nil
}

// CreateLabel creates a label
func (r *Repository) CreateLabel(ctx context.Context, label model.Label) error {
	logger.Debug("Creating GitHub label", "repo", r.FullName(), "name", label.Name)

	newLabel := &githublib.Label{
		Name:  githublib.Ptr(label.Name),
		Color: githublib.Ptr(label.Color),
	}
	if label.Description != "" {
		newLabel.Description = githublib.Ptr(label.Description)
	}
	return RetryableOperation(ctx, func() error {
		_, _, err := r.client.GetInner().Issues.CreateLabel(ctx, r.owner, r.name, newLabel)
		return err
	})
}

// Milestones lists milestones in every state
func (r *Repository) Milestones(ctx context.Context) ([]model.Milestone, error) {
	var ret []model.Milestone
	opts := &githublib.MilestoneListOptions{
		State:       model.StateAll,
		Sort:        "due_on",
		Direction:   "asc",
		ListOptions: githublib.ListOptions{PerPage: perPage},
	}
	for {
		logger.Info("Fetching milestones", "repo", r.FullName(), "page", max(opts.Page, 1))

		var milestones []*githublib.Milestone
		var resp *githublib.Response
		err := RetryableOperation(ctx, func() error {
			var err error
			milestones, resp, err = r.client.GetInner().Issues.ListMilestones(ctx, r.owner, r.name, opts)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list milestones of %s: %w", r.FullName(), err)
		}
		for _, m := range milestones {
			milestone := model.Milestone{
				Number:      m.GetNumber(),
				Title:       m.GetTitle(),
				Description: m.GetDescription(),
				State:       m.GetState(),
			}
			if m.DueOn != nil {
				due := m.DueOn.Time
				milestone.DueOn = &due
			}
			ret = append(ret, milestone)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return ret, nil
}

// CreateMilestone creates a milestone and returns its number
func (r *Repository) CreateMilestone(ctx context.Context, milestone model.Milestone) (int, error) {
	logger.Debug("Creating GitHub milestone", "repo", r.FullName(), "title", milestone.Title)

	newMilestone := &githublib.Milestone{
		Title: githublib.Ptr(milestone.Title),
	}
	if milestone.State != "" {
		newMilestone.State = githublib.Ptr(milestone.State)
	}
	if milestone.Description != "" {
		newMilestone.Description = githublib.Ptr(milestone.Description)
	}
	if milestone.DueOn != nil {
		newMilestone.DueOn = &githublib.Timestamp{Time: *milestone.DueOn}
	}

	var created *githublib.Milestone
	err := RetryableOperation(ctx, func() error {
		var err error
		created, _, err = r.client.GetInner().Issues.CreateMilestone(ctx, r.owner, r.name, newMilestone)
		return err
	})
	if err != nil {
		return 0, err
	}
	return created.GetNumber(), nil
}

func fromGitHubIssue(issue *githublib.Issue) model.Issue {
	ret := model.Issue{
		Number:      issue.GetNumber(),
		Title:       issue.GetTitle(),
		Body:        issue.GetBody(),
		State:       issue.GetState(),
		PullRequest: issue.IsPullRequest(),
	}
	if login := issue.GetAssignee().GetLogin(); login != "" {
		ret.Assignee = &login
	}
	if issue.Labels != nil {
		ret.Labels = make([]string, 0, len(issue.Labels))
		for _, label := range issue.Labels {
			ret.Labels = append(ret.Labels, label.GetName())
		}
	}
	if issue.Milestone != nil {
		number := issue.Milestone.GetNumber()
		ret.Milestone = &number
	}
	return ret
}

func toIssueRequest(req model.IssueRequest) *githublib.IssueRequest {
	ret := &githublib.IssueRequest{
		Title:     githublib.Ptr(req.Title),
		Body:      githublib.Ptr(req.Body),
		Assignee:  req.Assignee,
		Milestone: req.Milestone,
	}
	if req.State != "" {
		ret.State = githublib.Ptr(req.State)
	}
	if req.Labels != nil {
		labels := req.Labels
		ret.Labels = &labels
	}
	return ret
}
