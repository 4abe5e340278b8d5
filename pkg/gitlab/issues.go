package gitlab

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/krrrr38/git-mover/pkg/logger"
	"github.com/krrrr38/git-mover/pkg/model"
	"github.com/xanzy/go-gitlab"
)

const perPage = 100

// Project reads issues, labels and milestones of a GitLab project
type Project struct {
	client    *gitlab.Client
	projectID string
}

// NewProject creates a GitLab client for the project ID or path (namespace/project-name)
func NewProject(baseURL, token, projectID string) (*Project, error) {
	client, err := gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}
	return &Project{client: client, projectID: projectID}, nil
}

// FullName returns the project ID or path
func (p *Project) FullName() string {
	return p.projectID
}

// IssuePages lists project issues page by page, oldest first.
// GitLab numbers issues per project with IID, which becomes the issue number.
func (p *Project) IssuePages(ctx context.Context, state string) iter.Seq2[[]model.Issue, error] {
	return func(yield func([]model.Issue, error) bool) {
		opts := &gitlab.ListProjectIssuesOptions{
			OrderBy: gitlab.String("created_at"),
			Sort:    gitlab.String("asc"),
			ListOptions: gitlab.ListOptions{
				PerPage: perPage,
				Page:    1,
			},
		}
		// GitLab は "opened" を使い、未指定の場合はすべての状態を返す
		switch state {
		case model.StateOpen:
			opts.State = gitlab.String("opened")
		case model.StateClosed:
			opts.State = gitlab.String("closed")
		}

		for {
			logger.Info("Fetching issues", "project", p.projectID, "state", state, "page", opts.Page)

			issues, resp, err := p.client.Issues.ListProjectIssues(p.projectID, opts, gitlab.WithContext(ctx))
			if err != nil {
				yield(nil, fmt.Errorf("failed to list GitLab issues of %s: %w", p.projectID, err))
				return
			}

			page := make([]model.Issue, 0, len(issues))
			for _, issue := range issues {
				page = append(page, fromGitLabIssue(issue))
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

// Labels lists project labels
func (p *Project) Labels(ctx context.Context) ([]model.Label, error) {
	var ret []model.Label
	opts := &gitlab.ListLabelsOptions{
		ListOptions: gitlab.ListOptions{PerPage: perPage, Page: 1},
	}
	for {
		logger.Info("Fetching labels", "project", p.projectID, "page", opts.Page)

		labels, resp, err := p.client.Labels.ListLabels(p.projectID, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list GitLab labels of %s: %w", p.projectID, err)
		}
		for _, label := range labels {
			ret = append(ret, model.Label{
				Name:        label.Name,
				Color:       strings.ToLower(strings.TrimPrefix(label.Color, "#")),
				Description: label.Description,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return ret, nil
}

// Milestones lists project milestones in every state
func (p *Project) Milestones(ctx context.Context) ([]model.Milestone, error) {
	var ret []model.Milestone
	opts := &gitlab.ListMilestonesOptions{
		ListOptions: gitlab.ListOptions{PerPage: perPage, Page: 1},
	}
	for {
		logger.Info("Fetching milestones", "project", p.projectID, "page", opts.Page)

		milestones, resp, err := p.client.Milestones.ListMilestones(p.projectID, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list GitLab milestones of %s: %w", p.projectID, err)
		}
		for _, m := range milestones {
			milestone := model.Milestone{
				Number:      m.IID,
				Title:       m.Title,
				Description: m.Description,
				State:       model.StateOpen,
			}
			if m.State == "closed" {
				milestone.State = model.StateClosed
			}
			if m.DueDate != nil {
				due := time.Time(*m.DueDate)
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

func fromGitLabIssue(issue *gitlab.Issue) model.Issue {
	ret := model.Issue{
		Number: issue.IID,
		Title:  issue.Title,
		Body:   issue.Description,
		State:  model.StateOpen,
	}
	if issue.State == "closed" {
		ret.State = model.StateClosed
	}
	if issue.Assignee != nil && issue.Assignee.Username != "" {
		username := issue.Assignee.Username
		ret.Assignee = &username
	}
	if issue.Labels != nil {
		ret.Labels = append([]string{}, issue.Labels...)
	}
	if issue.Milestone != nil {
		number := issue.Milestone.IID
		ret.Milestone = &number
	}
	return ret
}
