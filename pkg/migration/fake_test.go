package migration

import (
	"context"
	"iter"
	"net/http"
	"net/url"

	githublib "github.com/google/go-github/v70/github"
	"github.com/krrrr38/git-mover/pkg/model"
)

type fakeSource struct {
	pages      [][]model.Issue
	pageErr    error
	errOnPage  int
	labels     []model.Label
	milestones []model.Milestone
	requests   int
}

func (s *fakeSource) FullName() string { return "octo/source" }

func (s *fakeSource) IssuePages(_ context.Context, _ string) iter.Seq2[[]model.Issue, error] {
	return func(yield func([]model.Issue, error) bool) {
		for i, page := range s.pages {
			s.requests++
			if s.pageErr != nil && i == s.errOnPage {
				yield(nil, s.pageErr)
				return
			}
			if !yield(page, nil) {
				return
			}
		}
	}
}

func (s *fakeSource) Labels(context.Context) ([]model.Label, error) { return s.labels, nil }

func (s *fakeSource) Milestones(context.Context) ([]model.Milestone, error) {
	return s.milestones, nil
}

type fakeDestination struct {
	preflightErr error
	// createFunc decides the response of each CreateIssue call; nil means success
	createFunc func(call int, req model.IssueRequest) error
	requests   []model.IssueRequest
	created    []model.Issue
	closed     []int
	labels     []model.Label
	labelErrs  map[string]error
	// existing holds milestones already present on the destination
	existing      []model.Milestone
	milestoneErrs map[string]error
	milestones    []model.Milestone
	nextNumber    int
	nextMilestone int
	preflights    int
}

func (d *fakeDestination) FullName() string { return "octo/destination" }

func (d *fakeDestination) Preflight(context.Context) error {
	d.preflights++
	return d.preflightErr
}

func (d *fakeDestination) CreateIssue(_ context.Context, req model.IssueRequest) (model.Issue, error) {
	call := len(d.requests)
	d.requests = append(d.requests, req)
	if d.createFunc != nil {
		if err := d.createFunc(call, req); err != nil {
			return model.Issue{}, err
		}
	}
	d.nextNumber++
	issue := model.Issue{Number: 100 + d.nextNumber, Title: req.Title, State: model.StateOpen}
	d.created = append(d.created, issue)
	return issue, nil
}

func (d *fakeDestination) CloseIssue(_ context.Context, number int) error {
	d.closed = append(d.closed, number)
	return nil
}

func (d *fakeDestination) CreateLabel(_ context.Context, label model.Label) error {
	if err := d.labelErrs[label.Name]; err != nil {
		return err
	}
	d.labels = append(d.labels, label)
	return nil
}

func (d *fakeDestination) Milestones(context.Context) ([]model.Milestone, error) {
	return d.existing, nil
}

func (d *fakeDestination) CreateMilestone(_ context.Context, milestone model.Milestone) (int, error) {
	if err := d.milestoneErrs[milestone.Title]; err != nil {
		return 0, err
	}
	d.nextMilestone++
	d.milestones = append(d.milestones, milestone)
	return 50 + d.nextMilestone, nil
}

func validationError(code, field string) error {
	u, _ := url.Parse("https://api.github.com/repos/octo/destination/issues")
	return &githublib.ErrorResponse{
		Response: &http.Response{
			StatusCode: http.StatusUnprocessableEntity,
			Request:    &http.Request{Method: http.MethodPost, URL: u},
		},
		Message: "Validation Failed",
		Errors:  []githublib.Error{{Resource: "Issue", Field: field, Code: code}},
	}
}

func ptr[T any](v T) *T { return &v }
