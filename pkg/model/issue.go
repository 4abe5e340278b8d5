package model

import (
	"slices"
	"sort"
	"time"

	"github.com/krrrr38/git-mover/pkg/utils"
)

const (
	StateOpen   = "open"
	StateClosed = "closed"
	StateAll    = "all"
)

// Issue is a source issue normalized across hosts
type Issue struct {
	Number int
	Title  string
	Body   string
	State  string
	// Assignee is the login of the assignee, nil when unassigned
	Assignee *string
	// Labels is nil when the source did not report labels at all
	Labels []string
	// Milestone is the source milestone number
	Milestone   *int
	PullRequest bool
}

// IssueRequest is the minimal payload used to re-create an issue
type IssueRequest struct {
	Title     string
	Body      string
	State     string
	Assignee  *string
	Labels    []string
	Milestone *int
}

// Label is a repository label
type Label struct {
	Name        string
	Color       string
	Description string
}

// Milestone is a repository milestone
type Milestone struct {
	Number      int
	Title       string
	Description string
	State       string
	DueOn       *time.Time
}

// Mapping links a source issue number to the number it received on the destination
type Mapping struct {
	Old int `yaml:"old"`
	New int `yaml:"new"`
}

// NewIssueRequest builds the creation payload for an issue.
// The assignee is only carried over when source and destination share the same user namespace.
func NewIssueRequest(issue Issue, sameInstall bool, milestones map[int]int) IssueRequest {
	req := IssueRequest{
		Title: utils.TruncateText(issue.Title, utils.MaxIssueTitleLength),
		Body:  utils.TruncateText(issue.Body, utils.MaxIssueBodyLength),
		State: issue.State,
	}
	if sameInstall && issue.Assignee != nil {
		assignee := *issue.Assignee
		req.Assignee = &assignee
	}
	if issue.Labels != nil {
		req.Labels = slices.Clone(issue.Labels)
	}
	if issue.Milestone != nil {
		if number, ok := milestones[*issue.Milestone]; ok {
			req.Milestone = &number
		}
	}
	return req
}

// SortByNumber sorts issues ascending by number in place
func SortByNumber(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Number < issues[j].Number
	})
}

// FilterByNumbers keeps only the issues whose number is listed. An empty list keeps everything.
func FilterByNumbers(issues []Issue, numbers []int) []Issue {
	if len(numbers) == 0 {
		return issues
	}
	wanted := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		wanted[n] = struct{}{}
	}
	ret := make([]Issue, 0, len(numbers))
	for _, issue := range issues {
		if _, ok := wanted[issue.Number]; ok {
			ret = append(ret, issue)
		}
	}
	return ret
}

// FilterFrom drops issues numbered below from
func FilterFrom(issues []Issue, from int) []Issue {
	if from <= 0 {
		return issues
	}
	ret := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.Number >= from {
			ret = append(ret, issue)
		}
	}
	return ret
}

// WithoutPullRequests drops pull requests returned by the issue list endpoint
func WithoutPullRequests(issues []Issue) []Issue {
	ret := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		if !issue.PullRequest {
			ret = append(ret, issue)
		}
	}
	return ret
}
