package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	DefaultGitHubRoot = "https://api.github.com"
	DefaultGitLabRoot = "https://gitlab.com"

	SourceTypeGitHub = "github"
	SourceTypeGitLab = "gitlab"
)

type GlobalConfig struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

type MigrateConfig struct {
	SourceUserName      string
	SourceToken         string
	SourceRepo          string
	DestinationRepo     string
	DestinationUserName string
	DestinationToken    string
	SourceRoot          string
	DestinationRoot     string
	SourceType          string

	DestinationAppID               int
	DestinationAppInstallationID   int
	DestinationAppPrivateKey       string
	DestinationAppPrivateKeyAsFile bool

	FilterIssueNumbers []int
	ContinueFrom       int    // 指定したIssue番号から処理を再開
	State              string // open, closed, all
	Labels             bool
	Milestones         bool
	Issues             bool
	SkipPullRequests   bool
	CloseClosed        bool
	DryRun             bool
	SkipPreflight      bool
	ReportPath         string
}

// Repository is an "owner/name" pair
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository parses "<owner>/<repo>"
func ParseRepository(s string) (Repository, error) {
	owner, name, ok := strings.Cut(strings.Trim(s, "/"), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("invalid repository %q, expected <owner>/<repo>", s)
	}
	return Repository{Owner: owner, Name: name}, nil
}

// NormalizeRoot trims trailing slashes and a trailing REST prefix so that roots can be compared.
// "https://ghe.example.com/api/v3/" and "https://ghe.example.com" are the same root.
func NormalizeRoot(root string) string {
	root = strings.TrimRight(strings.TrimSpace(root), "/")
	// Enterprise の REST/GraphQL のパスはクライアント側で付与する
	root = strings.TrimSuffix(root, "/api/v3")
	return strings.TrimRight(root, "/")
}

// IsEnterpriseRoot reports whether the root points to a GitHub Enterprise installation
func IsEnterpriseRoot(root string) bool {
	return NormalizeRoot(root) != DefaultGitHubRoot
}

// SameInstall reports whether source and destination share a user namespace,
// in which case assignees can be carried over.
func (c *MigrateConfig) SameInstall() bool {
	return c.SourceType == SourceTypeGitHub && NormalizeRoot(c.SourceRoot) == NormalizeRoot(c.DestinationRoot)
}

// UseDestinationApp reports whether the destination is accessed as a GitHub App installation
func (c *MigrateConfig) UseDestinationApp() bool {
	return c.DestinationAppID > 0 && c.DestinationAppInstallationID > 0 && c.DestinationAppPrivateKey != ""
}

// Resolve fills defaults, loads key files and validates the configuration.
// It returns a list of notes describing defaults that were applied.
func (c *MigrateConfig) Resolve() ([]string, error) {
	var notes []string

	if c.SourceType == "" {
		c.SourceType = SourceTypeGitHub
	}
	c.SourceType = strings.ToLower(c.SourceType)
	switch c.SourceType {
	case SourceTypeGitHub:
		if c.SourceRoot == "" {
			c.SourceRoot = DefaultGitHubRoot
		}
	case SourceTypeGitLab:
		if c.SourceRoot == "" || NormalizeRoot(c.SourceRoot) == DefaultGitHubRoot {
			c.SourceRoot = DefaultGitLabRoot
		}
	default:
		return nil, fmt.Errorf("unknown source type %q (expected %s or %s)", c.SourceType, SourceTypeGitHub, SourceTypeGitLab)
	}
	if c.DestinationRoot == "" {
		c.DestinationRoot = DefaultGitHubRoot
	}
	c.SourceRoot = NormalizeRoot(c.SourceRoot)
	c.DestinationRoot = NormalizeRoot(c.DestinationRoot)

	if c.SourceToken == "" {
		return nil, errors.New("source token is required")
	}
	if c.SourceRepo == "" {
		return nil, errors.New("source repository is required")
	}
	if c.SourceType == SourceTypeGitHub {
		if _, err := ParseRepository(c.SourceRepo); err != nil {
			return nil, err
		}
	}
	if _, err := ParseRepository(c.DestinationRepo); err != nil {
		return nil, err
	}

	if c.DestinationAppPrivateKeyAsFile && c.DestinationAppPrivateKey != "" {
		privateKey, err := os.ReadFile(c.DestinationAppPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("could not read private key %s: %w", c.DestinationAppPrivateKey, err)
		}
		c.DestinationAppPrivateKey = string(privateKey)
		c.DestinationAppPrivateKeyAsFile = false
	}

	if !c.UseDestinationApp() {
		if c.SourceRoot != c.DestinationRoot && c.DestinationToken == "" {
			return nil, errors.New("source and destination roots are different but no token was supplied for the destination repository")
		}
		if c.DestinationUserName == "" {
			notes = append(notes, fmt.Sprintf("No destination user name provided, defaulting to source user name: %s", c.SourceUserName))
			c.DestinationUserName = c.SourceUserName
		}
		if c.DestinationToken == "" {
			notes = append(notes, "No destination token provided, defaulting to source token")
			c.DestinationToken = c.SourceToken
		}
	}

	if c.State == "" {
		c.State = "open"
	}
	switch c.State {
	case "open", "closed", "all":
	default:
		return nil, fmt.Errorf("invalid state %q (expected open, closed or all)", c.State)
	}

	// 何も指定されていない場合はすべて移行する
	if !c.Labels && !c.Milestones && !c.Issues {
		c.Labels, c.Milestones, c.Issues = true, true, true
	}

	for _, n := range c.FilterIssueNumbers {
		if n <= 0 {
			return nil, fmt.Errorf("invalid issue number %d", n)
		}
	}

	return notes, nil
}
