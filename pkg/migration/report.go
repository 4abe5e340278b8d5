package migration

import (
	"fmt"
	"os"
	"time"

	"github.com/krrrr38/git-mover/pkg/model"
	"gopkg.in/yaml.v3"
)

// Report is the document written by WriteReport
type Report struct {
	Source      string          `yaml:"source"`
	Destination string          `yaml:"destination"`
	FinishedAt  time.Time       `yaml:"finished_at"`
	Created     []model.Mapping `yaml:"created"`
	Failed      []Failure       `yaml:"failed,omitempty"`
}

// WriteReport writes the old -> new issue numbers as YAML
func WriteReport(path, source, destination string, result *Result) error {
	report := Report{
		Source:      source,
		Destination: destination,
		FinishedAt:  time.Now().UTC(),
		Created:     []model.Mapping{},
	}
	if result != nil {
		if result.Created != nil {
			report.Created = result.Created
		}
		report.Failed = result.Failed
	}

	data, err := yaml.Marshal(&report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
