package migration

import (
	"context"
	"fmt"

	"github.com/krrrr38/git-mover/pkg/logger"
	"github.com/krrrr38/git-mover/pkg/model"
)

// Run migrates labels, milestones and issues from src to dst.
// Issues are fetched before anything is written, so a fetch failure leaves the destination untouched.
func Run(ctx context.Context, src Source, dst Destination, opts *MigrationOptions) (*Result, error) {
	logger.Info("Migration started", "source", src.FullName(), "destination", dst.FullName(), "dry_run", opts.DryRun)

	if !opts.SkipPreflight {
		if err := dst.Preflight(ctx); err != nil {
			return nil, fmt.Errorf("preflight failed: %w", err)
		}
	}

	var targets []model.Issue
	if opts.Issues {
		issues, err := FetchIssues(ctx, src, opts.State)
		if err != nil {
			return nil, err
		}
		targets = selectIssues(issues, opts)
		logger.Info("Issues fetched", "fetched", len(issues), "target", len(targets))
	}

	if opts.Labels {
		if _, err := MigrateLabels(ctx, src, dst, opts.DryRun); err != nil {
			return nil, fmt.Errorf("failed to migrate labels: %w", err)
		}
	}

	var milestones map[int]int
	if opts.Milestones {
		var err error
		milestones, err = MigrateMilestones(ctx, src, dst, opts.DryRun)
		if err != nil {
			return nil, fmt.Errorf("failed to migrate milestones: %w", err)
		}
	}

	result := &Result{}
	if opts.Issues {
		if len(targets) == 0 {
			logger.Info("No issues found. None migrated")
		} else {
			var err error
			result, err = NewCreator(dst, opts, milestones).CreateIssues(ctx, targets)
			if err != nil {
				return result, fmt.Errorf("issue migration interrupted: %w", err)
			}
		}
	}

	// 最終の統計情報を表示
	logger.Info("Migration completed",
		"created", len(result.Created),
		"failed", len(result.Failed))

	if opts.ReportPath != "" {
		if err := WriteReport(opts.ReportPath, src.FullName(), dst.FullName(), result); err != nil {
			return result, err
		}
		logger.Info("Report written", "path", opts.ReportPath)
	}
	return result, nil
}
