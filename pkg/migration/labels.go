package migration

import (
	"context"
	"fmt"

	"github.com/krrrr38/git-mover/pkg/github"
	"github.com/krrrr38/git-mover/pkg/logger"
)

// MigrateLabels copies every source label to the destination. Labels that already exist are skipped.
// It returns how many labels could not be created.
func MigrateLabels(ctx context.Context, src Source, dst Destination, dryRun bool) (int, error) {
	labels, err := src.Labels(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get labels: %w", err)
	}
	logger.Info("Migrating labels", "count", len(labels))

	var created, skipped, failed int
	for _, label := range labels {
		if err := ctx.Err(); err != nil {
			return failed, err
		}
		if dryRun {
			logger.Info("Dry run, skipping label creation", "name", label.Name, "color", label.Color)
			continue
		}

		err := dst.CreateLabel(ctx, label)
		switch {
		case err == nil:
			created++
		case github.IsAlreadyExistsError(err):
			logger.Debug("Label already exists", "name", label.Name)
			skipped++
		default:
			logger.Warn("Failed to create label", "name", label.Name, "error", err)
			failed++
		}
	}

	logger.Info("Labels migrated", "created", created, "skipped", skipped, "failed", failed)
	return failed, nil
}
