package migration

import (
	"context"
	"fmt"

	"github.com/krrrr38/git-mover/pkg/github"
	"github.com/krrrr38/git-mover/pkg/logger"
)

// MigrateMilestones copies every source milestone to the destination and
// returns a map from source milestone number to destination milestone number.
// Milestones whose title already exists on the destination are mapped to the existing one.
func MigrateMilestones(ctx context.Context, src Source, dst Destination, dryRun bool) (map[int]int, error) {
	milestones, err := src.Milestones(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get milestones: %w", err)
	}
	logger.Info("Migrating milestones", "count", len(milestones))

	mapping := make(map[int]int, len(milestones))
	var existing map[string]int
	for _, milestone := range milestones {
		if err := ctx.Err(); err != nil {
			return mapping, err
		}
		if dryRun {
			logger.Info("Dry run, skipping milestone creation", "number", milestone.Number, "title", milestone.Title)
			continue
		}

		number, err := dst.CreateMilestone(ctx, milestone)
		if err == nil {
			logger.Info(fmt.Sprintf("milestone %d -> %d", milestone.Number, number), "title", milestone.Title)
			mapping[milestone.Number] = number
			continue
		}
		if !github.IsAlreadyExistsError(err) {
			logger.Warn("Failed to create milestone", "number", milestone.Number, "title", milestone.Title, "error", err)
			continue
		}

		// 既に存在する場合はタイトルで移行先のマイルストーンを引き当てる
		if existing == nil {
			existing, err = destinationMilestonesByTitle(ctx, dst)
			if err != nil {
				return nil, err
			}
		}
		if number, ok := existing[milestone.Title]; ok {
			logger.Debug("Milestone already exists", "title", milestone.Title, "number", number)
			mapping[milestone.Number] = number
		} else {
			logger.Warn("Milestone reported as existing but not found", "title", milestone.Title)
		}
	}
	return mapping, nil
}

func destinationMilestonesByTitle(ctx context.Context, dst Destination) (map[string]int, error) {
	milestones, err := dst.Milestones(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination milestones: %w", err)
	}
	ret := make(map[string]int, len(milestones))
	for _, m := range milestones {
		ret[m.Title] = m.Number
	}
	return ret, nil
}
