package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/krrrr38/git-mover/pkg/config"
	"github.com/krrrr38/git-mover/pkg/github"
	"github.com/krrrr38/git-mover/pkg/gitlab"
	"github.com/krrrr38/git-mover/pkg/logger"
	"github.com/krrrr38/git-mover/pkg/migration"
	"github.com/spf13/cobra"
)

func NewMigrateCommand(cfg *config.GlobalConfig) *cobra.Command {
	var migrateConfig config.MigrateConfig
	cmd := &cobra.Command{
		Use:   "migrate <username> <token> <source-repo> <destination-repo>",
		Short: "Migrate issues between two repositories",
		Long: `Migrate issues (and labels and milestones) from <source-repo> to <destination-repo>.

<username> and <token> are the GitHub (public or enterprise) user name and personal access token
used for the source, and for the destination unless --destination-username/--destination-token are given.
Repositories are given as <owner>/<repo>; a GitLab source takes the project ID or path.
Providing none of --labels, --milestones, --issues migrates all three.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			migrateConfig.SourceUserName = args[0]
			migrateConfig.SourceToken = args[1]
			migrateConfig.SourceRepo = args[2]
			migrateConfig.DestinationRepo = args[3]
			return runMigration(cmd.Context(), migrateConfig)
		},
	}

	// Migrate command specific flags
	cmd.Flags().StringVar(&migrateConfig.DestinationToken, "destination-token", "", "Personal access token for the destination account, if you are migrating between GitHub installations")
	cmd.Flags().StringVar(&migrateConfig.DestinationUserName, "destination-username", "", "User name for the destination account, if you are migrating between GitHub installations")
	cmd.Flags().StringVar(&migrateConfig.SourceRoot, "source-root", "", "API root to migrate from. Defaults to https://api.github.com (https://gitlab.com for GitLab). For GitHub Enterprise, enter the domain of your installation")
	cmd.Flags().StringVar(&migrateConfig.DestinationRoot, "destination-root", config.DefaultGitHubRoot, "API root to migrate to. For GitHub Enterprise, enter the domain of your installation")
	cmd.Flags().StringVar(&migrateConfig.SourceType, "source-type", config.SourceTypeGitHub, "Source host type (github, gitlab)")
	cmd.Flags().VarP(newIssueNumbersValue(&migrateConfig.FilterIssueNumbers), "numbers", "n", "Comma separated numbers of specific issues to migrate, e.g. \"5, 7\" (unspecified -> move all issues)")
	cmd.Flags().IntVar(&migrateConfig.ContinueFrom, "continue-from", 0, "Continue migration from the specified issue number")
	cmd.Flags().StringVar(&migrateConfig.State, "state", "open", "State of the issues to migrate (open, closed, all)")
	cmd.Flags().BoolVar(&migrateConfig.Labels, "labels", false, "Migrate labels")
	cmd.Flags().BoolVar(&migrateConfig.Milestones, "milestones", false, "Migrate milestones")
	cmd.Flags().BoolVar(&migrateConfig.Issues, "issues", false, "Migrate issues")
	cmd.Flags().BoolVar(&migrateConfig.SkipPullRequests, "skip-pull-requests", false, "Do not migrate pull requests listed among the source issues")
	cmd.Flags().BoolVar(&migrateConfig.CloseClosed, "close-closed", true, "Close migrated issues that are closed in the source")
	cmd.Flags().BoolVar(&migrateConfig.DryRun, "dry-run", false, "Log what would be created without writing to the destination")
	cmd.Flags().BoolVar(&migrateConfig.SkipPreflight, "skip-preflight", false, "Skip the destination repository check")
	cmd.Flags().StringVar(&migrateConfig.ReportPath, "report", "", "Write the old -> new issue numbers to this YAML file")
	cmd.Flags().IntVar(&migrateConfig.DestinationAppID, "destination-app-id", 0, "GitHub App ID used to write to the destination")
	cmd.Flags().IntVar(&migrateConfig.DestinationAppInstallationID, "destination-app-installation-id", 0, "GitHub App installation ID used to write to the destination")
	cmd.Flags().StringVar(&migrateConfig.DestinationAppPrivateKey, "destination-app-private-key", "", "GitHub App private key")
	cmd.Flags().BoolVar(&migrateConfig.DestinationAppPrivateKeyAsFile, "destination-app-private-key-as-file", false, "Treat --destination-app-private-key as a file path")

	return cmd
}

func runMigration(ctx context.Context, migrateConfig config.MigrateConfig) error {
	notes, err := migrateConfig.Resolve()
	if err != nil {
		return err
	}
	for _, note := range notes {
		logger.Info(note)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// シグナルハンドリングのセットアップ（CTRL+Cなどの割り込みを処理）
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	// シグナルハンドラ
	go func() {
		select {
		case <-signalChan:
			logger.Info("Received interrupt signal, stopping after the current request...")
			// コンテキストをキャンセルして実行中の処理に停止を通知
			cancel()
		case <-ctx.Done():
		}
	}()

	src, err := newSource(migrateConfig)
	if err != nil {
		return err
	}
	dst, err := newDestination(migrateConfig)
	if err != nil {
		return err
	}

	migrationOpts := &migration.MigrationOptions{
		State:              migrateConfig.State,
		FilterIssueNumbers: migrateConfig.FilterIssueNumbers,
		ContinueFrom:       migrateConfig.ContinueFrom,
		Labels:             migrateConfig.Labels,
		Milestones:         migrateConfig.Milestones,
		Issues:             migrateConfig.Issues,
		SameInstall:        migrateConfig.SameInstall(),
		SkipPullRequests:   migrateConfig.SkipPullRequests,
		CloseClosed:        migrateConfig.CloseClosed,
		DryRun:             migrateConfig.DryRun,
		SkipPreflight:      migrateConfig.SkipPreflight,
		ReportPath:         migrateConfig.ReportPath,
	}
	if _, err := migration.Run(ctx, src, dst, migrationOpts); err != nil {
		return fmt.Errorf("failed to migrate issues: %w", err)
	}
	return nil
}

func newSource(migrateConfig config.MigrateConfig) (migration.Source, error) {
	if migrateConfig.SourceType == config.SourceTypeGitLab {
		project, err := gitlab.NewProject(migrateConfig.SourceRoot, migrateConfig.SourceToken, migrateConfig.SourceRepo)
		if err != nil {
			return nil, err
		}
		return project, nil
	}

	repo, err := config.ParseRepository(migrateConfig.SourceRepo)
	if err != nil {
		return nil, err
	}
	client, err := github.NewClientByBasicAuth(migrateConfig.SourceRoot, migrateConfig.SourceUserName, migrateConfig.SourceToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create source GitHub client: %w", err)
	}
	return client.Repository(repo.Owner, repo.Name), nil
}

func newDestination(migrateConfig config.MigrateConfig) (migration.Destination, error) {
	repo, err := config.ParseRepository(migrateConfig.DestinationRepo)
	if err != nil {
		return nil, err
	}

	var client *github.Client
	if migrateConfig.UseDestinationApp() {
		client, err = github.NewClientByApp(migrateConfig.DestinationRoot, migrateConfig.DestinationAppID, migrateConfig.DestinationAppInstallationID, migrateConfig.DestinationAppPrivateKey)
	} else {
		client, err = github.NewClientByBasicAuth(migrateConfig.DestinationRoot, migrateConfig.DestinationUserName, migrateConfig.DestinationToken)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create destination GitHub client: %w", err)
	}
	return client.Repository(repo.Owner, repo.Name), nil
}
