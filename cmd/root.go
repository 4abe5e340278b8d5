package cmd

import (
	"fmt"
	"strings"

	"github.com/krrrr38/git-mover/pkg/config"
	"github.com/krrrr38/git-mover/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "GIT_MOVER"

func NewRootCommand() *cobra.Command {
	var cfg config.GlobalConfig

	rootCmd := &cobra.Command{
		Use:   "git-mover",
		Short: "Migrate issues, labels and milestones between GitHub (or GitLab) repositories",
		Long: `Migrate issues, labels and milestones between repositories.
This tool performs:
- Label migration
- Milestone migration with issue milestone remapping
- Issue migration in ascending issue number order

Every flag can also be set with a GIT_MOVER_<FLAG> environment variable
(dashes replaced by underscores) or from a --config file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindConfiguration(cmd, cfg.ConfigFile); err != nil {
				return err
			}

			// Configure logger based on log level
			if cfg.LogLevel != "" {
				logger.SetLevel(cfg.LogLevel)
			}
			return logger.SetFormat(cfg.LogFormat)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", "console", "Log format (console, json)")

	// Add subcommands
	rootCmd.AddCommand(NewMigrateCommand(&cfg))

	return rootCmd
}

// bindConfiguration fills every flag not given on the command line from
// GIT_MOVER_* environment variables or the config file, in that order.
func bindConfiguration(cmd *cobra.Command, configFile string) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read configuration %s: %w", configFile, err)
		}
	}

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if bindErr != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		var value string
		switch v.Get(f.Name).(type) {
		case []interface{}, []string:
			// config file lists
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		default:
			value = v.GetString(f.Name)
		}
		if err := cmd.Flags().Set(f.Name, value); err != nil {
			bindErr = fmt.Errorf("invalid value %q for %s: %w", value, f.Name, err)
		}
	})
	return bindErr
}
