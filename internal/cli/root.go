package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lipish/corexia/internal/app"
	"github.com/lipish/corexia/internal/platform/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFiles []string
	LogMode  string
}

// NewRootCommand creates the corexia command. Without a subcommand it serves.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "corexia",
		Short: "Dataset and finetune link service",
		Long:  "corexia stores JSON sample datasets and links them to finetune jobs over an authenticated HTTP API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.LoadDotEnv(opts.EnvFiles...); err != nil {
				return fmt.Errorf("load env: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", []string{".env"}, "dotenv files to load (existing variables win)")
	cmd.PersistentFlags().StringVar(&opts.LogMode, "log-mode", "", "log mode (development|production); defaults to LOG_MODE")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

func newLogger(opts *RootOptions) (*logger.Logger, error) {
	mode := strings.TrimSpace(opts.LogMode)
	if mode == "" {
		mode = strings.TrimSpace(os.Getenv("LOG_MODE"))
	}
	if mode == "" {
		mode = "development"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}
