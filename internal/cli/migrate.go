package cli

import (
	"github.com/spf13/cobra"

	"github.com/lipish/corexia/internal/app"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Create or update the database schema and exit",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(rootOpts)
			if err != nil {
				return err
			}
			defer log.Sync()
			return app.Migrate(cmd.Context(), log)
		},
	}
}
