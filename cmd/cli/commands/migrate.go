package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applied, err := app.Database.RunMigrations(app.Ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(w, "Database is up to date.")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(w, "%s✓%s %s\n", colorGreen, colorReset, name)
			}
			return nil
		},
	}
}
