package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/volunteer-platform/pkg/core/services"
)

// RecommendCmd creates the recommend command
func RecommendCmd(app *AppContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recommend <volunteer_id>",
		Short: "Rank the open activities a volunteer can apply to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.RecommendActivities(app.Ctx, app.Database, app.Cfg, app.Logger, args[0], limit)
			if err != nil {
				return err
			}

			printRecommendations(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum recommendations (0 uses the configured default)")

	return cmd
}
