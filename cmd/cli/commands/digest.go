package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/volunteer-platform/pkg/core/services"
)

// DigestCmd creates the digest command
func DigestCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "digest [date]",
		Short: "Send the pending review digest to admins if it is scheduled for date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now().UTC()
			if len(args) > 0 {
				parsed, err := time.Parse("2006-01-02", args[0])
				if err != nil {
					return fmt.Errorf("date must be in YYYY-MM-DD format, got: %s", args[0])
				}
				date = parsed
			}

			result, err := services.SendReviewDigest(app.Ctx, app.Database, app.Cfg, app.Logger, date)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if !result.Scheduled {
				fmt.Fprintf(w, "No digest scheduled for %s\n", result.Date)
				return nil
			}
			fmt.Fprintf(w, "Digest for %s sent to %d admins (%d items pending)\n", result.Date, result.Notifications, result.TotalPending)
			return nil
		},
	}
}
