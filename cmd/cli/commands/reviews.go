package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-platform/pkg/core/services"
)

// ReviewsCmd creates the reviews command group
func ReviewsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Inspect and decide pending review items",
	}

	cmd.AddCommand(reviewsListCmd(app))
	cmd.AddCommand(reviewsShowCmd(app))
	cmd.AddCommand(reviewsDecideCmd(app))
	cmd.AddCommand(reviewsStatsCmd(app))

	return cmd
}

func reviewsListCmd(app *AppContext) *cobra.Command {
	var params services.ListReviewsParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List review items (pending by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("reviews list command",
				zap.String("type", params.Type),
				zap.String("status", params.Status))

			page, err := services.ListPendingReviews(app.Ctx, app.Database, app.Cfg, app.Logger, params)
			if err != nil {
				return err
			}

			printReviewPage(cmd.OutOrStdout(), page)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Type, "type", "all", "Review type: organization, activity, application, volunteer or all")
	cmd.Flags().StringVar(&params.Status, "status", "pending", "Review status: pending, approved or rejected")
	cmd.Flags().IntVar(&params.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "Items per page (0 uses the configured default)")

	return cmd
}

func reviewsShowCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <type> <id>",
		Short: "Show the full record behind a review item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := services.GetReviewDetail(app.Ctx, app.Database, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(detail, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode review detail: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func reviewsDecideCmd(app *AppContext) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "decide <type> <id> <approve|reject>",
		Short: "Approve or reject a pending review item",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.DecideReview(app.Ctx, app.Database, app.Events, app.Logger, services.DecisionRequest{
				Type:    args[0],
				ID:      args[1],
				Action:  args[2],
				Message: message,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "\n%s %s is now %s%s%s\n", result.Type, result.ID, statusColor(result.Status), result.Status, colorReset)
			if result.NotificationID != "" {
				fmt.Fprintf(w, "Notification: %s\n", result.NotificationID)
			} else {
				fmt.Fprintln(w, "No notification sent: the submitting account no longer exists")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Review message (required when rejecting)")

	return cmd
}

func reviewsStatsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show review counters per type and the 7 day decision trend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := services.GetReviewStats(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}
