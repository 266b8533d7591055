package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/core/services"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

// statusColor picks the color a stored status is printed in
func statusColor(status string) string {
	switch status {
	case model.OrganizationPendingReview, model.ApplicationPending:
		return colorYellow
	case model.OrganizationApproved, model.ActivityRecruiting, model.ActivityPublished, model.VolunteerVerified:
		return colorGreen
	case model.OrganizationRejected:
		return colorRed
	}
	return colorDim
}

// truncate shortens s to at most width runes, marking the cut with "..."
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func printReviewPage(w io.Writer, page *model.ReviewPage) {
	if len(page.Items) == 0 {
		fmt.Fprintln(w, "No review items found.")
		return
	}

	const (
		idWidth     = 38
		typeWidth   = 14
		titleWidth  = 32
		statusWidth = 16
	)

	fmt.Fprintf(w, "\n%-*s%-*s%-*s%-*s%s\n", idWidth, "ID", typeWidth, "TYPE", titleWidth, "TITLE", statusWidth, "STATUS", "SUBMITTED")
	fmt.Fprintln(w, strings.Repeat("-", idWidth+typeWidth+titleWidth+statusWidth+16))

	for _, item := range page.Items {
		s := item.Summary()
		fmt.Fprintf(w, "%-*s%-*s%-*s%s%-*s%s%s\n",
			idWidth, s.ID,
			typeWidth, s.Type,
			titleWidth, truncate(s.Title, titleWidth-2),
			statusColor(s.Status), statusWidth, s.Status, colorReset,
			s.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(w, "\nPage %d of %d (%d items)\n", page.Page, page.TotalPages, page.Total)
}

func printStats(w io.Writer, stats *model.ReviewStats) {
	fmt.Fprintf(w, "\n%-14s%10s%10s%10s%10s\n", "TYPE", "PENDING", "APPROVED", "REJECTED", "TODAY")
	fmt.Fprintln(w, strings.Repeat("-", 54))
	for _, s := range stats.Stats {
		fmt.Fprintf(w, "%-14s%10d%10d%10d%10d\n", s.Type, s.PendingCount, s.ApprovedCount, s.RejectedCount, s.TodayCount)
	}
	fmt.Fprintln(w, strings.Repeat("-", 54))
	t := stats.Totals
	fmt.Fprintf(w, "%-14s%10d%10d%10d%10d\n", "total", t.TotalPending, t.TotalApproved, t.TotalRejected, t.TotalToday)

	if len(stats.Trend) > 0 {
		fmt.Fprintln(w, "\nDecisions over the last 7 days:")
		for _, p := range stats.Trend {
			fmt.Fprintf(w, "  %s  %-14s%d\n", p.Date, p.Type, p.Count)
		}
	}
}

func printRecommendations(w io.Writer, result *services.RecommendationResult) {
	fmt.Fprintf(w, "\nVolunteer profile: region=%q skills=%v interests=%v\n\n",
		result.Profile.Region, result.Profile.Skills, result.Profile.Interests)

	if len(result.Recommendations) == 0 {
		fmt.Fprintln(w, "No open activities to recommend.")
		return
	}

	for i, r := range result.Recommendations {
		info := r.MatchInfo
		urgency := ""
		if info.UrgencyLevel == "high" {
			urgency = colorRed + " urgent" + colorReset
		}
		fmt.Fprintf(w, "%2d. %s%3d%s  %s (%s)%s\n", i+1, colorGreen, info.TotalScore, colorReset, r.Title, r.Organization.Name, urgency)
		fmt.Fprintf(w, "      %s | %s | %d/%d volunteers | location %t\n",
			r.StartTime.Format("2006-01-02 15:04"), r.Location,
			r.CurrentVolunteers, r.RequiredVolunteers, info.LocationMatch)
		if len(info.SkillMatches) > 0 {
			fmt.Fprintf(w, "      skills: %s\n", strings.Join(info.SkillMatches, ", "))
		}
		if len(info.InterestMatches) > 0 {
			fmt.Fprintf(w, "      interests: %s\n", strings.Join(info.InterestMatches, ", "))
		}
	}
}
