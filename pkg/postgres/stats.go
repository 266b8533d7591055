package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/volunteer-platform/pkg/core/model"
)

// reviewTables describes where each review type keeps its status
var reviewTables = map[model.ReviewType]struct {
	table        string
	statusColumn string
}{
	model.ReviewTypeOrganization: {"organizations", "status"},
	model.ReviewTypeActivity:     {"activities", "status"},
	model.ReviewTypeApplication:  {"applications", "status"},
	model.ReviewTypeVolunteer:    {"volunteers", "verification_status"},
}

// GetReviewStats returns the per-type moderation counters and the 7-day decision trend
func (d *DB) GetReviewStats(ctx context.Context) (*model.ReviewStats, error) {
	stats := &model.ReviewStats{
		Stats: make([]model.TypeStats, 0, len(model.ReviewTypes)),
		Trend: []model.TrendPoint{},
	}

	for _, t := range model.ReviewTypes {
		table := reviewTables[t]
		entry := model.TypeStats{Type: t}

		query := fmt.Sprintf(`
			SELECT
				COUNT(*) FILTER (WHERE %[2]s = $1),
				COUNT(*) FILTER (WHERE %[2]s = ANY($2)),
				COUNT(*) FILTER (WHERE %[2]s = ANY($3)),
				COUNT(*) FILTER (WHERE reviewed_at::date = CURRENT_DATE AND %[2]s <> $1)
			FROM %[1]s
		`, table.table, table.statusColumn)

		err := d.pool.QueryRow(ctx, query,
			model.PendingStatus(t), model.StateStatuses(t, model.StateApproved), model.StateStatuses(t, model.StateRejected),
		).Scan(&entry.PendingCount, &entry.ApprovedCount, &entry.RejectedCount, &entry.TodayCount)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s reviews: %w", t, err)
		}

		stats.Stats = append(stats.Stats, entry)
	}

	trend, err := d.getReviewTrend(ctx)
	if err != nil {
		return nil, err
	}
	stats.Trend = trend

	return stats, nil
}

func (d *DB) getReviewTrend(ctx context.Context) ([]model.TrendPoint, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT review_date, type, count FROM (
			SELECT reviewed_at::date AS review_date, 'organization' AS type, COUNT(*) AS count
			FROM organizations WHERE reviewed_at >= CURRENT_DATE - 6 GROUP BY 1
			UNION ALL
			SELECT reviewed_at::date, 'activity', COUNT(*)
			FROM activities WHERE reviewed_at >= CURRENT_DATE - 6 GROUP BY 1
			UNION ALL
			SELECT reviewed_at::date, 'application', COUNT(*)
			FROM applications WHERE reviewed_at >= CURRENT_DATE - 6 GROUP BY 1
			UNION ALL
			SELECT reviewed_at::date, 'volunteer', COUNT(*)
			FROM volunteers WHERE reviewed_at >= CURRENT_DATE - 6 GROUP BY 1
		) AS trend
		ORDER BY review_date DESC, type ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query review trend: %w", err)
	}
	defer rows.Close()

	trend := []model.TrendPoint{}
	for rows.Next() {
		var p model.TrendPoint
		var date time.Time
		var count int64
		if err := rows.Scan(&date, &p.Type, &count); err != nil {
			return nil, fmt.Errorf("failed to scan review trend: %w", err)
		}
		p.Date = date.Format("2006-01-02")
		p.Count = int(count)
		trend = append(trend, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review trend: %w", err)
	}

	return trend, nil
}
