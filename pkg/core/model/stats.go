package model

// TypeStats holds the moderation counters of one review type
type TypeStats struct {
	Type          ReviewType `json:"type"`
	PendingCount  int        `json:"pending_count"`
	ApprovedCount int        `json:"approved_count"`
	RejectedCount int        `json:"rejected_count"`
	TodayCount    int        `json:"today_count"`
}

// StatsTotals sums TypeStats over every review type
type StatsTotals struct {
	TotalPending  int `json:"total_pending"`
	TotalApproved int `json:"total_approved"`
	TotalRejected int `json:"total_rejected"`
	TotalToday    int `json:"total_today"`
}

// TrendPoint is the number of decisions of one type on one day
type TrendPoint struct {
	Date  string     `json:"review_date"` // YYYY-MM-DD
	Type  ReviewType `json:"type"`
	Count int        `json:"count"`
}

// ReviewStats is the moderation dashboard summary
type ReviewStats struct {
	Stats  []TypeStats  `json:"stats"`
	Totals StatsTotals  `json:"totals"`
	Trend  []TrendPoint `json:"trend"`
}

// SumStats computes the totals of the given per-type entries
func SumStats(stats []TypeStats) StatsTotals {
	var totals StatsTotals
	for _, s := range stats {
		totals.TotalPending += s.PendingCount
		totals.TotalApproved += s.ApprovedCount
		totals.TotalRejected += s.RejectedCount
		totals.TotalToday += s.TodayCount
	}
	return totals
}

// PendingFor returns the pending count recorded for the given type
func (s *ReviewStats) PendingFor(t ReviewType) int {
	for _, entry := range s.Stats {
		if entry.Type == t {
			return entry.PendingCount
		}
	}
	return 0
}
