package model

// ReviewQuery selects one page of the moderation queue
type ReviewQuery struct {
	Types  []ReviewType
	State  ReviewState
	Limit  int
	Offset int
}

// ReviewPage is one page of the moderation queue
type ReviewPage struct {
	Items      []ReviewItem `json:"items"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"total_pages"`
}

// TotalPages returns ceil(total/limit), or 0 when limit is not positive
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// ApplicationFilter selects which of a volunteer's applications to list
type ApplicationFilter string

const (
	ApplicationFilterAll       ApplicationFilter = "all"
	ApplicationFilterUpcoming  ApplicationFilter = "upcoming"
	ApplicationFilterCompleted ApplicationFilter = "completed"
	ApplicationFilterPending   ApplicationFilter = "pending"
)

// ParseApplicationFilter validates an application filter. Empty selects all.
func ParseApplicationFilter(s string) (ApplicationFilter, error) {
	switch f := ApplicationFilter(s); f {
	case "":
		return ApplicationFilterAll, nil
	case ApplicationFilterAll, ApplicationFilterUpcoming, ApplicationFilterCompleted, ApplicationFilterPending:
		return f, nil
	}
	return "", Validationf("invalid application filter %q", s)
}
