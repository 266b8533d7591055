package services

import "github.com/jakechorley/volunteer-platform/pkg/core/model"

// resolvePaging applies the default page size and bounds to a page request
func resolvePaging(page, limit, defaultLimit, maxLimit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if page < 0 {
		return 0, 0, model.Validationf("page must be at least 1, got %d", page)
	}

	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 0 {
		return 0, 0, model.Validationf("limit must be at least 1, got %d", limit)
	}
	if limit > maxLimit {
		return 0, 0, model.Validationf("limit must be at most %d, got %d", maxLimit, limit)
	}

	return page, limit, nil
}
