package postgre

import (
	"gorm.io/gorm"

	repo "unified-calendar/internal/credential/repository"
)

// buildGetOneQuery applies every non-empty filter as an AND condition.
func (r *implRepository) buildGetOneQuery(q *gorm.DB, opt repo.GetOneAccountOptions) *gorm.DB {
	if opt.ID != "" {
		q = q.Where("id = ?", opt.ID)
	}
	if opt.UserID != "" {
		q = q.Where("user_id = ?", opt.UserID)
	}
	if opt.Provider != "" {
		q = q.Where("provider = ?", string(opt.Provider))
	}
	return q
}

// buildListQuery applies filters and a stable provider order.
func (r *implRepository) buildListQuery(q *gorm.DB, opt repo.ListAccountsOptions) *gorm.DB {
	if opt.UserID != "" {
		q = q.Where("user_id = ?", opt.UserID)
	}
	if opt.Provider != "" {
		q = q.Where("provider = ?", string(opt.Provider))
	}
	if opt.Status != "" {
		q = q.Where("status = ?", string(opt.Status))
	}
	return q.Order("provider ASC").Order("created_at ASC")
}
