package postgre

import (
	"fmt"

	"gorm.io/gorm"

	"unified-calendar/internal/credential/repository"
	"unified-calendar/pkg/log"
)

type implRepository struct {
	db *gorm.DB
	l  log.Logger
}

// New creates a PostgreSQL-backed Repository for connected accounts.
func New(db *gorm.DB, l log.Logger) repository.Repository {
	if db == nil {
		panic("credential/repository/postgre: db is required")
	}
	return &implRepository{db: db, l: l}
}

// dsn returns a method-scoped context string for logging.
func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("credential/repository/postgre.%s", method)
}
