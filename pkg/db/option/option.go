package option

import (
	"strings"
	"time"

	"github.com/imigpt/foodzippy-backend/pkg/db/pagination"
	"gorm.io/gorm"
)

// Option mutates a gorm statement before execution.
type Option interface {
	Apply(stmt *gorm.DB) *gorm.DB
}

type paginationOption struct {
	page pagination.Pagination
}

// ApplyPagination turns a cursor page request into a statement option.
func ApplyPagination(page pagination.Pagination) Option {
	return paginationOption{page: page}
}

func (o paginationOption) Apply(stmt *gorm.DB) *gorm.DB {
	limit := o.page.PageSize
	if limit <= 0 {
		limit = 10
	}
	if limit > 250 {
		limit = 250
	}

	if token := strings.TrimSpace(o.page.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err == nil && cursor != nil {
			if createdAt, perr := time.Parse(time.RFC3339, cursor.CreatedAt); perr == nil {
				stmt = stmt.Where(
					"(created_at < ?) OR (created_at = ? AND id < ?)",
					createdAt, createdAt, cursor.ID,
				)
			}
		}
	}

	// fetch one extra row so the caller can detect another page
	return stmt.Limit(limit + 1)
}
