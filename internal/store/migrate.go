// internal/store/migrate.go
package store

import (
	"context"
	"fmt"
)

// statusColumns lists every enum-bearing column the legacy schema stored in
// mixed case.
var statusColumns = []struct {
	table  string
	column string
}{
	{"applications", "status"},
	{"job_requests", "status"},
	{"job_requests", "category"},
	{"company_requests", "status"},
	{"company_requests", "type"},
	{"interviews", "status"},
	{"applicants", "german_level"},
	{"applicants", "english_level"},
	{"applicants", "position_type"},
	{"applicants", "gender"},
	{"applicants", "anabin_status"},
	{"job_postings", "category"},
	{"job_postings", "german_required"},
	{"job_postings", "english_required"},
	{"job_postings", "salary_period"},
	{"documents", "type"},
}

// MigrateLowercaseEnums rewrites legacy mixed-case enum values to the
// lowercase canon once at startup. Idempotent: rows already lowercase are
// untouched.
func (s *Store) MigrateLowercaseEnums(ctx context.Context) error {
	total := int64(0)
	for _, sc := range statusColumns {
		res, err := s.db.ExecContext(ctx, fmt.Sprintf(
			`UPDATE %s SET %s = LOWER(%s) WHERE %s IS NOT NULL AND %s <> LOWER(%s)`,
			sc.table, sc.column, sc.column, sc.column, sc.column, sc.column))
		if err != nil {
			return fmt.Errorf("lowercase migration %s.%s: %w", sc.table, sc.column, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}

	// The array column needs element-wise lowering.
	res, err := s.db.ExecContext(ctx, `
		UPDATE applicants
		SET position_types = (
			SELECT ARRAY_AGG(LOWER(t)) FROM UNNEST(position_types) AS t
		)
		WHERE position_types IS NOT NULL
		  AND EXISTS (SELECT 1 FROM UNNEST(position_types) AS t WHERE t <> LOWER(t))`)
	if err != nil {
		return fmt.Errorf("lowercase migration applicants.position_types: %w", err)
	}
	n, _ := res.RowsAffected()
	total += n

	if total > 0 {
		s.logger.Info("legacy enum values lowercased", map[string]interface{}{"rows": total})
	}
	return nil
}
