// Package store holds the SQL repositories. One Store serves every service;
// transition updates carry a from-status guard in the WHERE clause so a
// concurrent writer loses cleanly instead of silently overwriting.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
)

// Store bundles all repositories over one connection pool.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func New(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, logger: log}
}

// DB exposes the pool for the settings registry and migrations.
func (s *Store) DB() *sql.DB {
	return s.db
}

// marshalJSON encodes a JSON column value; nil input persists as SQL NULL.
func marshalJSON(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json column: %w", err)
	}
	return raw, nil
}

// unmarshalJSON decodes a nullable JSON column into out; empty columns leave
// out untouched.
func unmarshalJSON(raw []byte, out interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal json column: %w", err)
	}
	return nil
}
