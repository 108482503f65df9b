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

// Package filter decides, for each record flowing through the chain,
// whether it is kept or dropped (§4.5), and prunes columns a kept DML
// record is not configured to carry. An Engine is built once from a Config
// and is safe for concurrent use by multiple chain goroutines (§5).
package filter

import (
	"fmt"

	"github.com/ljluestc/ape-dts/contentfilter"
	"github.com/ljluestc/ape-dts/namematch"
	"github.com/ljluestc/ape-dts/types"
)

// Config is the raw, string-keyed filter configuration (§6.1). Every field
// is optional; an absent field behaves as "no restriction" per §4.3.
type Config struct {
	DoSchemas          string
	IgnoreSchemas      string
	DoSchemasRegex     string
	IgnoreSchemasRegex string

	DoTables          string
	IgnoreTables      string
	DoTablesRegex     string
	IgnoreTablesRegex string

	DoColumns          string
	IgnoreColumns      string
	DoColumnsRegex     string
	IgnoreColumnsRegex string

	// DoEvents is a comma-separated subset of {insert,update,delete}; empty,
	// or a "*" entry, means every DML event type is kept.
	DoEvents string

	// DoDDLs/DoDCLs are read as booleans ("1", "true" or "yes"; empty also
	// means keep), not as keyword lists. A false DoDDLs drops every DDL
	// record; DoDCLs is parsed but no record kind is gated by it.
	DoDDLs string
	DoDCLs string

	// IgnoreCommands is a comma-separated list of DDL command names to drop
	// regardless of the schema/table filters (§4.5).
	IgnoreCommands string

	// ContentFilters is the JSON-encoded content filter rule set (§4.4),
	// optionally prefixed with "json:" as the teacher's node configurations
	// allow for inline vs. external script sources.
	ContentFilters string
}

// Engine is a compiled filter configuration (§9's two-phase construction
// pattern: parse once, evaluate many times).
type Engine struct {
	schemaMatch namematch.Matcher
	tableMatch  namematch.Matcher
	columnMatch namematch.Matcher

	doEvents map[types.RowType]struct{}
	keepDDL  bool
	keepDCL  bool
	ignoreCommands map[string]struct{}

	content contentfilter.Set
}

// New compiles cfg into an Engine, pre-compiling every regex and parsing
// content_filters exactly once (§5).
func New(cfg Config) (*Engine, error) {
	content, err := contentfilter.Parse(trimJSONPrefix(cfg.ContentFilters))
	if err != nil {
		return nil, err
	}
	e := &Engine{
		schemaMatch: namematch.New(cfg.DoSchemas, cfg.IgnoreSchemas, cfg.DoSchemasRegex, cfg.IgnoreSchemasRegex),
		tableMatch:  namematch.New(cfg.DoTables, cfg.IgnoreTables, cfg.DoTablesRegex, cfg.IgnoreTablesRegex),
		columnMatch: namematch.New(cfg.DoColumns, cfg.IgnoreColumns, cfg.DoColumnsRegex, cfg.IgnoreColumnsRegex),
		keepDDL:     cfg.DoDDLs == "" || parseBool(cfg.DoDDLs),
		keepDCL:     cfg.DoDCLs == "" || parseBool(cfg.DoDCLs),
		content:     content,
	}
	if cfg.DoEvents != "" {
		e.doEvents = make(map[types.RowType]struct{})
		for _, tok := range splitCSV(cfg.DoEvents) {
			if tok == types.EventAny {
				e.doEvents = nil
				break
			}
			rt, ok := types.ParseRowType(tok)
			if !ok {
				return nil, fmt.Errorf("filter: unknown event name %q in do_events", tok)
			}
			e.doEvents[rt] = struct{}{}
		}
	}
	if cfg.IgnoreCommands != "" {
		e.ignoreCommands = make(map[string]struct{})
		for _, tok := range splitCSV(cfg.IgnoreCommands) {
			e.ignoreCommands[tok] = struct{}{}
		}
	}
	return e, nil
}

// KeepSchema reports whether schema passes the schema-level do/ignore rules.
func (e *Engine) KeepSchema(schema string) bool { return e.schemaMatch.Match(schema) }

// KeepTable reports whether schema.table passes the schema- and
// table-level do/ignore rules. Table-level do/ignore rules may be written
// against either the bare table name or the schema-qualified "schema.table"
// form (§4.3/§6.1), so both are offered to the matcher.
func (e *Engine) KeepTable(schema, table string) bool {
	return e.schemaMatch.Match(schema) && e.tableMatch.Match(schema+"."+table, table)
}

// KeepEvent reports whether rt is in the configured do_events set.
func (e *Engine) KeepEvent(rt types.RowType) bool {
	if e.doEvents == nil {
		return true
	}
	_, ok := e.doEvents[rt]
	return ok
}

// KeepColumn reports whether schema.table.column passes the column-level
// do/ignore rules. Column-level do/ignore rules may be written against the
// fully-qualified "schema.table.column" form, the "table.column" form, or
// the bare column name (§4.3/§6.1), so all three are offered to the matcher.
func (e *Engine) KeepColumn(schema, table, column string) bool {
	return e.columnMatch.Match(schema+"."+table+"."+column, table+"."+column, column)
}

// FilterColumns returns a copy of cols with every column KeepColumn rejects
// removed, implementing §4.5's column pruning.
func (e *Engine) FilterColumns(schema, table string, cols map[string]types.ColValue) map[string]types.ColValue {
	if cols == nil {
		return nil
	}
	out := make(map[string]types.ColValue, len(cols))
	for k, v := range cols {
		if e.KeepColumn(schema, table, k) {
			out[k] = v
		}
	}
	return out
}

// KeepContent evaluates the content filter configured for schema.table
// against cols. A table with no content filter configured passes.
func (e *Engine) KeepContent(schema, table string, cols map[string]types.ColValue) bool {
	tf, ok := e.content.Lookup(schema, table)
	if !ok {
		return true
	}
	return tf.Matches(cols)
}

// Decide applies the full §4.5 decision chain to rec, returning the
// (possibly column-pruned) record to keep and true, or an undefined record
// and false when rec should be dropped.
func (e *Engine) Decide(rec types.Record) (types.Record, bool) {
	switch rec.Kind {
	case types.KindDML:
		row := rec.Row
		if row == nil || !e.KeepTable(row.Schema, row.Table) {
			return rec, false
		}
		if !e.KeepEvent(row.RowType) {
			return rec, false
		}
		cols := rec.ColValues()
		if !e.KeepContent(row.Schema, row.Table, cols) {
			return rec, false
		}
		clone := row.Clone()
		clone.Before = e.FilterColumns(row.Schema, row.Table, clone.Before)
		clone.After = e.FilterColumns(row.Schema, row.Table, clone.After)
		return types.NewDMLRecord(clone), true

	case types.KindDDL:
		if !e.keepDDL {
			return rec, false
		}
		if rec.Ddl != nil {
			if rec.Ddl.Table == "" {
				if !e.KeepSchema(rec.Ddl.Schema) {
					return rec, false
				}
			} else if !e.KeepTable(rec.Ddl.Schema, rec.Ddl.Table) {
				return rec, false
			}
			if e.ignoreCommands != nil {
				if _, dropped := e.ignoreCommands[rec.Ddl.Statement]; dropped {
					return rec, false
				}
			}
		}
		return rec, true

	case types.KindStruct:
		if rec.Struct != nil {
			if rec.Struct.Table == "" {
				if !e.KeepSchema(rec.Struct.Schema) {
					return rec, false
				}
			} else if !e.KeepTable(rec.Struct.Schema, rec.Struct.Table) {
				return rec, false
			}
		}
		return rec, true

	default:
		return rec, true
	}
}

func trimJSONPrefix(s string) string {
	const prefix = "json:"
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}

func parseBool(s string) bool {
	return s == "1" || s == "true" || s == "yes"
}

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
