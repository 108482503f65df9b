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

// Package router rewrites a record's schema, table, column and topic
// identifiers according to a static mapping and, where configured, an
// overriding content-based routing table (§4.6/§4.7).
package router

import (
	"github.com/ljluestc/ape-dts/identparse"
	"github.com/ljluestc/ape-dts/types"
)

// Dialect selects the identifier-quoting convention a RawConfig's mapping
// strings are parsed with (§6.1).
type Dialect int

const (
	MySQL Dialect = iota
	Postgres
)

func (d Dialect) escape() identparse.EscapePair {
	if d == Postgres {
		return identparse.PGEscape
	}
	return identparse.MySQLEscape
}

type schemaTable struct{ schema, table string }

// StaticRouter holds the four immutable identifier maps a RawConfig
// compiles to: schema, table, column and topic (§4.6).
type StaticRouter struct {
	schemaMap map[string]string
	tableMap  map[schemaTable]schemaTable
	colMap    map[schemaTable]map[string]string
	topicMap  map[schemaTable]string
}

// MapSchema returns the destination schema for schema, or schema unchanged
// if no entry exists.
func (r *StaticRouter) MapSchema(schema string) string {
	if dst, ok := r.schemaMap[schema]; ok {
		return dst
	}
	return schema
}

// MapTable returns the destination (schema, table) for (schema, table), or
// the input unchanged if no entry exists. The table map takes precedence
// over a bare schema rename, matching the original router's "tb_map wins"
// behaviour.
func (r *StaticRouter) MapTable(schema, table string) (string, string) {
	if dst, ok := r.tableMap[schemaTable{schema, table}]; ok {
		return dst.schema, dst.table
	}
	return r.MapSchema(schema), table
}

// MapColumns renames cols' keys using the column map configured for the
// *original* (schema, table) pair — column routing is always keyed by
// source identity, never by the post-route destination (§4.6).
func (r *StaticRouter) MapColumns(schema, table string, cols map[string]types.ColValue) map[string]types.ColValue {
	renames, ok := r.colMap[schemaTable{schema, table}]
	if !ok || cols == nil {
		return cols
	}
	out := make(map[string]types.ColValue, len(cols))
	for k, v := range cols {
		if dst, renamed := renames[k]; renamed {
			out[dst] = v
		} else {
			out[k] = v
		}
	}
	return out
}

// TopicFor resolves the destination topic for (schema, table), falling
// back from an exact match to (schema, "*") to ("*", "*") (§4.6).
func (r *StaticRouter) TopicFor(schema, table string) (string, bool) {
	if t, ok := r.topicMap[schemaTable{schema, table}]; ok {
		return t, true
	}
	if t, ok := r.topicMap[schemaTable{schema, "*"}]; ok {
		return t, true
	}
	if t, ok := r.topicMap[schemaTable{"*", "*"}]; ok {
		return t, true
	}
	return "", false
}

// RouteDML rewrites row's schema, table and (where the original identity
// has a column map entry) column names, returning a rewritten copy; row
// itself is left unchanged.
func (r *StaticRouter) RouteDML(row types.RowData) types.RowData {
	out := row.Clone()
	srcSchema, srcTable := row.Schema, row.Table
	out.Schema, out.Table = r.MapTable(srcSchema, srcTable)
	out.Before = r.MapColumns(srcSchema, srcTable, out.Before)
	out.After = r.MapColumns(srcSchema, srcTable, out.After)
	return out
}

// RouteDDL rewrites ddl's schema/table (and, for a rename statement, the
// rename-to schema/table as well, since a rename affects two identities)
// and its default_schema (§4.6 DDL handling).
func (r *StaticRouter) RouteDDL(ddl types.DdlData) types.DdlData {
	out := ddl
	out.Schema, out.Table = r.MapTable(ddl.Schema, ddl.Table)
	if ddl.IsRename {
		out.RenameToSchema, out.RenameToTable = r.MapTable(ddl.RenameToSchema, ddl.RenameToTable)
	}
	out.DefaultSchema = r.MapSchema(ddl.DefaultSchema)
	return out
}

// RouteStruct rewrites a structure statement's schema (and table, for
// CreateTable) through the same maps as RouteDML/RouteDDL.
func (r *StaticRouter) RouteStruct(s types.StructData) types.StructData {
	out := s
	if s.Kind == types.CreateTable {
		out.Schema, out.Table = r.MapTable(s.Schema, s.Table)
	} else {
		out.Schema = r.MapSchema(s.Schema)
	}
	return out
}

// Reverse returns a StaticRouter with schema_map and table_map inverted
// (destination identity maps back to source identity) and col_map re-keyed
// by destination identity with each inner rename inverted. topic_map and
// content_routes are never meaningfully invertible (many sources can share
// one topic) and are intentionally NOT carried into the reversed router,
// matching the original router's reverse() (§4.7).
func (r *StaticRouter) Reverse() *StaticRouter {
	rev := &StaticRouter{
		schemaMap: make(map[string]string, len(r.schemaMap)),
		tableMap:  make(map[schemaTable]schemaTable, len(r.tableMap)),
		colMap:    make(map[schemaTable]map[string]string, len(r.colMap)),
	}
	for src, dst := range r.schemaMap {
		rev.schemaMap[dst] = src
	}
	for src, dst := range r.tableMap {
		rev.tableMap[dst] = src
	}
	for src, renames := range r.colMap {
		dstSchema, dstTable := r.MapTable(src.schema, src.table)
		dst := schemaTable{dstSchema, dstTable}
		inv := make(map[string]string, len(renames))
		for from, to := range renames {
			inv[to] = from
		}
		rev.colMap[dst] = inv
	}
	return rev
}

// Builder assembles a StaticRouter's maps incrementally; NewStaticRouter
// parses a RawConfig through one, but callers constructing a router
// programmatically (tests, for instance) can use it directly.
type Builder struct {
	r *StaticRouter
}

func NewBuilder() *Builder {
	return &Builder{r: &StaticRouter{
		schemaMap: make(map[string]string),
		tableMap:  make(map[schemaTable]schemaTable),
		colMap:    make(map[schemaTable]map[string]string),
		topicMap:  make(map[schemaTable]string),
	}}
}

func (b *Builder) Schema(src, dst string) *Builder {
	b.r.schemaMap[src] = dst
	return b
}

func (b *Builder) Table(srcSchema, srcTable, dstSchema, dstTable string) *Builder {
	b.r.tableMap[schemaTable{srcSchema, srcTable}] = schemaTable{dstSchema, dstTable}
	return b
}

func (b *Builder) Column(schema, table, from, to string) *Builder {
	key := schemaTable{schema, table}
	if b.r.colMap[key] == nil {
		b.r.colMap[key] = make(map[string]string)
	}
	b.r.colMap[key][from] = to
	return b
}

func (b *Builder) Topic(schema, table, topic string) *Builder {
	b.r.topicMap[schemaTable{schema, table}] = topic
	return b
}

func (b *Builder) Build() *StaticRouter { return b.r }
