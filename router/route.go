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

package router

import "github.com/ljluestc/ape-dts/types"

// Router combines a StaticRouter with an optional ContentRouter, the unit
// the processor chain drives (§4.7). Content routing takes priority over
// the static table map; when a content route fires, column routing still
// looks the rename up by the record's *original* schema/table, never the
// content-routed destination (§4.6/§4.7).
type Router struct {
	Static  *StaticRouter
	Content *ContentRouter
}

// New builds a Router from a RawConfig, compiling both the static maps and
// the content_routes document.
func New(cfg RawConfig) (*Router, error) {
	static, err := NewStaticRouter(cfg)
	if err != nil {
		return nil, err
	}
	content, err := ParseContentRoutes(cfg.ContentRoutes)
	if err != nil {
		return nil, err
	}
	return &Router{Static: static, Content: content}, nil
}

// RouteDML rewrites row, trying a content route first and falling back to
// the static schema/table map. Column routing always uses row's original
// (schema, table) as the lookup key (§4.7).
func (r *Router) RouteDML(row types.RowData) types.RowData {
	srcSchema, srcTable := row.Schema, row.Table
	cols := row.After
	if cols == nil {
		cols = row.Before
	}

	out := row.Clone()
	if route, _, ok := r.matchContent(srcSchema, srcTable, cols); ok {
		out.Schema, out.Table = route.TargetSchema, route.TargetTable
	} else {
		out.Schema, out.Table = r.Static.MapTable(srcSchema, srcTable)
	}
	out.Before = r.Static.MapColumns(srcSchema, srcTable, out.Before)
	out.After = r.Static.MapColumns(srcSchema, srcTable, out.After)
	return out
}

// TopicFor resolves the destination topic for a record whose original
// identity is (schema, table) and whose column values are cols: a content
// route's target topic takes priority, falling back to the static
// topic_map's fallback chain (§4.6/§4.7).
func (r *Router) TopicFor(schema, table string, cols map[string]types.ColValue) (string, bool) {
	if route, _, ok := r.matchContent(schema, table, cols); ok && route.TargetTopic != "" {
		return route.TargetTopic, true
	}
	return r.Static.TopicFor(schema, table)
}

func (r *Router) matchContent(schema, table string, cols map[string]types.ColValue) (RouteRule, bool, bool) {
	if r.Content == nil {
		return RouteRule{}, false, false
	}
	cr, ok := r.Content.Lookup(schema, table)
	if !ok {
		return RouteRule{}, false, false
	}
	rule, matched := cr.FindRoute(cols)
	return rule, matched, matched
}

// RouteDDL and RouteStruct delegate to the static router; content routing
// only applies to DML rows (§4.7 — content_routes conditions read column
// values, which DDL/Struct records don't carry).
func (r *Router) RouteDDL(ddl types.DdlData) types.DdlData       { return r.Static.RouteDDL(ddl) }
func (r *Router) RouteStruct(s types.StructData) types.StructData { return r.Static.RouteStruct(s) }
