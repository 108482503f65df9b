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

import (
	"encoding/json"
	"fmt"

	"github.com/ljluestc/ape-dts/identparse"
)

// RawConfig is the string-keyed router configuration (§6.1). schema_map,
// table_map and topic_map are dialect-escaped, delimiter-separated mapping
// strings in the style of the original router's parse_config; column_map
// and content_routes are JSON documents, which need no escaping convention
// of their own.
type RawConfig struct {
	Dialect Dialect

	// SchemaMap is "src:dst,src:dst,...".
	SchemaMap string
	// TableMap is "src_schema.src_table:dst_schema.dst_table,...".
	TableMap string
	// TopicMap is "schema.table:topic,...". A schema/table of "*" is the
	// wildcard fallback entry (§4.6).
	TopicMap string

	// ColumnMap is a JSON array: [{"db":"s","tb":"t","col_map":{"old":"new"}}]
	// (§6.1/§6.2).
	ColumnMap string

	// ContentRoutes is a JSON array of per-table content routing rules
	// (§4.7); see rawContentRoute.
	ContentRoutes string
}

type rawColumnMapEntry struct {
	DB     string            `json:"db"`
	TB     string            `json:"tb"`
	ColMap map[string]string `json:"col_map"`
}

// NewStaticRouter compiles cfg's schema_map, table_map, column_map and
// topic_map into a StaticRouter, pre-parsing every mapping string once
// (§5, §9's two-phase construction pattern).
func NewStaticRouter(cfg RawConfig) (*StaticRouter, error) {
	esc := cfg.Dialect.escape()
	b := NewBuilder()

	schemaTokens, err := identparse.ParseArity(cfg.SchemaMap, ",:", esc, 2)
	if err != nil {
		return nil, fmt.Errorf("router: schema_map: %w", err)
	}
	for i := 0; i < len(schemaTokens); i += 2 {
		b.Schema(schemaTokens[i], schemaTokens[i+1])
	}

	tableTokens, err := identparse.ParseArity(cfg.TableMap, ".,:", esc, 4)
	if err != nil {
		return nil, fmt.Errorf("router: table_map: %w", err)
	}
	for i := 0; i < len(tableTokens); i += 4 {
		b.Table(tableTokens[i], tableTokens[i+1], tableTokens[i+2], tableTokens[i+3])
	}

	topicTokens, err := identparse.ParseArity(cfg.TopicMap, ".,:", esc, 3)
	if err != nil {
		return nil, fmt.Errorf("router: topic_map: %w", err)
	}
	hasWildcardDefault := false
	for i := 0; i < len(topicTokens); i += 3 {
		schema, table := topicTokens[i], topicTokens[i+1]
		b.Topic(schema, table, topicTokens[i+2])
		if schema == "*" && table == "*" {
			hasWildcardDefault = true
		}
	}
	if len(topicTokens) > 0 && !hasWildcardDefault {
		return nil, fmt.Errorf("router: topic_map: missing mandatory \"*.*\" default entry")
	}

	if cfg.ColumnMap != "" {
		var entries []rawColumnMapEntry
		if err := json.Unmarshal([]byte(cfg.ColumnMap), &entries); err != nil {
			return nil, fmt.Errorf("router: column_map: invalid json: %w", err)
		}
		for _, e := range entries {
			for from, to := range e.ColMap {
				b.Column(e.DB, e.TB, from, to)
			}
		}
	}

	return b.Build(), nil
}
