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

// Package contentfilter evaluates a table's content-filter rule set against
// a row's column values (§4.4). Rules are decoded once at construction time
// from the loosely-typed JSON configuration, mirroring the two-phase
// raw-config/compiled-engine split every component in this module follows.
package contentfilter

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/mitchellh/mapstructure"

	"github.com/ljluestc/ape-dts/predicate"
	"github.com/ljluestc/ape-dts/types"
)

// MatchMode combines a TableContentFilter's rules.
type MatchMode string

const (
	And MatchMode = "and"
	Or  MatchMode = "or"
)

// rawRule is the JSON shape of one content-filter rule, decoded via
// mapstructure the way the teacher's node configurations decode loosely
// typed maps into typed Go structs.
type rawRule struct {
	Column   string `mapstructure:"column"`
	Operator string `mapstructure:"operator"`
	Value    string `mapstructure:"value"`
}

// rawTableFilter is the JSON shape of one schema.table entry in the
// content_filters configuration field (§6.2: {db, tb, rules, match_mode}).
type rawTableFilter struct {
	DB        string    `mapstructure:"db"`
	TB        string    `mapstructure:"tb"`
	Rules     []rawRule `mapstructure:"rules"`
	MatchMode string    `mapstructure:"match_mode"`
}

// Rule is one compiled content-filter predicate: Operator compared against
// a named column's textual value.
type Rule struct {
	Column   string
	Operator predicate.Operator
	Value    string
	Regex    *regexp.Regexp // non-nil only for predicate.Regex
}

// TableFilter is the compiled rule set for one schema.table pair.
type TableFilter struct {
	Rules []Rule
	Mode  MatchMode
}

// Matches evaluates the rule set against cols, combining per §4.4's
// match_mode: And requires every rule to pass, Or requires at least one. A
// column absent from cols (including a null value, since ColValue.ToText
// reports ok=false for null) fails that individual rule without aborting
// evaluation of the others.
func (tf TableFilter) Matches(cols map[string]types.ColValue) bool {
	if len(tf.Rules) == 0 {
		return true
	}
	for _, r := range tf.Rules {
		v, ok := cols[r.Column]
		var text string
		if ok {
			text, ok = v.ToText()
		}
		var pass bool
		if ok {
			pass = predicate.Eval(r.Operator, text, r.Value, r.Regex)
		}
		switch tf.Mode {
		case Or:
			if pass {
				return true
			}
		default: // And
			if !pass {
				return false
			}
		}
	}
	return tf.Mode != Or
}

// Set is a compiled collection of per-table content filters, keyed
// "schema.table".
type Set map[string]TableFilter

// Lookup returns the TableFilter configured for schema.table, and false if
// no content filter was configured for that table — callers should treat
// that as "no content restriction" (§4.4).
func (s Set) Lookup(schema, table string) (TableFilter, bool) {
	tf, ok := s[schema+"."+table]
	return tf, ok
}

// Parse compiles the content_filters configuration field — a JSON array of
// per-table rule sets — into a Set. An empty string parses to an empty Set.
// A malformed JSON document, unknown operator, or uncompilable regex is
// returned as an error, since content_filters is validated once at
// construction time rather than degraded per record (§7 tier 1).
func Parse(raw string) (Set, error) {
	out := make(Set)
	if raw == "" {
		return out, nil
	}
	// Decode the outer JSON into loosely-typed maps first, then run each
	// entry through mapstructure so the mapstructure:"..." tags on
	// rawTableFilter/rawRule (in particular the snake_case "match_mode") are
	// actually honored — encoding/json alone ignores mapstructure tags and
	// ties field binding to Go's export-name matching instead.
	var loose []map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &loose); err != nil {
		return nil, fmt.Errorf("contentfilter: invalid content_filters json: %w", err)
	}
	for _, entry := range loose {
		var rt rawTableFilter
		if err := DecodeLoose(entry, &rt); err != nil {
			return nil, fmt.Errorf("contentfilter: decoding content_filters entry: %w", err)
		}
		tf := TableFilter{Mode: And}
		if MatchMode(rt.MatchMode) == Or {
			tf.Mode = Or
		}
		for _, rr := range rt.Rules {
			op, ok := predicate.ParseOperator(rr.Operator)
			if !ok {
				return nil, fmt.Errorf("contentfilter: unknown operator %q for column %q", rr.Operator, rr.Column)
			}
			rule := Rule{Column: rr.Column, Operator: op, Value: rr.Value}
			if op == predicate.Regex {
				re, err := regexp.Compile(rr.Value)
				if err != nil {
					return nil, fmt.Errorf("contentfilter: invalid regex for column %q: %w", rr.Column, err)
				}
				rule.Regex = re
			}
			tf.Rules = append(tf.Rules, rule)
		}
		out[rt.DB+"."+rt.TB] = tf
	}
	return out, nil
}

// DecodeLoose is a small mapstructure wrapper that Parse uses to decode each
// loosely-typed content_filters entry (a map[string]interface{}) into its
// typed struct.
func DecodeLoose(input interface{}, out interface{}) error {
	return mapstructure.Decode(input, out)
}
