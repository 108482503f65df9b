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
	"regexp"
	"sort"

	"github.com/ljluestc/ape-dts/predicate"
	"github.com/ljluestc/ape-dts/types"
)

// ConditionKind discriminates a RouteCondition.
type ConditionKind int

const (
	SimpleCondition ConditionKind = iota
	CompositeCondition
)

// SimpleComparison is one column/operator/value comparison, used both
// standalone (ConditionKind Simple) and inside a CompositeCondition.
type SimpleComparison struct {
	Column   string
	Operator predicate.Operator
	Value    string
	Regex    *regexp.Regexp
}

func (c SimpleComparison) eval(cols map[string]types.ColValue) bool {
	v, ok := cols[c.Column]
	if !ok {
		return false
	}
	text, ok := v.ToText()
	if !ok {
		return false
	}
	return predicate.Eval(c.Operator, text, c.Value, c.Regex)
}

// MatchMode combines a CompositeCondition's comparisons, reusing the same
// two values contentfilter.MatchMode defines.
type MatchMode string

const (
	And MatchMode = "and"
	Or  MatchMode = "or"
)

// RouteCondition is a route rule's trigger: either one comparison or a
// combined set of them (§4.7).
type RouteCondition struct {
	Kind       ConditionKind
	Simple     SimpleComparison
	Conditions []SimpleComparison
	Mode       MatchMode
}

func (c RouteCondition) Evaluate(cols map[string]types.ColValue) bool {
	if c.Kind == SimpleCondition {
		return c.Simple.eval(cols)
	}
	if len(c.Conditions) == 0 {
		return true
	}
	for _, sc := range c.Conditions {
		pass := sc.eval(cols)
		if c.Mode == Or {
			if pass {
				return true
			}
		} else if !pass {
			return false
		}
	}
	return c.Mode != Or
}

// RouteRule is one candidate route for a table's content router: if
// Condition matches, the record is sent to (TargetSchema, TargetTable) /
// TargetTopic. Priority breaks ties when more than one rule matches;
// declaration order breaks ties between equal priorities (§4.7).
type RouteRule struct {
	Condition   RouteCondition
	TargetSchema string
	TargetTable  string
	TargetTopic  string
	Priority     int
	order        int
}

// DefaultRoute is the fallback target when no RouteRule matches.
type DefaultRoute struct {
	Schema string
	Table  string
	Topic  string
}

// ContentRoute is one table's full content-routing configuration.
type ContentRoute struct {
	Rules   []RouteRule
	Default *DefaultRoute
}

// FindRoute evaluates rules in descending-priority order (ties broken by
// declaration order) and returns the first whose condition matches cols,
// else the configured default, else (zero, false).
func (cr ContentRoute) FindRoute(cols map[string]types.ColValue) (RouteRule, bool) {
	rules := make([]RouteRule, len(cr.Rules))
	copy(rules, cr.Rules)
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].order < rules[j].order
	})
	for _, r := range rules {
		if r.Condition.Evaluate(cols) {
			return r, true
		}
	}
	if cr.Default != nil {
		return RouteRule{TargetSchema: cr.Default.Schema, TargetTable: cr.Default.Table, TargetTopic: cr.Default.Topic}, true
	}
	return RouteRule{}, false
}

// ContentRouter holds the compiled content_routes configuration, keyed by
// source (schema, table).
type ContentRouter struct {
	routes map[schemaTable]ContentRoute
}

// Lookup returns the ContentRoute configured for (schema, table).
func (cr *ContentRouter) Lookup(schema, table string) (ContentRoute, bool) {
	if cr == nil {
		return ContentRoute{}, false
	}
	r, ok := cr.routes[schemaTable{schema, table}]
	return r, ok
}

type rawSimple struct {
	Column   string `json:"column"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

type rawCondition struct {
	// Simple form.
	rawSimple
	// Composite form.
	Conditions []rawSimple `json:"conditions"`
	MatchMode  string      `json:"match_mode"`
}

// rawRule is the JSON shape of one content route rule (§6.2:
// {priority?, target_db, target_tb, target_topic?, ...condition}). The
// condition is read from a nested "condition" object when one is given,
// else from the condition fields written inline on the rule itself.
type rawRule struct {
	Condition rawCondition `json:"condition"`
	rawCondition
	TargetDB    string       `json:"target_db"`
	TargetTB    string       `json:"target_tb"`
	TargetTopic string       `json:"target_topic"`
	Priority    int          `json:"priority"`
}

// rawDefault is the JSON shape of a content route's default_route
// (§6.2: {target_db, target_tb, target_topic?}).
type rawDefault struct {
	TargetDB    string `json:"target_db"`
	TargetTB    string `json:"target_tb"`
	TargetTopic string `json:"target_topic"`
}

// rawContentRoute is the JSON shape of one content_routes entry
// (§6.2: {db, tb, routes, default_route?}).
type rawContentRoute struct {
	DB      string      `json:"db"`
	TB      string      `json:"tb"`
	Routes  []rawRule   `json:"routes"`
	Default *rawDefault `json:"default_route"`
}

func compileSimple(rs rawSimple) (SimpleComparison, error) {
	op, ok := predicate.ParseOperator(rs.Operator)
	if !ok {
		return SimpleComparison{}, fmt.Errorf("router: unknown operator %q for column %q", rs.Operator, rs.Column)
	}
	sc := SimpleComparison{Column: rs.Column, Operator: op, Value: rs.Value}
	if op == predicate.Regex {
		re, err := regexp.Compile(rs.Value)
		if err != nil {
			return SimpleComparison{}, fmt.Errorf("router: invalid regex for column %q: %w", rs.Column, err)
		}
		sc.Regex = re
	}
	return sc, nil
}

func compileCondition(rc rawCondition) (RouteCondition, error) {
	if len(rc.Conditions) > 0 {
		cond := RouteCondition{Kind: CompositeCondition, Mode: And}
		if MatchMode(rc.MatchMode) == Or {
			cond.Mode = Or
		}
		for _, rs := range rc.Conditions {
			sc, err := compileSimple(rs)
			if err != nil {
				return RouteCondition{}, err
			}
			cond.Conditions = append(cond.Conditions, sc)
		}
		return cond, nil
	}
	sc, err := compileSimple(rc.rawSimple)
	if err != nil {
		return RouteCondition{}, err
	}
	return RouteCondition{Kind: SimpleCondition, Simple: sc}, nil
}

// ParseContentRoutes compiles the content_routes JSON document into a
// ContentRouter. An empty string yields a router with no routes configured
// (every Lookup misses).
func ParseContentRoutes(raw string) (*ContentRouter, error) {
	cr := &ContentRouter{routes: make(map[schemaTable]ContentRoute)}
	if raw == "" {
		return cr, nil
	}
	var entries []rawContentRoute
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("router: content_routes: invalid json: %w", err)
	}
	for _, e := range entries {
		route := ContentRoute{}
		for i, rr := range e.Routes {
			rc := rr.Condition
			if rc.Column == "" && len(rc.Conditions) == 0 {
				rc = rr.rawCondition
			}
			cond, err := compileCondition(rc)
			if err != nil {
				return nil, err
			}
			route.Rules = append(route.Rules, RouteRule{
				Condition:    cond,
				TargetSchema: rr.TargetDB,
				TargetTable:  rr.TargetTB,
				TargetTopic:  rr.TargetTopic,
				Priority:     rr.Priority,
				order:        i,
			})
		}
		if e.Default != nil {
			route.Default = &DefaultRoute{Schema: e.Default.TargetDB, Table: e.Default.TargetTB, Topic: e.Default.TargetTopic}
		}
		cr.routes[schemaTable{e.DB, e.TB}] = route
	}
	return cr, nil
}
