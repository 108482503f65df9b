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

// Package exprstage is a chain.Stage that decides whether to keep a DML
// record by evaluating a compiled expr-lang boolean expression against its
// schema, table, event type and column values (§4.9 expansion component).
// This is the same compile-once-evaluate-many shape the teacher's
// ExprFilterNode uses for rule-chain predicates, generalised from a single
// rule message to a DML record.
package exprstage

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ljluestc/ape-dts/types"
)

// Stage evaluates a compiled expr-lang program against each DML record's
// projected environment. Non-DML records always pass through.
type Stage struct {
	script  string
	program *vm.Program
}

// New compiles script once, exactly as the teacher's ExprFilterNode does in
// Init. AllowUndefinedVariables lets a script reference a column that isn't
// present on every row without failing compilation; AsBool enforces the
// script evaluates to a boolean.
func New(script string) (*Stage, error) {
	program, err := expr.Compile(script, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("exprstage: compile: %w", err)
	}
	return &Stage{script: script, program: program}, nil
}

func (s *Stage) Name() string { return "expr_filter" }

// Process runs the compiled program against rec's environment. A DML
// record is kept iff the script evaluates to true; a script runtime error
// is a tier-2 degradation (§7) and drops the record rather than panicking
// the chain.
func (s *Stage) Process(rec types.Record) (types.Record, bool) {
	if rec.Kind != types.KindDML || rec.Row == nil {
		return rec, true
	}
	env := buildEnv(*rec.Row)
	out, err := expr.Run(s.program, env)
	if err != nil {
		return rec, false
	}
	keep, ok := out.(bool)
	return rec, ok && keep
}

func buildEnv(row types.RowData) map[string]any {
	env := map[string]any{
		"schema":   row.Schema,
		"table":    row.Table,
		"row_type": row.RowType.String(),
		"before":   colMapToAny(row.Before),
		"after":    colMapToAny(row.After),
	}
	return env
}

func colMapToAny(cols map[string]types.ColValue) map[string]any {
	if cols == nil {
		return nil
	}
	out := make(map[string]any, len(cols))
	for k, v := range cols {
		if text, ok := v.ToText(); ok {
			out[k] = text
		} else {
			out[k] = nil
		}
	}
	return out
}
