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

// Package jsstage is a chain.Stage that decides whether to keep a DML
// record by calling a user-supplied JavaScript "filter(row)" function
// (§4.10 expansion component), mirroring the teacher's GojaJsEngine: a
// goja.Runtime is created and the script loaded once at construction, then
// the named function is invoked per record.
package jsstage

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/ljluestc/ape-dts/types"
)

const entryFunc = "filter"

// Stage runs a compiled JavaScript filter function against each DML
// record. A goja.Runtime is not safe for concurrent use, so a Stage owns
// exactly one and every chain.Process call on it must be serialised by the
// caller — see New's doc comment.
type Stage struct {
	vm *goja.Runtime
	fn goja.Callable
}

// New loads script into a fresh goja.Runtime and resolves its top-level
// "filter" function, the way the teacher's NewGojaJsEngine loads a rule
// chain's JS action script. Because a single goja.Runtime cannot be shared
// across goroutines, a pipeline that runs chain.Process concurrently
// should build one jsstage.Stage per worker rather than share one.
func New(script string) (*Stage, error) {
	vm := goja.New()
	if _, err := vm.RunString(script); err != nil {
		return nil, fmt.Errorf("jsstage: load script: %w", err)
	}
	val := vm.Get(entryFunc)
	fn, ok := goja.AssertFunction(val)
	if !ok {
		return nil, fmt.Errorf("jsstage: script does not define a %q function", entryFunc)
	}
	return &Stage{vm: vm, fn: fn}, nil
}

func (s *Stage) Name() string { return "js_filter" }

// Process calls filter(row) with row's schema/table/event/column values.
// A thrown exception is a tier-2 degradation (§7): the record is dropped
// rather than propagating the script error. A non-boolean return value is
// coerced with JavaScript's truthiness rules.
func (s *Stage) Process(rec types.Record) (types.Record, bool) {
	if rec.Kind != types.KindDML || rec.Row == nil {
		return rec, true
	}
	arg := s.vm.ToValue(rowToMap(*rec.Row))
	ret, err := s.fn(goja.Undefined(), arg)
	if err != nil {
		return rec, false
	}
	return rec, ret.ToBoolean()
}

func rowToMap(row types.RowData) map[string]any {
	return map[string]any{
		"schema":   row.Schema,
		"table":    row.Table,
		"row_type": row.RowType.String(),
		"before":   colMapToAny(row.Before),
		"after":    colMapToAny(row.After),
	}
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
