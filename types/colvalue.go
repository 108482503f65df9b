/*
 * Copyright 2023 The RuleGo Authors.
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

// Package types defines the record and value data model shared by every
// stage of the stream transformation core: the tagged Record variant, the
// RowData/DdlData/StructData payloads it carries, and the ColValue sum
// type used to project column values to text for predicate evaluation.
package types

import (
	"fmt"
	"strconv"
)

// Kind is the discriminant of a ColValue.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBytes
	KindBool
)

// ColValue is a sum type over the scalar SQL value kinds an extractor can
// produce. It exposes a lossless textual projection via ToText, used only
// by predicate evaluation (§4.2/§4.4); every other consumer should match on
// Kind directly.
type ColValue struct {
	kind  Kind
	i     int64
	f     float64
	s     string
	b     []byte
	boolV bool
}

func NullValue() ColValue            { return ColValue{kind: KindNull} }
func IntValue(v int64) ColValue      { return ColValue{kind: KindInt, i: v} }
func FloatValue(v float64) ColValue  { return ColValue{kind: KindFloat, f: v} }
func TextValue(v string) ColValue    { return ColValue{kind: KindText, s: v} }
func BytesValue(v []byte) ColValue   { return ColValue{kind: KindBytes, b: v} }
func BoolValue(v bool) ColValue      { return ColValue{kind: KindBool, boolV: v} }

func (c ColValue) Kind() Kind { return c.kind }
func (c ColValue) IsNull() bool { return c.kind == KindNull }

// ToText returns the lossless textual projection of the value, and false
// if the value is null. A null column is treated by predicate/content
// evaluation as "absent" — see §4.2.
func (c ColValue) ToText() (string, bool) {
	switch c.kind {
	case KindNull:
		return "", false
	case KindInt:
		return strconv.FormatInt(c.i, 10), true
	case KindFloat:
		return strconv.FormatFloat(c.f, 'g', -1, 64), true
	case KindText:
		return c.s, true
	case KindBytes:
		return string(c.b), true
	case KindBool:
		return strconv.FormatBool(c.boolV), true
	default:
		return "", false
	}
}

func (c ColValue) String() string {
	text, ok := c.ToText()
	if !ok {
		return "<null>"
	}
	return text
}

func (c ColValue) GoString() string {
	return fmt.Sprintf("ColValue{kind:%d, text:%q}", c.kind, c.String())
}
