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

// Package predicate evaluates one typed comparison between a column's
// textual projection and a literal (§4.2). Comparisons are deliberately
// string-ordered even for numeric-looking operands — see §9's open
// question — because ColValue's textual projection carries no type
// information past this point.
package predicate

import (
	"regexp"
	"strings"
)

// Operator is the closed set of comparison kinds §4.2 defines.
type Operator string

const (
	Eq       Operator = "eq"
	Ne       Operator = "ne"
	Gt       Operator = "gt"
	Gte      Operator = "gte"
	Lt       Operator = "lt"
	Lte      Operator = "lte"
	Contains Operator = "contains"
	Regex    Operator = "regex"
	In       Operator = "in"
	NotIn    Operator = "not_in"
)

// ParseOperator maps a configuration string to an Operator. It accepts both
// "not_in" and the JSON-schema spelling "notin" (§6.2). ok is false for an
// unrecognised operator, which §7 treats as a construction-time error.
func ParseOperator(s string) (Operator, bool) {
	switch s {
	case string(Eq):
		return Eq, true
	case string(Ne):
		return Ne, true
	case string(Gt):
		return Gt, true
	case string(Gte):
		return Gte, true
	case string(Lt):
		return Lt, true
	case string(Lte):
		return Lte, true
	case string(Contains):
		return Contains, true
	case string(Regex):
		return Regex, true
	case string(In):
		return In, true
	case "not_in", "notin":
		return NotIn, true
	default:
		return "", false
	}
}

// Eval evaluates op against columnText (the column's textual projection)
// and literal (the configured comparison operand). A compiled regex may be
// supplied for the Regex operator to honour §5's amortised-compilation
// mandate; when nil, Eval compiles (and discards) the pattern itself, and a
// compile failure evaluates to false per §4.2/§7 tier 2.
func Eval(op Operator, columnText, literal string, compiledRegex *regexp.Regexp) bool {
	switch op {
	case Eq:
		return columnText == literal
	case Ne:
		return columnText != literal
	case Gt:
		return columnText > literal
	case Gte:
		return columnText >= literal
	case Lt:
		return columnText < literal
	case Lte:
		return columnText <= literal
	case Contains:
		return strings.Contains(columnText, literal)
	case Regex:
		re := compiledRegex
		if re == nil {
			var err error
			re, err = regexp.Compile(literal)
			if err != nil {
				return false
			}
		}
		return re.MatchString(columnText)
	case In:
		return memberOf(columnText, literal)
	case NotIn:
		return !memberOf(columnText, literal)
	default:
		return false
	}
}

func memberOf(value, commaList string) bool {
	for _, item := range strings.Split(commaList, ",") {
		if strings.TrimSpace(item) == value {
			return true
		}
	}
	return false
}

// CompileRegex compiles pattern, returning (nil, nil) for an empty pattern
// ("rule absent", §4.3) and (nil, err) for a malformed one — callers that
// must treat a malformed regex as "rule absent" per §4.3/§9 should ignore a
// non-nil err and proceed as if the pattern were empty.
func CompileRegex(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}
