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

// Package namematch implements the five-step precedence a schema, table or
// column name is run through to decide inclusion (§4.3): do-regex, then
// ignore-regex, then ignore-list, then do-list, then a default. An absent
// rule (empty string, or a regex that failed to compile) is skipped rather
// than treated as a match.
package namematch

import "regexp"

// Matcher holds one name's compiled do/ignore rule set. The zero value
// matches everything (every rule absent, default true).
type Matcher struct {
	doRegex     *regexp.Regexp
	ignoreRegex *regexp.Regexp
	ignoreList  map[string]struct{}
	doList      map[string]struct{}
}

// New compiles a Matcher from the four raw configuration fields. doList and
// ignoreList are comma-separated name lists; doRegexPattern and
// ignoreRegexPattern are regular expressions. A malformed regex is treated
// as absent (§4.3/§9) rather than returned as a construction error, since
// the teacher's filter configuration has no per-field error channel and the
// degraded behaviour (rule skipped) is itself well defined.
func New(doList, ignoreList, doRegexPattern, ignoreRegexPattern string) Matcher {
	m := Matcher{
		doList:     toSet(doList),
		ignoreList: toSet(ignoreList),
	}
	if re, err := regexp.Compile(doRegexPattern); err == nil && doRegexPattern != "" {
		m.doRegex = re
	}
	if re, err := regexp.Compile(ignoreRegexPattern); err == nil && ignoreRegexPattern != "" {
		m.ignoreRegex = re
	}
	return m
}

// Match decides whether a name is kept, applying the five steps in order and
// returning on the first rule that is present and decisive. names carries
// every compound form a caller's do/ignore rules may be written against —
// e.g. for a table, both "schema.table" and the bare "table"; for a column,
// "schema.table.column", "table.column" and the bare "column" (§4.3/§6.1) —
// and a rule fires if it fires for ANY of them:
//
//  1. do-regex present and none of names match it        -> excluded
//  2. ignore-regex present and any of names match it      -> excluded
//  3. ignore-list present and any of names is in it        -> excluded
//  4. do-list present                                       -> included iff any of names is in it
//  5. no rule fired                                         -> included
func (m Matcher) Match(names ...string) bool {
	if m.doRegex != nil {
		matched := false
		for _, n := range names {
			if m.doRegex.MatchString(n) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if m.ignoreRegex != nil {
		for _, n := range names {
			if m.ignoreRegex.MatchString(n) {
				return false
			}
		}
	}
	if m.ignoreList != nil {
		for _, n := range names {
			if _, excluded := m.ignoreList[n]; excluded {
				return false
			}
		}
	}
	if m.doList != nil {
		for _, n := range names {
			if _, included := m.doList[n]; included {
				return true
			}
		}
		return false
	}
	return true
}

// HasDoList reports whether a do-list rule was configured, distinguishing
// "no do list given" (step 4 skipped) from "do list given" (step 4 decides).
func (m Matcher) HasDoList() bool { return m.doList != nil }

func toSet(csv string) map[string]struct{} {
	if csv == "" {
		return nil
	}
	out := make(map[string]struct{})
	start := 0
	for i := 0; i <= len(csv); i++ {
		if i == len(csv) || csv[i] == ',' {
			if i > start {
				out[csv[start:i]] = struct{}{}
			}
			start = i + 1
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
