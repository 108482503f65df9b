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

package chain

import (
	"github.com/ljluestc/ape-dts/filter"
	"github.com/ljluestc/ape-dts/types"
)

// FilterStage wraps a filter.Engine as a Stage. Placing it before
// RouterStage is recommended (§4.8) so routing never runs on a record
// that's about to be dropped anyway.
type FilterStage struct {
	engine *filter.Engine
}

func NewFilterStage(engine *filter.Engine) *FilterStage {
	return &FilterStage{engine: engine}
}

func (s *FilterStage) Name() string { return "filter" }

func (s *FilterStage) Process(rec types.Record) (types.Record, bool) {
	return s.engine.Decide(rec)
}
