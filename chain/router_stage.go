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
	"github.com/ljluestc/ape-dts/router"
	"github.com/ljluestc/ape-dts/types"
)

// RouterStage wraps a router.Router as a Stage. It never drops a record —
// routing only rewrites identifiers (§4.7) — so Process always returns
// true.
type RouterStage struct {
	router *router.Router
}

func NewRouterStage(r *router.Router) *RouterStage {
	return &RouterStage{router: r}
}

func (s *RouterStage) Name() string { return "router" }

func (s *RouterStage) Process(rec types.Record) (types.Record, bool) {
	switch rec.Kind {
	case types.KindDML:
		if rec.Row == nil {
			return rec, true
		}
		routed := s.router.RouteDML(*rec.Row)
		return types.NewDMLRecord(routed), true
	case types.KindDDL:
		if rec.Ddl == nil {
			return rec, true
		}
		routed := s.router.RouteDDL(*rec.Ddl)
		return types.NewDDLRecord(routed), true
	case types.KindStruct:
		if rec.Struct == nil {
			return rec, true
		}
		routed := s.router.RouteStruct(*rec.Struct)
		return types.NewStructRecord(routed), true
	default:
		return rec, true
	}
}
