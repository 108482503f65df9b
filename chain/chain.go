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

// Package chain folds an ordered list of Stages over a record (§4.8): each
// stage either transforms the record and passes it on, or drops it,
// short-circuiting the remaining stages. A Chain is built once and is safe
// for concurrent use by many goroutines processing independent records
// (§5) — stages themselves must hold no per-record mutable state.
package chain

import (
	"time"

	"github.com/ljluestc/ape-dts/types"
)

// Stage transforms or drops one record. Process returns the (possibly
// modified) record and true to continue the chain, or false to drop it.
type Stage interface {
	Name() string
	Process(rec types.Record) (types.Record, bool)
}

// Chain is an ordered, immutable list of Stages.
type Chain struct {
	stages  []Stage
	cfg     Config
	metrics *Metrics
}

// New builds a Chain running stages in order, applying the supplied
// options (logger, metrics registration).
func New(stages []Stage, opts ...Option) *Chain {
	cfg := Config{Logger: types.NopLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Chain{stages: stages, cfg: cfg, metrics: cfg.metrics}
}

// Len returns the number of stages in the chain.
func (c *Chain) Len() int { return len(c.stages) }

// StageNames returns the configured stage names in execution order.
func (c *Chain) StageNames() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.Name()
	}
	return names
}

// Process folds every stage over rec in order (§4.8's fold-with-
// short-circuit semantics): the first stage to return false stops the
// chain and Process reports false. A record that survives every stage is
// returned with true.
func (c *Chain) Process(rec types.Record) (types.Record, bool) {
	corrID := newCorrelationID()
	cur := rec
	for _, s := range c.stages {
		start := time.Now()
		next, keep := s.Process(cur)
		if c.metrics != nil {
			c.metrics.observe(s.Name(), keep, time.Since(start))
		}
		if !keep {
			c.cfg.Logger.Debugf("chain[%s]: stage %s dropped record", corrID, s.Name())
			return rec, false
		}
		cur = next
	}
	return cur, true
}

// ProcessBatch applies Process to every record in recs, returning only the
// ones that survived the whole chain, in order (§4.8).
func (c *Chain) ProcessBatch(recs []types.Record) []types.Record {
	out := make([]types.Record, 0, len(recs))
	for _, rec := range recs {
		if kept, ok := c.Process(rec); ok {
			out = append(out, kept)
		}
	}
	return out
}
