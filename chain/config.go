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

import "github.com/ljluestc/ape-dts/types"

// Config mirrors the teacher's functional-options configuration shape
// (types.Config / types.NewConfig): a small struct of ambient dependencies
// every Chain needs, assembled through Option values rather than a long
// constructor argument list.
type Config struct {
	Logger  types.Logger
	metrics *Metrics
}

// Option mutates a Config during New.
type Option func(*Config)

// WithLogger overrides the Chain's logger; the default is types.NopLogger().
func WithLogger(l types.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithMetrics registers m (typically NewMetrics(), which self-registers
// with the default Prometheus registry) so every stage's outcome and
// latency are observed.
func WithMetrics(m *Metrics) Option {
	return func(c *Config) { c.metrics = m }
}
