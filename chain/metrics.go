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
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the Prometheus instrumentation a Chain reports stage outcomes
// and latency through, mirroring the teacher's engine.enginRequestsTotal /
// enginRequestDuration pair.
type Metrics struct {
	recordsTotal   *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
}

// NewMetrics builds a fresh, independently-registerable Metrics. Callers
// that want the default global registry should pass reg = nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		recordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dts",
				Subsystem: "chain",
				Name:      "records_total",
				Help:      "Records processed per stage, labeled by outcome (kept/dropped).",
			},
			[]string{"stage", "outcome"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dts",
				Subsystem: "chain",
				Name:      "stage_duration_seconds",
				Help:      "Per-stage processing latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.recordsTotal, m.stageDuration)
	return m
}

func (m *Metrics) observe(stage string, kept bool, d time.Duration) {
	outcome := "dropped"
	if kept {
		outcome = "kept"
	}
	m.recordsTotal.WithLabelValues(stage, outcome).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
