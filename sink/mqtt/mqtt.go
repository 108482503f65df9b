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

// Package mqtt publishes routed records to a message-bus sink (§1's
// "relational DB or message bus" destination, §9 — a downstream concern
// outside the filter/router/chain core, kept as an optional adapter).
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/ljluestc/ape-dts/router"
	"github.com/ljluestc/ape-dts/types"
)

// Config configures a Sink's broker connection and default QoS.
type Config struct {
	BrokerURL string
	ClientID  string
	QoS       byte
	// WriteTimeout bounds how long Publish waits for the broker to
	// acknowledge a publish before reporting an error.
	WriteTimeout time.Duration
}

// Sink publishes a routed RowData as a JSON payload to the topic resolved
// by the router.Router's static topic map (StaticRouter.TopicFor); content
// route topics are not consulted.
type Sink struct {
	client paho.Client
	router *router.Router
	qos    byte
	timeout time.Duration
}

// New connects to the broker described by cfg and returns a Sink that
// resolves destination topics through rtr.
func New(cfg Config, rtr *router.Router) (*Sink, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.BrokerURL).SetClientID(cfg.ClientID)
	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt: connect: %w", token.Error())
	}
	timeout := cfg.WriteTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Sink{client: client, router: rtr, qos: cfg.QoS, timeout: timeout}, nil
}

type payload struct {
	Schema  string            `json:"schema"`
	Table   string            `json:"table"`
	RowType string            `json:"row_type"`
	Before  map[string]string `json:"before,omitempty"`
	After   map[string]string `json:"after,omitempty"`
}

// Publish resolves row's destination topic and sends its JSON encoding.
// ctx bounds how long Publish waits for the broker acknowledgement on top
// of Config.WriteTimeout.
func (s *Sink) Publish(ctx context.Context, row types.RowData) error {
	topic, ok := s.router.Static.TopicFor(row.Schema, row.Table)
	if !ok {
		return fmt.Errorf("mqtt: no topic configured for %s.%s", row.Schema, row.Table)
	}
	body, err := json.Marshal(payload{
		Schema:  row.Schema,
		Table:   row.Table,
		RowType: row.RowType.String(),
		Before:  textMap(row.Before),
		After:   textMap(row.After),
	})
	if err != nil {
		return fmt.Errorf("mqtt: marshal: %w", err)
	}

	token := s.client.Publish(topic, s.qos, false, body)
	done := make(chan struct{})
	go func() { token.Wait(); close(done) }()
	select {
	case <-done:
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.timeout):
		return fmt.Errorf("mqtt: publish to %s timed out", topic)
	}
}

// Close disconnects the underlying MQTT client, waiting up to 250ms for
// in-flight work to drain.
func (s *Sink) Close() { s.client.Disconnect(250) }

func textMap(cols map[string]types.ColValue) map[string]string {
	if cols == nil {
		return nil
	}
	out := make(map[string]string, len(cols))
	for k, v := range cols {
		if text, ok := v.ToText(); ok {
			out[k] = text
		}
	}
	return out
}
