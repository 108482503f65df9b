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

package types

import (
	"log"
	"os"
)

// Logger is the minimal structured-logging surface every component that
// can silently degrade a per-record decision writes through. It mirrors
// the teacher's own Logger interface (types.Config.Logger) rather than
// introducing a field-heavy abstraction no component here needs.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// stdLogger backs DefaultLogger with the standard library's log.Logger.
// No third-party structured logger appears anywhere in the retrieved
// teacher/pack files, so the ambient logger intentionally stays on stdlib.
type stdLogger struct {
	l *log.Logger
}

func (s *stdLogger) Debugf(format string, args ...any) { s.l.Printf("DEBUG "+format, args...) }
func (s *stdLogger) Infof(format string, args ...any)  { s.l.Printf("INFO "+format, args...) }
func (s *stdLogger) Errorf(format string, args ...any) { s.l.Printf("ERROR "+format, args...) }

// DefaultLogger returns a Logger writing to stderr with a microsecond
// timestamp, matching the verbosity the teacher's components log at
// during Init()/OnMsg() failures.
func DefaultLogger() Logger {
	return &stdLogger{l: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)}
}

// NopLogger discards every line. Useful for tests and for callers who wire
// their own logging downstream of chain.Metrics instead.
func NopLogger() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
