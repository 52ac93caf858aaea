/*
 * MIT License
 *
 * Copyright (c) 2026 The netengine Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package xlog is the small structured-logging facade shared by every package
// in this module. It wraps logrus rather than the standard library's log
// package, matching the backend the rest of the retrieved corpus (teacher's
// logger/ package, the onsi/ginkgo suites) already standardizes on.
package xlog

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the narrow surface the core depends on. Embedders may supply
// their own implementation (e.g. to route into an existing sink); the
// default wraps a *logrus.Logger.
type Logger interface {
	WithField(key string, val interface{}) Logger
	WithFields(fields Fields) Logger
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Fields is a set of structured key/value pairs attached to a log line.
type Fields map[string]interface{}

type logrusLogger struct {
	entry *logrus.Entry
}

var (
	once    sync.Once
	stdBack *logrus.Logger
)

func backend() *logrus.Logger {
	once.Do(func() {
		stdBack = logrus.New()
		stdBack.SetOutput(os.Stderr)
		stdBack.SetLevel(logrus.InfoLevel)
		stdBack.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	})
	return stdBack
}

// New returns an entry over the shared logrus backend carrying a single
// "component" field set to component.
func New(component string) Logger {
	return &logrusLogger{entry: logrus.NewEntry(backend()).WithField("component", component)}
}

func (l *logrusLogger) WithField(key string, val interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, val)}
}

func (l *logrusLogger) WithFields(fields Fields) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// SetLevel adjusts the shared backend's verbosity. Intended for the
// embedder's startup configuration, not for per-call tuning.
func SetLevel(debug bool) {
	if debug {
		backend().SetLevel(logrus.DebugLevel)
	} else {
		backend().SetLevel(logrus.InfoLevel)
	}
}
