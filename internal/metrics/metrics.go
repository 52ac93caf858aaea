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

// Package metrics exposes the purely-additive Prometheus instrumentation for
// the core: open session count, active timer count, buffer shrink events,
// and per-pool queue depth. No spec operation depends on these values; an
// embedder that never touches this package still gets a fully working core.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SessionsOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netengine_sessions_open",
		Help: "Number of sessions currently in the Open or Closing state.",
	})
	TimersActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netengine_timers_active",
		Help: "Number of timer tasks currently armed in the timing wheel.",
	})
	BufferShrinksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netengine_buffer_shrinks_total",
		Help: "Number of segmented-buffer shrink events across all sessions.",
	})
	PoolQueueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "netengine_pool_queue_depth",
		Help: "Pending task count per io_service_pool loop.",
	}, []string{"pool", "loop"})
)

// Register adds every collector to reg. Safe to call with a nil reg (no-op),
// so embedders that don't run a Prometheus registry pay nothing.
func Register(reg *prometheus.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(SessionsOpen, TimersActive, BufferShrinksTotal, PoolQueueDepth)
}
