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

// Package iopool is a fixed-size pool of task loops with round-robin
// assignment, the Go-native stand-in for a pool of asio::io_service
// event loops: each loop is one goroutine draining its own task
// channel, and Get round-robins across loops the same way the original
// round-robins io_service references -- call order fixes the
// session-to-loop binding for the life of the session.
package iopool

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/go-fysob/netengine/internal/metrics"
	"github.com/go-fysob/netengine/internal/runner"
)

// queueCapacity bounds how many pending tasks a loop will buffer before
// Post blocks the caller. A blocked Post is back-pressure: the caller
// (an I/O completion, a worker dispatch) waits for the loop to catch up
// rather than the pool growing without bound.
const queueCapacity = 256

// Loop is one task queue bound to a single goroutine. Tasks posted to
// a Loop always run on the same goroutine and therefore never run
// concurrently with each other.
type Loop struct {
	id       int
	poolName string
	tasks    chan func()
}

// Post enqueues f to run on this loop's goroutine. Post blocks if the
// loop's queue is full.
func (l *Loop) Post(f func()) {
	l.tasks <- f
	metrics.PoolQueueDepth.WithLabelValues(l.poolName, strconv.Itoa(l.id)).Set(float64(len(l.tasks)))
}

// QueueDepth reports how many tasks are currently buffered, for
// internal/metrics.
func (l *Loop) QueueDepth() int { return len(l.tasks) }

func (l *Loop) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-l.tasks:
			f()
			metrics.PoolQueueDepth.WithLabelValues(l.poolName, strconv.Itoa(l.id)).Set(float64(len(l.tasks)))
		}
	}
}

// Pool is a fixed-size, named set of Loops with a lifecycle managed by
// internal/runner and round-robin Get assignment.
type Pool struct {
	name   string
	loops  []*Loop
	next   uint64
	runner runner.Runner
}

// New builds a Pool of size loops. size must be > 0.
func New(size int, name string) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("iopool: size must be > 0, got %d", size)
	}
	p := &Pool{name: name}
	for i := 0; i < size; i++ {
		p.loops = append(p.loops, &Loop{id: i, poolName: name, tasks: make(chan func(), queueCapacity)})
	}
	p.runner = runner.New(p.run, p.shutdown)
	return p, nil
}

// Start launches every loop's goroutine. It returns immediately; the
// loops run until Stop is called.
func (p *Pool) Start(ctx context.Context) error { return p.runner.Start(ctx) }

// Stop cancels every loop. It returns without waiting for the loop
// goroutines to exit; IsRunning reports false once they have.
func (p *Pool) Stop(ctx context.Context) error { return p.runner.Stop(ctx) }

// IsRunning reports whether the pool's loops are currently active.
func (p *Pool) IsRunning() bool { return p.runner.IsRunning() }

func (p *Pool) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, l := range p.loops {
		l := l
		g.Go(func() error { return l.run(gctx) })
	}
	return g.Wait()
}

// shutdown is a no-op: cancelling the context passed to run is what
// actually stops every loop goroutine; Stop's cancel() already does that
// before this is called.
func (p *Pool) shutdown(ctx context.Context) error { return nil }

// Get returns the next loop in round-robin order. Call order determines
// the loop a given session is bound to for its lifetime.
func (p *Pool) Get() *Loop {
	n := atomic.AddUint64(&p.next, 1) - 1
	return p.loops[n%uint64(len(p.loops))]
}

// Size reports the number of loops in the pool.
func (p *Pool) Size() int { return len(p.loops) }

// QueueDepth sums the pending task count across every loop, for
// internal/metrics.
func (p *Pool) QueueDepth() int {
	total := 0
	for _, l := range p.loops {
		total += l.QueueDepth()
	}
	return total
}
