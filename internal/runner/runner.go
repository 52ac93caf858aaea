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

// Package runner is the start/stop lifecycle wrapper shared by every
// goroutine-driven component in the core (io loops, the timing wheel's
// tick goroutine, the acceptor). A Func runs until its context is
// cancelled; Runner tracks whether it is currently running, how long it
// has been running, and the last error the Func returned.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Func is a goroutine body that must return once ctx is cancelled.
type Func func(ctx context.Context) error

// Runner supervises exactly one Func at a time, restarting it on demand
// via Start or Restart. It is safe for concurrent use.
type Runner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error
	IsRunning() bool
	Uptime() time.Duration
	ErrorsLast() error
	ErrorsList() []error
}

type runner struct {
	mu       sync.Mutex
	start    Func
	stop     Func
	cancel   context.CancelFunc
	running  bool
	startAt  time.Time
	lastErrs []error
}

// New builds a Runner around the given start and stop functions. Either
// may be nil; calling Start/Stop against a nil function records an
// "invalid start/stop function" error instead of panicking.
func New(start, stop Func) Runner {
	return &runner{start: start, stop: stop}
}

func (r *runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		cancel := r.cancel
		r.mu.Unlock()
		cancel()
		r.waitStopped()
		r.mu.Lock()
	}

	r.lastErrs = nil
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	r.startAt = time.Now()
	start := r.start
	r.mu.Unlock()

	go func() {
		var err error
		if start == nil {
			err = fmt.Errorf("runner: invalid start function")
		} else {
			err = start(cctx)
		}

		r.mu.Lock()
		if err != nil {
			r.lastErrs = append(r.lastErrs, err)
		}
		r.running = false
		r.mu.Unlock()
	}()

	return nil
}

// waitStopped spins briefly until the previous goroutine has observed
// cancellation and cleared the running flag, so a back-to-back Start
// doesn't race the old instance's cleanup.
func (r *runner) waitStopped() {
	for i := 0; i < 500; i++ {
		r.mu.Lock()
		running := r.running
		r.mu.Unlock()
		if !running {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	cancel := r.cancel
	stop := r.stop
	r.mu.Unlock()

	cancel()

	var err error
	if stop == nil {
		err = fmt.Errorf("runner: invalid stop function")
	} else {
		err = stop(ctx)
	}

	r.mu.Lock()
	if err != nil {
		r.lastErrs = append(r.lastErrs, err)
	}
	r.mu.Unlock()

	return err
}

func (r *runner) Restart(ctx context.Context) error {
	_ = r.Stop(ctx)
	return r.Start(ctx)
}

func (r *runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *runner) Uptime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return 0
	}
	return time.Since(r.startAt)
}

func (r *runner) ErrorsLast() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lastErrs) == 0 {
		return nil
	}
	return r.lastErrs[len(r.lastErrs)-1]
}

func (r *runner) ErrorsList() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]error, len(r.lastErrs))
	copy(out, r.lastErrs)
	return out
}
