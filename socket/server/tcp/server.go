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

// Package tcp is the TCP acceptor: accept loop, per-connection socket
// options, idle sweep, and session registry, built over session.Session
// and iopool.Pool.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"

	liberrpool "github.com/go-fysob/netengine/errors/pool"
	"github.com/go-fysob/netengine/internal/runner"
	"github.com/go-fysob/netengine/internal/xlog"
	"github.com/go-fysob/netengine/iopool"
	"github.com/go-fysob/netengine/pipeline"
	"github.com/go-fysob/netengine/rwlock"
	"github.com/go-fysob/netengine/session"
	"github.com/go-fysob/netengine/socket/config"
	"github.com/go-fysob/netengine/timingwheel"
)

var log = xlog.New("socket/server/tcp")

// HandlerFunc attaches a connection's handler chain to a freshly
// constructed pipeline -- one call per accepted session.
type HandlerFunc func(p *pipeline.Pipeline)

const (
	lingerSeconds   = 30
	defaultPoolSize = 1
)

// Server is a TCP acceptor: one listener, an I/O pool and a worker pool
// shared by every accepted session, a session registry, and an idle
// sweep driven by a dedicated timing wheel.
type Server struct {
	cfg     config.Server
	handler HandlerFunc

	// OnSessionClosed is invoked after a session fully closes, with its
	// id removed from the registry. An embedder wires this to its own
	// callback surface; nil is a valid no-op default.
	OnSessionClosed func(id uint64)

	ln       net.Listener
	ioPool   *iopool.Pool
	workPool *iopool.Pool
	wheel    *timingwheel.Wheel

	sessions *rwlock.Map[uint64, *session.Session]

	acceptRunner runner.Runner
	wheelRunner  runner.Runner

	running atomic.Bool
	gone    atomic.Bool
}

// New validates cfg and builds a Server. handler attaches the
// application's decoders/handlers to each accepted session's pipeline.
func New(cfg config.Server, handler HandlerFunc) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, fmt.Errorf("socket/server/tcp: handler must not be nil")
	}

	ioSize := cfg.IOPoolSize
	if ioSize <= 0 {
		ioSize = defaultPoolSize
	}
	workSize := cfg.WorkerPoolSize
	if workSize <= 0 {
		workSize = defaultPoolSize
	}

	ioPool, err := iopool.New(ioSize, "server-io")
	if err != nil {
		return nil, err
	}
	workPool, err := iopool.New(workSize, "server-work")
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		handler:  handler,
		ioPool:   ioPool,
		workPool: workPool,
		wheel:    timingwheel.New(),
		sessions: rwlock.NewMap[uint64, *session.Session](),
	}
	s.gone.Store(true)
	s.acceptRunner = runner.New(s.acceptLoop, s.stopAccept)
	s.wheelRunner = runner.New(s.wheel.Run, func(context.Context) error { return nil })
	return s, nil
}

// Run opens the listener and starts the accept loop, the I/O and worker
// pools, and the idle sweep. It returns once the listener is open;
// Stop tears everything down.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen(s.cfg.Network.String(), s.cfg.Address)
	if err != nil {
		return fmt.Errorf("socket/server/tcp: listen: %w", err)
	}
	s.ln = ln
	s.gone.Store(false)

	if err := s.ioPool.Start(ctx); err != nil {
		return err
	}
	if err := s.workPool.Start(ctx); err != nil {
		return err
	}
	if err := s.wheelRunner.Start(ctx); err != nil {
		return err
	}

	if s.cfg.ConIdleTimeout.Time() > 0 {
		s.wheel.Insert(s.cfg.ConIdleTimeout.Time(), true, s.sweepIdle)
	}

	s.running.Store(true)
	return s.acceptRunner.Start(ctx)
}

// Stop closes the listener, stops the accept loop and pools, and closes
// every still-open session. The shutdown steps run unconditionally even
// if an earlier one fails; any failures are combined into the returned
// error rather than only reporting the first one.
func (s *Server) Stop(ctx context.Context) error {
	errs := liberrpool.New()
	errs.Add(s.acceptRunner.Stop(ctx))
	errs.Add(s.wheelRunner.Stop(ctx))

	var sessions []*session.Session
	s.sessions.Range(func(_ uint64, sess *session.Session) bool {
		sessions = append(sessions, sess)
		return true
	})
	for _, sess := range sessions {
		sess.Close()
	}

	errs.Add(s.ioPool.Stop(ctx))
	errs.Add(s.workPool.Stop(ctx))

	s.running.Store(false)
	s.gone.Store(true)
	return errs.Error()
}

// Addr returns the listener's bound address. It is only valid once Run
// has returned past the net.Listen call.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// IsRunning reports whether the accept loop is active.
func (s *Server) IsRunning() bool { return s.running.Load() }

// IsGone reports whether the listener has been torn down (never
// started, or Stop has completed).
func (s *Server) IsGone() bool { return s.gone.Load() }

// OpenConnections reports the number of sessions currently registered.
func (s *Server) OpenConnections() int64 { return int64(s.sessions.Len()) }

func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Warnf("accept error: %v", err)
			continue
		}
		s.applySocketOptions(conn)
		s.admit(ctx, conn)
	}
}

func (s *Server) stopAccept(context.Context) error {
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}

func (s *Server) applySocketOptions(conn net.Conn) {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	_ = tc.SetNoDelay(true)
	_ = tc.SetLinger(lingerSeconds)
}

func (s *Server) admit(ctx context.Context, conn net.Conn) {
	id := session.NextID()
	cfg := session.Config{
		ReadHighWaterMark:  s.cfg.ReadHighWater,
		WriteHighWaterMark: s.cfg.WriteHighWater,
		InitHandlers:       s.handler,
		OnClose: func(closedID uint64) {
			s.sessions.Delete(closedID)
			if s.OnSessionClosed != nil {
				s.OnSessionClosed(closedID)
			}
		},
	}
	sess := session.New(id, conn, s.ioPool.Get(), s.workPool.Get(), cfg)
	s.sessions.Store(id, sess)
	sess.Start(ctx)
}

// sweepIdle closes every session that has completed zero reads since
// the previous sweep. Sessions are snapshotted before acting on them so
// the closing sessions' own OnClose (which deletes from the registry)
// never runs while this range is in progress.
func (s *Server) sweepIdle() {
	var idle []*session.Session
	s.sessions.Range(func(_ uint64, sess *session.Session) bool {
		if sess.CheckIdleAndReset() {
			idle = append(idle, sess)
		}
		return true
	})
	for _, sess := range idle {
		sess.Close()
	}
}

// Sessions returns the ids of every currently registered session.
func (s *Server) Sessions() []uint64 {
	var ids []uint64
	s.sessions.Range(func(id uint64, _ *session.Session) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

// Lookup returns the session for id, if still registered.
func (s *Server) Lookup(id uint64) (*session.Session, bool) {
	return s.sessions.Load(id)
}
