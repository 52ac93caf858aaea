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

// Package session is the per-connection state machine: it owns a TCP
// socket, a read buffer, a write buffer, and the pipeline that decodes
// and encodes between them. A goroutine reading the socket stands in
// for the original's async-read completion chain; an iopool.Loop
// assigned at construction stands in for the worker loop a pipeline
// run is bound to, so two pipeline runs for the same session never
// interleave.
package session

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/go-fysob/netengine/buffer"
	"github.com/go-fysob/netengine/internal/metrics"
	"github.com/go-fysob/netengine/internal/xlog"
	"github.com/go-fysob/netengine/iopool"
	"github.com/go-fysob/netengine/pipeline"
)

var log = xlog.New("session")

var idCounter uint32

// nextID hands out session ids from a monotonic 32-bit counter, wrapped
// in a uint64 only because pipeline.Session.ID must agree with every
// other id-shaped type in the module.
func nextID() uint64 {
	return uint64(atomic.AddUint32(&idCounter, 1))
}

// Stats is a point-in-time snapshot of a session's activity counters,
// read without blocking the session's own goroutines.
type Stats struct {
	BytesRead    uint64
	BytesWritten uint64
	LastActivity time.Time
}

// Config carries the per-session tunables a server or client applies at
// construction: high-water marks for read suspension and write
// backpressure, and the callback invoked once the session fully closes.
type Config struct {
	ReadHighWaterMark   int
	WriteHighWaterMark  int
	OnWriteBackpressure func(s *Session)
	OnClose             func(id uint64)
	InitHandlers        func(p *pipeline.Pipeline)
}

// Session is one TCP connection: socket, buffers, pipeline, and the
// reading/writing/close_flag/work_read_count/handle_count counters that
// together encode the close barrier.
type Session struct {
	id      uint64
	traceID string
	conn    net.Conn
	cfg     Config

	readBuf  *buffer.Buffer
	writeBuf *buffer.Buffer
	pipeline *pipeline.Pipeline

	ioLoop   *iopool.Loop
	workLoop *iopool.Loop

	state atomic.Int32

	reading      atomic.Bool
	writing      atomic.Bool
	closeFlag    atomic.Bool
	workReadCnt  atomic.Int32
	handleCount  atomic.Int32
	bytesRead    atomic.Uint64
	bytesWritten atomic.Uint64
	lastActivity atomic.Int64 // unix nanos

	closeMu  sync.Mutex
	closedCh chan struct{}
	once     sync.Once
}

// New builds a Session around an already-accepted or already-dialed
// conn, bound to ioLoop for socket-facing work and workLoop for pipeline
// dispatch. New itself runs cfg.InitHandlers on the new pipeline. The
// session starts in StateConnecting; call Start to fire the pipeline's
// connect event and begin reading.
func New(id uint64, conn net.Conn, ioLoop, workLoop *iopool.Loop, cfg Config) *Session {
	s := &Session{
		id:       id,
		traceID:  uuid.New().String(),
		conn:     conn,
		cfg:      cfg,
		readBuf:  buffer.New(buffer.InitialSize),
		writeBuf: buffer.New(buffer.InitialSize),
		ioLoop:   ioLoop,
		workLoop: workLoop,
		closedCh: make(chan struct{}),
	}
	s.pipeline = pipeline.New(s)
	if cfg.InitHandlers != nil {
		cfg.InitHandlers(s.pipeline)
	}
	return s
}

// NextID exposes the module-wide session id generator to servers and
// clients constructing new sessions.
func NextID() uint64 { return nextID() }

func (s *Session) ID() uint64 { return s.id }

// TraceID returns a unique, human-readable identifier for this session,
// stable for its lifetime and distinct across every session a process
// ever creates, unlike the numeric ID which wraps and can be reused once
// the 32-bit counter cycles. Intended for log correlation, not lookup --
// Server.Lookup and the embedder registry key off ID.
func (s *Session) TraceID() string { return s.traceID }

func (s *Session) State() State      { return State(s.state.Load()) }
func (s *Session) Conn() net.Conn    { return s.conn }
func (s *Session) Pipeline() *pipeline.Pipeline { return s.pipeline }

func (s *Session) ReadBuffer() *buffer.Buffer  { return s.readBuf }
func (s *Session) WriteBuffer() *buffer.Buffer { return s.writeBuf }

// Stats returns a snapshot of the session's activity counters.
func (s *Session) Stats() Stats {
	return Stats{
		BytesRead:    s.bytesRead.Load(),
		BytesWritten: s.bytesWritten.Load(),
		LastActivity: time.Unix(0, s.lastActivity.Load()),
	}
}

// CheckIdleAndReset reports whether the session has seen zero completed
// reads since the last call, then resets the counter -- the server's
// periodic sweep calls this once per window per session.
func (s *Session) CheckIdleAndReset() bool {
	return s.handleCount.Swap(0) == 0
}

// Done is closed once the session has fully closed (socket closed,
// close callback invoked).
func (s *Session) Done() <-chan struct{} { return s.closedCh }

// Start runs the pipeline's connect event and begins the read loop.
// Start must be called exactly once.
func (s *Session) Start(ctx context.Context) {
	s.state.Store(int32(StateOpen))
	s.touch()
	metrics.SessionsOpen.Inc()
	s.pipeline.FireConnect()
	go s.readLoop(ctx)
}

func (s *Session) touch() {
	s.lastActivity.Store(time.Now().UnixNano())
}

// readLoop stands in for the original's chained async_read_some calls:
// one goroutine blocked in conn.Read is this engine's I/O loop for the
// read side of a single session.
func (s *Session) readLoop(ctx context.Context) {
	for {
		if s.closeFlag.Load() {
			return
		}

		if s.cfg.ReadHighWaterMark > 0 && s.readBuf.ReadableBytes() >= s.cfg.ReadHighWaterMark {
			if !s.waitBelowHighWater(ctx) {
				return
			}
			continue
		}

		views := s.readBuf.WritableViews()
		if len(views) == 0 || len(views[0]) == 0 {
			// Nothing writable despite not being over the high-water mark
			// (can happen transiently right after a grow); give the
			// buffer a tick to catch up.
			time.Sleep(time.Millisecond)
			continue
		}

		n, err := s.conn.Read(views[0])
		if err != nil {
			s.handleReadError(err)
			return
		}

		s.readBuf.HasWritten(n)
		s.bytesRead.Add(uint64(n))
		s.touch()
		s.handleCount.Add(1)
		s.workReadCnt.Add(1)

		s.workLoop.Post(func() {
			s.pipeline.FireRead()
			s.workReadCnt.Add(-1)
			s.runCloseCheck()
		})
	}
}

// waitBelowHighWater blocks the read loop until the read buffer drains
// below the configured high-water mark, arming the buffer's one-shot
// notifier instead of busy-polling. Returns false if ctx is cancelled or
// the session closes while waiting.
func (s *Session) waitBelowHighWater(ctx context.Context) bool {
	resumed := make(chan struct{})
	var once sync.Once
	s.readBuf.SetNotifyBehindHighWaterMark(func() {
		once.Do(func() { close(resumed) })
	}, s.cfg.ReadHighWaterMark)

	select {
	case <-resumed:
		return true
	case <-ctx.Done():
		return false
	case <-s.closedCh:
		return false
	}
}

func (s *Session) handleReadError(err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		log.Debugf("session %d [%s] read closed: %v", s.id, s.traceID, err)
	} else {
		log.Warnf("session %d [%s] read error: %v", s.id, s.traceID, err)
	}
	s.closeFlag.Store(true)
	s.runCloseCheck()
}

// NotifyWrite is called by the pipeline's head context after appending
// msg's bytes to the write buffer: it applies write backpressure if
// configured, then kicks off a flush if one isn't already in flight.
func (s *Session) NotifyWrite(n int) {
	if s.cfg.WriteHighWaterMark > 0 && s.writeBuf.ReadableBytes() > s.cfg.WriteHighWaterMark {
		if s.cfg.OnWriteBackpressure != nil {
			s.cfg.OnWriteBackpressure(s)
		}
	}
	s.kickWriter()
}

func (s *Session) kickWriter() {
	if s.writing.CompareAndSwap(false, true) {
		s.ioLoop.Post(s.flushOnce)
	}
}

// flushOnce issues one vectored write of the write buffer's readable
// region via net.Buffers (Go's stand-in for asio's const_buffer
// scatter-gather write), reissuing itself while bytes remain.
func (s *Session) flushOnce() {
	views := s.writeBuf.ReadableViews()
	if len(views) == 0 {
		s.writing.Store(false)
		s.runCloseCheck()
		return
	}

	buffers := net.Buffers(append([][]byte(nil), views...))
	n, err := buffers.WriteTo(s.conn)
	if n > 0 {
		s.writeBuf.Retrieve(int(n))
		s.bytesWritten.Add(uint64(n))
		s.touch()
	}
	if err != nil {
		log.Warnf("session %d [%s] write error: %v", s.id, s.traceID, err)
		s.writing.Store(false)
		s.closeFlag.Store(true)
		s.runCloseCheck()
		return
	}

	if s.writeBuf.ReadableBytes() > 0 {
		s.ioLoop.Post(s.flushOnce)
		return
	}

	s.writing.Store(false)
	s.runCloseCheck()
}

// Close requests the session close. It is idempotent: only the first
// call runs the shutdown sequence.
func (s *Session) Close() {
	if !s.closeFlag.CompareAndSwap(false, true) {
		return
	}
	s.runCloseCheck()
}

// runCloseCheck performs the close barrier: shutdown only proceeds once
// close has been requested, no write is in flight, and no worker task
// still holds a pipeline.FireRead in progress for this session.
func (s *Session) runCloseCheck() {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	if !s.closeFlag.Load() {
		return
	}
	if s.writing.Load() || s.workReadCnt.Load() > 0 {
		return
	}
	if State(s.state.Load()) == StateClosed {
		return
	}

	s.state.Store(int32(StateClosing))
	_ = s.conn.Close()
	s.state.Store(int32(StateClosed))
	metrics.SessionsOpen.Dec()

	s.once.Do(func() { close(s.closedCh) })
	if s.cfg.OnClose != nil {
		s.cfg.OnClose(s.id)
	}
	s.pipeline.FireClosed()
}
