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

// Package embedder is the facade a scripting or application host sits
// behind: upward callbacks (OnConnect/OnMessage/OnClose) fired as
// sessions produce events, and downward calls (Write/Close/AddTimer/
// RemoveTimer) the host issues back into the core.
package embedder

import (
	"time"

	"github.com/go-fysob/netengine/pipeline"
	"github.com/go-fysob/netengine/rwlock"
	"github.com/go-fysob/netengine/timingwheel"
)

// UpwardCallbacks are the events a host receives. Any of the three may
// be nil; a nil callback is simply skipped.
type UpwardCallbacks struct {
	OnConnect func(sessionID uint64)
	OnMessage func(sessionID uint64, data []byte)
	OnClose   func(sessionID uint64)
}

// bridge is the pipeline.Handler that makes a session visible to an
// Embedder: it registers the session's Context under its id on
// connect, relays decoded frames upward, and deregisters on close.
// Attach it last (closest to the tail) so it runs after any frame
// decoders earlier in the chain.
type bridge struct {
	pipeline.BaseHandler
	registry *rwlock.Map[uint64, *pipeline.Context]
	upward   UpwardCallbacks
}

func (b *bridge) OnConnect(ctx *pipeline.Context) {
	b.registry.Store(ctx.SessionID(), ctx)
	if b.upward.OnConnect != nil {
		b.upward.OnConnect(ctx.SessionID())
	}
	ctx.FireConnect()
}

func (b *bridge) OnRead(ctx *pipeline.Context, msg pipeline.Msg) {
	if b.upward.OnMessage != nil {
		if data, ok := payloadBytes(msg); ok {
			b.upward.OnMessage(ctx.SessionID(), data)
		}
	}
	ctx.FireRead(msg)
}

func (b *bridge) OnClosed(ctx *pipeline.Context) {
	b.registry.Delete(ctx.SessionID())
	if b.upward.OnClose != nil {
		b.upward.OnClose(ctx.SessionID())
	}
	ctx.FireClosed()
}

func payloadBytes(msg pipeline.Msg) ([]byte, bool) {
	switch msg.Kind {
	case pipeline.KindBuffer:
		if msg.Buffer == nil {
			return nil, false
		}
		return msg.Buffer.Read(msg.Buffer.ReadableBytes()), true
	case pipeline.KindBytes, pipeline.KindOwned:
		return msg.Bytes, true
	case pipeline.KindStr:
		return []byte(msg.Str), true
	default:
		return nil, false
	}
}

// Embedder is the downward half of the facade: look a session up by
// id and act on it, or schedule/cancel a timer.
type Embedder struct {
	registry *rwlock.Map[uint64, *pipeline.Context]
	wheel    *timingwheel.Wheel
}

// New builds an Embedder driven by wheel for timers. wheel is expected
// to already be running (see timingwheel.Wheel.Run) under whatever
// lifecycle owns the surrounding server or client.
func New(wheel *timingwheel.Wheel) *Embedder {
	return &Embedder{
		registry: rwlock.NewMap[uint64, *pipeline.Context](),
		wheel:    wheel,
	}
}

// Bridge returns a pipeline.Handler to register (via HandlerFunc) on
// every session's pipeline so its events reach upward.
func (e *Embedder) Bridge(upward UpwardCallbacks) pipeline.Handler {
	return &bridge{registry: e.registry, upward: upward}
}

// Write sends data to sessionID's pipeline. It reports false without
// side effects if the session is not (or no longer) registered --
// the explicit ok-checked lookup the original's close_connection path
// was missing, guarding against acting on a session that already
// finished closing.
func (e *Embedder) Write(sessionID uint64, data []byte) bool {
	ctx, ok := e.registry.Load(sessionID)
	if !ok {
		return false
	}
	ctx.Write(pipeline.BytesMsg(data))
	return true
}

// Close starts closing sessionID's session. It reports false if the
// session is not registered.
func (e *Embedder) Close(sessionID uint64) bool {
	ctx, ok := e.registry.Load(sessionID)
	if !ok {
		return false
	}
	ctx.Close()
	return true
}

// AddTimer schedules callback to run once after interval, or every
// interval if periodic, returning an id usable with RemoveTimer.
func (e *Embedder) AddTimer(interval time.Duration, periodic bool, callback func()) uint64 {
	return e.wheel.Insert(interval, periodic, callback)
}

// RemoveTimer cancels a previously scheduled timer. It reports false
// if timerID is unknown or already fired (and was one-shot).
func (e *Embedder) RemoveTimer(timerID uint64) bool {
	return e.wheel.Remove(timerID)
}

// Sessions returns the ids of every session currently registered.
func (e *Embedder) Sessions() []uint64 {
	var ids []uint64
	e.registry.Range(func(id uint64, _ *pipeline.Context) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}
