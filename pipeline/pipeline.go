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

// Package pipeline is the bidirectional handler chain every session
// drives its reads and writes through: inbound events (connect, read,
// closed) travel head-to-tail, outbound events (write, close) travel
// tail-to-head, and each handler decides whether to transform the
// event, consume it, or forward it with Context.FireX.
//
// Each Context is allocated on its own and linked to its neighbours by
// prev/next pointers; AddHandler splices a new node in just before the
// tail. The Pipeline also records every Context, sentinels included, in
// its arena slice, which traversal does not use.
package pipeline

import (
	"math"

	"github.com/go-fysob/netengine/buffer"
)

// Session is the narrow surface a Pipeline needs from its owning
// session: the buffers to read from and write into, a way to tell the
// session how many bytes just became available to flush, and a way to
// trigger the session's own close sequence. The session package
// implements this; pipeline doesn't import session to avoid a cycle.
type Session interface {
	ID() uint64
	ReadBuffer() *buffer.Buffer
	WriteBuffer() *buffer.Buffer
	NotifyWrite(n int)
	Close()
}

// Pipeline owns one session's handler chain.
type Pipeline struct {
	session  Session
	head     *Context
	tail     *Context
	arena    []*Context
	userData interface{}
}

// New builds a Pipeline with an empty head/tail chain attached to
// session.
func New(session Session) *Pipeline {
	p := &Pipeline{session: session}
	p.head = &Context{pipeline: p, name: "head", kind: kindHead}
	p.tail = &Context{pipeline: p, name: "tail", kind: kindTail}
	p.head.next = p.tail
	p.tail.prev = p.head
	p.arena = append(p.arena, p.head, p.tail)
	return p
}

// AddHandler appends a named handler to the end of the chain (just
// before tail) and returns the Pipeline so calls can be chained, e.g.
// pipeline.New(s).AddHandler("framer", f).AddHandler("echo", e).
func (p *Pipeline) AddHandler(name string, h Handler) *Pipeline {
	ctx := &Context{pipeline: p, name: name, handler: h, kind: kindNormal}
	last := p.tail.prev
	last.next = ctx
	ctx.prev = last
	ctx.next = p.tail
	p.tail.prev = ctx
	p.arena = append(p.arena, ctx)
	return p
}

// Handlers returns the registered handler contexts in chain order,
// excluding the head/tail sentinels.
func (p *Pipeline) Handlers() []*Context {
	out := make([]*Context, 0, len(p.arena)-2)
	for c := p.head.next; c != p.tail; c = c.next {
		out = append(out, c)
	}
	return out
}

func (p *Pipeline) SessionID() uint64 { return p.session.ID() }

func (p *Pipeline) ReadBuffer() *buffer.Buffer  { return p.session.ReadBuffer() }
func (p *Pipeline) WriteBuffer() *buffer.Buffer { return p.session.WriteBuffer() }

func (p *Pipeline) UserData() interface{}     { return p.userData }
func (p *Pipeline) SetUserData(v interface{}) { p.userData = v }

// FireConnect starts an inbound connect event at the head.
func (p *Pipeline) FireConnect() { p.head.connect() }

// FireRead starts an inbound read event at the head, wrapping the
// session's live read buffer -- decoders Peek/Read straight from it
// rather than from a pre-sliced copy.
func (p *Pipeline) FireRead() { p.head.read(BufferMsg(p.session.ReadBuffer())) }

// FireClosed starts an inbound post-close notification at the head.
func (p *Pipeline) FireClosed() { p.head.notifyClosed() }

// Write starts an outbound write event at the tail, which is the
// public entry point application code uses to send through the chain
// (encoders get first crack at it, furthest from the wire).
func (p *Pipeline) Write(msg Msg) { p.tail.dispatchWrite(msg) }

// Close starts an outbound close event at the tail.
func (p *Pipeline) Close() { p.tail.dispatchClose() }

// doWrite is the terminal action reached when a write event has
// traveled all the way to the head: append the payload to the
// session's write buffer and tell the session how much became
// available to flush. Called only by the head context.
func (p *Pipeline) doWrite(msg Msg) {
	wb := p.session.WriteBuffer()
	switch msg.Kind {
	case KindBytes, KindOwned:
		wb.Append(msg.Bytes)
	case KindStr:
		wb.Append([]byte(msg.Str))
	case KindInt:
		wb.AppendUint64(uint64(msg.Int), true)
	case KindFloat:
		wb.AppendUint64(math.Float64bits(msg.Float), true)
	case KindBuffer:
		if msg.Buffer != nil {
			wb.Append(msg.Buffer.Peek(msg.Buffer.ReadableBytes()))
		}
	}
	p.session.NotifyWrite(msg.byteLen())
}

// doClose is the terminal action reached when a close event has
// traveled all the way to the head. Called only by the head context.
func (p *Pipeline) doClose() { p.session.Close() }
