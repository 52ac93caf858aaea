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

package pipeline

type contextKind int

const (
	kindNormal contextKind = iota
	kindHead
	kindTail
)

// Context is one node in a Pipeline's doubly-linked handler chain. It
// is never constructed directly; Pipeline.AddHandler allocates one
// into the pipeline's arena and returns the pipeline for chaining.
type Context struct {
	pipeline *Pipeline
	name     string
	handler  Handler
	kind     contextKind
	prev     *Context
	next     *Context
}

// Name is the handler name this context was registered under.
func (c *Context) Name() string { return c.name }

// SessionID is the numeric id of the session this pipeline belongs to.
func (c *Context) SessionID() uint64 { return c.pipeline.SessionID() }

func (c *Context) UserData() interface{}      { return c.pipeline.UserData() }
func (c *Context) SetUserData(v interface{})  { c.pipeline.SetUserData(v) }

// Write hands msg to this context's handler going outbound (tail to
// head). Call this to inject a write from arbitrary code holding a
// Context, e.g. from within a timer callback.
func (c *Context) Write(msg Msg) { c.dispatchWrite(msg) }

// Close starts outbound close propagation from this context.
func (c *Context) Close() { c.dispatchClose() }

func (c *Context) connect() {
	switch c.kind {
	case kindHead:
		c.FireConnect()
	case kindTail:
		// terminal: nothing past the tail on the inbound path
	default:
		c.handler.OnConnect(c)
	}
}

func (c *Context) read(msg Msg) {
	switch c.kind {
	case kindHead:
		c.FireRead(msg)
	case kindTail:
		// terminal
	default:
		c.handler.OnRead(c, msg)
	}
}

func (c *Context) dispatchWrite(msg Msg) {
	switch c.kind {
	case kindHead:
		c.pipeline.doWrite(msg)
	case kindTail:
		c.FireWrite(msg)
	default:
		c.handler.OnWrite(c, msg)
	}
}

func (c *Context) dispatchClose() {
	switch c.kind {
	case kindHead:
		c.pipeline.doClose()
	case kindTail:
		c.FireClose()
	default:
		c.handler.OnClose(c)
	}
}

func (c *Context) notifyClosed() {
	switch c.kind {
	case kindHead:
		c.FireClosed()
	case kindTail:
		// terminal
	default:
		c.handler.OnClosed(c)
	}
}

// FireConnect forwards a connect event to the next context inbound.
func (c *Context) FireConnect() {
	if c.next != nil {
		c.next.connect()
	}
}

// FireRead forwards a read event to the next context inbound.
func (c *Context) FireRead(msg Msg) {
	if c.next != nil {
		c.next.read(msg)
	}
}

// FireWrite forwards a write event to the previous context outbound.
func (c *Context) FireWrite(msg Msg) {
	if c.prev != nil {
		c.prev.dispatchWrite(msg)
	}
}

// FireClose forwards a close event to the previous context outbound.
func (c *Context) FireClose() {
	if c.prev != nil {
		c.prev.dispatchClose()
	}
}

// FireClosed forwards a post-close notification to the next context
// inbound.
func (c *Context) FireClosed() {
	if c.next != nil {
		c.next.notifyClosed()
	}
}
