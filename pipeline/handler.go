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

// Handler is one link in a Pipeline's bidirectional chain. Inbound
// events (Connect, Read, Closed) travel head-to-tail; outbound events
// (Write, Close) travel tail-to-head. A handler that doesn't care about
// an event should embed BaseHandler and only override what it needs.
type Handler interface {
	OnConnect(ctx *Context)
	OnRead(ctx *Context, msg Msg)
	OnWrite(ctx *Context, msg Msg)
	OnClose(ctx *Context)
	OnClosed(ctx *Context)
}

// BaseHandler is the default pass-through implementation: every event
// is simply forwarded to the next link in its direction of travel.
// Embed it in a concrete handler and override only the methods that
// need to intercept or transform the event.
type BaseHandler struct{}

func (BaseHandler) OnConnect(ctx *Context)          { ctx.FireConnect() }
func (BaseHandler) OnRead(ctx *Context, msg Msg)    { ctx.FireRead(msg) }
func (BaseHandler) OnWrite(ctx *Context, msg Msg)   { ctx.FireWrite(msg) }
func (BaseHandler) OnClose(ctx *Context)            { ctx.FireClose() }
func (BaseHandler) OnClosed(ctx *Context)           { ctx.FireClosed() }
