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

package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-fysob/netengine/buffer"
	"github.com/go-fysob/netengine/pipeline"
)

type fakeSession struct {
	id          uint64
	readBuf     *buffer.Buffer
	writeBuf    *buffer.Buffer
	notified    int
	closeCalled bool
}

func newFakeSession(id uint64) *fakeSession {
	return &fakeSession{id: id, readBuf: buffer.New(64), writeBuf: buffer.New(64)}
}

func (s *fakeSession) ID() uint64                    { return s.id }
func (s *fakeSession) ReadBuffer() *buffer.Buffer    { return s.readBuf }
func (s *fakeSession) WriteBuffer() *buffer.Buffer   { return s.writeBuf }
func (s *fakeSession) NotifyWrite(n int)             { s.notified += n }
func (s *fakeSession) Close()                        { s.closeCalled = true }

type recordingHandler struct {
	pipeline.BaseHandler
	name   string
	events *[]string
}

func (h *recordingHandler) OnConnect(ctx *pipeline.Context) {
	*h.events = append(*h.events, h.name+":connect")
	ctx.FireConnect()
}

func (h *recordingHandler) OnRead(ctx *pipeline.Context, msg pipeline.Msg) {
	*h.events = append(*h.events, h.name+":read")
	ctx.FireRead(msg)
}

func (h *recordingHandler) OnWrite(ctx *pipeline.Context, msg pipeline.Msg) {
	*h.events = append(*h.events, h.name+":write")
	ctx.FireWrite(msg)
}

func (h *recordingHandler) OnClose(ctx *pipeline.Context) {
	*h.events = append(*h.events, h.name+":close")
	ctx.FireClose()
}

func (h *recordingHandler) OnClosed(ctx *pipeline.Context) {
	*h.events = append(*h.events, h.name+":closed")
	ctx.FireClosed()
}

var _ = Describe("Pipeline", func() {
	It("fires connect through every handler head to tail in order", func() {
		var events []string
		session := newFakeSession(1)
		p := pipeline.New(session)
		p.AddHandler("a", &recordingHandler{name: "a", events: &events})
		p.AddHandler("b", &recordingHandler{name: "b", events: &events})

		p.FireConnect()

		Expect(events).To(Equal([]string{"a:connect", "b:connect"}))
	})

	It("fires close through every handler tail to head in order", func() {
		var events []string
		session := newFakeSession(2)
		p := pipeline.New(session)
		p.AddHandler("a", &recordingHandler{name: "a", events: &events})
		p.AddHandler("b", &recordingHandler{name: "b", events: &events})

		p.Close()

		Expect(events).To(Equal([]string{"b:close", "a:close"}))
		Expect(session.closeCalled).To(BeTrue())
	})

	It("delivers an unhandled connect/read/closed straight through to the tail as a no-op", func() {
		session := newFakeSession(3)
		p := pipeline.New(session)

		Expect(func() { p.FireConnect() }).NotTo(Panic())
		Expect(func() { p.FireRead() }).NotTo(Panic())
		Expect(func() { p.FireClosed() }).NotTo(Panic())
	})

	It("routes a Write through the chain and appends it to the session write buffer", func() {
		session := newFakeSession(4)
		p := pipeline.New(session)
		p.AddHandler("echo", &pipeline.BaseHandler{})

		p.Write(pipeline.BytesMsg([]byte("hello")))

		Expect(session.writeBuf.ReadableBytes()).To(Equal(5))
		Expect(string(session.writeBuf.Read(5))).To(Equal("hello"))
		Expect(session.notified).To(Equal(5))
	})

	It("hands the live session read buffer to the head on FireRead", func() {
		session := newFakeSession(5)
		session.readBuf.Append([]byte("payload"))

		var seen []byte
		handler := pipeline.BaseHandler{}
		_ = handler

		var got pipeline.Msg
		p := pipeline.New(session)
		p.AddHandler("capture", captureHandler(&got))

		p.FireRead()

		Expect(got.Kind).To(Equal(pipeline.KindBuffer))
		seen = got.Buffer.Peek(got.Buffer.ReadableBytes())
		Expect(string(seen)).To(Equal("payload"))
	})

	It("exposes registered handlers in chain order excluding sentinels", func() {
		session := newFakeSession(6)
		p := pipeline.New(session)
		p.AddHandler("a", &pipeline.BaseHandler{})
		p.AddHandler("b", &pipeline.BaseHandler{})

		names := []string{}
		for _, c := range p.Handlers() {
			names = append(names, c.Name())
		}
		Expect(names).To(Equal([]string{"a", "b"}))
	})

	It("stores and retrieves user data on the pipeline", func() {
		session := newFakeSession(7)
		p := pipeline.New(session)
		p.SetUserData("hello")
		Expect(p.UserData()).To(Equal("hello"))
	})
})

type capturingHandler struct {
	pipeline.BaseHandler
	out *pipeline.Msg
}

func (h *capturingHandler) OnRead(ctx *pipeline.Context, msg pipeline.Msg) {
	*h.out = msg
}

func captureHandler(out *pipeline.Msg) pipeline.Handler {
	return &capturingHandler{out: out}
}
