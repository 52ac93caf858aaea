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

package embedder_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-fysob/netengine/buffer"
	"github.com/go-fysob/netengine/embedder"
	"github.com/go-fysob/netengine/pipeline"
	"github.com/go-fysob/netengine/timingwheel"
)

type fakeSession struct {
	id              uint64
	readBuf         *buffer.Buffer
	writeBuf        *buffer.Buffer
	notified        int
	closeCalled     bool
}

func newFakeSession(id uint64) *fakeSession {
	return &fakeSession{id: id, readBuf: buffer.New(64), writeBuf: buffer.New(64)}
}

func (s *fakeSession) ID() uint64                   { return s.id }
func (s *fakeSession) ReadBuffer() *buffer.Buffer    { return s.readBuf }
func (s *fakeSession) WriteBuffer() *buffer.Buffer   { return s.writeBuf }
func (s *fakeSession) NotifyWrite(n int)             { s.notified += n }
func (s *fakeSession) Close()                        { s.closeCalled = true }

var _ = Describe("Embedder", func() {
	var (
		wheel *timingwheel.Wheel
		emb   *embedder.Embedder
		sess  *fakeSession
		p     *pipeline.Pipeline
		connects, closes []uint64
		messages         [][]byte
	)

	BeforeEach(func() {
		wheel = timingwheel.New()
		emb = embedder.New(wheel)
		connects, closes, messages = nil, nil, nil

		upward := embedder.UpwardCallbacks{
			OnConnect: func(id uint64) { connects = append(connects, id) },
			OnMessage: func(id uint64, data []byte) { messages = append(messages, data) },
			OnClose:   func(id uint64) { closes = append(closes, id) },
		}

		sess = newFakeSession(42)
		p = pipeline.New(sess)
		p.AddHandler("bridge", emb.Bridge(upward))
	})

	It("registers a session on connect and relays messages upward", func() {
		p.FireConnect()
		Expect(connects).To(ConsistOf(uint64(42)))
		Expect(emb.Sessions()).To(ConsistOf(uint64(42)))

		sess.readBuf.Append([]byte("hello"))
		p.FireRead()

		Expect(messages).To(HaveLen(1))
		Expect(string(messages[0])).To(Equal("hello"))
	})

	It("deregisters on close and reports upward", func() {
		p.FireConnect()
		p.FireClosed()
		Expect(closes).To(ConsistOf(uint64(42)))
		Expect(emb.Sessions()).To(BeEmpty())
	})

	It("writes to a registered session and no-ops on an unknown one", func() {
		p.FireConnect()
		Expect(emb.Write(42, []byte("reply"))).To(BeTrue())
		Expect(string(sess.writeBuf.Peek(sess.writeBuf.ReadableBytes()))).To(Equal("reply"))

		Expect(emb.Write(999, []byte("nope"))).To(BeFalse())
	})

	It("closes a registered session and no-ops on an unknown one", func() {
		p.FireConnect()
		Expect(emb.Close(42)).To(BeTrue())
		Expect(sess.closeCalled).To(BeTrue())

		Expect(emb.Close(999)).To(BeFalse())
	})

	It("adds and removes timers through the wheel", func() {
		fired := make(chan struct{}, 1)
		id := emb.AddTimer(20*time.Millisecond, false, func() { fired <- struct{}{} })
		Expect(id).NotTo(BeZero())

		go func() {
			for i := 0; i < 50; i++ {
				wheel.Tick()
				time.Sleep(time.Millisecond)
			}
		}()

		Eventually(fired, time.Second).Should(Receive())
	})

	It("reports false removing an unknown timer", func() {
		Expect(emb.RemoveTimer(123456)).To(BeFalse())
	})
})
