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

package tcp_test

import (
	"context"
	"net"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-fysob/netengine/internal/netkind"
	"github.com/go-fysob/netengine/pipeline"
	"github.com/go-fysob/netengine/socket/client/tcp"
	"github.com/go-fysob/netengine/socket/config"
)

type captureHandler struct {
	pipeline.BaseHandler
	mu       sync.Mutex
	received [][]byte
}

func (h *captureHandler) OnRead(ctx *pipeline.Context, msg pipeline.Msg) {
	if msg.Kind == pipeline.KindBuffer {
		b := msg.Buffer.Read(msg.Buffer.ReadableBytes())
		h.mu.Lock()
		h.received = append(h.received, b)
		h.mu.Unlock()
	}
}

func (h *captureHandler) snapshot() [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([][]byte, len(h.received))
	copy(out, h.received)
	return out
}

var _ = Describe("Connect", func() {
	var ln net.Listener

	BeforeEach(func() {
		var err error
		ln, err = net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = ln.Close()
	})

	It("dials, starts a session, and exchanges bytes with the peer", func() {
		peerConnCh := make(chan net.Conn, 1)
		go func() {
			conn, err := ln.Accept()
			if err == nil {
				peerConnCh <- conn
			}
		}()

		handler := &captureHandler{}
		cfg := config.Client{Network: netkind.TCP, Address: ln.Addr().String()}
		c, err := tcp.New(cfg, func(p *pipeline.Pipeline) { p.AddHandler("capture", handler) })
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		sess, err := c.Connect(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(sess).NotTo(BeNil())
		Expect(c.Session()).To(BeIdenticalTo(sess))

		var peerConn net.Conn
		Eventually(peerConnCh, time.Second, 5*time.Millisecond).Should(Receive(&peerConn))
		defer peerConn.Close()

		_, err = peerConn.Write([]byte("hi"))
		Expect(err).NotTo(HaveOccurred())

		Eventually(func() [][]byte { return handler.snapshot() }, time.Second, 5*time.Millisecond).
			Should(HaveLen(1))
		Expect(string(handler.snapshot()[0])).To(Equal("hi"))

		sess.Pipeline().Write(pipeline.StrMsg("ack"))
		buf := make([]byte, 3)
		peerConn.SetReadDeadline(time.Now().Add(time.Second))
		n, err := peerConn.Read(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(buf[:n])).To(Equal("ack"))

		Expect(c.Close(context.Background())).To(Succeed())
	})

	It("fails to connect when nothing listens", func() {
		_ = ln.Close()
		cfg := config.Client{Network: netkind.TCP, Address: ln.Addr().String()}
		c, err := tcp.New(cfg, noopHandler)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_, err = c.Connect(ctx)
		Expect(err).To(HaveOccurred())
	})
})
