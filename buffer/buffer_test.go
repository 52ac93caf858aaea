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

package buffer_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-fysob/netengine/buffer"
)

var _ = Describe("Buffer", func() {
	It("round-trips a short append/read", func() {
		b := buffer.New(64)
		b.Append([]byte("hello"))
		Expect(b.ReadableBytes()).To(Equal(5))
		Expect(b.Read(5)).To(Equal([]byte("hello")))
		Expect(b.ReadableBytes()).To(Equal(0))
	})

	It("peek does not consume", func() {
		b := buffer.New(64)
		b.Append([]byte("abcdef"))
		Expect(b.Peek(3)).To(Equal([]byte("abc")))
		Expect(b.ReadableBytes()).To(Equal(6))
		Expect(b.Read(6)).To(Equal([]byte("abcdef")))
	})

	It("spans multiple blocks on a large append", func() {
		b := buffer.New(64)
		payload := bytes.Repeat([]byte("x"), 64*20)
		b.Append(payload)
		Expect(b.ReadableBytes()).To(Equal(len(payload)))
		Expect(b.Read(len(payload))).To(Equal(payload))
		Expect(b.Stats().Blocks).To(BeNumerically(">", 1))
	})

	It("round-trips big-endian integers", func() {
		b := buffer.New(64)
		b.AppendUint32(0xDEADBEEF, true)
		Expect(b.ReadUint32(true)).To(Equal(uint32(0xDEADBEEF)))
	})

	It("round-trips little-endian integers", func() {
		b := buffer.New(64)
		b.AppendUint16(0x1234, false)
		Expect(b.ReadUint16(false)).To(Equal(uint16(0x1234)))
	})

	It("supports indexed peeks without consuming", func() {
		b := buffer.New(64)
		b.Append([]byte{0, 0})
		b.AppendUint32(42, true)
		Expect(b.PeekIndexUint32(2, true)).To(Equal(uint32(42)))
		Expect(b.ReadableBytes()).To(Equal(6))
	})

	It("interleaves append and read across many blocks", func() {
		b := buffer.New(64)
		var want []byte
		for i := 0; i < 50; i++ {
			chunk := bytes.Repeat([]byte{byte(i)}, 17)
			b.Append(chunk)
			want = append(want, chunk...)
			if i%3 == 0 {
				got := b.Read(10)
				Expect(got).To(Equal(want[:10]))
				want = want[10:]
			}
		}
		got := b.Read(b.ReadableBytes())
		Expect(got).To(Equal(want))
	})

	It("fires the high-water-mark callback once readable drops below it", func() {
		b := buffer.New(64)
		fired := false
		b.Append(bytes.Repeat([]byte("y"), 100))
		b.SetNotifyBehindHighWaterMark(func() { fired = true }, 50)

		b.Retrieve(10)
		Expect(fired).To(BeFalse())

		b.Retrieve(45)
		Expect(fired).To(BeTrue())
	})

	It("exposes writable views that HasWritten can confirm", func() {
		b := buffer.New(64)
		b.Append(bytes.Repeat([]byte("z"), 10))

		views := b.WritableViews()
		Expect(views).NotTo(BeEmpty())
		n := copy(views[0], []byte("abc"))
		b.HasWritten(n)

		Expect(b.ReadableBytes()).To(Equal(13))
	})

	It("exposes readable views spanning a single block", func() {
		b := buffer.New(64)
		b.Append([]byte("payload"))
		views := b.ReadableViews()
		var got []byte
		for _, v := range views {
			got = append(got, v...)
		}
		Expect(got).To(Equal([]byte("payload")))
	})

	It("drains to empty across many small append/retrieve cycles", func() {
		b := buffer.New(64)
		for i := 0; i < 40; i++ {
			b.Append(bytes.Repeat([]byte("w"), 8))
			b.Retrieve(8)
		}
		stats := b.Stats()
		Expect(stats.ReadableBytes).To(Equal(0))
	})
})
