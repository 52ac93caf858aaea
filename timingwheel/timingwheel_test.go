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

package timingwheel_test

import (
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-fysob/netengine/timingwheel"
)

var _ = Describe("Wheel", func() {
	It("fires a one-shot task once its interval elapses", func() {
		w := timingwheel.New()
		var fired int32
		w.Insert(30*time.Millisecond, false, func() {
			atomic.AddInt32(&fired, 1)
		})

		Eventually(func() int32 {
			w.Tick()
			return atomic.LoadInt32(&fired)
		}, time.Second, 5*time.Millisecond).Should(Equal(int32(1)))

		Consistently(func() int32 {
			w.Tick()
			return atomic.LoadInt32(&fired)
		}, 50*time.Millisecond, 5*time.Millisecond).Should(Equal(int32(1)))
	})

	It("re-arms a circular task after each firing", func() {
		w := timingwheel.New()
		var fired int32
		w.Insert(20*time.Millisecond, true, func() {
			atomic.AddInt32(&fired, 1)
		})

		Eventually(func() int32 {
			w.Tick()
			return atomic.LoadInt32(&fired)
		}, time.Second, 5*time.Millisecond).Should(BeNumerically(">=", 3))
	})

	It("removes an armed task before it fires", func() {
		w := timingwheel.New()
		var fired int32
		id := w.Insert(50*time.Millisecond, false, func() {
			atomic.AddInt32(&fired, 1)
		})

		Expect(w.Remove(id)).To(BeTrue())
		Expect(w.Remove(id)).To(BeFalse())

		Consistently(func() int32 {
			w.Tick()
			return atomic.LoadInt32(&fired)
		}, 100*time.Millisecond, 5*time.Millisecond).Should(Equal(int32(0)))
	})

	It("reports Len reflecting armed tasks", func() {
		w := timingwheel.New()
		Expect(w.Len()).To(Equal(0))
		id1 := w.Insert(time.Second, false, func() {})
		w.Insert(time.Second, false, func() {})
		Expect(w.Len()).To(Equal(2))
		w.Remove(id1)
		Expect(w.Len()).To(Equal(1))
	})

	It("cascades a far-future task down through the coarser wheels", func() {
		w := timingwheel.New()
		var fired int32
		w.Insert(3*time.Second, false, func() {
			atomic.AddInt32(&fired, 1)
		})

		Eventually(func() int32 {
			w.Tick()
			return atomic.LoadInt32(&fired)
		}, 4*time.Second, 10*time.Millisecond).Should(Equal(int32(1)))
	})

	It("lets a callback re-enter the wheel without deadlocking", func() {
		w := timingwheel.New()
		var mu sync.Mutex
		var ids []uint64

		w.Insert(10*time.Millisecond, false, func() {
			id := w.Insert(10*time.Millisecond, false, func() {})
			mu.Lock()
			ids = append(ids, id)
			mu.Unlock()
		})

		Eventually(func() int {
			w.Tick()
			mu.Lock()
			defer mu.Unlock()
			return len(ids)
		}, time.Second, 5*time.Millisecond).Should(Equal(1))
	})
})
