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

package rwlock_test

import (
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-fysob/netengine/rwlock"
)

var _ = Describe("RWMutex", func() {
	It("allows concurrent readers", func() {
		var l rwlock.RWMutex
		var active int32
		var maxSeen int32
		var wg sync.WaitGroup

		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				l.RLock()
				defer l.RUnlock()
				n := atomic.AddInt32(&active, 1)
				for {
					m := atomic.LoadInt32(&maxSeen)
					if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&active, -1)
			}()
		}
		wg.Wait()
		Expect(atomic.LoadInt32(&maxSeen)).To(BeNumerically(">", 1))
	})

	It("excludes readers while a writer holds the lock", func() {
		var l rwlock.RWMutex
		var inWrite int32

		l.Lock()
		done := make(chan struct{})
		go func() {
			l.RLock()
			Expect(atomic.LoadInt32(&inWrite)).To(Equal(int32(0)))
			l.RUnlock()
			close(done)
		}()

		time.Sleep(10 * time.Millisecond)
		atomic.StoreInt32(&inWrite, 1)
		atomic.StoreInt32(&inWrite, 0)
		l.Unlock()
		Eventually(done, time.Second).Should(BeClosed())
	})

	It("gives a waiting writer priority over new readers", func() {
		var l rwlock.RWMutex
		var order []string
		var mu sync.Mutex
		record := func(s string) {
			mu.Lock()
			order = append(order, s)
			mu.Unlock()
		}

		l.RLock() // hold a read lock so the writer below must wait

		writerStarted := make(chan struct{})
		go func() {
			close(writerStarted)
			l.Lock()
			record("writer")
			l.Unlock()
		}()
		<-writerStarted
		time.Sleep(20 * time.Millisecond) // let the writer queue up

		readerDone := make(chan struct{})
		go func() {
			l.RLock()
			record("late-reader")
			l.RUnlock()
			close(readerDone)
		}()
		time.Sleep(20 * time.Millisecond)

		l.RUnlock() // release the original reader; writer should go next

		Eventually(readerDone, time.Second).Should(BeClosed())
		mu.Lock()
		defer mu.Unlock()
		Expect(order).To(Equal([]string{"writer", "late-reader"}))
	})
})

var _ = Describe("Map", func() {
	It("stores and loads values", func() {
		m := rwlock.NewMap[string, int]()
		m.Store("a", 1)
		v, ok := m.Load("a")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(1))
	})

	It("LoadOrStore only stores when absent", func() {
		m := rwlock.NewMap[string, int]()
		actual, loaded := m.LoadOrStore("k", 1)
		Expect(loaded).To(BeFalse())
		Expect(actual).To(Equal(1))

		actual, loaded = m.LoadOrStore("k", 2)
		Expect(loaded).To(BeTrue())
		Expect(actual).To(Equal(1))
	})

	It("LoadAndDelete removes the entry", func() {
		m := rwlock.NewMap[string, int]()
		m.Store("k", 5)
		v, loaded := m.LoadAndDelete("k")
		Expect(loaded).To(BeTrue())
		Expect(v).To(Equal(5))
		Expect(m.Len()).To(Equal(0))
	})

	It("Range visits every stored entry", func() {
		m := rwlock.NewMap[int, int]()
		for i := 0; i < 5; i++ {
			m.Store(i, i*i)
		}
		seen := map[int]int{}
		m.Range(func(k, v int) bool {
			seen[k] = v
			return true
		})
		Expect(seen).To(HaveLen(5))
		Expect(seen[3]).To(Equal(9))
	})
})
