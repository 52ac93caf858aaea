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

// Package rwlock is a writer-preferring reader/writer mutex: once a writer
// is waiting, new readers block behind it instead of starving it the way
// sync.RWMutex's reader-preferring scheduling can under sustained read
// load. The server's session registry and the embedder's context
// registry (both a Map) read far more often than they mutate, but the
// mutations (session open/close) need a latency bound even while reads
// are churning.
package rwlock

import "sync"

// RWMutex is a writer-preferring reader/writer lock. The zero value is
// ready to use.
type RWMutex struct {
	mu       sync.Mutex
	condR    sync.Cond
	condW    sync.Cond
	readCnt  int
	writeCnt int
	writeHeld bool
	initOnce sync.Once
}

func (l *RWMutex) init() {
	l.initOnce.Do(func() {
		l.condR.L = &l.mu
		l.condW.L = &l.mu
	})
}

// RLock acquires a read lock, blocking while any writer holds or is
// waiting for the lock.
func (l *RWMutex) RLock() {
	l.init()
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.writeCnt > 0 {
		l.condR.Wait()
	}
	l.readCnt++
}

// RUnlock releases a read lock. The last reader out wakes a waiting
// writer, if any.
func (l *RWMutex) RUnlock() {
	l.init()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readCnt--
	if l.readCnt == 0 && l.writeCnt > 0 {
		l.condW.Signal()
	}
}

// Lock acquires the write lock, blocking until no reader holds it and no
// other writer holds it. Entering increments writeCnt first, so any
// reader that arrives afterward queues behind this writer.
func (l *RWMutex) Lock() {
	l.init()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writeCnt++
	for l.readCnt > 0 || l.writeHeld {
		l.condW.Wait()
	}
	l.writeHeld = true
}

// Unlock releases the write lock. If this was the last pending writer,
// every blocked reader is released; otherwise the next writer is woken.
func (l *RWMutex) Unlock() {
	l.init()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writeCnt--
	l.writeHeld = false
	if l.writeCnt == 0 {
		l.condR.Broadcast()
	} else {
		l.condW.Signal()
	}
}
