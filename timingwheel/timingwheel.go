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

// Package timingwheel is a five-level hierarchical timing wheel: one
// 256-spoke wheel at 10ms granularity cascading into four 64-spoke
// wheels, each covering a coarser range. Insert and Remove are O(1)
// list-splice operations once a task's spoke is located; Tick walks
// only the spokes elapsed real time has actually passed over, not the
// full task set, so cost stays flat regardless of how many tasks are
// armed.
//
// Per-task lookup (Remove by id) goes through a map, so in practice
// it's O(1) rather than the tree-backed O(log n) the map was first
// sketched with; a map satisfies that bound without needing a custom
// tree.
package timingwheel

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/go-fysob/netengine/internal/metrics"
)

const (
	granularity = 10 * time.Millisecond

	wheelBits1 = 8
	wheelBits2 = 6
	wheelSize1 = 1 << wheelBits1 // 256
	wheelSize2 = 1 << wheelBits2 // 64
	wheelMask1 = wheelSize1 - 1
	wheelMask2 = wheelSize2 - 1
	wheelNum   = 5
)

var (
	threshold1 = uint64(wheelSize1)
	threshold2 = uint64(1) << (wheelBits1 + wheelBits2)
	threshold3 = uint64(1) << (wheelBits1 + 2*wheelBits2)
	threshold4 = uint64(1) << (wheelBits1 + 3*wheelBits2)
)

// Task is an armed callback: Callback runs on the wheel's Tick
// goroutine, never concurrently with itself, and must not block.
type Task struct {
	ID       uint64
	Interval time.Duration
	Circle   bool
	Callback func()
}

type node struct {
	task     Task
	deadline time.Time
	spoke    *list.List
	elem     *list.Element
}

type spokeWheel struct {
	spokes     []*list.List
	size       uint32
	spokeIndex uint32
}

func newSpokeWheel(size uint32) *spokeWheel {
	w := &spokeWheel{spokes: make([]*list.List, size), size: size}
	for i := range w.spokes {
		w.spokes[i] = list.New()
	}
	return w
}

// Wheel is a hierarchical timing wheel. The zero value is not usable;
// construct one with New.
type Wheel struct {
	mu        sync.Mutex
	wheels    [wheelNum]*spokeWheel
	checkTime time.Time
	nodes     map[uint64]*node
	nextID    uint64
}

// New returns a Wheel whose clock starts at the current time.
func New() *Wheel {
	w := &Wheel{
		checkTime: time.Now(),
		nodes:     make(map[uint64]*node),
	}
	w.wheels[0] = newSpokeWheel(wheelSize1)
	for i := 1; i < wheelNum; i++ {
		w.wheels[i] = newSpokeWheel(wheelSize2)
	}
	return w
}

// Len reports how many tasks are currently armed.
func (w *Wheel) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.nodes)
}

// Insert arms a new task and returns its id, usable with Remove.
func (w *Wheel) Insert(interval time.Duration, circle bool, callback func()) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextID++
	id := w.nextID
	task := Task{ID: id, Interval: interval, Circle: circle, Callback: callback}
	w.nodes[id] = w.armTask(task, time.Now().Add(interval))
	metrics.TimersActive.Inc()
	return id
}

// Remove disarms a task. Returns false if the id is unknown, already
// fired (and non-circular), or already removed.
func (w *Wheel) Remove(id uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, ok := w.nodes[id]
	if !ok {
		return false
	}
	delete(w.nodes, id)
	n.spoke.Remove(n.elem)
	metrics.TimersActive.Dec()
	return true
}

// armTask computes which wheel/spoke a task with the given deadline
// belongs in and splices it into that spoke's list, relative to the
// owning wheel's current spoke index -- exactly the index arithmetic
// the single-threaded C++ original uses, just without doing pointer
// arithmetic over raw node_link arrays.
func (w *Wheel) armTask(task Task, deadline time.Time) *node {
	n := &node{task: task, deadline: deadline}
	ms := uint64(time.Until(deadline) / time.Millisecond)
	w.linkNode(n, ms)
	return n
}

func (w *Wheel) linkNode(n *node, msecs uint64) {
	interval := msecs / uint64(granularity/time.Millisecond)

	var spokeList *list.List
	switch {
	case interval < threshold1:
		index := (interval + uint64(w.wheels[0].spokeIndex)) & wheelMask1
		spokeList = w.wheels[0].spokes[index]
	case interval < threshold2:
		index := ((interval - threshold1 + uint64(w.wheels[1].spokeIndex)*threshold1) >> wheelBits1) & wheelMask2
		spokeList = w.wheels[1].spokes[index]
	case interval < threshold3:
		index := ((interval - threshold2 + uint64(w.wheels[2].spokeIndex)*threshold2) >> (wheelBits1 + wheelBits2)) & wheelMask2
		spokeList = w.wheels[2].spokes[index]
	case interval < threshold4:
		index := ((interval - threshold3 + uint64(w.wheels[3].spokeIndex)*threshold3) >> (wheelBits1 + 2*wheelBits2)) & wheelMask2
		spokeList = w.wheels[3].spokes[index]
	default:
		index := ((interval - threshold4 + uint64(w.wheels[4].spokeIndex)*threshold4) >> (wheelBits1 + 3*wheelBits2)) & wheelMask2
		spokeList = w.wheels[4].spokes[index]
	}

	n.spoke = spokeList
	n.elem = spokeList.PushBack(n)
}

// cascade empties the current spoke of wheels[level], redistributing
// each node to a finer wheel (or straight to the ready set, if its
// deadline already passed by the time cascade runs). Recurses into the
// next level up when that level's spoke index also wraps.
func (w *Wheel) cascade(level int, now time.Time, ready *[]*node) {
	if level < 1 || level >= wheelNum {
		return
	}
	wh := w.wheels[level]
	spoke := wh.spokes[wh.spokeIndex]
	wh.spokeIndex++

	var next *list.Element
	for e := spoke.Front(); e != nil; e = next {
		next = e.Next()
		n := spoke.Remove(e).(*node)
		if !n.deadline.After(now) {
			*ready = append(*ready, n)
		} else {
			w.linkNode(n, uint64(n.deadline.Sub(now)/time.Millisecond))
		}
	}

	if wh.spokeIndex >= wh.size {
		wh.spokeIndex = 0
		w.cascade(level+1, now, ready)
	}
}

// Tick advances the wheel by whatever real time has elapsed since the
// last call, firing every task whose spoke the clock has now passed.
// Ready tasks are collected under the lock, which is released before
// any callback runs -- a callback that calls Insert or Remove on this
// same wheel must not deadlock against Tick's own lock.
func (w *Wheel) Tick() {
	var ready []*node

	w.mu.Lock()
	now := time.Now()
	loops := uint64(0)
	if now.After(w.checkTime) {
		loops = uint64(now.Sub(w.checkTime) / granularity)
	}

	wh := w.wheels[0]
	for i := uint64(0); i < loops; i++ {
		spoke := wh.spokes[wh.spokeIndex]
		var next *list.Element
		for e := spoke.Front(); e != nil; e = next {
			next = e.Next()
			n := spoke.Remove(e).(*node)
			ready = append(ready, n)
		}

		wh.spokeIndex++
		if wh.spokeIndex >= wh.size {
			wh.spokeIndex = 0
			w.cascade(1, now, &ready)
		}
		w.checkTime = w.checkTime.Add(granularity)
	}

	toRun := make([]func(), 0, len(ready))
	for _, n := range ready {
		if n.task.Circle {
			w.nodes[n.task.ID] = w.armTask(n.task, now.Add(n.task.Interval))
		} else {
			delete(w.nodes, n.task.ID)
			metrics.TimersActive.Dec()
		}
		toRun = append(toRun, n.task.Callback)
	}
	w.mu.Unlock()

	for _, fn := range toRun {
		fn()
	}
}

// Run drives Tick on a fixed-rate ticker until ctx is cancelled. Its
// signature matches runner.Func, so a runner.Runner can supervise it like
// any other long-lived loop.
func (w *Wheel) Run(ctx context.Context) error {
	ticker := time.NewTicker(granularity)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Tick()
		}
	}
}
