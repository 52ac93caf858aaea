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

// Package buffer is a segmented byte ring: a list of fixed-size blocks
// that grows by appending blocks instead of reallocating and copying a
// single backing array, and recycles fully-drained blocks to the tail
// instead of freeing them. It is safe for exactly one writer goroutine
// (append/has-written) concurrent with exactly one reader goroutine
// (peek/read/retrieve) -- not for multiple writers or multiple readers.
package buffer

import (
	"container/list"
	"sync"

	"github.com/go-fysob/netengine/internal/endian"
	"github.com/go-fysob/netengine/internal/metrics"
)

const (
	// InitialSize is the default block granularity new buffers round up to.
	InitialSize = 512
	// remainRatio gates the low-water top-up in checkToAddBlock: once less
	// than 1/remainRatio of a block's worth of space remains writable, one
	// more block is appended ahead of need.
	remainRatio = 8
	// lowUseCeilCount is how many consecutive adjustBuffer calls must
	// find more than 3 blocks held with (readable+writable)/2 below total
	// before a shrink pass reclaims trailing blocks.
	lowUseCeilCount = 10
)

type block struct {
	data []byte
}

func newBlock(size int) *block { return &block{data: make([]byte, size)} }

// Buffer is a segmented, growable, shrinkable byte buffer.
type Buffer struct {
	blocks    *list.List
	readElem  *list.Element
	readIndex int

	writeMu   sync.Mutex
	writeElem *list.Element
	writeIndex int

	blockSize     int
	readableBytes int
	writableBytes int
	totalBytes    int
	lowUseCount   int
	active        bool

	highWaterMark int
	notifyLowMark func()
}

// New returns a Buffer whose block size is initialSize rounded up to the
// nearest multiple of InitialSize. The buffer starts with a single
// 1-byte placeholder block; the first Append or HasWritten call expands
// it into two real blocks of blockSize.
func New(initialSize int) *Buffer {
	if initialSize <= 0 {
		initialSize = InitialSize
	}
	blockSize := ((initialSize + InitialSize - 1) / InitialSize) * InitialSize

	b := &Buffer{
		blocks:        list.New(),
		blockSize:     blockSize,
		writableBytes: 1,
		totalBytes:    1,
	}
	fake := b.blocks.PushBack(newBlock(1))
	b.readElem = fake
	b.writeElem = fake
	return b
}

// ReadableBytes is the number of bytes available to Peek/Read.
func (b *Buffer) ReadableBytes() int { return b.readableBytes }

// WritableBytes is the number of bytes available before Append grows
// the buffer.
func (b *Buffer) WritableBytes() int { return b.writableBytes }

// Stats is a point-in-time snapshot suitable for metrics export.
type Stats struct {
	Blocks        int
	TotalBytes    int
	ReadableBytes int
	WritableBytes int
}

func (b *Buffer) Stats() Stats {
	return Stats{
		Blocks:        b.blocks.Len(),
		TotalBytes:    b.totalBytes,
		ReadableBytes: b.readableBytes,
		WritableBytes: b.writableBytes,
	}
}

// SetNotifyBehindHighWaterMark arms a one-shot callback fired the next
// time Retrieve brings readableBytes back under mark. The callback is
// cleared after it fires; call this again to re-arm it.
func (b *Buffer) SetNotifyBehindHighWaterMark(handler func(), mark int) {
	b.notifyLowMark = handler
	b.highWaterMark = mark
}

func (b *Buffer) checkActive() {
	if b.active {
		return
	}
	first := b.blocks.Front().Value.(*block)
	saved := first.data[0]
	nb := newBlock(b.blockSize)
	nb.data[0] = saved
	b.blocks.Front().Value = nb

	b.blocks.PushBack(newBlock(b.blockSize))
	b.writableBytes = 2 * b.blockSize
	b.totalBytes = 2 * b.blockSize
	b.active = true
}

func (b *Buffer) addBlock() int {
	b.blocks.PushBack(newBlock(b.blockSize))
	b.writableBytes += b.blockSize
	b.totalBytes += b.blockSize
	return b.blockSize
}

func (b *Buffer) checkToAddBlock(need int) {
	if need > b.writableBytes {
		need = b.writableBytes
	}
	if b.writableBytes-need < b.blockSize/remainRatio {
		b.addBlock()
	}
}

// adjustBuffer recycles fully-drained blocks from the front of the list
// to the tail, then ensures at least need bytes are writable, appending
// new blocks as required. When capacity is consistently underused, it
// reclaims trailing blocks down to roughly 3/4 of current total.
func (b *Buffer) adjustBuffer(need int) {
	for b.blocks.Front() != b.readElem {
		front := b.blocks.Front()
		b.blocks.MoveToBack(front)
		b.writableBytes += front.Value.(*block).len()
	}

	if b.writableBytes >= need {
		b.checkToAddBlock(need)

		if b.blocks.Len() > 3 && (b.readableBytes+b.writableBytes)/2 < b.totalBytes {
			b.lowUseCount++
		} else {
			b.lowUseCount = 0
		}
		if b.lowUseCount >= lowUseCeilCount {
			reduce := b.totalBytes / 4
			shrunk := false
			for b.blocks.Back() != b.writeElem && b.blocks.Back() != b.readElem && reduce >= b.blocks.Back().Value.(*block).len() {
				back := b.blocks.Back()
				sz := back.Value.(*block).len()
				reduce -= sz
				b.totalBytes -= sz
				b.writableBytes -= sz
				b.blocks.Remove(back)
				shrunk = true
			}
			if shrunk {
				metrics.BufferShrinksTotal.Inc()
			}
			b.lowUseCount = 0
		}
		return
	}

	b.lowUseCount = 0
	remain := need - b.writableBytes
	for remain > 0 {
		sz := b.addBlock()
		if remain > sz {
			remain -= sz
		} else {
			remain = 0
		}
	}
	b.checkToAddBlock(need)
}

func (bl *block) len() int { return len(bl.data) }

func (b *Buffer) getWriteIndex() (*list.Element, int) {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	return b.writeElem, b.writeIndex
}

func (b *Buffer) setWriteIndex(e *list.Element, idx int) {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	b.writeElem = e
	b.writeIndex = idx
}

// adjustIndex walks (elem, index) forward by n bytes across block
// boundaries, returning the new position.
func adjustIndex(n int, elem *list.Element, index int) (*list.Element, int) {
	size := elem.Value.(*block).len()
	remain := size - index
	if remain > n {
		return elem, index + n
	}
	n -= remain
	elem = elem.Next()
	size = elem.Value.(*block).len()
	for size <= n {
		n -= size
		elem = elem.Next()
		size = elem.Value.(*block).len()
	}
	return elem, n
}

func (b *Buffer) writeBytes(n int) {
	b.readableBytes += n
	b.writableBytes -= n
}

// Append copies data into the buffer, growing it first if necessary.
func (b *Buffer) Append(data []byte) *Buffer {
	n := len(data)
	if n == 0 {
		return b
	}
	b.checkActive()
	b.adjustBuffer(n)

	elem, idx := b.getWriteIndex()
	blk := elem.Value.(*block)
	remain := blk.len() - idx
	if remain > n {
		copy(blk.data[idx:], data)
	} else {
		copy(blk.data[idx:], data[:remain])
		data = data[remain:]
		elem = elem.Next()
		blk = elem.Value.(*block)
		for blk.len() <= len(data) {
			copy(blk.data, data[:blk.len()])
			data = data[blk.len():]
			elem = elem.Next()
			blk = elem.Value.(*block)
		}
		copy(blk.data, data)
	}

	newElem, newIdx := adjustIndex(n, elem, idx)
	b.setWriteIndex(newElem, newIdx)
	b.writeBytes(n)
	return b
}

// AppendUint16 appends v in the requested byte order.
func (b *Buffer) AppendUint16(v uint16, bigEndian bool) *Buffer {
	var tmp [2]byte
	endian.PutUint16(tmp[:], v, bigEndian)
	return b.Append(tmp[:])
}

func (b *Buffer) AppendUint32(v uint32, bigEndian bool) *Buffer {
	var tmp [4]byte
	endian.PutUint32(tmp[:], v, bigEndian)
	return b.Append(tmp[:])
}

func (b *Buffer) AppendUint64(v uint64, bigEndian bool) *Buffer {
	var tmp [8]byte
	endian.PutUint64(tmp[:], v, bigEndian)
	return b.Append(tmp[:])
}

// HasWritten advances the write cursor by n bytes without copying data,
// for use after filling the slices returned by WritableViews directly
// (e.g. from a net.Conn.Read into scatter buffers).
func (b *Buffer) HasWritten(n int) {
	if n > b.writableBytes {
		n = b.writableBytes
	}
	b.checkActive()
	b.adjustBuffer(n)

	elem, idx := b.getWriteIndex()
	newElem, newIdx := adjustIndex(n, elem, idx)
	b.setWriteIndex(newElem, newIdx)
	b.writeBytes(n)
}

// Peek copies up to n readable bytes without consuming them.
func (b *Buffer) Peek(n int) []byte {
	if n > b.readableBytes {
		n = b.readableBytes
	}
	out := make([]byte, n)
	if n == 0 {
		return out
	}

	elem := b.readElem
	idx := b.readIndex
	blk := elem.Value.(*block)
	remain := blk.len() - idx

	if remain > n {
		copy(out, blk.data[idx:idx+n])
		return out
	}

	copy(out, blk.data[idx:idx+remain])
	pos := remain
	left := n - remain
	elem = elem.Next()
	blk = elem.Value.(*block)
	for blk.len() <= left {
		copy(out[pos:], blk.data[:blk.len()])
		pos += blk.len()
		left -= blk.len()
		elem = elem.Next()
		blk = elem.Value.(*block)
	}
	copy(out[pos:], blk.data[:left])
	return out
}

// PeekIndex returns the width bytes starting at readable offset index
// without consuming them.
func (b *Buffer) PeekIndex(index, width int) []byte {
	return b.peekWindow(index, width)
}

// PeekIndexUint8 reads 1 byte starting at readable offset index
// without consuming it.
func (b *Buffer) PeekIndexUint8(index int) uint8 {
	return b.peekWindow(index, 1)[0]
}

// PeekIndexUint16 reads 2 bytes starting at readable offset index
// without consuming them.
func (b *Buffer) PeekIndexUint16(index int, bigEndian bool) uint16 {
	return endian.Uint16(b.peekWindow(index, 2), bigEndian)
}

func (b *Buffer) PeekIndexUint32(index int, bigEndian bool) uint32 {
	return endian.Uint32(b.peekWindow(index, 4), bigEndian)
}

func (b *Buffer) PeekIndexUint64(index int, bigEndian bool) uint64 {
	return endian.Uint64(b.peekWindow(index, 8), bigEndian)
}

// peekWindow peeks index+width bytes and returns the trailing width-byte
// window, mirroring peek_index_endian's "peek the prefix, copy the tail"
// approach without needing random access into the block list.
func (b *Buffer) peekWindow(index, width int) []byte {
	total := b.Peek(index + width)
	return total[index : index+width]
}

// Read copies n readable bytes and consumes them.
func (b *Buffer) Read(n int) []byte {
	out := b.Peek(n)
	b.Retrieve(n)
	return out
}

func (b *Buffer) ReadUint16(bigEndian bool) uint16 {
	return endian.Uint16(b.Read(2), bigEndian)
}

func (b *Buffer) ReadUint32(bigEndian bool) uint32 {
	return endian.Uint32(b.Read(4), bigEndian)
}

func (b *Buffer) ReadUint64(bigEndian bool) uint64 {
	return endian.Uint64(b.Read(8), bigEndian)
}

// Retrieve consumes n readable bytes without copying them out, and fires
// the armed high-water-mark callback if readableBytes just dropped
// below it.
func (b *Buffer) Retrieve(n int) {
	if n > b.readableBytes {
		n = b.readableBytes
	}
	b.readElem, b.readIndex = adjustIndex(n, b.readElem, b.readIndex)
	b.readableBytes -= n

	if b.notifyLowMark != nil && b.readableBytes < b.highWaterMark {
		fn := b.notifyLowMark
		b.notifyLowMark = nil
		b.highWaterMark = 0
		fn()
	}
}

// WritableViews returns the writable region as a sequence of byte
// slices backed directly by the buffer's blocks, for zero-copy reads
// from a socket. Callers must follow up with HasWritten(n) for the
// number of bytes actually filled.
func (b *Buffer) WritableViews() [][]byte {
	elem, idx := b.getWriteIndex()
	blk := elem.Value.(*block)
	views := [][]byte{blk.data[idx:]}
	for e := elem.Next(); e != nil; e = e.Next() {
		views = append(views, e.Value.(*block).data)
	}
	return views
}

// ReadableViews returns the readable region as a sequence of byte
// slices backed directly by the buffer's blocks, for zero-copy writes
// to a socket (e.g. via net.Buffers). Callers must follow up with
// Retrieve(n) for the number of bytes actually consumed.
func (b *Buffer) ReadableViews() [][]byte {
	writeElem, writeIndex := b.getWriteIndex()
	if b.readElem == writeElem {
		return [][]byte{b.readElem.Value.(*block).data[b.readIndex:writeIndex]}
	}

	views := [][]byte{b.readElem.Value.(*block).data[b.readIndex:]}
	for e := b.readElem.Next(); e != writeElem; e = e.Next() {
		views = append(views, e.Value.(*block).data)
	}
	views = append(views, writeElem.Value.(*block).data[:writeIndex])
	return views
}
