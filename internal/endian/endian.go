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

// Package endian adapts engine/net/endian.h and engine/net/asio_buffer.cpp's
// append_endian/peek_index_endian family. The C++ original byte-swaps an
// in-memory value when the host's native order disagrees with the requested
// wire order; Go has no portable way to inspect host order without unsafe,
// and does not need one here, since every call site already holds the value
// as an explicit byte slice read off the wire. These helpers simply encode
// or decode that slice in the order the caller's bigEndian flag selects.
package endian

import "math"

// PutUint16 writes v into b (len(b) >= 2) in the requested order.
func PutUint16(b []byte, v uint16, bigEndian bool) {
	if bigEndian {
		b[0], b[1] = byte(v>>8), byte(v)
	} else {
		b[0], b[1] = byte(v), byte(v>>8)
	}
}

// Uint16 reads 2 bytes from b in the requested order.
func Uint16(b []byte, bigEndian bool) uint16 {
	if bigEndian {
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return uint16(b[1])<<8 | uint16(b[0])
}

func PutUint32(b []byte, v uint32, bigEndian bool) {
	if bigEndian {
		b[0], b[1], b[2], b[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
	} else {
		b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	}
}

func Uint32(b []byte, bigEndian bool) uint32 {
	if bigEndian {
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	}
	return uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
}

func PutUint64(b []byte, v uint64, bigEndian bool) {
	if bigEndian {
		for i := 0; i < 8; i++ {
			b[i] = byte(v >> uint(56-8*i))
		}
	} else {
		for i := 0; i < 8; i++ {
			b[i] = byte(v >> uint(8*i))
		}
	}
}

func Uint64(b []byte, bigEndian bool) uint64 {
	var v uint64
	if bigEndian {
		for i := 0; i < 8; i++ {
			v = v<<8 | uint64(b[i])
		}
	} else {
		for i := 7; i >= 0; i-- {
			v = v<<8 | uint64(b[i])
		}
	}
	return v
}

func PutFloat32(b []byte, v float32, bigEndian bool) {
	PutUint32(b, math.Float32bits(v), bigEndian)
}

func Float32(b []byte, bigEndian bool) float32 {
	return math.Float32frombits(Uint32(b, bigEndian))
}

func PutFloat64(b []byte, v float64, bigEndian bool) {
	PutUint64(b, math.Float64bits(v), bigEndian)
}

func Float64(b []byte, bigEndian bool) float64 {
	return math.Float64frombits(Uint64(b, bigEndian))
}

// Width returns sizeof(T) for the fixed-width integer field widths the
// length-field decoder accepts.
func Width(bits int) int { return bits / 8 }
