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

package pipeline

import "github.com/go-fysob/netengine/buffer"

// Kind discriminates the payload a Msg is carrying. The C++ original
// dispatched on typeid() against a boost::any; a tagged union plays the
// same role without the runtime type switch or the interface{} boxing
// allocation that a bare `any` payload would cost on every frame.
type Kind int

const (
	// KindBuffer wraps the session's live read buffer, the payload
	// fire_read hands to the head of the chain; frame decoders Peek/Read
	// from it directly rather than receiving a pre-sliced copy.
	KindBuffer Kind = iota
	// KindBytes is a borrowed slice: valid only for the duration of the
	// call that produced it, must not be retained past it.
	KindBytes
	// KindOwned is a slice the receiver may retain; the sender made a
	// copy (or otherwise transferred ownership) before handing it off.
	KindOwned
	KindStr
	KindInt
	KindFloat
)

// Msg is the tagged-union payload that flows through a Pipeline. Only
// the field matching Kind is meaningful.
type Msg struct {
	Kind   Kind
	Buffer *buffer.Buffer
	Bytes  []byte
	Str    string
	Int    int64
	Float  float64
}

func BufferMsg(b *buffer.Buffer) Msg { return Msg{Kind: KindBuffer, Buffer: b} }
func BytesMsg(b []byte) Msg          { return Msg{Kind: KindBytes, Bytes: b} }
func OwnedMsg(b []byte) Msg          { return Msg{Kind: KindOwned, Bytes: b} }
func StrMsg(s string) Msg            { return Msg{Kind: KindStr, Str: s} }
func IntMsg(v int64) Msg             { return Msg{Kind: KindInt, Int: v} }
func FloatMsg(v float64) Msg         { return Msg{Kind: KindFloat, Float: v} }

// byteLen reports the wire length Msg would contribute to a write
// buffer, for the session's write-notification accounting. Int and
// Float always serialize as 8 bytes (see Pipeline.doWrite).
func (m Msg) byteLen() int {
	switch m.Kind {
	case KindBuffer:
		if m.Buffer == nil {
			return 0
		}
		return m.Buffer.ReadableBytes()
	case KindBytes, KindOwned:
		return len(m.Bytes)
	case KindStr:
		return len(m.Str)
	case KindInt, KindFloat:
		return 8
	default:
		return 0
	}
}
