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

// Package codec holds the two built-in frame decoders -- LengthField and
// Delimiter -- as pipeline.Handlers that sit near the head of a chain and
// turn a byte stream into discrete application messages.
package codec

import (
	"fmt"

	"github.com/go-fysob/netengine/buffer"
	"github.com/go-fysob/netengine/internal/xlog"
	"github.com/go-fysob/netengine/pipeline"
)

var log = xlog.New("codec")

// LengthField decodes a stream of length-prefixed frames:
//
//	[optional prefix][length field][optional mid-header][payload]
//
// LengthFieldOffset/Length locate the length field; LengthAdjustment is a
// signed delta added to the decoded value to recover the true frame size
// when the length field doesn't already cover the whole frame;
// InitialBytesToStrip discards leading bytes (commonly the length field
// itself) before the payload is delivered upstream.
type LengthField struct {
	pipeline.BaseHandler

	MaxFrameLength       uint32
	LengthFieldOffset    uint32
	LengthFieldLength    uint32 // one of 1, 2, 4, 8
	LengthAdjustment     int32
	InitialBytesToStrip  uint32
	BigEndian            bool

	lengthFieldEnd uint32
}

// NewLengthField validates the configuration and returns a ready decoder.
// It panics on a configuration that can never produce a valid frame --
// an unsupported field width, or a negative adjustment that would make
// every frame underflow the length field itself -- since both depend
// only on the constructor arguments, never on data off the wire.
func NewLengthField(maxFrameLength, offset, length uint32, adjustment int32, strip uint32, bigEndian bool) *LengthField {
	switch length {
	case 1, 2, 4, 8:
	default:
		panic(fmt.Sprintf("codec: unsupported length field length: %d (expected 1, 2, 4 or 8)", length))
	}

	end := offset + length
	if adjustment < 0 && uint32(-adjustment) > end {
		panic(fmt.Sprintf("codec: length_adjustment %d underflows length_field_end %d", adjustment, end))
	}

	return &LengthField{
		MaxFrameLength:      maxFrameLength,
		LengthFieldOffset:   offset,
		LengthFieldLength:   length,
		LengthAdjustment:    adjustment,
		InitialBytesToStrip: strip,
		BigEndian:           bigEndian,
		lengthFieldEnd:      end,
	}
}

// OnRead drains as many complete frames as the buffer currently holds,
// firing one Read event per frame, then returns once there isn't enough
// data buffered to make progress.
func (d *LengthField) OnRead(ctx *pipeline.Context, msg pipeline.Msg) {
	if msg.Kind != pipeline.KindBuffer || msg.Buffer == nil {
		ctx.FireRead(msg)
		return
	}
	buf := msg.Buffer

	for buf.ReadableBytes() > 0 {
		if uint32(buf.ReadableBytes()) <= d.lengthFieldEnd {
			return
		}

		length := d.peekLength(buf)
		frame := length + uint64(d.LengthAdjustment) + uint64(d.lengthFieldEnd)

		if frame < uint64(d.lengthFieldEnd) {
			log.Warnf("adjusted frame length %d is less than length field end offset %d", frame, d.lengthFieldEnd)
			buf.Retrieve(int(d.lengthFieldEnd))
			return
		}

		if frame > uint64(d.MaxFrameLength) {
			// Deliberately not discarded: the stream is left wedged on a
			// frame that will never fit, same as upstream. Outer policy
			// (the session's read-error handling) is responsible for
			// closing a connection that trips this.
			log.Warnf("frame_length = %d exceeds max_frame_length = %d", frame, d.MaxFrameLength)
			return
		}

		frameLen := int(frame)
		if buf.ReadableBytes() < frameLen {
			return
		}

		if d.InitialBytesToStrip > uint32(frameLen) {
			log.Warnf("adjusted frame length %d is less than initial bytes to strip %d", frameLen, d.InitialBytesToStrip)
			buf.Retrieve(frameLen)
			return
		}

		buf.Retrieve(int(d.InitialBytesToStrip))
		payload := buf.Read(frameLen - int(d.InitialBytesToStrip))
		ctx.FireRead(pipeline.OwnedMsg(payload))
	}
}

func (d *LengthField) peekLength(buf *buffer.Buffer) uint64 {
	switch d.LengthFieldLength {
	case 1:
		return uint64(buf.PeekIndexUint8(int(d.LengthFieldOffset)))
	case 2:
		return uint64(buf.PeekIndexUint16(int(d.LengthFieldOffset), d.BigEndian))
	case 4:
		return uint64(buf.PeekIndexUint32(int(d.LengthFieldOffset), d.BigEndian))
	default: // 8
		return buf.PeekIndexUint64(int(d.LengthFieldOffset), d.BigEndian)
	}
}
