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

package codec

import (
	"bytes"
	"fmt"

	"github.com/go-fysob/netengine/buffer"
	"github.com/go-fysob/netengine/pipeline"
)

// Delimiter decodes a stream of variable-length records separated by one
// of a configured set of byte-sequence delimiters. When more than one
// delimiter matches, the earliest occurrence in the buffer wins; a tie
// at the same index is broken by the delimiter's position in Delimiters.
type Delimiter struct {
	pipeline.BaseHandler

	MaxFrameLength int
	Delimiters     [][]byte
	StripDelimiter bool
}

// NewDelimiter validates delimiters are non-empty and returns a ready
// decoder. strip controls whether the delimiter itself is included in
// the delivered message.
func NewDelimiter(maxFrameLength int, strip bool, delimiters ...string) *Delimiter {
	converted := make([][]byte, 0, len(delimiters))
	for _, d := range delimiters {
		if d == "" {
			panic(fmt.Sprintf("codec: delimiter %d is empty", len(converted)))
		}
		converted = append(converted, []byte(d))
	}
	return &Delimiter{
		MaxFrameLength: maxFrameLength,
		Delimiters:     converted,
		StripDelimiter: strip,
	}
}

// OnRead drains as many complete records as the buffer currently holds.
func (d *Delimiter) OnRead(ctx *pipeline.Context, msg pipeline.Msg) {
	if msg.Kind != pipeline.KindBuffer || msg.Buffer == nil {
		ctx.FireRead(msg)
		return
	}
	buf := msg.Buffer

	for buf.ReadableBytes() > 0 {
		frameLen, delimIdx := d.earliestMatch(buf)
		if delimIdx < 0 {
			return
		}
		delimLen := len(d.Delimiters[delimIdx])

		if frameLen > d.MaxFrameLength {
			log.Warnf("frame_length = %d exceeds max_frame_length = %d", frameLen, d.MaxFrameLength)
			buf.Retrieve(frameLen + delimLen)
			return
		}

		var payload []byte
		if d.StripDelimiter {
			payload = buf.Read(frameLen)
			buf.Retrieve(delimLen)
		} else {
			payload = buf.Read(frameLen + delimLen)
		}
		ctx.FireRead(pipeline.OwnedMsg(payload))
	}
}

// earliestMatch scans the buffer's readable bytes for the earliest
// occurrence of any configured delimiter, returning the byte offset of
// the match and the winning delimiter's index into Delimiters (-1, -1
// if none match within the currently readable bytes).
func (d *Delimiter) earliestMatch(buf *buffer.Buffer) (int, int) {
	readable := buf.Peek(buf.ReadableBytes())

	best := -1
	bestIdx := -1
	for i, delim := range d.Delimiters {
		idx := bytes.Index(readable, delim)
		if idx < 0 {
			continue
		}
		if best < 0 || idx < best {
			best = idx
			bestIdx = i
		}
	}
	return best, bestIdx
}
