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

package errors

import "sort"

// idMsgFct maps the first CodeError of a registered range to the function
// that turns any code in that range into a message. Ranges are looked up
// by floor: a code resolves to the closest registered minimum at or below it.
var idMsgFct = make(map[CodeError]Message)

// Message generates the human-readable text for a CodeError.
type Message func(code CodeError) (message string)

// CodeError is a numeric error classification, registered in ranges by
// the package that owns it.
type CodeError uint16

const (
	// UnknownError is the fallback code for errors with no registered range.
	UnknownError CodeError = 0

	UnknownMessage = "unknown error"
	NullMessage    = ""
)

func (c CodeError) Uint16() uint16 { return uint16(c) }

// Message looks up the text registered for c's range, falling back to
// UnknownMessage if no range covers it or the range's function returns "".
func (c CodeError) Message() string {
	if c == UnknownError {
		return UnknownMessage
	}

	if f, ok := idMsgFct[floorCode(c)]; ok {
		if m := f(c); m != "" {
			return m
		}
	}

	return UnknownMessage
}

// Error builds an Error carrying c's code, c's registered message, and p
// as parents.
func (c CodeError) Error(p ...error) Error {
	return New(c.Uint16(), c.Message(), p...)
}

// IfError builds an Error the same way Error does, but only if at least
// one of e is non-nil; otherwise it returns nil. errors/pool uses this to
// turn a slice of collected errors into a single combined error only when
// there's something to report.
func (c CodeError) IfError(e ...error) Error {
	return IfError(c.Uint16(), c.Message(), e...)
}

// RegisterIdFctMessage registers fct as the message source for every code
// from minCode up to (but not including) the next registered range.
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	idMsgFct[minCode] = fct
}

func floorCode(code CodeError) CodeError {
	keys := make([]int, 0, len(idMsgFct))
	for k := range idMsgFct {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)

	var res CodeError
	for _, k := range keys {
		if CodeError(k) <= code {
			res = CodeError(k)
		}
	}
	return res
}
