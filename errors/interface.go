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

// Package errors provides error codes with a registered message per range
// and a trace of where the error was created, built on top of Go's
// standard errors.Is/As via Unwrap.
//
// socket/config builds its sentinel errors from a CodeError range; errors/pool
// combines collected errors through UnknownError.IfError.
package errors

import (
	"errors"
	"fmt"
)

// Error extends error with the code it carries and its registration
// trace, and participates in errors.Is/As through Unwrap.
type Error interface {
	error

	// Code returns the numeric code this error was built with.
	Code() uint16
	// IsCode reports whether code matches this error's own code.
	IsCode(code CodeError) bool
	// Unwrap exposes this error's parents to errors.Is/As.
	Unwrap() []error
}

// Is reports whether e is an Error.
func Is(e error) bool {
	var err Error
	return errors.As(e, &err)
}

// Get returns e as an Error if it is one, nil otherwise.
func Get(e error) Error {
	var err Error
	if errors.As(e, &err) {
		return err
	}
	return nil
}

// Make wraps e in an Error, returning e unchanged if it already is one.
func Make(e error) Error {
	if e == nil {
		return nil
	}
	if err := Get(e); err != nil {
		return err
	}
	return &ers{c: 0, e: e.Error(), t: getTrace()}
}

// New builds an Error with the given code, message, and parents.
func New(code uint16, message string, parent ...error) Error {
	return &ers{c: code, e: message, p: makeParents(parent), t: getTrace()}
}

// IfError builds an Error the same way New does, but only if at least one
// of parent is non-nil; otherwise it returns nil.
func IfError(code uint16, message string, parent ...error) Error {
	p := makeParents(parent)
	if len(p) < 1 {
		return nil
	}
	return &ers{c: code, e: message, p: p, t: getTrace()}
}

func makeParents(parent []error) []error {
	p := make([]error, 0, len(parent))
	for _, e := range parent {
		if er := Make(e); er != nil {
			p = append(p, er)
		}
	}
	return p
}

type ers struct {
	c uint16
	e string
	p []error
	t string
}

func (e *ers) Error() string {
	if e.t != "" {
		return fmt.Sprintf("[%d] %s (%s)", e.c, e.e, e.t)
	}
	return fmt.Sprintf("[%d] %s", e.c, e.e)
}

func (e *ers) Code() uint16           { return e.c }
func (e *ers) IsCode(c CodeError) bool { return e.c == c.Uint16() }
func (e *ers) Unwrap() []error        { return e.p }
