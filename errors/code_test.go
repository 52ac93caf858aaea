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

package errors_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	liberr "github.com/go-fysob/netengine/errors"
)

const testMinCode liberr.CodeError = 9000
const testCode liberr.CodeError = testMinCode + 50

var _ = Describe("CodeError", func() {
	BeforeEach(func() {
		liberr.RegisterIdFctMessage(testMinCode, func(code liberr.CodeError) string {
			if code == testCode {
				return "errors: test sentinel"
			}
			return ""
		})
	})

	It("resolves a registered code to its message", func() {
		Expect(testCode.Message()).To(Equal("errors: test sentinel"))
	})

	It("falls back to the unknown message for an unregistered code", func() {
		Expect(liberr.UnknownError.Message()).To(Equal(liberr.UnknownMessage))
	})

	It("builds an Error carrying its code and message", func() {
		err := testCode.Error(nil)
		Expect(err.Code()).To(Equal(testCode.Uint16()))
		Expect(err.IsCode(testCode)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("errors: test sentinel"))
	})

	It("IfError returns nil with no non-nil parent", func() {
		Expect(testCode.IfError()).To(BeNil())
		Expect(testCode.IfError(nil, nil)).To(BeNil())
	})

	It("IfError returns a combined Error once given a real parent", func() {
		err := testCode.IfError(nil, liberr.New(0, "boom"))
		Expect(err).ToNot(BeNil())
		Expect(err.Unwrap()).To(HaveLen(1))
	})
})
