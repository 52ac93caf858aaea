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

package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-fysob/netengine/duration"
	"github.com/go-fysob/netengine/internal/netkind"
	"github.com/go-fysob/netengine/socket/config"
)

var _ = Describe("Server", func() {
	It("rejects an empty address", func() {
		s := config.Server{Network: netkind.TCP}
		Expect(s.Validate()).To(MatchError(config.ErrInvalidAddress))
	})

	It("rejects an invalid network", func() {
		s := config.Server{Address: "127.0.0.1:9000"}
		Expect(s.Validate()).To(MatchError(config.ErrInvalidNetwork))
	})

	It("accepts a valid TCP configuration", func() {
		s := config.Server{
			Network:        netkind.TCP,
			Address:        "127.0.0.1:9000",
			ConIdleTimeout: duration.Minutes(5),
		}
		Expect(s.Validate()).To(Succeed())
	})
})

var _ = Describe("Client", func() {
	It("rejects an empty address", func() {
		c := config.Client{Network: netkind.TCP}
		Expect(c.Validate()).To(MatchError(config.ErrInvalidAddress))
	})

	It("accepts a valid TCP configuration", func() {
		c := config.Client{Network: netkind.TCP, Address: "127.0.0.1:9000"}
		Expect(c.Validate()).To(Succeed())
	})
})
