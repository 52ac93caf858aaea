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

// Package config holds the plain configuration structs a socket/server/tcp
// or socket/client/tcp instance is constructed from: address, network kind,
// idle/high-water tuning, and pool sizing.
package config

import (
	"github.com/go-fysob/netengine/duration"
	liberr "github.com/go-fysob/netengine/errors"
	"github.com/go-fysob/netengine/internal/netkind"
)

const (
	codeInvalidAddress liberr.CodeError = liberr.MinPkgConfig + iota
	codeInvalidNetwork
)

// ErrInvalidAddress is returned when a Server or Client's Address is empty.
// The address is not otherwise parsed here.
var ErrInvalidAddress liberr.Error

// ErrInvalidNetwork is returned when Network isn't a supported protocol.
var ErrInvalidNetwork liberr.Error

// init must register the message function before building the sentinel
// errors below: CodeError.Error bakes in c.Message() at call time, so
// building ErrInvalidAddress/ErrInvalidNetwork ahead of registration
// would freeze them with no message.
func init() {
	liberr.RegisterIdFctMessage(codeInvalidAddress, func(code liberr.CodeError) string {
		switch code {
		case codeInvalidAddress:
			return "socket/config: invalid address"
		case codeInvalidNetwork:
			return "socket/config: invalid network"
		}
		return ""
	})
	ErrInvalidAddress = codeInvalidAddress.Error(nil)
	ErrInvalidNetwork = codeInvalidNetwork.Error(nil)
}

// Server configures an accept loop: listen address, idle-connection
// reclamation, per-session high-water marks, and pool sizing.
type Server struct {
	Network netkind.Protocol
	Address string

	// ConIdleTimeout is the idle sweep window: a session with zero
	// completed reads between two consecutive sweeps is closed. Zero
	// disables the sweep.
	ConIdleTimeout duration.Duration

	// IOPoolSize and WorkerPoolSize size the server's I/O and worker
	// iopool.Pool instances. Both default to 1 when <= 0.
	IOPoolSize     int
	WorkerPoolSize int

	ReadHighWater  int
	WriteHighWater int
}

// Validate checks the fields required to open a listener.
func (s Server) Validate() error {
	if s.Address == "" {
		return ErrInvalidAddress
	}
	if !s.Network.Valid() {
		return ErrInvalidNetwork
	}
	return nil
}

// Client configures an outbound connection: remote address, per-session
// high-water marks, and the connect timeout.
type Client struct {
	Network netkind.Protocol
	Address string

	ConnectTimeout duration.Duration

	ReadHighWater  int
	WriteHighWater int
}

// Validate checks the fields required to dial.
func (c Client) Validate() error {
	if c.Address == "" {
		return ErrInvalidAddress
	}
	if !c.Network.Valid() {
		return ErrInvalidNetwork
	}
	return nil
}
