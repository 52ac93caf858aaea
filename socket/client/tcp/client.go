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

// Package tcp is the outbound half of the core: resolve, dial with a
// timeout, apply socket options, and hand the caller a running session
// over a two-loop iopool.Pool (one loop for socket writes, one for
// pipeline dispatch).
package tcp

import (
	"context"
	"fmt"
	"net"

	"github.com/go-fysob/netengine/iopool"
	"github.com/go-fysob/netengine/pipeline"
	"github.com/go-fysob/netengine/session"
	"github.com/go-fysob/netengine/socket/config"
)

// HandlerFunc attaches the application's handler chain to the
// connection's pipeline once it's established.
type HandlerFunc func(p *pipeline.Pipeline)

// Client dials a single outbound TCP connection and wraps it in a
// session.Session. Unlike Server, which shares pools across every
// accepted connection, a Client owns one small pool of its own --
// there's only ever one session to serve.
type Client struct {
	cfg     config.Client
	handler HandlerFunc

	pool *iopool.Pool
	sess *session.Session
}

// New validates cfg and builds a Client. It does not dial.
func New(cfg config.Client, handler HandlerFunc) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, fmt.Errorf("socket/client/tcp: handler must not be nil")
	}
	pool, err := iopool.New(2, "client")
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, handler: handler, pool: pool}, nil
}

// Connect resolves and dials the configured address, applies socket
// options, and starts the session. The returned session is the same
// one reachable afterwards through Session.
func (c *Client) Connect(ctx context.Context) (*session.Session, error) {
	if err := c.pool.Start(ctx); err != nil {
		return nil, err
	}

	dialer := net.Dialer{Timeout: c.cfg.ConnectTimeout.Time()}
	conn, err := dialer.DialContext(ctx, c.cfg.Network.String(), c.cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("socket/client/tcp: dial: %w", err)
	}

	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}

	scfg := session.Config{
		ReadHighWaterMark:  c.cfg.ReadHighWater,
		WriteHighWaterMark: c.cfg.WriteHighWater,
		InitHandlers:       c.handler,
	}
	sess := session.New(session.NextID(), conn, c.pool.Get(), c.pool.Get(), scfg)
	sess.Start(ctx)
	c.sess = sess
	return sess, nil
}

// Session returns the client's session once Connect has succeeded.
func (c *Client) Session() *session.Session { return c.sess }

// Close shuts the session and the client's io pool down.
func (c *Client) Close(ctx context.Context) error {
	if c.sess != nil {
		c.sess.Close()
	}
	return c.pool.Stop(ctx)
}
