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

// Package netkind is a trimmed protocol enum: the core only ever dials or
// listens on stream sockets, so the value space is restricted to the three
// TCP network names net.Dial accepts, instead of the full unix/udp/ip family.
package netkind

import (
	"strconv"
	"strings"
)

// Protocol identifies one of the TCP network names accepted by net.Dial
// and net.Listen ("tcp", "tcp4", "tcp6"). The zero value, Empty, is never
// valid for dialing or listening.
type Protocol uint8

const (
	Empty Protocol = iota
	TCP
	TCP4
	TCP6
)

// String returns the net.Dial network name, or "" for Empty or an
// out-of-range value.
func (p Protocol) String() string {
	switch p {
	case TCP:
		return "tcp"
	case TCP4:
		return "tcp4"
	case TCP6:
		return "tcp6"
	default:
		return ""
	}
}

// Valid reports whether p is one of TCP, TCP4, TCP6.
func (p Protocol) Valid() bool {
	return p == TCP || p == TCP4 || p == TCP6
}

// Parse accepts the network name case-insensitively, trimmed of
// surrounding whitespace and a single layer of quoting (so config values
// lifted straight from a quoted YAML/TOML scalar still parse). Anything
// else, including udp/unix/ip names that the broader corpus's protocol
// enum would accept, returns Empty: this core is TCP-only.
func Parse(s string) Protocol {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '`' && s[len(s)-1] == '`') {
			s = s[1 : len(s)-1]
		}
	}
	switch strings.ToLower(s) {
	case "tcp":
		return TCP
	case "tcp4":
		return TCP4
	case "tcp6":
		return TCP6
	default:
		return Empty
	}
}

// ParseBytes is Parse over a byte slice, avoiding a caller-side string
// conversion on the hot config-load path.
func ParseBytes(b []byte) Protocol {
	return Parse(string(b))
}

func (p Protocol) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

func (p *Protocol) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		s = string(b)
	}
	*p = Parse(s)
	return nil
}

func (p Protocol) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

func (p *Protocol) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*p = Parse(s)
	return nil
}

func (p Protocol) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Protocol) UnmarshalText(b []byte) error {
	*p = ParseBytes(b)
	return nil
}
