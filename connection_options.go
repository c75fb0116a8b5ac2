// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package btcwire

import (
	"log/slog"
	"net"

	"github.com/blinklabs-io/gobtcwire/capture"
)

// ConnectionOptionFunc is a type that represents functions that modify the Connection config
type ConnectionOptionFunc func(*Connection)

// WithConnection specifies an existing connection to use. If none is provided, the Dial() function can be
// used to create one later
func WithConnection(conn net.Conn) ConnectionOptionFunc {
	return func(c *Connection) {
		c.conn = conn
	}
}

// WithNetwork specifies the network. The default is mainnet
func WithNetwork(network Network) ConnectionOptionFunc {
	return func(c *Connection) {
		c.network = network
	}
}

// WithLogger specifies the logger. If none is provided, slog.Default() is used
func WithLogger(logger *slog.Logger) ConnectionOptionFunc {
	return func(c *Connection) {
		c.logger = logger
	}
}

// WithErrorChan specifies the error channel to use. If none is provided, one will be created
func WithErrorChan(errorChan chan error) ConnectionOptionFunc {
	return func(c *Connection) {
		c.errorChan = errorChan
	}
}

// WithMaxPayloadLength specifies the largest payload accepted from the peer
func WithMaxPayloadLength(maxPayloadLength uint32) ConnectionOptionFunc {
	return func(c *Connection) {
		c.maxPayloadLength = maxPayloadLength
	}
}

// WithReadBufferSize specifies the size of each read from the network
func WithReadBufferSize(size int) ConnectionOptionFunc {
	return func(c *Connection) {
		c.readBufferSize = size
	}
}

// WithCapture records every message sent and received to the provided writer
func WithCapture(w *capture.Writer) ConnectionOptionFunc {
	return func(c *Connection) {
		c.capture = w
	}
}

// WithAutoPong specifies whether to answer ping messages automatically. This is disabled by default
func WithAutoPong(autoPong bool) ConnectionOptionFunc {
	return func(c *Connection) {
		c.autoPong = autoPong
	}
}

// WithStrictDecoding specifies whether a payload that fails to decode is reported on the error channel
// and closes the connection. By default such messages are logged and dropped
func WithStrictDecoding(strictDecoding bool) ConnectionOptionFunc {
	return func(c *Connection) {
		c.strictDecoding = strictDecoding
	}
}
