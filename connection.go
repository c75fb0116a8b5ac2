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

// Package btcwire implements support for talking to Bitcoin nodes using the
// peer-to-peer wire protocol.
//
// The wire, message, payload and parser packages provide the codec, the
// message envelope, the typed payloads and an incremental stream parser. This
// package ties them to a network connection and adds the version handshake,
// a peer manager and address helpers.
package btcwire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/blinklabs-io/gobtcwire/capture"
	"github.com/blinklabs-io/gobtcwire/message"
	"github.com/blinklabs-io/gobtcwire/parser"
	"github.com/blinklabs-io/gobtcwire/payload"
)

const (
	// DefaultReadBufferSize is the size of the buffer used for each read from the network
	DefaultReadBufferSize = 64 * 1024
	// DefaultMessageChanSize is the number of decoded payloads buffered for the consumer
	DefaultMessageChanSize = 100
)

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrAlreadyConnected = errors.New("a connection was already established")
	ErrHandshakeFailed  = errors.New("handshake failed")
	ErrInvalidNetwork   = errors.New("invalid network")
)

// ConnectionId uniquely identifies a connection by its endpoints
type ConnectionId struct {
	LocalAddr  net.Addr
	RemoteAddr net.Addr
}

func (c ConnectionId) String() string {
	var local, remote string
	if c.LocalAddr != nil {
		local = c.LocalAddr.String()
	}
	if c.RemoteAddr != nil {
		remote = c.RemoteAddr.String()
	}
	return fmt.Sprintf("%s<->%s", local, remote)
}

// The Connection type is a wrapper around a net.Conn object that handles communication using the
// Bitcoin wire protocol over that connection
type Connection struct {
	id               ConnectionId
	conn             net.Conn
	network          Network
	logger           *slog.Logger
	parser           *parser.Parser
	capture          *capture.Writer
	messageChan      chan payload.Payload
	errorChan        chan error
	doneChan         chan any
	waitGroup        sync.WaitGroup
	onceClose        sync.Once
	sendMutex        sync.Mutex
	readBufferSize   int
	maxPayloadLength uint32
	autoPong         bool
	strictDecoding   bool
}

// NewConnection returns a new Connection object with the specified options. If a connection is provided,
// the read loop is started immediately
func NewConnection(options ...ConnectionOptionFunc) (*Connection, error) {
	c := &Connection{
		network:          NetworkMainnet,
		doneChan:         make(chan any),
		messageChan:      make(chan payload.Payload, DefaultMessageChanSize),
		readBufferSize:   DefaultReadBufferSize,
		maxPayloadLength: parser.DefaultMaxPayloadLength,
	}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.errorChan == nil {
		c.errorChan = make(chan error, 10)
	}
	if !c.network.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidNetwork, c.network)
	}
	if c.readBufferSize <= 0 {
		c.readBufferSize = DefaultReadBufferSize
	}
	if c.conn != nil {
		c.setupConnection()
	}
	return c, nil
}

// Id returns the endpoints of the connection
func (c *Connection) Id() ConnectionId {
	return c.id
}

// Network returns the network the connection is framed for
func (c *Connection) Network() Network {
	return c.network
}

// ErrorChan returns the channel for asynchronous errors. A bare io.EOF means the peer closed the connection
func (c *Connection) ErrorChan() chan error {
	return c.errorChan
}

// MessageChan returns the channel of decoded payloads received from the peer. It is closed when the
// connection shuts down
func (c *Connection) MessageChan() <-chan payload.Payload {
	return c.messageChan
}

// Dial will establish a connection using the specified protocol and address. These parameters are
// passed to the [net.Dial] func. An error will be returned if the connection fails or a connection
// was already established
func (c *Connection) Dial(proto string, address string) error {
	return c.DialContext(context.Background(), proto, address)
}

// DialContext is like Dial but uses the provided context for the dial
func (c *Connection) DialContext(ctx context.Context, proto string, address string) error {
	if c.conn != nil {
		return ErrAlreadyConnected
	}
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, proto, address)
	if err != nil {
		return err
	}
	c.conn = conn
	c.setupConnection()
	return nil
}

// Close will shutdown the connection
func (c *Connection) Close() error {
	var err error
	c.onceClose.Do(func() {
		// Close doneChan to signify that we're shutting down
		close(c.doneChan)
		// Unblock the read loop
		if c.conn != nil {
			err = c.conn.Close()
		}
		// Wait for other goroutines to finish
		c.waitGroup.Wait()
		// Close channels
		close(c.errorChan)
		close(c.messageChan)
	})
	return err
}

// SendMessage writes a complete message to the peer
func (c *Connection) SendMessage(msg *message.Message) error {
	select {
	case <-c.doneChan:
		return ErrConnectionClosed
	default:
	}
	if c.conn == nil {
		return ErrConnectionClosed
	}
	// We use a mutex to make sure only one message is written at a time
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	if _, err := c.conn.Write(msg.Bytes()); err != nil {
		select {
		case <-c.doneChan:
			return ErrConnectionClosed
		default:
		}
		return fmt.Errorf("send %s: %w", msg.Command(), err)
	}
	c.captureMessage(capture.DirectionOutbound, msg)
	c.logger.Debug(
		"sent message",
		"command", msg.Command().String(),
		"length", msg.PayloadLength(),
	)
	return nil
}

// SendPayload encodes p for the connection's network and sends it
func (c *Connection) SendPayload(p payload.Payload) error {
	msg, err := payload.Encode(c.network.Magic, p)
	if err != nil {
		return err
	}
	return c.SendMessage(msg)
}

// Handshake sends our version, waits for the peer's version and verack and
// acknowledges the peer's version. It returns the peer's version. Other
// messages received before the handshake completes are discarded
func (c *Connection) Handshake(ctx context.Context, version *payload.Version) (*payload.Version, error) {
	if err := c.SendPayload(version); err != nil {
		return nil, err
	}
	var peerVersion *payload.Version
	gotVerack := false
	for peerVersion == nil || !gotVerack {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.doneChan:
			return nil, ErrConnectionClosed
		case p, ok := <-c.messageChan:
			if !ok {
				return nil, ErrConnectionClosed
			}
			switch msg := p.(type) {
			case *payload.Version:
				if peerVersion != nil {
					return nil, fmt.Errorf("%w: duplicate version message", ErrHandshakeFailed)
				}
				peerVersion = msg
				if err := c.SendPayload(&payload.Verack{}); err != nil {
					return nil, err
				}
			case *payload.Verack:
				if peerVersion == nil {
					return nil, fmt.Errorf("%w: verack before version", ErrHandshakeFailed)
				}
				gotVerack = true
			default:
				c.logger.Debug(
					"ignoring message during handshake",
					"command", p.Command().String(),
				)
			}
		}
	}
	c.logger.Info(
		"handshake complete",
		"protocol_version", peerVersion.ProtocolVersion,
		"user_agent", peerVersion.UserAgent,
		"start_height", peerVersion.StartHeight,
	)
	return peerVersion, nil
}

// setupConnection creates the parser and starts the read loop
func (c *Connection) setupConnection() {
	c.id = ConnectionId{
		LocalAddr:  c.conn.LocalAddr(),
		RemoteAddr: c.conn.RemoteAddr(),
	}
	c.logger = c.logger.With(
		"component", "connection",
		"network", c.network.Name,
		"connection_id", c.id.String(),
	)
	c.parser = parser.New(
		parser.NewConfig(
			parser.WithNetworkMagic(c.network.Magic),
			parser.WithMaxPayloadLength(c.maxPayloadLength),
			parser.WithLogger(c.logger),
			parser.WithMessageHandler(c.handleMessage),
		),
	)
	c.waitGroup.Add(1)
	go c.readLoop()
}

func (c *Connection) readLoop() {
	defer c.waitGroup.Done()
	buf := make([]byte, c.readBufferSize)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			c.parser.Feed(buf[:n])
		}
		if err != nil {
			c.sendError(err)
			return
		}
		// Break out of read loop if we're shutting down
		select {
		case <-c.doneChan:
			return
		default:
		}
	}
}

// handleMessage is called from the read loop for each message with a valid checksum
func (c *Connection) handleMessage(msg *message.Message) {
	c.captureMessage(capture.DirectionInbound, msg)
	p, err := payload.Decode(msg)
	if err != nil {
		if c.strictDecoding {
			c.sendError(fmt.Errorf("decode %s payload: %w", msg.Command(), err))
			return
		}
		c.logger.Warn(
			"dropping undecodable message",
			"command", msg.Command().String(),
			"error", err,
		)
		return
	}
	if ping, ok := p.(*payload.Ping); ok && c.autoPong {
		if err := c.SendPayload(payload.NewPong(ping.Nonce)); err != nil {
			c.logger.Warn(
				"failed to answer ping",
				"error", err,
			)
		}
	}
	select {
	case <-c.doneChan:
	case c.messageChan <- p:
	}
}

func (c *Connection) captureMessage(direction capture.Direction, msg *message.Message) {
	if c.capture == nil {
		return
	}
	if err := c.capture.Write(direction, msg); err != nil {
		c.logger.Warn(
			"failed to capture message",
			"direction", direction.String(),
			"error", err,
		)
	}
}

// sendError reports an error from the read loop and shuts down the connection
func (c *Connection) sendError(err error) {
	select {
	case <-c.doneChan:
		// The error is a result of our own shutdown
		return
	default:
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		// Return a bare io.EOF error if error is EOF/ErrUnexpectedEOF
		err = io.EOF
	}
	select {
	case c.errorChan <- err:
	case <-c.doneChan:
	case <-time.After(time.Second):
		c.logger.Error(
			"dropping connection error, error channel is full",
			"error", err,
		)
	}
	// Close the connection from outside the read loop, since Close waits for it
	go func() {
		_ = c.Close()
	}()
}
