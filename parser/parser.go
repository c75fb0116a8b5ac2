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

// Package parser turns an arbitrarily chunked byte stream into messages.
//
// The parser searches for the network magic, decodes the header that follows
// it and waits for the declared payload. Garbage between messages, headers that
// fail to decode and payloads with a bad checksum are logged and skipped, so the
// parser always recovers on the next well-formed message. A Parser is not safe
// for concurrent use.
package parser

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/gobtcwire/message"
)

// State is the position of the parser within a message
type State int

const (
	StateAwaitingHeader State = iota
	StateAwaitingPayload
)

func (s State) String() string {
	switch s {
	case StateAwaitingHeader:
		return "AwaitingHeader"
	case StateAwaitingPayload:
		return "AwaitingPayload"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Parser is an incremental message parser
type Parser struct {
	config     Config
	logger     *slog.Logger
	magicBytes []byte
	buf        []byte
	state      State
	header     message.Header
}

// New returns a Parser in the AwaitingHeader state
func New(cfg Config) *Parser {
	p := &Parser{
		config:     cfg,
		logger:     cfg.Logger,
		magicBytes: cfg.NetworkMagic.Bytes(),
		state:      StateAwaitingHeader,
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = p.logger.With(
		"component", "parser",
		"network", cfg.NetworkMagic.String(),
	)
	if p.config.MaxPayloadLength == 0 {
		p.config.MaxPayloadLength = DefaultMaxPayloadLength
	}
	return p
}

// State returns the current parser state
func (p *Parser) State() State {
	return p.state
}

// Buffered returns the number of bytes held waiting for more input
func (p *Parser) Buffered() int {
	return len(p.buf)
}

// Feed appends data to the buffer and delivers every message that is now
// complete to the handler, in stream order. Feed never blocks and never fails
func (p *Parser) Feed(data []byte) {
	p.buf = append(p.buf, data...)
	for {
		var progress bool
		switch p.state {
		case StateAwaitingHeader:
			progress = p.processHeader()
		case StateAwaitingPayload:
			progress = p.processPayload()
		}
		if !progress {
			return
		}
	}
}

// Reset discards all buffered data and returns to the AwaitingHeader state
func (p *Parser) Reset() {
	p.buf = nil
	p.header = message.Header{}
	p.state = StateAwaitingHeader
}

func (p *Parser) discard(n int) {
	p.buf = p.buf[n:]
	if len(p.buf) == 0 {
		p.buf = p.buf[:0:0]
	}
}

func (p *Parser) processHeader() bool {
	idx := bytes.Index(p.buf, p.magicBytes)
	if idx < 0 {
		// Keep enough bytes to complete a magic split across chunks
		if keep := message.MagicSize - 1; len(p.buf) > keep {
			p.discard(len(p.buf) - keep)
		}
		return false
	}
	if idx > 0 {
		p.logger.Debug(
			"skipping bytes before magic",
			"bytes", idx,
		)
		p.discard(idx)
	}
	if len(p.buf) < message.HeaderSize {
		return false
	}
	header, err := message.DecodeHeader(p.buf[:message.HeaderSize])
	if err != nil {
		p.logger.Debug(
			"dropping invalid header",
			"error", err,
		)
		p.discard(message.MagicSize)
		return true
	}
	if header.PayloadLength > p.config.MaxPayloadLength {
		p.logger.Debug(
			"dropping header with oversize payload",
			"command", header.Command.String(),
			"length", header.PayloadLength,
			"max", p.config.MaxPayloadLength,
		)
		p.discard(message.MagicSize)
		return true
	}
	p.discard(message.HeaderSize)
	p.header = header
	p.state = StateAwaitingPayload
	return true
}

func (p *Parser) processPayload() bool {
	length := int(p.header.PayloadLength)
	if len(p.buf) < length {
		return false
	}
	header := p.header
	msg, err := message.FromWire(header, p.buf[:length])
	p.discard(length)
	p.header = message.Header{}
	p.state = StateAwaitingHeader
	if err != nil {
		p.logger.Warn(
			"dropping message",
			"command", header.Command.String(),
			"error", err,
		)
		return true
	}
	if header.Magic != p.config.NetworkMagic {
		p.logger.Warn(
			"dropping message for another network",
			"command", header.Command.String(),
			"magic", header.Magic.String(),
		)
		return true
	}
	if !msg.IsChecksumValid() {
		p.logger.Warn(
			"dropping message",
			"command", header.Command.String(),
			"error", fmt.Errorf(
				"%w: header has 0x%08x, payload hashes to 0x%08x",
				message.ErrChecksumMismatch,
				header.PayloadChecksum,
				message.Checksum(msg.Payload()),
			),
		)
		return true
	}
	if p.config.MessageHandlerFunc != nil {
		p.config.MessageHandlerFunc(msg)
	}
	return true
}
