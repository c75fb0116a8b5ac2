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

package parser

import (
	"log/slog"

	"github.com/blinklabs-io/gobtcwire/message"
)

// DefaultMaxPayloadLength is the largest payload accepted unless configured otherwise
const DefaultMaxPayloadLength = 32 * 1024 * 1024

// MessageHandlerFunc receives each complete message with a valid checksum
type MessageHandlerFunc func(*message.Message)

// Config holds the parser configuration
type Config struct {
	NetworkMagic       message.Magic
	MessageHandlerFunc MessageHandlerFunc
	Logger             *slog.Logger
	MaxPayloadLength   uint32
}

// ParserOptionFunc is a function that modifies a Config
type ParserOptionFunc func(*Config)

// NewConfig returns a Config for mainnet with default limits, modified by any provided options
func NewConfig(options ...ParserOptionFunc) Config {
	c := Config{
		NetworkMagic:     message.MagicMainnet,
		MaxPayloadLength: DefaultMaxPayloadLength,
	}
	for _, option := range options {
		option(&c)
	}
	return c
}

// WithNetworkMagic sets the magic value that frames messages
func WithNetworkMagic(magic message.Magic) ParserOptionFunc {
	return func(c *Config) {
		c.NetworkMagic = magic
	}
}

// WithMessageHandler sets the callback for parsed messages
func WithMessageHandler(handlerFunc MessageHandlerFunc) ParserOptionFunc {
	return func(c *Config) {
		c.MessageHandlerFunc = handlerFunc
	}
}

// WithLogger sets the logger used to report dropped data
func WithLogger(logger *slog.Logger) ParserOptionFunc {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMaxPayloadLength sets the largest declared payload length that is accepted.
// Headers declaring more are treated as a false match on the magic
func WithMaxPayloadLength(maxPayloadLength uint32) ParserOptionFunc {
	return func(c *Config) {
		c.MaxPayloadLength = maxPayloadLength
	}
}
