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

// Package message implements the Bitcoin P2P message envelope: a 24-byte
// header carrying the network magic, command name, payload length and payload
// checksum, followed by the payload bytes.
package message

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/blinklabs-io/gobtcwire/wire"
)

// Message is an immutable header and payload pair. It owns a private copy of
// its payload, so the two can never disagree
type Message struct {
	header  Header
	payload []byte
}

// Checksum returns the first 4 bytes of SHA256(SHA256(payload)) as a
// little-endian integer
func Checksum(payload []byte) uint32 {
	return binary.LittleEndian.Uint32(wire.DoubleSHA256(payload)[:4])
}

// NewMessage builds a message for the given network and command, computing the
// payload length and checksum
func NewMessage(magic Magic, cmd Command, payload []byte) (*Message, error) {
	if !cmd.IsKnown() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf(
			"%w: %d bytes",
			ErrPayloadTooLarge,
			len(payload),
		)
	}
	m := &Message{
		header: Header{
			Magic:           magic,
			Command:         cmd,
			PayloadLength:   uint32(len(payload)), //nolint:gosec
			PayloadChecksum: Checksum(payload),
		},
		payload: bytes.Clone(payload),
	}
	if m.payload == nil {
		m.payload = []byte{}
	}
	return m, nil
}

// FromWire assembles a message from a decoded header and the payload bytes that
// followed it. The checksum is not verified; use IsChecksumValid
func FromWire(header Header, payload []byte) (*Message, error) {
	if int(header.PayloadLength) != len(payload) {
		return nil, fmt.Errorf(
			"%w: header declares %d payload bytes, have %d",
			ErrTruncated,
			header.PayloadLength,
			len(payload),
		)
	}
	m := &Message{
		header:  header,
		payload: make([]byte, len(payload)),
	}
	copy(m.payload, payload)
	return m, nil
}

// DecodeMessage decodes a complete message from data and verifies its checksum
func DecodeMessage(data []byte) (*Message, error) {
	r := wire.NewReader(data)
	var header Header
	if err := header.Decode(r); err != nil {
		return nil, err
	}
	payload, err := r.ReadBytes(int(header.PayloadLength))
	if err != nil {
		return nil, err
	}
	if r.Remaining() > 0 {
		return nil, fmt.Errorf("%w: %d bytes", wire.ErrTrailingBytes, r.Remaining())
	}
	m := &Message{
		header:  header,
		payload: payload,
	}
	if !m.IsChecksumValid() {
		return nil, fmt.Errorf(
			"%w: header has 0x%08x, payload hashes to 0x%08x",
			ErrChecksumMismatch,
			header.PayloadChecksum,
			Checksum(payload),
		)
	}
	return m, nil
}

func (m *Message) Header() Header {
	return m.header
}

func (m *Message) Magic() Magic {
	return m.header.Magic
}

func (m *Message) Command() Command {
	return m.header.Command
}

// Payload returns a copy of the payload bytes
func (m *Message) Payload() []byte {
	ret := make([]byte, len(m.payload))
	copy(ret, m.payload)
	return ret
}

// PayloadLength returns the length of the payload
func (m *Message) PayloadLength() int {
	return len(m.payload)
}

// IsChecksumValid recomputes the payload checksum and compares it with the header
func (m *Message) IsChecksumValid() bool {
	return Checksum(m.payload) == m.header.PayloadChecksum
}

// Bytes returns the full wire encoding of the message
func (m *Message) Bytes() []byte {
	w := wire.NewWriter()
	m.header.Encode(w)
	w.WriteBytes(m.payload)
	// The header of a constructed message always has a known command
	return w.Bytes()
}

func (m *Message) String() string {
	return m.header.String()
}
