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

// Package payload implements the typed message bodies of the Bitcoin P2P
// protocol. Every payload satisfies wire.Serializable and reports the Command
// that carries it.
package payload

import (
	"fmt"

	"github.com/blinklabs-io/gobtcwire/message"
	"github.com/blinklabs-io/gobtcwire/wire"
)

// ErrInvalidValue is returned when a payload violates one of its invariants
var ErrInvalidValue = wire.ErrInvalidValue

// ProtocolVersion is the protocol version advertised by default
const ProtocolVersion uint32 = 70002

// Payload is implemented by every message body
type Payload interface {
	wire.Serializable
	Command() message.Command
}

// Validator is implemented by payloads with invariants beyond their wire layout
type Validator interface {
	Validate() error
}

// New returns an empty payload value for the given command
func New(cmd message.Command) (Payload, error) {
	var ret Payload
	switch cmd {
	case message.CommandVersion:
		ret = &Version{}
	case message.CommandVerack:
		ret = &Verack{}
	case message.CommandAddr:
		ret = &Addr{}
	case message.CommandInv:
		ret = &Inv{}
	case message.CommandGetData:
		ret = &GetData{}
	case message.CommandNotFound:
		ret = &NotFound{}
	case message.CommandGetBlocks:
		ret = &GetBlocks{}
	case message.CommandGetHeaders:
		ret = &GetHeaders{}
	case message.CommandTx:
		ret = &Transaction{}
	case message.CommandBlock:
		ret = &Block{}
	case message.CommandHeaders:
		ret = &Headers{}
	case message.CommandGetAddr:
		ret = &GetAddr{}
	case message.CommandMempool:
		ret = &Mempool{}
	case message.CommandPing:
		ret = &Ping{}
	case message.CommandPong:
		ret = &Pong{}
	case message.CommandReject:
		ret = &Reject{}
	case message.CommandFilterLoad:
		ret = &FilterLoad{}
	case message.CommandFilterAdd:
		ret = &FilterAdd{}
	case message.CommandFilterClear:
		ret = &FilterClear{}
	case message.CommandMerkleBlock:
		ret = &MerkleBlock{}
	case message.CommandAlert:
		ret = &AlertPayload{}
	default:
		return nil, fmt.Errorf("%w: %s", message.ErrUnknownCommand, cmd)
	}
	return ret, nil
}

// FromBytes decodes a payload of the given command type. The payload must
// consume all of data
func FromBytes(cmd message.Command, data []byte) (Payload, error) {
	ret, err := New(cmd)
	if err != nil {
		return nil, err
	}
	if err := wire.FromBytes(data, ret); err != nil {
		return nil, fmt.Errorf("decode %s: %w", cmd, err)
	}
	return ret, nil
}

// ToBytes validates and encodes a payload
func ToBytes(p Payload) ([]byte, error) {
	if v, ok := p.(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("encode %s: %w", p.Command(), err)
		}
	}
	data, err := wire.ToBytes(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", p.Command(), err)
	}
	return data, nil
}

// Encode wraps a payload in a message for the given network
func Encode(magic message.Magic, p Payload) (*message.Message, error) {
	data, err := ToBytes(p)
	if err != nil {
		return nil, err
	}
	return message.NewMessage(magic, p.Command(), data)
}

// Decode returns the typed payload carried by msg
func Decode(msg *message.Message) (Payload, error) {
	return FromBytes(msg.Command(), msg.Payload())
}
