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

package payload

import (
	"encoding/binary"

	"github.com/blinklabs-io/gobtcwire/message"
	"github.com/blinklabs-io/gobtcwire/wire"
)

type Ping struct {
	Nonce uint64
}

func NewPing(nonce uint64) *Ping {
	return &Ping{Nonce: nonce}
}

func (p *Ping) Command() message.Command {
	return message.CommandPing
}

func (p *Ping) Encode(w *wire.Writer) {
	w.WriteUint64(p.Nonce, binary.LittleEndian)
}

func (p *Ping) Decode(r *wire.Reader) error {
	var err error
	p.Nonce, err = r.ReadUint64(binary.LittleEndian)
	return err
}

// Pong answers a Ping with the same nonce
type Pong struct {
	Nonce uint64
}

func NewPong(nonce uint64) *Pong {
	return &Pong{Nonce: nonce}
}

func (p *Pong) Command() message.Command {
	return message.CommandPong
}

func (p *Pong) Encode(w *wire.Writer) {
	w.WriteUint64(p.Nonce, binary.LittleEndian)
}

func (p *Pong) Decode(r *wire.Reader) error {
	var err error
	p.Nonce, err = r.ReadUint64(binary.LittleEndian)
	return err
}
