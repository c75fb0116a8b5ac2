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
	"fmt"

	"github.com/blinklabs-io/gobtcwire/message"
	"github.com/blinklabs-io/gobtcwire/wire"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// blockLocator holds the shared body of getblocks and getheaders. A zero
// HashStop asks for as many results as the peer will send
type blockLocator struct {
	ProtocolVersion uint32
	Locator         []chainhash.Hash
	HashStop        chainhash.Hash
}

// HasHashStop returns true if a stop hash was given
func (l *blockLocator) HasHashStop() bool {
	return l.HashStop != chainhash.Hash{}
}

func (l *blockLocator) Validate() error {
	if len(l.Locator) == 0 {
		return fmt.Errorf("%w: empty block locator", ErrInvalidValue)
	}
	return nil
}

func (l *blockLocator) Encode(w *wire.Writer) {
	w.WriteUint32(l.ProtocolVersion, binary.LittleEndian)
	w.WriteVarInt(uint64(len(l.Locator)))
	for _, hash := range l.Locator {
		w.WriteHash(hash)
	}
	w.WriteHash(l.HashStop)
}

func (l *blockLocator) Decode(r *wire.Reader) error {
	var err error
	if l.ProtocolVersion, err = r.ReadUint32(binary.LittleEndian); err != nil {
		return err
	}
	count, err := r.ReadCount(0, chainhash.HashSize)
	if err != nil {
		return err
	}
	l.Locator = make([]chainhash.Hash, count)
	for i := range l.Locator {
		if l.Locator[i], err = r.ReadHash(); err != nil {
			return err
		}
	}
	if l.HashStop, err = r.ReadHash(); err != nil {
		return err
	}
	return l.Validate()
}

// GetBlocks requests an Inv of blocks following the locator
type GetBlocks struct{ blockLocator }

// GetHeaders requests Headers following the locator
type GetHeaders struct{ blockLocator }

func NewGetBlocks(
	protocolVersion uint32,
	locator []chainhash.Hash,
	hashStop chainhash.Hash,
) (*GetBlocks, error) {
	p := &GetBlocks{
		blockLocator{
			ProtocolVersion: protocolVersion,
			Locator:         locator,
			HashStop:        hashStop,
		},
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func NewGetHeaders(
	protocolVersion uint32,
	locator []chainhash.Hash,
	hashStop chainhash.Hash,
) (*GetHeaders, error) {
	p := &GetHeaders{
		blockLocator{
			ProtocolVersion: protocolVersion,
			Locator:         locator,
			HashStop:        hashStop,
		},
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (*GetBlocks) Command() message.Command { return message.CommandGetBlocks }

func (*GetHeaders) Command() message.Command { return message.CommandGetHeaders }
