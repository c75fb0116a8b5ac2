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
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MerkleBlock is a block header with a partial merkle tree proving which of
// its transactions matched a loaded filter
type MerkleBlock struct {
	Header            BlockHeader
	TotalTransactions uint32
	Hashes            []chainhash.Hash
	Flags             []byte
}

func (p *MerkleBlock) Command() message.Command {
	return message.CommandMerkleBlock
}

// Hash returns the hash of the block header
func (p *MerkleBlock) Hash() chainhash.Hash {
	return p.Header.Hash()
}

func (p *MerkleBlock) Encode(w *wire.Writer) {
	p.Header.Encode(w)
	w.WriteUint32(p.TotalTransactions, binary.LittleEndian)
	w.WriteVarInt(uint64(len(p.Hashes)))
	for _, hash := range p.Hashes {
		w.WriteHash(hash)
	}
	w.WriteVarBytes(p.Flags)
}

func (p *MerkleBlock) Decode(r *wire.Reader) error {
	if err := p.Header.Decode(r); err != nil {
		return err
	}
	var err error
	if p.TotalTransactions, err = r.ReadUint32(binary.LittleEndian); err != nil {
		return err
	}
	count, err := r.ReadCount(0, chainhash.HashSize)
	if err != nil {
		return err
	}
	p.Hashes = make([]chainhash.Hash, count)
	for i := range p.Hashes {
		if p.Hashes[i], err = r.ReadHash(); err != nil {
			return err
		}
	}
	if p.Flags, err = r.ReadVarBytes(); err != nil {
		return err
	}
	return nil
}
