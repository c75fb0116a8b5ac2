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
	"time"

	"github.com/blinklabs-io/gobtcwire/message"
	"github.com/blinklabs-io/gobtcwire/wire"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BlockHeaderSize is the encoded size of a BlockHeader
const BlockHeaderSize = 4 + chainhash.HashSize + chainhash.HashSize + 4 + 4 + 4

type BlockHeader struct {
	Version    uint32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  time.Time
	Bits       uint32
	Nonce      uint32
}

func (h *BlockHeader) Encode(w *wire.Writer) {
	w.WriteUint32(h.Version, binary.LittleEndian)
	w.WriteHash(h.PrevBlock)
	w.WriteHash(h.MerkleRoot)
	w.WriteTime32(h.Timestamp)
	w.WriteUint32(h.Bits, binary.LittleEndian)
	w.WriteUint32(h.Nonce, binary.LittleEndian)
}

func (h *BlockHeader) Decode(r *wire.Reader) error {
	var err error
	if h.Version, err = r.ReadUint32(binary.LittleEndian); err != nil {
		return err
	}
	if h.PrevBlock, err = r.ReadHash(); err != nil {
		return err
	}
	if h.MerkleRoot, err = r.ReadHash(); err != nil {
		return err
	}
	if h.Timestamp, err = r.ReadTime32(); err != nil {
		return err
	}
	if h.Bits, err = r.ReadUint32(binary.LittleEndian); err != nil {
		return err
	}
	if h.Nonce, err = r.ReadUint32(binary.LittleEndian); err != nil {
		return err
	}
	return nil
}

// Hash returns the block hash, which is the double-SHA256 of the header. A
// header whose timestamp does not fit in 32 bits hashes to the zero hash
func (h *BlockHeader) Hash() chainhash.Hash {
	ret, _ := wire.HashOf(h)
	return ret
}

// Block is a block header followed by its transactions
type Block struct {
	Header       BlockHeader
	Transactions []Transaction
}

func (b *Block) Command() message.Command {
	return message.CommandBlock
}

// Hash returns the hash of the block header
func (b *Block) Hash() chainhash.Hash {
	return b.Header.Hash()
}

func (b *Block) Validate() error {
	for i := range b.Transactions {
		if err := b.Transactions[i].Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	return nil
}

func (b *Block) Encode(w *wire.Writer) {
	b.Header.Encode(w)
	w.WriteVarInt(uint64(len(b.Transactions)))
	for i := range b.Transactions {
		b.Transactions[i].Encode(w)
	}
}

func (b *Block) Decode(r *wire.Reader) error {
	if err := b.Header.Decode(r); err != nil {
		return err
	}
	count, err := r.ReadCount(0, minTxSize)
	if err != nil {
		return err
	}
	b.Transactions = make([]Transaction, count)
	for i := range b.Transactions {
		if err := b.Transactions[i].Decode(r); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	return nil
}

// Headers carries block headers in response to GetHeaders. On the wire each
// header is followed by a transaction count that is always zero
type Headers struct {
	Headers []BlockHeader
}

func NewHeaders(headers ...BlockHeader) (*Headers, error) {
	p := &Headers{Headers: headers}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Headers) Command() message.Command {
	return message.CommandHeaders
}

func (p *Headers) Validate() error {
	if len(p.Headers) == 0 {
		return fmt.Errorf("%w: empty headers", ErrInvalidValue)
	}
	return nil
}

func (p *Headers) Encode(w *wire.Writer) {
	w.WriteVarInt(uint64(len(p.Headers)))
	for i := range p.Headers {
		p.Headers[i].Encode(w)
		w.WriteVarInt(0)
	}
}

func (p *Headers) Decode(r *wire.Reader) error {
	count, err := r.ReadCount(0, BlockHeaderSize+1)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: empty headers", ErrInvalidValue)
	}
	p.Headers = make([]BlockHeader, count)
	for i := range p.Headers {
		if err := p.Headers[i].Decode(r); err != nil {
			return fmt.Errorf("header %d: %w", i, err)
		}
		txCount, err := r.ReadVarInt()
		if err != nil {
			return err
		}
		if txCount != 0 {
			return fmt.Errorf(
				"%w: header %d has transaction count %d",
				ErrInvalidValue,
				i,
				txCount,
			)
		}
	}
	return nil
}
