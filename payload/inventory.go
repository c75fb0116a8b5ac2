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

// MaxInvCount is the maximum number of entries in an inv, getdata or notfound message
const MaxInvCount = 50000

const inventoryVectorSize = 4 + chainhash.HashSize

// InvType identifies the kind of object an InventoryVector refers to
type InvType uint32

const (
	InvTypeError InvType = iota
	InvTypeTx
	InvTypeBlock
	InvTypeFilteredBlock
)

func (t InvType) String() string {
	switch t {
	case InvTypeError:
		return "Error"
	case InvTypeTx:
		return "Tx"
	case InvTypeBlock:
		return "Block"
	case InvTypeFilteredBlock:
		return "FilteredBlock"
	}
	return fmt.Sprintf("InvType(%d)", uint32(t))
}

// InventoryVector references a transaction or block by hash
type InventoryVector struct {
	Type InvType
	Hash chainhash.Hash
}

func (v *InventoryVector) Encode(w *wire.Writer) {
	w.WriteUint32(uint32(v.Type), binary.LittleEndian)
	w.WriteHash(v.Hash)
}

func (v *InventoryVector) Decode(r *wire.Reader) error {
	tmpType, err := r.ReadUint32(binary.LittleEndian)
	if err != nil {
		return err
	}
	v.Type = InvType(tmpType)
	if v.Type > InvTypeFilteredBlock {
		return fmt.Errorf("%w: inventory type %d", ErrInvalidValue, tmpType)
	}
	v.Hash, err = r.ReadHash()
	return err
}

// inventoryList holds the shared body of inv, getdata and notfound
type inventoryList struct {
	Inventory []InventoryVector
}

func (l *inventoryList) Validate() error {
	if len(l.Inventory) == 0 || len(l.Inventory) > MaxInvCount {
		return fmt.Errorf(
			"%w: inventory count %d outside 1..%d",
			ErrInvalidValue,
			len(l.Inventory),
			MaxInvCount,
		)
	}
	for _, v := range l.Inventory {
		if v.Type > InvTypeFilteredBlock {
			return fmt.Errorf("%w: inventory type %d", ErrInvalidValue, v.Type)
		}
	}
	return nil
}

func (l *inventoryList) Encode(w *wire.Writer) {
	w.WriteVarInt(uint64(len(l.Inventory)))
	for i := range l.Inventory {
		l.Inventory[i].Encode(w)
	}
}

func (l *inventoryList) Decode(r *wire.Reader) error {
	count, err := r.ReadCount(MaxInvCount, inventoryVectorSize)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: empty inventory", ErrInvalidValue)
	}
	l.Inventory = make([]InventoryVector, count)
	for i := range l.Inventory {
		if err := l.Inventory[i].Decode(r); err != nil {
			return fmt.Errorf("inventory %d: %w", i, err)
		}
	}
	return nil
}

// Inv announces objects the sender has
type Inv struct{ inventoryList }

// GetData requests the objects named in an earlier Inv
type GetData struct{ inventoryList }

// NotFound answers a GetData for objects the sender does not have
type NotFound struct{ inventoryList }

func NewInv(inventory ...InventoryVector) (*Inv, error) {
	p := &Inv{inventoryList{Inventory: inventory}}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func NewGetData(inventory ...InventoryVector) (*GetData, error) {
	p := &GetData{inventoryList{Inventory: inventory}}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func NewNotFound(inventory ...InventoryVector) (*NotFound, error) {
	p := &NotFound{inventoryList{Inventory: inventory}}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (*Inv) Command() message.Command { return message.CommandInv }

func (*GetData) Command() message.Command { return message.CommandGetData }

func (*NotFound) Command() message.Command { return message.CommandNotFound }
