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

const (
	// LockTimeThreshold separates block height lock times from Unix time lock times
	LockTimeThreshold = 500000000

	// minimum encoded sizes, used to bound preallocation
	outPointSize = chainhash.HashSize + 4
	minTxInSize  = outPointSize + 1 + 4
	minTxOutSize = 8 + 1
	minTxSize    = 4 + 1 + minTxInSize + 1 + minTxOutSize + 4
)

// OutPoint references an output of a previous transaction
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.Hash, o.Index)
}

type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

type TxOut struct {
	Value    int64
	PkScript []byte
}

// Transaction is the body of a tx message and an element of Block
type Transaction struct {
	Version  uint32
	Inputs   []TxIn
	Outputs  []TxOut
	LockTime uint32
}

// NewTransaction returns a Transaction with at least one input and one output
func NewTransaction(
	version uint32,
	inputs []TxIn,
	outputs []TxOut,
	lockTime uint32,
) (*Transaction, error) {
	p := &Transaction{
		Version:  version,
		Inputs:   inputs,
		Outputs:  outputs,
		LockTime: lockTime,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (t *Transaction) Command() message.Command {
	return message.CommandTx
}

func (t *Transaction) Validate() error {
	if len(t.Inputs) == 0 {
		return fmt.Errorf("%w: transaction has no inputs", ErrInvalidValue)
	}
	if len(t.Outputs) == 0 {
		return fmt.Errorf("%w: transaction has no outputs", ErrInvalidValue)
	}
	return nil
}

func (t *Transaction) Encode(w *wire.Writer) {
	w.WriteUint32(t.Version, binary.LittleEndian)
	w.WriteVarInt(uint64(len(t.Inputs)))
	for _, in := range t.Inputs {
		w.WriteHash(in.PreviousOutPoint.Hash)
		w.WriteUint32(in.PreviousOutPoint.Index, binary.LittleEndian)
		w.WriteVarBytes(in.SignatureScript)
		w.WriteUint32(in.Sequence, binary.LittleEndian)
	}
	w.WriteVarInt(uint64(len(t.Outputs)))
	for _, out := range t.Outputs {
		w.WriteInt64(out.Value, binary.LittleEndian)
		w.WriteVarBytes(out.PkScript)
	}
	w.WriteUint32(t.LockTime, binary.LittleEndian)
}

func (t *Transaction) Decode(r *wire.Reader) error {
	var err error
	if t.Version, err = r.ReadUint32(binary.LittleEndian); err != nil {
		return err
	}
	inCount, err := r.ReadCount(0, minTxInSize)
	if err != nil {
		return err
	}
	t.Inputs = make([]TxIn, inCount)
	for i := range t.Inputs {
		in := &t.Inputs[i]
		if in.PreviousOutPoint.Hash, err = r.ReadHash(); err != nil {
			return err
		}
		if in.PreviousOutPoint.Index, err = r.ReadUint32(binary.LittleEndian); err != nil {
			return err
		}
		if in.SignatureScript, err = r.ReadVarBytes(); err != nil {
			return err
		}
		if in.Sequence, err = r.ReadUint32(binary.LittleEndian); err != nil {
			return err
		}
	}
	outCount, err := r.ReadCount(0, minTxOutSize)
	if err != nil {
		return err
	}
	t.Outputs = make([]TxOut, outCount)
	for i := range t.Outputs {
		out := &t.Outputs[i]
		if out.Value, err = r.ReadInt64(binary.LittleEndian); err != nil {
			return err
		}
		if out.PkScript, err = r.ReadVarBytes(); err != nil {
			return err
		}
	}
	if t.LockTime, err = r.ReadUint32(binary.LittleEndian); err != nil {
		return err
	}
	return t.Validate()
}

// Hash returns the transaction id
func (t *Transaction) Hash() chainhash.Hash {
	// Encoding a Transaction has no failure modes
	h, _ := wire.HashOf(t)
	return h
}

// IsAlwaysLocked returns true when the lock time is zero
func (t *Transaction) IsAlwaysLocked() bool {
	return t.LockTime == 0
}

// LockTimeHeight returns the block height the transaction is locked until, if
// the lock time is a height
func (t *Transaction) LockTimeHeight() (uint32, bool) {
	if t.LockTime == 0 || t.LockTime >= LockTimeThreshold {
		return 0, false
	}
	return t.LockTime, true
}

// LockTimeDate returns the time the transaction is locked until, if the lock
// time is a timestamp
func (t *Transaction) LockTimeDate() (time.Time, bool) {
	if t.LockTime < LockTimeThreshold {
		return time.Time{}, false
	}
	return time.Unix(int64(t.LockTime), 0).UTC(), true
}
