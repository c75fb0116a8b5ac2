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
	"fmt"

	"github.com/blinklabs-io/gobtcwire/message"
	"github.com/blinklabs-io/gobtcwire/wire"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// RejectCode gives the reason a message was rejected
type RejectCode uint8

const (
	RejectMalformed       RejectCode = 0x01
	RejectInvalid         RejectCode = 0x10
	RejectObsolete        RejectCode = 0x11
	RejectDuplicate       RejectCode = 0x12
	RejectNonstandard     RejectCode = 0x40
	RejectDust            RejectCode = 0x41
	RejectInsufficientFee RejectCode = 0x42
	RejectCheckpoint      RejectCode = 0x43
)

var rejectCodeNames = map[RejectCode]string{
	RejectMalformed:       "REJECT_MALFORMED",
	RejectInvalid:         "REJECT_INVALID",
	RejectObsolete:        "REJECT_OBSOLETE",
	RejectDuplicate:       "REJECT_DUPLICATE",
	RejectNonstandard:     "REJECT_NONSTANDARD",
	RejectDust:            "REJECT_DUST",
	RejectInsufficientFee: "REJECT_INSUFFICIENTFEE",
	RejectCheckpoint:      "REJECT_CHECKPOINT",
}

func (c RejectCode) IsKnown() bool {
	_, ok := rejectCodeNames[c]
	return ok
}

func (c RejectCode) String() string {
	if name, ok := rejectCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("RejectCode(0x%02x)", uint8(c))
}

// Reject tells a peer that one of its messages was refused. Hash names the
// rejected block or transaction and is omitted for other commands
type Reject struct {
	RejectedCommand message.Command
	Code            RejectCode
	Reason          string
	Hash            *chainhash.Hash
}

func NewReject(
	cmd message.Command,
	code RejectCode,
	reason string,
	hash *chainhash.Hash,
) (*Reject, error) {
	p := &Reject{
		RejectedCommand: cmd,
		Code:            code,
		Reason:          reason,
		Hash:            hash,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Reject) Command() message.Command {
	return message.CommandReject
}

func (p *Reject) Validate() error {
	if !p.RejectedCommand.IsKnown() {
		return fmt.Errorf(
			"%w: rejected command %s",
			ErrInvalidValue,
			p.RejectedCommand,
		)
	}
	if !p.Code.IsKnown() {
		return fmt.Errorf("%w: %s", ErrInvalidValue, p.Code)
	}
	return nil
}

func (p *Reject) Encode(w *wire.Writer) {
	w.WriteVarString(p.RejectedCommand.String())
	w.WriteUint8(uint8(p.Code))
	w.WriteVarString(p.Reason)
	if p.Hash != nil {
		w.WriteHash(*p.Hash)
	}
}

// Decode reads a Reject. The optional hash is read only if input remains, so
// a Reject must be the last value in its reader
func (p *Reject) Decode(r *wire.Reader) error {
	name, err := r.ReadVarString()
	if err != nil {
		return err
	}
	if p.RejectedCommand, err = message.ParseCommand(name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	code, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.Code = RejectCode(code)
	if !p.Code.IsKnown() {
		return fmt.Errorf("%w: %s", ErrInvalidValue, p.Code)
	}
	if p.Reason, err = r.ReadVarString(); err != nil {
		return err
	}
	p.Hash = nil
	if r.Remaining() > 0 {
		hash, err := r.ReadHash()
		if err != nil {
			return err
		}
		p.Hash = &hash
	}
	return nil
}
