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
)

const (
	// MaxFilterLoadSize is the maximum size in bytes of a loaded bloom filter
	MaxFilterLoadSize = 36000
	// MaxFilterLoadHashFuncs is the maximum number of bloom filter hash functions
	MaxFilterLoadHashFuncs = 50
	// MaxFilterAddSize is the maximum size of a data element added to a filter
	MaxFilterAddSize = 520
)

// BloomUpdateType controls how a peer updates a loaded filter on a match
type BloomUpdateType uint8

const (
	BloomUpdateNone BloomUpdateType = iota
	BloomUpdateAll
	BloomUpdateP2PubkeyOnly
)

// FilterLoad installs a bloom filter on the connection
type FilterLoad struct {
	Filter    []byte
	HashFuncs uint32
	Tweak     uint32
	Flags     BloomUpdateType
}

func NewFilterLoad(
	filter []byte,
	hashFuncs uint32,
	tweak uint32,
	flags BloomUpdateType,
) (*FilterLoad, error) {
	p := &FilterLoad{
		Filter:    filter,
		HashFuncs: hashFuncs,
		Tweak:     tweak,
		Flags:     flags,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *FilterLoad) Command() message.Command {
	return message.CommandFilterLoad
}

func (p *FilterLoad) Validate() error {
	if len(p.Filter) == 0 || len(p.Filter) > MaxFilterLoadSize {
		return fmt.Errorf(
			"%w: filter size %d outside 1..%d",
			ErrInvalidValue,
			len(p.Filter),
			MaxFilterLoadSize,
		)
	}
	if p.HashFuncs > MaxFilterLoadHashFuncs {
		return fmt.Errorf(
			"%w: %d hash functions exceeds %d",
			ErrInvalidValue,
			p.HashFuncs,
			MaxFilterLoadHashFuncs,
		)
	}
	return nil
}

func (p *FilterLoad) Encode(w *wire.Writer) {
	w.WriteVarBytes(p.Filter)
	w.WriteUint32(p.HashFuncs, binary.LittleEndian)
	w.WriteUint32(p.Tweak, binary.LittleEndian)
	w.WriteUint8(uint8(p.Flags))
}

func (p *FilterLoad) Decode(r *wire.Reader) error {
	var err error
	if p.Filter, err = r.ReadVarBytes(); err != nil {
		return err
	}
	if p.HashFuncs, err = r.ReadUint32(binary.LittleEndian); err != nil {
		return err
	}
	if p.Tweak, err = r.ReadUint32(binary.LittleEndian); err != nil {
		return err
	}
	flags, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.Flags = BloomUpdateType(flags)
	return p.Validate()
}

// FilterAdd adds a data element to a loaded filter
type FilterAdd struct {
	Data []byte
}

func NewFilterAdd(data []byte) (*FilterAdd, error) {
	p := &FilterAdd{Data: data}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *FilterAdd) Command() message.Command {
	return message.CommandFilterAdd
}

func (p *FilterAdd) Validate() error {
	if len(p.Data) == 0 || len(p.Data) > MaxFilterAddSize {
		return fmt.Errorf(
			"%w: filter data size %d outside 1..%d",
			ErrInvalidValue,
			len(p.Data),
			MaxFilterAddSize,
		)
	}
	return nil
}

func (p *FilterAdd) Encode(w *wire.Writer) {
	w.WriteVarBytes(p.Data)
}

func (p *FilterAdd) Decode(r *wire.Reader) error {
	var err error
	if p.Data, err = r.ReadVarBytes(); err != nil {
		return err
	}
	return p.Validate()
}
