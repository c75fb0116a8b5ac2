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

package message

import (
	"encoding/binary"
	"fmt"

	"github.com/blinklabs-io/gobtcwire/wire"
)

// HeaderSize is the fixed length of an encoded Header
const HeaderSize = MagicSize + CommandSize + 4 + 4

// Header is the fixed-size prefix of every message
type Header struct {
	Magic           Magic
	Command         Command
	PayloadLength   uint32
	PayloadChecksum uint32
}

func (h Header) Encode(w *wire.Writer) {
	if !h.Command.IsKnown() {
		w.SetErr(fmt.Errorf("%w: %s", ErrUnknownCommand, h.Command))
		return
	}
	w.WriteUint32(uint32(h.Magic), binary.LittleEndian)
	w.WriteFixedASCII(h.Command.String(), CommandSize)
	w.WriteUint32(h.PayloadLength, binary.LittleEndian)
	w.WriteUint32(h.PayloadChecksum, binary.LittleEndian)
}

// Decode reads a header from r. The whole header must be available before any
// field is validated, so a short input always yields ErrTruncated
func (h *Header) Decode(r *wire.Reader) error {
	if r.Remaining() < HeaderSize {
		return fmt.Errorf(
			"%w: header needs %d bytes, have %d",
			ErrTruncated,
			HeaderSize,
			r.Remaining(),
		)
	}
	tmpMagic, err := r.ReadUint32(binary.LittleEndian)
	if err != nil {
		return err
	}
	magic := Magic(tmpMagic)
	if !magic.IsKnown() {
		return fmt.Errorf("%w: %s", ErrUnsupportedNetwork, magic)
	}
	name, err := r.ReadFixedASCII(CommandSize)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnknownCommand, err)
	}
	cmd, err := ParseCommand(name)
	if err != nil {
		return err
	}
	length, err := r.ReadUint32(binary.LittleEndian)
	if err != nil {
		return err
	}
	checksum, err := r.ReadUint32(binary.LittleEndian)
	if err != nil {
		return err
	}
	h.Magic = magic
	h.Command = cmd
	h.PayloadLength = length
	h.PayloadChecksum = checksum
	return nil
}

// MarshalBinary returns the 24-byte wire encoding of the header
func (h Header) MarshalBinary() ([]byte, error) {
	return wire.ToBytes(&h)
}

func (h *Header) UnmarshalBinary(data []byte) error {
	return wire.FromBytes(data, h)
}

// DecodeHeader decodes a header from the first HeaderSize bytes of data
func DecodeHeader(data []byte) (Header, error) {
	var h Header
	if err := h.Decode(wire.NewReader(data)); err != nil {
		return Header{}, err
	}
	return h, nil
}

func (h Header) String() string {
	return fmt.Sprintf(
		"%s %s length=%d checksum=0x%08x",
		h.Magic,
		h.Command,
		h.PayloadLength,
		h.PayloadChecksum,
	)
}
