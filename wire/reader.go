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

// Package wire implements the primitive binary codec used by the Bitcoin
// peer-to-peer protocol.
//
// Multi-byte integers take an explicit byte order. A nil order selects
// little-endian, which is the wire default. Reads never panic: a short buffer
// produces ErrTruncated and leaves the cursor unchanged.
package wire

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	varIntMarker16 = 0xfd
	varIntMarker32 = 0xfe
	varIntMarker64 = 0xff
)

// Reader is a cursor over a byte slice
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a Reader positioned at the start of data. The slice is not copied
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Offset returns the number of bytes consumed so far
func (r *Reader) Offset() int {
	return r.pos
}

func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalidValue, n)
	}
	if r.Remaining() < n {
		return nil, fmt.Errorf(
			"%w: need %d bytes, have %d",
			ErrTruncated,
			n,
			r.Remaining(),
		)
	}
	ret := r.data[r.pos : r.pos+n]
	r.pos += n
	return ret, nil
}

// ReadBytes returns a copy of the next n bytes
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.next(n)
	if err != nil {
		return nil, err
	}
	ret := make([]byte, n)
	copy(ret, b)
	return ret, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadUint16(order binary.ByteOrder) (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return byteOrder(order).Uint16(b), nil
}

func (r *Reader) ReadUint32(order binary.ByteOrder) (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return byteOrder(order).Uint32(b), nil
}

func (r *Reader) ReadUint64(order binary.ByteOrder) (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return byteOrder(order).Uint64(b), nil
}

func (r *Reader) ReadInt16(order binary.ByteOrder) (int16, error) {
	v, err := r.ReadUint16(order)
	return int16(v), err //nolint:gosec
}

func (r *Reader) ReadInt32(order binary.ByteOrder) (int32, error) {
	v, err := r.ReadUint32(order)
	return int32(v), err //nolint:gosec
}

func (r *Reader) ReadInt64(order binary.ByteOrder) (int64, error) {
	v, err := r.ReadUint64(order)
	return int64(v), err //nolint:gosec
}

// ReadVarInt decodes a variable-length integer. Encodings that use a wider tier
// than necessary are accepted
func (r *Reader) ReadVarInt() (uint64, error) {
	start := r.pos
	marker, err := r.ReadUint8()
	if err != nil {
		return 0, err
	}
	var ret uint64
	switch marker {
	case varIntMarker16:
		var v uint16
		v, err = r.ReadUint16(binary.LittleEndian)
		ret = uint64(v)
	case varIntMarker32:
		var v uint32
		v, err = r.ReadUint32(binary.LittleEndian)
		ret = uint64(v)
	case varIntMarker64:
		ret, err = r.ReadUint64(binary.LittleEndian)
	default:
		ret = uint64(marker)
	}
	if err != nil {
		r.pos = start
		return 0, err
	}
	return ret, nil
}

// ReadCount reads a varint element count and checks that count elements of at
// least minSize bytes each can still be present in the input. A zero maxCount
// disables the upper bound
func (r *Reader) ReadCount(maxCount uint64, minSize int) (int, error) {
	start := r.pos
	count, err := r.ReadVarInt()
	if err != nil {
		return 0, err
	}
	if maxCount > 0 && count > maxCount {
		r.pos = start
		return 0, fmt.Errorf(
			"%w: count %d exceeds maximum %d",
			ErrInvalidValue,
			count,
			maxCount,
		)
	}
	if minSize < 1 {
		minSize = 1
	}
	if count > uint64(r.Remaining()/minSize) {
		r.pos = start
		return 0, fmt.Errorf(
			"%w: count %d needs at least %d bytes per element, have %d bytes",
			ErrTruncated,
			count,
			minSize,
			r.Remaining(),
		)
	}
	return int(count), nil //nolint:gosec
}

// ReadVarBytes reads a varint length followed by that many bytes
func (r *Reader) ReadVarBytes() ([]byte, error) {
	start := r.pos
	length, err := r.ReadVarInt()
	if err != nil {
		return nil, err
	}
	if length > uint64(r.Remaining()) {
		r.pos = start
		return nil, fmt.Errorf(
			"%w: declared length %d, have %d",
			ErrTruncated,
			length,
			r.Remaining(),
		)
	}
	return r.ReadBytes(int(length)) //nolint:gosec
}

// ReadVarString reads a varint length-prefixed ASCII string
func (r *Reader) ReadVarString() (string, error) {
	start := r.pos
	b, err := r.ReadVarBytes()
	if err != nil {
		return "", err
	}
	if !isASCII(b) {
		r.pos = start
		return "", fmt.Errorf("%w: non-ASCII string", ErrInvalidValue)
	}
	return string(b), nil
}

// ReadFixedASCII reads exactly n bytes and returns them as a string with
// trailing NUL bytes removed
func (r *Reader) ReadFixedASCII(n int) (string, error) {
	start := r.pos
	b, err := r.next(n)
	if err != nil {
		return "", err
	}
	if !isASCII(b) {
		r.pos = start
		return "", fmt.Errorf("%w: non-ASCII string", ErrInvalidValue)
	}
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return string(b[:end]), nil
}

// ReadBool reads a single byte where any non-zero value is true
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadUint8()
	return v != 0, err
}

// ReadTime32 reads a 32-bit little-endian Unix timestamp
func (r *Reader) ReadTime32() (time.Time, error) {
	v, err := r.ReadUint32(binary.LittleEndian)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(v), 0).UTC(), nil
}

// ReadTime64 reads a 64-bit little-endian Unix timestamp
func (r *Reader) ReadTime64() (time.Time, error) {
	v, err := r.ReadInt64(binary.LittleEndian)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(v, 0).UTC(), nil
}

// ReadHash reads a 32-byte hash in wire order
func (r *Reader) ReadHash() (chainhash.Hash, error) {
	var ret chainhash.Hash
	b, err := r.next(chainhash.HashSize)
	if err != nil {
		return ret, err
	}
	copy(ret[:], b)
	return ret, nil
}

func byteOrder(order binary.ByteOrder) binary.ByteOrder {
	if order == nil {
		return binary.LittleEndian
	}
	return order
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c > 0x7f {
			return false
		}
	}
	return true
}
