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

package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Writer accumulates encoded fields. The first failure is recorded and
// returned by Err; later writes are ignored
type Writer struct {
	buf []byte
	err error
}

// NewWriter returns an empty Writer
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the encoded data
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written
func (w *Writer) Len() int {
	return len(w.buf)
}

// Err returns the first error encountered while writing, if any
func (w *Writer) Err() error {
	return w.err
}

// SetErr records err unless an error has already been recorded
func (w *Writer) SetErr(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) WriteBytes(b []byte) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, b...)
}

func (w *Writer) WriteUint8(v uint8) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteUint16(v uint16, order binary.ByteOrder) {
	var tmp [2]byte
	byteOrder(order).PutUint16(tmp[:], v)
	w.WriteBytes(tmp[:])
}

func (w *Writer) WriteUint32(v uint32, order binary.ByteOrder) {
	var tmp [4]byte
	byteOrder(order).PutUint32(tmp[:], v)
	w.WriteBytes(tmp[:])
}

func (w *Writer) WriteUint64(v uint64, order binary.ByteOrder) {
	var tmp [8]byte
	byteOrder(order).PutUint64(tmp[:], v)
	w.WriteBytes(tmp[:])
}

func (w *Writer) WriteInt16(v int16, order binary.ByteOrder) {
	w.WriteUint16(uint16(v), order) //nolint:gosec
}

func (w *Writer) WriteInt32(v int32, order binary.ByteOrder) {
	w.WriteUint32(uint32(v), order) //nolint:gosec
}

func (w *Writer) WriteInt64(v int64, order binary.ByteOrder) {
	w.WriteUint64(uint64(v), order) //nolint:gosec
}

// WriteVarInt writes v using the shortest varint tier
func (w *Writer) WriteVarInt(v uint64) {
	switch {
	case v < varIntMarker16:
		w.WriteUint8(uint8(v))
	case v <= math.MaxUint16:
		w.WriteUint8(varIntMarker16)
		w.WriteUint16(uint16(v), binary.LittleEndian)
	case v <= math.MaxUint32:
		w.WriteUint8(varIntMarker32)
		w.WriteUint32(uint32(v), binary.LittleEndian)
	default:
		w.WriteUint8(varIntMarker64)
		w.WriteUint64(v, binary.LittleEndian)
	}
}

// WriteVarBytes writes a varint length followed by b
func (w *Writer) WriteVarBytes(b []byte) {
	w.WriteVarInt(uint64(len(b)))
	w.WriteBytes(b)
}

// WriteVarString writes a varint length-prefixed ASCII string
func (w *Writer) WriteVarString(s string) {
	if !isASCII([]byte(s)) {
		w.SetErr(fmt.Errorf("%w: non-ASCII string %q", ErrInvalidValue, s))
		return
	}
	w.WriteVarBytes([]byte(s))
}

// WriteFixedASCII writes s padded with NUL bytes to exactly n bytes
func (w *Writer) WriteFixedASCII(s string, n int) {
	if len(s) > n {
		w.SetErr(
			fmt.Errorf(
				"%w: string %q longer than %d bytes",
				ErrInvalidValue,
				s,
				n,
			),
		)
		return
	}
	if !isASCII([]byte(s)) {
		w.SetErr(fmt.Errorf("%w: non-ASCII string %q", ErrInvalidValue, s))
		return
	}
	tmp := make([]byte, n)
	copy(tmp, s)
	w.WriteBytes(tmp)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

// ValidTime32 returns true if t is representable as a 32-bit unsigned Unix timestamp
func ValidTime32(t time.Time) bool {
	sec := t.Unix()
	return sec >= 0 && sec <= math.MaxUint32
}

// WriteTime32 writes t as a 32-bit little-endian Unix timestamp. Times before
// 1970 or after 2106 record ErrInvalidValue
func (w *Writer) WriteTime32(t time.Time) {
	if !ValidTime32(t) {
		w.SetErr(fmt.Errorf("%w: time %s outside 32-bit range", ErrInvalidValue, t.UTC()))
		return
	}
	w.WriteUint32(uint32(t.Unix()), binary.LittleEndian) //nolint:gosec
}

// WriteTime64 writes t as a 64-bit little-endian Unix timestamp
func (w *Writer) WriteTime64(t time.Time) {
	w.WriteInt64(t.Unix(), binary.LittleEndian)
}

// WriteHash writes a 32-byte hash in wire order
func (w *Writer) WriteHash(h chainhash.Hash) {
	w.WriteBytes(h[:])
}

// VarIntSize returns the encoded size of v in bytes
func VarIntSize(v uint64) int {
	switch {
	case v < varIntMarker16:
		return 1
	case v <= math.MaxUint16:
		return 3
	case v <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}
