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

package wire_test

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"testing"
	"time"

	"github.com/blinklabs-io/gobtcwire/internal/test"
	"github.com/blinklabs-io/gobtcwire/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var varIntTestDefs = []struct {
	name    string
	value   uint64
	hexData string
}{
	{name: "zero", value: 0, hexData: "00"},
	{name: "single byte max", value: 0xfc, hexData: "fc"},
	{name: "u16 min", value: 0xfd, hexData: "fdfd00"},
	{name: "u16 mixed", value: 0x0102, hexData: "fd0201"},
	{name: "u16 max", value: 0xffff, hexData: "fdffff"},
	{name: "u32 min", value: 0x10000, hexData: "fe00000100"},
	{name: "u32 max", value: 0xffffffff, hexData: "feffffffff"},
	{name: "u64 min", value: 0x100000000, hexData: "ff0000000001000000"},
	{
		name:    "u64 max",
		value:   0xffffffffffffffff,
		hexData: "ffffffffffffffffff",
	},
}

func TestVarIntVectors(t *testing.T) {
	for _, testDef := range varIntTestDefs {
		t.Run(testDef.name, func(t *testing.T) {
			data := test.DecodeHexString(testDef.hexData)
			w := wire.NewWriter()
			w.WriteVarInt(testDef.value)
			require.NoError(t, w.Err())
			assert.Equal(t, testDef.hexData, hex.EncodeToString(w.Bytes()))
			assert.Equal(t, len(data), wire.VarIntSize(testDef.value))
			r := wire.NewReader(data)
			v, err := r.ReadVarInt()
			require.NoError(t, err)
			assert.Equal(t, testDef.value, v)
			assert.Equal(t, 0, r.Remaining())
		})
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.Uint64().Draw(rt, "value")
		w := wire.NewWriter()
		w.WriteVarInt(v)
		var expectedLen int
		switch {
		case v < 0xfd:
			expectedLen = 1
		case v <= 0xffff:
			expectedLen = 3
		case v <= 0xffffffff:
			expectedLen = 5
		default:
			expectedLen = 9
		}
		if w.Len() != expectedLen {
			rt.Fatalf("value %d encoded to %d bytes, expected %d", v, w.Len(), expectedLen)
		}
		got, err := wire.NewReader(w.Bytes()).ReadVarInt()
		if err != nil {
			rt.Fatalf("unexpected error: %s", err)
		}
		if got != v {
			rt.Fatalf("round trip mismatch: got %d, expected %d", got, v)
		}
	})
}

func TestVarIntNonCanonicalAccepted(t *testing.T) {
	r := wire.NewReader(test.DecodeHexString("ff0a00000000000000"))
	v, err := r.ReadVarInt()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), v)
}

func TestVarIntTruncated(t *testing.T) {
	for _, hexData := range []string{"", "fd01", "fe010203", "ff01020304050607"} {
		r := wire.NewReader(test.DecodeHexString(hexData))
		_, err := r.ReadVarInt()
		assert.ErrorIs(t, err, wire.ErrTruncated, "input %q", hexData)
		assert.Equal(t, 0, r.Offset(), "cursor should not advance on failure")
	}
}

func TestIntegerByteOrder(t *testing.T) {
	data := test.DecodeHexString("0102030405060708")
	r := wire.NewReader(data)
	v16, err := r.ReadUint16(binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), v16)
	v16, err = r.ReadUint16(nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0403), v16)
	v32, err := r.ReadUint32(binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x08070605), v32)
	_, err = r.ReadUint8()
	assert.ErrorIs(t, err, wire.ErrTruncated)

	w := wire.NewWriter()
	w.WriteUint16(0x0102, binary.BigEndian)
	w.WriteUint16(0x0403, nil)
	w.WriteUint32(0x08070605, binary.LittleEndian)
	assert.Equal(t, data, w.Bytes())
}

func TestSignedIntegers(t *testing.T) {
	w := wire.NewWriter()
	w.WriteInt16(-2, nil)
	w.WriteInt32(-1, nil)
	w.WriteInt64(-300, binary.BigEndian)
	r := wire.NewReader(w.Bytes())
	v16, err := r.ReadInt16(nil)
	require.NoError(t, err)
	assert.Equal(t, int16(-2), v16)
	v32, err := r.ReadInt32(nil)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v32)
	v64, err := r.ReadInt64(binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, int64(-300), v64)
}

func TestVarString(t *testing.T) {
	w := wire.NewWriter()
	w.WriteVarString("/Satoshi:0.9.1/")
	require.NoError(t, w.Err())
	assert.Equal(
		t,
		"0f2f5361746f7368693a302e392e312f",
		hex.EncodeToString(w.Bytes()),
	)
	s, err := wire.NewReader(w.Bytes()).ReadVarString()
	require.NoError(t, err)
	assert.Equal(t, "/Satoshi:0.9.1/", s)

	w = wire.NewWriter()
	w.WriteVarString("café")
	assert.ErrorIs(t, w.Err(), wire.ErrInvalidValue)

	_, err = wire.NewReader(test.DecodeHexString("0161")).ReadVarString()
	require.NoError(t, err)
	_, err = wire.NewReader(test.DecodeHexString("0261")).ReadVarString()
	assert.ErrorIs(t, err, wire.ErrTruncated)
	_, err = wire.NewReader(test.DecodeHexString("01ff")).ReadVarString()
	assert.ErrorIs(t, err, wire.ErrInvalidValue)
}

func TestFixedASCII(t *testing.T) {
	w := wire.NewWriter()
	w.WriteFixedASCII("version", 12)
	require.NoError(t, w.Err())
	assert.Equal(t, "76657273696f6e0000000000", hex.EncodeToString(w.Bytes()))
	s, err := wire.NewReader(w.Bytes()).ReadFixedASCII(12)
	require.NoError(t, err)
	assert.Equal(t, "version", s)

	_, err = wire.NewReader(w.Bytes()[:11]).ReadFixedASCII(12)
	assert.ErrorIs(t, err, wire.ErrTruncated)
	_, err = wire.NewReader([]byte{0x80, 0, 0}).ReadFixedASCII(3)
	assert.ErrorIs(t, err, wire.ErrInvalidValue)

	w = wire.NewWriter()
	w.WriteFixedASCII("thisistoolong", 12)
	assert.ErrorIs(t, w.Err(), wire.ErrInvalidValue)
}

func TestBoolAndTime(t *testing.T) {
	ts := time.Unix(1355854353, 0).UTC()
	w := wire.NewWriter()
	w.WriteBool(true)
	w.WriteBool(false)
	w.WriteTime32(ts)
	w.WriteTime64(ts)
	assert.Equal(t, 2+4+8, w.Len())
	r := wire.NewReader(w.Bytes())
	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)
	b, err = r.ReadBool()
	require.NoError(t, err)
	assert.False(t, b)
	t32, err := r.ReadTime32()
	require.NoError(t, err)
	assert.Equal(t, ts, t32)
	t64, err := r.ReadTime64()
	require.NoError(t, err)
	assert.Equal(t, ts, t64)
}

func TestTime32Range(t *testing.T) {
	testDefs := []struct {
		name  string
		ts    time.Time
		valid bool
	}{
		{name: "epoch", ts: time.Unix(0, 0), valid: true},
		{name: "max", ts: time.Unix(math.MaxUint32, 0), valid: true},
		{name: "zero value", ts: time.Time{}},
		{name: "before epoch", ts: time.Unix(-1, 0)},
		{name: "after 2106", ts: time.Unix(1<<33, 0)},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			assert.Equal(t, testDef.valid, wire.ValidTime32(testDef.ts))
			w := wire.NewWriter()
			w.WriteTime32(testDef.ts)
			if !testDef.valid {
				assert.ErrorIs(t, w.Err(), wire.ErrInvalidValue)
				assert.Equal(t, 0, w.Len())
				return
			}
			require.NoError(t, w.Err())
			ts, err := wire.NewReader(w.Bytes()).ReadTime32()
			require.NoError(t, err)
			assert.Equal(t, testDef.ts.UTC(), ts)
		})
	}
}

func TestReadCountGuards(t *testing.T) {
	// count of 3 with room for only 2 elements of 4 bytes
	r := wire.NewReader(test.DecodeHexString("030000000000000000"))
	_, err := r.ReadCount(0, 4)
	assert.ErrorIs(t, err, wire.ErrTruncated)
	assert.Equal(t, 0, r.Offset())

	// huge declared count must not allocate
	r = wire.NewReader(test.DecodeHexString("ffffffffffffffffff"))
	_, err = r.ReadCount(0, 1)
	assert.ErrorIs(t, err, wire.ErrTruncated)

	r = wire.NewReader(test.DecodeHexString("03aabbcc"))
	_, err = r.ReadCount(2, 1)
	assert.ErrorIs(t, err, wire.ErrInvalidValue)

	r = wire.NewReader(test.DecodeHexString("03aabbcc"))
	count, err := r.ReadCount(3, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestReadVarBytesHostileLength(t *testing.T) {
	r := wire.NewReader(test.DecodeHexString("feffffff7f0102"))
	_, err := r.ReadVarBytes()
	assert.ErrorIs(t, err, wire.ErrTruncated)
	assert.Equal(t, 0, r.Offset())
}

type pair struct {
	A uint32
	B string
}

func (p *pair) Encode(w *wire.Writer) {
	w.WriteUint32(p.A, nil)
	w.WriteVarString(p.B)
}

func (p *pair) Decode(r *wire.Reader) error {
	var err error
	if p.A, err = r.ReadUint32(nil); err != nil {
		return err
	}
	p.B, err = r.ReadVarString()
	return err
}

func TestSerializableContract(t *testing.T) {
	src := &pair{A: 7, B: "abc"}
	data, err := wire.ToBytes(src)
	require.NoError(t, err)
	assert.Equal(t, "0700000003616263", hex.EncodeToString(data))

	dst := &pair{}
	require.NoError(t, wire.FromBytes(data, dst))
	assert.Equal(t, src, dst)

	// concatenated values decode in sequence
	r := wire.NewReader(append(append([]byte{}, data...), data...))
	for i := 0; i < 2; i++ {
		p := &pair{}
		require.NoError(t, p.Decode(r))
		assert.Equal(t, src, p)
	}
	assert.Equal(t, 0, r.Remaining())

	err = wire.FromBytes(append(data, 0x00), &pair{})
	assert.ErrorIs(t, err, wire.ErrTrailingBytes)

	_, err = wire.ToBytes(&pair{B: "ÿ"})
	assert.ErrorIs(t, err, wire.ErrInvalidValue)
}

func TestHashes(t *testing.T) {
	assert.Equal(
		t,
		"5df6e0e2761359d30a8275058e299fcc0381534545f55cf43e41983f5d4c9456",
		hex.EncodeToString(wire.DoubleSHA256(nil)),
	)
	assert.Equal(
		t,
		"b472a266d0bd89c13706a4132ccfb16f7c3b9fcb",
		hex.EncodeToString(wire.Hash160(nil)),
	)
	assert.Len(t, wire.Hash160([]byte("abc")), wire.Hash160Size)
}
