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

package message_test

import (
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/blinklabs-io/gobtcwire/internal/test"
	"github.com/blinklabs-io/gobtcwire/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const versionHeaderHex = "f9beb4d9 | 76657273696f6e0000000000 | 02000000 | f15813fa"

// Captured from a mainnet peer
const versionMessageHex = `
f9beb4d9 | 76657273696f6e0000000000 | 65000000 | 2f809bfa
72110100 0100000000000000 0e56055400000000
010000000000000000000000000000000000ffff000000000000
010000000000000000000000000000000000ffffad08a669208d
0554513eca179e5e
0f2f5361746f7368693a302e392e312f
79a00200
01
`

func TestHeaderVector(t *testing.T) {
	data := test.DecodeHexString(versionHeaderHex)
	header, err := message.DecodeHeader(data)
	require.NoError(t, err)
	assert.Equal(
		t,
		message.Header{
			Magic:           message.MagicMainnet,
			Command:         message.CommandVersion,
			PayloadLength:   2,
			PayloadChecksum: 0xfa1358f1,
		},
		header,
	)
	encoded, err := header.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, data, encoded)
	assert.Len(t, encoded, message.HeaderSize)
}

func TestHeaderRoundTripAllNetworksAndCommands(t *testing.T) {
	magics := []message.Magic{
		message.MagicMainnet,
		message.MagicTestnet,
		message.MagicTestnet3,
	}
	for _, magic := range magics {
		for _, cmd := range message.Commands() {
			t.Run(fmt.Sprintf("%s/%s", magic, cmd), func(t *testing.T) {
				header := message.Header{
					Magic:           magic,
					Command:         cmd,
					PayloadLength:   0x01020304,
					PayloadChecksum: 0xdeadbeef,
				}
				data, err := header.MarshalBinary()
				require.NoError(t, err)
				var decoded message.Header
				require.NoError(t, decoded.UnmarshalBinary(data))
				assert.Equal(t, header, decoded)
			})
		}
	}
}

func TestDecodeHeaderErrors(t *testing.T) {
	valid := test.DecodeHexString(versionHeaderHex)
	testDefs := []struct {
		name        string
		data        []byte
		expectedErr error
	}{
		{
			name:        "truncated",
			data:        valid[:message.HeaderSize-1],
			expectedErr: message.ErrTruncated,
		},
		{
			name:        "empty",
			data:        nil,
			expectedErr: message.ErrTruncated,
		},
		{
			name:        "unknown magic",
			data:        test.DecodeHexString("01020304 76657273696f6e0000000000 02000000 f15813fa"),
			expectedErr: message.ErrUnsupportedNetwork,
		},
		{
			name:        "unknown command",
			data:        test.DecodeHexString("f9beb4d9 76657273696f6f0000000000 02000000 f15813fa"),
			expectedErr: message.ErrUnknownCommand,
		},
		{
			name:        "embedded NUL in command",
			data:        test.DecodeHexString("f9beb4d9 7665720073696f6e00000000 02000000 f15813fa"),
			expectedErr: message.ErrUnknownCommand,
		},
		{
			name:        "non-ASCII command",
			data:        test.DecodeHexString("f9beb4d9 ff65727373696f6e00000000 02000000 f15813fa"),
			expectedErr: message.ErrUnknownCommand,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := message.DecodeHeader(testDef.data)
			assert.ErrorIs(t, err, testDef.expectedErr)
		})
	}
}

func TestCommandNames(t *testing.T) {
	assert.Len(t, message.Commands(), 21)
	for _, cmd := range message.Commands() {
		assert.LessOrEqual(t, len(cmd.String()), message.CommandSize)
		parsed, err := message.ParseCommand(cmd.String())
		require.NoError(t, err)
		assert.Equal(t, cmd, parsed)
	}
	_, err := message.ParseCommand("sendheaders")
	assert.ErrorIs(t, err, message.ErrUnknownCommand)
	assert.False(t, message.CommandUnknown.IsKnown())
	assert.False(t, message.Command(200).IsKnown())
}

func TestMagicBytes(t *testing.T) {
	assert.Equal(t, "f9beb4d9", hex.EncodeToString(message.MagicMainnet.Bytes()))
	assert.Equal(t, "fabfb5da", hex.EncodeToString(message.MagicTestnet.Bytes()))
	assert.Equal(t, "0b110907", hex.EncodeToString(message.MagicTestnet3.Bytes()))
	assert.True(t, message.MagicTestnet3.IsKnown())
	assert.False(t, message.Magic(0).IsKnown())
	assert.Equal(t, "mainnet", message.MagicMainnet.String())
}

func TestNewMessageVector(t *testing.T) {
	data := test.DecodeHexString(versionMessageHex)
	payload := data[message.HeaderSize:]
	msg, err := message.NewMessage(
		message.MagicMainnet,
		message.CommandVersion,
		payload,
	)
	require.NoError(t, err)
	assert.Equal(t, data, msg.Bytes())
	assert.Equal(t, uint32(0xfa9b802f), msg.Header().PayloadChecksum)
	assert.Equal(t, uint32(101), msg.Header().PayloadLength)
	assert.True(t, msg.IsChecksumValid())

	decoded, err := message.DecodeMessage(data)
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}

func TestEmptyPayloadChecksum(t *testing.T) {
	msg, err := message.NewMessage(message.MagicMainnet, message.CommandVerack, nil)
	require.NoError(t, err)
	assert.Equal(
		t,
		"f9beb4d976657261636b000000000000000000005df6e0e2",
		hex.EncodeToString(msg.Bytes()),
	)
	assert.Empty(t, msg.Payload())
}

func TestMessageOwnsPayload(t *testing.T) {
	payload := []byte{1, 2, 3}
	msg, err := message.NewMessage(message.MagicMainnet, message.CommandPing, payload)
	require.NoError(t, err)
	payload[0] = 0xff
	assert.Equal(t, []byte{1, 2, 3}, msg.Payload())
	out := msg.Payload()
	out[1] = 0xff
	assert.Equal(t, []byte{1, 2, 3}, msg.Payload())
	assert.True(t, msg.IsChecksumValid())
}

func TestChecksumDetectsBitFlips(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 1, 256).Draw(rt, "payload")
		msg, err := message.NewMessage(message.MagicMainnet, message.CommandTx, payload)
		if err != nil {
			rt.Fatalf("unexpected error: %s", err)
		}
		if !msg.IsChecksumValid() {
			rt.Fatal("fresh message has invalid checksum")
		}
		bit := rapid.IntRange(0, len(payload)*8-1).Draw(rt, "bit")
		corrupt := msg.Payload()
		corrupt[bit/8] ^= 1 << (bit % 8)
		flipped, err := message.FromWire(msg.Header(), corrupt)
		if err != nil {
			rt.Fatalf("unexpected error: %s", err)
		}
		if flipped.IsChecksumValid() {
			rt.Fatalf("bit flip at %d not detected", bit)
		}
	})
}

func TestDecodeMessageErrors(t *testing.T) {
	data := test.DecodeHexString(versionMessageHex)

	_, err := message.DecodeMessage(data[:len(data)-1])
	assert.ErrorIs(t, err, message.ErrTruncated)

	corrupt := append([]byte{}, data...)
	corrupt[len(corrupt)-1] ^= 0x01
	_, err = message.DecodeMessage(corrupt)
	assert.ErrorIs(t, err, message.ErrChecksumMismatch)

	_, err = message.FromWire(message.Header{PayloadLength: 5}, []byte{1})
	assert.ErrorIs(t, err, message.ErrTruncated)

	_, err = message.NewMessage(message.MagicMainnet, message.CommandUnknown, nil)
	assert.ErrorIs(t, err, message.ErrUnknownCommand)
}
