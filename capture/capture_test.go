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

package capture

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/blinklabs-io/gobtcwire/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessages(t *testing.T) []*message.Message {
	var ret []*message.Message
	for _, tmp := range []struct {
		cmd     message.Command
		payload []byte
	}{
		{message.CommandVerack, nil},
		{message.CommandPing, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{message.CommandTx, bytes.Repeat([]byte{0xab}, 300)},
	} {
		msg, err := message.NewMessage(message.MagicTestnet3, tmp.cmd, tmp.payload)
		require.NoError(t, err)
		ret = append(ret, msg)
	}
	return ret
}

func TestNewRecordCopiesHeader(t *testing.T) {
	msg, err := message.NewMessage(message.MagicMainnet, message.CommandGetHeaders, []byte{0x01})
	require.NoError(t, err)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.UTC)
	record, err := NewRecord(ts, DirectionOutbound, msg)
	require.NoError(t, err)
	assert.Equal(t, uint32(message.MagicMainnet), record.Magic)
	assert.Equal(t, "getheaders", record.Command)
	assert.Equal(t, uint32(1), record.PayloadLength)
	assert.Equal(t, msg.Header().PayloadChecksum, record.PayloadChecksum)
	assert.Equal(t, []byte{0x01}, record.Payload)
	header, err := record.Header()
	require.NoError(t, err)
	assert.Equal(t, msg.Header(), header)
}

func TestWriteReadRoundTrip(t *testing.T) {
	msgs := testMessages(t)
	var buf bytes.Buffer
	w := NewWriter(&buf)
	ts := time.Date(2025, 1, 2, 3, 4, 5, 600, time.UTC)
	w.nowFunc = func() time.Time { return ts }
	for i, msg := range msgs {
		direction := DirectionInbound
		if i%2 == 1 {
			direction = DirectionOutbound
		}
		require.NoError(t, w.Write(direction, msg))
	}
	records, err := NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(msgs))
	for i, record := range records {
		assert.True(t, ts.Equal(record.Timestamp), "record %d timestamp %s", i, record.Timestamp)
		msg, err := record.Message()
		require.NoError(t, err)
		assert.Equal(t, msgs[i].Bytes(), msg.Bytes())
	}
	assert.Equal(t, DirectionInbound, records[0].Direction)
	assert.Equal(t, DirectionOutbound, records[1].Direction)
}

func TestReadEmpty(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	_, err := r.Read()
	assert.ErrorIs(t, err, io.EOF)
	records, err := NewReader(bytes.NewReader(nil)).ReadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadTruncated(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, msg := range testMessages(t) {
		require.NoError(t, w.Write(DirectionInbound, msg))
	}
	data := buf.Bytes()
	records, err := NewReader(bytes.NewReader(data[:len(data)-10])).ReadAll()
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.Len(t, records, 2)
}

func TestRecordMessageErrors(t *testing.T) {
	msg := testMessages(t)[1]
	record, err := NewRecord(time.Now(), DirectionInbound, msg)
	require.NoError(t, err)

	corrupted := *record
	corrupted.Payload = bytes.Clone(record.Payload)
	corrupted.Payload[0] ^= 0xff
	_, err = corrupted.Message()
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.ErrorIs(t, err, message.ErrChecksumMismatch)

	unknown := *record
	unknown.Command = "bogus"
	_, err = unknown.Message()
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.ErrorIs(t, err, message.ErrUnknownCommand)

	short := *record
	short.PayloadLength++
	_, err = short.Message()
	assert.ErrorIs(t, err, message.ErrTruncated)
}

func TestConcurrentWrites(t *testing.T) {
	msgs := testMessages(t)
	var buf bytes.Buffer
	w := NewWriter(&buf)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, msg := range msgs {
				assert.NoError(t, w.Write(DirectionOutbound, msg))
			}
		}()
	}
	wg.Wait()
	records, err := NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 10*len(msgs))
	for _, record := range records {
		_, err := record.Message()
		assert.NoError(t, err)
	}
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "in", DirectionInbound.String())
	assert.Equal(t, "out", DirectionOutbound.String())
	assert.Equal(t, "Direction(9)", Direction(9).String())
}
