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

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	btcwire "github.com/blinklabs-io/gobtcwire"
	"github.com/blinklabs-io/gobtcwire/capture"
	"github.com/blinklabs-io/gobtcwire/payload"
)

func TestPrintRecord(t *testing.T) {
	msg, err := payload.Encode(btcwire.NetworkMainnet.Magic, &payload.Ping{Nonce: 42})
	require.NoError(t, err)
	record, err := capture.NewRecord(time.Unix(1700000000, 0).UTC(), capture.DirectionInbound, msg)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printRecord(&out, btcwire.NetworkMainnet, record))
	line := out.String()
	assert.True(t, strings.HasPrefix(line, "2023-11-14T22:13:20Z in  ping"), line)
	assert.Contains(t, line, "Nonce:42")
}

func TestPrintRecordWrongNetwork(t *testing.T) {
	msg, err := payload.Encode(btcwire.NetworkTestnet3.Magic, &payload.Verack{})
	require.NoError(t, err)
	record, err := capture.NewRecord(time.Now(), capture.DirectionOutbound, msg)
	require.NoError(t, err)

	var out bytes.Buffer
	err = printRecord(&out, btcwire.NetworkMainnet, record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "testnet3")
	assert.Empty(t, out.String())
}

func TestPeerAddress(t *testing.T) {
	cmd := &connectCommand{Address: "127.0.0.1"}
	addr, err := cmd.peerAddress(btcwire.NewPeerManager(btcwire.PeerManagerConfig{}), btcwire.NetworkTestnet3)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:18333", addr)

	cmd = &connectCommand{Address: "[::1]:8444"}
	addr, err = cmd.peerAddress(btcwire.NewPeerManager(btcwire.PeerManagerConfig{}), btcwire.NetworkMainnet)
	require.NoError(t, err)
	assert.Equal(t, "[::1]:8444", addr)

	cmd = &connectCommand{}
	_, err = cmd.peerAddress(btcwire.NewPeerManager(btcwire.PeerManagerConfig{}), btcwire.NetworkMainnet)
	require.Error(t, err)
}
