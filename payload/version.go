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
	"time"

	"github.com/blinklabs-io/gobtcwire/message"
	"github.com/blinklabs-io/gobtcwire/wire"
)

// Version is sent by each side when a connection opens
type Version struct {
	ProtocolVersion uint32
	Services        ServiceFlag
	Timestamp       time.Time
	Receiver        PeerAddress
	Sender          PeerAddress
	Nonce           uint64
	UserAgent       string
	StartHeight     int32
	// Relay is absent from versions older than 70001 and then defaults to true
	Relay bool
}

// NewVersion returns a Version with the current time and the default protocol version
func NewVersion(
	services ServiceFlag,
	receiver PeerAddress,
	sender PeerAddress,
	nonce uint64,
	userAgent string,
	startHeight int32,
	relay bool,
) *Version {
	return &Version{
		ProtocolVersion: ProtocolVersion,
		Services:        services,
		Timestamp:       time.Unix(time.Now().Unix(), 0).UTC(),
		Receiver:        receiver,
		Sender:          sender,
		Nonce:           nonce,
		UserAgent:       userAgent,
		StartHeight:     startHeight,
		Relay:           relay,
	}
}

func (p *Version) Command() message.Command {
	return message.CommandVersion
}

func (p *Version) Encode(w *wire.Writer) {
	w.WriteUint32(p.ProtocolVersion, binary.LittleEndian)
	w.WriteUint64(uint64(p.Services), binary.LittleEndian)
	w.WriteTime64(p.Timestamp)
	p.Receiver.encode(w, false)
	p.Sender.encode(w, false)
	w.WriteUint64(p.Nonce, binary.LittleEndian)
	w.WriteVarString(p.UserAgent)
	w.WriteInt32(p.StartHeight, binary.LittleEndian)
	w.WriteBool(p.Relay)
}

// Decode reads a version message. The trailing relay byte is optional, and
// Relay is set to true when it is missing
func (p *Version) Decode(r *wire.Reader) error {
	var err error
	if p.ProtocolVersion, err = r.ReadUint32(binary.LittleEndian); err != nil {
		return err
	}
	services, err := r.ReadUint64(binary.LittleEndian)
	if err != nil {
		return err
	}
	p.Services = ServiceFlag(services)
	if p.Timestamp, err = r.ReadTime64(); err != nil {
		return err
	}
	if err := p.Receiver.decode(r, false); err != nil {
		return err
	}
	if err := p.Sender.decode(r, false); err != nil {
		return err
	}
	if p.Nonce, err = r.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	if p.UserAgent, err = r.ReadVarString(); err != nil {
		return err
	}
	if p.StartHeight, err = r.ReadInt32(binary.LittleEndian); err != nil {
		return err
	}
	p.Relay = true
	if r.Remaining() > 0 {
		if p.Relay, err = r.ReadBool(); err != nil {
			return err
		}
	}
	return nil
}
