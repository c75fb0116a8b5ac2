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

// Alert is the signed body of an alert message
type Alert struct {
	Version            int32
	RelayUntil         time.Time
	Expiration         time.Time
	ID                 int32
	Cancel             int32
	SetCancel          []int32
	MinVersion         int32
	MaxVersion         int32
	AffectedUserAgents []string
	Priority           int32
	Comment            string
	StatusBar          string
	Reserved           string
}

func (a *Alert) Encode(w *wire.Writer) {
	w.WriteInt32(a.Version, binary.LittleEndian)
	w.WriteTime64(a.RelayUntil)
	w.WriteTime64(a.Expiration)
	w.WriteInt32(a.ID, binary.LittleEndian)
	w.WriteInt32(a.Cancel, binary.LittleEndian)
	w.WriteVarInt(uint64(len(a.SetCancel)))
	for _, id := range a.SetCancel {
		w.WriteInt32(id, binary.LittleEndian)
	}
	w.WriteInt32(a.MinVersion, binary.LittleEndian)
	w.WriteInt32(a.MaxVersion, binary.LittleEndian)
	w.WriteVarInt(uint64(len(a.AffectedUserAgents)))
	for _, ua := range a.AffectedUserAgents {
		w.WriteVarString(ua)
	}
	w.WriteInt32(a.Priority, binary.LittleEndian)
	w.WriteVarString(a.Comment)
	w.WriteVarString(a.StatusBar)
	w.WriteVarString(a.Reserved)
}

func (a *Alert) Decode(r *wire.Reader) error {
	var err error
	if a.Version, err = r.ReadInt32(binary.LittleEndian); err != nil {
		return err
	}
	if a.RelayUntil, err = r.ReadTime64(); err != nil {
		return err
	}
	if a.Expiration, err = r.ReadTime64(); err != nil {
		return err
	}
	if a.ID, err = r.ReadInt32(binary.LittleEndian); err != nil {
		return err
	}
	if a.Cancel, err = r.ReadInt32(binary.LittleEndian); err != nil {
		return err
	}
	count, err := r.ReadCount(0, 4)
	if err != nil {
		return err
	}
	a.SetCancel = make([]int32, count)
	for i := range a.SetCancel {
		if a.SetCancel[i], err = r.ReadInt32(binary.LittleEndian); err != nil {
			return err
		}
	}
	if a.MinVersion, err = r.ReadInt32(binary.LittleEndian); err != nil {
		return err
	}
	if a.MaxVersion, err = r.ReadInt32(binary.LittleEndian); err != nil {
		return err
	}
	count, err = r.ReadCount(0, 1)
	if err != nil {
		return err
	}
	a.AffectedUserAgents = make([]string, count)
	for i := range a.AffectedUserAgents {
		if a.AffectedUserAgents[i], err = r.ReadVarString(); err != nil {
			return err
		}
	}
	if a.Priority, err = r.ReadInt32(binary.LittleEndian); err != nil {
		return err
	}
	if a.Comment, err = r.ReadVarString(); err != nil {
		return err
	}
	if a.StatusBar, err = r.ReadVarString(); err != nil {
		return err
	}
	if a.Reserved, err = r.ReadVarString(); err != nil {
		return err
	}
	return nil
}

// AlertPayload carries a serialized Alert and the signature over it. The
// signature is not verified here
type AlertPayload struct {
	Payload   []byte
	Signature []byte
}

// NewAlertPayload serializes alert and pairs it with signature
func NewAlertPayload(alert *Alert, signature []byte) (*AlertPayload, error) {
	data, err := wire.ToBytes(alert)
	if err != nil {
		return nil, err
	}
	return &AlertPayload{
		Payload:   data,
		Signature: signature,
	}, nil
}

func (p *AlertPayload) Command() message.Command {
	return message.CommandAlert
}

// Alert decodes the serialized alert body
func (p *AlertPayload) Alert() (*Alert, error) {
	ret := &Alert{}
	if err := wire.FromBytes(p.Payload, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (p *AlertPayload) Encode(w *wire.Writer) {
	w.WriteVarBytes(p.Payload)
	w.WriteVarBytes(p.Signature)
}

func (p *AlertPayload) Decode(r *wire.Reader) error {
	var err error
	if p.Payload, err = r.ReadVarBytes(); err != nil {
		return err
	}
	if p.Signature, err = r.ReadVarBytes(); err != nil {
		return err
	}
	return nil
}
