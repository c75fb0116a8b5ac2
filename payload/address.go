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
	"net/netip"
	"strings"
	"time"

	"github.com/blinklabs-io/gobtcwire/wire"
)

const (
	// peerAddressSize is the encoded size of a PeerAddress without its timestamp
	peerAddressSize = 8 + 16 + 2
	// timedPeerAddressSize is the encoded size of a PeerAddress with its timestamp
	timedPeerAddressSize = 4 + peerAddressSize
)

// ServiceFlag is a bitfield of services offered by a node
type ServiceFlag uint64

const (
	SFNodeNetwork ServiceFlag = 1 << iota
	SFNodeGetUTXO
	SFNodeBloom
)

var serviceFlagNames = []struct {
	flag ServiceFlag
	name string
}{
	{SFNodeNetwork, "SFNodeNetwork"},
	{SFNodeGetUTXO, "SFNodeGetUTXO"},
	{SFNodeBloom, "SFNodeBloom"},
}

// Has returns true if all bits of flag are set
func (f ServiceFlag) Has(flag ServiceFlag) bool {
	return f&flag == flag
}

func (f ServiceFlag) String() string {
	if f == 0 {
		return "0x0"
	}
	var names []string
	remaining := f
	for _, entry := range serviceFlagNames {
		if f&entry.flag != 0 {
			names = append(names, entry.name)
			remaining &^= entry.flag
		}
	}
	if remaining != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint64(remaining)))
	}
	return strings.Join(names, "|")
}

// PeerAddress describes a network node. The timestamp is only present on the
// wire inside addr messages. An unset IP is sent as 16 zero bytes, and 16 zero
// bytes decode as an unset IP
type PeerAddress struct {
	Timestamp time.Time
	Services  ServiceFlag
	IP        netip.Addr
	Port      uint16
}

// NewPeerAddress returns a PeerAddress for an IP and port. The IPv6 unspecified
// address :: shares its encoding with an unset IP and is stored as unset
func NewPeerAddress(services ServiceFlag, addrPort netip.AddrPort) PeerAddress {
	ip := addrPort.Addr().Unmap()
	if ip == netip.IPv6Unspecified() {
		ip = netip.Addr{}
	}
	return PeerAddress{
		Services: services,
		IP:       ip,
		Port:     addrPort.Port(),
	}
}

// AddrPort returns the IP and port as a netip.AddrPort
func (a PeerAddress) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(a.IP, a.Port)
}

func (a PeerAddress) String() string {
	return a.AddrPort().String()
}

func (a *PeerAddress) encode(w *wire.Writer, withTimestamp bool) {
	if withTimestamp {
		w.WriteTime32(a.Timestamp)
	}
	w.WriteUint64(uint64(a.Services), binary.LittleEndian)
	var ip [16]byte
	if a.IP.IsValid() {
		ip = a.IP.As16()
	}
	w.WriteBytes(ip[:])
	w.WriteUint16(a.Port, binary.BigEndian)
}

func (a *PeerAddress) decode(r *wire.Reader, withTimestamp bool) error {
	if withTimestamp {
		ts, err := r.ReadTime32()
		if err != nil {
			return err
		}
		a.Timestamp = ts
	}
	services, err := r.ReadUint64(binary.LittleEndian)
	if err != nil {
		return err
	}
	a.Services = ServiceFlag(services)
	ip, err := r.ReadBytes(16)
	if err != nil {
		return err
	}
	if [16]byte(ip) == [16]byte{} {
		a.IP = netip.Addr{}
	} else {
		a.IP = netip.AddrFrom16([16]byte(ip)).Unmap()
	}
	if a.Port, err = r.ReadUint16(binary.BigEndian); err != nil {
		return err
	}
	return nil
}
