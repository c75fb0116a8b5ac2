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
	"fmt"
	"time"

	"github.com/blinklabs-io/gobtcwire/message"
	"github.com/blinklabs-io/gobtcwire/wire"
)

// MaxAddrCount is the maximum number of addresses in a single addr message
const MaxAddrCount = 1000

// Addr announces known peer addresses
type Addr struct {
	Addresses []PeerAddress
}

// NewAddr returns an Addr carrying between 1 and MaxAddrCount addresses.
// Addresses without a timestamp are stamped with the current time
func NewAddr(addresses ...PeerAddress) (*Addr, error) {
	now := time.Unix(time.Now().Unix(), 0).UTC()
	tmpAddresses := make([]PeerAddress, len(addresses))
	for i, addr := range addresses {
		if addr.Timestamp.IsZero() {
			addr.Timestamp = now
		}
		tmpAddresses[i] = addr
	}
	p := &Addr{Addresses: tmpAddresses}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Addr) Command() message.Command {
	return message.CommandAddr
}

func (p *Addr) Validate() error {
	if len(p.Addresses) == 0 || len(p.Addresses) > MaxAddrCount {
		return fmt.Errorf(
			"%w: addr count %d outside 1..%d",
			ErrInvalidValue,
			len(p.Addresses),
			MaxAddrCount,
		)
	}
	for i, addr := range p.Addresses {
		if !wire.ValidTime32(addr.Timestamp) {
			return fmt.Errorf(
				"%w: addr %d timestamp %s outside 32-bit range",
				ErrInvalidValue,
				i,
				addr.Timestamp,
			)
		}
	}
	return nil
}

func (p *Addr) Encode(w *wire.Writer) {
	w.WriteVarInt(uint64(len(p.Addresses)))
	for i := range p.Addresses {
		p.Addresses[i].encode(w, true)
	}
}

func (p *Addr) Decode(r *wire.Reader) error {
	count, err := r.ReadCount(MaxAddrCount, timedPeerAddressSize)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: empty addr", ErrInvalidValue)
	}
	p.Addresses = make([]PeerAddress, count)
	for i := range p.Addresses {
		if err := p.Addresses[i].decode(r, true); err != nil {
			return fmt.Errorf("address %d: %w", i, err)
		}
	}
	return nil
}
