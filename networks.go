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

package btcwire

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/gobtcwire/message"
	"github.com/blinklabs-io/gobtcwire/wire"
	"github.com/btcsuite/btcd/btcutil/base58"
)

// Network definitions
var (
	NetworkMainnet = Network{
		Name:             "mainnet",
		Magic:            message.MagicMainnet,
		DefaultPort:      8333,
		PubKeyHashAddrId: 0x00,
		ScriptHashAddrId: 0x05,
	}
	NetworkTestnet = Network{
		Name:             "testnet",
		Magic:            message.MagicTestnet,
		DefaultPort:      18333,
		PubKeyHashAddrId: 0x6f,
		ScriptHashAddrId: 0xc4,
	}
	NetworkTestnet3 = Network{
		Name:             "testnet3",
		Magic:            message.MagicTestnet3,
		DefaultPort:      18333,
		PubKeyHashAddrId: 0x6f,
		ScriptHashAddrId: 0xc4,
	}

	NetworkInvalid = Network{
		Name: "invalid",
	} // NetworkInvalid is used as a return value for lookup functions when a network isn't found
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkMainnet,
	NetworkTestnet,
	NetworkTestnet3,
}

var (
	ErrInvalidAddress        = errors.New("invalid address")
	ErrAddressWrongNetwork   = errors.New("address belongs to another network")
	ErrInvalidAddressPayload = errors.New("address payload must be a 20-byte hash")
)

// NetworkByName returns a predefined network by name
func NetworkByName(name string) Network {
	for _, network := range networks {
		if network.Name == name {
			return network
		}
	}
	return NetworkInvalid
}

// NetworkByNetworkMagic returns a predefined network by network magic
func NetworkByNetworkMagic(magic message.Magic) Network {
	for _, network := range networks {
		if network.Magic == magic {
			return network
		}
	}
	return NetworkInvalid
}

// Network represents a Bitcoin network
type Network struct {
	Name             string
	Magic            message.Magic
	DefaultPort      uint16
	PubKeyHashAddrId byte // version byte for pay-to-pubkey-hash addresses
	ScriptHashAddrId byte // version byte for pay-to-script-hash addresses
}

func (n Network) String() string {
	return n.Name
}

// IsValid returns false for NetworkInvalid
func (n Network) IsValid() bool {
	return n.Magic.IsKnown()
}

// EncodeAddress returns the base58check address for a 20-byte pubkey or script hash
func (n Network) EncodeAddress(hash160 []byte, scriptHash bool) (string, error) {
	if len(hash160) != wire.Hash160Size {
		return "", fmt.Errorf("%w: got %d bytes", ErrInvalidAddressPayload, len(hash160))
	}
	version := n.PubKeyHashAddrId
	if scriptHash {
		version = n.ScriptHashAddrId
	}
	return base58.CheckEncode(hash160, version), nil
}

// AddressFromPubKey returns the pay-to-pubkey-hash address for a serialized public key
func (n Network) AddressFromPubKey(pubKey []byte) (string, error) {
	return n.EncodeAddress(wire.Hash160(pubKey), false)
}

// DecodeAddress returns the hash carried by a base58check address and whether it
// is a script hash. Addresses for other networks are rejected
func (n Network) DecodeAddress(addr string) ([]byte, bool, error) {
	decoded, version, err := base58.CheckDecode(addr)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(decoded) != wire.Hash160Size {
		return nil, false, fmt.Errorf(
			"%w: %w: got %d bytes",
			ErrInvalidAddress,
			ErrInvalidAddressPayload,
			len(decoded),
		)
	}
	switch version {
	case n.PubKeyHashAddrId:
		return decoded, false, nil
	case n.ScriptHashAddrId:
		return decoded, true, nil
	}
	return nil, false, fmt.Errorf(
		"%w: version byte 0x%02x on %s",
		ErrAddressWrongNetwork,
		version,
		n.Name,
	)
}
