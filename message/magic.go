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

package message

import (
	"encoding/binary"
	"fmt"
)

// MagicSize is the length of the network identifier on the wire
const MagicSize = 4

// Magic identifies the network a message belongs to. It is the first field of
// every header and doubles as the resynchronization anchor in a byte stream
type Magic uint32

const (
	MagicMainnet  Magic = 0xd9b4bef9
	MagicTestnet  Magic = 0xdab5bffa
	MagicTestnet3 Magic = 0x0709110b
)

var magicNames = map[Magic]string{
	MagicMainnet:  "mainnet",
	MagicTestnet:  "testnet",
	MagicTestnet3: "testnet3",
}

// Bytes returns the wire encoding of the magic value
func (m Magic) Bytes() []byte {
	ret := make([]byte, MagicSize)
	binary.LittleEndian.PutUint32(ret, uint32(m))
	return ret
}

// IsKnown returns true if the magic value belongs to a supported network
func (m Magic) IsKnown() bool {
	_, ok := magicNames[m]
	return ok
}

func (m Magic) String() string {
	if name, ok := magicNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Magic(0x%08x)", uint32(m))
}
