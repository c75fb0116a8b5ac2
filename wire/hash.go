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

package wire

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck
)

// Hash160Size is the length of a RIPEMD160(SHA256(x)) digest
const Hash160Size = ripemd160.Size

// DoubleSHA256 returns SHA256(SHA256(b))
func DoubleSHA256(b []byte) []byte {
	return chainhash.DoubleHashB(b)
}

// HashOf returns the double-SHA256 identifier of the wire encoding of v
func HashOf(v Serializable) (chainhash.Hash, error) {
	data, err := ToBytes(v)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return chainhash.DoubleHashH(data), nil
}

// Hash160 returns RIPEMD160(SHA256(b))
func Hash160(b []byte) []byte {
	sha := sha256.Sum256(b)
	h := ripemd160.New()
	// hash.Hash never returns an error on Write
	_, _ = h.Write(sha[:])
	return h.Sum(nil)
}
