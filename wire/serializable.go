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

import "fmt"

// Serializable is implemented by every value with a wire representation.
// Decode must consume exactly the bytes that belong to the value so that
// concatenated values can be decoded in sequence
type Serializable interface {
	Encode(w *Writer)
	Decode(r *Reader) error
}

// ToBytes returns the wire encoding of v
func ToBytes(v Serializable) ([]byte, error) {
	w := NewWriter()
	v.Encode(w)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// FromBytes decodes data into v. All of data must be consumed
func FromBytes(data []byte, v Serializable) error {
	r := NewReader(data)
	if err := v.Decode(r); err != nil {
		return err
	}
	if r.Remaining() > 0 {
		return fmt.Errorf("%w: %d bytes", ErrTrailingBytes, r.Remaining())
	}
	return nil
}
