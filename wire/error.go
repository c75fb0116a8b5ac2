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

import "errors"

// ErrTruncated is returned when fewer bytes are available than a field requires
var ErrTruncated = errors.New("truncated data")

// ErrInvalidValue is returned when decoded or supplied data violates a field constraint
var ErrInvalidValue = errors.New("invalid value")

// ErrTrailingBytes is returned by FromBytes when input remains after decoding
var ErrTrailingBytes = errors.New("trailing bytes after value")
