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
	"errors"

	"github.com/blinklabs-io/gobtcwire/wire"
)

// ErrTruncated is returned when fewer bytes are supplied than the envelope requires
var ErrTruncated = wire.ErrTruncated

var (
	ErrUnsupportedNetwork = errors.New("unsupported network")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrChecksumMismatch   = errors.New("payload checksum mismatch")
	ErrPayloadTooLarge    = errors.New("payload too large")
)
