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
	"github.com/blinklabs-io/gobtcwire/message"
	"github.com/blinklabs-io/gobtcwire/wire"
)

// emptyPayload is embedded by payloads without a body. Decode consumes nothing;
// the envelope's declared length enforces framing
type emptyPayload struct{}

func (emptyPayload) Encode(*wire.Writer) {}

func (emptyPayload) Decode(*wire.Reader) error {
	return nil
}

// Verack acknowledges a Version
type Verack struct{ emptyPayload }

func (*Verack) Command() message.Command { return message.CommandVerack }

// GetAddr requests known peer addresses
type GetAddr struct{ emptyPayload }

func (*GetAddr) Command() message.Command { return message.CommandGetAddr }

// Mempool requests the inventory of the peer's memory pool
type Mempool struct{ emptyPayload }

func (*Mempool) Command() message.Command { return message.CommandMempool }

// FilterClear removes a loaded bloom filter
type FilterClear struct{ emptyPayload }

func (*FilterClear) Command() message.Command { return message.CommandFilterClear }
