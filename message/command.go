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

import "fmt"

// CommandSize is the length of the NUL-padded command field
const CommandSize = 12

// Command identifies the payload type carried by a message
type Command uint8

const (
	CommandUnknown Command = iota
	CommandVersion
	CommandVerack
	CommandAddr
	CommandInv
	CommandGetData
	CommandNotFound
	CommandGetBlocks
	CommandGetHeaders
	CommandTx
	CommandBlock
	CommandHeaders
	CommandGetAddr
	CommandMempool
	CommandPing
	CommandPong
	CommandReject
	CommandFilterLoad
	CommandFilterAdd
	CommandFilterClear
	CommandMerkleBlock
	CommandAlert
)

var commandNames = []string{
	CommandVersion:     "version",
	CommandVerack:      "verack",
	CommandAddr:        "addr",
	CommandInv:         "inv",
	CommandGetData:     "getdata",
	CommandNotFound:    "notfound",
	CommandGetBlocks:   "getblocks",
	CommandGetHeaders:  "getheaders",
	CommandTx:          "tx",
	CommandBlock:       "block",
	CommandHeaders:     "headers",
	CommandGetAddr:     "getaddr",
	CommandMempool:     "mempool",
	CommandPing:        "ping",
	CommandPong:        "pong",
	CommandReject:      "reject",
	CommandFilterLoad:  "filterload",
	CommandFilterAdd:   "filteradd",
	CommandFilterClear: "filterclear",
	CommandMerkleBlock: "merkleblock",
	CommandAlert:       "alert",
}

var commandsByName = func() map[string]Command {
	ret := make(map[string]Command, len(commandNames))
	for i, name := range commandNames {
		if name != "" {
			ret[name] = Command(i) //nolint:gosec
		}
	}
	return ret
}()

// Commands returns every known command in declaration order
func Commands() []Command {
	ret := make([]Command, 0, len(commandNames)-1)
	for i := range commandNames {
		if i > 0 {
			ret = append(ret, Command(i)) //nolint:gosec
		}
	}
	return ret
}

// IsKnown returns true for every command other than CommandUnknown
func (c Command) IsKnown() bool {
	return c > CommandUnknown && int(c) < len(commandNames)
}

func (c Command) String() string {
	if c.IsKnown() {
		return commandNames[c]
	}
	return fmt.Sprintf("Command(%d)", uint8(c))
}

// ParseCommand returns the Command for a wire command name
func ParseCommand(name string) (Command, error) {
	cmd, ok := commandsByName[name]
	if !ok {
		return CommandUnknown, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return cmd, nil
}
