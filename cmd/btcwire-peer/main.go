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

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	btcwire "github.com/blinklabs-io/gobtcwire"
)

type globalOptions struct {
	Network string `long:"network" description:"network to use (mainnet, testnet or testnet3)" default:"mainnet"`
	Debug   bool   `long:"debug" description:"enable debug logging"`
}

var opts globalOptions

func main() {
	parser := flags.NewParser(&opts, flags.PrintErrors|flags.HelpFlag)
	if _, err := parser.AddCommand(
		"connect",
		"Connect to a peer",
		"Connect to a peer, perform the version handshake and log received messages",
		&connectCommand{},
	); err != nil {
		fmt.Printf("failed to add command: %s\n", err)
		os.Exit(1)
	}
	if _, err := parser.AddCommand(
		"replay",
		"Replay a capture file",
		"Read a capture file, verify every record and print the decoded messages",
		&replayCommand{},
	); err != nil {
		fmt.Printf("failed to add command: %s\n", err)
		os.Exit(1)
	}
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

func setupLogger() {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(
		slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
		),
	)
}

func selectedNetwork() (btcwire.Network, error) {
	network := btcwire.NetworkByName(opts.Network)
	if network == btcwire.NetworkInvalid {
		return network, fmt.Errorf("invalid network specified: %s", opts.Network)
	}
	return network, nil
}
