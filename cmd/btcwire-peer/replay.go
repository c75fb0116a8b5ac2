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
	"io"
	"log/slog"
	"os"
	"time"

	btcwire "github.com/blinklabs-io/gobtcwire"
	"github.com/blinklabs-io/gobtcwire/capture"
	"github.com/blinklabs-io/gobtcwire/payload"
)

type replayCommand struct {
	File string `long:"file" description:"capture file to replay" required:"true"`
}

func (c *replayCommand) Execute(args []string) error {
	setupLogger()
	network, err := selectedNetwork()
	if err != nil {
		return err
	}
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer f.Close()
	reader := capture.NewReader(f)
	count := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		count++
		if err := printRecord(os.Stdout, network, record); err != nil {
			slog.Warn(
				"skipping record",
				"index", count,
				"error", err,
			)
		}
	}
	slog.Info("replay complete", "records", count)
	return nil
}

func printRecord(w io.Writer, network btcwire.Network, record *capture.Record) error {
	msg, err := record.Message()
	if err != nil {
		return err
	}
	if msg.Magic() != network.Magic {
		return fmt.Errorf("message for network %s", btcwire.NetworkByNetworkMagic(msg.Magic()))
	}
	line := fmt.Sprintf(
		"%s %-3s %-12s %7d",
		record.Timestamp.Format(time.RFC3339Nano),
		record.Direction.String(),
		record.Command,
		record.PayloadLength,
	)
	p, err := payload.Decode(msg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s %+v\n", line, p)
	return err
}
