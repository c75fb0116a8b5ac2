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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/netip"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	btcwire "github.com/blinklabs-io/gobtcwire"
	"github.com/blinklabs-io/gobtcwire/capture"
	"github.com/blinklabs-io/gobtcwire/payload"
)

const userAgent = "/btcwire-peer:0.1.0/"

type connectCommand struct {
	Address  string `long:"address" description:"peer address in host:port form. The network default port is used when the port is omitted"`
	Topology string `long:"topology" description:"topology file whose first static peer or seed is used when no address is given"`
	Capture  string `long:"capture" description:"record all messages to the specified capture file"`
	Timeout  int    `long:"handshake-timeout" description:"handshake timeout in seconds" default:"30"`
}

func (c *connectCommand) Execute(args []string) error {
	setupLogger()
	network, err := selectedNetwork()
	if err != nil {
		return err
	}
	peerManager := btcwire.NewPeerManager(
		btcwire.PeerManagerConfig{
			Logger: slog.Default(),
			ConnClosedFunc: func(connId btcwire.ConnectionId, err error) {
				slog.Debug("connection closed", "connection_id", connId.String(), "error", err)
			},
		},
	)
	address, err := c.peerAddress(peerManager, network)
	if err != nil {
		return err
	}
	connOpts := []btcwire.ConnectionOptionFunc{
		btcwire.WithNetwork(network),
		btcwire.WithLogger(slog.Default()),
		btcwire.WithAutoPong(true),
	}
	if c.Capture != "" {
		captureFile, err := os.Create(c.Capture)
		if err != nil {
			return fmt.Errorf("failed to create capture file: %w", err)
		}
		defer captureFile.Close()
		connOpts = append(connOpts, btcwire.WithCapture(capture.NewWriter(captureFile)))
	}
	conn, err := btcwire.NewConnection(connOpts...)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := conn.DialContext(ctx, "tcp", address); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	slog.Info("connected", "address", address, "network", network.Name)
	peerManager.AddConnection(conn, btcwire.PeerManagerTagRoleOutbound)
	defer peerManager.RemoveConnection(conn.Id())

	handshakeCtx, cancel := context.WithTimeout(ctx, time.Duration(c.Timeout)*time.Second)
	defer cancel()
	peerVersion, err := conn.Handshake(handshakeCtx, localVersion(conn))
	if err != nil {
		return fmt.Errorf("handshake failed: %w", err)
	}
	slog.Info(
		"peer version",
		"protocol_version", peerVersion.ProtocolVersion,
		"services", peerVersion.Services.String(),
		"user_agent", peerVersion.UserAgent,
		"start_height", peerVersion.StartHeight,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			return nil
		case err, ok := <-conn.ErrorChan():
			if !ok || errors.Is(err, io.EOF) {
				slog.Info("peer closed the connection")
				return nil
			}
			return err
		case p, ok := <-conn.MessageChan():
			if !ok {
				return nil
			}
			slog.Info(
				"received message",
				"command", p.Command().String(),
				"payload", fmt.Sprintf("%+v", p),
			)
		}
	}
}

// peerAddress returns the explicit address or the first static peer or seed from the topology file
func (c *connectCommand) peerAddress(peerManager *btcwire.PeerManager, network btcwire.Network) (string, error) {
	if c.Address != "" {
		if _, _, err := net.SplitHostPort(c.Address); err != nil {
			return net.JoinHostPort(c.Address, strconv.Itoa(int(network.DefaultPort))), nil
		}
		return c.Address, nil
	}
	if c.Topology == "" {
		return "", errors.New("you must specify one of --address or --topology")
	}
	topology, err := btcwire.NewTopologyConfigFromFile(c.Topology)
	if err != nil {
		return "", fmt.Errorf("failed to load topology: %w", err)
	}
	peerManager.AddHostsFromTopology(topology)
	for _, tag := range []btcwire.PeerManagerTag{btcwire.PeerManagerTagHostStatic, btcwire.PeerManagerTagHostSeed} {
		if hosts := peerManager.GetHostsByTags(tag); len(hosts) > 0 {
			return hosts[0].HostPort(network.DefaultPort), nil
		}
	}
	return "", errors.New("topology contains no peers")
}

func localVersion(conn *btcwire.Connection) *payload.Version {
	var receiver, sender netip.AddrPort
	if addr, ok := conn.Id().RemoteAddr.(*net.TCPAddr); ok {
		receiver = addr.AddrPort()
	}
	if addr, ok := conn.Id().LocalAddr.(*net.TCPAddr); ok {
		sender = addr.AddrPort()
	}
	return payload.NewVersion(
		0,
		payload.NewPeerAddress(payload.SFNodeNetwork, receiver),
		payload.NewPeerAddress(0, sender),
		rand.Uint64(), //nolint:gosec
		userAgent,
		0,
		false,
	)
}
