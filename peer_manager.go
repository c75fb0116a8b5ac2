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

package btcwire

import (
	"log/slog"
	"net"
	"slices"
	"strconv"
	"sync"
)

// PeerManagerConnClosedFunc is a function that takes a connection ID and an optional error
type PeerManagerConnClosedFunc func(ConnectionId, error)

// PeerManagerTag represents the various tags that can be associated with a host or connection
type PeerManagerTag uint16

const (
	PeerManagerTagNone PeerManagerTag = iota

	PeerManagerTagHostSeed
	PeerManagerTagHostStatic
	PeerManagerTagHostDiscovered

	PeerManagerTagRoleOutbound
	PeerManagerTagRoleInbound
)

var peerManagerTagNames = map[PeerManagerTag]string{
	PeerManagerTagHostSeed:       "HostSeed",
	PeerManagerTagHostStatic:     "HostStatic",
	PeerManagerTagHostDiscovered: "HostDiscovered",
	PeerManagerTagRoleOutbound:   "RoleOutbound",
	PeerManagerTagRoleInbound:    "RoleInbound",
}

func (t PeerManagerTag) String() string {
	ret, ok := peerManagerTagNames[t]
	if !ok {
		return "Unknown"
	}
	return ret
}

// PeerManager keeps track of known hosts and active connections
type PeerManager struct {
	config           PeerManagerConfig
	logger           *slog.Logger
	hosts            []PeerManagerHost
	hostsMutex       sync.Mutex
	connections      map[ConnectionId]*PeerManagerConnection
	connectionsMutex sync.Mutex
}

type PeerManagerConfig struct {
	ConnClosedFunc PeerManagerConnClosedFunc
	Logger         *slog.Logger
}

type PeerManagerHost struct {
	Address string
	Port    uint16
	Tags    map[PeerManagerTag]bool
}

// HostPort returns the host address in host:port form, using defaultPort if no port was configured
func (h PeerManagerHost) HostPort(defaultPort uint16) string {
	port := h.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(h.Address, strconv.Itoa(int(port)))
}

func NewPeerManager(cfg PeerManagerConfig) *PeerManager {
	p := &PeerManager{
		config:      cfg,
		logger:      cfg.Logger,
		connections: make(map[ConnectionId]*PeerManagerConnection),
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = p.logger.With("component", "peer_manager")
	return p
}

func (p *PeerManager) AddHost(address string, port uint16, tags ...PeerManagerTag) {
	tmpTags := map[PeerManagerTag]bool{}
	for _, tag := range tags {
		tmpTags[tag] = true
	}
	p.hostsMutex.Lock()
	defer p.hostsMutex.Unlock()
	p.hosts = append(
		p.hosts,
		PeerManagerHost{
			Address: address,
			Port:    port,
			Tags:    tmpTags,
		},
	)
}

func (p *PeerManager) AddHostsFromTopology(topology *TopologyConfig) {
	for _, host := range topology.Seeds {
		p.AddHost(host.Address, host.Port, PeerManagerTagHostSeed)
	}
	for _, host := range topology.StaticPeers {
		p.AddHost(host.Address, host.Port, PeerManagerTagHostStatic)
	}
}

// GetHostsByTags returns the known hosts carrying all of the provided tags
func (p *PeerManager) GetHostsByTags(tags ...PeerManagerTag) []PeerManagerHost {
	var ret []PeerManagerHost
	p.hostsMutex.Lock()
	defer p.hostsMutex.Unlock()
	for _, host := range p.hosts {
		if hasAllTags(host.Tags, tags) {
			ret = append(ret, host)
		}
	}
	return ret
}

// AddConnection tracks conn and calls the configured ConnClosedFunc when the connection
// reports an error or shuts down
func (p *PeerManager) AddConnection(conn *Connection, tags ...PeerManagerTag) {
	connId := conn.Id()
	tmpConn := &PeerManagerConnection{
		Conn: conn,
		tags: map[PeerManagerTag]bool{},
	}
	tmpConn.AddTags(tags...)
	p.connectionsMutex.Lock()
	p.connections[connId] = tmpConn
	p.connectionsMutex.Unlock()
	p.logger.Debug(
		"added connection",
		"connection_id", connId.String(),
	)
	go func() {
		err := <-conn.ErrorChan()
		// Call configured connection closed callback func
		if p.config.ConnClosedFunc != nil {
			p.config.ConnClosedFunc(connId, err)
		}
	}()
}

func (p *PeerManager) RemoveConnection(connId ConnectionId) {
	p.connectionsMutex.Lock()
	delete(p.connections, connId)
	p.connectionsMutex.Unlock()
}

func (p *PeerManager) GetConnectionById(connId ConnectionId) *PeerManagerConnection {
	p.connectionsMutex.Lock()
	defer p.connectionsMutex.Unlock()
	return p.connections[connId]
}

func (p *PeerManager) GetConnectionsByTags(tags ...PeerManagerTag) []*PeerManagerConnection {
	var ret []*PeerManagerConnection
	p.connectionsMutex.Lock()
	for _, conn := range p.connections {
		if conn.HasTags(tags...) {
			ret = append(ret, conn)
		}
	}
	p.connectionsMutex.Unlock()
	return ret
}

func hasAllTags(have map[PeerManagerTag]bool, want []PeerManagerTag) bool {
	for _, tag := range want {
		if _, ok := have[tag]; !ok {
			return false
		}
	}
	return true
}

// PeerManagerConnection is a tracked connection and its tags. Its methods are
// safe for concurrent use
type PeerManagerConnection struct {
	Conn      *Connection
	tags      map[PeerManagerTag]bool
	tagsMutex sync.Mutex
}

func (c *PeerManagerConnection) AddTags(tags ...PeerManagerTag) {
	c.tagsMutex.Lock()
	defer c.tagsMutex.Unlock()
	for _, tag := range tags {
		c.tags[tag] = true
	}
}

func (c *PeerManagerConnection) RemoveTags(tags ...PeerManagerTag) {
	c.tagsMutex.Lock()
	defer c.tagsMutex.Unlock()
	for _, tag := range tags {
		delete(c.tags, tag)
	}
}

// HasTags returns true if the connection carries all of the provided tags
func (c *PeerManagerConnection) HasTags(tags ...PeerManagerTag) bool {
	c.tagsMutex.Lock()
	defer c.tagsMutex.Unlock()
	return hasAllTags(c.tags, tags)
}

// Tags returns the connection's tags in ascending order
func (c *PeerManagerConnection) Tags() []PeerManagerTag {
	c.tagsMutex.Lock()
	defer c.tagsMutex.Unlock()
	ret := make([]PeerManagerTag, 0, len(c.tags))
	for tag := range c.tags {
		ret = append(ret, tag)
	}
	slices.Sort(ret)
	return ret
}
