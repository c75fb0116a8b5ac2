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

package test

import (
	"bytes"
	"io"
	"net"
	"sync"
	"time"
)

// MockConn implements net.Conn for testing. Reads block until data is queued
// with WriteToReadBuf or the connection is closed
type MockConn struct {
	mu       sync.Mutex
	cond     *sync.Cond
	readBuf  bytes.Buffer
	writeBuf bytes.Buffer
	closed   bool
	eof      bool
	writeCh  chan struct{}
	local    net.Addr
	remote   net.Addr
}

func NewMockConn() *MockConn {
	m := &MockConn{
		writeCh: make(chan struct{}, 1),
	}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// NewMockConnWithAddrs returns a MockConn reporting the provided endpoints
func NewMockConnWithAddrs(local net.Addr, remote net.Addr) *MockConn {
	m := NewMockConn()
	m.local = local
	m.remote = remote
	return m
}

func (m *MockConn) Read(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.readBuf.Len() == 0 && !m.closed && !m.eof {
		m.cond.Wait()
	}
	if m.closed {
		return 0, net.ErrClosed
	}
	if m.readBuf.Len() == 0 {
		return 0, io.EOF
	}
	return m.readBuf.Read(b)
}

func (m *MockConn) Write(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	n, err := m.writeBuf.Write(b)
	select {
	case m.writeCh <- struct{}{}:
	default:
	}
	return n, err
}

func (m *MockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cond.Broadcast()
	return nil
}

func (m *MockConn) LocalAddr() net.Addr                { return m.local }
func (m *MockConn) RemoteAddr() net.Addr               { return m.remote }
func (m *MockConn) SetDeadline(t time.Time) error      { return nil }
func (m *MockConn) SetReadDeadline(t time.Time) error  { return nil }
func (m *MockConn) SetWriteDeadline(t time.Time) error { return nil }

// WriteToReadBuf queues data to be returned by Read
func (m *MockConn) WriteToReadBuf(b []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readBuf.Write(b)
	m.cond.Broadcast()
}

// SendEOF causes Read to return io.EOF once queued data is drained
func (m *MockConn) SendEOF() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eof = true
	m.cond.Broadcast()
}

// ReadWritten returns a copy of everything written to the connection
func (m *MockConn) ReadWritten() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, m.writeBuf.Len())
	copy(out, m.writeBuf.Bytes())
	return out
}

// WaitWritten waits until at least n bytes have been written or the timeout expires
func (m *MockConn) WaitWritten(n int, timeout time.Duration) []byte {
	deadline := time.After(timeout)
	for {
		out := m.ReadWritten()
		if len(out) >= n {
			return out
		}
		select {
		case <-m.writeCh:
		case <-deadline:
			return out
		}
	}
}
