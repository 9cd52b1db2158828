// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package transport

import (
	"context"
	"fmt"
	"sync"
)

// MemScheme is the scheme name the in-memory transport registers under.
const MemScheme = "mem"

// MemNetwork is a shared switchboard for the "mem" scheme: destinations
// are bare peer names (the part after "mem://"), resolved to whichever
// MemListener most recently started under that name. It exists for
// single-process demos and tests that need to exercise the protocol
// engine without a real network.
type MemNetwork struct {
	mu        sync.RWMutex
	listeners map[string]Handler
}

// NewMemNetwork creates an empty switchboard.
func NewMemNetwork() *MemNetwork {
	return &MemNetwork{listeners: make(map[string]Handler)}
}

func (n *MemNetwork) register(name string, h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners[name] = h
}

func (n *MemNetwork) unregister(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.listeners, name)
}

func (n *MemNetwork) deliver(name string, blob []byte) error {
	n.mu.RLock()
	h, ok := n.listeners[name]
	n.mu.RUnlock()
	if !ok {
		return fmt.Errorf("transport: no mem listener named %q", name)
	}
	h(blob)
	return nil
}

// MemSender delivers directly to a MemNetwork, ignoring everything in a
// destination URL but its host/peer-name segment.
type MemSender struct {
	Network *MemNetwork
}

// Send implements Sender. destination is "mem://<name>"; only <name> is
// used.
func (s *MemSender) Send(ctx context.Context, blob []byte, destination string) error {
	name, err := memPeerName(destination)
	if err != nil {
		return err
	}
	return s.Network.deliver(name, blob)
}

// MemListener registers Name on a MemNetwork for the lifetime between
// Start and Stop.
type MemListener struct {
	Network *MemNetwork
	Name    string
}

// Start implements Listener.
func (l *MemListener) Start(ctx context.Context, handler Handler) error {
	l.Network.register(l.Name, handler)
	return nil
}

// Stop implements Listener.
func (l *MemListener) Stop() error {
	l.Network.unregister(l.Name)
	return nil
}

func memPeerName(destination string) (string, error) {
	const prefix = MemScheme + "://"
	if len(destination) <= len(prefix) || destination[:len(prefix)] != prefix {
		return "", fmt.Errorf("transport: malformed mem destination %q", destination)
	}
	return destination[len(prefix):], nil
}
