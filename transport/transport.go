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

// Package transport maps a location's URL scheme to a registered
// Listener/Sender pair (spec.md §4.4). The engine never talks to a
// concrete transport directly, only through this registry.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
)

// ErrUnknownScheme is returned when no sender is registered for a
// location's scheme. The engine treats this as a reason to skip a single
// destination, never to fail the whole operation.
var ErrUnknownScheme = errors.New("transport: unknown scheme")

// Sender delivers an opaque envelope blob to a destination location.
type Sender interface {
	Send(ctx context.Context, blob []byte, destination string) error
}

// Handler is invoked by a Listener for every inbound envelope it receives.
// It is always the protocol engine's incoming-request entry point.
type Handler func(blob []byte)

// Listener accepts inbound envelopes for one scheme and feeds them to a
// Handler. Start must not block past setup; Stop releases its resources.
type Listener interface {
	Start(ctx context.Context, handler Handler) error
	Stop() error
}

// Registry maps scheme strings ("https", "mem", …) to their Sender and,
// optionally, Listener. One registry is shared by a single engine
// instance across every transport it speaks.
type Registry struct {
	mu        sync.RWMutex
	senders   map[string]Sender
	listeners map[string]Listener
}

// NewRegistry creates an empty dispatch registry.
func NewRegistry() *Registry {
	return &Registry{
		senders:   make(map[string]Sender),
		listeners: make(map[string]Listener),
	}
}

// RegisterSender installs the sender used for scheme.
func (r *Registry) RegisterSender(scheme string, s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.senders[scheme] = s
}

// RegisterListener installs the listener used for scheme.
func (r *Registry) RegisterListener(scheme string, l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[scheme] = l
}

// SenderFor returns the sender registered for scheme, or ErrUnknownScheme.
func (r *Registry) SenderFor(scheme string) (Sender, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.senders[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
	return s, nil
}

// Send resolves destination's scheme and dispatches to its sender. A
// destination with no registered sender is skipped silently by returning
// ErrUnknownScheme, which callers in the engine treat as non-fatal.
func (r *Registry) Send(ctx context.Context, blob []byte, destination string) error {
	u, err := url.Parse(destination)
	if err != nil {
		return fmt.Errorf("transport: parse destination: %w", err)
	}
	s, err := r.SenderFor(u.Scheme)
	if err != nil {
		return err
	}
	return s.Send(ctx, blob, destination)
}

// StartAll starts every registered listener, feeding inbound envelopes to
// handler.
func (r *Registry) StartAll(ctx context.Context, handler Handler) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for scheme, l := range r.listeners {
		if err := l.Start(ctx, handler); err != nil {
			return fmt.Errorf("transport: start listener %q: %w", scheme, err)
		}
	}
	return nil
}

// StopAll stops every registered listener, collecting the first error
// encountered but still attempting to stop the rest.
func (r *Registry) StopAll() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var first error
	for _, l := range r.listeners {
		if err := l.Stop(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
