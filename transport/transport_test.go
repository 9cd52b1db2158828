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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySendUnknownScheme(t *testing.T) {
	r := NewRegistry()
	err := r.Send(context.Background(), []byte("x"), "onion://abc")
	assert.ErrorIs(t, err, ErrUnknownScheme)
}

func TestRegistrySendDispatchesToScheme(t *testing.T) {
	r := NewRegistry()
	net := NewMemNetwork()
	r.RegisterSender(MemScheme, &MemSender{Network: net})

	var got []byte
	listener := &MemListener{Network: net, Name: "bob"}
	require.NoError(t, listener.Start(context.Background(), func(blob []byte) { got = blob }))
	defer listener.Stop()

	err := r.Send(context.Background(), []byte("hello"), "mem://bob")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestMemSenderNoListener(t *testing.T) {
	net := NewMemNetwork()
	s := &MemSender{Network: net}
	err := s.Send(context.Background(), []byte("x"), "mem://nobody")
	assert.Error(t, err)
}

func TestMemListenerStopUnregisters(t *testing.T) {
	net := NewMemNetwork()
	listener := &MemListener{Network: net, Name: "alice"}
	require.NoError(t, listener.Start(context.Background(), func([]byte) {}))
	require.NoError(t, listener.Stop())

	s := &MemSender{Network: net}
	err := s.Send(context.Background(), []byte("x"), "mem://alice")
	assert.Error(t, err)
}

func TestRegistryStartAllAndStopAll(t *testing.T) {
	r := NewRegistry()
	net := NewMemNetwork()
	r.RegisterListener(MemScheme, &MemListener{Network: net, Name: "carol"})

	var received []byte
	require.NoError(t, r.StartAll(context.Background(), func(blob []byte) { received = blob }))

	require.NoError(t, net.deliver("carol", []byte("ping")))
	assert.Equal(t, []byte("ping"), received)

	require.NoError(t, r.StopAll())
	assert.Error(t, net.deliver("carol", []byte("pong")))
}
