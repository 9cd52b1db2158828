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

// Package directory implements the two symmetric peer-to-service-to-location
// tables a Santiago peer keeps: who I host services for, and who hosts
// services for me.
package directory

import (
	"sort"
	"sync"

	"github.com/santiago-project/santiago/identity"
)

// Peer identifies a Santiago participant by key fingerprint.
type Peer = identity.Fingerprint

// Location is a transport URL of the form scheme://rest.
type Location string

// ServiceName names a service a peer hosts or consumes.
type ServiceName string

// SelfService is the reserved service name for locations at which a peer
// itself speaks Santiago.
const SelfService ServiceName = "SANTIAGO_SERVICE"

// table is a peer -> service -> set-of-locations map guarded by a single
// mutex. Both the hosting and consuming directories are one of these; only
// the method names callers use differ (Directory wraps two tables with
// spec-named methods).
type table struct {
	mu   sync.RWMutex
	data map[Peer]map[ServiceName]map[Location]struct{}
}

func newTable() *table {
	return &table{data: make(map[Peer]map[ServiceName]map[Location]struct{})}
}

// createPeer ensures an (empty) entry for p exists. Idempotent.
func (t *table) createPeer(p Peer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensurePeer(p)
}

// createService ensures an (empty) entry for (p, s) exists. Idempotent.
func (t *table) createService(p Peer, s ServiceName) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensureService(p, s)
}

// createLocations unions locs into (p, s), creating intermediate maps as
// needed. A no-op if locs is empty.
func (t *table) createLocations(p Peer, s ServiceName, locs []Location) {
	if len(locs) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	set := t.ensureService(p, s)
	for _, l := range locs {
		set[l] = struct{}{}
	}
}

// locations returns the sorted set of locations for (p, s), or nil if
// unknown. Reads on an absent peer or service never error; they return an
// empty result, which is load-bearing for the protocol's silent-failure
// property.
func (t *table) locations(p Peer, s ServiceName) []Location {
	t.mu.RLock()
	defer t.mu.RUnlock()

	services, ok := t.data[p]
	if !ok {
		return nil
	}
	set, ok := services[s]
	if !ok {
		return nil
	}
	out := make([]Location, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// hasPeer reports whether p has any entry at all.
func (t *table) hasPeer(p Peer) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.data[p]
	return ok
}

// deletePeer removes all services and locations for p. No-op if absent.
func (t *table) deletePeer(p Peer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.data, p)
}

// deleteService removes (p, s) entirely. No-op if absent.
func (t *table) deleteService(p Peer, s ServiceName) {
	t.mu.Lock()
	defer t.mu.Unlock()
	services, ok := t.data[p]
	if !ok {
		return
	}
	delete(services, s)
}

// deleteLocation removes a single location from (p, s). No-op if absent.
func (t *table) deleteLocation(p Peer, s ServiceName, loc Location) {
	t.mu.Lock()
	defer t.mu.Unlock()
	services, ok := t.data[p]
	if !ok {
		return
	}
	set, ok := services[s]
	if !ok {
		return
	}
	delete(set, loc)
}

// snapshot returns a deep, sorted copy of the table's contents suitable
// for JSON marshaling.
func (t *table) snapshot() map[Peer]map[ServiceName][]Location {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[Peer]map[ServiceName][]Location, len(t.data))
	for p, services := range t.data {
		svcOut := make(map[ServiceName][]Location, len(services))
		for s, set := range services {
			locs := make([]Location, 0, len(set))
			for l := range set {
				locs = append(locs, l)
			}
			sort.Slice(locs, func(i, j int) bool { return locs[i] < locs[j] })
			svcOut[s] = locs
		}
		out[p] = svcOut
	}
	return out
}

// restore replaces the table's contents with snap. Existing data is
// discarded, so this is meant for process startup, not merging.
func (t *table) restore(snap map[Peer]map[ServiceName][]Location) {
	t.mu.Lock()
	defer t.mu.Unlock()

	data := make(map[Peer]map[ServiceName]map[Location]struct{}, len(snap))
	for p, services := range snap {
		svcData := make(map[ServiceName]map[Location]struct{}, len(services))
		for s, locs := range services {
			set := make(map[Location]struct{}, len(locs))
			for _, l := range locs {
				set[l] = struct{}{}
			}
			svcData[s] = set
		}
		data[p] = svcData
	}
	t.data = data
}

func (t *table) ensurePeer(p Peer) map[ServiceName]map[Location]struct{} {
	services, ok := t.data[p]
	if !ok {
		services = make(map[ServiceName]map[Location]struct{})
		t.data[p] = services
	}
	return services
}

func (t *table) ensureService(p Peer, s ServiceName) map[Location]struct{} {
	services := t.ensurePeer(p)
	set, ok := services[s]
	if !ok {
		set = make(map[Location]struct{})
		services[s] = set
	}
	return set
}
