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

package directory

// Directory holds a peer's hosting table H (services I serve to others)
// and consuming table C (services others serve to me). The two tables are
// symmetric in shape and independent in storage; a peer may appear as a
// client in H and a host in C at once.
type Directory struct {
	hosting   *table
	consuming *table
}

// New creates an empty directory.
func New() *Directory {
	return &Directory{
		hosting:   newTable(),
		consuming: newTable(),
	}
}

// CreateHostingClient ensures an entry for client c in H exists.
func (d *Directory) CreateHostingClient(c Peer) { d.hosting.createPeer(c) }

// CreateHostingService ensures an entry for (c, s) in H exists.
func (d *Directory) CreateHostingService(c Peer, s ServiceName) { d.hosting.createService(c, s) }

// CreateHostingLocation unions locs into H[c][s].
func (d *Directory) CreateHostingLocation(c Peer, s ServiceName, locs []Location) {
	d.hosting.createLocations(c, s, locs)
}

// CreateConsumingClient ensures an entry for host h in C exists.
func (d *Directory) CreateConsumingClient(h Peer) { d.consuming.createPeer(h) }

// CreateConsumingService ensures an entry for (h, s) in C exists.
func (d *Directory) CreateConsumingService(h Peer, s ServiceName) { d.consuming.createService(h, s) }

// CreateConsumingLocation unions locs into C[h][s].
func (d *Directory) CreateConsumingLocation(h Peer, s ServiceName, locs []Location) {
	d.consuming.createLocations(h, s, locs)
}

// GetHostLocations returns H[c][s], or an empty set if unknown.
func (d *Directory) GetHostLocations(c Peer, s ServiceName) []Location {
	return d.hosting.locations(c, s)
}

// GetClientLocations returns C[h][s], or an empty set if unknown.
func (d *Directory) GetClientLocations(h Peer, s ServiceName) []Location {
	return d.consuming.locations(h, s)
}

// LearnService unions locs into C[h][s], creating intermediate maps as
// needed. A no-op if locs is empty.
func (d *Directory) LearnService(h Peer, s ServiceName, locs []Location) {
	d.consuming.createLocations(h, s, locs)
}

// ProvideService unions locs into H[c][s]; symmetric to LearnService.
func (d *Directory) ProvideService(c Peer, s ServiceName, locs []Location) {
	d.hosting.createLocations(c, s, locs)
}

// HostsFor reports whether H has any entry for peer p - the consent check
// in handle_request ("H[f] or H[c] absent") reads this.
func (d *Directory) HostsFor(p Peer) bool { return d.hosting.hasPeer(p) }

// ConsumesFrom reports whether C has any entry for peer p - the consent
// check in handle_reply ("C[f] or C[h] absent") reads this.
func (d *Directory) ConsumesFrom(p Peer) bool { return d.consuming.hasPeer(p) }

// DeleteHostingClient removes H[c] entirely, with all its services and locations.
func (d *Directory) DeleteHostingClient(c Peer) { d.hosting.deletePeer(c) }

// DeleteHostingService removes H[c][s].
func (d *Directory) DeleteHostingService(c Peer, s ServiceName) { d.hosting.deleteService(c, s) }

// DeleteHostingLocation removes a single location from H[c][s].
func (d *Directory) DeleteHostingLocation(c Peer, s ServiceName, loc Location) {
	d.hosting.deleteLocation(c, s, loc)
}

// DeleteConsumingClient removes C[h] entirely.
func (d *Directory) DeleteConsumingClient(h Peer) { d.consuming.deletePeer(h) }

// DeleteConsumingService removes C[h][s].
func (d *Directory) DeleteConsumingService(h Peer, s ServiceName) { d.consuming.deleteService(h, s) }

// DeleteConsumingLocation removes a single location from C[h][s].
func (d *Directory) DeleteConsumingLocation(h Peer, s ServiceName, loc Location) {
	d.consuming.deleteLocation(h, s, loc)
}

// MyLocations returns H[me][SelfService] - my own inbound locations, the
// only self-reference permitted in H.
func (d *Directory) MyLocations(me Peer) []Location {
	return d.hosting.locations(me, SelfService)
}

// HostingSnapshot returns a deep copy of H, for persistence or the admin
// API's read-only listing.
func (d *Directory) HostingSnapshot() map[Peer]map[ServiceName][]Location {
	return d.hosting.snapshot()
}

// ConsumingSnapshot returns a deep copy of C, symmetric to HostingSnapshot.
func (d *Directory) ConsumingSnapshot() map[Peer]map[ServiceName][]Location {
	return d.consuming.snapshot()
}

// RestoreHosting replaces H's contents with snap, discarding whatever was
// there before. Intended for loading a persisted snapshot at startup.
func (d *Directory) RestoreHosting(snap map[Peer]map[ServiceName][]Location) {
	d.hosting.restore(snap)
}

// RestoreConsuming replaces C's contents with snap, symmetric to
// RestoreHosting.
func (d *Directory) RestoreConsuming(snap map[Peer]map[ServiceName][]Location) {
	d.consuming.restore(snap)
}
