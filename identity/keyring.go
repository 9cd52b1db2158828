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

package identity

import (
	"crypto/ed25519"
	"sync"
)

// Keyring maps known peer fingerprints to their Ed25519 public keys. The
// protocol engine consults it to verify routing headers and decrypt inner
// records; a fingerprint absent from the keyring is an unknown peer and
// must never produce an observable reply.
type Keyring struct {
	mu   sync.RWMutex
	keys map[Fingerprint]ed25519.PublicKey
}

// NewKeyring creates an empty keyring.
func NewKeyring() *Keyring {
	return &Keyring{keys: make(map[Fingerprint]ed25519.PublicKey)}
}

// Add records a peer's public key under its derived fingerprint.
func (k *Keyring) Add(pub ed25519.PublicKey) Fingerprint {
	fp := FingerprintOf(pub)
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[fp] = pub
	return fp
}

// Put records a peer's public key under an explicit fingerprint, e.g. one
// learned from a directory record before the key bytes were verified.
func (k *Keyring) Put(fp Fingerprint, pub ed25519.PublicKey) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[fp] = pub
}

// Lookup returns the public key for a fingerprint, or ErrUnknownPeer.
func (k *Keyring) Lookup(fp Fingerprint) (ed25519.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	pub, ok := k.keys[fp]
	if !ok {
		return nil, ErrUnknownPeer
	}
	return pub, nil
}

// Known reports whether a fingerprint is present.
func (k *Keyring) Known(fp Fingerprint) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	_, ok := k.keys[fp]
	return ok
}

// Remove drops a peer from the keyring.
func (k *Keyring) Remove(fp Fingerprint) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.keys, fp)
}
