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

// Package identity provides peer identity and the crypto oracle (sign,
// verify, encrypt, decrypt) the Santiago protocol engine is built on.
//
// A Fingerprint is, in practice, the hash of an Ed25519 public key -
// standing in for the OpenPGP key fingerprint spec.md describes it as.
// Equality is byte-exact string comparison.
package identity

import (
	"crypto"
	"errors"
)

// Fingerprint identifies a Santiago peer. It is opaque above this package;
// callers must treat it as a byte-exact key, never parse it.
type Fingerprint string

// KeyPair is a local identity's Ed25519 signing key.
type KeyPair interface {
	// PublicKey returns the Ed25519 public key.
	PublicKey() crypto.PublicKey

	// PrivateKey returns the Ed25519 private key.
	PrivateKey() crypto.PrivateKey

	// Sign signs the given message.
	Sign(message []byte) ([]byte, error)

	// Verify verifies a signature produced by Sign.
	Verify(message, signature []byte) error

	// Fingerprint returns this key pair's identity fingerprint.
	Fingerprint() Fingerprint
}

// Common errors
var (
	ErrInvalidSignature = errors.New("identity: invalid signature")
	ErrUnknownPeer      = errors.New("identity: peer fingerprint not in keyring")
)
