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
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// ed25519KeyPair implements KeyPair for Ed25519 keys.
type ed25519KeyPair struct {
	privateKey  ed25519.PrivateKey
	publicKey   ed25519.PublicKey
	fingerprint Fingerprint
}

// GenerateKeyPair generates a new Ed25519 identity key pair.
func GenerateKeyPair() (KeyPair, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &ed25519KeyPair{
		privateKey:  privateKey,
		publicKey:   publicKey,
		fingerprint: FingerprintOf(publicKey),
	}, nil
}

// NewKeyPair wraps an existing Ed25519 key pair, e.g. one loaded from disk.
func NewKeyPair(publicKey ed25519.PublicKey, privateKey ed25519.PrivateKey) KeyPair {
	return &ed25519KeyPair{
		privateKey:  privateKey,
		publicKey:   publicKey,
		fingerprint: FingerprintOf(publicKey),
	}
}

// FingerprintOf derives the identity fingerprint for an Ed25519 public key:
// the full SHA-256 hash, hex-encoded - standing in for an OpenPGP key
// fingerprint (spec.md §3).
func FingerprintOf(pub ed25519.PublicKey) Fingerprint {
	hash := sha256.Sum256(pub)
	return Fingerprint(hex.EncodeToString(hash[:]))
}

// PublicKey returns the public key.
func (kp *ed25519KeyPair) PublicKey() crypto.PublicKey {
	return kp.publicKey
}

// PrivateKey returns the private key.
func (kp *ed25519KeyPair) PrivateKey() crypto.PrivateKey {
	return kp.privateKey
}

// Sign signs the given message.
func (kp *ed25519KeyPair) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(kp.privateKey, message), nil
}

// Verify verifies the signature.
func (kp *ed25519KeyPair) Verify(message, signature []byte) error {
	if !ed25519.Verify(kp.publicKey, message, signature) {
		return ErrInvalidSignature
	}
	return nil
}

// Fingerprint returns this key pair's identity fingerprint.
func (kp *ed25519KeyPair) Fingerprint() Fingerprint {
	return kp.fingerprint
}
