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
	"fmt"
	"time"

	"github.com/santiago-project/santiago/internal/metrics"
)

// Oracle is the crypto primitive a Santiago peer signs, verifies, encrypts
// and decrypts with. It holds the peer's own key pair and a keyring of
// known peers, so encryption and decryption always resolve to a concrete
// fingerprint rather than a bare key.
type Oracle struct {
	self    KeyPair
	keyring *Keyring
}

// NewOracle builds an oracle around a local key pair and keyring. The
// local key is also added to the keyring so self-addressed messages and
// signature checks resolve without a special case.
func NewOracle(self KeyPair, keyring *Keyring) *Oracle {
	if pub, ok := self.PublicKey().(ed25519.PublicKey); ok {
		keyring.Put(self.Fingerprint(), pub)
	}
	return &Oracle{self: self, keyring: keyring}
}

// Self returns the oracle's own fingerprint.
func (o *Oracle) Self() Fingerprint {
	return o.self.Fingerprint()
}

// Keyring returns the oracle's peer keyring, so callers can introduce new
// peers (e.g. learned from a directory record) as they become known.
func (o *Oracle) Keyring() *Keyring {
	return o.keyring
}

// Sign signs message with the oracle's own key and wraps it in an armored
// blob naming the signer.
func (o *Oracle) Sign(message []byte) ([]byte, error) {
	start := time.Now()
	sig, err := o.self.Sign(message)
	metrics.RecordCryptoOp("sign", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("identity: sign: %w", err)
	}
	return Armor(o.self.Fingerprint(), message, sig), nil
}

// VerifyArmored unwraps an armored blob and checks its signature against
// the keyring, returning the enclosed message and the signer's
// fingerprint. A signer absent from the keyring is reported as
// ErrUnknownPeer rather than a signature failure, so callers can tell the
// two apart when deciding whether to reply at all.
func (o *Oracle) VerifyArmored(blob []byte) (message []byte, signer Fingerprint, err error) {
	start := time.Now()
	defer func() { metrics.RecordCryptoOp("verify", time.Since(start), err) }()

	var sig []byte
	signer, message, sig, err = Unarmor(blob)
	if err != nil {
		err = fmt.Errorf("identity: %w", err)
		return nil, "", err
	}
	pub, lookupErr := o.keyring.Lookup(signer)
	if lookupErr != nil {
		err = lookupErr
		return nil, "", err
	}
	kp := NewKeyPair(pub, nil)
	if verifyErr := kp.Verify(message, sig); verifyErr != nil {
		err = ErrInvalidSignature
		return nil, "", err
	}
	return message, signer, nil
}

// Encrypt signs plaintext as the oracle's own identity, then ECIES-encrypts
// the resulting armored blob to recipient. The recipient must already be
// known to the keyring.
func (o *Oracle) Encrypt(plaintext []byte, recipient Fingerprint) (ciphertext []byte, err error) {
	start := time.Now()
	defer func() { metrics.RecordCryptoOp("encrypt", time.Since(start), err) }()

	pub, lookupErr := o.keyring.Lookup(recipient)
	if lookupErr != nil {
		err = lookupErr
		return nil, err
	}
	signed, signErr := o.Sign(plaintext)
	if signErr != nil {
		err = signErr
		return nil, err
	}
	ciphertext, err = EncryptWithEd25519Peer(pub, signed)
	return ciphertext, err
}

// Decrypt ECIES-decrypts a packet with the oracle's own private key, then
// verifies the enclosed signed blob, returning the plaintext and the
// fingerprint of whoever signed it. Callers that expect a specific signer
// (e.g. a reply that must come back from the queried host) must compare
// the returned fingerprint themselves - Decrypt only proves the message
// decrypted and the enclosed signature checks out.
func (o *Oracle) Decrypt(packet []byte) (plaintext []byte, signer Fingerprint, err error) {
	start := time.Now()
	defer func() { metrics.RecordCryptoOp("decrypt", time.Since(start), err) }()

	blob, decErr := DecryptWithEd25519Peer(o.self.PrivateKey(), packet)
	if decErr != nil {
		err = fmt.Errorf("identity: decrypt: %w", decErr)
		return nil, "", err
	}
	plaintext, signer, err = o.VerifyArmored(blob)
	return plaintext, signer, err
}
