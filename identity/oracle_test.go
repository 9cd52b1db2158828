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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOracle(t *testing.T) (*Oracle, KeyPair) {
	t.Helper()
	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	kr := NewKeyring()
	kr.Add(kp.PublicKey().(ed25519.PublicKey))
	return NewOracle(kp, kr), kp
}

func TestOracleSignAndVerify(t *testing.T) {
	oracle, kp := newTestOracle(t)

	blob, err := oracle.Sign([]byte("query payload"))
	require.NoError(t, err)

	msg, signer, err := oracle.VerifyArmored(blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("query payload"), msg)
	assert.Equal(t, kp.Fingerprint(), signer)
}

func TestOracleVerifyArmoredUnknownSigner(t *testing.T) {
	oracleA, _ := newTestOracle(t)
	oracleB, _ := newTestOracle(t)

	blob, err := oracleA.Sign([]byte("hello"))
	require.NoError(t, err)

	_, _, err = oracleB.VerifyArmored(blob)
	assert.ErrorIs(t, err, ErrUnknownPeer)
}

func TestOracleVerifyArmoredTamperedSignature(t *testing.T) {
	oracle, _ := newTestOracle(t)

	blob, err := oracle.Sign([]byte("hello"))
	require.NoError(t, err)
	signer, msg, sig, err := Unarmor(blob)
	require.NoError(t, err)
	sig[0] ^= 0xFF
	blob = Armor(signer, msg, sig)

	_, _, err = oracle.VerifyArmored(blob)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestOracleEncryptDecryptRoundTrip(t *testing.T) {
	alice, aliceKP := newTestOracle(t)
	bob, bobKP := newTestOracle(t)

	// each side needs to know the other to encrypt/verify
	alice.keyring.Add(bobKP.PublicKey().(ed25519.PublicKey))
	bob.keyring.Add(aliceKP.PublicKey().(ed25519.PublicKey))

	packet, err := alice.Encrypt([]byte("host location"), bobKP.Fingerprint())
	require.NoError(t, err)

	plaintext, signer, err := bob.Decrypt(packet)
	require.NoError(t, err)
	assert.Equal(t, []byte("host location"), plaintext)
	assert.Equal(t, aliceKP.Fingerprint(), signer)
}

func TestOracleEncryptUnknownRecipient(t *testing.T) {
	alice, _ := newTestOracle(t)

	_, err := alice.Encrypt([]byte("hi"), Fingerprint("nonexistent"))
	assert.ErrorIs(t, err, ErrUnknownPeer)
}

func TestOracleDecryptRejectsForeignCiphertext(t *testing.T) {
	alice, aliceKP := newTestOracle(t)
	bob, bobKP := newTestOracle(t)
	eve, _ := newTestOracle(t)

	alice.keyring.Add(bobKP.PublicKey().(ed25519.PublicKey))
	_ = aliceKP

	packet, err := alice.Encrypt([]byte("secret"), bobKP.Fingerprint())
	require.NoError(t, err)

	_, _, err = eve.Decrypt(packet)
	assert.Error(t, err)
	_ = bob
}
