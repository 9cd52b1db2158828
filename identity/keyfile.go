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
	"encoding/pem"
	"fmt"
	"os"
)

// privateKeyBlockType is the PEM block type used to persist a peer's own
// Ed25519 key pair to disk, alongside the armorBlockType used for signed
// message payloads.
const privateKeyBlockType = "SANTIAGO PRIVATE KEY"

// SaveKeyPairToPEM writes kp's raw Ed25519 private key to path as a PEM
// file, creating or truncating it with owner-only permissions. The public
// key is not stored separately - it is recoverable from the private key.
func SaveKeyPairToPEM(kp KeyPair, path string) error {
	priv, ok := kp.PrivateKey().(ed25519.PrivateKey)
	if !ok {
		return fmt.Errorf("identity: key pair has no exportable private key")
	}
	block := &pem.Block{Type: privateKeyBlockType, Bytes: priv}
	return os.WriteFile(path, pem.EncodeToMemory(block), 0o600)
}

// LoadKeyPairFromPEM reads back a key pair written by SaveKeyPairToPEM.
func LoadKeyPairFromPEM(path string) (KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("identity: no PEM block found in %s", path)
	}
	if block.Type != privateKeyBlockType {
		return nil, fmt.Errorf("identity: unexpected PEM block type %q in %s", block.Type, path)
	}
	if len(block.Bytes) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("identity: malformed private key in %s", path)
	}
	priv := ed25519.PrivateKey(block.Bytes)
	pub := priv.Public().(ed25519.PublicKey)
	return NewKeyPair(pub, priv), nil
}

// LoadOrCreateKeyPairFromPEM loads the key pair stored at path, generating
// and persisting a fresh one if the file does not yet exist. This is the
// path a long-running node takes on first start: bootstrap an identity
// once and reuse it across restarts.
func LoadOrCreateKeyPairFromPEM(path string) (KeyPair, error) {
	kp, err := LoadKeyPairFromPEM(path)
	if err == nil {
		return kp, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	kp, err = GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	if err := SaveKeyPairToPEM(kp, path); err != nil {
		return nil, err
	}
	return kp, nil
}
