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
	"encoding/hex"
	"encoding/pem"
	"fmt"
)

// armorBlockType is the PEM block type used for signed inner records,
// standing in for the "ascii-armored signed blob" spec.md describes -
// PEM is stdlib's own armor container and needs no third-party codec.
const armorBlockType = "SANTIAGO SIGNED MESSAGE"

// Armor wraps a signed payload in a PEM block. Headers carry the signer
// fingerprint and signature so the envelope stays self-describing without
// a separate framing format.
func Armor(signer Fingerprint, message, signature []byte) []byte {
	block := &pem.Block{
		Type: armorBlockType,
		Headers: map[string]string{
			"Signer":    string(signer),
			"Signature": hex.EncodeToString(signature),
		},
		Bytes: message,
	}
	return pem.EncodeToMemory(block)
}

// Unarmor reverses Armor, returning the signer fingerprint, the enclosed
// message, and its signature.
func Unarmor(blob []byte) (signer Fingerprint, message, signature []byte, err error) {
	block, _ := pem.Decode(blob)
	if block == nil {
		return "", nil, nil, fmt.Errorf("identity: no PEM block found")
	}
	if block.Type != armorBlockType {
		return "", nil, nil, fmt.Errorf("identity: unexpected armor type %q", block.Type)
	}
	sigHex, ok := block.Headers["Signature"]
	if !ok {
		return "", nil, nil, fmt.Errorf("identity: armor missing signature header")
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return "", nil, nil, fmt.Errorf("identity: bad signature header: %w", err)
	}
	return Fingerprint(block.Headers["Signer"]), block.Bytes, sig, nil
}
