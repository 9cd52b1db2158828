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

package envelope

import (
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"

	"github.com/santiago-project/santiago/directory"
	"github.com/santiago-project/santiago/identity"
)

// routingHeader is layer B/A's plaintext payload: the encrypted inner
// blob plus the intended final recipient, so a proxy can route without
// decrypting (spec.md §4.1 step 3).
type routingHeader struct {
	Request string `json:"request"`
	To      string `json:"to"`
}

// Pack builds the three-layer envelope for an outgoing request or reply
// addressed to "to": sign-and-encrypt the inner record (layer C), then
// sign the plaintext routing header naming "to" (layer B).
func Pack(r *Record, to directory.Peer, oracle *identity.Oracle) ([]byte, error) {
	inner, err := json.Marshal(r.toWire())
	if err != nil {
		return nil, fmt.Errorf("envelope: marshal inner record: %w", err)
	}

	encrypted, err := oracle.Encrypt(inner, identity.Fingerprint(to))
	if err != nil {
		return nil, fmt.Errorf("envelope: encrypt inner record: %w", err)
	}

	header, err := json.Marshal(routingHeader{
		Request: base64.StdEncoding.EncodeToString(encrypted),
		To:      string(to),
	})
	if err != nil {
		return nil, fmt.Errorf("envelope: marshal routing header: %w", err)
	}

	addressed, err := oracle.Sign(header)
	if err != nil {
		return nil, fmt.Errorf("envelope: sign routing header: %w", err)
	}
	return addressed, nil
}

// ProxyResign wraps an already-packed envelope in one more signature
// layer, as a proxying hop would: the new outermost signature identifies
// the proxy, while the original layer B/C remain untouched beneath it so
// the ultimate recipient can still verify the original client or host.
func ProxyResign(addressed []byte, oracle *identity.Oracle) ([]byte, error) {
	resigned, err := oracle.Sign(addressed)
	if err != nil {
		return nil, fmt.Errorf("envelope: proxy re-sign: %w", err)
	}
	return resigned, nil
}

// PeekDestination verifies the outermost signature layer(s) and returns
// the routing header's plaintext destination, without attempting to
// decrypt layer C. A proxying hop uses this to decide whether it is the
// intended final recipient before ever touching the encrypted payload -
// the inner signature layer "records the message's destination in
// plain-text... so proxiers can deliver the message" without needing to
// read it.
func PeekDestination(blob []byte, oracle *identity.Oracle) (directory.Peer, error) {
	routingBytes, err := peelRoutingLayers(blob, oracle)
	if err != nil {
		return "", err
	}
	var header routingHeader
	if err := json.Unmarshal(routingBytes, &header); err != nil {
		return "", fmt.Errorf("%w: malformed routing header: %v", ErrInvalidEnvelope, err)
	}
	return directory.Peer(header.To), nil
}

// Unpack verifies and decrypts an incoming envelope, returning the
// normalized record. Any failure - bad armor, unknown or wrong signer,
// decryption failure, malformed schema, or version mismatch - comes back
// as a non-nil error; per spec.md §4.1/§7 the caller (the protocol engine)
// must treat every such error as a silent drop, never an observable
// reply.
func Unpack(blob []byte, oracle *identity.Oracle, me directory.Peer) (*Record, error) {
	routingBytes, err := peelRoutingLayers(blob, oracle)
	if err != nil {
		return nil, err
	}

	var header routingHeader
	if err := json.Unmarshal(routingBytes, &header); err != nil {
		return nil, fmt.Errorf("%w: malformed routing header: %v", ErrInvalidEnvelope, err)
	}

	encrypted, err := base64.StdEncoding.DecodeString(header.Request)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed request field: %v", ErrInvalidEnvelope, err)
	}

	innerBytes, signer, err := oracle.Decrypt(encrypted)
	if err != nil || len(innerBytes) == 0 {
		return nil, fmt.Errorf("%w: decrypt failed: %v", ErrInvalidEnvelope, err)
	}

	w, err := parseInner(innerBytes)
	if err != nil {
		return nil, err
	}
	if err := checkVersions(w); err != nil {
		return nil, err
	}

	return fromWire(w, signer, me), nil
}

// peelRoutingLayers verifies the outermost armor layer(s) and returns the
// innermost non-armored payload - the routing header's JSON bytes. A
// proxy may have added one extra signature layer on top of the original
// layer B; both are plain PEM-armored signatures, so unwrapping stops as
// soon as the payload no longer parses as PEM.
func peelRoutingLayers(blob []byte, oracle *identity.Oracle) ([]byte, error) {
	message := blob
	for {
		payload, _, err := oracle.VerifyArmored(message)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
		}
		if block, _ := pem.Decode(payload); block == nil {
			return payload, nil
		}
		message = payload
	}
}
