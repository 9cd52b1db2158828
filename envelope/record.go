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

// Package envelope implements the three-layer Santiago wire format: an
// inner record that is signed and encrypted to its recipient, wrapped in a
// plaintext-routing signed header, optionally re-signed again by a
// proxying hop.
package envelope

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santiago-project/santiago/directory"
)

// SupportedVersions is the set of protocol versions this build understands.
var SupportedVersions = map[int]bool{1: true}

// DefaultVersion is used when building a new outgoing request.
const DefaultVersion = 1

// Sentinel errors surfaced by Unpack. The protocol engine treats all of
// them identically - as a reason to drop silently - but keeps the
// distinction for structured logging (spec.md §7).
var (
	ErrInvalidEnvelope = errors.New("envelope: invalid envelope")
	ErrVersionMismatch = errors.New("envelope: version mismatch")
)

// Record is the normalized inner request/reply record, after unpack has
// validated the schema and synthesized From/To.
type Record struct {
	Host           directory.Peer
	Client         directory.Peer
	Service        directory.ServiceName
	RequestVersion int
	ReplyVersions  []int
	ReplyTo        []directory.Location
	Locations      []directory.Location

	// From is the fingerprint that signed-and-encrypted the inner
	// payload (the original client or host), synthesized by Unpack - not
	// necessarily the immediate transport-level sender if the message
	// was proxied.
	From directory.Peer
	// To is always the local identity; Unpack only ever produces
	// records addressed to us.
	To directory.Peer
}

// IsReply reports whether this record carries a reply (non-empty
// locations) rather than a request - the sole branch incoming_request
// uses to distinguish the two (spec.md §4.3.3).
func (r *Record) IsReply() bool {
	return len(r.Locations) > 0
}

// wireRecord is the JSON shape of the inner payload (spec.md §6).
type wireRecord struct {
	Host           string   `json:"host"`
	Client         string   `json:"client"`
	Service        string   `json:"service"`
	RequestVersion int      `json:"request_version"`
	ReplyVersions  []int    `json:"reply_versions"`
	ReplyTo        []string `json:"reply_to,omitempty"`
	Locations      []string `json:"locations,omitempty"`
}

func (r *Record) toWire() wireRecord {
	w := wireRecord{
		Host:           string(r.Host),
		Client:         string(r.Client),
		Service:        string(r.Service),
		RequestVersion: r.RequestVersion,
		ReplyVersions:  r.ReplyVersions,
	}
	for _, l := range r.ReplyTo {
		w.ReplyTo = append(w.ReplyTo, string(l))
	}
	for _, l := range r.Locations {
		w.Locations = append(w.Locations, string(l))
	}
	return w
}

// requiredKeys are the inner-record fields that must be present and
// non-null (spec.md §6's REQUIRED_KEYS column).
var requiredKeys = []string{"host", "client", "service", "request_version", "reply_versions"}

// listKeys are the fields that must be arrays (or null, treated as empty)
// when present (spec.md §6's Listy column).
var listKeys = []string{"reply_to", "locations", "reply_versions"}

// parseInner validates raw JSON against the schema in spec.md §6 and
// returns the typed payload fields (everything but From/To, which the
// caller synthesizes once the signer is known).
func parseInner(raw []byte) (wireRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return wireRecord{}, fmt.Errorf("%w: not a JSON object: %v", ErrInvalidEnvelope, err)
	}

	for _, key := range requiredKeys {
		v, ok := fields[key]
		if !ok || isJSONNull(v) {
			return wireRecord{}, fmt.Errorf("%w: missing required key %q", ErrInvalidEnvelope, key)
		}
	}

	for _, key := range listKeys {
		v, ok := fields[key]
		if !ok || isJSONNull(v) {
			continue
		}
		var probe []json.RawMessage
		if err := json.Unmarshal(v, &probe); err != nil {
			return wireRecord{}, fmt.Errorf("%w: key %q must be a list", ErrInvalidEnvelope, key)
		}
	}

	var w wireRecord
	if err := json.Unmarshal(raw, &w); err != nil {
		return wireRecord{}, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	return w, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 4 && string(raw) == "null"
}

// checkVersions enforces property 5: the message is dropped unless our
// request_version is supported and reply_versions overlaps
// SupportedVersions.
func checkVersions(w wireRecord) error {
	if !SupportedVersions[w.RequestVersion] {
		return fmt.Errorf("%w: unsupported request_version %d", ErrVersionMismatch, w.RequestVersion)
	}
	for _, v := range w.ReplyVersions {
		if SupportedVersions[v] {
			return nil
		}
	}
	return fmt.Errorf("%w: no overlap in reply_versions %v", ErrVersionMismatch, w.ReplyVersions)
}

func fromWire(w wireRecord, from, to directory.Peer) *Record {
	r := &Record{
		Host:           directory.Peer(w.Host),
		Client:         directory.Peer(w.Client),
		Service:        directory.ServiceName(w.Service),
		RequestVersion: w.RequestVersion,
		ReplyVersions:  w.ReplyVersions,
		From:           from,
		To:             to,
	}
	for _, l := range w.ReplyTo {
		r.ReplyTo = append(r.ReplyTo, directory.Location(l))
	}
	for _, l := range w.Locations {
		r.Locations = append(r.Locations, directory.Location(l))
	}
	return r
}
