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

// Package admin provides a narrow, JSON-only HTTP API for inspecting and
// editing a node's hosting and consuming directories. It renders no
// HTML and serves no templates - just list/add/remove over H and C.
package admin

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/santiago-project/santiago/directory"
	"github.com/santiago-project/santiago/internal/logger"
	"github.com/santiago-project/santiago/internal/metrics"
)

// Querier issues an outgoing Santiago query, the same call protocol.Engine
// exposes. It is declared here rather than imported from protocol to keep
// admin free of a dependency on the engine's transport/identity wiring.
type Querier interface {
	Query(ctx context.Context, h directory.Peer, s directory.ServiceName)
}

// API wires the directory store into an http.Handler.
type API struct {
	dir     *directory.Directory
	querier Querier
	mux     *http.ServeMux
	log     logger.Logger
}

// New builds an API serving over dir, with no way to trigger outgoing
// queries - /query answers 501 until one is wired with NewWithQuerier.
func New(dir *directory.Directory) *API {
	return NewWithQuerier(dir, nil)
}

// NewWithQuerier builds an API that also accepts POST /query requests,
// forwarding them to querier (normally a *protocol.Engine).
func NewWithQuerier(dir *directory.Directory, querier Querier) *API {
	a := &API{dir: dir, querier: querier, mux: http.NewServeMux(), log: logger.GetDefaultLogger()}
	a.mux.HandleFunc("/hosting", a.handleHosting)
	a.mux.HandleFunc("/consuming", a.handleConsuming)
	a.mux.HandleFunc("/query", a.handleQuery)
	a.mux.HandleFunc("/stats", a.handleStats)
	return a
}

// ServeHTTP implements http.Handler. Every request is tagged with a fresh
// request ID for log correlation, the way a caller would trace one HTTP
// call through several downstream log lines.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)
	a.log.Debug("admin: request", logger.String("request_id", requestID), logger.String("method", r.Method), logger.String("path", r.URL.Path))
	a.mux.ServeHTTP(w, r)
}

// entryRequest is the JSON body for an add/remove request against
// either directory.
type entryRequest struct {
	Peer      string   `json:"peer"`
	Service   string   `json:"service"`
	Locations []string `json:"locations,omitempty"`
}

func (a *API) handleHosting(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, a.dir.HostingSnapshot())
	case http.MethodPost:
		a.mutate(w, r, a.dir.ProvideService, a.dir.CreateHostingClient)
	case http.MethodDelete:
		a.delete(w, r, a.dir.DeleteHostingLocation, a.dir.DeleteHostingService, a.dir.DeleteHostingClient)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *API) handleConsuming(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, a.dir.ConsumingSnapshot())
	case http.MethodPost:
		a.mutate(w, r, a.dir.LearnService, a.dir.CreateConsumingClient)
	case http.MethodDelete:
		a.delete(w, r, a.dir.DeleteConsumingLocation, a.dir.DeleteConsumingService, a.dir.DeleteConsumingClient)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// mutate decodes an entryRequest and either unions Locations into
// (Peer, Service) via provide, or - if Service is empty - just ensures
// Peer has an (empty) entry via createPeer; any Locations are then ignored.
func (a *API) mutate(w http.ResponseWriter, r *http.Request, provide func(directory.Peer, directory.ServiceName, []directory.Location), createPeer func(directory.Peer)) {
	var req entryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Peer == "" {
		writeError(w, http.StatusBadRequest, "peer is required")
		return
	}

	if req.Service == "" {
		createPeer(directory.Peer(req.Peer))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	provide(directory.Peer(req.Peer), directory.ServiceName(req.Service), toLocations(req.Locations))
	w.WriteHeader(http.StatusNoContent)
}

// delete decodes an entryRequest and removes the most specific level
// named: a single location if Locations has exactly one entry, the
// whole service if Service is set, or the whole peer otherwise.
func (a *API) delete(w http.ResponseWriter, r *http.Request,
	deleteLocation func(directory.Peer, directory.ServiceName, directory.Location),
	deleteService func(directory.Peer, directory.ServiceName),
	deletePeer func(directory.Peer),
) {
	var req entryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Peer == "" {
		writeError(w, http.StatusBadRequest, "peer is required")
		return
	}

	switch {
	case len(req.Locations) == 1 && req.Service != "":
		deleteLocation(directory.Peer(req.Peer), directory.ServiceName(req.Service), directory.Location(req.Locations[0]))
	case req.Service != "":
		deleteService(directory.Peer(req.Peer), directory.ServiceName(req.Service))
	default:
		deletePeer(directory.Peer(req.Peer))
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleQuery triggers an outgoing Santiago query against a host for a
// service, asynchronously - the reply, if any, arrives later as a
// directory update, not in this response.
func (a *API) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if a.querier == nil {
		writeError(w, http.StatusNotImplemented, "no querier configured")
		return
	}
	var req entryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Peer == "" || req.Service == "" {
		writeError(w, http.StatusBadRequest, "peer and service are required")
		return
	}
	a.querier.Query(r.Context(), directory.Peer(req.Peer), directory.ServiceName(req.Service))
	w.WriteHeader(http.StatusAccepted)
}

// handleStats reports a snapshot of the node's in-process crypto-oracle
// counters (sign/verify/encrypt/decrypt), the same ones a CLI "stats"
// command has no other way to reach since it runs in a separate process
// from the node it's inspecting.
func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, metrics.GetGlobalCollector().GetSnapshot())
}

func toLocations(in []string) []directory.Location {
	out := make([]directory.Location, len(in))
	for i, s := range in {
		out[i] = directory.Location(s)
	}
	return out
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
