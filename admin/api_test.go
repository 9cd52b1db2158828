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

package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santiago-project/santiago/directory"
)

func doRequest(t *testing.T, api *API, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	return rec
}

func TestPostHostingAddsEntry(t *testing.T) {
	dir := directory.New()
	api := New(dir)

	rec := doRequest(t, api, http.MethodPost, "/hosting", entryRequest{
		Peer: "client-1", Service: "chat", Locations: []string{"https://a"},
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []directory.Location{"https://a"}, dir.GetHostLocations("client-1", "chat"))
}

func TestPostHostingWithoutServiceCreatesBarePeer(t *testing.T) {
	dir := directory.New()
	api := New(dir)

	rec := doRequest(t, api, http.MethodPost, "/hosting", entryRequest{Peer: "client-1"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, dir.HostsFor("client-1"))
}

func TestPostHostingWithoutPeerErrors(t *testing.T) {
	api := New(directory.New())
	rec := doRequest(t, api, http.MethodPost, "/hosting", entryRequest{Service: "chat"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHostingReturnsSnapshot(t *testing.T) {
	dir := directory.New()
	dir.ProvideService("client-1", "chat", []directory.Location{"https://a"})
	api := New(dir)

	rec := doRequest(t, api, http.MethodGet, "/hosting", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var snap map[string]map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, []string{"https://a"}, snap["client-1"]["chat"])
}

func TestDeleteHostingRemovesSingleLocation(t *testing.T) {
	dir := directory.New()
	dir.ProvideService("client-1", "chat", []directory.Location{"https://a", "https://b"})
	api := New(dir)

	rec := doRequest(t, api, http.MethodDelete, "/hosting", entryRequest{
		Peer: "client-1", Service: "chat", Locations: []string{"https://a"},
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []directory.Location{"https://b"}, dir.GetHostLocations("client-1", "chat"))
}

func TestDeleteHostingWithServiceOnlyRemovesWholeService(t *testing.T) {
	dir := directory.New()
	dir.ProvideService("client-1", "chat", []directory.Location{"https://a"})
	api := New(dir)

	rec := doRequest(t, api, http.MethodDelete, "/hosting", entryRequest{Peer: "client-1", Service: "chat"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, dir.GetHostLocations("client-1", "chat"))
}

func TestDeleteHostingWithPeerOnlyRemovesEverything(t *testing.T) {
	dir := directory.New()
	dir.ProvideService("client-1", "chat", []directory.Location{"https://a"})
	api := New(dir)

	rec := doRequest(t, api, http.MethodDelete, "/hosting", entryRequest{Peer: "client-1"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, dir.HostsFor("client-1"))
}

func TestConsumingPostAndGet(t *testing.T) {
	dir := directory.New()
	api := New(dir)

	rec := doRequest(t, api, http.MethodPost, "/consuming", entryRequest{
		Peer: "host-1", Service: "chat", Locations: []string{"https://h"},
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, api, http.MethodGet, "/consuming", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []directory.Location{"https://h"}, dir.GetClientLocations("host-1", "chat"))
}

func TestUnsupportedMethodRejected(t *testing.T) {
	api := New(directory.New())
	rec := doRequest(t, api, http.MethodPut, "/hosting", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMalformedBodyRejected(t *testing.T) {
	api := New(directory.New())
	req := httptest.NewRequest(http.MethodPost, "/hosting", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubQuerier struct {
	host    directory.Peer
	service directory.ServiceName
	calls   int
}

func (s *stubQuerier) Query(_ context.Context, h directory.Peer, svc directory.ServiceName) {
	s.host, s.service = h, svc
	s.calls++
}

func TestQueryWithoutQuerierIsNotImplemented(t *testing.T) {
	api := New(directory.New())
	rec := doRequest(t, api, http.MethodPost, "/query", entryRequest{Peer: "host-1", Service: "chat"})
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestQueryDispatchesToQuerier(t *testing.T) {
	q := &stubQuerier{}
	api := NewWithQuerier(directory.New(), q)

	rec := doRequest(t, api, http.MethodPost, "/query", entryRequest{Peer: "host-1", Service: "chat"})
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, q.calls)
	assert.Equal(t, directory.Peer("host-1"), q.host)
	assert.Equal(t, directory.ServiceName("chat"), q.service)
}

func TestQueryRequiresPeerAndService(t *testing.T) {
	q := &stubQuerier{}
	api := NewWithQuerier(directory.New(), q)

	rec := doRequest(t, api, http.MethodPost, "/query", entryRequest{Peer: "host-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, q.calls)
}

func TestServeHTTPSetsRequestIDHeader(t *testing.T) {
	api := New(directory.New())
	rec := doRequest(t, api, http.MethodGet, "/hosting", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestQueryRejectsNonPost(t *testing.T) {
	api := NewWithQuerier(directory.New(), &stubQuerier{})
	rec := doRequest(t, api, http.MethodGet, "/query", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatsReturnsSnapshot(t *testing.T) {
	api := New(directory.New())
	rec := doRequest(t, api, http.MethodGet, "/stats", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var snap map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Contains(t, snap, "SignatureCount")
}

func TestStatsRejectsNonGet(t *testing.T) {
	api := New(directory.New())
	rec := doRequest(t, api, http.MethodPost, "/stats", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
