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

package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPScheme is the scheme name the HTTPS transport registers under.
const HTTPScheme = "https"

// HTTPSender POSTs the opaque envelope blob to a location's URL. It is
// the minimal conforming binding spec.md §6 describes as an external
// collaborator: "send(blob, destination_url)".
type HTTPSender struct {
	Client *http.Client
}

// Send implements Sender.
func (s *HTTPSender) Send(ctx context.Context, blob []byte, destination string) error {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destination, bytes.NewReader(blob))
	if err != nil {
		return fmt.Errorf("transport: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("transport: send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("transport: send: unexpected status %s", resp.Status)
	}
	return nil
}

// HTTPListener runs a net/http.Server that reads the POST body of every
// request and hands it to the engine's incoming-request handler. It
// answers 204 once the body is read (400 if reading it fails), since the
// Santiago reply (if any)
// travels asynchronously as its own request back to the client's
// locations, not in the HTTP response body.
type HTTPListener struct {
	Addr   string
	server *http.Server
}

// Start implements Listener. It launches the HTTP server in a background
// goroutine and returns once the server is constructed, matching spec.md
// §4.4's "listeners are started once" without blocking the caller. A
// listen error is returned only if ListenAndServe has already failed when
// Start checks; a later failure is not reported or logged.
func (l *HTTPListener) Start(ctx context.Context, handler Handler) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		handler(body)
		w.WriteHeader(http.StatusNoContent)
	})

	l.server = &http.Server{Addr: l.Addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() { errCh <- l.server.ListenAndServe() }()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("transport: https listen: %w", err)
		}
		return nil
	default:
		return nil
	}
}

// Stop implements Listener.
func (l *HTTPListener) Stop() error {
	if l.server == nil {
		return nil
	}
	return l.server.Close()
}
