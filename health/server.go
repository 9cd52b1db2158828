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

package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/santiago-project/santiago/internal/logger"
)

// Server exposes a HealthChecker over HTTP, for container orchestrators
// to probe.
type Server struct {
	checker *HealthChecker
	log     logger.Logger
	addr    string
	path    string
	server  *http.Server
}

// NewServer creates a health HTTP server for checker, bound to addr and
// answering GET requests on path.
func NewServer(checker *HealthChecker, log logger.Logger, addr, path string) *Server {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if path == "" {
		path = "/healthz"
	}
	return &Server{checker: checker, log: log, addr: addr, path: path}
}

// Start launches the server in a background goroutine.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleHealth)

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.log.Info("starting health check server", logger.String("addr", s.addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("health check server error", logger.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.checker.GetSystemHealth(r.Context())

	switch health.Status {
	case StatusUnhealthy:
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusOK)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(health)
}

// StartHealthServer is a convenience constructor matching the rest of the
// package's style: build a checker-backed server and start it in one call.
func StartHealthServer(checker *HealthChecker, port int, path string) (*Server, error) {
	server := NewServer(checker, logger.GetDefaultLogger(), fmt.Sprintf(":%d", port), path)
	if err := server.Start(); err != nil {
		return nil, err
	}
	return server, nil
}
