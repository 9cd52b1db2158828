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

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/santiago-project/santiago/admin"
	"github.com/santiago-project/santiago/config"
	"github.com/santiago-project/santiago/directory"
	"github.com/santiago-project/santiago/health"
	"github.com/santiago-project/santiago/identity"
	"github.com/santiago-project/santiago/internal/logger"
	"github.com/santiago-project/santiago/internal/metrics"
	"github.com/santiago-project/santiago/persistence"
	"github.com/santiago-project/santiago/protocol"
	"github.com/santiago-project/santiago/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a Santiago node",
	Long: `Start a long-lived node: load the local identity and directories,
bind every configured transport, and serve admin/metrics/health endpoints
until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.LoaderOptions{ConfigDir: configDir})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewLogger(os.Stdout, logger.ParseLevel(cfg.Logging.Level))
	logger.SetDefaultLogger(log)

	kp, err := identity.LoadOrCreateKeyPairFromPEM(cfg.Identity.KeyPath)
	if err != nil {
		return fmt.Errorf("load identity: %w", err)
	}
	me := directory.Peer(kp.Fingerprint())
	log.Info("identity loaded", logger.String("fingerprint", string(me)))

	keyring := identity.NewKeyring()
	oracle := identity.NewOracle(kp, keyring)

	dir := directory.New()
	store := persistence.NewStore(cfg.Directories.HostingPath, cfg.Directories.ConsumingPath)
	if err := store.Load(dir); err != nil {
		return fmt.Errorf("load directories: %w", err)
	}

	registry := transport.NewRegistry()
	memNet := transport.NewMemNetwork()
	var locations []directory.Location

	for scheme, t := range cfg.Transports {
		switch scheme {
		case transport.HTTPScheme:
			registry.RegisterSender(scheme, &transport.HTTPSender{})
			registry.RegisterListener(scheme, &transport.HTTPListener{Addr: t.Addr})
			if t.Addr != "" {
				locations = append(locations, directory.Location(fmt.Sprintf("https://%s", t.Addr)))
			}
		case transport.MemScheme:
			registry.RegisterSender(scheme, &transport.MemSender{Network: memNet})
			registry.RegisterListener(scheme, &transport.MemListener{Network: memNet, Name: string(me)})
			locations = append(locations, directory.Location(fmt.Sprintf("mem://%s", me)))
		default:
			log.Warn("serve: unknown transport scheme, skipping", logger.String("scheme", scheme))
		}
	}
	if len(locations) > 0 {
		dir.ProvideService(me, directory.SelfService, locations)
	}

	pending := directory.NewPending()
	engine := protocol.New(me, oracle, dir, pending, registry, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := registry.StartAll(ctx, func(blob []byte) { engine.IncomingRequest(ctx, blob) }); err != nil {
		return fmt.Errorf("start transports: %w", err)
	}
	defer registry.StopAll()

	var servers []*http.Server

	if cfg.Admin.Enabled {
		api := admin.NewWithQuerier(dir, engine)
		srv := &http.Server{Addr: cfg.Admin.Addr, Handler: api}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("admin server error", logger.Error(err))
			}
		}()
		servers = append(servers, srv)
		log.Info("admin API listening", logger.String("addr", cfg.Admin.Addr))
	}

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Metrics.Port), Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server error", logger.Error(err))
			}
		}()
		servers = append(servers, srv)
		log.Info("metrics listening", logger.Int("port", cfg.Metrics.Port))
	}

	var healthSrv *health.Server
	if cfg.Health.Enabled {
		checker := health.NewHealthChecker(5 * time.Second)
		checker.RegisterCheck("directory_store", health.DirectoryStoreHealthCheck(func() error {
			return store.Save(dir)
		}))
		healthSrv, err = health.StartHealthServer(checker, cfg.Health.Port, cfg.Health.Path)
		if err != nil {
			return fmt.Errorf("start health server: %w", err)
		}
		log.Info("health checks listening", logger.Int("port", cfg.Health.Port))
	}

	saveTicker := time.NewTicker(cfg.Directories.SaveInterval)
	defer saveTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-saveTicker.C:
			if err := store.Save(dir); err != nil {
				log.Error("periodic directory save failed", logger.Error(err))
			}
			engine.ExpireOutstanding(time.Now().Add(-protocol.DefaultPendingTTL))
		case <-sigCh:
			log.Info("shutting down")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			for _, srv := range servers {
				_ = srv.Shutdown(shutdownCtx)
			}
			if healthSrv != nil {
				_ = healthSrv.Stop(shutdownCtx)
			}
			shutdownCancel()
			if err := store.Save(dir); err != nil {
				log.Error("final directory save failed", logger.Error(err))
			}
			return nil
		}
	}
}
