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
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configDir string
	adminAddr string
)

var rootCmd = &cobra.Command{
	Use:   "santiago",
	Short: "Santiago - a friend-to-friend service location daemon",
	Long: `Santiago runs the FreedomBuddy service-location protocol: peers who
trust each other host and consume services, discovering each other's
reachable locations without a central directory.

This tool supports:
- Running a long-lived node (serve)
- Querying a host for a service (query)
- Editing the local hosting/consuming directories (host, consume)
- Listing what a running node currently knows (list)`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "config", "directory containing environment config files")
	rootCmd.PersistentFlags().StringVar(&adminAddr, "admin-addr", "http://localhost:8090", "base URL of a running node's admin API")

	// Note: commands are registered in their respective files
	// - serve.go: serveCmd
	// - query.go: queryCmd
	// - host.go: hostCmd (add/remove)
	// - consume.go: consumeCmd (add/remove)
	// - list.go: listCmd
	// - stats.go: statsCmd
}
