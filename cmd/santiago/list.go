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
	"sort"

	"github.com/spf13/cobra"
)

var listKind string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List what a running node currently knows",
	Long: `Print the hosting and/or consuming directory of the locally running
node, as reported by its admin API.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listKind, "kind", "all", "which directory to list: hosting, consuming, or all")
}

func runList(cmd *cobra.Command, args []string) error {
	c := newAdminClient()

	if listKind == "hosting" || listKind == "all" {
		var snap map[string]map[string][]string
		if err := c.do("GET", "/hosting", nil, &snap); err != nil {
			return fmt.Errorf("list hosting: %w", err)
		}
		printSnapshot("hosting", snap)
	}

	if listKind == "consuming" || listKind == "all" {
		var snap map[string]map[string][]string
		if err := c.do("GET", "/consuming", nil, &snap); err != nil {
			return fmt.Errorf("list consuming: %w", err)
		}
		printSnapshot("consuming", snap)
	}

	return nil
}

func printSnapshot(label string, snap map[string]map[string][]string) {
	fmt.Printf("%s:\n", label)
	peers := make([]string, 0, len(snap))
	for p := range snap {
		peers = append(peers, p)
	}
	sort.Strings(peers)

	for _, p := range peers {
		services := snap[p]
		if len(services) == 0 {
			fmt.Printf("  %s\n", p)
			continue
		}
		names := make([]string, 0, len(services))
		for s := range services {
			names = append(names, s)
		}
		sort.Strings(names)
		for _, s := range names {
			fmt.Printf("  %s  %s  %v\n", p, s, services[s])
		}
	}
}
