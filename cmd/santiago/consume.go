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

	"github.com/spf13/cobra"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Manage the consuming directory (C): who you rely on, and where",
}

var consumeAddCmd = &cobra.Command{
	Use:   "add <host> <service> [locations...]",
	Short: "Record a host's service locations, as if learned from a reply",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runConsumeAdd,
}

var consumeRemoveCmd = &cobra.Command{
	Use:   "remove <host> [service] [location]",
	Short: "Forget a host's service, narrowing by service and location if given",
	Args:  cobra.RangeArgs(1, 3),
	RunE:  runConsumeRemove,
}

func init() {
	rootCmd.AddCommand(consumeCmd)
	consumeCmd.AddCommand(consumeAddCmd)
	consumeCmd.AddCommand(consumeRemoveCmd)
}

func runConsumeAdd(cmd *cobra.Command, args []string) error {
	host := args[0]
	service := args[1]
	locations := args[2:]

	c := newAdminClient()
	if err := c.do("POST", "/consuming", entryRequest{Peer: host, Service: service, Locations: locations}, nil); err != nil {
		return fmt.Errorf("consume add: %w", err)
	}
	fmt.Printf("now consuming %s from %s\n", service, host)
	return nil
}

func runConsumeRemove(cmd *cobra.Command, args []string) error {
	req := entryRequest{Peer: args[0]}
	if len(args) > 1 {
		req.Service = args[1]
	}
	if len(args) > 2 {
		req.Locations = []string{args[2]}
	}

	c := newAdminClient()
	if err := c.do("DELETE", "/consuming", req, nil); err != nil {
		return fmt.Errorf("consume remove: %w", err)
	}
	fmt.Printf("forgot %s\n", args[0])
	return nil
}
