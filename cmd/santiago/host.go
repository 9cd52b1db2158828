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

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Manage the hosting directory (H): who you serve, and where",
}

var hostAddCmd = &cobra.Command{
	Use:   "add <client> <service> [locations...]",
	Short: "Grant a client access to a service, at the given locations",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runHostAdd,
}

var hostRemoveCmd = &cobra.Command{
	Use:   "remove <client> [service] [location]",
	Short: "Revoke a client's access, narrowing by service and location if given",
	Args:  cobra.RangeArgs(1, 3),
	RunE:  runHostRemove,
}

func init() {
	rootCmd.AddCommand(hostCmd)
	hostCmd.AddCommand(hostAddCmd)
	hostCmd.AddCommand(hostRemoveCmd)
}

func runHostAdd(cmd *cobra.Command, args []string) error {
	client := args[0]
	service := args[1]
	locations := args[2:]

	c := newAdminClient()
	if err := c.do("POST", "/hosting", entryRequest{Peer: client, Service: service, Locations: locations}, nil); err != nil {
		return fmt.Errorf("host add: %w", err)
	}
	fmt.Printf("granted %s access to %s\n", client, service)
	return nil
}

func runHostRemove(cmd *cobra.Command, args []string) error {
	req := entryRequest{Peer: args[0]}
	if len(args) > 1 {
		req.Service = args[1]
	}
	if len(args) > 2 {
		req.Locations = []string{args[2]}
	}

	c := newAdminClient()
	if err := c.do("DELETE", "/hosting", req, nil); err != nil {
		return fmt.Errorf("host remove: %w", err)
	}
	fmt.Printf("revoked %s\n", args[0])
	return nil
}
