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

var queryCmd = &cobra.Command{
	Use:   "query <host> <service>",
	Short: "Ask a host for a service's locations",
	Long: `Send a query to host for service through the locally running node.
Santiago queries are asynchronous: this command returns as soon as the
query has been dispatched, not once a reply arrives. Run "santiago list"
afterward to see what was learned.`,
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	host, service := args[0], args[1]
	client := newAdminClient()
	if err := client.do("POST", "/query", entryRequest{Peer: host, Service: service}, nil); err != nil {
		return fmt.Errorf("query: %w", err)
	}
	fmt.Printf("query dispatched to %s for %s\n", host, service)
	return nil
}
