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
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a running node's crypto-oracle counters",
	Long: `Print the sign/verify/encrypt/decrypt counters the node's crypto
oracle has accumulated since it started, as reported by its admin API.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// statsSnapshot mirrors metrics.MetricsSnapshot's wire shape.
type statsSnapshot struct {
	UptimeNanos int64 `json:"Uptime"`

	SignatureCount     int64
	VerificationCount  int64
	SuccessfulVerifies int64
	FailedVerifies     int64
	EncryptionCount    int64
	DecryptionCount    int64

	AvgSignatureTime    float64
	AvgVerificationTime float64

	P95SignatureTime    int64
	P95VerificationTime int64
}

func runStats(cmd *cobra.Command, args []string) error {
	var snap statsSnapshot
	c := newAdminClient()
	if err := c.do("GET", "/stats", nil, &snap); err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	fmt.Printf("uptime: %s\n", time.Duration(snap.UptimeNanos))
	fmt.Printf("signatures:    %d (avg %.1fus, p95 %dus)\n", snap.SignatureCount, snap.AvgSignatureTime, snap.P95SignatureTime)
	fmt.Printf("verifications: %d (%d ok, %d failed, avg %.1fus, p95 %dus)\n",
		snap.VerificationCount, snap.SuccessfulVerifies, snap.FailedVerifies, snap.AvgVerificationTime, snap.P95VerificationTime)
	fmt.Printf("encryptions:   %d\n", snap.EncryptionCount)
	fmt.Printf("decryptions:   %d\n", snap.DecryptionCount)
	return nil
}
