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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PendingOutstanding tracks the current size of the client-side
	// pending-request set R across all hosts (spec.md §4.3.7).
	PendingOutstanding = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pending",
			Name:      "outstanding",
			Help:      "Number of service queries currently outstanding (OUTSTANDING state)",
		},
	)

	// PendingExpired tracks entries reverted from OUTSTANDING to IDLE by
	// Pending.ExpireOlderThan without ever receiving a reply.
	PendingExpired = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pending",
			Name:      "expired_total",
			Help:      "Total number of outstanding requests expired without a reply",
		},
	)

	// PendingLearned tracks entries that resolved to LEARNED via a
	// matching handle_reply.
	PendingLearned = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pending",
			Name:      "learned_total",
			Help:      "Total number of outstanding requests resolved by a reply",
		},
	)
)
