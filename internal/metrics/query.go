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
	// QueriesSent tracks outbound Engine.Query calls.
	QueriesSent = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queries",
			Name:      "sent_total",
			Help:      "Total number of outbound queries attempted",
		},
		[]string{"status"}, // sent, error
	)

	// RequestsHandled tracks inbound handle_request outcomes.
	RequestsHandled = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "requests",
			Name:      "handled_total",
			Help:      "Total number of inbound requests handled, by outcome",
		},
		[]string{"outcome"}, // answered, denied, confused_deputy, proxied, error
	)

	// RepliesHandled tracks inbound handle_reply outcomes.
	RepliesHandled = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "replies",
			Name:      "handled_total",
			Help:      "Total number of inbound replies handled, by outcome",
		},
		[]string{"outcome"}, // learned, denied, confused_deputy, misaddressed, proxied, unsolicited
	)
)

// RecordQuery increments QueriesSent for the given outcome.
func RecordQuery(status string) {
	QueriesSent.WithLabelValues(status).Inc()
}

// RecordRequest increments RequestsHandled for the given outcome.
func RecordRequest(outcome string) {
	RequestsHandled.WithLabelValues(outcome).Inc()
}

// RecordReply increments RepliesHandled for the given outcome, and
// PendingLearned for a "learned" one. It does not touch the
// PendingOutstanding gauge; the engine decrements that itself.
func RecordReply(outcome string) {
	RepliesHandled.WithLabelValues(outcome).Inc()
	if outcome == "learned" {
		PendingLearned.Inc()
	}
}
