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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EnvelopesProcessed tracks envelopes unpacked by the engine.
	EnvelopesProcessed = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "envelopes",
			Name:      "processed_total",
			Help:      "Total number of inbound envelopes unpacked",
		},
		[]string{"status"}, // ok, proxied, or one of logger.ErrCode*
	)

	// EnvelopeProcessingDuration tracks envelope unpack latency.
	EnvelopeProcessingDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "envelopes",
			Name:      "processing_duration_seconds",
			Help:      "Envelope unpack duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to 204.8ms
		},
	)

	// EnvelopeSize tracks packed envelope sizes.
	EnvelopeSize = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "envelopes",
			Name:      "size_bytes",
			Help:      "Packed envelope size in bytes",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10), // 64B to 16MB
		},
	)
)

// RecordEnvelope counts an inbound envelope by outcome and observes how
// long unpacking it took: ok, INVALID_ENVELOPE, VERSION_MISMATCH (the
// logger.ErrCode* values), or proxied (forwarded toward another peer
// without ever being decrypted).
func RecordEnvelope(status string, d time.Duration) {
	EnvelopesProcessed.WithLabelValues(status).Inc()
	EnvelopeProcessingDuration.Observe(d.Seconds())
}
