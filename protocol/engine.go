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

// Package protocol implements the Santiago engine: query, incoming
// request dispatch, request/reply handling, and proxying, on top of the
// envelope codec and the hosting/consuming directories. Every inbound
// entry point is a silent-failure boundary: nothing it encounters, not
// even a panic, is allowed to surface to a peer or to the caller.
package protocol

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/santiago-project/santiago/directory"
	"github.com/santiago-project/santiago/envelope"
	"github.com/santiago-project/santiago/identity"
	"github.com/santiago-project/santiago/internal/logger"
	"github.com/santiago-project/santiago/internal/metrics"
	"github.com/santiago-project/santiago/transport"
)

// DefaultPendingTTL is the age at which a housekeeping loop calling
// ExpireOutstanding should consider an OUTSTANDING entry abandoned. The
// engine itself never schedules expiry; this is only a default for
// callers that do.
const DefaultPendingTTL = 10 * time.Minute

// Engine owns the directories, the pending-request set, the crypto
// oracle and the transport registry for one local identity (spec.md §9,
// "Global state"). It is the sole mutator of H, C and R.
type Engine struct {
	me       directory.Peer
	oracle   *identity.Oracle
	dir      *directory.Directory
	pending  *directory.Pending
	registry *transport.Registry
	log      logger.Logger
}

// New creates an Engine for local identity me.
func New(me directory.Peer, oracle *identity.Oracle, dir *directory.Directory, pending *directory.Pending, registry *transport.Registry, log logger.Logger) *Engine {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &Engine{me: me, oracle: oracle, dir: dir, pending: pending, registry: registry, log: log}
}

// IncomingRequest is the single entry point every Listener feeds raw
// envelopes into (spec.md §4.3.3). It first checks the envelope's
// plaintext routing destination - a proxying hop can only ever verify
// that layer, never decrypt the inner content - and forwards without
// decrypting when the envelope isn't addressed to this identity.
// Otherwise it unpacks blob and routes to handleRequest or handleReply
// depending on whether the record carries locations (a reply) or not (a
// request). Any failure, including a panic, is logged and swallowed
// here; nothing is ever returned to the transport.
func (e *Engine) IncomingRequest(ctx context.Context, blob []byte) {
	defer e.recoverAndLog("incoming_request")

	start := time.Now()
	to, err := envelope.PeekDestination(blob, e.oracle)
	if err != nil {
		metrics.RecordEnvelope(classifyUnpackError(err), time.Since(start))
		e.logDrop("incoming_request", classifyUnpackError(err), err)
		return
	}
	if to != e.me {
		e.proxy(ctx, blob, to)
		metrics.RecordEnvelope("proxied", time.Since(start))
		return
	}

	record, err := envelope.Unpack(blob, e.oracle, e.me)
	metrics.RecordEnvelope(classifyOutcome(err), time.Since(start))
	if err != nil {
		e.logDrop("incoming_request", classifyUnpackError(err), err)
		return
	}

	if record.IsReply() {
		e.handleReply(ctx, record, blob)
		return
	}
	e.handleRequest(ctx, record, blob)
}

// Query asks host h for service s (spec.md §4.3.1). Precondition:
// C[h][SANTIAGO_SERVICE] must be non-empty, but this is not itself
// checked here - an empty location set simply dispatches to nothing, the
// same silent no-op an unknown scheme produces. Any error during pack or
// send is swallowed; query never propagates failure.
func (e *Engine) Query(ctx context.Context, h directory.Peer, s directory.ServiceName) {
	defer e.recoverAndLog("query")

	e.pending.Add(h, s, time.Now())
	metrics.PendingOutstanding.Inc()
	inner := &envelope.Record{
		Host:           h,
		Client:         e.me,
		Service:        s,
		Locations:      nil,
		ReplyTo:        e.dir.MyLocations(e.me),
		RequestVersion: envelope.DefaultVersion,
		ReplyVersions:  supportedVersions(),
	}
	if err := e.outgoingRequest(ctx, h, inner); err != nil {
		e.log.Debug("query: outgoing request failed", logger.String("host", string(h)), logger.String("service", string(s)), logger.Error(err))
		metrics.RecordQuery("error")
		return
	}
	metrics.RecordQuery("sent")
}

// outgoingRequest packs inner for to and dispatches it to every
// registered location in C[to][SANTIAGO_SERVICE] (spec.md §4.3.2).
func (e *Engine) outgoingRequest(ctx context.Context, to directory.Peer, inner *envelope.Record) error {
	blob, err := envelope.Pack(inner, to, e.oracle)
	if err != nil {
		return err
	}
	e.dispatch(ctx, to, blob)
	return nil
}

// dispatch sends blob to every location this peer knows for reaching to's
// Santiago service. Destinations whose scheme has no registered sender,
// or whose send fails, are skipped silently - spec.md §4.3.2's "senders
// that are not registered for a scheme cause that destination to be
// skipped silently".
func (e *Engine) dispatch(ctx context.Context, to directory.Peer, blob []byte) {
	locs := e.dir.GetClientLocations(to, directory.SelfService)
	for _, loc := range locs {
		if err := e.registry.Send(ctx, blob, string(loc)); err != nil {
			e.log.Debug("dispatch: send failed", logger.String("to", string(to)), logger.String("location", string(loc)), logger.Error(err))
		}
	}
}

// handleRequest implements spec.md §4.3.4.
func (e *Engine) handleRequest(ctx context.Context, r *envelope.Record, blob []byte) {
	f, h, c, s, rt := r.From, r.Host, r.Client, r.Service, r.ReplyTo

	if !e.dir.HostsFor(f) || !e.dir.HostsFor(c) {
		e.logDrop("handle_request", logger.ErrCodePolicyDenied, nil)
		metrics.RecordRequest("denied")
		return
	}
	if f != c {
		e.logDrop("handle_request", logger.ErrCodePolicyDenied, nil)
		metrics.RecordRequest("confused_deputy")
		return
	}

	if h != e.me {
		e.proxy(ctx, blob, h)
		metrics.RecordRequest("proxied")
		return
	}

	e.dir.LearnService(c, directory.SelfService, rt)

	reply := &envelope.Record{
		Host:           h,
		Client:         c,
		Service:        s,
		Locations:      e.dir.GetHostLocations(c, s),
		ReplyTo:        e.dir.MyLocations(e.me),
		RequestVersion: envelope.DefaultVersion,
		ReplyVersions:  supportedVersions(),
	}
	if err := e.outgoingRequest(ctx, c, reply); err != nil {
		e.log.Debug("handle_request: reply failed", logger.String("client", string(c)), logger.String("service", string(s)), logger.Error(err))
		metrics.RecordRequest("error")
		return
	}
	metrics.RecordRequest("answered")
}

// handleReply implements spec.md §4.3.5.
func (e *Engine) handleReply(ctx context.Context, r *envelope.Record, blob []byte) {
	f, t, h, c, s, rt := r.From, r.To, r.Host, r.Client, r.Service, r.ReplyTo

	if !e.dir.ConsumesFrom(f) || !e.dir.ConsumesFrom(h) {
		e.logDrop("handle_reply", logger.ErrCodePolicyDenied, nil)
		metrics.RecordReply("denied")
		return
	}
	if f != h {
		e.logDrop("handle_reply", logger.ErrCodePolicyDenied, nil)
		metrics.RecordReply("confused_deputy")
		return
	}
	if t != e.me {
		e.logDrop("handle_reply", logger.ErrCodePolicyDenied, nil)
		metrics.RecordReply("misaddressed")
		return
	}
	if c != e.me {
		e.proxy(ctx, blob, c)
		metrics.RecordReply("proxied")
		return
	}
	if !e.pending.Contains(h, s) {
		e.logDrop("handle_reply", logger.ErrCodePolicyDenied, nil)
		metrics.RecordReply("unsolicited")
		return
	}

	e.dir.LearnService(h, directory.SelfService, rt)
	e.dir.LearnService(h, s, r.Locations)
	e.pending.Discard(h, s)
	metrics.PendingOutstanding.Dec()
	metrics.RecordReply("learned")
}

// proxy re-emits the already-packed envelope toward forwardTo, preserving
// the original inner signature by re-signing only the outer layer
// (envelope.ProxyResign). This is a real re-emission, not the no-op a
// minimal conforming engine is permitted to implement, since the engine
// already owns everything needed to complete it.
func (e *Engine) proxy(ctx context.Context, blob []byte, forwardTo directory.Peer) {
	resigned, err := envelope.ProxyResign(blob, e.oracle)
	if err != nil {
		e.log.Debug("proxy: re-sign failed", logger.String("to", string(forwardTo)), logger.Error(err))
		return
	}
	e.dispatch(ctx, forwardTo, resigned)
}

// Discard removes (h, s) from the pending-request set, moving it from
// OUTSTANDING back to IDLE without ever receiving a reply (spec.md
// §4.3.7). The engine provides no timer; callers drive this themselves.
func (e *Engine) Discard(h directory.Peer, s directory.ServiceName) {
	if e.pending.Contains(h, s) {
		metrics.PendingOutstanding.Dec()
	}
	e.pending.Discard(h, s)
}

// ExpireOutstanding reverts every entry added before cutoff from
// OUTSTANDING to IDLE without a reply, the periodic housekeeping
// directory.Pending.ExpireOlderThan's doc comment invites a caller to
// drive. A running node calls this on a timer; the engine itself never
// schedules it.
func (e *Engine) ExpireOutstanding(cutoff time.Time) {
	n := e.pending.ExpireOlderThan(cutoff)
	if n == 0 {
		return
	}
	metrics.PendingOutstanding.Sub(float64(n))
	metrics.PendingExpired.Add(float64(n))
}

// recoverAndLog is the silent catch-all boundary spec.md §7 requires:
// every error, including a panic from programmer error, is logged and
// swallowed here rather than propagated to the caller or the peer.
func (e *Engine) recoverAndLog(op string) {
	if r := recover(); r != nil {
		e.log.Error("protocol: recovered panic", logger.String("op", op), logger.Any("panic", r))
	}
}

func (e *Engine) logDrop(op, code string, err error) {
	fields := []logger.Field{logger.String("op", op), logger.String("code", code)}
	if err != nil {
		fields = append(fields, logger.Error(err))
	}
	e.log.Debug("protocol: silent drop", fields...)
}

// classifyUnpackError maps an envelope error to the error taxonomy code
// the structured log records (spec.md §7).
func classifyUnpackError(err error) string {
	switch {
	case errors.Is(err, envelope.ErrVersionMismatch):
		return logger.ErrCodeVersionMismatch
	case errors.Is(err, envelope.ErrInvalidEnvelope):
		return logger.ErrCodeInvalidEnvelope
	default:
		return logger.ErrCodeInvalidEnvelope
	}
}

// classifyOutcome maps a nil-or-not Unpack error to the status label the
// envelope-processed counter uses.
func classifyOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	return classifyUnpackError(err)
}

// supportedVersions returns envelope.SupportedVersions as a sorted slice,
// for embedding in an outgoing record's reply_versions.
func supportedVersions() []int {
	out := make([]int, 0, len(envelope.SupportedVersions))
	for v := range envelope.SupportedVersions {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
