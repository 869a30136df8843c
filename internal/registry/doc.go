// Package registry implements the work unit registry: exclusive,
// TTL-bounded claims over named resources with FIFO wait queues.
//
// A work unit is lazily created on first claim and keyed by its path. Paths
// are opaque identifiers compared byte-for-byte; "src/a.go" and
// "./src/a.go" are distinct units. Every unit is either Available or
// Claimed by exactly one agent.
//
// # Claim Lifecycle
//
//  1. Claim: unheld unit -> caller owns it until expires_at
//  2. Refresh: owner re-claims -> expires_at advances, queue untouched
//  3. Contention: non-owner claims -> appended once to the FIFO queue
//  4. Release: owner releases -> queue head promoted, or unit Available
//  5. Expiry: sweep past expires_at -> same as release, marked forced
//  6. Cascade: agent deregisters -> all its claims released, queue
//     memberships dropped
//
// Steps 4-6 share one mutation routine, so promotion order and event
// emission are identical no matter how a claim ends. Promotions use the
// registry default TTL; the TTL an agent asked for at claim time is not
// inherited by whoever is promoted after it.
//
// Skipping the queue is impossible: a claim on a held unit never races past
// waiting agents because append and promote both happen under the registry
// mutex.
package registry
