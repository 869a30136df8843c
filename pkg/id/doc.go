// Package id provides a 128-bit, lexicographically sortable identifier and
// the short "wu-" rendering used for work-unit ids.
//
// # Format
//
// The ID is 16 bytes big-endian: [8 bytes ms_timestamp][8 bytes sequence].
// This guarantees that byte-wise comparison preserves chronological order,
// and that IDs generated within the same millisecond remain strictly
// increasing by sequence. WorkUnit() condenses an ID to "wu-" plus 12 hex
// characters for display and API payloads; the registry keys units by path,
// so the short form only needs process-lifetime uniqueness.
//
// # Monotonicity
//
// The Generator ensures per-process monotonicity:
//   - If the system clock regresses, it pins to the last seen millisecond and
//     increments the sequence to avoid going backwards.
//   - If the sequence would overflow within a millisecond, it waits for the
//     next millisecond before emitting the next ID.
//
// Usage
//
//	g := id.NewGenerator()
//	newID := g.Next()
//	s := newID.String()    // full hex string
//	wu := newID.WorkUnit() // "wu-3a94f2c01b07"
package id
