// Package models defines the core domain models for votejam.
//
// # Entities
//
//   - User: a registered account; display name and avatar are used for attribution only
//   - Group: a set of members sharing an invite code
//   - GroupMember: a user's membership and role in a group
//   - GroupWeek: a bounded voting period; at most one is active per group
//   - Track: a catalog track submitted into a week
//   - Vote: an append-only allocation of coins from a user to a track
//
// Standings are derived from votes on every read and never stored.
//
// # Design Principles
//
//  1. Relationships are ID strings, never pointers
//  2. Timestamps are Unix seconds, as stored
//  3. Errors shared across layers live here so storage backends and the
//     voting engine agree on them without importing each other
package models
