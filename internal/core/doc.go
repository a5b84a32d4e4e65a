// Package core provides the business logic for the character roster.
//
// This package owns everything between the front ends (terminal menu, CLI,
// HTTP API) and the roster file. It has no UI dependencies and can be used by
// any frontend or by tests without modification.
//
// # Architecture
//
//   - Codec: lines are parsed and built by package record; core never splits
//     CSV text itself.
//   - Store: reads and writes whole lines. [FileStore] is the production
//     implementation and serializes writes through a [WriteLimiter].
//   - Service: the entry point for all operations (list, add, level up, export).
//
// # Roster File
//
// The first line may be the header "Name,Class,Level,HP,Equipment" (compared
// case- and whitespace-insensitively). It is only recognised at position zero;
// the same text further down is treated as a malformed record. Blank lines are
// ignored. Lines that fail to parse are reported in [Roster.Skipped] and never
// abort a listing.
//
// # Updates
//
// [Service.LevelUp] validates the selection and both numeric fields before
// anything is written, then replaces the whole file in one rename. A failed
// level-up never leaves a partially written file behind.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError]:
//
//   - REC001-REC003: Record errors (malformed line, non-numeric field, invalid input)
//   - SEL001-SEL002: Selection out of range or not a number
//   - FILE001-FILE003: Roster file errors (not found, empty, busy)
//   - EXP001: Export errors
//   - DB001-DB003: Database sync errors
package core
