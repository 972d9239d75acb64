// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

// Package delta implements structural diffing and merging for ordered
// collections of identity-bearing records, plus the canonical encoding the
// comparisons rely on.
//
// A collection delta describes how collection A became collection B in four
// optional parts: added records, updated records, removed ids, and the full
// id order of B when the relative order of surviving records changed.
// Diff and Apply form a round trip: Apply(A, Diff(A, B)) is structurally
// equal to B, including order.
package delta
