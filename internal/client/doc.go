// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

// Package client implements the sync client application runtime.
//
// It wires the offline queue, client services, and the background
// synchronization worker into a single process lifecycle.
package client
