// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when the server
// configuration does not provide an HTTP listen address, leaving no
// transport to serve. It is treated as a fatal misconfiguration at startup.
var errNoHandlersAreCreated = errors.New("no handlers are created")
