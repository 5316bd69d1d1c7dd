// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package constants

import (
	"time"
)

// listening port range tried by the vault manager when it binds its
// control socket; the first port that binds is used
const (
	MinPort = 5483
	MaxPort = 5582
)

// transport sizing limits
const (
	MaxTransportChunkSize   = 1024 * 1024     // largest single chunk payload accepted over the wire
	MaxTransportMessageSize = 4 * 1024 * 1024 // largest framed message accepted, chunk plus envelope
)

// transport timeouts
const (
	DefaultInitialTimeout = 10 * time.Second // allowance for connect + first byte
	StallTimeout          = 10 * time.Second // no bytes seen on an active read/write
	MinTimeout            = 2 * time.Second  // floor under any per-message timeout

	// ImmediateTimeout is the sentinel response timeout meaning "no
	// further reply is expected on this connection"; zero rather than
	// a small duration so it can never collide with a real timeout.
	ImmediateTimeout = time.Duration(0)

	// milliseconds of extra send timeout allowed per byte of payload
	TimeoutFactor = time.Millisecond
)

// SendTimeout computes a per-message send timeout that scales with
// payload size but never drops below MinTimeout.
func SendTimeout(byteCount int) time.Duration {
	scaled := time.Duration(byteCount) * TimeoutFactor
	if scaled < MinTimeout {
		return MinTimeout
	}
	return scaled
}

// start-vault handshake budget: how long the manager waits for a
// freshly spawned vault process to identify itself
const StartVaultHandshakeTimeout = 3 * time.Second

// default filename for the vault manager's persisted configuration
const ConfigFilename = "vault_manager_config"

// name of the bootstrap file listing known contacts, fetched from the
// update host at startup and on every update cycle
const BootstrapFilename = "bootstrap-global.dat"

// allowed range for the update interval a client may request via
// UPDATE_INTERVAL_REQUEST
const (
	MinUpdateInterval = 5 * time.Minute
	MaxUpdateInterval = 7 * 24 * time.Hour
)

// UpdateIntervalRejected - sentinel value returned in
// UPDATE_INTERVAL_RESPONSE when the requested interval was out of
// range and therefore left unchanged
const UpdateIntervalRejected = 0
