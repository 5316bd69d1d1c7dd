// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vaultmanager

import (
	"testing"
	"time"
)

func TestWaitForVaultRequestTimesOut(t *testing.T) {
	v := NewVaultInfo()
	start := time.Now()
	if v.WaitForVaultRequest(50 * time.Millisecond) {
		t.Errorf("WaitForVaultRequest = true, expected false on timeout")
	}
	if time.Since(start) < 40*time.Millisecond {
		t.Errorf("WaitForVaultRequest returned too early")
	}
}

func TestWaitForVaultRequestWakesOnSignal(t *testing.T) {
	v := NewVaultInfo()
	go func() {
		time.Sleep(10 * time.Millisecond)
		v.SignalVaultRequested()
	}()

	if !v.WaitForVaultRequest(time.Second) {
		t.Errorf("WaitForVaultRequest = false, expected true after signal")
	}
}
