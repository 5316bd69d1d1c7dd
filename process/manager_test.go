// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package process_test

import (
	"testing"

	"github.com/maidsafe/vault-manager/fault"
	"github.com/maidsafe/vault-manager/process"
)

func TestStartOnUnknownIndexFails(t *testing.T) {
	m := process.New()
	if err := m.Start(process.InvalidIndex); fault.ErrVaultNotFound != err {
		t.Errorf("Start(invalid) -> %v, expected ErrVaultNotFound", err)
	}
}

func TestAddThenStartThenStop(t *testing.T) {
	m := process.New()
	index := m.Add(process.Spec{Path: "/bin/sleep", Arguments: []string{"30"}}, 0)

	if m.Running(index) {
		t.Fatalf("newly added process reports running")
	}
	if err := m.Start(index); nil != err {
		t.Fatalf("Start failed: %s", err)
	}
	if !m.Running(index) {
		t.Errorf("started process reports not running")
	}
	if err := m.Stop(index); nil != err {
		t.Fatalf("Stop failed: %s", err)
	}
	if m.Running(index) {
		t.Errorf("stopped process still reports running")
	}
}

func TestDoubleStartFails(t *testing.T) {
	m := process.New()
	index := m.Add(process.Spec{Path: "/bin/sleep", Arguments: []string{"30"}}, 0)
	if err := m.Start(index); nil != err {
		t.Fatalf("Start failed: %s", err)
	}
	defer m.Stop(index)

	if err := m.Start(index); fault.ErrProcessAlreadyRun != err {
		t.Errorf("second Start -> %v, expected ErrProcessAlreadyRun", err)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	m := process.New()
	index := m.Add(process.Spec{Path: "/bin/sleep", Arguments: []string{"30"}}, 0)
	if err := m.Stop(index); nil != err {
		t.Errorf("Stop of not-started process -> %v, expected nil", err)
	}
}

func TestLetAllDieClearsRunningState(t *testing.T) {
	m := process.New()
	index := m.Add(process.Spec{Path: "/bin/sleep", Arguments: []string{"30"}}, 0)
	if err := m.Start(index); nil != err {
		t.Fatalf("Start failed: %s", err)
	}
	m.LetAllDie()
	if m.Running(index) {
		t.Errorf("process still running after LetAllDie")
	}
}
