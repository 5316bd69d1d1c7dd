// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/maidsafe/vault-manager/transport"
)

func echoHandler(payload []byte, peer string) ([]byte, time.Duration) {
	reply := make([]byte, len(payload))
	copy(reply, payload)
	return reply, transport.ImmediateTimeout
}

func TestSendReceivesEchoedResponse(t *testing.T) {
	var lastErr error
	server := transport.New(echoHandler, func(err error, peer string) { lastErr = err })
	port, err := server.StartListening("127.0.0.1:0")
	if nil != err {
		t.Fatalf("StartListening failed: %s", err)
	}
	defer server.Close()

	client := transport.New(nil, nil)
	response, err := client.Send("127.0.0.1:"+strconv.Itoa(port), []byte("hello"), time.Second)
	if nil != err {
		t.Fatalf("Send failed: %s", err)
	}
	if "hello" != string(response) {
		t.Errorf("response = %q, expected %q", response, "hello")
	}
	if nil != lastErr {
		t.Errorf("unexpected server error: %s", lastErr)
	}
}

func TestSendWithImmediateTimeoutReturnsNoResponse(t *testing.T) {
	server := transport.New(func(payload []byte, peer string) ([]byte, time.Duration) {
		return nil, transport.ImmediateTimeout
	}, nil)
	port, err := server.StartListening("127.0.0.1:0")
	if nil != err {
		t.Fatalf("StartListening failed: %s", err)
	}
	defer server.Close()

	client := transport.New(nil, nil)
	response, err := client.Send("127.0.0.1:"+strconv.Itoa(port), []byte("fire-and-forget"), transport.ImmediateTimeout)
	if nil != err {
		t.Fatalf("Send failed: %s", err)
	}
	if nil != response {
		t.Errorf("response = %v, expected nil", response)
	}
}

func TestStartListeningTwiceFails(t *testing.T) {
	server := transport.New(echoHandler, nil)
	if _, err := server.StartListening("127.0.0.1:0"); nil != err {
		t.Fatalf("first StartListening failed: %s", err)
	}
	defer server.Close()

	if _, err := server.StartListening("127.0.0.1:0"); nil == err {
		t.Errorf("second StartListening succeeded, expected ErrAlreadyStarted")
	}
}

func TestStartListeningOnRangeSkipsOccupiedPorts(t *testing.T) {
	blocker := transport.New(echoHandler, nil)
	blockedPort, err := blocker.StartListening("127.0.0.1:0")
	if nil != err {
		t.Fatalf("blocker StartListening failed: %s", err)
	}
	defer blocker.Close()

	server := transport.New(echoHandler, nil)
	defer server.Close()
	boundPort, err := server.StartListeningOnRange("127.0.0.1", blockedPort, blockedPort+4)
	if nil != err {
		t.Fatalf("StartListeningOnRange failed: %s", err)
	}
	if boundPort == blockedPort {
		t.Errorf("StartListeningOnRange returned the already-bound port")
	}
}
