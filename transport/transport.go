// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/maidsafe/vault-manager/constants"
	"github.com/maidsafe/vault-manager/counter"
	"github.com/maidsafe/vault-manager/fault"
	"github.com/maidsafe/vault-manager/util"
)

// MessageHandler - the sink invoked once a full frame has been
// received; it returns the reply bytes and how long the connection
// should then wait for the next frame (ImmediateTimeout to close
// instead)
type MessageHandler func(payload []byte, peer string) ([]byte, time.Duration)

// ErrorHandler - the sink invoked when a connection reports a
// transport-level failure
type ErrorHandler func(err error, peer string)

// Transport - accepts inbound connections, creates outbound ones, and
// owns the live connection set.
type Transport struct {
	responseTimeout time.Duration

	mu       sync.Mutex
	listener net.Listener
	conns    map[*Connection]struct{}

	// maximumConnections caps inbound connections accepted at once; 0
	// means unlimited. Outbound Send calls are never counted against
	// it. connectionCount is the live tally used to enforce the cap.
	maximumConnections uint64
	connectionCount    counter.Counter

	onMessage MessageHandler
	onError   ErrorHandler
}

// SetMaximumConnections - bound the number of concurrently accepted
// inbound connections; call before StartListening. 0 (the default)
// means unlimited.
func (t *Transport) SetMaximumConnections(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n <= 0 {
		t.maximumConnections = 0
		return
	}
	t.maximumConnections = uint64(n)
}

// New - create a transport bound to the given handlers
func New(onMessage MessageHandler, onError ErrorHandler) *Transport {
	if nil == onError {
		onError = func(error, string) {}
	}
	return &Transport{
		responseTimeout: constants.DefaultInitialTimeout,
		conns:           make(map[*Connection]struct{}),
		onMessage:       onMessage,
		onError:         onError,
	}
}

// StartListening - bind and listen on address, accepting connections
// until StopListening is called. Returns the bound port, which may
// differ from the requested one when address specifies port 0.
func (t *Transport) StartListening(address string) (int, error) {
	t.mu.Lock()
	if nil != t.listener {
		t.mu.Unlock()
		return 0, fault.ErrAlreadyStarted
	}
	t.mu.Unlock()

	listener, err := net.Listen("tcp", address)
	if nil != err {
		return 0, fault.ErrBindError
	}

	t.mu.Lock()
	t.listener = listener
	t.mu.Unlock()

	go t.acceptLoop(listener)

	return listener.Addr().(*net.TCPAddr).Port, nil
}

// StartListeningOnRange - try ports [minPort, maxPort] in order and
// use the first that binds, as the vault manager does for its control
// socket.
func (t *Transport) StartListeningOnRange(host string, minPort int, maxPort int) (int, error) {
	var lastErr error
	for port := minPort; port <= maxPort; port += 1 {
		boundPort, err := t.StartListening(net.JoinHostPort(host, strconv.Itoa(port)))
		if nil == err {
			return boundPort, nil
		}
		lastErr = err
	}
	if nil == lastErr {
		lastErr = fault.ErrBindError
	}
	return 0, lastErr
}

func (t *Transport) acceptLoop(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if nil != err {
			return // listener closed by StopListening
		}

		t.mu.Lock()
		limit := t.maximumConnections
		t.mu.Unlock()
		if 0 != limit && t.connectionCount.Uint64() >= limit {
			t.reportError(fault.ErrTooManyConnections, conn.RemoteAddr().String())
			conn.Close()
			continue
		}

		t.connectionCount.Increment()
		connection := newInboundConnection(t, conn)
		t.insertConnection(connection)
		go connection.serve()
	}
}

// StopListening - close the acceptor; live connections are unaffected
func (t *Transport) StopListening() {
	t.mu.Lock()
	listener := t.listener
	t.listener = nil
	t.mu.Unlock()

	if nil != listener {
		listener.Close()
	}
}

// Close - close the acceptor and every live connection
func (t *Transport) Close() {
	t.StopListening()

	t.mu.Lock()
	conns := make([]*Connection, 0, len(t.conns))
	for c := range t.conns {
		conns = append(conns, c)
	}
	t.mu.Unlock()

	for _, c := range conns {
		c.close()
	}
}

// Send - open an outbound connection, write one framed request, and
// wait for the framed response. A response timeout of ImmediateTimeout
// means no reply is expected; the connection is closed after the
// write completes and Send returns immediately with a nil response.
func (t *Transport) Send(address string, payload []byte, responseTimeout time.Duration) ([]byte, error) {
	if len(payload) > constants.MaxTransportMessageSize {
		return nil, fault.ErrMessageSizeTooLarge
	}

	address, err := util.CanonicalIPandPort(address)
	if nil != err {
		return nil, fault.ErrInvalidAddress
	}

	conn, err := net.DialTimeout("tcp", address, constants.DefaultInitialTimeout)
	if nil != err {
		return nil, fault.ErrInvalidAddress
	}
	connection := newConnection(t, conn)
	t.insertConnection(connection)
	defer connection.close()

	connection.setState(StateConnecting)
	if err := connection.writeFrame(payload); nil != err {
		return nil, err
	}

	if ImmediateTimeout == responseTimeout {
		return nil, nil
	}

	connection.responseTimeoutOverride = responseTimeout
	return connection.readFrame()
}

func (t *Transport) insertConnection(c *Connection) {
	t.mu.Lock()
	t.conns[c] = struct{}{}
	t.mu.Unlock()
}

func (t *Transport) removeConnection(c *Connection) {
	t.mu.Lock()
	delete(t.conns, c)
	t.mu.Unlock()
	if c.inbound {
		t.connectionCount.Decrement()
	}
}

func (t *Transport) dispatch(payload []byte, peer string) ([]byte, time.Duration) {
	if nil == t.onMessage {
		return nil, ImmediateTimeout
	}
	return t.onMessage(payload, peer)
}

func (t *Transport) reportError(err error, peer string) {
	t.onError(err, peer)
}
