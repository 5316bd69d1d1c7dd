// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"net"
	"sync"
	"time"

	"github.com/maidsafe/vault-manager/constants"
	"github.com/maidsafe/vault-manager/fault"
)

// State - a connection's position in the framing state machine
type State int

// the connection lifecycle; DISPATCHING briefly disables the deadline
// while the user callback runs
const (
	StateIdle State = iota
	StateConnecting
	StateWriting
	StateReadingSize
	StateReadingData
	StateDispatching
	StateClosed
)

// ImmediateTimeout - sentinel response timeout meaning "no reply
// expected; close after write completes"
const ImmediateTimeout = constants.ImmediateTimeout

// Connection - one TCP socket's send/receive state machine. All
// operations on a connection run on the goroutine that owns it; Go
// has no strand primitive, so a dedicated goroutine per connection is
// the equivalent serializing execution lane the source relies on.
type Connection struct {
	conn      net.Conn
	transport *Transport
	peer      string

	// responseTimeoutOverride, when non-zero, replaces the transport's
	// steady-state response timeout for this connection only; used by
	// outbound Send calls that need their own response budget.
	responseTimeoutOverride time.Duration

	// inbound is true for accepted connections, which count against
	// the transport's maximumConnections cap; outbound Send
	// connections never do.
	inbound bool

	mu    sync.Mutex
	state State
}

func newConnection(t *Transport, conn net.Conn) *Connection {
	return &Connection{
		conn:      conn,
		transport: t,
		peer:      conn.RemoteAddr().String(),
		state:     StateIdle,
	}
}

func newInboundConnection(t *Transport, conn net.Conn) *Connection {
	c := newConnection(t, conn)
	c.inbound = true
	return c
}

func (c *Connection) responseTimeout() time.Duration {
	if 0 != c.responseTimeoutOverride {
		return c.responseTimeoutOverride
	}
	return c.transport.responseTimeout
}

func (c *Connection) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// State - the connection's current position in the state machine
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Peer - the remote endpoint string
func (c *Connection) Peer() string {
	return c.peer
}

// serve - drive the accept-side loop: READING_SIZE -> READING_DATA ->
// DISPATCHING -> WRITING -> (READING_SIZE | CLOSED)
func (c *Connection) serve() {
	defer c.close()
	c.setState(StateReadingSize)

	for {
		payload, err := c.readFrame()
		if nil != err {
			c.transport.reportError(err, c.peer)
			return
		}

		c.setState(StateDispatching)
		response, responseTimeout := c.transport.dispatch(payload, c.peer)

		if 0 == len(response) || len(response) > constants.MaxTransportMessageSize {
			return
		}

		if err := c.writeFrame(response); nil != err {
			c.transport.reportError(err, c.peer)
			return
		}

		if ImmediateTimeout == responseTimeout {
			return
		}
		c.setState(StateReadingSize)
	}
}

// readFrame - read one length-prefixed frame, composing the response
// deadline (fixed for the whole frame) with a stall deadline that
// resets on every partial read
func (c *Connection) readFrame() ([]byte, error) {
	responseDeadline := time.Now().Add(c.responseTimeout())

	sizeBuffer := make([]byte, frameSizeLength)
	if err := c.readExact(sizeBuffer, responseDeadline); nil != err {
		return nil, err
	}

	size, err := decodeSize(sizeBuffer)
	if nil != err {
		return nil, err
	}

	c.setState(StateReadingData)
	data := make([]byte, size)
	if err := c.readExact(data, responseDeadline); nil != err {
		return nil, err
	}
	return data, nil
}

// readExact fills buf, reading in chunks bounded by
// MaxTransportChunkSize, and enforces min(responseDeadline, stall
// deadline) on every chunk.
func (c *Connection) readExact(buf []byte, responseDeadline time.Time) error {
	read := 0
	for read < len(buf) {
		stallDeadline := time.Now().Add(constants.StallTimeout)
		deadline := responseDeadline
		if stallDeadline.Before(deadline) {
			deadline = stallDeadline
		}
		if err := c.conn.SetReadDeadline(deadline); nil != err {
			return fault.ErrReceiveFailure
		}

		end := len(buf)
		if end-read > constants.MaxTransportChunkSize {
			end = read + constants.MaxTransportChunkSize
		}

		n, err := c.conn.Read(buf[read:end])
		read += n
		if nil != err {
			if isTimeout(err) {
				return fault.ErrReceiveTimeout
			}
			return fault.ErrReceiveFailure
		}
	}
	return nil
}

// writeFrame encodes and writes a response, sizing the write deadline
// to the payload.
func (c *Connection) writeFrame(payload []byte) error {
	frame, err := encodeFrame(payload)
	if nil != err {
		return err
	}

	c.setState(StateWriting)
	deadline := time.Now().Add(constants.SendTimeout(len(frame)))
	if err := c.conn.SetWriteDeadline(deadline); nil != err {
		return fault.ErrSendFailure
	}

	if _, err := c.conn.Write(frame); nil != err {
		if isTimeout(err) {
			return fault.ErrSendTimeout
		}
		return fault.ErrSendFailure
	}
	return nil
}

// close is idempotent: drop the socket and let the transport drop it
// from the connection set.
func (c *Connection) close() {
	c.mu.Lock()
	if StateClosed == c.state {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	c.mu.Unlock()

	c.conn.Close()
	c.transport.removeConnection(c)
}

func isTimeout(err error) bool {
	type timeoutError interface {
		Timeout() bool
	}
	te, ok := err.(timeoutError)
	return ok && te.Timeout()
}
