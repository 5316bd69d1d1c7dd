// Copyright (c) 2014-2016 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// error instances
//
// Provides a single instance of errors to allow easy comparison
package fault

// error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type PolicyError GenericError
type TransportError GenericError

// input validation
var (
	ErrInvalidPublicKey  = InvalidError("invalid public key")
	ErrInvalidSignedData = InvalidError("invalid signed data")
	ErrParseFailure      = InvalidError("parse failure")
	ErrInvalidModify     = InvalidError("invalid modify")
	ErrInvalidChunkType  = InvalidError("invalid chunk type")
	ErrRequiredConfigDir = InvalidError("config folder is required")
	ErrConfigDirPath     = InvalidError("config is not a folder")
	ErrInvalidIPAddress  = InvalidError("invalid IP address")
	ErrInvalidPortNumber = InvalidError("invalid port number")
	ErrInvalidCount      = InvalidError("invalid count")
)

// policy failures returned by the chunk action authority
var (
	ErrNotOwner                     = PolicyError("not owner")
	ErrAppendDisallowed             = PolicyError("append disallowed")
	ErrSignatureVerificationFailure = PolicyError("signature verification failure")
	ErrKeyNotUnique                 = PolicyError("key not unique")
	ErrFailedToFindChunk            = PolicyError("failed to find chunk")
)

// transport failures
var (
	ErrSendFailure         = TransportError("send failure")
	ErrSendTimeout         = TransportError("send timeout")
	ErrReceiveFailure      = TransportError("receive failure")
	ErrReceiveTimeout      = TransportError("receive timeout")
	ErrMessageSizeTooLarge = TransportError("message size too large")
	ErrAlreadyStarted      = TransportError("already started")
	ErrInvalidPort         = TransportError("invalid port")
	ErrInvalidAddress      = TransportError("invalid address")
	ErrSetOptionFailure    = TransportError("set option failure")
	ErrBindError           = TransportError("bind error")
	ErrListenError         = TransportError("listen error")
	ErrNotConnected        = TransportError("not connected")
	ErrTooManyConnections  = TransportError("too many connections")
)

// not found / exists
var (
	ErrKeyNotFound        = NotFoundError("key not found")
	ErrNotFoundConfigFile = NotFoundError("config file is not found")
	ErrVaultNotFound      = NotFoundError("vault not found")
	ErrProcessAlreadyRun  = ExistsError("process already running")
)

// generic process errors
var (
	ErrJsonParseFail        = ProcessError("parse to json failed")
	ErrUnmarshalTextFail    = ProcessError("unmarshal text failed")
	ErrGeneralError         = ProcessError("general error")
	ErrNotInitialised       = ProcessError("not initialised")
	ErrAlreadyInitialised   = ProcessError("already initialised")
	ErrInvalidLoggerChannel = ProcessError("invalid logger channel")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string    { return string(e) }
func (e InvalidError) Error() string   { return string(e) }
func (e NotFoundError) Error() string  { return string(e) }
func (e ProcessError) Error() string   { return string(e) }
func (e PolicyError) Error() string    { return string(e) }
func (e TransportError) Error() string { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool    { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool   { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool  { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool   { _, ok := e.(ProcessError); return ok }
func IsErrPolicy(e error) bool    { _, ok := e.(PolicyError); return ok }
func IsErrTransport(e error) bool { _, ok := e.(TransportError); return ok }
