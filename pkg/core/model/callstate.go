// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "fmt"

// CallStateKind specifies which variant of the CallState is held.
// Although this enum is numeric, it is reported as a string (using
// the String method) for readability in logs.
type CallStateKind int

// Valid values for the CallStateKind enum.
const (
	CallInvalid CallStateKind = iota // zero value is invalid

	CallInit    // no add-car request was issued yet
	CallLoading // an add-car request is in flight
	CallResting // last request succeeded, nothing is in flight
	CallError   // last request failed, its message is kept
)

// CallStateKindError indicates an invalid CallStateKind value.
type CallStateKindError int

// Error implements the error interface, returning a string
// representation of the CallStateKindError.
func (e CallStateKindError) Error() string {
	return fmt.Sprintf("invalid call state kind: %d", e)
}

// String converts the CallStateKind enum to a string.
// Invalid kinds cause a panic.
func (k CallStateKind) String() string {
	switch k {
	case CallInit:
		return "init"
	case CallLoading:
		return "loading"
	case CallResting:
		return "resting"
	case CallError:
		return "error"
	default:
		panic(CallStateKindError(k))
	}
}

// UnknownErrorMessage replaces empty error messages, so an error
// CallState always reports a non-empty message.
const UnknownErrorMessage = "unknown error"

// CallState is a closed variant describing the status of the most
// recent add-car request. Exactly one of the Init, Loading, Resting,
// or Error variants is held at any time and only the Error variant
// carries a message. Instances are created by the Init, Loading,
// Resting, and Failed functions and are immutable values.
//
// The zero value is invalid, so a forgotten initialization can be
// detected by the Validate method.
type CallState struct {
	kind CallStateKind
	msg  string
}

// Init returns the CallState which holds before any request.
func Init() CallState {
	return CallState{kind: CallInit}
}

// Loading returns the CallState of an in-flight request.
func Loading() CallState {
	return CallState{kind: CallLoading}
}

// Resting returns the CallState which holds after a successful request
// when no other request is in flight.
func Resting() CallState {
	return CallState{kind: CallResting}
}

// Failed returns the error CallState carrying msg. An empty msg is
// replaced by UnknownErrorMessage.
func Failed(msg string) CallState {
	if msg == "" {
		msg = UnknownErrorMessage
	}
	return CallState{kind: CallError, msg: msg}
}

// Kind returns the variant which is held by cs.
func (cs CallState) Kind() CallStateKind {
	return cs.kind
}

// IsLoading reports whether cs is the Loading variant.
func (cs CallState) IsLoading() bool {
	return cs.kind == CallLoading
}

// Message returns the error message and true if cs is the Error
// variant. Otherwise, an empty string and false are returned.
func (cs CallState) Message() (string, bool) {
	if cs.kind != CallError {
		return "", false
	}
	return cs.msg, true
}

// Validate returns nil if cs holds a known variant. Otherwise, an
// instance of CallStateKindError will be returned.
func (cs CallState) Validate() error {
	switch cs.kind {
	case CallInit, CallLoading, CallResting, CallError:
		return nil
	default:
		return CallStateKindError(cs.kind)
	}
}

// String returns the kind name, followed by the message for the
// Error variant, like error("plate already parked").
func (cs CallState) String() string {
	if cs.kind == CallError {
		return fmt.Sprintf("%s(%q)", cs.kind, cs.msg)
	}
	return cs.kind.String()
}
