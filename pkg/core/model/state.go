// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "slices"

// ParkingState is the root aggregate which is owned by the parking
// store. Cars are kept in their insertion order which is also their
// rendering order. Cars slice only grows by appending one car per
// successful add-car request.
type ParkingState struct {
	Cars      []Car
	CallState CallState
}

// NewParkingState returns the initial state, having no cars and the
// Init call state.
func NewParkingState() ParkingState {
	return ParkingState{Cars: []Car{}, CallState: Init()}
}

// Clone returns a copy of ps whose Cars slice does not share its
// backing array with ps, so it may be handed out to other goroutines.
func (ps ParkingState) Clone() ParkingState {
	return ParkingState{
		Cars:      slices.Clone(ps.Cars),
		CallState: ps.CallState,
	}
}

// ViewModel derives the view-model of ps. The returned Cars slice is
// a copy.
func (ps ParkingState) ViewModel() ViewModel {
	msg, _ := ps.CallState.Message()
	return ViewModel{
		Cars:    slices.Clone(ps.Cars),
		Loading: ps.CallState.IsLoading(),
		Error:   msg,
	}
}

// ViewModel is the read-only combination of the cars list, loading
// flag, and error message. It is the only data which a view layer is
// supposed to consume. An empty Error means that no error is held.
type ViewModel struct {
	Cars    []Car  `json:"cars"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// HasError reports whether vm carries an error message.
func (vm ViewModel) HasError() bool {
	return vm.Error != ""
}

// Clone returns a copy of vm whose Cars slice does not share its
// backing array with vm.
func (vm ViewModel) Clone() ViewModel {
	vm.Cars = slices.Clone(vm.Cars)
	return vm
}

// Equal reports whether vm and other have the same loading flag,
// error message, and cars (compared by all of their fields).
func (vm ViewModel) Equal(other ViewModel) bool {
	if vm.Loading != other.Loading || vm.Error != other.Error {
		return false
	}
	return slices.EqualFunc(vm.Cars, other.Cars, func(a, b Car) bool {
		return a.ID == b.ID && a.Plate == b.Plate &&
			a.ParkedAt.Equal(b.ParkedAt)
	})
}
