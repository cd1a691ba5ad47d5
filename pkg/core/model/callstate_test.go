// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"

	"github.com/momeni/parkinglot/pkg/core/model"
	"github.com/stretchr/testify/assert"
)

func TestCallStateVariants(t *testing.T) {
	for _, tc := range []struct {
		name    string
		cs      model.CallState
		kind    model.CallStateKind
		loading bool
		msg     string
		hasMsg  bool
		str     string
	}{
		{"init", model.Init(), model.CallInit, false, "", false, "init"},
		{"loading", model.Loading(), model.CallLoading, true, "", false, "loading"},
		{"resting", model.Resting(), model.CallResting, false, "", false, "resting"},
		{
			"error", model.Failed("network error"), model.CallError,
			false, "network error", true, `error("network error")`,
		},
		{
			"empty error", model.Failed(""), model.CallError,
			false, model.UnknownErrorMessage, true,
			`error("unknown error")`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, tc.cs.Validate())
			assert.Equal(t, tc.kind, tc.cs.Kind())
			assert.Equal(t, tc.loading, tc.cs.IsLoading())
			msg, ok := tc.cs.Message()
			assert.Equal(t, tc.msg, msg)
			assert.Equal(t, tc.hasMsg, ok)
			assert.Equal(t, tc.str, tc.cs.String())
		})
	}
}

func TestZeroCallStateIsInvalid(t *testing.T) {
	var cs model.CallState
	assert.Equal(t, model.CallStateKindError(0), cs.Validate())
	assert.Panics(t, func() { _ = cs.String() })
}

func TestViewModelDerivation(t *testing.T) {
	ps := model.NewParkingState()
	vm := ps.ViewModel()
	assert.Equal(t, model.ViewModel{Cars: []model.Car{}}, vm)
	assert.False(t, vm.HasError())

	ps.CallState = model.Loading()
	vm = ps.ViewModel()
	assert.True(t, vm.Loading)
	assert.False(t, vm.HasError())

	ps.CallState = model.Failed("plate already parked")
	vm = ps.ViewModel()
	assert.False(t, vm.Loading)
	assert.Equal(t, "plate already parked", vm.Error)
}

func TestParkingStateCloneDoesNotShareCars(t *testing.T) {
	ps := model.NewParkingState()
	ps.Cars = append(ps.Cars, model.Car{Plate: "A"})
	c := ps.Clone()
	c.Cars[0].Plate = "B"
	assert.Equal(t, "A", ps.Cars[0].Plate)

	vm := ps.ViewModel()
	vm.Cars[0].Plate = "C"
	assert.Equal(t, "A", ps.Cars[0].Plate)
}

func TestViewModelEqual(t *testing.T) {
	a := model.ViewModel{Cars: []model.Car{{Plate: "A"}}}
	b := model.ViewModel{Cars: []model.Car{{Plate: "A"}}}
	assert.True(t, a.Equal(b))
	b.Loading = true
	assert.False(t, a.Equal(b))
	b = model.ViewModel{Cars: []model.Car{{Plate: "B"}}}
	assert.False(t, a.Equal(b))
}
