// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package storeuc_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/parkinglot/pkg/core/cerr"
	"github.com/momeni/parkinglot/pkg/core/model"
	"github.com/momeni/parkinglot/pkg/core/usecase/storeuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const timeout = 2 * time.Second

// call is one pending Add invocation of the manualService which
// waits for the test to resolve it.
type call struct {
	plate string
	ctx   context.Context
	reply chan result
}

type result struct {
	car *model.Car
	err error
}

func (c call) succeed() *model.Car {
	car := newCar(c.plate)
	c.reply <- result{car: car}
	return car
}

func (c call) fail(err error) {
	c.reply <- result{err: err}
}

// manualService hands every Add invocation to the test via calls.
type manualService struct {
	calls chan call
}

func newManualService() *manualService {
	return &manualService{calls: make(chan call, 8)}
}

func (ms *manualService) Add(ctx context.Context, plate string) (*model.Car, error) {
	c := call{plate: plate, ctx: ctx, reply: make(chan result, 1)}
	ms.calls <- c
	select {
	case r := <-c.reply:
		return r.car, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (ms *manualService) next(t *testing.T) call {
	t.Helper()
	select {
	case c := <-ms.calls:
		return c
	case <-time.After(timeout):
		require.FailNow(t, "service was not called")
	}
	return call{}
}

func (ms *manualService) assertIdle(t *testing.T) {
	t.Helper()
	select {
	case c := <-ms.calls:
		assert.Failf(t, "unexpected service call", "plate: %q", c.plate)
	case <-time.After(50 * time.Millisecond):
	}
}

// serviceFunc adapts a function to the storeuc.Service interface.
type serviceFunc func(ctx context.Context, plate string) (*model.Car, error)

func (f serviceFunc) Add(ctx context.Context, plate string) (*model.Car, error) {
	return f(ctx, plate)
}

func echoService() storeuc.Service {
	return serviceFunc(func(context.Context, string) (*model.Car, error) {
		return nil, nil
	})
}

func newCar(plate string) *model.Car {
	return &model.Car{
		ID:       uuid.New(),
		Plate:    plate,
		ParkedAt: time.Now().UTC(),
	}
}

func newStore(t *testing.T, svc storeuc.Service, opts ...storeuc.Option) *storeuc.Store {
	t.Helper()
	s, err := storeuc.New(svc, opts...)
	require.NoError(t, err, "cannot create store")
	t.Cleanup(s.Close)
	return s
}

func recv(t *testing.T, sub *storeuc.Subscription) model.ViewModel {
	t.Helper()
	select {
	case vm, ok := <-sub.C:
		require.True(t, ok, "subscription channel is closed")
		return vm
	case <-time.After(timeout):
		require.FailNow(t, "no view-model was published")
	}
	return model.ViewModel{}
}

func waitIdle(t *testing.T, s *storeuc.Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	require.NoError(t, s.Wait(ctx), "store did not become idle")
}

func TestInitialViewModel(t *testing.T) {
	s := newStore(t, newManualService())
	sub := s.Subscribe()
	defer sub.Close()

	vm := recv(t, sub)
	assert.Equal(t, model.ViewModel{Cars: []model.Car{}}, vm)
	assert.Empty(t, s.Cars())
	assert.False(t, s.Loading())
	_, hasErr := s.ErrorMessage()
	assert.False(t, hasErr)
	assert.Equal(t, model.CallInit, s.State().CallState.Kind())
}

func TestAddCarSuccess(t *testing.T) {
	svc := newManualService()
	s := newStore(t, svc)
	sub := s.Subscribe()
	recv(t, sub)

	s.AddCar("AB-123")
	assert.Equal(
		t, model.ViewModel{Cars: []model.Car{}, Loading: true},
		recv(t, sub), "loading must be published before the call",
	)
	c := svc.next(t)
	assert.Equal(t, "AB-123", c.plate)
	car := c.succeed()

	vm := recv(t, sub)
	assert.Equal(t, model.ViewModel{Cars: []model.Car{*car}}, vm)
	assert.Equal(t, model.CallResting, s.State().CallState.Kind())
	waitIdle(t, s)
}

func TestAddCarFailure(t *testing.T) {
	svc := newManualService()
	s := newStore(t, svc)
	sub := s.Subscribe()
	recv(t, sub)

	s.AddCar("ZZ-999")
	assert.True(t, recv(t, sub).Loading)
	svc.next(t).fail(errors.New("plate already parked"))

	vm := recv(t, sub)
	assert.Equal(t, model.ViewModel{
		Cars:  []model.Car{},
		Error: "plate already parked",
	}, vm)
	msg, ok := s.ErrorMessage()
	assert.True(t, ok)
	assert.Equal(t, "plate already parked", msg)
}

func TestFailureKeepsCarsAndClearsOnNextAdd(t *testing.T) {
	svc := newManualService()
	s := newStore(t, svc)
	sub := s.Subscribe()
	recv(t, sub)

	s.AddCar("A")
	recv(t, sub)
	a := svc.next(t).succeed()
	recv(t, sub)

	s.AddCar("X")
	recv(t, sub)
	svc.next(t).fail(cerr.Conflict(errors.New("network error")))
	vm := recv(t, sub)
	assert.Equal(t, []model.Car{*a}, vm.Cars, "cars must be unchanged")
	assert.Equal(t, "network error", vm.Error)
	assert.False(t, vm.Loading)

	s.AddCar("B")
	vm = recv(t, sub)
	assert.True(t, vm.Loading)
	assert.False(t, vm.HasError(), "error must be cleared by loading")
	b := svc.next(t).succeed()
	vm = recv(t, sub)
	assert.Equal(t, []model.Car{*a, *b}, vm.Cars)
	assert.False(t, vm.HasError())
}

func TestAddCarsAreSerialized(t *testing.T) {
	svc := newManualService()
	s := newStore(t, svc)
	sub := s.Subscribe()
	recv(t, sub)

	s.AddCar("A")
	s.AddCar("B")
	ca := svc.next(t)
	assert.Equal(t, "A", ca.plate)
	svc.assertIdle(t) // B must wait for A
	a := ca.succeed()

	cb := svc.next(t)
	assert.Equal(t, "B", cb.plate)
	assert.Equal(
		t, []model.Car{*a}, s.Cars(),
		"A must be applied before B is requested",
	)
	b := cb.succeed()
	waitIdle(t, s)
	assert.Equal(t, []model.Car{*a, *b}, s.Cars())

	var seen []model.ViewModel
	for len(sub.C) > 0 {
		seen = append(seen, <-sub.C)
	}
	require.Len(t, seen, 4)
	assert.True(t, seen[0].Loading)
	assert.Equal(t, []model.Car{*a}, seen[1].Cars)
	assert.False(t, seen[1].Loading)
	assert.True(t, seen[2].Loading)
	assert.Equal(t, []model.Car{*a, *b}, seen[3].Cars)
}

func TestCarsAreAppendOnly(t *testing.T) {
	plates := []string{"P1", "P2", "P3", "P4", "P5", "P6"}
	svc := serviceFunc(func(_ context.Context, plate string) (*model.Car, error) {
		return newCar(plate), nil
	})
	s := newStore(t, svc)
	sub := s.Subscribe()
	recv(t, sub)
	for _, p := range plates {
		s.AddCar(p)
	}
	waitIdle(t, s)

	cars := s.Cars()
	require.Len(t, cars, len(plates))
	for i, p := range plates {
		assert.Equal(t, p, cars[i].Plate)
	}

	var prev []model.Car
	for len(sub.C) > 0 {
		vm := <-sub.C
		assert.False(
			t, vm.Loading && vm.HasError(),
			"loading and error may not hold together",
		)
		require.GreaterOrEqual(t, len(vm.Cars), len(prev))
		assert.True(
			t, slices.Equal(prev, vm.Cars[:len(prev)]),
			"earlier cars were altered",
		)
		prev = vm.Cars
	}
	assert.Equal(t, cars, prev)
}

func TestServiceMisbehaviourBecomesError(t *testing.T) {
	for _, tc := range []struct {
		name string
		svc  storeuc.Service
		msg  string
	}{
		{
			name: "no car and no error",
			svc:  echoService(),
			msg:  storeuc.ErrNoCar.Error(),
		},
		{
			name: "panic",
			svc: serviceFunc(func(context.Context, string) (*model.Car, error) {
				panic("boom")
			}),
			msg: "service panicked: boom",
		},
		{
			name: "empty error message",
			svc: serviceFunc(func(context.Context, string) (*model.Car, error) {
				return nil, errors.New("")
			}),
			msg: model.UnknownErrorMessage,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t, tc.svc)
			s.AddCar("A")
			waitIdle(t, s)
			vm := s.ViewModel()
			assert.Equal(t, tc.msg, vm.Error)
			assert.False(t, vm.Loading)
			assert.Empty(t, vm.Cars)
		})
	}
}

func TestCallTimeout(t *testing.T) {
	svc := serviceFunc(func(ctx context.Context, _ string) (*model.Car, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	s := newStore(t, svc, storeuc.WithCallTimeout(20*time.Millisecond))
	s.AddCar("A")
	waitIdle(t, s)
	msg, ok := s.ErrorMessage()
	assert.True(t, ok)
	assert.Equal(t, context.DeadlineExceeded.Error(), msg)
}

func TestCloseCancelsInFlightCall(t *testing.T) {
	svc := newManualService()
	s, err := storeuc.New(svc)
	require.NoError(t, err)
	sub := s.Subscribe()
	recv(t, sub)

	s.AddCar("A")
	s.AddCar("B")
	recv(t, sub)
	c := svc.next(t)
	s.Close()
	assert.ErrorIs(t, c.ctx.Err(), context.Canceled)

	_, ok := <-sub.C
	assert.False(t, ok, "subscription must be closed by the store")
	assert.True(t, s.Loading(), "outcome of a canceled call is ignored")

	s.AddCar("C") // no-op
	svc.assertIdle(t)
	waitIdle(t, s)

	late := s.Subscribe()
	vm, ok := <-late.C
	assert.True(t, ok)
	assert.True(t, vm.Loading)
	_, ok = <-late.C
	assert.False(t, ok)
	late.Close()
	sub.Close()
	s.Close() // idempotent
}

func TestClosedSubscriptionDoesNotBlockStore(t *testing.T) {
	svc := serviceFunc(func(_ context.Context, plate string) (*model.Car, error) {
		return newCar(plate), nil
	})
	s := newStore(t, svc, storeuc.WithSubscriptionBuffer(1))
	stale := s.Subscribe() // its buffer is full with initial view-model
	stale.Close()
	stale.Close()

	for _, p := range []string{"A", "B", "C"} {
		s.AddCar(p)
	}
	waitIdle(t, s)
	assert.Len(t, s.Cars(), 3)
	assert.Len(t, stale.C, 1)
}

func TestWaitHonorsContext(t *testing.T) {
	svc := newManualService()
	s := newStore(t, svc)
	s.AddCar("A")
	svc.next(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)
}

func TestNewValidation(t *testing.T) {
	_, err := storeuc.New(nil)
	assert.Error(t, err)

	_, err = storeuc.New(echoService(), storeuc.WithSubscriptionBuffer(0))
	assert.ErrorContains(t, err, "not positive")

	_, err = storeuc.New(
		echoService(),
		storeuc.WithCallTimeout(time.Second),
		storeuc.WithCallTimeout(time.Second),
	)
	assert.ErrorContains(t, err, "already configured")

	_, err = storeuc.New(echoService(), storeuc.WithCallTimeout(-time.Second))
	assert.ErrorContains(t, err, "not positive")
}
