// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package storeuc contains the parking Store use case which is the
// single source of truth for the list of parked cars and the status of
// the most recent add-car request. The Store exposes read-only derived
// views (as snapshots and as a push-based view-model stream) and one
// fire-and-forget command, AddCar, which is executed by a dedicated
// worker go routine. Queued commands are processed one at a time, so
// the loading and error states never reflect two overlapping requests.
//
// The Store does not know how a car is actually added. It depends on
// the Service interface which may be reified by a REST client (see
// pkg/adapter/restful/client/carscl) or by the cars use case itself.
package storeuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/momeni/parkinglot/pkg/core/cerr"
	"github.com/momeni/parkinglot/pkg/core/log"
	"github.com/momeni/parkinglot/pkg/core/model"
)

// DefaultSubscriptionBuffer is the capacity of subscription channels
// when the WithSubscriptionBuffer option is not used.
const DefaultSubscriptionBuffer = 16

// ErrNoCar indicates that a Service reported neither a car nor an
// error for an add-car request.
var ErrNoCar = errors.New("service returned no car")

// Service represents the external add-car service. Each call of Add
// must yield either a car or an error. The Store treats a nil car
// with a nil error (and also a panic) as a failed request.
type Service interface {
	Add(ctx context.Context, plate string) (*model.Car, error)
}

// Store represents the parking state container. It must be created by
// the New function and released by its Close method. All methods are
// safe for concurrent use.
type Store struct {
	svc         Service
	callTimeout time.Duration
	subBuffer   int

	ctx     context.Context // canceled by Close
	cancel  context.CancelFunc
	wake    chan struct{} // signals the worker about queued plates
	stopped chan struct{} // closed when the worker returns

	// mutex protects the following fields. The state is only mutated by
	// the worker go routine, while other go routines may read it.
	mutex   sync.Mutex
	state   model.ParkingState
	last    model.ViewModel // the most recently published view-model
	pending []string        // queued plates in FIFO order
	busy    bool            // true while pending is non-empty or a call is in flight
	idle    chan struct{}   // closed whenever busy is false
	subs    map[*Subscription]struct{}
	closed  bool
}

// New instantiates a Store with the initial state (no cars and the
// Init call state) and starts its worker go routine.
// The svc is mandatory, while optional parameters are passed as a
// series of functional options.
func New(svc Service, opts ...Option) (*Store, error) {
	if svc == nil {
		return nil, errors.New("service is nil")
	}
	s := &Store{svc: svc}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if s.subBuffer == 0 {
		s.subBuffer = DefaultSubscriptionBuffer
	}
	s.state = model.NewParkingState()
	s.last = s.state.ViewModel()
	s.idle = make(chan struct{})
	close(s.idle)
	s.subs = make(map[*Subscription]struct{})
	s.wake = make(chan struct{}, 1)
	s.stopped = make(chan struct{})
	s.ctx, s.cancel = context.WithCancel(context.Background())
	go s.run()
	return s, nil
}

// AddCar enqueues the plate in order to be added by the Service.
// It returns immediately. The outcome is only observable through the
// store state: loading is set when the request begins, and then either
// the returned car is appended or the error message is recorded.
// No validation is performed on the plate. Calling AddCar after Close
// has no effect.
func (s *Store) AddCar(plate string) {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		log.Warn(s.ctx, "ignoring add-car on a closed store", log.Plate(plate))
		return
	}
	s.pending = append(s.pending, plate)
	if !s.busy {
		s.busy = true
		s.idle = make(chan struct{})
	}
	queued := len(s.pending)
	s.mutex.Unlock()
	select {
	case s.wake <- struct{}{}:
	default: // the worker is already signaled
	}
	log.Debug(
		s.ctx, "add-car is queued",
		log.Plate(plate), slog.Int("queued", queued),
	)
}

// Cars returns a copy of the current cars list in insertion order.
func (s *Store) Cars() []model.Car {
	return s.State().Cars
}

// Loading reports whether an add-car request is in flight.
func (s *Store) Loading() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state.CallState.IsLoading()
}

// ErrorMessage returns the message of the failed add-car request and
// true if the store holds an error. Otherwise, it returns false.
func (s *Store) ErrorMessage() (string, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state.CallState.Message()
}

// State returns a copy of the current state.
func (s *Store) State() model.ParkingState {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state.Clone()
}

// ViewModel returns the current view-model.
func (s *Store) ViewModel() model.ViewModel {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state.ViewModel()
}

// Subscribe registers a new observer of the view-model stream.
// The current view-model is available on the returned C channel
// immediately. If the store is already closed, C receives the final
// view-model and is closed.
func (s *Store) Subscribe() *Subscription {
	ch := make(chan model.ViewModel, s.subBuffer)
	sub := &Subscription{
		C:     ch,
		ch:    ch,
		store: s,
		done:  make(chan struct{}),
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	ch <- s.last.Clone() // never blocks as ch is fresh and buffered
	if s.closed {
		close(ch)
		return sub
	}
	s.subs[sub] = struct{}{}
	return sub
}

func (s *Store) unsubscribe(sub *Subscription) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.subs, sub)
}

// Wait blocks until all queued add-car requests are processed and their
// resulting view-models are handed to the subscribers, or until ctx is
// done. In the latter case, ctx.Err() is returned.
func (s *Store) Wait(ctx context.Context) error {
	s.mutex.Lock()
	idle := s.idle
	s.mutex.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the worker go routine, cancels the in-flight request (if
// any) ignoring its outcome, drops the queued plates, and closes the
// channels of all subscriptions. It is safe to call Close more than
// once.
func (s *Store) Close() {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		<-s.stopped
		return
	}
	s.closed = true
	dropped := len(s.pending)
	s.pending = nil
	s.mutex.Unlock()

	s.cancel()
	<-s.stopped

	s.mutex.Lock()
	subs := s.subs
	s.subs = nil
	if s.busy {
		s.busy = false
		close(s.idle)
	}
	s.mutex.Unlock()
	for sub := range subs {
		close(sub.ch)
	}
	log.Debug(
		context.Background(), "store is closed",
		slog.Int("dropped", dropped),
		slog.Int("subscribers", len(subs)),
	)
}

func (s *Store) run() {
	defer close(s.stopped)
	for {
		plate, ok := s.next()
		if !ok {
			return
		}
		s.process(plate)
	}
}

// next pops the oldest queued plate, waiting for one if the queue is
// empty. It returns false when the store is closed.
func (s *Store) next() (string, bool) {
	for {
		s.mutex.Lock()
		if s.closed {
			s.mutex.Unlock()
			return "", false
		}
		if len(s.pending) > 0 {
			plate := s.pending[0]
			s.pending = s.pending[1:]
			s.mutex.Unlock()
			return plate, true
		}
		if s.busy {
			s.busy = false
			close(s.idle)
		}
		s.mutex.Unlock()
		select {
		case <-s.wake:
		case <-s.ctx.Done():
			return "", false
		}
	}
}

// process runs one add-car pipeline: loading, the service call, and
// then either the success or the failure update.
func (s *Store) process(plate string) {
	s.update(func(st *model.ParkingState) {
		st.CallState = model.Loading()
	})
	car, err := s.call(plate)
	if s.ctx.Err() != nil {
		log.Warn(
			context.Background(), "store closed during add-car",
			log.Plate(plate), log.Err("err", err),
		)
		return
	}
	if err != nil {
		msg := cerr.Message(err)
		log.Warn(
			s.ctx, "add-car failed",
			log.Plate(plate), log.Err("err", err),
		)
		s.update(func(st *model.ParkingState) {
			st.CallState = model.Failed(msg)
		})
		return
	}
	s.update(func(st *model.ParkingState) {
		st.CallState = model.Resting()
		st.Cars = append(st.Cars, *car)
	})
	log.Info(s.ctx, "car is added", log.Valuer("car", *car))
}

// call invokes the service, translating a panic or a missing car into
// an error, so exactly one outcome is reported.
func (s *Store) call(plate string) (car *model.Car, err error) {
	ctx := s.ctx
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			car, err = nil, fmt.Errorf("service panicked: %v", r)
		}
	}()
	car, err = s.svc.Add(ctx, plate)
	switch {
	case err != nil:
		return nil, err
	case car == nil:
		return nil, ErrNoCar
	}
	return car, nil
}

// update applies f to the state and publishes the resulting view-model
// to all subscribers if it differs from the last published one.
// It must only be called by the worker go routine, so view-models are
// published in the same order as state changes.
func (s *Store) update(f func(st *model.ParkingState)) {
	s.mutex.Lock()
	f(&s.state)
	vm := s.state.ViewModel()
	if vm.Equal(s.last) {
		s.mutex.Unlock()
		return
	}
	s.last = vm
	subs := make([]*Subscription, 0, len(s.subs))
	for sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mutex.Unlock()
	stop := s.ctx.Done()
	for _, sub := range subs {
		sub.deliver(vm.Clone(), stop)
	}
}
