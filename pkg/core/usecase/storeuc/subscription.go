// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package storeuc

import (
	"sync"

	"github.com/momeni/parkinglot/pkg/core/model"
)

// Subscription is an active observer of the store view-model stream.
// The C channel receives the current view-model right after Subscribe
// and then every distinct view-model in the order of state changes.
// C is closed when the store is closed. After calling Close, no more
// view-models are sent to C (but it is not closed by Close because
// the store worker may be sending on it concurrently).
type Subscription struct {
	C <-chan model.ViewModel

	ch     chan model.ViewModel
	store  *Store
	done   chan struct{}
	closer sync.Once
}

// Close detaches the subscription from its store. It is safe to call
// Close multiple times and concurrently with the store operations.
func (sub *Subscription) Close() {
	sub.closer.Do(func() {
		sub.store.unsubscribe(sub)
		close(sub.done)
	})
}

// deliver sends vm to sub, blocking until it is received, sub is
// closed, or the store is stopped. It returns false if vm was not
// delivered.
func (sub *Subscription) deliver(vm model.ViewModel, stop <-chan struct{}) bool {
	select {
	case sub.ch <- vm:
		return true
	case <-sub.done:
		return false
	case <-stop:
		return false
	}
}
