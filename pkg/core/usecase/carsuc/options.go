// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the cars use case.
type Option func(uc *UseCase) error

// WithCapacity option configures a cars UseCase instance in order to
// reject new cars when the given number of cars are already parked.
// Without this option, the parking lot has no capacity limit.
// This option may be passed to the New() function.
func WithCapacity(capacity int) Option {
	return func(uc *UseCase) error {
		if capacity <= 0 {
			return fmt.Errorf("capacity (%d) is not positive", capacity)
		}
		if uc.capacity != 0 {
			return errors.New("capacity is already configured")
		}
		uc.capacity = capacity
		return nil
	}
}

// WithClock option replaces the time.Now function which is used for
// filling the parking time of new cars.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}
