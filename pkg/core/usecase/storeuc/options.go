// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package storeuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the parking Store.
type Option func(s *Store) error

// WithCallTimeout option bounds each Service.Add call by the given
// timeout. Without this option, a hung service call keeps the store
// in the loading state until the store is closed.
func WithCallTimeout(timeout time.Duration) Option {
	return func(s *Store) error {
		if d := int64(timeout); d <= 0 {
			return fmt.Errorf("timeout (%d) is not positive", d)
		}
		if s.callTimeout != 0 {
			return errors.New("timeout is already configured")
		}
		s.callTimeout = timeout
		return nil
	}
}

// WithSubscriptionBuffer option configures the capacity of channels
// which are created by the Subscribe method. A larger buffer lets slow
// subscribers fall behind further before they block the store worker.
func WithSubscriptionBuffer(n int) Option {
	return func(s *Store) error {
		if n <= 0 {
			return fmt.Errorf("buffer size (%d) is not positive", n)
		}
		if s.subBuffer != 0 {
			return errors.New("buffer size is already configured")
		}
		s.subBuffer = n
		return nil
	}
}
