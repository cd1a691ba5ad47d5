// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/parkinglot/pkg/core/model"
)

// CarsConnQueryer contains the cars queries which may be executed
// on a database connection.
type CarsConnQueryer interface {
	CarsQueryer
}

// CarsTxQueryer contains the cars queries which may be executed
// within a database transaction.
type CarsTxQueryer interface {
	CarsQueryer

	// Lock blocks until other transactions which have called Lock are
	// finished and keeps them waiting until this one finishes. So a
	// capacity check remains valid until the new car is committed.
	Lock(ctx context.Context) error
}

// CarsQueryer contains the cars queries which are supported both on
// connections and transactions.
type CarsQueryer interface {
	// Add inserts the given car and returns it as stored. If another
	// car with the same plate exists, a cerr.Conflict error wrapping
	// model.ErrPlateAlreadyParked must be returned.
	Add(ctx context.Context, car *model.Car) (*model.Car, error)

	// List returns all cars in their insertion order.
	List(ctx context.Context) ([]model.Car, error)

	// Exists reports whether a car with the given plate is parked.
	Exists(ctx context.Context, plate string) (bool, error)

	// Count returns the number of parked cars.
	Count(ctx context.Context) (int64, error)
}

// Cars is the cars repository. It adapts a Conn or Tx, as created by
// the same adapter which created the Pool, into cars queryers.
type Cars interface {
	Conn(Conn) CarsConnQueryer
	Tx(Tx) CarsTxQueryer
}
