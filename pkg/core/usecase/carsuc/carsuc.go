// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsuc contains the cars UseCase which supports the
// parking lot related use cases. Currently, two uses cases are
// supported:
//  1. Adding (parking) a car by its license plate,
//  2. Listing the parked cars in their arrival order.
//
// The UseCase implements the Service interface of the storeuc package,
// so a state store may be driven in-process, without a REST client.
package carsuc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/parkinglot/pkg/core/cerr"
	"github.com/momeni/parkinglot/pkg/core/log"
	"github.com/momeni/parkinglot/pkg/core/model"
	"github.com/momeni/parkinglot/pkg/core/repo"
)

// UseCase represents a cars use case. It holds a database connection
// pool, the cars repository instance (to be guided with the DB pool),
// and the cars use case specific settings.
type UseCase struct {
	pool   repo.Pool
	carsrp repo.Cars

	capacity int
	now      func() time.Time
}

// New instantiates a cars use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(p repo.Pool, c repo.Cars, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, carsrp: c}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// Add use case parks a car with the given license plate. The plate is
// normalized and validated before touching the database. If a capacity
// is configured (see WithCapacity), the add-car lock is taken and then
// an already parked plate is rejected before a full lot, both with a
// conflict error. Since the lock is held until the insertion is
// committed, concurrent requests cannot exceed the capacity.
// The stored car model and possible errors are returned.
func (cars *UseCase) Add(ctx context.Context, plate string) (car *model.Car, err error) {
	plate = model.NormalizePlate(plate)
	if err = model.ValidatePlate(plate); err != nil {
		return nil, cerr.BadRequest(err)
	}
	c := &model.Car{
		ID:       uuid.New(),
		Plate:    plate,
		ParkedAt: cars.now().UTC(),
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, conn repo.Conn) error {
		return conn.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := cars.carsrp.Tx(tx)
			if cars.capacity > 0 {
				if err := q.Lock(ctx); err != nil {
					return fmt.Errorf("locking cars: %w", err)
				}
				found, err := q.Exists(ctx, plate)
				if err != nil {
					return fmt.Errorf("looking up plate: %w", err)
				}
				if found {
					return cerr.Conflict(model.ErrPlateAlreadyParked)
				}
				n, err := q.Count(ctx)
				if err != nil {
					return fmt.Errorf("counting cars: %w", err)
				}
				if n >= int64(cars.capacity) {
					return cerr.Conflict(model.ErrLotFull)
				}
			}
			car, err = q.Add(ctx, c)
			return err
		})
	})
	if err != nil {
		log.Info(ctx, "adding car failed", log.Plate(plate), log.Err("err", err))
		return nil, err
	}
	log.Info(ctx, "car added", log.Valuer("car", car))
	return car, nil
}

// List use case returns all parked cars in their arrival order.
func (cars *UseCase) List(ctx context.Context) (list []model.Car, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := cars.carsrp.Conn(c)
		list, err = q.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}
