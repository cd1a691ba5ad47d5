// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/parkinglot/pkg/adapter/db/postgres"
	"github.com/momeni/parkinglot/pkg/core/cerr"
	"github.com/momeni/parkinglot/pkg/core/model"
	"gorm.io/gorm/clause"
)

// gCar is the GORM model of the cars table. The seq column is filled
// by a sequence and keeps the insertion order of cars.
type gCar struct {
	CID      uuid.UUID `gorm:"primaryKey;type:uuid;column:cid"`
	Plate    string    `gorm:"uniqueIndex"`
	ParkedAt time.Time
	Seq      int64 `gorm:"->;column:seq"`
}

func (gc *gCar) TableName() string {
	return "cars"
}

func (gc *gCar) Model() *model.Car {
	return &model.Car{
		ID:       gc.CID,
		Plate:    gc.Plate,
		ParkedAt: gc.ParkedAt.UTC(),
	}
}

// Add inserts car into the cars table and returns it as stored.
// A duplicate plate results in a conflict error wrapping the
// model.ErrPlateAlreadyParked error.
func Add[Q postgres.Queryer](ctx context.Context, q Q, car *model.Car) (*model.Car, error) {
	gc := gCar{
		CID:      car.ID,
		Plate:    car.Plate,
		ParkedAt: car.ParkedAt,
	}
	res := q.GORM(ctx).Clauses(clause.Returning{}).Create(&gc)
	if err := res.Error; err != nil {
		if postgres.HasCode(err, postgres.UniqueViolation) {
			return nil, cerr.Conflict(model.ErrPlateAlreadyParked)
		}
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := res.RowsAffected; n != 1 {
		return nil, fmt.Errorf("expected one row, but got %d", n)
	}
	return gc.Model(), nil
}

// List returns all cars in their insertion order.
func List[Q postgres.Queryer](ctx context.Context, q Q) ([]model.Car, error) {
	var gcs []gCar
	res := q.GORM(ctx).Order("seq").Find(&gcs)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	cars := make([]model.Car, 0, len(gcs))
	for i := range gcs {
		cars = append(cars, *gcs[i].Model())
	}
	return cars, nil
}

// Exists reports whether a row with the given plate is present.
func Exists[Q postgres.Queryer](ctx context.Context, q Q, plate string) (bool, error) {
	var n int64
	res := q.GORM(ctx).Model(&gCar{}).Where("plate = ?", plate).Limit(1).Count(&n)
	if err := res.Error; err != nil {
		return false, fmt.Errorf("query: %w", err)
	}
	return n > 0, nil
}

// addLockKey identifies the transaction-level advisory lock which
// serializes the cars insertions. Advisory locks need no privilege
// on the cars table, so the normal role may take them.
const addLockKey int64 = 0x7061726b696e67 // "parking"

// Lock takes the add-car advisory lock. It is released automatically
// when the tx transaction is committed or rolled back.
func Lock(ctx context.Context, tx *postgres.Tx) error {
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(?)", addLockKey); err != nil {
		return fmt.Errorf("pg_advisory_xact_lock: %w", err)
	}
	return nil
}

// Count returns the number of rows in the cars table.
func Count[Q postgres.Queryer](ctx context.Context, q Q) (int64, error) {
	var n int64
	res := q.GORM(ctx).Model(&gCar{}).Count(&n)
	if err := res.Error; err != nil {
		return 0, fmt.Errorf("query: %w", err)
	}
	return n, nil
}
