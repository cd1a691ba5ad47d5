// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/momeni/parkinglot/internal/test/fakerepo"
	"github.com/momeni/parkinglot/pkg/core/cerr"
	"github.com/momeni/parkinglot/pkg/core/model"
	"github.com/momeni/parkinglot/pkg/core/usecase/carsuc"
	"github.com/momeni/parkinglot/pkg/core/usecase/storeuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storeuc.Service = (*carsuc.UseCase)(nil)

var parkedAt = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

func newUseCase(t *testing.T, opts ...carsuc.Option) (*carsuc.UseCase, *fakerepo.DB) {
	t.Helper()
	db := fakerepo.New()
	opts = append(opts, carsuc.WithClock(func() time.Time {
		return parkedAt
	}))
	uc, err := carsuc.New(db, fakerepo.Repo{}, opts...)
	require.NoError(t, err)
	return uc, db
}

func requireStatus(t *testing.T, err error, status int, target error) {
	t.Helper()
	require.Error(t, err)
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, status, ce.HTTPStatusCode)
	if target != nil {
		assert.ErrorIs(t, err, target)
	}
}

func TestAddNormalizesPlate(t *testing.T) {
	uc, db := newUseCase(t)
	ctx := context.Background()

	car, err := uc.Add(ctx, "  ab 123 ")
	require.NoError(t, err)
	assert.Equal(t, "AB123", car.Plate)
	assert.Equal(t, parkedAt, car.ParkedAt)
	assert.NotZero(t, car.ID)
	assert.Equal(t, []model.Car{*car}, db.Cars())
}

func TestAddRejectsInvalidPlates(t *testing.T) {
	uc, db := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Add(ctx, "   ")
	requireStatus(t, err, http.StatusBadRequest, model.ErrEmptyPlate)

	_, err = uc.Add(ctx, "ABCDEFGHIJKLMNOPQ")
	requireStatus(t, err, http.StatusBadRequest, nil)
	var le model.PlateLengthError
	assert.ErrorAs(t, err, &le)

	assert.Empty(t, db.Cars())
}

func TestAddRejectsDuplicatePlate(t *testing.T) {
	uc, db := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Add(ctx, "XY-1")
	require.NoError(t, err)
	_, err = uc.Add(ctx, "xy-1")
	requireStatus(t, err, http.StatusConflict, model.ErrPlateAlreadyParked)
	assert.Equal(t, "plate already parked", cerr.Message(err))
	assert.Len(t, db.Cars(), 1)
}

func TestAddHonorsCapacity(t *testing.T) {
	uc, db := newUseCase(t, carsuc.WithCapacity(2))
	ctx := context.Background()

	for _, p := range []string{"A1", "A2"} {
		_, err := uc.Add(ctx, p)
		require.NoError(t, err)
	}
	_, err := uc.Add(ctx, "A3")
	requireStatus(t, err, http.StatusConflict, model.ErrLotFull)
	assert.Len(t, db.Cars(), 2)
	assert.Equal(t, 3, db.Locks, "each capacity check must hold the lock")
}

func TestAddReportsDuplicateInFullLot(t *testing.T) {
	uc, db := newUseCase(t, carsuc.WithCapacity(1))
	ctx := context.Background()

	_, err := uc.Add(ctx, "A1")
	require.NoError(t, err)
	_, err = uc.Add(ctx, "a1")
	requireStatus(t, err, http.StatusConflict, model.ErrPlateAlreadyParked)
	assert.Equal(t, "plate already parked", cerr.Message(err))

	_, err = uc.Add(ctx, "B1")
	requireStatus(t, err, http.StatusConflict, model.ErrLotFull)
	assert.Len(t, db.Cars(), 1)
}

func TestAddWithoutCapacitySkipsLock(t *testing.T) {
	uc, db := newUseCase(t)
	_, err := uc.Add(context.Background(), "A1")
	require.NoError(t, err)
	assert.Zero(t, db.Locks)
}

func TestAddPropagatesRepoErrors(t *testing.T) {
	uc, db := newUseCase(t, carsuc.WithCapacity(5))
	db.FailWith = errors.New("connection reset")

	car, err := uc.Add(context.Background(), "B1")
	assert.Nil(t, car)
	assert.ErrorContains(t, err, "connection reset")
}

func TestListKeepsInsertionOrder(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	plates := []string{"C3", "A1", "B2"}
	for _, p := range plates {
		_, err := uc.Add(ctx, p)
		require.NoError(t, err)
	}
	list, err = uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(plates))
	for i, p := range plates {
		assert.Equal(t, p, list[i].Plate)
	}
}

func TestNewValidatesOptions(t *testing.T) {
	db := fakerepo.New()
	_, err := carsuc.New(db, fakerepo.Repo{}, carsuc.WithCapacity(0))
	assert.ErrorContains(t, err, "not positive")

	_, err = carsuc.New(
		db, fakerepo.Repo{},
		carsuc.WithCapacity(1), carsuc.WithCapacity(2),
	)
	assert.ErrorContains(t, err, "already configured")

	_, err = carsuc.New(db, fakerepo.Repo{}, carsuc.WithClock(nil))
	assert.ErrorContains(t, err, "clock is nil")
}
