// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrp provides a reification of the repo.Cars interface
// over the PostgreSQL adapter. Queries are implemented as generic
// functions, so they may run on a connection or in a transaction.
package carsrp

import (
	"context"

	"github.com/momeni/parkinglot/pkg/adapter/db/postgres"
	"github.com/momeni/parkinglot/pkg/core/model"
	"github.com/momeni/parkinglot/pkg/core/repo"
)

// Repo represents the cars repository.
type Repo struct {
}

// New instantiates a cars Repo.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by the postgres adapter.
// Otherwise, it will panic.
func (cars *Repo) Conn(c repo.Conn) repo.CarsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Add(ctx context.Context, car *model.Car) (*model.Car, error) {
	return Add(ctx, cq.Conn, car)
}

func (cq connQueryer) List(ctx context.Context) ([]model.Car, error) {
	return List(ctx, cq.Conn)
}

func (cq connQueryer) Exists(ctx context.Context, plate string) (bool, error) {
	return Exists(ctx, cq.Conn, plate)
}

func (cq connQueryer) Count(ctx context.Context) (int64, error) {
	return Count(ctx, cq.Conn)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx unwraps the given repo.Tx instance, expecting to find an instance
// of *postgres.Tx as created by the postgres adapter.
// Otherwise, it will panic.
func (cars *Repo) Tx(tx repo.Tx) repo.CarsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Add(ctx context.Context, car *model.Car) (*model.Car, error) {
	return Add(ctx, tq.Tx, car)
}

func (tq txQueryer) List(ctx context.Context) ([]model.Car, error) {
	return List(ctx, tq.Tx)
}

func (tq txQueryer) Exists(ctx context.Context, plate string) (bool, error) {
	return Exists(ctx, tq.Tx, plate)
}

func (tq txQueryer) Lock(ctx context.Context) error {
	return Lock(ctx, tq.Tx)
}

func (tq txQueryer) Count(ctx context.Context) (int64, error) {
	return Count(ctx, tq.Tx)
}
