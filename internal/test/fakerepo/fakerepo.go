// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fakerepo is an internal helper for the test packages.
// It provides in-memory implementations of the repo.Pool, repo.Conn,
// repo.Tx, and repo.Cars interfaces, so use cases and REST resources
// may be tested without a PostgreSQL DBMS server.
// Transactions are serialized by a mutex and rolled back by restoring
// a snapshot of the cars list.
package fakerepo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/momeni/parkinglot/pkg/core/cerr"
	"github.com/momeni/parkinglot/pkg/core/model"
	"github.com/momeni/parkinglot/pkg/core/repo"
)

// ErrRawSQL is returned by Exec and Query since no SQL engine exists.
var ErrRawSQL = errors.New("raw SQL is not supported by fakerepo")

// DB is an in-memory database holding the cars list.
// It implements the repo.Pool interface.
type DB struct {
	mutex sync.Mutex
	cars  []model.Car

	// FailWith, when non-nil, is returned by all cars queries.
	FailWith error

	// Locks counts the Lock calls of transactions.
	Locks int
}

// New instantiates an empty DB.
func New() *DB {
	return &DB{}
}

// Cars returns a copy of the stored cars.
func (db *DB) Cars() []model.Car {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return slices.Clone(db.cars)
}

// Conn runs handler with a connection to db. Connections are
// serialized, so each handler observes a consistent snapshot.
func (db *DB) Conn(ctx context.Context, handler repo.ConnHandler) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return handler(ctx, &conn{db: db})
}

// Close implements repo.Pool.
func (db *DB) Close() error {
	return nil
}

type conn struct {
	db *DB
}

func (c *conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, ErrRawSQL
}

func (c *conn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, ErrRawSQL
}

func (c *conn) IsConn() {
}

func (c *conn) Tx(ctx context.Context, handler repo.TxHandler) error {
	backup := slices.Clone(c.db.cars)
	if err := handler(ctx, &tx{db: c.db}); err != nil {
		c.db.cars = backup
		return fmt.Errorf("handler: %w", err)
	}
	return nil
}

type tx struct {
	db *DB
}

func (t *tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, ErrRawSQL
}

func (t *tx) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, ErrRawSQL
}

func (t *tx) IsTx() {
}

// Repo adapts connections and transactions of a DB as repo.Cars.
type Repo struct{}

// Conn implements repo.Cars.
func (Repo) Conn(c repo.Conn) repo.CarsConnQueryer {
	return queryer{db: c.(*conn).db}
}

// Tx implements repo.Cars.
func (Repo) Tx(t repo.Tx) repo.CarsTxQueryer {
	return txQueryer{queryer{db: t.(*tx).db}}
}

// queryer runs the cars queries while the db mutex is held by Conn.
type queryer struct {
	db *DB
}

type txQueryer struct {
	queryer
}

// Lock records the call. Transactions of DB are already serialized
// because Conn holds the DB mutex until its handler returns.
func (q txQueryer) Lock(context.Context) error {
	if err := q.db.FailWith; err != nil {
		return err
	}
	q.db.Locks++
	return nil
}

func (q queryer) Exists(_ context.Context, plate string) (bool, error) {
	if err := q.db.FailWith; err != nil {
		return false, err
	}
	for _, c := range q.db.cars {
		if c.Plate == plate {
			return true, nil
		}
	}
	return false, nil
}

func (q queryer) Add(_ context.Context, car *model.Car) (*model.Car, error) {
	if err := q.db.FailWith; err != nil {
		return nil, err
	}
	for _, c := range q.db.cars {
		if c.Plate == car.Plate {
			return nil, cerr.Conflict(model.ErrPlateAlreadyParked)
		}
	}
	q.db.cars = append(q.db.cars, *car)
	c := *car
	return &c, nil
}

func (q queryer) List(context.Context) ([]model.Car, error) {
	if err := q.db.FailWith; err != nil {
		return nil, err
	}
	return slices.Clone(q.db.cars), nil
}

func (q queryer) Count(context.Context) (int64, error) {
	if err := q.db.FailWith; err != nil {
		return 0, err
	}
	return int64(len(q.db.cars)), nil
}
