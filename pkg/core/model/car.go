// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by ORM or JSON
// libraries) since adding more tags does not complicate definition of
// a struct, but can prevent unnecessary structs duplication.
package model

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Car models a car which is parked in the parking lot. The Plate is
// provided by users when adding a car, while ID and ParkedAt fields
// are assigned by the server which accepted that car.
// A Car is never mutated after it was appended to a ParkingState.
//
// For the corresponding struct which is stored in the database, see
// the unexported gCar struct in pkg/adapter/db/postgres/carsrp package.
type Car struct {
	ID       uuid.UUID `json:"id"`       // server-assigned identifier
	Plate    string    `json:"plate"`    // license plate of the car
	ParkedAt time.Time `json:"parkedAt"` // when the car was accepted
}

// LogValue implements slog.LogValuer, so a car may be logged as a group
// of its plate and identifier.
func (c Car) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("plate", c.Plate),
		slog.String("id", c.ID.String()),
	)
}
