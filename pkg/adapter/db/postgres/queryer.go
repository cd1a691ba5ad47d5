// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import "github.com/momeni/parkinglot/pkg/core/repo"

// Queryer is a type constraint which is satisfied by *Conn and *Tx.
// Repository packages implement their queries as generic functions
// using this constraint, so one implementation serves both of the
// connection and transaction queryers.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer
	GORMer
}
