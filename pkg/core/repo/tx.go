// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Tx represents a database transaction.
// It is unsafe to be used concurrently. The cars use case counts the
// parked cars and inserts a new car in one Tx, so the lot capacity
// may be enforced. By default, a READ-COMMITTED transaction is expected
// from a PostgreSQL DBMS server, so the capacity check is best-effort
// under concurrent insertions, while duplicate plates are rejected by
// a unique constraint regardless of the isolation level.
type Tx interface {
	Queryer

	// IsTx method prevents a non-Tx object (such as a Conn) to
	// mistakenly implement the Tx interface.
	IsTx()
}
