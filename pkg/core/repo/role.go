// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Role is a string specifying a database connection role. Each role
// has a set of granted privileges which indicates which operations
// may be performed after using it for connecting to a database.
type Role string

// These constants specify the expected database roles. The AdminRole
// must exist beforehand (i.e., must be created manually) having enough
// privileges for creation of the NormalRole and the parking schema.
// The authentication information of these roles are kept in a pass
// file as indicated in the configuration file.
const (
	// AdminRole is used by the "db init" command alone.
	AdminRole Role = "admin"

	// NormalRole is an unprivileged role which is used by the web
	// server for querying and inserting cars.
	NormalRole Role = "parkd"
)
