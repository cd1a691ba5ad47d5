// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo specifies the repository interfaces which are consumed
// by the use cases layer and reified by the database adapters. Use
// cases acquire a Conn from a Pool (and possibly a Tx from that Conn)
// and pass it to a repository, such as Cars, in order to obtain a
// queryer which runs the relevant statements on that Conn or Tx.
package repo

import "context"

// ConnHandler is a function which uses the given Conn while it is
// acquired. The Conn must not be used after the handler returns.
type ConnHandler func(context.Context, Conn) error

// Pool represents a database connection pool.
type Pool interface {
	// Conn acquires a connection, passes it to handler, and releases
	// it after handler returns. The handler error is returned.
	Conn(ctx context.Context, handler ConnHandler) error

	// Close releases all connections of the pool.
	Close() error
}
