// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carscl

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Option is a functional option for the cars Client.
type Option func(cl *Client) error

// WithTimeout option bounds each request, including the time which is
// spent for reading its response body. It may not be mixed with the
// WithHTTPClient option.
func WithTimeout(timeout time.Duration) Option {
	return func(cl *Client) error {
		if d := int64(timeout); d <= 0 {
			return fmt.Errorf("timeout (%d) is not positive", d)
		}
		if cl.timeout != 0 || cl.hc != nil {
			return errors.New("timeout is already configured")
		}
		cl.timeout = timeout
		return nil
	}
}

// WithHTTPClient option replaces the default http.Client, e.g., with
// a client which is provided by an httptest.Server.
func WithHTTPClient(hc *http.Client) Option {
	return func(cl *Client) error {
		if hc == nil {
			return errors.New("http client is nil")
		}
		if cl.hc != nil || cl.timeout != 0 {
			return errors.New("http client is already configured")
		}
		cl.hc = hc
		return nil
	}
}
