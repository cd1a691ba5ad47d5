// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/momeni/parkinglot/pkg/core/cerr"
	"github.com/momeni/parkinglot/pkg/core/model"
	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	assert.Equal(t, "", cerr.Message(nil))
	assert.Equal(t, "boom", cerr.Message(errors.New("boom")))

	err := cerr.Conflict(model.ErrPlateAlreadyParked)
	assert.Equal(t, "[409] plate already parked", err.Error())
	assert.Equal(t, "plate already parked", cerr.Message(err))

	wrapped := fmt.Errorf("adding car: %w", err)
	assert.Equal(t, "plate already parked", cerr.Message(wrapped))
	assert.ErrorIs(t, wrapped, model.ErrPlateAlreadyParked)

	err = cerr.Unavailable(errors.New("sending request: refused"))
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatusCode)
	assert.Equal(t, "sending request: refused", cerr.Message(err))

	err = cerr.BadRequest(model.ErrEmptyPlate)
	assert.Equal(t, "[400] plate is empty", err.Error())
}
