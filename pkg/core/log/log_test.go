// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/momeni/parkinglot/pkg/core/log"
	"github.com/momeni/parkinglot/pkg/core/model"
	"github.com/stretchr/testify/assert"
)

func TestSetupLevels(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)
	ctx := context.Background()

	buf := &bytes.Buffer{}
	log.Setup(buf, false)
	log.Debug(ctx, "hidden")
	log.Info(ctx, "car added", log.Plate("AB-123"), log.Err("err", nil))
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=\"car added\"")
	assert.Contains(t, out, "plate=AB-123")
	assert.Contains(t, out, "err=no-error")

	buf.Reset()
	log.Setup(buf, true)
	log.Debug(
		ctx, "visible",
		log.Valuer("car", model.Car{Plate: "ZZ-999"}),
		log.Err("err", errors.New("boom")),
	)
	out = buf.String()
	assert.Contains(t, out, "msg=visible")
	assert.Contains(t, out, "car.plate=ZZ-999")
	assert.Contains(t, out, "err=boom")
	assert.Contains(t, out, "log_test.go")
}
