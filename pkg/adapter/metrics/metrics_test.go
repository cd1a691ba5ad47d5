// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/momeni/parkinglot/pkg/adapter/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAreExposed(t *testing.T) {
	m := metrics.New()
	m.CarAdded(metrics.OutcomeAdded)
	m.CarAdded(metrics.OutcomeAdded)
	m.CarAdded(metrics.OutcomeConflict)
	m.CarsListed()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := string(b)
	assert.Contains(t, out, `parking_cars_added_total{outcome="added"} 2`)
	assert.Contains(t, out, `parking_cars_added_total{outcome="conflict"} 1`)
	assert.Contains(t, out, "parking_cars_listed_total 1")
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.CarAdded(metrics.OutcomeFailed)
		m.CarsListed()
	})
}
