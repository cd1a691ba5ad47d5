// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package metrics is an adapter which counts the parking lot REST
// requests using the Prometheus client library. Collectors are kept
// in a dedicated registry (instead of the global one), so multiple
// servers may be instantiated in one process, e.g., by the tests.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// These constants are the values of the outcome label of the
// parking_cars_added_total counter.
const (
	OutcomeAdded    = "added"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeFailed   = "failed"
)

// Metrics holds the parking lot collectors and their registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	carsAdded  *prometheus.CounterVec
	carsListed prometheus.Counter
}

// New instantiates a Metrics with a fresh registry. The Go runtime
// and process collectors are registered too.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		carsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parking",
			Name:      "cars_added_total",
			Help:      "Number of add car requests by their outcome.",
		}, []string{"outcome"}),
		carsListed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parking",
			Name:      "cars_listed_total",
			Help:      "Number of successful list cars requests.",
		}),
	}
	m.registry.MustRegister(
		m.carsAdded,
		m.carsListed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// CarAdded increments the added cars counter for the given outcome.
func (m *Metrics) CarAdded(outcome string) {
	if m == nil {
		return
	}
	m.carsAdded.WithLabelValues(outcome).Inc()
}

// CarsListed increments the listed cars counter.
func (m *Metrics) CarsListed() {
	if m == nil {
		return
	}
	m.carsListed.Inc()
}

// Handler returns an http.Handler which exposes the registered
// collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry: m.registry,
	})
}

// Registry returns the underlying registry, e.g., for gathering the
// collected values in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
