// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrs realizes the cars resource, allowing the parking lot
// REST APIs to be accepted and delegated to the cars use cases
// respectively.
package carsrs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/parkinglot/pkg/adapter/metrics"
	"github.com/momeni/parkinglot/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/parkinglot/pkg/core/cerr"
	"github.com/momeni/parkinglot/pkg/core/usecase/carsuc"
)

type resource struct {
	cars    *carsuc.UseCase
	metrics *metrics.Metrics
}

// Register instantiates a resource adapting the cars use case instance
// with the relevant REST APIs including:
//  1. POST request to /api/parking/v1/cars
//     in order to park a car by its plate, and
//  2. GET request to /api/parking/v1/cars
//     in order to list the parked cars.
//
// The m metrics may be nil.
func Register(r *gin.RouterGroup, cars *carsuc.UseCase, m *metrics.Metrics) {
	rs := &resource{cars: cars, metrics: m}
	r.POST("cars", rs.AddCar)
	r.GET("cars", rs.ListCars)
}

func (rs *resource) AddCar(c *gin.Context) {
	req := rs.DserAddCarReq(c)
	if req == nil {
		rs.metrics.CarAdded(metrics.OutcomeInvalid)
		return
	}
	car, err := rs.cars.Add(c, req.Plate)
	if err != nil {
		rs.metrics.CarAdded(outcome(err))
		serdser.SerErr(c, err)
		return
	}
	rs.metrics.CarAdded(metrics.OutcomeAdded)
	c.JSON(http.StatusCreated, car)
}

func (rs *resource) ListCars(c *gin.Context) {
	cars, err := rs.cars.List(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	rs.metrics.CarsListed()
	c.JSON(http.StatusOK, cars)
}

func outcome(err error) string {
	var ce *cerr.Error
	if !errors.As(err, &ce) {
		return metrics.OutcomeFailed
	}
	switch ce.HTTPStatusCode {
	case http.StatusBadRequest:
		return metrics.OutcomeInvalid
	case http.StatusConflict:
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeFailed
	}
}
