// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/parkinglot/pkg/adapter/config/settings"
	"github.com/momeni/parkinglot/pkg/core/log"
	"github.com/momeni/parkinglot/pkg/core/repo"
	"github.com/momeni/parkinglot/pkg/core/usecase/carsuc"
	"github.com/momeni/parkinglot/pkg/core/usecase/storeuc"
)

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Cars  Cars  // cars use cases related settings
	Store Store // client-side state store settings
}

// ValidateAndNormalize validates the use cases settings. Values which
// are out of their configured ranges are clamped (and a warning is
// logged), while an invalid range results in an error.
func (u *Usecases) ValidateAndNormalize() error {
	c := &u.Cars
	if err := settings.VerifyRange(
		&c.Capacity, c.MinCapacity, c.MaxCapacity,
	); err != nil {
		if err.InvalidRange {
			return fmt.Errorf(
				"VerifyRange(capacity, minb=%v, maxb=%v): %w",
				optString(c.MinCapacity), optString(c.MaxCapacity), err,
			)
		}
		log.Warn(
			context.Background(), "capacity is clamped",
			log.Err("err", err),
			slog.Int("capacity", *err.Value),
			slog.Int("clamped", *c.Capacity),
		)
	}
	if c.Capacity != nil && *c.Capacity <= 0 {
		return fmt.Errorf("capacity (%d) is not positive", *c.Capacity)
	}
	s := &u.Store
	if s.CallTimeout != nil && *s.CallTimeout <= 0 {
		return errors.New("call-timeout is not positive")
	}
	if s.SubscriptionBuffer == nil {
		b := storeuc.DefaultSubscriptionBuffer
		s.SubscriptionBuffer = &b
	}
	if *s.SubscriptionBuffer <= 0 {
		return fmt.Errorf(
			"subscription-buffer (%d) is not positive",
			*s.SubscriptionBuffer,
		)
	}
	return nil
}

func optString[T any](p *T) string {
	if p == nil {
		return "none"
	}
	return fmt.Sprint(*p)
}

// Cars contains the configuration settings for the cars use cases.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized.
type Cars struct {
	// Capacity indicates the maximum number of parked cars.
	// A nil value indicates that the parking lot is unlimited.
	Capacity *int `yaml:"capacity,omitempty"`
	// MinCapacity is the inclusive minimum acceptable value
	// for the Capacity setting.
	// A missing value indicates that there is no lower bound.
	MinCapacity *int `yaml:"capacity-minimum,omitempty"`
	// MaxCapacity is the inclusive maximum acceptable value
	// for the Capacity setting.
	// A missing value indicates that there is no upper bound.
	MaxCapacity *int `yaml:"capacity-maximum,omitempty"`
}

// NewUseCase instantiates a new cars use case based on the settings
// in the `c` struct.
func (c Cars) NewUseCase(
	p repo.Pool, r repo.Cars,
) (*carsuc.UseCase, error) {
	opts := make([]carsuc.Option, 0, 1)
	if c.Capacity != nil {
		opts = append(opts, carsuc.WithCapacity(*c.Capacity))
	}
	return carsuc.New(p, r, opts...)
}

// Store contains the configuration settings for the state store
// which is used by the add command.
type Store struct {
	// CallTimeout bounds each add car call. A nil value indicates
	// that calls are not bounded, so a hung call keeps the store in
	// its loading state.
	CallTimeout *settings.Duration `yaml:"call-timeout,omitempty"`

	// SubscriptionBuffer is the capacity of each view model channel.
	SubscriptionBuffer *int `yaml:"subscription-buffer,omitempty"`
}

// NewStore instantiates a state store which uses svc for adding cars,
// based on the settings in the `s` struct.
func (s Store) NewStore(svc storeuc.Service) (*storeuc.Store, error) {
	opts := make([]storeuc.Option, 0, 2)
	if s.CallTimeout != nil {
		d := time.Duration(*s.CallTimeout)
		opts = append(opts, storeuc.WithCallTimeout(d))
	}
	if s.SubscriptionBuffer != nil {
		opts = append(
			opts, storeuc.WithSubscriptionBuffer(*s.SubscriptionBuffer),
		)
	}
	return storeuc.New(svc, opts...)
}
