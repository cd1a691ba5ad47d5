// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package lotview is the terminal view layer of the parking lot.
// It renders view models, as published by a state store subscription,
// as a table of cars followed by a loading line or an error banner.
package lotview

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/momeni/parkinglot/pkg/core/model"
)

// These strings are rendered for the loading and empty states.
const (
	LoadingLine = "... adding car"
	EmptyLine   = "(no cars are parked)"
	ErrorPrefix = "!! "
)

// Renderer writes view models into an io.Writer.
// It is not safe for concurrent use.
type Renderer struct {
	w   io.Writer
	loc *time.Location
}

// New instantiates a Renderer which writes into w and shows the
// parking times in the loc time zone. A nil loc means time.Local.
func New(w io.Writer, loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{w: w, loc: loc}
}

// Render writes one view model. Cars are listed in their order with a
// 1-based row number.
func (r *Renderer) Render(vm model.ViewModel) error {
	if err := r.RenderCars(vm.Cars); err != nil {
		return err
	}
	switch {
	case vm.Loading:
		_, err := fmt.Fprintln(r.w, LoadingLine)
		return err
	case vm.HasError():
		_, err := fmt.Fprintln(r.w, ErrorPrefix+vm.Error)
		return err
	}
	return nil
}

// RenderCars writes the cars table alone.
func (r *Renderer) RenderCars(cars []model.Car) error {
	if len(cars) == 0 {
		_, err := fmt.Fprintln(r.w, EmptyLine)
		return err
	}
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLATE\tPARKED AT")
	for i, c := range cars {
		fmt.Fprintf(
			tw, "%d\t%s\t%s\n",
			i+1, c.Plate, c.ParkedAt.In(r.loc).Format(time.DateTime),
		)
	}
	return tw.Flush()
}

// Follow renders every view model which is received from vms until it
// is closed or ctx is done. Each view model is separated by an empty
// line from its predecessor.
func (r *Renderer) Follow(ctx context.Context, vms <-chan model.ViewModel) error {
	first := true
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case vm, ok := <-vms:
			if !ok {
				return nil
			}
			if !first {
				if _, err := fmt.Fprintln(r.w); err != nil {
					return err
				}
			}
			first = false
			if err := r.Render(vm); err != nil {
				return fmt.Errorf("rendering: %w", err)
			}
		}
	}
}
