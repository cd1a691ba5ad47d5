// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxPlateLen is the maximum number of runes which a normalized plate
// may contain.
const MaxPlateLen = 16

// These errors describe rejected add-car requests. They carry no
// parameters because the caller already knows the plate it passed.
var (
	// ErrEmptyPlate indicates that a plate was empty after being
	// normalized.
	ErrEmptyPlate = errors.New("plate is empty")

	// ErrPlateAlreadyParked indicates that a car with the same plate
	// is already present in the parking lot.
	ErrPlateAlreadyParked = errors.New("plate already parked")

	// ErrLotFull indicates that the parking lot capacity is reached.
	ErrLotFull = errors.New("parking lot is full")
)

// PlateLengthError indicates that a normalized plate has more runes
// than MaxPlateLen. The error value is the observed length.
type PlateLengthError int

// Error implements the error interface.
func (e PlateLengthError) Error() string {
	return fmt.Sprintf(
		"plate has %d characters, at most %d are allowed",
		int(e), MaxPlateLen,
	)
}

// NormalizePlate trims the surrounding spaces of the p plate, removes
// its inner spaces, and converts it to upper case. So "ab 123" and
// " AB123" are normalized to the same "AB123" plate.
func NormalizePlate(p string) string {
	return strings.ToUpper(strings.Join(strings.Fields(p), ""))
}

// ValidatePlate returns nil if the p plate (which should be normalized
// beforehand) is acceptable. Otherwise, ErrEmptyPlate or an instance
// of PlateLengthError will be returned.
func ValidatePlate(p string) error {
	n := utf8.RuneCountInString(p)
	switch {
	case n == 0:
		return ErrEmptyPlate
	case n > MaxPlateLen:
		return PlateLengthError(n)
	}
	return nil
}
