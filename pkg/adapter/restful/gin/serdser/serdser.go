// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser contains the serialization and deserialization
// helpers which are shared by the REST resources. Field errors are
// reported as a JSON object mapping field names to their messages,
// and other errors are reported as {"detail": "message"} objects
// with the HTTP status code which is carried by a cerr.Error.
package serdser

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/parkinglot/pkg/core/cerr"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(formName)
	}
}

// formName reports the form (or json) name of a struct field, so
// field errors use the same names which clients have sent.
func formName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// Bind deserializes the request body (choosing the binding based on
// its content type) into req and validates it. If it fails, an error
// response is written and false is returned.
func Bind(c *gin.Context, req any) bool {
	var verrs validator.ValidationErrors
	var ierr *validator.InvalidValidationError
	err := c.ShouldBind(req)
	switch {
	case err == nil:
		return true
	case errors.As(err, &ierr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case errors.As(err, &verrs):
		var nameToErrs map[string][]string
		for _, ferr := range verrs {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	if elist, ok := (*errs)[name]; !ok {
		(*errs)[name] = msgs
	} else {
		(*errs)[name] = append(elist, msgs...)
	}
}

func Assert(errs *map[string][]string, ok bool, name string, msgs ...string) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// SerErr writes err as a {"detail": "message"} response. The status
// code is taken from a cerr.Error in the err chain, defaulting to 500.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		c.JSON(ce.HTTPStatusCode, gin.H{
			"detail": ce.Err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"detail": err.Error(),
	})
}
