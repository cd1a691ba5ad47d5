// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrs

import (
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/momeni/parkinglot/pkg/adapter/restful/gin/serdser"
)

// addCarReq is accepted as a form or JSON body. Plates are normalized
// and validated thoroughly by the cars use case, so only the obviously
// wrong values are rejected here.
type addCarReq struct {
	Plate string `form:"plate" json:"plate" binding:"required,max=32"`
}

func (rs *resource) DserAddCarReq(c *gin.Context) *addCarReq {
	req := &addCarReq{}
	if ok := serdser.Bind(c, req); !ok {
		return nil
	}
	var errs map[string][]string
	if serdser.Assert(&errs, utf8.ValidString(req.Plate), "plate", "Plate is not valid UTF-8.") {
		serdser.Assert(
			&errs, !strings.ContainsFunc(req.Plate, unicode.IsControl),
			"plate", "Plate must not contain control characters.",
		)
	}
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return req
}
