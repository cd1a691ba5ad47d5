// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carscl is a REST client for the parking lot cars resource.
// Its Client implements the storeuc.Service interface, so a state
// store may add cars through a remote parkd server.
//
// Error responses are converted to *cerr.Error values carrying the
// response status code and the server-provided message, so callers
// may handle remote and local use case errors uniformly.
package carscl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/parkinglot/pkg/core/cerr"
	"github.com/momeni/parkinglot/pkg/core/model"
)

// CarsPath is the path of the cars resource relative to the API URL.
const CarsPath = "/api/parking/v1/cars"

// maxBodySize limits the size of response bodies which are read.
const maxBodySize = 1 << 20

// Client is a REST client for the cars resource. It is safe for
// concurrent use.
type Client struct {
	carsURL string
	hc      *http.Client
	timeout time.Duration
}

// New instantiates a Client for the parkd server which is reachable at
// the apiURL base URL (e.g., http://127.0.0.1:8080).
func New(apiURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("parsing API URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported API URL scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("API URL has no host")
	}
	u = u.JoinPath(CarsPath)
	cl := &Client{carsURL: u.String()}
	for _, opt := range opts {
		if err := opt(cl); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if cl.hc == nil {
		cl.hc = &http.Client{Timeout: cl.timeout}
	}
	return cl, nil
}

// Add asks the server to park a car with the given plate and returns
// the stored car.
func (cl *Client) Add(ctx context.Context, plate string) (*model.Car, error) {
	form := url.Values{"plate": {plate}}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, cl.carsURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	car := &model.Car{}
	if err := cl.do(req, http.StatusCreated, car); err != nil {
		return nil, err
	}
	return car, nil
}

// List returns the parked cars in their arrival order.
func (cl *Client) List(ctx context.Context) ([]model.Car, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, cl.carsURL, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	var cars []model.Car
	if err := cl.do(req, http.StatusOK, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

func (cl *Client) do(req *http.Request, want int, res any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := cl.hc.Do(req)
	if err != nil {
		return cerr.Unavailable(fmt.Errorf("sending request: %w", err))
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != want {
		return &cerr.Error{
			Err:            errors.New(detail(resp, b)),
			HTTPStatusCode: resp.StatusCode,
		}
	}
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(res); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// detail extracts the error message from an error response body.
// It may be a {"detail": "..."} object or an object mapping field
// names to lists of messages. Otherwise, the status text is used.
func detail(resp *http.Response, b []byte) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err == nil && len(obj) > 0 {
		var d string
		if raw, ok := obj["detail"]; ok && json.Unmarshal(raw, &d) == nil && d != "" {
			return d
		}
		names := make([]string, 0, len(obj))
		for name := range obj {
			names = append(names, name)
		}
		slices.Sort(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			var msgs []string
			if json.Unmarshal(obj[name], &msgs) != nil {
				continue
			}
			parts = append(
				parts, name+": "+strings.Join(msgs, ", "),
			)
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	if t := http.StatusText(resp.StatusCode); t != "" {
		return strings.ToLower(t)
	}
	return fmt.Sprintf("unexpected status code %d", resp.StatusCode)
}
