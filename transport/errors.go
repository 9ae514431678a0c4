// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package transport

import (
	"fmt"
	"net/http"
)

// DebugError is a known debug-API error with an associated status
// code, so handlers can report it as JSON without reaching for raw
// http.Error strings.
type DebugError interface {
	Error() string
	String() string
	StatusCode() int
}

type debugError struct {
	OK     bool   `json:"ok"`
	Status int    `json:"status"`
	Err    string `json:"error"`
}

func newErr(status int, message string) DebugError {
	return &debugError{false, status, message}
}

func (e *debugError) StatusCode() int { return e.Status }
func (e *debugError) Error() string   { return e.Err }
func (e *debugError) String() string  { return fmt.Sprintf("transport: %s", e.Err) }

var (
	// ErrDeviceNotFound is returned when the :mac path parameter
	// doesn't match any registered device.
	ErrDeviceNotFound = newErr(http.StatusNotFound, "device not found")
	// ErrBadRequest is returned for a malformed path parameter.
	ErrBadRequest = newErr(http.StatusBadRequest, "bad request")
)
