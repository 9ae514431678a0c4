// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package transport

import (
	"encoding/json"
	"log"
	"net"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/jrjparks/opnfi-device/device"
)

// Fleet is the subset of device.Fleet the debug server needs, kept as
// an interface so the server can be exercised against a fake registry
// in tests.
type Fleet interface {
	Snapshot() map[string]*device.Device
	Get(mac [6]byte) (*device.Device, bool)
}

// DebugServer exposes read-only introspection routes over a Fleet:
// the list of registered devices and each one's adoption summary.
// It is a developer aid, never reachable by the controller itself.
type DebugServer struct {
	fleet Fleet
}

// NewDebugServer returns a DebugServer backed by fleet.
func NewDebugServer(fleet Fleet) *DebugServer {
	return &DebugServer{fleet: fleet}
}

// Handler builds the httprouter-backed http.Handler for this server.
func (s *DebugServer) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/devices", s.handleListDevices)
	router.GET("/devices/:mac", s.handleGetDevice)
	return router
}

func (s *DebugServer) handleListDevices(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	snapshot := s.fleet.Snapshot()
	summaries := make([]device.Summary, 0, len(snapshot))
	for _, dev := range snapshot {
		summaries = append(summaries, dev.Summarize())
	}

	jsonResponse(w, summaries)
}

func (s *DebugServer) handleGetDevice(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	mac, ok := parseMAC(ps.ByName("mac"))
	if !ok {
		jsonErrorResponse(w, ErrBadRequest)
		return
	}

	dev, ok := s.fleet.Get(mac)
	if !ok {
		jsonErrorResponse(w, ErrDeviceNotFound)
		return
	}

	jsonResponse(w, dev.Summarize())
}

func parseMAC(s string) (mac [6]byte, ok bool) {
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return mac, false
	}
	copy(mac[:], hw)
	return mac, true
}

func jsonResponse(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("error: transport: debug response encode failed: %s", err)
	}
}

func jsonErrorResponse(w http.ResponseWriter, err DebugError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(err.StatusCode())
	if encErr := json.NewEncoder(w).Encode(err); encErr != nil {
		log.Printf("error: transport: debug error encode failed: %s", encErr)
	}
}
