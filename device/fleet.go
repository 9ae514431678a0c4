// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package device

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
)

// Fleet registers and drives one or more emulated devices concurrently,
// each with its own persisted config path under a shared directory.
type Fleet struct {
	configDir string
	devices   *AtomicMap
}

// NewFleet returns a Fleet that persists each registered device's
// config under its own file beneath configDir.
func NewFleet(configDir string) *Fleet {
	return &Fleet{
		configDir: configDir,
		devices:   NewAtomicMap(),
	}
}

// Register loads (or initializes) a device for mac and adds it to the
// fleet, returning the device so the caller can apply further options.
// Its config is persisted under a file derived from mac, beneath the
// fleet's configDir.
func (f *Fleet) Register(mac [6]byte, opts ...Option) (*Device, error) {
	key := formatMAC(mac)
	path := filepath.Join(f.configDir, fmt.Sprintf("%s.toml", sanitizeMAC(key)))
	return f.RegisterAt(mac, path, opts...)
}

// RegisterAt is like Register but persists the device's config at an
// exact, caller-supplied path rather than one derived from mac. This
// is what a single-device CLI wants: the operator-supplied --config
// path, not a fleet-internal naming convention.
func (f *Fleet) RegisterAt(mac [6]byte, path string, opts ...Option) (*Device, error) {
	dev, err := NewDevice(mac, path, opts...)
	if err != nil {
		return nil, err
	}

	f.devices.Set(formatMAC(mac), dev)
	return dev, nil
}

// Get looks up a registered device by its MAC.
func (f *Fleet) Get(mac [6]byte) (*Device, bool) {
	return f.devices.Get(formatMAC(mac))
}

// Snapshot returns the registered devices keyed by their formatted
// MAC, for read-only introspection (e.g. the debug HTTP surface).
func (f *Fleet) Snapshot() map[string]*Device {
	return f.devices.GetAll()
}

// Len returns the number of registered devices.
func (f *Fleet) Len() int {
	return f.devices.Len()
}

// Run starts every registered device's inform loop and blocks until
// ctx is cancelled and all of them have returned.
func (f *Fleet) Run(ctx context.Context, poster Poster, stats SystemStats) {
	var wg sync.WaitGroup

	for _, dev := range f.devices.GetAll() {
		wg.Add(1)
		go func(d *Device) {
			defer wg.Done()
			d.Run(ctx, poster, stats)
		}(dev)
	}

	wg.Wait()
}

func sanitizeMAC(mac string) string {
	out := make([]byte, 0, len(mac))
	for i := 0; i < len(mac); i++ {
		if mac[i] != ':' {
			out = append(out, mac[i])
		}
	}
	return string(out)
}
