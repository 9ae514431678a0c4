// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package device implements the adoption state machine and the inform
// loop that drives it: an emulated network device that periodically
// posts an inform frame to a management controller and applies
// whatever command the controller returns.
package device

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"time"

	"github.com/jrjparks/opnfi-device/config"
	"github.com/jrjparks/opnfi-device/inform"
)

const (
	defaultInterval = 10 * time.Second
	tickInterval    = 100 * time.Millisecond
	minResponseLen  = 40
)

// Poster delivers an encoded inform frame to a controller and returns
// its raw response body. It is satisfied by the transport package's
// HTTP client; kept as an interface here so the loop can be driven
// against a fake in tests without importing net/http.
type Poster interface {
	PostInform(ctx context.Context, body []byte) ([]byte, error)
}

// SystemStats reports the metrics an inform payload carries. It is
// satisfied by the metrics package's gopsutil-backed collector.
type SystemStats interface {
	CPUPercent() float64
	MemPercent() float64
	Uptime() int64
}

// Option configures a Device at construction time.
type Option func(*Device)

// WithInitialInterval overrides the default 10 second inform cadence.
func WithInitialInterval(d time.Duration) Option {
	return func(dev *Device) {
		dev.interval = d
	}
}

// WithHostname sets the value reported as the device's hostname in
// outbound gateway reports.
func WithHostname(hostname string) Option {
	return func(dev *Device) {
		dev.hostname = hostname
	}
}

// Device holds the adoption state (an absent-vs-present DeviceConfig)
// for a single emulated network device and the bookkeeping the inform
// loop needs: cadence, last-send time, and the MAC identifying it on
// the wire.
type Device struct {
	mac        [6]byte
	configPath string
	hostname   string

	cfg      *config.DeviceConfig
	interval time.Duration

	lastInform  time.Time
	forceResend bool
}

// NewDevice loads any persisted configuration at configPath — absence
// of the file means the device starts Unadopted — and applies opts.
func NewDevice(mac [6]byte, configPath string, opts ...Option) (*Device, error) {
	dev := &Device{
		mac:        mac,
		configPath: configPath,
		interval:   defaultInterval,
		// A transition always demands an immediate inform, which the
		// zero Time value guarantees on the loop's first tick.
		forceResend: true,
	}

	if cfg, err := config.Load(configPath); err == nil {
		dev.cfg = &cfg
	} else {
		log.Printf("info: no config at %q, entering adoption mode: %s", configPath, err)
	}

	for _, opt := range opts {
		opt(dev)
	}

	return dev, nil
}

// Adopted reports whether the device has a persisted management
// configuration.
func (d *Device) Adopted() bool {
	return d.cfg != nil
}

// MAC returns the device's hardware address.
func (d *Device) MAC() [6]byte {
	return d.mac
}

// Interval returns the device's current inform cadence.
func (d *Device) Interval() time.Duration {
	return d.interval
}

// Key returns the AES key currently in effect: the MASTER key before
// adoption, or the adopted authkey afterward.
func (d *Device) Key() [16]byte {
	return d.key()
}

// Flags returns the inform frame flag bits the device would use for
// its next outbound frame, given its current adoption state.
func (d *Device) Flags() inform.Flags {
	return d.flags()
}

// Summary is a read-only snapshot of a Device's adoption state, for
// introspection surfaces that must not touch the live struct.
type Summary struct {
	MAC        string        `json:"mac"`
	Adopted    bool          `json:"adopted"`
	CfgVersion string        `json:"cfgversion,omitempty"`
	Interval   time.Duration `json:"interval"`
}

// Summarize returns a point-in-time Summary of d.
func (d *Device) Summarize() Summary {
	return Summary{
		MAC:        formatMAC(d.mac),
		Adopted:    d.Adopted(),
		CfgVersion: d.cfgVersion(),
		Interval:   d.interval,
	}
}

// key selects the MASTER key for an unadopted device, or the
// hex-decoded authkey once adopted.
func (d *Device) key() [16]byte {
	if d.cfg == nil || d.cfg.Authkey == "" {
		return inform.MasterKey
	}

	raw, err := hex.DecodeString(d.cfg.Authkey)
	if err != nil || len(raw) != 16 {
		log.Printf("warn: invalid authkey %q, falling back to MASTER key", d.cfg.Authkey)
		return inform.MasterKey
	}

	var key [16]byte
	copy(key[:], raw)
	return key
}

// flags derives the inform frame's flag bits from adoption state:
// ZLibCompressed is always set, Encrypted is always set, and
// EncryptedGCM follows the adopted config's use_aes_gcm switch.
func (d *Device) flags() inform.Flags {
	flags := inform.FlagEncrypted | inform.FlagZLibCompressed
	if d.cfg != nil && d.cfg.UseAESGCM {
		flags |= inform.FlagEncryptedGCM
	}
	return flags
}

func randomIV() [16]byte {
	var iv [16]byte
	if _, err := rand.Read(iv[:]); err != nil {
		log.Printf("alert: failed to read entropy for IV: %s", err)
	}
	return iv
}
