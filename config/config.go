// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package config holds the persisted device configuration: the
// management-controller key/value document a device receives in a
// SetParam command, stored on disk as TOML between restarts.
package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DeviceConfig is the persisted state a management controller pushes
// down via SetParam. Field names follow the controller's mgmt_cfg keys
// rather than Go convention so the TOML on disk stays legible next to
// the wire format it was built from.
type DeviceConfig struct {
	Capability       []string `toml:"capability"`
	CfgVersion       string   `toml:"cfgversion"`
	SelfrunGuestMode string   `toml:"selfrun_guest_mode"`
	LedEnabled       bool     `toml:"led_enabled"`
	StunURL          string   `toml:"stun_url"`
	MgmtURL          string   `toml:"mgmt_url"`
	Authkey          string   `toml:"authkey"`
	UseAESGCM        bool     `toml:"use_aes_gcm"`
	ReportCrash      bool     `toml:"report_crash"`
}

// UpdateFromMgmtCfg parses a newline-delimited "key=value" management
// config blob, as shipped inside a SetParam command, and applies
// recognized keys to c. Unknown keys are logged and otherwise ignored;
// a single bad line must never abort adoption.
func (c *DeviceConfig) UpdateFromMgmtCfg(mgmtCfg string) {
	for _, line := range strings.Split(mgmtCfg, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		pair := strings.SplitN(line, "=", 2)
		if len(pair) != 2 {
			log.Printf("warn: malformed mgmt_cfg line: %q", line)
			continue
		}
		key, val := pair[0], pair[1]

		switch key {
		case "capability":
			c.Capability = strings.Split(val, ",")
		case "cfgversion":
			c.CfgVersion = val
		case "selfrun_guest_mode":
			c.SelfrunGuestMode = val
		case "led_enabled":
			c.LedEnabled = val == "true"
		case "stun_url":
			c.StunURL = val
		case "mgmt_url":
			c.MgmtURL = val
		case "authkey":
			c.Authkey = val
		case "use_aes_gcm":
			c.UseAESGCM = val == "true"
		case "report_crash":
			c.ReportCrash = val == "true"
		default:
			log.Printf("warn: unknown config entry: %s = %s", key, val)
		}
	}
}

// FromMgmtCfg builds a DeviceConfig from a mgmt_cfg blob directly,
// useful when a SetParam arrives before any config file has been
// loaded from disk.
func FromMgmtCfg(mgmtCfg string) DeviceConfig {
	var c DeviceConfig
	c.UpdateFromMgmtCfg(mgmtCfg)
	return c
}

// Load reads and decodes a DeviceConfig from path. The parent
// directory is created if missing, matching the persistence style the
// device uses when saving.
func Load(path string) (DeviceConfig, error) {
	var c DeviceConfig

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return c, err
		}
	}

	if _, err := toml.DecodeFile(path, &c); err != nil {
		return c, err
	}
	return c, nil
}

// Save truncates and writes c to path as TOML, creating the parent
// directory if it doesn't yet exist.
func Save(path string, c DeviceConfig) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// Delete removes the config file at path, implementing a SetDefault
// factory reset. A missing file is not an error.
func Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
