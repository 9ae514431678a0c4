// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package inform

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
)

var errUnknownPayload = errors.New("unrecognized payload type")

// Payload is the decoded inform plaintext: either a controller Command
// or a device-originated Gateway report. It mirrors the source's
// untagged sum type: Commands carry a lowercase "_type" discriminator,
// everything else is a Gateway report.
type Payload interface {
	isPayload()
}

// NoOpCommand asks the device to adjust its inform cadence without
// otherwise changing state.
type NoOpCommand struct {
	Interval        int    `json:"interval"`
	ServerTimeInUTC string `json:"server_time_in_utc,omitempty"`
}

func (NoOpCommand) isPayload() {}

// DefaultNoOp is the payload substituted whenever a response fails to
// parse (spec: default-on-failure, never an interval of 0).
var DefaultNoOp = NoOpCommand{Interval: 10}

// SetParamCommand carries a new management-config snippet to merge
// into (or establish) the device's persisted configuration.
type SetParamCommand struct {
	MgmtCfg         string `json:"mgmt_cfg,omitempty"`
	ServerTimeInUTC string `json:"server_time_in_utc,omitempty"`
}

func (SetParamCommand) isPayload() {}

// UpgradeCommand asks the device to fetch and apply firmware. Only the
// URL is modeled; actually applying it is out of this protocol's
// scope.
type UpgradeCommand struct {
	URL string `json:"url,omitempty"`
}

func (UpgradeCommand) isPayload() {}

// RebootCommand asks the device to restart.
type RebootCommand struct{}

func (RebootCommand) isPayload() {}

// CmdCommand carries an opaque shell-style command string.
type CmdCommand struct {
	Command string `json:"command,omitempty"`
}

func (CmdCommand) isPayload() {}

// SetDefaultCommand asks the device to erase its persisted config and
// return to the unadopted state.
type SetDefaultCommand struct{}

func (SetDefaultCommand) isPayload() {}

// GatewayReport is the status payload a device sends to the
// controller (i.e. every non-command inform).
type GatewayReport struct {
	BootromVersion    string             `json:"bootrom_version,omitempty"`
	CfgVersion        string             `json:"cfgversion,omitempty"`
	ConfigNetworkWAN  NetworkConfig      `json:"config_network_wan"`
	ConfigNetworkWAN2 NetworkConfig      `json:"config_network_wan2"`
	ConfigPortTable   []PortTableItem    `json:"config_port_table,omitempty"`
	Default           bool               `json:"default"`
	DiscoveryResponse bool               `json:"discovery_response"`
	FwCaps            int32              `json:"fw_caps"`
	HasEth1           bool               `json:"has_eth1"`
	HasSSHDisable     bool               `json:"has_ssh_disable"`
	Hostname          string             `json:"hostname"`
	InformURL         string             `json:"inform_url"`
	IfTable           []NetworkInterface `json:"if_table,omitempty"`
	IP                string             `json:"ip"`
	MAC               string             `json:"mac"`
	Model             string             `json:"model"`
	ModelDisplay      string             `json:"model_display"`
	Netmask           string             `json:"netmask"`
	RadiusCaps        int                `json:"radius_caps"`
	RequiredVersion   string             `json:"required_version"`
	SelfrunBeacon     bool               `json:"selfrun_beacon"`
	Serial            string             `json:"serial"`
	State             int                `json:"state"`
	SystemStatus      SystemStatus       `json:"system_status"`
	Time              int64              `json:"time"`
	Uplink            string             `json:"uplink"`
	Uptime            int64              `json:"uptime"`
	Version           string             `json:"version"`
}

func (GatewayReport) isPayload() {}

// NetworkConfig describes how one WAN/LAN interface is configured.
type NetworkConfig struct {
	Type    string `json:"type"`
	IP      string `json:"ip,omitempty"`
	Netmask string `json:"netmask,omitempty"`
	Gateway string `json:"gateway,omitempty"`
}

// PortTableItem names one logical port and the physical interface
// backing it.
type PortTableItem struct {
	Name   string `json:"name"`
	Ifname string `json:"ifname"`
}

// NetworkInterface reports one physical interface's addressing.
type NetworkInterface struct {
	Name    string `json:"name"`
	MAC     string `json:"mac"`
	IP      string `json:"ip,omitempty"`
	Netmask string `json:"netmask,omitempty"`
	Up      bool   `json:"up"`
}

// SystemStatus carries coarse CPU/memory utilization, sourced from the
// metrics.Collector interface (out of this protocol's scope; see
// SPEC_FULL.md).
type SystemStatus struct {
	CPU string `json:"cpu"`
	Mem string `json:"mem"`
}

type taggedWire struct {
	Type string `json:"_type"`
}

// Encode serializes a Payload to its wire JSON form, injecting the
// lowercase "_type" discriminator for Command variants.
func Encode(p Payload) ([]byte, error) {
	switch v := p.(type) {
	case NoOpCommand:
		return marshalTagged("noop", v)
	case SetParamCommand:
		return marshalTagged("setparam", v)
	case UpgradeCommand:
		return marshalTagged("upgrade", v)
	case RebootCommand:
		return marshalTagged("reboot", v)
	case CmdCommand:
		return marshalTagged("cmd", v)
	case SetDefaultCommand:
		return marshalTagged("setdefault", v)
	case GatewayReport:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, ErrSerde.wrap(err)
		}
		return data, nil
	default:
		return nil, ErrSerde.wrap(errUnknownPayload)
	}
}

func marshalTagged(typ string, v interface{}) ([]byte, error) {
	fields, err := json.Marshal(v)
	if err != nil {
		return nil, ErrSerde.wrap(err)
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(fields, &merged); err != nil {
		return nil, ErrSerde.wrap(err)
	}

	typeBytes, err := json.Marshal(typ)
	if err != nil {
		return nil, ErrSerde.wrap(err)
	}
	merged["_type"] = typeBytes

	return json.Marshal(merged)
}

// Decode parses plaintext as a Payload, returning ErrSerde on failure.
// Callers needing the source's default-to-NoOp forward-compatibility
// behavior should use DecodeOrDefault instead.
func Decode(data []byte) (Payload, error) {
	var probe taggedWire
	// An error here is ignored: a body without a string "_type" field
	// falls through to the Gateway report case, and a genuinely
	// malformed body fails again below and surfaces as ErrSerde there.
	_ = json.Unmarshal(data, &probe)

	switch strings.ToLower(probe.Type) {
	case "noop":
		var v NoOpCommand
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, ErrSerde.wrap(err)
		}
		return v, nil
	case "setparam":
		var v SetParamCommand
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, ErrSerde.wrap(err)
		}
		return v, nil
	case "upgrade":
		var v UpgradeCommand
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, ErrSerde.wrap(err)
		}
		return v, nil
	case "reboot":
		var v RebootCommand
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, ErrSerde.wrap(err)
		}
		return v, nil
	case "cmd":
		var v CmdCommand
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, ErrSerde.wrap(err)
		}
		return v, nil
	case "setdefault":
		var v SetDefaultCommand
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, ErrSerde.wrap(err)
		}
		return v, nil
	default:
		var v GatewayReport
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, ErrSerde.wrap(err)
		}
		return v, nil
	}
}

// DecodeOrDefault parses plaintext as a Payload, logging and falling
// back to DefaultNoOp on any parse failure so a single malformed
// controller response can never wedge the device loop.
func DecodeOrDefault(data []byte) Payload {
	p, err := Decode(data)
	if err != nil {
		log.Printf("warn: inform: payload parse failed, defaulting to NoOp(interval=%d): %s", DefaultNoOp.Interval, err)
		return DefaultNoOp
	}
	return p
}
