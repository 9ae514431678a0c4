// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package device

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jrjparks/opnfi-device/config"
	"github.com/jrjparks/opnfi-device/inform"
)

// Run drives the 100ms-ticked inform loop until ctx is cancelled,
// mirroring the source's single-threaded cooperative model: one
// inform round-trip in flight at a time, a cancellation check on
// every wakeup.
func (d *Device) Run(ctx context.Context, poster Poster, stats SystemStats) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("info: device %x shutting down", d.mac)
			return
		case <-ticker.C:
			if d.due() {
				d.informOnce(ctx, poster, stats)
			}
		}
	}
}

// due reports whether the loop should inform now, and if so marks the
// cadence bookkeeping (forceResend, lastInform) as consumed. It is the
// single place that decides "is it time", so manual single-shot calls
// (InformOnce) and the ticker-driven Run loop can never disagree about
// cadence state.
func (d *Device) due() bool {
	now := time.Now()
	if !d.forceResend && now.Sub(d.lastInform) < d.interval {
		return false
	}
	d.forceResend = false
	d.lastInform = now
	return true
}

// InformOnce runs a single inform/response cycle synchronously, the
// same work Run performs on each tick when due. It is exported so
// scenario tests can drive the state machine deterministically without
// racing the loop's own ticker.
func (d *Device) InformOnce(ctx context.Context, poster Poster, stats SystemStats) {
	if !d.due() {
		return
	}
	d.informOnce(ctx, poster, stats)
}

func (d *Device) informOnce(ctx context.Context, poster Poster, stats SystemStats) {
	frame, err := d.buildInform(stats)
	if err != nil {
		log.Printf("error: device %x: failed to build inform frame: %s", d.mac, err)
		return
	}

	log.Printf("info: device %x: sending inform", d.mac)
	resp, err := poster.PostInform(ctx, frame)
	if err != nil {
		log.Printf("warn: device %x: inform send failed: %s", d.mac, err)
		d.interval = defaultInterval
		return
	}

	if len(resp) < minResponseLen {
		log.Printf("warn: device %x: inform response too short (%d bytes), ignoring", d.mac, len(resp))
		return
	}

	d.handleResponse(resp)
}

func (d *Device) buildInform(stats SystemStats) ([]byte, error) {
	report := inform.GatewayReport{
		CfgVersion:        d.cfgVersion(),
		Default:           !d.Adopted(),
		DiscoveryResponse: true,
		Hostname:          d.hostname,
		MAC:               formatMAC(d.mac),
		Model:             "OpnFiGW",
		ModelDisplay:      "OpnFi Gateway",
		Uptime:            stats.Uptime(),
		SystemStatus: inform.SystemStatus{
			CPU: fmt.Sprintf("%.1f", stats.CPUPercent()),
			Mem: fmt.Sprintf("%.1f", stats.MemPercent()),
		},
	}

	hdr := inform.Header{
		Magic:           inform.DefaultMagic,
		HardwareAddress: d.mac,
		Flags:           d.flags(),
		IV:              randomIV(),
		PayloadVersion:  1,
	}

	key := d.key()
	return inform.EncodePacket(hdr, key[:], report)
}

func (d *Device) cfgVersion() string {
	if d.cfg == nil {
		return ""
	}
	return d.cfg.CfgVersion
}

// handleResponse applies the commands carried in an inform response,
// in the order they were encountered, per the single-inform-in-flight
// ordering guarantee.
func (d *Device) handleResponse(resp []byte) {
	_, payload, err := inform.DecodePacket(resp, d.key()[:])
	if err != nil {
		log.Printf("warn: device %x: failed to decode inform response: %s", d.mac, err)
		return
	}

	switch cmd := payload.(type) {
	case inform.NoOpCommand:
		d.interval = time.Duration(cmd.Interval) * time.Second
	case inform.SetParamCommand:
		d.applySetParam(cmd)
	case inform.SetDefaultCommand:
		d.applySetDefault()
	case inform.UpgradeCommand:
		log.Printf("warn: device %x: unhandled upgrade command (url=%q)", d.mac, cmd.URL)
	case inform.RebootCommand:
		log.Printf("warn: device %x: unhandled reboot command", d.mac)
	case inform.CmdCommand:
		log.Printf("warn: device %x: unhandled cmd command (%q)", d.mac, cmd.Command)
	default:
		log.Printf("warn: device %x: unhandled response payload %T", d.mac, cmd)
	}
}

func (d *Device) applySetParam(cmd inform.SetParamCommand) {
	if cmd.MgmtCfg == "" {
		return
	}

	if d.cfg == nil {
		cfg := config.FromMgmtCfg(cmd.MgmtCfg)
		d.cfg = &cfg
	} else {
		d.cfg.UpdateFromMgmtCfg(cmd.MgmtCfg)
	}

	if err := config.Save(d.configPath, *d.cfg); err != nil {
		log.Printf("error: device %x: config save failed: %s", d.mac, err)
	}

	d.forceResend = true
}

func (d *Device) applySetDefault() {
	if err := config.Delete(d.configPath); err != nil {
		log.Printf("error: device %x: config delete failed: %s", d.mac, err)
	}
	d.cfg = nil
	d.forceResend = true
}

func formatMAC(mac [6]byte) string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", mac[0], mac[1], mac[2], mac[3], mac[4], mac[5])
}
