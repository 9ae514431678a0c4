// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package integration_test

import (
	"context"
	"io/ioutil"
	"path/filepath"

	"github.com/jrjparks/opnfi-device/device"
	"github.com/jrjparks/opnfi-device/inform"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Adoption from zero", func() {
	It("moves to the adopted state and switches off the MASTER key", func() {
		mac := [6]byte{0x00, 0xDE, 0xAD, 0xBE, 0xEF, 0x00}
		dir, err := ioutil.TempDir("", "")
		Expect(err).ToNot(HaveOccurred())
		dev, err := device.NewDevice(mac, filepath.Join(dir, "opnfi.toml"))
		Expect(err).ToNot(HaveOccurred())
		Expect(dev.Adopted()).To(BeFalse())
		Expect(dev.Key()).To(Equal(inform.MasterKey))

		mgmtCfg := "capability=gw\ncfgversion=abc123\nauthkey=000102030405060708090a0b0c0d0e0f\n" +
			"use_aes_gcm=false\nmgmt_url=http://unifi:8080\nstun_url=stun:unifi:3478\n" +
			"led_enabled=true\nselfrun_guest_mode=off\nreport_crash=false"

		controller := &scriptedController{onInform: func(frame []byte) []byte {
			_, payload, err := inform.DecodePacket(frame, inform.MasterKey[:])
			Expect(err).ToNot(HaveOccurred())
			report, ok := payload.(inform.GatewayReport)
			Expect(ok).To(BeTrue())
			Expect(report.Default).To(BeTrue())

			return encodeResponse(mac, inform.MasterKey, inform.SetParamCommand{MgmtCfg: mgmtCfg})
		}}

		dev.InformOnce(context.Background(), controller, fakeStats{})

		Expect(dev.Adopted()).To(BeTrue())

		var wantKey [16]byte
		copy(wantKey[:], []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f})
		Expect(dev.Key()).To(Equal(wantKey))

		Expect(dev.Flags() & inform.FlagEncryptedGCM).To(BeZero())
		Expect(dev.Flags() & inform.FlagZLibCompressed).ToNot(BeZero())
		Expect(dev.Flags() & inform.FlagEncrypted).ToNot(BeZero())
	})
})
