// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package integration_test

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/jrjparks/opnfi-device/device"
	"github.com/jrjparks/opnfi-device/inform"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Factory reset", func() {
	It("wipes persisted config and returns to the MASTER key", func() {
		mac := [6]byte{0x00, 0xDE, 0xAD, 0xBE, 0xEF, 0x01}
		dir, err := ioutil.TempDir("", "")
		Expect(err).ToNot(HaveOccurred())
		configPath := filepath.Join(dir, "opnfi.toml")
		dev, err := device.NewDevice(mac, configPath)
		Expect(err).ToNot(HaveOccurred())

		adoptController := &scriptedController{onInform: func([]byte) []byte {
			return encodeResponse(mac, inform.MasterKey, inform.SetParamCommand{
				MgmtCfg: "authkey=000102030405060708090a0b0c0d0e0f",
			})
		}}
		dev.InformOnce(context.Background(), adoptController, fakeStats{})
		Expect(dev.Adopted()).To(BeTrue())
		if _, err := os.Stat(configPath); err != nil {
			Fail("expected config file to be persisted after adoption: " + err.Error())
		}

		key := dev.Key()
		resetController := &scriptedController{onInform: func([]byte) []byte {
			return encodeResponse(mac, key, inform.SetDefaultCommand{})
		}}
		dev.InformOnce(context.Background(), resetController, fakeStats{})

		Expect(dev.Adopted()).To(BeFalse())
		Expect(dev.Key()).To(Equal(inform.MasterKey))

		_, err = os.Stat(configPath)
		Expect(os.IsNotExist(err)).To(BeTrue())
	})
})
