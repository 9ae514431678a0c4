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

var _ = Describe("Upgrade to GCM", func() {
	It("sets EncryptedGCM once use_aes_gcm flips on", func() {
		mac := [6]byte{1, 2, 3, 4, 5, 6}
		dir, err := ioutil.TempDir("", "")
		Expect(err).ToNot(HaveOccurred())
		dev, err := device.NewDevice(mac, filepath.Join(dir, "opnfi.toml"))
		Expect(err).ToNot(HaveOccurred())

		adoptController := &scriptedController{onInform: func([]byte) []byte {
			return encodeResponse(mac, inform.MasterKey, inform.SetParamCommand{
				MgmtCfg: "authkey=000102030405060708090a0b0c0d0e0f",
			})
		}}
		dev.InformOnce(context.Background(), adoptController, fakeStats{})
		Expect(dev.Adopted()).To(BeTrue())
		Expect(dev.Flags() & inform.FlagEncryptedGCM).To(BeZero())

		upgradeController := &scriptedController{onInform: func(frame []byte) []byte {
			key := dev.Key()
			_, _, err := inform.DecodePacket(frame, key[:])
			Expect(err).ToNot(HaveOccurred())
			return encodeResponse(mac, key, inform.SetParamCommand{MgmtCfg: "use_aes_gcm=true"})
		}}
		dev.InformOnce(context.Background(), upgradeController, fakeStats{})

		Expect(dev.Flags() & inform.FlagEncryptedGCM).ToNot(BeZero())
		Expect(dev.Flags() & inform.FlagEncrypted).ToNot(BeZero())
	})
})
