// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package integration_test

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"time"

	"github.com/jrjparks/opnfi-device/device"
	"github.com/jrjparks/opnfi-device/inform"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tampered GCM response", func() {
	It("rejects a response with a flipped IV byte and leaves state untouched", func() {
		mac := [6]byte{0x00, 0xDE, 0xAD, 0xBE, 0xEF, 0x02}
		dir, err := ioutil.TempDir("", "")
		Expect(err).ToNot(HaveOccurred())
		dev, err := device.NewDevice(mac, filepath.Join(dir, "opnfi.toml"), device.WithInitialInterval(10*time.Second))
		Expect(err).ToNot(HaveOccurred())

		controller := &scriptedController{onInform: func([]byte) []byte {
			hdr := inform.Header{
				Magic:           inform.DefaultMagic,
				HardwareAddress: mac,
				Flags:           inform.FlagEncrypted | inform.FlagZLibCompressed | inform.FlagEncryptedGCM,
				IV:              randomIV(),
				PayloadVersion:  1,
			}
			frame, err := inform.EncodePacket(hdr, inform.MasterKey[:], inform.NoOpCommand{Interval: 60})
			Expect(err).ToNot(HaveOccurred())

			// IV occupies header bytes [16:32]; flip one byte to invalidate
			// the GCM tag without touching framing or length fields.
			frame[20] ^= 0xFF
			return frame
		}}

		dev.InformOnce(context.Background(), controller, fakeStats{})

		Expect(dev.Adopted()).To(BeFalse())
		Expect(dev.Interval()).To(Equal(10 * time.Second))
	})
})
