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

var _ = Describe("NoOp cadence", func() {
	It("adopts the controller's interval and does not re-inform before it elapses", func() {
		mac := [6]byte{1, 2, 3, 4, 5, 6}
		dir, err := ioutil.TempDir("", "")
		Expect(err).ToNot(HaveOccurred())
		dev, err := device.NewDevice(mac, filepath.Join(dir, "opnfi.toml"))
		Expect(err).ToNot(HaveOccurred())

		calls := 0
		controller := &scriptedController{onInform: func([]byte) []byte {
			calls++
			return encodeResponse(mac, inform.MasterKey, inform.NoOpCommand{Interval: 60})
		}}

		dev.InformOnce(context.Background(), controller, fakeStats{})
		Expect(dev.Interval()).To(Equal(60 * time.Second))
		Expect(calls).To(Equal(1))

		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()
		dev.Run(ctx, controller, fakeStats{})

		Expect(calls).To(Equal(1), "no additional inform should fire before the 60s interval elapses")
	})
})
