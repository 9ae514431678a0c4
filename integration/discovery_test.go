// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package integration_test

import (
	"bytes"
	"encoding/binary"

	"github.com/jrjparks/opnfi-device/discovery"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Discovery request framing", func() {
	It("decodes a version-2 request probe with no values", func() {
		raw := []byte{0x02, 0x08, 0x00, 0x00}

		pkt, err := discovery.Read(binary.BigEndian, bytes.NewReader(raw))
		Expect(err).ToNot(HaveOccurred())

		Expect(pkt.Version).To(Equal(uint8(2)))
		Expect(pkt.Command).To(Equal(discovery.CommandRequest))
		Expect(pkt.Values).To(BeEmpty())
	})
})
