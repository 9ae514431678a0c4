// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package integration_test

import (
	"context"
	"crypto/rand"

	"github.com/jrjparks/opnfi-device/inform"
)

type fakeStats struct{}

func (fakeStats) CPUPercent() float64 { return 5 }
func (fakeStats) MemPercent() float64 { return 15 }
func (fakeStats) Uptime() int64       { return 42 }

// scriptedController stands in for the management controller: each
// call to PostInform hands the encoded request to onInform, and
// returns whatever frame it builds in response.
type scriptedController struct {
	onInform func(frame []byte) []byte
}

func (c *scriptedController) PostInform(_ context.Context, frame []byte) ([]byte, error) {
	return c.onInform(frame), nil
}

func encodeResponse(mac [6]byte, key [16]byte, payload inform.Payload) []byte {
	hdr := inform.Header{
		Magic:           inform.DefaultMagic,
		HardwareAddress: mac,
		Flags:           inform.FlagEncrypted | inform.FlagZLibCompressed,
		IV:              randomIV(),
		PayloadVersion:  1,
	}
	frame, err := inform.EncodePacket(hdr, key[:], payload)
	if err != nil {
		panic(err)
	}
	return frame
}

func randomIV() [16]byte {
	var iv [16]byte
	if _, err := rand.Read(iv[:]); err != nil {
		panic(err)
	}
	return iv
}
