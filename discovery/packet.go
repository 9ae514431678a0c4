// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package discovery

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/jrjparks/opnfi-device/tlv"
)

// ErrInvalidLength surfaces tlv.ErrInvalidLength for callers that only
// import this package.
var ErrInvalidLength = tlv.ErrInvalidLength

// Command is the discovery packet's outer TLV tag, doubling as the
// probe's verb (inform / request / response).
type Command uint8

// Recognized commands; any other byte round-trips as Command(n).
const (
	CommandInform   Command = 0x06
	CommandRequest  Command = 0x08
	CommandResponse Command = 0x09
)

// Packet is one discovery probe: a version byte, a command byte, and
// zero or more typed values packed into the command's outer TLV.
type Packet struct {
	Version uint8
	Command Command
	Values  []Value
}

// Read decodes a Packet from r.
func Read(order binary.ByteOrder, r io.Reader) (Packet, error) {
	var version [1]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return Packet{}, err
	}

	outer, err := tlv.Read(order, r)
	if err != nil {
		return Packet{}, err
	}

	pkt := Packet{
		Version: version[0],
		Command: Command(outer.Tag),
	}

	body := bytes.NewReader(outer.Value)
	for body.Len() > 0 {
		rec, err := tlv.Read(order, body)
		if err != nil {
			// A short trailing fragment ends the stream without error,
			// matching the source's "iterate until exhausted" behavior.
			break
		}

		val, err := Decode(order, rec.Tag, rec.Value)
		if err != nil {
			return Packet{}, err
		}
		pkt.Values = append(pkt.Values, val)
	}

	return pkt, nil
}

// Write encodes a Packet to w.
func Write(order binary.ByteOrder, w io.Writer, pkt Packet) error {
	inner := &bytes.Buffer{}
	for _, v := range pkt.Values {
		if err := tlv.Write(order, inner, uint8(v.Tag()), v.Encode(order)); err != nil {
			return err
		}
	}

	if _, err := w.Write([]byte{pkt.Version}); err != nil {
		return err
	}

	return tlv.Write(order, w, uint8(pkt.Command), inner.Bytes())
}
