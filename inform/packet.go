// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package inform

import (
	"bytes"
	"encoding/binary"
)

// EncodePacket serializes payload to JSON and writes a full inform
// frame (header + transformed payload) to a new byte buffer.
func EncodePacket(hdr Header, key []byte, payload Payload) ([]byte, error) {
	plaintext, err := Encode(payload)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := WriteFrame(binary.BigEndian, buf, hdr, key, plaintext); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecodePacket reads a full inform frame from data, decrypts and
// decompresses its payload, and parses it with DecodeOrDefault so a
// malformed body never fails the whole round trip.
func DecodePacket(data []byte, key []byte) (Header, Payload, error) {
	hdr, plaintext, err := ReadFrame(binary.BigEndian, bytes.NewReader(data), key, 0)
	if err != nil {
		return Header{}, nil, err
	}

	return hdr, DecodeOrDefault(plaintext), nil
}
