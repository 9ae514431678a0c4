// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package tlv implements the tag-length-value record that underlies
// the discovery sub-protocol: one byte tag, a 16-bit length, and
// exactly that many bytes of value. The record carries no type
// information of its own; higher layers interpret the value bytes.
package tlv

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxValueLen is the largest value a TLV record can carry, bounded by
// the 16-bit length field.
const MaxValueLen = 1<<16 - 1

// Record is a single decoded tag-length-value entry.
type Record struct {
	Tag   uint8
	Value []byte
}

// Read decodes one TLV record from r using the given byte order
// (normally binary.BigEndian, the network order used throughout this
// protocol).
func Read(order binary.ByteOrder, r io.Reader) (Record, error) {
	var head [3]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return Record{}, fmt.Errorf("tlv: read header: %w: %v", ErrInvalidLength, err)
	}

	tag := head[0]
	length := order.Uint16(head[1:3])

	value := make([]byte, length)
	if _, err := io.ReadFull(r, value); err != nil {
		return Record{}, fmt.Errorf("tlv: read value (tag %d, len %d): %w: %v", tag, length, ErrInvalidLength, err)
	}

	return Record{Tag: tag, Value: value}, nil
}

// Write encodes one TLV record to w using the given byte order.
func Write(order binary.ByteOrder, w io.Writer, tag uint8, value []byte) error {
	if len(value) > MaxValueLen {
		return fmt.Errorf("tlv: value length %d exceeds %d: %w", len(value), MaxValueLen, ErrInvalidLength)
	}

	var head [3]byte
	head[0] = tag
	order.PutUint16(head[1:3], uint16(len(value)))

	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	_, err := w.Write(value)
	return err
}
