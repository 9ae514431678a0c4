// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package inform implements the inform packet wire codec: a fixed
// 40-byte header followed by a variably compressed and encrypted
// payload. It mirrors the teacher's message package (fixed-offset
// header, CRC/compression switch over a byte buffer) generalized to
// the UBNT frame layout and its authenticated-encryption modes.
package inform

import (
	"encoding/binary"
	"io"
)

// Flags selects the compression and cipher applied to a frame's
// payload. Unknown bits are preserved on round-trip but never trigger
// a transform.
type Flags uint16

// Recognized flag bits.
const (
	FlagEncrypted        Flags = 0x01
	FlagZLibCompressed   Flags = 0x02
	FlagSnappyCompressed Flags = 0x04
	FlagEncryptedGCM     Flags = 0x08
)

// DefaultMagic is the protocol's magic number, "UBNT" read big-endian.
const DefaultMagic uint32 = 0x55424E54

const headerSize = 40

// Header is the inform frame's fixed 40-byte preamble.
type Header struct {
	Magic           uint32
	PacketVersion   uint32
	HardwareAddress [6]byte
	Flags           Flags
	IV              [16]byte
	PayloadVersion  uint32
}

// bytes renders the header with a caller-supplied payload length; the
// length isn't a Header field because, for GCM frames, it must be
// known and baked into these same bytes before encryption (the header
// is the AAD), while for CBC/identity frames it's only known after.
func (h Header) bytes(order binary.ByteOrder, payloadLength uint32) []byte {
	buf := make([]byte, headerSize)
	order.PutUint32(buf[0:4], h.Magic)
	order.PutUint32(buf[4:8], h.PacketVersion)
	copy(buf[8:14], h.HardwareAddress[:])
	order.PutUint16(buf[14:16], uint16(h.Flags))
	copy(buf[16:32], h.IV[:])
	order.PutUint32(buf[32:36], h.PayloadVersion)
	order.PutUint32(buf[36:40], payloadLength)
	return buf
}

func parseHeader(order binary.ByteOrder, buf []byte) (hdr Header, payloadLength uint32) {
	hdr.Magic = order.Uint32(buf[0:4])
	hdr.PacketVersion = order.Uint32(buf[4:8])
	copy(hdr.HardwareAddress[:], buf[8:14])
	hdr.Flags = Flags(order.Uint16(buf[14:16]))
	copy(hdr.IV[:], buf[16:32])
	hdr.PayloadVersion = order.Uint32(buf[32:36])
	payloadLength = order.Uint32(buf[36:40])
	return hdr, payloadLength
}

// WriteFrame compresses and encrypts plaintext according to hdr.Flags
// and writes the 40-byte header followed by the encoded payload to w.
// Snappy takes precedence over ZLib if both compression bits are set;
// GCM implies Encrypted and binds the finished header as AAD.
func WriteFrame(order binary.ByteOrder, w io.Writer, hdr Header, key, plaintext []byte) error {
	var compressed []byte
	var err error

	switch {
	case hdr.Flags&FlagSnappyCompressed != 0:
		compressed, err = snappyEncode(plaintext)
	case hdr.Flags&FlagZLibCompressed != 0:
		compressed, err = zlibEncode(plaintext)
	default:
		compressed = plaintext
	}
	if err != nil {
		return err
	}

	var headerBuf, encoded []byte

	switch {
	case hdr.Flags&FlagEncryptedGCM != 0:
		// The header, including payload_length, is the AAD: it must be
		// finalized before the cipher runs.
		headerBuf = hdr.bytes(order, uint32(len(compressed)+gcmTagSize))
		encoded, err = encodeGCM(compressed, key, hdr.IV[:], headerBuf)
	case hdr.Flags&FlagEncrypted != 0:
		encoded, err = encodeCBC(compressed, key, hdr.IV[:])
		headerBuf = hdr.bytes(order, uint32(len(encoded)))
	default:
		encoded = compressed
		headerBuf = hdr.bytes(order, uint32(len(encoded)))
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(headerBuf); err != nil {
		return ErrIO.wrap(err)
	}
	if _, err := w.Write(encoded); err != nil {
		return ErrIO.wrap(err)
	}

	return nil
}

// ReadFrame parses a 40-byte header from r, reads its declared
// payload, and reverses decryption/decompression to recover the
// original plaintext. expectedMagic overrides DefaultMagic when
// non-zero, to permit testing against a different magic.
func ReadFrame(order binary.ByteOrder, r io.Reader, key []byte, expectedMagic uint32) (Header, []byte, error) {
	headerBuf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		return Header{}, nil, ErrUnexpectedEOF.wrap(err)
	}

	hdr, payloadLength := parseHeader(order, headerBuf)

	if expectedMagic == 0 {
		expectedMagic = DefaultMagic
	}
	if hdr.Magic != expectedMagic {
		return Header{}, nil, ErrInvalidHeader
	}

	encoded := make([]byte, payloadLength)
	if _, err := io.ReadFull(r, encoded); err != nil {
		return Header{}, nil, ErrUnexpectedEOF.wrap(err)
	}

	var decrypted []byte
	var err error

	switch {
	case hdr.Flags&FlagEncryptedGCM != 0:
		decrypted, err = decodeGCM(encoded, key, hdr.IV[:], headerBuf)
	case hdr.Flags&FlagEncrypted != 0:
		decrypted, err = decodeCBC(encoded, key, hdr.IV[:])
	default:
		decrypted = encoded
	}
	if err != nil {
		return Header{}, nil, err
	}

	var plaintext []byte

	switch {
	case hdr.Flags&FlagSnappyCompressed != 0:
		plaintext, err = snappyDecode(decrypted)
	case hdr.Flags&FlagZLibCompressed != 0:
		plaintext, err = zlibDecode(decrypted)
	default:
		plaintext = decrypted
	}
	if err != nil {
		return Header{}, nil, err
	}

	return hdr, plaintext, nil
}
