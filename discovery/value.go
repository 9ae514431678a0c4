// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package discovery implements the UDP-oriented discovery probe
// format: a typed tag-length-value vocabulary (Value) nested
// inside one outer TLV record (Packet), sharing the tlv
// package's framing primitive with the inform wire protocol.
package discovery

import (
	"encoding/binary"
	"fmt"
	"net"
)

// Tag identifies the wire meaning of a discovery value.
type Tag uint8

// Recognized discovery value tags.
const (
	TagMAC                      Tag = 0x01
	TagIPInfo                   Tag = 0x02
	TagFirmwareVersion          Tag = 0x03
	TagUsername                 Tag = 0x06
	TagSalt                     Tag = 0x07
	TagChallenge                Tag = 0x08
	TagUptime                   Tag = 0x0A
	TagHostname                 Tag = 0x0B
	TagPlatform                 Tag = 0x0C
	TagESSID                    Tag = 0x0D
	TagWMode                    Tag = 0x0E
	TagSequence                 Tag = 0x12
	TagSerial                   Tag = 0x13
	TagModel                    Tag = 0x15
	TagMinimumControllerVersion Tag = 0x16
	TagIsDefault                Tag = 0x17
	TagVersion                  Tag = 0x1B

	// generic, tag-carrying variants
	TagGenericStringA Tag = 0x10
	TagGenericStringB Tag = 0x1D
	TagGenericBoolA   Tag = 0x18
	TagGenericBoolB   Tag = 0x19
	TagGenericBoolC   Tag = 0x1A
	TagGenericNumber  Tag = 0x1C
)

// Value is a decoded discovery value. Every concrete type in this
// package implements it; Unknown is the catch-all for unrecognized
// tags.
type Value interface {
	// Tag returns the wire tag for this value.
	Tag() Tag
	// Encode returns the TLV value bytes for this variant.
	Encode(order binary.ByteOrder) []byte
}

// MAC is a device hardware address (tag 1).
type MAC net.HardwareAddr

func (MAC) Tag() Tag { return TagMAC }
func (m MAC) Encode(binary.ByteOrder) []byte {
	b := make([]byte, 6)
	copy(b, m)
	return b
}

// IPInfo pairs an IPv4 address with a hardware address (tag 2).
type IPInfo struct {
	IP  net.IP
	MAC net.HardwareAddr
}

func (IPInfo) Tag() Tag { return TagIPInfo }
func (v IPInfo) Encode(binary.ByteOrder) []byte {
	b := make([]byte, 10)
	copy(b[0:4], v.IP.To4())
	copy(b[4:10], v.MAC)
	return b
}

type stringValue struct {
	tag Tag
	val string
}

func (s stringValue) Tag() Tag                          { return s.tag }
func (s stringValue) Encode(binary.ByteOrder) []byte     { return []byte(s.val) }
func (s stringValue) String() string                     { return s.val }

// FirmwareVersion (tag 3).
func FirmwareVersion(v string) Value { return stringValue{TagFirmwareVersion, v} }

// Username (tag 6).
func Username(v string) Value { return stringValue{TagUsername, v} }

// Hostname (tag 0x0B).
func Hostname(v string) Value { return stringValue{TagHostname, v} }

// Platform (tag 0x0C).
func Platform(v string) Value { return stringValue{TagPlatform, v} }

// ESSID (tag 0x0D).
func ESSID(v string) Value { return stringValue{TagESSID, v} }

// Serial (tag 0x13).
func Serial(v string) Value { return stringValue{TagSerial, v} }

// Model (tag 0x15).
func Model(v string) Value { return stringValue{TagModel, v} }

// MinimumControllerVersion (tag 0x16).
func MinimumControllerVersion(v string) Value { return stringValue{TagMinimumControllerVersion, v} }

// Version (tag 0x1B).
func Version(v string) Value { return stringValue{TagVersion, v} }

// Salt is an opaque byte blob (tag 7).
type Salt []byte

func (Salt) Tag() Tag                      { return TagSalt }
func (s Salt) Encode(binary.ByteOrder) []byte { return []byte(s) }

// Challenge is an opaque byte blob (tag 8).
type Challenge []byte

func (Challenge) Tag() Tag                      { return TagChallenge }
func (c Challenge) Encode(binary.ByteOrder) []byte { return []byte(c) }

// Uptime in seconds (tag 0x0A).
type Uptime int64

func (Uptime) Tag() Tag { return TagUptime }
func (u Uptime) Encode(order binary.ByteOrder) []byte {
	b := make([]byte, 8)
	order.PutUint64(b, uint64(u))
	return b
}

// WMode is the device's wireless mode (tag 0x0E).
type WMode int32

func (WMode) Tag() Tag { return TagWMode }
func (w WMode) Encode(order binary.ByteOrder) []byte {
	b := make([]byte, 4)
	order.PutUint32(b, uint32(w))
	return b
}

// Sequence is a monotonically increasing discovery counter (tag 0x12).
type Sequence int32

func (Sequence) Tag() Tag { return TagSequence }
func (s Sequence) Encode(order binary.ByteOrder) []byte {
	b := make([]byte, 4)
	order.PutUint32(b, uint32(s))
	return b
}

// IsDefault reports whether the device is still in factory/unadopted
// state (tag 0x17).
type IsDefault bool

func (IsDefault) Tag() Tag { return TagIsDefault }
func (d IsDefault) Encode(binary.ByteOrder) []byte {
	if d {
		return []byte{1}
	}
	return []byte{0}
}

// String is a generic string-valued field whose tag isn't one of the
// named fields above (0x10 or 0x1D).
type String struct {
	TagByte Tag
	Val     string
}

func (s String) Tag() Tag                      { return s.TagByte }
func (s String) Encode(binary.ByteOrder) []byte { return []byte(s.Val) }

// Bool is a generic boolean-valued field (0x18, 0x19, 0x1A).
type Bool struct {
	TagByte Tag
	Val     bool
}

func (b Bool) Tag() Tag { return b.TagByte }
func (b Bool) Encode(binary.ByteOrder) []byte {
	if b.Val {
		return []byte{1}
	}
	return []byte{0}
}

// Number is a generic 32-bit integer field (0x1C).
type Number struct {
	TagByte Tag
	Val     int32
}

func (n Number) Tag() Tag { return n.TagByte }
func (n Number) Encode(order binary.ByteOrder) []byte {
	b := make([]byte, 4)
	order.PutUint32(b, uint32(n.Val))
	return b
}

// Unknown preserves an unrecognized tag's raw bytes untouched so it
// round-trips even when this package doesn't understand its meaning.
type Unknown struct {
	TagByte Tag
	Data    []byte
}

func (u Unknown) Tag() Tag                      { return u.TagByte }
func (u Unknown) Encode(binary.ByteOrder) []byte { return u.Data }

// Decode maps a TLV (tag, bytes) pair onto a typed Value. Fixed-width
// variants return ErrInvalidLength rather than panicking when fed a
// short buffer (the source implementation panicked on this path; see
// DESIGN.md).
func Decode(order binary.ByteOrder, tag uint8, value []byte) (Value, error) {
	t := Tag(tag)
	switch t {
	case TagMAC:
		if len(value) < 6 {
			return nil, fmt.Errorf("discovery: MAC value too short (%d bytes): %w", len(value), ErrInvalidLength)
		}
		return MAC(value[:6]), nil
	case TagIPInfo:
		if len(value) < 10 {
			return nil, fmt.Errorf("discovery: IPInfo value too short (%d bytes): %w", len(value), ErrInvalidLength)
		}
		return IPInfo{
			IP:  net.IP(value[0:4]),
			MAC: net.HardwareAddr(value[4:10]),
		}, nil
	case TagFirmwareVersion:
		return stringValue{TagFirmwareVersion, string(value)}, nil
	case TagUsername:
		return stringValue{TagUsername, string(value)}, nil
	case TagSalt:
		return Salt(value), nil
	case TagChallenge:
		return Challenge(value), nil
	case TagUptime:
		if len(value) < 8 {
			return nil, fmt.Errorf("discovery: Uptime value too short (%d bytes): %w", len(value), ErrInvalidLength)
		}
		return Uptime(order.Uint64(value[:8])), nil
	case TagHostname:
		return stringValue{TagHostname, string(value)}, nil
	case TagPlatform:
		return stringValue{TagPlatform, string(value)}, nil
	case TagESSID:
		return stringValue{TagESSID, string(value)}, nil
	case TagWMode:
		if len(value) < 4 {
			return nil, fmt.Errorf("discovery: WMode value too short (%d bytes): %w", len(value), ErrInvalidLength)
		}
		return WMode(order.Uint32(value[:4])), nil
	case TagSequence:
		if len(value) < 4 {
			return nil, fmt.Errorf("discovery: Sequence value too short (%d bytes): %w", len(value), ErrInvalidLength)
		}
		return Sequence(order.Uint32(value[:4])), nil
	case TagSerial:
		return stringValue{TagSerial, string(value)}, nil
	case TagModel:
		return stringValue{TagModel, string(value)}, nil
	case TagMinimumControllerVersion:
		return stringValue{TagMinimumControllerVersion, string(value)}, nil
	case TagIsDefault:
		if len(value) < 1 {
			return nil, fmt.Errorf("discovery: IsDefault value too short: %w", ErrInvalidLength)
		}
		return IsDefault(value[0] != 0), nil
	case TagVersion:
		return stringValue{TagVersion, string(value)}, nil
	case TagGenericStringA, TagGenericStringB:
		return String{TagByte: t, Val: string(value)}, nil
	case TagGenericBoolA, TagGenericBoolB, TagGenericBoolC:
		if len(value) < 1 {
			return nil, fmt.Errorf("discovery: Bool value too short: %w", ErrInvalidLength)
		}
		return Bool{TagByte: t, Val: value[0] != 0}, nil
	case TagGenericNumber:
		if len(value) < 4 {
			return nil, fmt.Errorf("discovery: Number value too short (%d bytes): %w", len(value), ErrInvalidLength)
		}
		return Number{TagByte: t, Val: int32(order.Uint32(value[:4]))}, nil
	default:
		data := make([]byte, len(value))
		copy(data, value)
		return Unknown{TagByte: t, Data: data}, nil
	}
}
