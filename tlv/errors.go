// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tlv

import "errors"

// ErrInvalidLength is returned when a TLV value would exceed the
// 16-bit length field on write, or when fewer bytes than the declared
// length are available on read.
var ErrInvalidLength = errors.New("tlv: invalid length")
