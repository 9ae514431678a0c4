// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package inform

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/golang/snappy"
)

// zlibEncode compresses data with a standard zlib (deflate-with-
// header) stream, byte-for-byte compatible with any conforming zlib
// implementation on the other end.
func zlibEncode(data []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := zlib.NewWriter(buf)

	if _, err := w.Write(data); err != nil {
		return nil, ErrCompression.wrap(err)
	}
	if err := w.Close(); err != nil {
		return nil, ErrCompression.wrap(err)
	}

	return buf.Bytes(), nil
}

// zlibDecode decompresses a zlib stream produced by zlibEncode (or any
// conforming zlib writer).
func zlibDecode(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, ErrCompression.wrap(err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrCompression.wrap(err)
	}

	return out, nil
}

// snappyEncode compresses data with the framed/streaming Snappy
// format (not raw block Snappy), matching what a snap::Writer on the
// controller side produces.
func snappyEncode(data []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := snappy.NewBufferedWriter(buf)

	if _, err := w.Write(data); err != nil {
		return nil, ErrCompression.wrap(err)
	}
	if err := w.Close(); err != nil {
		return nil, ErrCompression.wrap(err)
	}

	return buf.Bytes(), nil
}

// snappyDecode decompresses a framed Snappy stream produced by
// snappyEncode (or any conforming snap::Reader).
func snappyDecode(data []byte) ([]byte, error) {
	r := snappy.NewReader(bytes.NewReader(data))

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrCompression.wrap(err)
	}

	return out, nil
}
