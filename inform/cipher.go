// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package inform

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

var (
	errNotBlockAligned = errors.New("ciphertext is not block-aligned")
	errNoTag           = errors.New("data shorter than GCM tag")
	errBadPadding      = errors.New("invalid PKCS#7 padding")
)

// MasterKey is the fixed 16-byte AES key used before a device has been
// adopted (or has no authkey at all), so the controller can decrypt
// informs from devices it doesn't yet recognize.
var MasterKey = [16]byte{
	0xBA, 0x86, 0xF2, 0xBB, 0xE1, 0x07, 0xC7, 0xC5,
	0x7E, 0xB5, 0xF2, 0x69, 0x07, 0x75, 0xC7, 0x12,
}

const gcmTagSize = 16

// encodeCBC encrypts plaintext with AES-128-CBC under key/iv after
// PKCS#7 padding. The returned ciphertext length is always a multiple
// of the AES block size.
func encodeCBC(plaintext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrCipherError.wrap(err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))

	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(ciphertext, padded)

	return ciphertext, nil
}

// decodeCBC reverses encodeCBC.
func decodeCBC(data, key, iv []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, ErrCipherError.wrap(errNotBlockAligned)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrCipherError.wrap(err)
	}

	plaintext := make([]byte, len(data))
	mode := cipher.NewCBCDecrypter(block, iv)
	mode.CryptBlocks(plaintext, data)

	out, err := pkcs7Unpad(plaintext)
	if err != nil {
		return nil, ErrCipherError.wrap(err)
	}

	return out, nil
}

// encodeGCM encrypts plaintext with AES-128-GCM under key/iv, binding
// aad (the finished 40-byte frame header) as associated data. The
// 16-byte tag is appended to the returned ciphertext.
func encodeGCM(plaintext, key, iv, aad []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrCipherError.wrap(err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, len(iv))
	if err != nil {
		return nil, ErrCipherError.wrap(err)
	}

	return gcm.Seal(nil, iv, plaintext, aad), nil
}

// decodeGCM splits the trailing 16-byte tag from data, authenticates
// it against aad, and returns the plaintext.
func decodeGCM(data, key, iv, aad []byte) ([]byte, error) {
	if len(data) < gcmTagSize {
		return nil, ErrCipherError.wrap(errNoTag)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrCipherError.wrap(err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, len(iv))
	if err != nil {
		return nil, ErrCipherError.wrap(err)
	}

	plaintext, err := gcm.Open(nil, iv, data, aad)
	if err != nil {
		return nil, ErrCipherError.wrap(err)
	}

	return plaintext, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - (len(data) % blockSize)
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errBadPadding
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) {
		return nil, errBadPadding
	}

	if !bytes.Equal(data[len(data)-padLen:], bytes.Repeat([]byte{byte(padLen)}, padLen)) {
		return nil, errBadPadding
	}

	return data[:len(data)-padLen], nil
}
