// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package inform

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestCBCRoundTrip(t *testing.T) {
	t.Parallel()

	plaintext := []byte("arbitrary length plaintext, not block aligned")
	iv := make([]byte, 16)
	rand.Read(iv)

	ciphertext, err := encodeCBC(plaintext, MasterKey[:], iv)
	if err != nil {
		t.Fatal(err)
	}

	if len(ciphertext)%16 != 0 {
		t.Fatalf("ciphertext length %d not block aligned", len(ciphertext))
	}

	got, err := decodeCBC(ciphertext, MasterKey[:], iv)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(got, plaintext) {
		t.Errorf("got %q, want %q", got, plaintext)
	}
}

func TestGCMRoundTrip(t *testing.T) {
	t.Parallel()

	plaintext := []byte("gcm plaintext")
	iv := make([]byte, 16)
	rand.Read(iv)
	aad := bytes.Repeat([]byte{0x42}, headerSize)

	ciphertext, err := encodeGCM(plaintext, MasterKey[:], iv, aad)
	if err != nil {
		t.Fatal(err)
	}

	if len(ciphertext) != len(plaintext)+gcmTagSize {
		t.Errorf("got ciphertext length %d, want %d", len(ciphertext), len(plaintext)+gcmTagSize)
	}

	got, err := decodeGCM(ciphertext, MasterKey[:], iv, aad)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(got, plaintext) {
		t.Errorf("got %q, want %q", got, plaintext)
	}
}

func TestGCMWrongAADFails(t *testing.T) {
	t.Parallel()

	iv := make([]byte, 16)
	rand.Read(iv)

	ciphertext, err := encodeGCM([]byte("data"), MasterKey[:], iv, []byte("aad-one"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := decodeGCM(ciphertext, MasterKey[:], iv, []byte("aad-two")); err == nil {
		t.Fatal("expected failure with mismatched AAD")
	}
}
