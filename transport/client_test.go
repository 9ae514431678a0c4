// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestInformURL(t *testing.T) {
	t.Parallel()

	c := NewClient("unifi")
	if got, want := c.informURL(), "http://unifi:8080/inform"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	c = NewClient("127.0.0.1:9001")
	if got, want := c.informURL(), "http://127.0.0.1:9001/inform"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPostInformSuccess(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	var gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReqID = r.Header.Get("X-Request-Id")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte("response-bytes"))
	}))
	defer srv.Close()

	c := &Client{addr: strings.TrimPrefix(srv.URL, "http://"), httpc: srv.Client()}

	resp, err := c.PostInform(context.Background(), []byte("request-bytes"))
	if err != nil {
		t.Fatal(err)
	}

	if string(resp) != "response-bytes" {
		t.Errorf("got %q", resp)
	}
	if string(gotBody) != "request-bytes" {
		t.Errorf("got body %q", gotBody)
	}
	if gotReqID == "" {
		t.Error("expected X-Request-Id header to be set")
	}
}

func TestPostInformNonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := &Client{addr: strings.TrimPrefix(srv.URL, "http://"), httpc: srv.Client()}
	if _, err := c.PostInform(context.Background(), []byte("x")); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}
