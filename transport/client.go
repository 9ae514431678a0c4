// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package transport carries inform frames over HTTP to a management
// controller, and exposes a small read-only debug surface for
// introspecting a running fleet.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/comail/go-uuid/uuid"
	"golang.org/x/net/http2"
)

// Client posts inform frames to a controller's /inform endpoint.
type Client struct {
	addr  string
	httpc *http.Client
}

// NewClient returns a Client posting to a controller reachable at
// addr (host, or host:port; port 8080 is assumed if absent). http2 is
// negotiated over plain http.Client via x/net's h2c-capable transport
// so the same client works whether or not the controller speaks TLS.
func NewClient(addr string) *Client {
	return &Client{
		addr: addr,
		httpc: &http.Client{
			Timeout:   30 * time.Second,
			Transport: &http2.Transport{AllowHTTP: true},
		},
	}
}

// informURL returns the controller's inform endpoint for addr. A bare
// hostname gets the controller's default port; an addr that already
// names a port (as in tests, against an ephemeral httptest server) is
// used as-is.
func (c *Client) informURL() string {
	if strings.Contains(c.addr, ":") {
		return fmt.Sprintf("http://%s/inform", c.addr)
	}
	return fmt.Sprintf("http://%s:8080/inform", c.addr)
}

// PostInform sends an encoded inform frame and returns the raw
// response body. Implements device.Poster.
func (c *Client) PostInform(ctx context.Context, body []byte) ([]byte, error) {
	reqID := uuid.NewUUID().String()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.informURL(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-Id", reqID)

	log.Printf("trace: transport: req=%s POST %s (%d bytes)", reqID, c.informURL(), len(body))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer logClose(resp.Body)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("warn: transport: req=%s controller responded %d", reqID, resp.StatusCode)
		return nil, fmt.Errorf("transport: unexpected status %d", resp.StatusCode)
	}

	log.Printf("trace: transport: req=%s response %d bytes", reqID, len(respBody))
	return respBody, nil
}

func logClose(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Printf("error: transport: %s", err)
	}
}
