// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package metrics

import (
	"testing"
	"time"
)

func TestHostCollectorImplementsCollector(t *testing.T) {
	t.Parallel()

	var _ Collector = NewHostCollector(time.Millisecond)
}

func TestHostCollectorReturnsNonNegativeValues(t *testing.T) {
	c := NewHostCollector(time.Millisecond)

	if c.CPUPercent() < 0 {
		t.Error("expected non-negative CPU percent")
	}
	if c.MemPercent() < 0 {
		t.Error("expected non-negative memory percent")
	}
	if c.Uptime() < 0 {
		t.Error("expected non-negative uptime")
	}
}
