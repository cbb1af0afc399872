// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package wmfocus

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatcherStop(t *testing.T) {
	if os.Getenv("DISPLAY") == "" {
		t.Skip("no X display")
	}
	w, err := NewWatcher()
	if err != nil {
		t.Skip("X server unusable:", err)
	}

	done := make(chan struct{})
	go func() {
		w.Run(func(win uint32) {})
		close(done)
	}()
	w.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		assert.Fail(t, "watcher did not stop")
	}
}
