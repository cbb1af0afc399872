// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package mainloop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_TasksBeforeIdles(t *testing.T) {
	l := New()
	var order []string
	l.IdleAdd(func() { order = append(order, "idle") })
	l.Invoke(func() { order = append(order, "task1") })
	l.Invoke(func() { order = append(order, "task2") })

	for l.Iterate(false) {
	}
	assert.Equal(t, []string{"task1", "task2", "idle"}, order)
	assert.Equal(t, 0, l.PendingIdles())
}

func TestLoop_IdleYieldsToNewTasks(t *testing.T) {
	l := New()
	var order []string
	l.IdleAdd(func() {
		order = append(order, "idle1")
		l.Invoke(func() { order = append(order, "task") })
	})
	l.IdleAdd(func() { order = append(order, "idle2") })

	for l.Iterate(false) {
	}
	assert.Equal(t, []string{"idle1", "task", "idle2"}, order)
}

func TestLoop_EventSource(t *testing.T) {
	l := New()
	before := make(chan struct{})
	after := make(chan struct{})
	dispatched := 0
	l.AttachEventSource(before, after, nil, func() { dispatched++ })

	go func() {
		before <- struct{}{}
		after <- struct{}{}
	}()

	require.True(t, l.Iterate(true))
	assert.Equal(t, 1, dispatched)
}

func TestLoop_CallAndQuit(t *testing.T) {
	l := New()
	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()

	var value int
	l.Call(func() { value = 42 })
	assert.Equal(t, 42, value)

	l.Quit()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not quit")
	}
	assert.True(t, l.Quitting())

	// dropped, must not block
	l.Invoke(func() {})
}

func TestLoop_SourceQuit(t *testing.T) {
	l := New()
	quit := make(chan struct{})
	l.AttachEventSource(nil, nil, quit, nil)
	close(quit)
	assert.False(t, l.Iterate(true))
	assert.True(t, l.Quitting())
}
