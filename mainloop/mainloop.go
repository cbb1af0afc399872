// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mainloop runs every piece of shell state on one cooperative loop.
//
// X events are dispatched by xgbutil on its own goroutine, but only between
// a "before" and an "after" ping while the loop goroutine is parked waiting
// for the "after" ping, so event callbacks never overlap loop tasks. Work
// coming from other goroutines (D-Bus handlers, file watchers, settings
// callbacks) is posted with Invoke or Call.
package mainloop

import (
	"sync"
)

const taskQueueSize = 64

type Loop struct {
	tasks chan func()
	idles []func()

	before        <-chan struct{}
	after         <-chan struct{}
	sourceQuit    <-chan struct{}
	afterDispatch func()

	quit     chan struct{}
	quitOnce sync.Once
}

func New() *Loop {
	return &Loop{
		tasks: make(chan func(), taskQueueSize),
		quit:  make(chan struct{}),
	}
}

// AttachEventSource connects the ping channels of an external event
// dispatcher, such as the ones returned by xevent.MainPing. afterDispatch,
// if not nil, runs on the loop after each dispatched event.
func (l *Loop) AttachEventSource(before, after, quit <-chan struct{}, afterDispatch func()) {
	l.before = before
	l.after = after
	l.sourceQuit = quit
	l.afterDispatch = afterDispatch
}

// Invoke posts fn to run on the loop. It is safe to call from any goroutine.
// Calls made after Quit are dropped.
func (l *Loop) Invoke(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.quit:
	}
}

// Call posts fn and waits until it has run. It must not be called from the
// loop itself.
func (l *Loop) Call(fn func()) {
	done := make(chan struct{})
	l.Invoke(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
	case <-l.quit:
	}
}

// IdleAdd queues fn to run once nothing else is pending. Loop only.
func (l *Loop) IdleAdd(fn func()) {
	l.idles = append(l.idles, fn)
}

func (l *Loop) PendingIdles() int {
	return len(l.idles)
}

// Iterate runs one unit of work: a pending event, a posted task, or, when
// neither is pending, one idle callback. With block set it waits for work
// when there is none. It reports whether anything ran.
func (l *Loop) Iterate(block bool) bool {
	select {
	case <-l.before:
		l.dispatchEvent()
		return true
	case fn := <-l.tasks:
		fn()
		return true
	default:
	}

	if len(l.idles) > 0 {
		fn := l.idles[0]
		l.idles[0] = nil
		l.idles = l.idles[1:]
		fn()
		return true
	}

	if !block {
		return false
	}

	select {
	case <-l.before:
		l.dispatchEvent()
		return true
	case fn := <-l.tasks:
		fn()
		return true
	case <-l.sourceQuit:
		l.Quit()
	case <-l.quit:
	}
	return false
}

func (l *Loop) dispatchEvent() {
	<-l.after
	if l.afterDispatch != nil {
		l.afterDispatch()
	}
}

// Run iterates until Quit is called or the event source stops.
func (l *Loop) Run() {
	for !l.Quitting() {
		l.Iterate(true)
	}
}

func (l *Loop) Quit() {
	l.quitOnce.Do(func() {
		close(l.quit)
	})
}

func (l *Loop) Quitting() bool {
	select {
	case <-l.quit:
		return true
	default:
		return false
	}
}
