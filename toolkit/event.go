// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package toolkit models the foreign toolkit the shell shares the display
// with: its central event dispatch path, its grab notifications and its
// top-level windows.
package toolkit

import (
	"github.com/linuxdeepin/dde-shell-bridge/signals"
	"github.com/linuxdeepin/go-lib/log"
)

var logger = log.NewLogger("dde-shell-bridge/toolkit")

func SetLogLevel(level log.Priority) {
	logger.SetLogLevel(level)
}

type EventType int

const (
	EventNothing EventType = iota
	EventKeyPress
	EventKeyRelease
	EventButtonPress
	EventButtonRelease
	EventMotionNotify
)

func (t EventType) IsKey() bool {
	return t == EventKeyPress || t == EventKeyRelease
}

type Event struct {
	Type      EventType
	Window    uint32
	SendEvent bool
	Time      uint32

	State           uint16
	Keyval          uint32
	HardwareKeycode uint16
}

// Dispatcher is the toolkit's central event path. Events put into it are
// handed to the installed event handler, which decides whether to call
// MainDoEvent for the default processing.
type Dispatcher struct {
	queue   []*Event
	handler func(ev *Event)
	sinks   signals.List[func(ev *Event)]
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// SetEventHandler replaces the handler; nil restores direct delivery to
// MainDoEvent.
func (d *Dispatcher) SetEventHandler(fn func(ev *Event)) {
	d.handler = fn
}

// ConnectDefault registers a receiver of the default event processing.
func (d *Dispatcher) ConnectDefault(fn func(ev *Event)) signals.HandlerId {
	return d.sinks.Connect(fn)
}

func (d *Dispatcher) DisconnectDefault(id signals.HandlerId) bool {
	return d.sinks.Disconnect(id)
}

func (d *Dispatcher) Put(ev *Event) {
	d.queue = append(d.queue, ev)
}

func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// Dispatch hands every queued event to the handler.
func (d *Dispatcher) Dispatch() int {
	events := d.queue
	d.queue = nil
	for _, ev := range events {
		if d.handler != nil {
			d.handler(ev)
		} else {
			d.MainDoEvent(ev)
		}
	}
	return len(events)
}

// MainDoEvent runs the default processing of ev.
func (d *Dispatcher) MainDoEvent(ev *Event) {
	if d.sinks.Len() == 0 {
		logger.Debugf("unhandled toolkit event type %d on window %d", ev.Type, ev.Window)
		return
	}
	d.sinks.Emit(func(fn func(ev *Event)) {
		fn(ev)
	})
}

// GrabNotifier reports pointer or keyboard grabs held by the toolkit with
// the grab-notify convention: listeners get wasGrabbed=false when a grab
// starts and wasGrabbed=true when it ends.
type GrabNotifier struct {
	depth     int
	listeners signals.List[func(wasGrabbed bool)]
}

func (g *GrabNotifier) Connect(fn func(wasGrabbed bool)) signals.HandlerId {
	return g.listeners.Connect(fn)
}

func (g *GrabNotifier) Disconnect(id signals.HandlerId) bool {
	return g.listeners.Disconnect(id)
}

func (g *GrabNotifier) Grabbed() bool {
	return g.depth > 0
}

func (g *GrabNotifier) Grab() {
	g.depth++
	if g.depth == 1 {
		g.notify(false)
	}
}

// Ungrab ends one grab. Extra calls are ignored.
func (g *GrabNotifier) Ungrab() {
	if g.depth == 0 {
		return
	}
	g.depth--
	if g.depth == 0 {
		g.notify(true)
	}
}

func (g *GrabNotifier) notify(wasGrabbed bool) {
	logger.Debug("grab notify, was grabbed:", wasGrabbed)
	g.listeners.Emit(func(fn func(bool)) {
		fn(wasGrabbed)
	})
}
