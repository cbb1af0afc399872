// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package wmfocus reports focus window changes announced by the window
// manager through _NET_ACTIVE_WINDOW.
package wmfocus

import (
	"github.com/linuxdeepin/go-lib/log"
	"github.com/linuxdeepin/go-x11-client"
	"github.com/linuxdeepin/go-x11-client/util/wm/ewmh"
	"golang.org/x/xerrors"
)

var logger = log.NewLogger("dde-shell-bridge/wmfocus")

func SetLogLevel(level log.Priority) {
	logger.SetLogLevel(level)
}

// Handler receives the new focus window, 0 when no window is focused. It
// is called from the watcher goroutine.
type Handler func(win uint32)

// Watcher uses a connection of its own so it keeps working while the
// main connection is busy dispatching.
type Watcher struct {
	conn       *x.Conn
	root       x.Window
	atomActive x.Atom
	eventChan  chan x.GenericEvent
	quit       chan struct{}
	lastWin    x.Window
}

func NewWatcher() (*Watcher, error) {
	conn, err := x.NewConn()
	if err != nil {
		return nil, xerrors.Errorf("connect to X: %w", err)
	}

	root := conn.GetDefaultScreen().Root
	err = x.ChangeWindowAttributesChecked(conn, root, x.CWEventMask, []uint32{
		x.EventMaskPropertyChange}).Check(conn)
	if err != nil {
		conn.Close()
		return nil, xerrors.Errorf("select property events on root: %w", err)
	}

	atomActive, err := conn.GetAtom("_NET_ACTIVE_WINDOW")
	if err != nil {
		conn.Close()
		return nil, xerrors.Errorf("get _NET_ACTIVE_WINDOW atom: %w", err)
	}

	w := &Watcher{
		conn:       conn,
		root:       root,
		atomActive: atomActive,
		eventChan:  make(chan x.GenericEvent, 10),
		quit:       make(chan struct{}),
	}
	conn.AddEventChan(w.eventChan)
	return w, nil
}

// Run calls handler on every change of the active window until Stop.
func (w *Watcher) Run(handler Handler) {
	for {
		select {
		case ev := <-w.eventChan:
			if ev.GetEventCode() != x.PropertyNotifyEventCode {
				continue
			}
			event, err := x.NewPropertyNotifyEvent(ev)
			if err != nil {
				logger.Warning(err)
				continue
			}
			w.handlePropNotifyEvent(event, handler)
		case <-w.quit:
			return
		}
	}
}

func (w *Watcher) handlePropNotifyEvent(event *x.PropertyNotifyEvent, handler Handler) {
	if event.Atom != w.atomActive || event.Window != w.root {
		return
	}

	activeWin, err := ewmh.GetActiveWindow(w.conn).Reply(w.conn)
	if err != nil {
		logger.Warning("failed to get active window:", err)
		return
	}
	if activeWin == w.lastWin {
		return
	}
	w.lastWin = activeWin
	logger.Debugf("active window changed to %#x", uint32(activeWin))
	if handler != nil {
		handler(uint32(activeWin))
	}
}

func (w *Watcher) Stop() {
	close(w.quit)
	w.conn.Close()
}
