// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package xdnd answers Xdnd drag positions on behalf of the stage and
// forwards enter, position and leave to listeners.
package xdnd

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/linuxdeepin/dde-shell-bridge/signals"
	"github.com/linuxdeepin/go-lib/log"
	"golang.org/x/xerrors"
)

var logger = log.NewLogger("dde-shell-bridge/xdnd")

func SetLogLevel(level log.Priority) {
	logger.SetLogLevel(level)
}

const (
	Version = 5

	statusAccept   = 1 << 0
	statusWantMore = 1 << 1
)

// Atoms holds the protocol message types and property names.
type Atoms struct {
	XdndPosition xproto.Atom
	XdndStatus   xproto.Atom
	XdndEnter    xproto.Atom
	XdndLeave    xproto.Atom
}

// Conn is the part of the X connection the relay writes to.
type Conn interface {
	SendClientMessage(dest xproto.Window, ev *xproto.ClientMessageEvent) error
	ChangeProp32(win xproto.Window, prop, typ string, data ...uint) error
}

type Relay struct {
	conn    Conn
	atoms   Atoms
	overlay xproto.Window
	stage   xproto.Window

	enabled   bool
	timestamp uint32

	positionChanged signals.List[func(x, y int)]
	entered         signals.List[func()]
	left            signals.List[func()]
}

func NewRelay(conn Conn, atoms Atoms, overlay, stage xproto.Window) *Relay {
	if conn == nil {
		panic("xdnd: nil connection")
	}
	return &Relay{
		conn:    conn,
		atoms:   atoms,
		overlay: overlay,
		stage:   stage,
		enabled: true,
	}
}

// Enable advertises Xdnd support on the stage and points the overlay at
// it through XdndProxy.
func (r *Relay) Enable() error {
	err := r.conn.ChangeProp32(r.stage, "XdndAware", "ATOM", Version)
	if err != nil {
		return xerrors.Errorf("set XdndAware: %w", err)
	}
	for _, win := range []xproto.Window{r.overlay, r.stage} {
		err = r.conn.ChangeProp32(win, "XdndProxy", "WINDOW", uint(r.stage))
		if err != nil {
			return xerrors.Errorf("set XdndProxy on %d: %w", win, err)
		}
	}
	return nil
}

// SetEnabled switches event handling. A disabled relay declines every event.
func (r *Relay) SetEnabled(enabled bool) {
	r.enabled = enabled
}

func (r *Relay) Enabled() bool {
	return r.enabled
}

// Timestamp returns the time of the XdndPosition being handled, or 0
// outside of position handling.
func (r *Relay) Timestamp() uint32 {
	return r.timestamp
}

func (r *Relay) ConnectPositionChanged(fn func(x, y int)) signals.HandlerId {
	return r.positionChanged.Connect(fn)
}

func (r *Relay) DisconnectPositionChanged(id signals.HandlerId) bool {
	return r.positionChanged.Disconnect(id)
}

func (r *Relay) ConnectEnter(fn func()) signals.HandlerId {
	return r.entered.Connect(fn)
}

func (r *Relay) DisconnectEnter(id signals.HandlerId) bool {
	return r.entered.Disconnect(id)
}

func (r *Relay) ConnectLeave(fn func()) signals.HandlerId {
	return r.left.Connect(fn)
}

func (r *Relay) DisconnectLeave(id signals.HandlerId) bool {
	return r.left.Disconnect(id)
}

// HandleEvent reports whether ev was consumed. Only ClientMessage events
// sent to the overlay or the stage window are looked at.
func (r *Relay) HandleEvent(ev interface{}) bool {
	if !r.enabled {
		return false
	}

	var cm *xproto.ClientMessageEvent
	switch e := ev.(type) {
	case xproto.ClientMessageEvent:
		cm = &e
	case *xproto.ClientMessageEvent:
		cm = e
	default:
		return false
	}
	if cm == nil || cm.Format != 32 || len(cm.Data.Data32) < 5 {
		return false
	}
	if cm.Window != r.overlay && cm.Window != r.stage {
		return false
	}

	switch cm.Type {
	case r.atoms.XdndPosition:
		r.handlePosition(cm)
		return true
	case r.atoms.XdndLeave:
		r.left.Emit(func(fn func()) { fn() })
		return true
	case r.atoms.XdndEnter:
		r.entered.Emit(func(fn func()) { fn() })
		return true
	}
	return false
}

func (r *Relay) handlePosition(cm *xproto.ClientMessageEvent) {
	l := cm.Data.Data32
	source := xproto.Window(l[0])

	status := &xproto.ClientMessageEvent{
		Format: 32,
		Window: source,
		Type:   r.atoms.XdndStatus,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(r.overlay),
			statusAccept | statusWantMore,
			0,
			0,
			xproto.AtomNone,
		}),
	}
	err := r.conn.SendClientMessage(source, status)
	if err != nil {
		logger.Warning("failed to send XdndStatus:", err)
	}

	x := int(l[2] >> 16)
	y := int(l[2] & 0xffff)

	r.timestamp = l[3]
	defer func() {
		r.timestamp = 0
	}()
	r.positionChanged.Emit(func(fn func(x, y int)) {
		fn(x, y)
	})
}
