// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package toolkit

import (
	"github.com/linuxdeepin/dde-shell-bridge/signals"
)

// WindowBackend performs the server side of window geometry and mapping.
type WindowBackend interface {
	MoveResizeWindow(xid uint32, x, y, width, height int) error
	MapWindow(xid uint32) error
	UnmapWindow(xid uint32) error
}

// Window is a toolkit top-level window backed by an X window. A window
// may be embedded by one actor at a time, tracked through a non-owning
// back pointer.
type Window struct {
	backend WindowBackend

	xid       uint32
	realized  bool
	destroyed bool
	visible   bool
	mapped    bool

	naturalWidth, naturalHeight int
	x, y, width, height         int

	actor interface{}

	realizeSignal signals.List[func()]
	destroySignal signals.List[func()]
}

func NewWindow(backend WindowBackend) *Window {
	if backend == nil {
		panic("toolkit: nil window backend")
	}
	return &Window{backend: backend}
}

func (w *Window) XID() uint32 {
	return w.xid
}

func (w *Window) Realized() bool {
	return w.realized
}

func (w *Window) Destroyed() bool {
	return w.destroyed
}

// Realize attaches the native window xid and emits realize.
func (w *Window) Realize(xid uint32) {
	if w.destroyed || w.realized {
		return
	}
	w.xid = xid
	w.realized = true
	w.realizeSignal.Emit(func(fn func()) { fn() })
}

// Destroy emits destroy once. Listeners may drop their references.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.visible = false
	w.mapped = false
	w.destroySignal.Emit(func(fn func()) { fn() })
	w.actor = nil
}

func (w *Window) ConnectRealize(fn func()) signals.HandlerId {
	return w.realizeSignal.Connect(fn)
}

func (w *Window) ConnectDestroy(fn func()) signals.HandlerId {
	return w.destroySignal.Connect(fn)
}

func (w *Window) DisconnectRealize(id signals.HandlerId) {
	w.realizeSignal.Disconnect(id)
}

func (w *Window) DisconnectDestroy(id signals.HandlerId) {
	w.destroySignal.Disconnect(id)
}

func (w *Window) SetVisible(visible bool) {
	w.visible = visible
}

func (w *Window) Visible() bool {
	return w.visible
}

func (w *Window) SetPreferredSize(width, height int) {
	w.naturalWidth, w.naturalHeight = width, height
}

// PreferredSize returns the natural size of the window contents.
func (w *Window) PreferredSize() (width, height int) {
	return w.naturalWidth, w.naturalHeight
}

// Allocate moves and resizes the native window to the given absolute
// geometry.
func (w *Window) Allocate(x, y, width, height int) {
	w.x, w.y, w.width, w.height = x, y, width, height
	if !w.realized || w.destroyed {
		return
	}
	err := w.backend.MoveResizeWindow(w.xid, x, y, width, height)
	if err != nil {
		logger.Warning("failed to move resize window:", err)
	}
}

func (w *Window) Geometry() (x, y, width, height int) {
	return w.x, w.y, w.width, w.height
}

func (w *Window) Map() {
	if w.mapped || !w.realized || w.destroyed {
		return
	}
	w.mapped = true
	if err := w.backend.MapWindow(w.xid); err != nil {
		logger.Warning("failed to map window:", err)
	}
}

func (w *Window) Unmap() {
	if !w.mapped {
		return
	}
	w.mapped = false
	if err := w.backend.UnmapWindow(w.xid); err != nil {
		logger.Warning("failed to unmap window:", err)
	}
}

func (w *Window) Mapped() bool {
	return w.mapped
}

// SetActor records the actor embedding the window, or clears it with nil.
func (w *Window) SetActor(actor interface{}) {
	if actor != nil && w.actor != nil && w.actor != actor {
		panic("toolkit: window is already embedded by another actor")
	}
	w.actor = actor
}

func (w *Window) Actor() interface{} {
	return w.actor
}
