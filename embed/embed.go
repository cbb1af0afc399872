// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package embed shows a toolkit top-level window inside the scene as an
// actor textured with the window contents.
package embed

import (
	"github.com/linuxdeepin/dde-shell-bridge/scene"
	"github.com/linuxdeepin/dde-shell-bridge/signals"
	"github.com/linuxdeepin/go-lib/log"
)

var logger = log.NewLogger("dde-shell-bridge/embed")

func SetLogLevel(level log.Priority) {
	logger.SetLogLevel(level)
}

// Window is the toolkit side of an embedded window.
type Window interface {
	XID() uint32
	Realized() bool
	Visible() bool
	PreferredSize() (width, height int)
	Allocate(x, y, width, height int)
	Map()
	Unmap()
	SetActor(actor interface{})

	ConnectRealize(fn func()) signals.HandlerId
	DisconnectRealize(id signals.HandlerId)
	ConnectDestroy(fn func()) signals.HandlerId
	DisconnectDestroy(id signals.HandlerId)
}

// TextureSource renders a native window as the actor contents. xid 0
// detaches the current window. With automatic false the server stops
// drawing the window to the screen itself. Forget drops the current window
// without telling the server, for windows that no longer exist.
type TextureSource interface {
	SetWindow(xid uint32, automatic bool)
	Forget()
}

type Embed struct {
	scene.Actor

	texture TextureSource
	window  Window

	realizeHandler signals.HandlerId
	destroyHandler signals.HandlerId
}

func New(texture TextureSource) *Embed {
	if texture == nil {
		panic("embed: nil texture source")
	}
	e := &Embed{texture: texture}
	e.Init(e)
	return e
}

func (e *Embed) Window() Window {
	return e.window
}

// SetWindow embeds window, replacing the current one. nil unbinds.
func (e *Embed) SetWindow(window Window) {
	if e.window == window {
		return
	}
	if e.window != nil {
		e.unbind(true)
	}
	if window == nil {
		return
	}

	window.SetActor(e)
	e.window = window
	e.realizeHandler = window.ConnectRealize(e.onRealize)
	e.destroyHandler = window.ConnectDestroy(e.onDestroy)
	if window.Realized() {
		e.onRealize()
	}
	e.QueueRelayout()
}

// unbind with detach false leaves the server alone, the window is gone.
func (e *Embed) unbind(detach bool) {
	w := e.window
	if detach {
		e.texture.SetWindow(0, false)
	} else {
		e.texture.Forget()
	}
	w.DisconnectRealize(e.realizeHandler)
	w.DisconnectDestroy(e.destroyHandler)
	e.realizeHandler = 0
	e.destroyHandler = 0
	w.SetActor(nil)
	e.window = nil
	e.QueueRelayout()
}

func (e *Embed) onRealize() {
	xid := e.window.XID()
	logger.Debugf("embed window %#x", xid)
	e.texture.SetWindow(xid, false)
}

func (e *Embed) onDestroy() {
	logger.Debug("embedded window destroyed")
	if e.window != nil {
		e.unbind(false)
	}
}

// Allocate pushes the absolute geometry of the actor to the window.
func (e *Embed) Allocate(box scene.Box) {
	e.Actor.Allocate(box)
	if e.window == nil {
		return
	}
	x, y := e.AbsolutePosition()
	e.window.Allocate(scene.Round(x), scene.Round(y),
		scene.Round(box.Width()), scene.Round(box.Height()))
}

func (e *Embed) Map() {
	e.Actor.Map()
	if e.window != nil {
		e.window.Map()
	}
}

func (e *Embed) Unmap() {
	e.Actor.Unmap()
	if e.window != nil {
		e.window.Unmap()
	}
}

func (e *Embed) PreferredWidth(forHeight float64) (min, natural float64) {
	if e.window == nil || !e.window.Visible() {
		return 0, 0
	}
	w, _ := e.window.PreferredSize()
	return float64(w), float64(w)
}

func (e *Embed) PreferredHeight(forWidth float64) (min, natural float64) {
	if e.window == nil || !e.window.Visible() {
		return 0, 0
	}
	_, h := e.window.PreferredSize()
	return float64(h), float64(h)
}

// Destroy removes the actor from the scene, then releases the window.
func (e *Embed) Destroy() {
	e.Actor.Destroy()
	e.SetWindow(nil)
}
