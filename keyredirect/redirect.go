// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package keyredirect moves key events that reach the stage window through
// the toolkit's event queue onto the scene's own event path.
//
// Input methods forward processed keys asynchronously by synthesizing key
// events for the focus window. For the stage that window belongs to the
// toolkit's queue, where the key would either be delivered twice or arrive
// with a stale timestamp.
package keyredirect

import (
	"github.com/linuxdeepin/dde-shell-bridge/scene"
	"github.com/linuxdeepin/dde-shell-bridge/toolkit"
	"github.com/linuxdeepin/go-lib/log"
)

var logger = log.NewLogger("dde-shell-bridge/keyredirect")

func SetLogLevel(level log.Priority) {
	logger.SetLogLevel(level)
}

type Redirector struct {
	stageWindow uint32
	stage       *scene.Stage
	dispatcher  *toolkit.Dispatcher
}

func New(stageWindow uint32, stage *scene.Stage, dispatcher *toolkit.Dispatcher) *Redirector {
	if stage == nil || dispatcher == nil {
		panic("keyredirect: nil stage or dispatcher")
	}
	return &Redirector{
		stageWindow: stageWindow,
		stage:       stage,
		dispatcher:  dispatcher,
	}
}

// Install makes the redirector the event handler of its dispatcher.
func (r *Redirector) Install() {
	r.dispatcher.SetEventHandler(r.Handle)
}

func (r *Redirector) Uninstall() {
	r.dispatcher.SetEventHandler(nil)
}

// Handle filters ev and passes it on to the toolkit when not redirected.
func (r *Redirector) Handle(ev *toolkit.Event) {
	if r.Filter(ev) {
		return
	}
	r.dispatcher.MainDoEvent(ev)
}

// Filter reports whether ev was redirected to the scene. Only key events
// targeting the stage window are.
func (r *Redirector) Filter(ev *toolkit.Event) bool {
	if ev == nil || !ev.Type.IsKey() {
		return false
	}
	if ev.Window != r.stageWindow {
		return false
	}

	sceneEv := &scene.Event{
		Type:            scene.EventKeyPress,
		Time:            ev.Time,
		Flags:           scene.EventFlagNone,
		Stage:           r.stage,
		Device:          scene.DeviceCoreKeyboard,
		ModifierState:   ev.State,
		Keyval:          ev.Keyval,
		HardwareKeycode: ev.HardwareKeycode,
		UnicodeValue:    keyvalToUnicode(ev.Keyval),
	}
	if ev.Type == toolkit.EventKeyRelease {
		sceneEv.Type = scene.EventKeyRelease
	}
	logger.Debugf("redirect %v keyval %#x time %d", sceneEv.Type, ev.Keyval, ev.Time)
	r.stage.Put(sceneEv)
	return true
}
