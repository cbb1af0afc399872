// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/dde-shell-bridge/global"
	"github.com/linuxdeepin/dde-shell-bridge/inputmode"
	"github.com/linuxdeepin/dde-shell-bridge/leisure"
	"github.com/linuxdeepin/dde-shell-bridge/mainloop"
	"github.com/linuxdeepin/dde-shell-bridge/scene"
	"github.com/linuxdeepin/dde-shell-bridge/signals"
	"github.com/linuxdeepin/dde-shell-bridge/xdnd"
	"github.com/linuxdeepin/go-lib/dbusutil"
	"golang.org/x/xerrors"
)

const (
	dbusServiceName = "org.deepin.dde.ShellBridge1"
	dbusPath        = "/org/deepin/dde/ShellBridge1"
	dbusInterface   = dbusServiceName
)

var errLoopStopped = xerrors.New("main loop stopped")

// signalEmitter is the part of *dbusutil.Service used to send signals.
type signalEmitter interface {
	Emit(v dbusutil.Implementer, signalName string, values ...interface{}) error
}

// shellGlobal is what the D-Bus object needs from the global context.
type shellGlobal interface {
	InputMode() *inputmode.Engine
	Xdnd() *xdnd.Relay
	CurrentTime() uint32
	NotifyError(msg, details string)
	ConnectNotifyError(fn func(msg, details string)) signals.HandlerId
	CreatePointerBarrier(x1, y1, x2, y2 int, directions uint32) uint32
	DestroyPointerBarrier(id uint32)
	GetPointer() (x, y int, mods uint16)
	SyncPointer()
	FocusStage()
	SessionMode() string
	EmbedWindow(xid uint32, x, y int) error
	ReleaseEmbeddedWindow(xid uint32) bool
	SetCursor(cursor global.Cursor) error
	UnsetCursor() error
	Leisure() *leisure.Scheduler
	HandleGC()
	LastGCSecondsAgo() float64
	ConnectStageEvent(fn func(ev *scene.Event)) signals.HandlerId
}

// StageRect is the D-Bus form (nnqq) of an input region rectangle.
type StageRect struct {
	X      int16
	Y      int16
	Width  uint16
	Height uint16
}

type ShellBridge struct {
	emitter signalEmitter
	loop    *mainloop.Loop
	g       shellGlobal

	//nolint
	signals *struct {
		StageInputModeChanged struct {
			mode uint32
		}
		XdndPositionChanged struct {
			x int32
			y int32
		}
		XdndEnter struct{}
		XdndLeave struct{}
		NotifyError struct {
			msg     string
			details string
		}
		LeisureReached struct {
			id uint32
		}
		StageEvent struct {
			eventType uint32
			timestamp uint32
			keyval    uint32
			state     uint32
			unicode   uint32
			x         float64
			y         float64
		}
	}
}

func newShellBridge(emitter signalEmitter, loop *mainloop.Loop, g shellGlobal) *ShellBridge {
	return &ShellBridge{
		emitter: emitter,
		loop:    loop,
		g:       g,
	}
}

func (b *ShellBridge) GetInterfaceName() string {
	return dbusInterface
}

// connectSignals forwards the in-process listeners to D-Bus.
func (b *ShellBridge) connectSignals() {
	b.g.InputMode().ConnectModeChanged(func(mode inputmode.Mode) {
		b.emit("StageInputModeChanged", uint32(mode))
	})
	relay := b.g.Xdnd()
	relay.ConnectPositionChanged(func(x, y int) {
		b.emit("XdndPositionChanged", int32(x), int32(y))
	})
	relay.ConnectEnter(func() {
		b.emit("XdndEnter")
	})
	relay.ConnectLeave(func() {
		b.emit("XdndLeave")
	})
	b.g.ConnectNotifyError(func(msg, details string) {
		b.emit("NotifyError", msg, details)
	})
	b.g.ConnectStageEvent(func(ev *scene.Event) {
		b.emit("StageEvent", uint32(ev.Type), ev.Time, ev.Keyval,
			uint32(ev.ModifierState), uint32(ev.UnicodeValue), ev.X, ev.Y)
	})
}

func (b *ShellBridge) emit(name string, values ...interface{}) {
	if b.emitter == nil {
		return
	}
	err := b.emitter.Emit(b, name, values...)
	if err != nil {
		logger.Warning(err)
	}
}

// call runs fn on the loop and waits for it.
func (b *ShellBridge) call(fn func()) *dbus.Error {
	if b.loop.Quitting() {
		return dbusutil.ToError(errLoopStopped)
	}
	ran := false
	b.loop.Call(func() {
		fn()
		ran = true
	})
	if !ran {
		return dbusutil.ToError(errLoopStopped)
	}
	return nil
}

func (b *ShellBridge) SetStageInputMode(mode uint32) *dbus.Error {
	m := inputmode.Mode(mode)
	if !m.Valid() {
		return dbusutil.ToError(xerrors.Errorf("invalid stage input mode %d", mode))
	}
	return b.call(func() {
		b.g.InputMode().SetMode(m)
	})
}

func (b *ShellBridge) GetStageInputMode() (mode uint32, busErr *dbus.Error) {
	busErr = b.call(func() {
		mode = uint32(b.g.InputMode().Mode())
	})
	return
}

func (b *ShellBridge) SetStageInputRegion(rects []StageRect) *dbus.Error {
	region := make([]inputmode.Rectangle, len(rects))
	for i, r := range rects {
		region[i] = inputmode.Rectangle{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
	}
	var err error
	busErr := b.call(func() {
		err = b.g.InputMode().SetInputRegion(region)
	})
	if busErr != nil {
		return busErr
	}
	return dbusutil.ToError(err)
}

func (b *ShellBridge) GetCurrentTime() (timestamp uint32, busErr *dbus.Error) {
	busErr = b.call(func() {
		timestamp = b.g.CurrentTime()
	})
	return
}

func (b *ShellBridge) NotifyError(msg, details string) *dbus.Error {
	return b.call(func() {
		b.g.NotifyError(msg, details)
	})
}

func (b *ShellBridge) CreatePointerBarrier(x1, y1, x2, y2 int32, directions uint32) (id uint32, busErr *dbus.Error) {
	busErr = b.call(func() {
		id = b.g.CreatePointerBarrier(int(x1), int(y1), int(x2), int(y2), directions)
	})
	return
}

func (b *ShellBridge) DestroyPointerBarrier(id uint32) *dbus.Error {
	return b.call(func() {
		b.g.DestroyPointerBarrier(id)
	})
}

func (b *ShellBridge) GetPointer() (x, y int32, mods uint32, busErr *dbus.Error) {
	busErr = b.call(func() {
		px, py, m := b.g.GetPointer()
		x, y, mods = int32(px), int32(py), uint32(m)
	})
	return
}

func (b *ShellBridge) SyncPointer() *dbus.Error {
	return b.call(b.g.SyncPointer)
}

func (b *ShellBridge) FocusStage() *dbus.Error {
	return b.call(b.g.FocusStage)
}

func (b *ShellBridge) SetCursor(cursor uint32) *dbus.Error {
	var err error
	busErr := b.call(func() {
		err = b.g.SetCursor(global.Cursor(cursor))
	})
	if busErr != nil {
		return busErr
	}
	return dbusutil.ToError(err)
}

func (b *ShellBridge) UnsetCursor() *dbus.Error {
	var err error
	busErr := b.call(func() {
		err = b.g.UnsetCursor()
	})
	if busErr != nil {
		return busErr
	}
	return dbusutil.ToError(err)
}

func (b *ShellBridge) GetSessionMode() (string, *dbus.Error) {
	return b.g.SessionMode(), nil
}

func (b *ShellBridge) EmbedWindow(xid uint32, x, y int32) *dbus.Error {
	var err error
	busErr := b.call(func() {
		err = b.g.EmbedWindow(xid, int(x), int(y))
	})
	if busErr != nil {
		return busErr
	}
	return dbusutil.ToError(err)
}

func (b *ShellBridge) ReleaseEmbeddedWindow(xid uint32) (released bool, busErr *dbus.Error) {
	busErr = b.call(func() {
		released = b.g.ReleaseEmbeddedWindow(xid)
	})
	return
}

func (b *ShellBridge) BeginWork() *dbus.Error {
	return b.call(b.g.Leisure().BeginWork)
}

// EndWork refuses an unmatched call instead of tripping the scheduler.
func (b *ShellBridge) EndWork() *dbus.Error {
	var err error
	busErr := b.call(func() {
		sched := b.g.Leisure()
		if sched.WorkCount() == 0 {
			err = xerrors.New("EndWork called without matching BeginWork")
			return
		}
		sched.EndWork()
	})
	if busErr != nil {
		return busErr
	}
	return dbusutil.ToError(err)
}

// RunAtLeisure emits LeisureReached with id once no work is outstanding.
func (b *ShellBridge) RunAtLeisure(id uint32) *dbus.Error {
	return b.call(func() {
		b.g.Leisure().RunAtLeisure(func(data interface{}) {
			b.emit("LeisureReached", data.(uint32))
		}, id, nil)
	})
}

func (b *ShellBridge) NotifyGC() *dbus.Error {
	return b.call(b.g.HandleGC)
}

func (b *ShellBridge) GetLastGCSecondsAgo() (seconds float64, busErr *dbus.Error) {
	busErr = b.call(func() {
		seconds = b.g.LastGCSecondsAgo()
	})
	return
}

func startDBus(loop *mainloop.Loop, g *global.Global) error {
	service, err := dbusutil.NewSessionService()
	if err != nil {
		return xerrors.Errorf("connect session bus: %w", err)
	}

	// the loop is not running yet
	b := newShellBridge(service, loop, g)
	b.connectSignals()

	err = service.Export(dbusPath, b)
	if err != nil {
		return err
	}

	err = service.RequestName(dbusServiceName)
	if err != nil {
		return xerrors.Errorf("request name %s: %w", dbusServiceName, err)
	}
	return nil
}
