// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package global holds the shell context shared by every component: the
// stage, the input policy, the Xdnd relay, the key redirector, embedded
// windows and the leisure scheduler. One Global is built at startup and
// handed to whoever needs it.
package global

import (
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/davecgh/go-spew/spew"
	"github.com/linuxdeepin/dde-shell-bridge/embed"
	"github.com/linuxdeepin/dde-shell-bridge/inputmode"
	"github.com/linuxdeepin/dde-shell-bridge/keyredirect"
	"github.com/linuxdeepin/dde-shell-bridge/leisure"
	"github.com/linuxdeepin/dde-shell-bridge/mainloop"
	"github.com/linuxdeepin/dde-shell-bridge/scene"
	"github.com/linuxdeepin/dde-shell-bridge/signals"
	"github.com/linuxdeepin/dde-shell-bridge/toolkit"
	"github.com/linuxdeepin/dde-shell-bridge/xdnd"
	"github.com/linuxdeepin/go-lib/log"
	"golang.org/x/xerrors"
)

var logger = log.NewLogger("dde-shell-bridge/global")

func SetLogLevel(level log.Priority) {
	logger.SetLogLevel(level)
}

type Options struct {
	SessionMode string
	// DataDir is the installed data directory.
	DataDir string
	// UserDataDir defaults to the XDG data dir when empty.
	UserDataDir string

	StageWindow   uint32
	OverlayWindow uint32
	ScreenWidth   int
	ScreenHeight  int
	XdndAtoms     xdnd.Atoms

	EnableKeyRedirect bool
	EnableXdnd        bool
}

type Global struct {
	loop    *mainloop.Loop
	display Display
	opts    Options
	dirs    dirs

	stage       *scene.Stage
	dispatcher  *toolkit.Dispatcher
	grabs       *toolkit.GrabNotifier
	input       *inputmode.Engine
	relay       *xdnd.Relay
	redirector  *keyredirect.Redirector
	leisure     *leisure.Scheduler
	embeds      map[uint32]*embed.Embed
	lastGCEnd   time.Time
	cursor      Cursor
	modal       bool
	destroyed   bool
	errorSignal signals.List[func(msg, details string)]
	stageEvents signals.List[func(ev *scene.Event)]
}

func New(loop *mainloop.Loop, display Display, opts Options) (*Global, error) {
	if loop == nil || display == nil {
		panic("global: nil loop or display")
	}

	dirs, err := newDirs(opts.DataDir, opts.UserDataDir)
	if err != nil {
		return nil, err
	}

	g := &Global{
		loop:       loop,
		display:    display,
		opts:       opts,
		dirs:       dirs,
		stage:      scene.NewStage(float64(opts.ScreenWidth), float64(opts.ScreenHeight)),
		dispatcher: toolkit.NewDispatcher(),
		grabs:      &toolkit.GrabNotifier{},
		leisure:    leisure.NewScheduler(loop),
		embeds:     make(map[uint32]*embed.Embed),
	}
	g.stage.SetEventHandler(g.handleStageEvent)
	g.stage.Map()

	g.input = inputmode.NewEngine(display, g, opts.StageWindow)
	observer := inputmode.NewGrabObserver(g.input)
	g.grabs.Connect(observer.Notify)

	g.relay = xdnd.NewRelay(display, opts.XdndAtoms,
		xproto.Window(opts.OverlayWindow), xproto.Window(opts.StageWindow))
	err = g.relay.Enable()
	if err != nil {
		return nil, xerrors.Errorf("enable Xdnd: %w", err)
	}
	g.relay.SetEnabled(opts.EnableXdnd)

	g.redirector = keyredirect.New(opts.StageWindow, g.stage, g.dispatcher)
	if opts.EnableKeyRedirect {
		g.redirector.Install()
	}

	g.input.SetMode(inputmode.ModeNormal)
	logger.Debug("global context ready:", spew.Sdump(opts))
	return g, nil
}

func (g *Global) check() {
	if g.destroyed {
		panic("global: used after Destroy")
	}
}

func (g *Global) Loop() *mainloop.Loop {
	return g.loop
}

func (g *Global) Stage() *scene.Stage {
	g.check()
	return g.stage
}

func (g *Global) Toolkit() *toolkit.Dispatcher {
	g.check()
	return g.dispatcher
}

func (g *Global) Grabs() *toolkit.GrabNotifier {
	g.check()
	return g.grabs
}

func (g *Global) InputMode() *inputmode.Engine {
	g.check()
	return g.input
}

func (g *Global) Xdnd() *xdnd.Relay {
	g.check()
	return g.relay
}

func (g *Global) KeyRedirector() *keyredirect.Redirector {
	g.check()
	return g.redirector
}

func (g *Global) Leisure() *leisure.Scheduler {
	g.check()
	return g.leisure
}

// SetXdndEnabled switches the Xdnd relay.
func (g *Global) SetXdndEnabled(enabled bool) {
	g.check()
	logger.Debug("xdnd enabled:", enabled)
	g.relay.SetEnabled(enabled)
}

// SetKeyRedirect installs or removes the key redirector.
func (g *Global) SetKeyRedirect(enabled bool) {
	g.check()
	if enabled {
		g.redirector.Install()
	} else {
		g.redirector.Uninstall()
	}
}

// CurrentTime returns the best known time of the event being handled: the
// Xdnd position being answered, then the X event being dispatched, then the
// scene event being delivered. It returns 0 when none applies.
func (g *Global) CurrentTime() uint32 {
	g.check()
	if t := g.relay.Timestamp(); t != 0 {
		return t
	}
	if t := g.display.EventTime(); t != 0 {
		return t
	}
	return g.stage.CurrentEventTime()
}

// FocusWindowChanged is fed by the window manager focus watcher.
func (g *Global) FocusWindowChanged(win uint32) {
	g.check()
	g.input.FocusWindowChanged(win)
}

// Flush runs the toolkit queue, the scene queue and a pending layout pass.
func (g *Global) Flush() {
	g.check()
	g.dispatcher.Dispatch()
	g.stage.ProcessEvents()
	g.stage.Relayout()
}

// AfterEvent is run by the loop after each dispatched X event.
func (g *Global) AfterEvent() {
	if g.destroyed {
		return
	}
	g.Flush()
	g.display.EndEvent()
}

func (g *Global) ConnectStageEvent(fn func(ev *scene.Event)) signals.HandlerId {
	return g.stageEvents.Connect(fn)
}

func (g *Global) handleStageEvent(ev *scene.Event) {
	logger.Debugf("stage event %v time %d", ev.Type, ev.Time)
	g.stageEvents.Emit(func(fn func(ev *scene.Event)) {
		fn(ev)
	})
}

// NotifyError reports an error to the user through the error listeners.
func (g *Global) NotifyError(msg, details string) {
	g.check()
	logger.Warningf("notify error: %s: %s", msg, details)
	g.errorSignal.Emit(func(fn func(msg, details string)) {
		fn(msg, details)
	})
}

func (g *Global) ConnectNotifyError(fn func(msg, details string)) signals.HandlerId {
	return g.errorSignal.Connect(fn)
}

func (g *Global) DisconnectNotifyError(id signals.HandlerId) bool {
	return g.errorSignal.Disconnect(id)
}

// CreatePointerBarrier returns 0 when barriers are unsupported or the
// server refused the barrier.
func (g *Global) CreatePointerBarrier(x1, y1, x2, y2 int, directions uint32) uint32 {
	g.check()
	id, err := g.display.CreatePointerBarrier(x1, y1, x2, y2, directions)
	if err != nil {
		logger.Warning(err)
		return 0
	}
	return id
}

// DestroyPointerBarrier does nothing for barrier 0.
func (g *Global) DestroyPointerBarrier(id uint32) {
	g.check()
	if id == 0 {
		return
	}
	g.display.DestroyPointerBarrier(id)
}

// BeginModal grabs pointer and keyboard for the stage. It fails when
// already modal or when the server refuses a grab.
func (g *Global) BeginModal(timestamp uint32) bool {
	g.check()
	if g.modal {
		return false
	}
	err := g.display.GrabStage(timestamp)
	if err != nil {
		logger.Warning("begin modal:", err)
		return false
	}
	g.modal = true
	return true
}

func (g *Global) EndModal(timestamp uint32) {
	g.check()
	if !g.modal {
		return
	}
	g.display.UngrabStage(timestamp)
	g.modal = false
}

func (g *Global) Modal() bool {
	return g.modal
}

// GetPointer returns the pointer position and the modifier mask.
func (g *Global) GetPointer() (x, y int, mods uint16) {
	g.check()
	x, y, mods, err := g.display.QueryPointer()
	if err != nil {
		logger.Warning(err)
		return 0, 0, 0
	}
	return x, y, mods
}

// SyncPointer queues a motion event at the current pointer position so
// hover state catches up after the scene changed under the pointer.
func (g *Global) SyncPointer() {
	g.check()
	x, y, mods := g.GetPointer()
	g.stage.Put(&scene.Event{
		Type:          scene.EventMotion,
		Time:          g.CurrentTime(),
		Flags:         scene.EventFlagNone,
		Device:        scene.DeviceCorePointer,
		ModifierState: mods,
		X:             float64(x),
		Y:             float64(y),
	})
}

// FocusStage gives the keyboard focus to the stage.
func (g *Global) FocusStage() {
	g.check()
	g.display.FocusStage(g.CurrentTime())
}

func (g *Global) SessionMode() string {
	return g.opts.SessionMode
}

// HandleGC records the end of a script garbage collection.
func (g *Global) HandleGC() {
	g.lastGCEnd = time.Now()
}

// LastGCSecondsAgo returns -1 when no collection was recorded.
func (g *Global) LastGCSecondsAgo() float64 {
	if g.lastGCEnd.IsZero() {
		return -1
	}
	return time.Since(g.lastGCEnd).Seconds()
}

// Destroy tears the context down. Any later use panics.
func (g *Global) Destroy() {
	if g.destroyed {
		return
	}
	for xid := range g.embeds {
		g.ReleaseEmbeddedWindow(xid)
	}
	if g.modal {
		g.EndModal(0)
	}
	g.redirector.Uninstall()
	g.relay.SetEnabled(false)
	g.input.Destroy()
	g.destroyed = true
}
