// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package inputmode decides which area of the stage absorbs input.
package inputmode

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/linuxdeepin/dde-shell-bridge/signals"
	"github.com/linuxdeepin/go-lib/log"
	"golang.org/x/xerrors"
)

var logger = log.NewLogger("dde-shell-bridge/inputmode")

func SetLogLevel(level log.Priority) {
	logger.SetLogLevel(level)
}

// Backend applies input regions and focus on the display server.
type Backend interface {
	CreateRegion(rects []Rectangle) (RegionID, error)
	DestroyRegion(id RegionID)
	// EmptyStageInputRegion makes the stage transparent to input.
	EmptyStageInputRegion()
	// SetStageInputRegion applies id; RegionNone resets the stage to
	// absorb input on its whole surface.
	SetStageInputRegion(id RegionID)
	FocusStage(timestamp uint32)
}

type TimeSource interface {
	CurrentTime() uint32
}

type Engine struct {
	backend Backend
	clock   TimeSource
	stage   uint32

	mode       Mode
	region     RegionID
	grabActive bool

	modeChanged signals.List[func(Mode)]
}

func NewEngine(backend Backend, clock TimeSource, stageWindow uint32) *Engine {
	if backend == nil || clock == nil {
		panic("inputmode: nil backend or time source")
	}
	return &Engine{
		backend: backend,
		clock:   clock,
		stage:   stageWindow,
		mode:    ModeNormal,
	}
}

func (e *Engine) Mode() Mode {
	return e.mode
}

func (e *Engine) Region() RegionID {
	return e.region
}

func (e *Engine) GrabActive() bool {
	return e.grabActive
}

func (e *Engine) ConnectModeChanged(fn func(Mode)) signals.HandlerId {
	return e.modeChanged.Connect(fn)
}

func (e *Engine) Disconnect(id signals.HandlerId) bool {
	return e.modeChanged.Disconnect(id)
}

// SetMode applies mode to the stage. The effective region is always
// recomputed from the stored state, so calling it again with the current
// mode reapplies the region after a grab or region change.
func (e *Engine) SetMode(mode Mode) {
	if !mode.Valid() {
		panic(fmt.Sprintf("inputmode: invalid mode %d", uint32(mode)))
	}

	switch {
	case mode == ModeNonreactive || e.grabActive:
		e.backend.EmptyStageInputRegion()
	case mode == ModeFullscreen || e.region == RegionNone:
		e.backend.SetStageInputRegion(RegionNone)
	default:
		e.backend.SetStageInputRegion(e.region)
	}

	if mode == ModeFocused {
		e.backend.FocusStage(e.clock.CurrentTime())
	}

	if mode != e.mode {
		logger.Debugf("stage input mode %v -> %v", e.mode, mode)
		e.mode = mode
		e.modeChanged.Emit(func(fn func(Mode)) {
			// a listener changed the mode again; the nested call
			// already notified everyone of the newer value
			if e.mode != mode {
				return
			}
			fn(mode)
		})
	}
}

// SetInputRegion replaces the partial reactive area used by ModeNormal and
// ModeFocused.
func (e *Engine) SetInputRegion(rects []Rectangle) error {
	logger.Debug("set stage input region:", spew.Sdump(rects))
	if e.region != RegionNone {
		e.backend.DestroyRegion(e.region)
		e.region = RegionNone
	}

	id, err := e.backend.CreateRegion(rects)
	if err != nil {
		// the old shape is gone, fall back to what the mode implies
		e.SetMode(e.mode)
		return xerrors.Errorf("create input region: %w", err)
	}
	e.region = id

	e.SetMode(e.mode)
	return nil
}

// FocusWindowChanged is called when the window manager reports a new focus
// window. Another window taking focus ends ModeFocused.
func (e *Engine) FocusWindowChanged(win uint32) {
	if e.mode != ModeFocused {
		return
	}
	if win == 0 || win == e.stage {
		return
	}
	e.SetMode(ModeNormal)
}

func (e *Engine) setGrabActive(active bool) {
	e.grabActive = active
	e.SetMode(e.mode)
}

// Destroy releases the held region handle.
func (e *Engine) Destroy() {
	if e.region != RegionNone {
		e.backend.DestroyRegion(e.region)
		e.region = RegionNone
	}
}

// GrabObserver feeds toolkit grab-notify events into the engine.
type GrabObserver struct {
	engine *Engine
}

func NewGrabObserver(engine *Engine) *GrabObserver {
	if engine == nil {
		panic("inputmode: nil engine")
	}
	return &GrabObserver{engine: engine}
}

// Notify follows the grab-notify contract: wasGrabbed is true when the
// grab ended and false when a grab became active.
func (g *GrabObserver) Notify(wasGrabbed bool) {
	g.engine.setGrabActive(!wasGrabbed)
}
