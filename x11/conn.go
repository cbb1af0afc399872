// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package x11 is the X server side of the shell: the overlay and stage
// windows, input shapes, focus, Xdnd wire traffic, pointer barriers and
// composite redirection of embedded windows.
package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/composite"
	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/linuxdeepin/go-lib/log"
	"golang.org/x/xerrors"
)

var logger = log.NewLogger("dde-shell-bridge/x11")

func SetLogLevel(level log.Priority) {
	logger.SetLogLevel(level)
}

const stageEventMask = xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskFocusChange |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskPropertyChange

type Conn struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	overlay xproto.Window
	stage   xproto.Window
	width   uint16
	height  uint16

	emptyRegion xfixes.Region
	barriers    bool
	composite   bool

	eventTime uint32
	modal     bool
	filters   []Filter
	tracked   map[xproto.Window]func()

	cursors      map[uint16]xproto.Cursor
	createCursor func(glyph uint16) (xproto.Cursor, error)
	changeCursor func(cursor xproto.Cursor) error

	inputFocus func() (xproto.Window, error)
}

// Open connects to the display, creates the stage window inside the
// composite overlay window and installs the event hook.
func Open(stageName string) (*Conn, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, xerrors.Errorf("connect to X: %w", err)
	}

	c := &Conn{
		xu:      xu,
		root:    xu.RootWin(),
		width:   xu.Screen().WidthInPixels,
		height:  xu.Screen().HeightInPixels,
		tracked: make(map[xproto.Window]func()),
	}
	c.inputFocus = c.queryInputFocus
	c.createCursor = c.createGlyphCursor
	c.changeCursor = c.changeStageCursorAttr

	xevent.ErrorHandlerSet(xu, func(err xgb.Error) {
		logger.Warning("X error:", err)
	})
	keybind.Initialize(xu)

	err = c.initXFixes()
	if err != nil {
		xu.Conn().Close()
		return nil, err
	}
	c.initOverlay()

	err = c.createStage(stageName)
	if err != nil {
		xu.Conn().Close()
		return nil, err
	}

	xevent.HookFun(c.hook).Connect(xu)
	return c, nil
}

func (c *Conn) initXFixes() error {
	conn := c.xu.Conn()
	err := xfixes.Init(conn)
	if err != nil {
		return xerrors.Errorf("init XFixes: %w", err)
	}
	reply, err := xfixes.QueryVersion(conn, 5, 0).Reply()
	if err != nil {
		return xerrors.Errorf("query XFixes version: %w", err)
	}
	logger.Debugf("XFixes version %d.%d", reply.MajorVersion, reply.MinorVersion)
	c.barriers = reply.MajorVersion >= 5

	c.emptyRegion, err = xfixes.NewRegionId(conn)
	if err != nil {
		return xerrors.Errorf("alloc empty region: %w", err)
	}
	xfixes.CreateRegion(conn, c.emptyRegion, nil)
	return nil
}

func (c *Conn) initOverlay() {
	conn := c.xu.Conn()
	c.overlay = c.root
	err := composite.Init(conn)
	if err != nil {
		logger.Warning("composite extension unavailable, embedded windows stay unredirected:", err)
		return
	}
	reply, err := composite.GetOverlayWindow(conn, c.root).Reply()
	if err != nil {
		logger.Warning("failed to get composite overlay window:", err)
		return
	}
	c.composite = true
	c.overlay = reply.OverlayWin
}

func (c *Conn) createStage(name string) error {
	conn := c.xu.Conn()
	stage, err := xproto.NewWindowId(conn)
	if err != nil {
		return xerrors.Errorf("alloc stage window: %w", err)
	}
	screen := c.xu.Screen()
	err = xproto.CreateWindowChecked(conn, screen.RootDepth, stage, c.overlay,
		0, 0, c.width, c.height, 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{1, stageEventMask}).Check()
	if err != nil {
		return xerrors.Errorf("create stage window: %w", err)
	}
	c.stage = stage

	if name != "" {
		err = ewmh.WmNameSet(c.xu, stage, name)
		if err != nil {
			logger.Warning("failed to set stage name:", err)
		}
	}
	xproto.MapWindow(conn, stage)
	return nil
}

func (c *Conn) XUtil() *xgbutil.XUtil {
	return c.xu
}

func (c *Conn) Root() xproto.Window {
	return c.root
}

func (c *Conn) Overlay() xproto.Window {
	return c.overlay
}

func (c *Conn) Stage() xproto.Window {
	return c.stage
}

func (c *Conn) ScreenSize() (width, height uint16) {
	return c.width, c.height
}

// Atom interns name.
func (c *Conn) Atom(name string) (xproto.Atom, error) {
	return xprop.Atm(c.xu, name)
}

// MainPing starts the xgbutil event loop in its own goroutine and returns
// its ping channels.
func (c *Conn) MainPing() (before, after, quit <-chan struct{}) {
	return xevent.MainPing(c.xu)
}

func (c *Conn) Close() {
	xevent.Quit(c.xu)
	conn := c.xu.Conn()
	c.freeCursors()
	if c.stage != 0 {
		xproto.DestroyWindow(conn, c.stage)
	}
	xfixes.DestroyRegion(conn, c.emptyRegion)
	if c.composite {
		composite.ReleaseOverlayWindow(conn, c.root)
	}
	c.xu.Sync()
	conn.Close()
}
