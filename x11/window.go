// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package x11

import (
	"github.com/BurntSushi/xgb/composite"
	"github.com/BurntSushi/xgb/xproto"
	"golang.org/x/xerrors"
)

func (c *Conn) MoveResizeWindow(xid uint32, x, y, width, height int) error {
	if width <= 0 || height <= 0 {
		return xerrors.Errorf("invalid size %dx%d for window %d", width, height, xid)
	}
	return xproto.ConfigureWindowChecked(c.xu.Conn(), xproto.Window(xid),
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height)}).Check()
}

func (c *Conn) MapWindow(xid uint32) error {
	return xproto.MapWindowChecked(c.xu.Conn(), xproto.Window(xid)).Check()
}

func (c *Conn) UnmapWindow(xid uint32) error {
	return xproto.UnmapWindowChecked(c.xu.Conn(), xproto.Window(xid)).Check()
}

type WindowInfo struct {
	Width, Height int
	Viewable      bool
}

// QueryWindow returns the size and map state of a foreign window.
func (c *Conn) QueryWindow(xid uint32) (*WindowInfo, error) {
	conn := c.xu.Conn()
	win := xproto.Window(xid)
	geom, err := xproto.GetGeometry(conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return nil, xerrors.Errorf("get geometry of %d: %w", xid, err)
	}
	attrs, err := xproto.GetWindowAttributes(conn, win).Reply()
	if err != nil {
		return nil, xerrors.Errorf("get attributes of %d: %w", xid, err)
	}
	return &WindowInfo{
		Width:    int(geom.Width),
		Height:   int(geom.Height),
		Viewable: attrs.MapState == xproto.MapStateViewable,
	}, nil
}

// TrackDestroy calls onDestroy when the server reports xid destroyed.
func (c *Conn) TrackDestroy(xid uint32, onDestroy func()) error {
	win := xproto.Window(xid)
	err := xproto.ChangeWindowAttributesChecked(c.xu.Conn(), win,
		xproto.CwEventMask, []uint32{xproto.EventMaskStructureNotify}).Check()
	if err != nil {
		return xerrors.Errorf("select structure events on %d: %w", xid, err)
	}
	c.tracked[win] = onDestroy
	return nil
}

func (c *Conn) UntrackDestroy(xid uint32) {
	win := xproto.Window(xid)
	if _, ok := c.tracked[win]; !ok {
		return
	}
	delete(c.tracked, win)
}

// Texture redirects one embedded window at a time with the Composite
// extension.
type Texture struct {
	conn   *Conn
	window xproto.Window
	update byte
}

func (c *Conn) NewTexture() *Texture {
	return &Texture{conn: c}
}

// Forget drops a window the server already destroyed. Unredirecting it
// would only earn a BadWindow error.
func (t *Texture) Forget() {
	t.window = 0
}

func (t *Texture) Window() uint32 {
	return uint32(t.window)
}

func (t *Texture) SetWindow(xid uint32, automatic bool) {
	if t.window == 0 && xid == 0 {
		return
	}
	if !t.conn.composite {
		t.window = xproto.Window(xid)
		return
	}
	conn := t.conn.xu.Conn()
	if t.window != 0 {
		composite.UnredirectWindow(conn, t.window, t.update)
		t.window = 0
	}
	if xid == 0 {
		return
	}

	update := byte(composite.RedirectManual)
	if automatic {
		update = composite.RedirectAutomatic
	}
	err := composite.RedirectWindowChecked(conn, xproto.Window(xid), update).Check()
	if err != nil {
		logger.Warningf("failed to redirect window %#x: %v", xid, err)
		return
	}
	t.window = xproto.Window(xid)
	t.update = update
}
