// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xcursor"
	"golang.org/x/xerrors"
)

func (c *Conn) createGlyphCursor(glyph uint16) (xproto.Cursor, error) {
	return xcursor.CreateCursor(c.xu, glyph)
}

func (c *Conn) changeStageCursorAttr(cursor xproto.Cursor) error {
	return xproto.ChangeWindowAttributesChecked(c.xu.Conn(), c.stage,
		xproto.CwCursor, []uint32{uint32(cursor)}).Check()
}

// SetStageCursor shows the cursor font glyph over the stage. Cursors are
// created once per glyph and kept until Close.
func (c *Conn) SetStageCursor(glyph uint16) error {
	if glyph%2 != 0 || glyph > xcursor.XTerm {
		return xerrors.Errorf("invalid cursor glyph %d", glyph)
	}
	cursor, ok := c.cursors[glyph]
	if !ok {
		var err error
		cursor, err = c.createCursor(glyph)
		if err != nil {
			return xerrors.Errorf("create cursor %d: %w", glyph, err)
		}
		if c.cursors == nil {
			c.cursors = make(map[uint16]xproto.Cursor)
		}
		c.cursors[glyph] = cursor
	}
	return c.changeCursor(cursor)
}

// UnsetStageCursor makes the stage inherit the cursor of its parent.
func (c *Conn) UnsetStageCursor() error {
	return c.changeCursor(xproto.CursorNone)
}

func (c *Conn) freeCursors() {
	for glyph, cursor := range c.cursors {
		xproto.FreeCursor(c.xu.Conn(), cursor)
		delete(c.cursors, glyph)
	}
}
