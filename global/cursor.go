// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package global

import (
	"fmt"

	"github.com/BurntSushi/xgbutil/xcursor"
	"golang.org/x/xerrors"
)

// Cursor is a cursor the shell shows over the stage.
type Cursor uint32

const (
	CursorNone Cursor = iota
	CursorDndInDrag
	CursorDndUnsupportedTarget
	CursorDndMove
	CursorDndCopy
	CursorPointing
)

var cursorGlyphs = map[Cursor]uint16{
	CursorDndInDrag:            xcursor.Fleur,
	CursorDndUnsupportedTarget: xcursor.XCursor,
	CursorDndMove:              xcursor.Target,
	CursorDndCopy:              xcursor.Plus,
	CursorPointing:             xcursor.Hand2,
}

func (c Cursor) String() string {
	switch c {
	case CursorNone:
		return "none"
	case CursorDndInDrag:
		return "dnd-in-drag"
	case CursorDndUnsupportedTarget:
		return "dnd-unsupported-target"
	case CursorDndMove:
		return "dnd-move"
	case CursorDndCopy:
		return "dnd-copy"
	case CursorPointing:
		return "pointing-hand"
	}
	return fmt.Sprintf("Cursor(%d)", uint32(c))
}

// ParseCursor is the inverse of Cursor.String.
func ParseCursor(name string) (Cursor, error) {
	for c := CursorNone; c <= CursorPointing; c++ {
		if c.String() == name {
			return c, nil
		}
	}
	return CursorNone, xerrors.Errorf("unknown cursor %q", name)
}

// SetCursor shows cursor over the stage. CursorNone is the same as
// UnsetCursor.
func (g *Global) SetCursor(cursor Cursor) error {
	g.check()
	if cursor == CursorNone {
		return g.UnsetCursor()
	}
	glyph, ok := cursorGlyphs[cursor]
	if !ok {
		return xerrors.Errorf("unknown cursor %v", cursor)
	}
	err := g.display.SetStageCursor(glyph)
	if err != nil {
		return err
	}
	g.cursor = cursor
	return nil
}

// UnsetCursor lets the stage inherit the cursor of the window below it.
func (g *Global) UnsetCursor() error {
	g.check()
	err := g.display.UnsetStageCursor()
	if err != nil {
		return err
	}
	g.cursor = CursorNone
	return nil
}

func (g *Global) Cursor() Cursor {
	return g.cursor
}
