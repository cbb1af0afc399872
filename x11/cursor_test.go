// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package x11

import (
	"errors"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageCursor(t *testing.T) {
	c := newTestConn()
	var created []uint16
	var applied []xproto.Cursor
	c.createCursor = func(glyph uint16) (xproto.Cursor, error) {
		created = append(created, glyph)
		return xproto.Cursor(0x100 + glyph), nil
	}
	c.changeCursor = func(cursor xproto.Cursor) error {
		applied = append(applied, cursor)
		return nil
	}

	require.NoError(t, c.SetStageCursor(xcursor.Fleur))
	require.NoError(t, c.SetStageCursor(xcursor.Target))
	require.NoError(t, c.SetStageCursor(xcursor.Fleur))
	require.NoError(t, c.UnsetStageCursor())

	assert.Equal(t, []uint16{xcursor.Fleur, xcursor.Target}, created)
	assert.Equal(t, []xproto.Cursor{0x100 + xcursor.Fleur, 0x100 + xcursor.Target,
		0x100 + xcursor.Fleur, xproto.CursorNone}, applied)
}

func TestStageCursorErrors(t *testing.T) {
	c := newTestConn()
	c.createCursor = func(glyph uint16) (xproto.Cursor, error) {
		return 0, errors.New("no cursor font")
	}
	c.changeCursor = func(cursor xproto.Cursor) error {
		t.Fatal("cursor applied after a failure")
		return nil
	}

	assert.Error(t, c.SetStageCursor(xcursor.Plus))
	assert.Empty(t, c.cursors)
	assert.Error(t, c.SetStageCursor(1))
	assert.Error(t, c.SetStageCursor(xcursor.XTerm+2))
}
