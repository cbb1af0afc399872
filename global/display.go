// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package global

import (
	"github.com/linuxdeepin/dde-shell-bridge/embed"
	"github.com/linuxdeepin/dde-shell-bridge/inputmode"
	"github.com/linuxdeepin/dde-shell-bridge/toolkit"
	"github.com/linuxdeepin/dde-shell-bridge/x11"
	"github.com/linuxdeepin/dde-shell-bridge/xdnd"
)

// Display is everything the shell asks of the display server.
type Display interface {
	inputmode.Backend
	xdnd.Conn
	toolkit.WindowBackend

	// EventTime is the time of the event being dispatched, 0 otherwise.
	EventTime() uint32
	EndEvent()

	CreatePointerBarrier(x1, y1, x2, y2 int, directions uint32) (uint32, error)
	DestroyPointerBarrier(id uint32)
	QueryPointer() (x, y int, mask uint16, err error)
	GrabStage(timestamp uint32) error
	UngrabStage(timestamp uint32)
	SetStageCursor(glyph uint16) error
	UnsetStageCursor() error

	QueryWindow(xid uint32) (*x11.WindowInfo, error)
	TrackDestroy(xid uint32, onDestroy func()) error
	UntrackDestroy(xid uint32)
	NewTextureSource() embed.TextureSource
}

// XDisplay adapts an X connection to Display.
type XDisplay struct {
	*x11.Conn
}

func (d XDisplay) NewTextureSource() embed.TextureSource {
	return d.Conn.NewTexture()
}
