// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package x11

import (
	"math"

	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
	"golang.org/x/xerrors"
)

const modalPointerMask = xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion

// BarriersSupported reports whether the server has XFixes 5 pointer
// barriers.
func (c *Conn) BarriersSupported() bool {
	return c.barriers
}

// CreatePointerBarrier returns 0 when barriers are not supported.
// Coordinates are root window positions and must fit the protocol's
// unsigned 16 bit fields.
func (c *Conn) CreatePointerBarrier(x1, y1, x2, y2 int, directions uint32) (uint32, error) {
	for _, v := range [...]int{x1, y1, x2, y2} {
		if v < 0 || v > math.MaxUint16 {
			return 0, xerrors.Errorf("barrier coordinate %d out of range", v)
		}
	}
	if !c.barriers {
		return 0, nil
	}
	conn := c.xu.Conn()
	id, err := xfixes.NewBarrierId(conn)
	if err != nil {
		return 0, xerrors.Errorf("alloc barrier: %w", err)
	}
	err = xfixes.CreatePointerBarrierChecked(conn, id, c.root,
		uint16(x1), uint16(y1), uint16(x2), uint16(y2), directions, 0, nil).Check()
	if err != nil {
		return 0, xerrors.Errorf("create barrier: %w", err)
	}
	return uint32(id), nil
}

// DestroyPointerBarrier ignores the 0 barrier.
func (c *Conn) DestroyPointerBarrier(id uint32) {
	if id == 0 || !c.barriers {
		return
	}
	xfixes.DeletePointerBarrier(c.xu.Conn(), xfixes.Barrier(id))
}

// QueryPointer returns the pointer position on the root window and the
// modifier mask.
func (c *Conn) QueryPointer() (x, y int, mask uint16, err error) {
	reply, err := xproto.QueryPointer(c.xu.Conn(), c.root).Reply()
	if err != nil {
		return 0, 0, 0, xerrors.Errorf("query pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), reply.Mask, nil
}

// GrabStage grabs pointer and keyboard on the stage window. Nothing stays
// grabbed when it fails.
func (c *Conn) GrabStage(timestamp uint32) error {
	conn := c.xu.Conn()
	t := xproto.Timestamp(timestamp)
	pointer, err := xproto.GrabPointer(conn, false, c.stage, modalPointerMask,
		xproto.GrabModeAsync, xproto.GrabModeAsync, xproto.WindowNone, xproto.CursorNone, t).Reply()
	if err != nil {
		return xerrors.Errorf("grab pointer: %w", err)
	}
	if pointer.Status != xproto.GrabStatusSuccess {
		return xerrors.Errorf("grab pointer: status %d", pointer.Status)
	}

	keyboard, err := xproto.GrabKeyboard(conn, false, c.stage, t,
		xproto.GrabModeAsync, xproto.GrabModeAsync).Reply()
	if err == nil && keyboard.Status != xproto.GrabStatusSuccess {
		err = xerrors.Errorf("status %d", keyboard.Status)
	}
	if err != nil {
		xproto.UngrabPointer(conn, t)
		return xerrors.Errorf("grab keyboard: %w", err)
	}
	c.modal = true
	return nil
}

func (c *Conn) UngrabStage(timestamp uint32) {
	conn := c.xu.Conn()
	t := xproto.Timestamp(timestamp)
	xproto.UngrabKeyboard(conn, t)
	xproto.UngrabPointer(conn, t)
	c.modal = false
}
