// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package x11

import (
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/linuxdeepin/dde-shell-bridge/inputmode"
	"golang.org/x/xerrors"
)

func toXRectangles(rects []inputmode.Rectangle) []xproto.Rectangle {
	result := make([]xproto.Rectangle, len(rects))
	for i, r := range rects {
		result[i] = xproto.Rectangle{
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
		}
	}
	return result
}

func (c *Conn) CreateRegion(rects []inputmode.Rectangle) (inputmode.RegionID, error) {
	conn := c.xu.Conn()
	id, err := xfixes.NewRegionId(conn)
	if err != nil {
		return inputmode.RegionNone, xerrors.Errorf("alloc region: %w", err)
	}
	xfixes.CreateRegion(conn, id, toXRectangles(rects))
	return inputmode.RegionID(id), nil
}

func (c *Conn) DestroyRegion(id inputmode.RegionID) {
	xfixes.DestroyRegion(c.xu.Conn(), xfixes.Region(id))
}

func (c *Conn) EmptyStageInputRegion() {
	c.setInputShape(c.emptyRegion)
}

func (c *Conn) SetStageInputRegion(id inputmode.RegionID) {
	c.setInputShape(xfixes.Region(id))
}

// setInputShape applies region as the input shape of the stage and of the
// overlay window. Region 0 resets the shape to the whole window.
func (c *Conn) setInputShape(region xfixes.Region) {
	conn := c.xu.Conn()
	xfixes.SetWindowShapeRegion(conn, c.stage, shape.SkInput, 0, 0, region)
	if c.overlay != c.root {
		xfixes.SetWindowShapeRegion(conn, c.overlay, shape.SkInput, 0, 0, region)
	}
}

func (c *Conn) FocusStage(timestamp uint32) {
	xproto.SetInputFocus(c.xu.Conn(), xproto.InputFocusPointerRoot, c.stage,
		xproto.Timestamp(timestamp))
}

// SendClientMessage sends ev to dest with an empty event mask.
func (c *Conn) SendClientMessage(dest xproto.Window, ev *xproto.ClientMessageEvent) error {
	return xproto.SendEventChecked(c.xu.Conn(), false, dest,
		xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

func (c *Conn) ChangeProp32(win xproto.Window, prop, typ string, data ...uint) error {
	return xprop.ChangeProp32(c.xu, win, prop, typ, data...)
}
