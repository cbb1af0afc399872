// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package global

import (
	"github.com/linuxdeepin/dde-shell-bridge/embed"
	"github.com/linuxdeepin/dde-shell-bridge/toolkit"
	"golang.org/x/xerrors"
)

// EmbedWindow shows the foreign top-level window xid in the stage at
// (x, y). The embedding ends when the window is destroyed or released.
func (g *Global) EmbedWindow(xid uint32, x, y int) error {
	g.check()
	if xid == 0 {
		return xerrors.New("invalid window 0")
	}
	if _, ok := g.embeds[xid]; ok {
		return xerrors.Errorf("window %#x is already embedded", xid)
	}

	info, err := g.display.QueryWindow(xid)
	if err != nil {
		return err
	}

	win := toolkit.NewWindow(g.display)
	win.SetPreferredSize(info.Width, info.Height)
	win.SetVisible(info.Viewable)
	win.Realize(xid)

	actor := embed.New(g.display.NewTextureSource())
	actor.SetPosition(float64(x), float64(y))
	actor.SetWindow(win)
	g.stage.AddChild(actor)
	g.embeds[xid] = actor

	err = g.display.TrackDestroy(xid, func() {
		win.Destroy()
		g.removeEmbed(xid)
	})
	if err != nil {
		g.ReleaseEmbeddedWindow(xid)
		return err
	}
	logger.Debugf("embedded window %#x at %d,%d", xid, x, y)
	return nil
}

// ReleaseEmbeddedWindow ends the embedding of xid and reports whether it
// was embedded.
func (g *Global) ReleaseEmbeddedWindow(xid uint32) bool {
	g.check()
	if _, ok := g.embeds[xid]; !ok {
		return false
	}
	g.display.UntrackDestroy(xid)
	g.removeEmbed(xid)
	return true
}

func (g *Global) removeEmbed(xid uint32) {
	actor, ok := g.embeds[xid]
	if !ok {
		return
	}
	delete(g.embeds, xid)
	actor.Destroy()
}

func (g *Global) EmbeddedWindows() []uint32 {
	result := make([]uint32, 0, len(g.embeds))
	for xid := range g.embeds {
		result = append(result, xid)
	}
	return result
}
