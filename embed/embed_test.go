// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package embed

import (
	"fmt"
	"testing"

	"github.com/linuxdeepin/dde-shell-bridge/scene"
	"github.com/linuxdeepin/dde-shell-bridge/toolkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type texture struct {
	calls []string
}

func (t *texture) SetWindow(xid uint32, automatic bool) {
	t.calls = append(t.calls, fmt.Sprintf("%#x automatic=%v", xid, automatic))
}

func (t *texture) Forget() {
	t.calls = append(t.calls, "forget")
}

type windowBackend struct {
	calls []string
}

func (b *windowBackend) MoveResizeWindow(xid uint32, x, y, width, height int) error {
	b.calls = append(b.calls, fmt.Sprintf("configure %d,%d %dx%d", x, y, width, height))
	return nil
}

func (b *windowBackend) MapWindow(xid uint32) error {
	b.calls = append(b.calls, "map")
	return nil
}

func (b *windowBackend) UnmapWindow(xid uint32) error {
	b.calls = append(b.calls, "unmap")
	return nil
}

type EmbedTestSuite struct {
	suite.Suite
	tex     *texture
	backend *windowBackend
	stage   *scene.Stage
	embed   *Embed
}

func (s *EmbedTestSuite) SetupTest() {
	s.tex = &texture{}
	s.backend = &windowBackend{}
	s.stage = scene.NewStage(1920, 1080)
	s.embed = New(s.tex)
}

func (s *EmbedTestSuite) newWindow() *toolkit.Window {
	w := toolkit.NewWindow(s.backend)
	w.SetPreferredSize(200, 100)
	w.SetVisible(true)
	return w
}

func (s *EmbedTestSuite) TestBindRealized() {
	w := s.newWindow()
	w.Realize(0x2a00001)

	s.embed.SetWindow(w)
	s.Equal([]string{"0x2a00001 automatic=false"}, s.tex.calls)
	s.Equal(s.embed, w.Actor())
	s.True(s.embed.NeedsRelayout())
}

func (s *EmbedTestSuite) TestRealizeAfterBind() {
	w := s.newWindow()
	s.embed.SetWindow(w)
	s.Empty(s.tex.calls)

	w.Realize(0x2a00005)
	s.Equal([]string{"0x2a00005 automatic=false"}, s.tex.calls)
}

func (s *EmbedTestSuite) TestExternalDestroy() {
	w := s.newWindow()
	w.Realize(0x2a00001)
	s.embed.SetWindow(w)

	_, nat := s.embed.PreferredWidth(-1)
	s.Equal(200.0, nat)

	w.Destroy()
	s.Nil(s.embed.Window())
	s.Nil(w.Actor())
	// the server already dropped the window, nothing is unredirected
	s.Equal([]string{"0x2a00001 automatic=false", "forget"}, s.tex.calls)

	s.embed.Destroy()
	s.Equal([]string{"0x2a00001 automatic=false", "forget"}, s.tex.calls)

	_, nw := s.embed.PreferredWidth(-1)
	_, nh := s.embed.PreferredHeight(-1)
	s.Zero(nw)
	s.Zero(nh)
}

func (s *EmbedTestSuite) TestRebind() {
	w1 := s.newWindow()
	w1.Realize(1)
	w2 := s.newWindow()
	w2.Realize(2)

	s.embed.SetWindow(w1)
	s.embed.SetWindow(w2)
	s.Nil(w1.Actor())
	s.Equal(s.embed, w2.Actor())
	s.Equal([]string{"0x1 automatic=false", "0 automatic=false", "0x2 automatic=false"}, s.tex.calls)

	// old window no longer reaches the embed
	w1.Destroy()
	s.Equal(w2, s.embed.Window())

	s.embed.SetWindow(nil)
	s.embed.SetWindow(nil)
	s.Nil(s.embed.Window())
}

func (s *EmbedTestSuite) TestWindowOwnedByAnotherActor() {
	w := s.newWindow()
	s.embed.SetWindow(w)
	other := New(s.tex)
	s.Panics(func() {
		other.SetWindow(w)
	})
}

func (s *EmbedTestSuite) TestInvisibleWindowHasNoSize() {
	w := s.newWindow()
	w.SetVisible(false)
	s.embed.SetWindow(w)
	_, nw := s.embed.PreferredWidth(-1)
	_, nh := s.embed.PreferredHeight(-1)
	s.Zero(nw)
	s.Zero(nh)

	w.SetVisible(true)
	_, nh = s.embed.PreferredHeight(-1)
	s.Equal(100.0, nh)
}

func (s *EmbedTestSuite) TestGeometrySync() {
	parent := &scene.Actor{}
	parent.SetPosition(100, 50)
	s.stage.AddChild(parent)

	s.embed.SetPosition(10, 20)
	s.embed.SetAnchorPoint(2, 3)
	parent.AddChild(s.embed)

	w := s.newWindow()
	w.Realize(0x2a00001)
	s.embed.SetWindow(w)

	s.embed.Allocate(scene.Box{X1: 10, Y1: 20, X2: 40.4, Y2: 60.6})
	s.Equal([]string{"configure 108,67 30x41"}, s.backend.calls)

	x, y, width, height := w.Geometry()
	s.Equal([]int{108, 67, 30, 41}, []int{x, y, width, height})
}

func (s *EmbedTestSuite) TestLayoutPassAllocatesOnce() {
	w := s.newWindow()
	w.Realize(0x2a00001)
	s.embed.SetPosition(5, 5)
	s.embed.SetWindow(w)
	s.stage.AddChild(s.embed)

	s.True(s.stage.Relayout())
	s.Equal([]string{"configure 5,5 200x100"}, s.backend.calls)
}

func (s *EmbedTestSuite) TestMapAfterBase() {
	w := s.newWindow()
	w.Realize(0x2a00001)
	s.embed.SetWindow(w)

	s.stage.AddChild(s.embed)
	s.stage.Map()
	s.True(s.embed.IsMapped())
	s.True(w.Mapped())

	s.stage.RemoveChild(s.embed)
	s.False(s.embed.IsMapped())
	s.False(w.Mapped())
	s.Equal([]string{"map", "unmap"}, s.backend.calls)
}

func (s *EmbedTestSuite) TestDestroy() {
	w := s.newWindow()
	w.Realize(0x2a00001)
	s.stage.AddChild(s.embed)
	s.stage.Map()
	s.embed.SetWindow(w)

	s.embed.Destroy()
	s.Nil(s.embed.Window())
	s.Nil(s.embed.Parent())
	s.Nil(w.Actor())
	s.False(w.Mapped())
}

func TestEmbedTestSuite(t *testing.T) {
	suite.Run(t, new(EmbedTestSuite))
}

func TestNewPanicsWithoutTexture(t *testing.T) {
	require.Panics(t, func() { New(nil) })
	assert.NotPanics(t, func() { New(&texture{}) })
}
