// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sizedActor struct {
	Actor
	w, h      float64
	allocated []Box
}

func newSizedActor(w, h float64) *sizedActor {
	a := &sizedActor{w: w, h: h}
	a.Init(a)
	return a
}

func (a *sizedActor) PreferredWidth(forHeight float64) (min, natural float64) {
	return a.w, a.w
}

func (a *sizedActor) PreferredHeight(forWidth float64) (min, natural float64) {
	return a.h, a.h
}

func (a *sizedActor) Allocate(box Box) {
	a.allocated = append(a.allocated, box)
	a.Actor.Allocate(box)
}

func TestAbsolutePosition(t *testing.T) {
	stage := NewStage(1920, 1080)
	parent := newSizedActor(0, 0)
	parent.SetPosition(100, 50)
	stage.AddChild(parent)

	child := newSizedActor(0, 0)
	child.SetPosition(10, 20)
	child.SetAnchorPoint(2, 3)
	parent.AddChild(child)

	x, y := child.AbsolutePosition()
	assert.Equal(t, 108.0, x)
	assert.Equal(t, 67.0, y)
}

func TestRelayout(t *testing.T) {
	stage := NewStage(800, 600)
	a := newSizedActor(30.5, 40)
	a.SetPosition(5, 6)
	stage.AddChild(a)

	assert.True(t, stage.NeedsRelayout())
	assert.True(t, stage.Relayout())
	assert.False(t, stage.Relayout())
	require.Len(t, a.allocated, 1)
	assert.Equal(t, Box{5, 6, 35.5, 46}, a.allocated[0])
	assert.Equal(t, 30.5, a.Allocation().Width())

	a.QueueRelayout()
	assert.True(t, stage.NeedsRelayout())
	stage.Relayout()
	assert.Len(t, a.allocated, 2)
}

func TestMapPropagation(t *testing.T) {
	stage := NewStage(800, 600)
	a := newSizedActor(1, 1)
	b := newSizedActor(1, 1)
	a.AddChild(b)
	stage.AddChild(a)
	assert.False(t, b.IsMapped())

	stage.Map()
	assert.True(t, a.IsMapped())
	assert.True(t, b.IsMapped())

	c := newSizedActor(1, 1)
	a.AddChild(c)
	assert.True(t, c.IsMapped())

	a.Destroy()
	assert.False(t, a.IsMapped())
	assert.False(t, b.IsMapped())
	assert.Nil(t, a.Parent())
	assert.Empty(t, stage.Children())

	assert.Panics(t, func() {
		other := newSizedActor(1, 1)
		other.AddChild(c)
	})
}

func TestEventQueue(t *testing.T) {
	stage := NewStage(800, 600)
	var times []uint32
	var current []uint32
	stage.SetEventHandler(func(ev *Event) {
		times = append(times, ev.Time)
		current = append(current, stage.CurrentEventTime())
		assert.Same(t, stage, ev.Stage)
	})

	stage.Put(&Event{Type: EventKeyPress, Time: 10})
	stage.Put(&Event{Type: EventKeyRelease, Time: 11})
	assert.Equal(t, 2, stage.PendingEvents())
	assert.Zero(t, stage.CurrentEventTime())

	assert.Equal(t, 2, stage.ProcessEvents())
	assert.Equal(t, []uint32{10, 11}, times)
	assert.Equal(t, []uint32{10, 11}, current)
	assert.Nil(t, stage.CurrentEvent())
	assert.Zero(t, stage.PendingEvents())
}

func TestRound(t *testing.T) {
	assert.Equal(t, 30, Round(30.4))
	assert.Equal(t, 41, Round(40.6))
	assert.Equal(t, 3, Round(2.5))
	assert.Equal(t, 0, Round(0))
}
