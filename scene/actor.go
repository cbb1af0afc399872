// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scene is the minimal scene graph the shell lays out: actors with
// a position, an anchor point and an allocation, mapped into a stage.
package scene

import (
	"math"
)

// Box is an allocation in parent coordinates.
type Box struct {
	X1, Y1, X2, Y2 float64
}

func (b Box) Width() float64 {
	return b.X2 - b.X1
}

func (b Box) Height() float64 {
	return b.Y2 - b.Y1
}

// Node is implemented by Actor and by types that embed it to change its
// layout or mapping behaviour. Overrides are expected to call the Actor
// method they replace.
type Node interface {
	Base() *Actor
	Allocate(box Box)
	Map()
	Unmap()
	PreferredWidth(forHeight float64) (min, natural float64)
	PreferredHeight(forWidth float64) (min, natural float64)
}

type Actor struct {
	self     Node
	parent   *Actor
	children []Node

	x, y             float64
	anchorX, anchorY float64

	box            Box
	mapped         bool
	relayoutQueued bool
}

// Init binds the actor to the node that embeds it. Types embedding Actor
// must call it before adding the actor to a parent.
func (a *Actor) Init(self Node) {
	a.self = self
}

func (a *Actor) node() Node {
	if a.self == nil {
		return a
	}
	return a.self
}

func (a *Actor) Base() *Actor {
	return a
}

func (a *Actor) Parent() *Actor {
	return a.parent
}

func (a *Actor) Children() []Node {
	return a.children
}

func (a *Actor) SetPosition(x, y float64) {
	a.x, a.y = x, y
	a.QueueRelayout()
}

func (a *Actor) Position() (x, y float64) {
	return a.x, a.y
}

func (a *Actor) SetAnchorPoint(x, y float64) {
	a.anchorX, a.anchorY = x, y
	a.QueueRelayout()
}

func (a *Actor) AnchorPoint() (x, y float64) {
	return a.anchorX, a.anchorY
}

func (a *Actor) Allocation() Box {
	return a.box
}

func (a *Actor) IsMapped() bool {
	return a.mapped
}

func (a *Actor) NeedsRelayout() bool {
	return a.relayoutQueued
}

// AddChild appends child. The child is mapped when the parent is.
func (a *Actor) AddChild(child Node) {
	c := child.Base()
	if c.parent != nil {
		panic("scene: actor already has a parent")
	}
	c.parent = a
	a.children = append(a.children, child)
	if a.mapped {
		child.Map()
	}
	a.QueueRelayout()
}

func (a *Actor) RemoveChild(child Node) {
	c := child.Base()
	for i, n := range a.children {
		if n.Base() != c {
			continue
		}
		if c.mapped {
			child.Unmap()
		}
		a.children = append(a.children[:i:i], a.children[i+1:]...)
		c.parent = nil
		a.QueueRelayout()
		return
	}
}

// QueueRelayout marks the actor and its ancestors for the next layout pass.
func (a *Actor) QueueRelayout() {
	for actor := a; actor != nil; actor = actor.parent {
		actor.relayoutQueued = true
	}
}

// Allocate stores box and allocates every child at its position with its
// natural size.
func (a *Actor) Allocate(box Box) {
	a.box = box
	a.relayoutQueued = false
	for _, child := range a.children {
		c := child.Base()
		_, w := child.PreferredWidth(-1)
		_, h := child.PreferredHeight(w)
		child.Allocate(Box{X1: c.x, Y1: c.y, X2: c.x + w, Y2: c.y + h})
	}
}

func (a *Actor) Map() {
	if a.mapped {
		return
	}
	a.mapped = true
	for _, child := range a.children {
		child.Map()
	}
}

func (a *Actor) Unmap() {
	if !a.mapped {
		return
	}
	for _, child := range a.children {
		child.Unmap()
	}
	a.mapped = false
}

func (a *Actor) PreferredWidth(forHeight float64) (min, natural float64) {
	return 0, 0
}

func (a *Actor) PreferredHeight(forWidth float64) (min, natural float64) {
	return 0, 0
}

// AbsolutePosition walks from the actor to the root, adding each
// position minus its anchor point.
func (a *Actor) AbsolutePosition() (x, y float64) {
	for actor := a; actor != nil; actor = actor.parent {
		x += actor.x - actor.anchorX
		y += actor.y - actor.anchorY
	}
	return
}

// Destroy detaches the actor from its parent and unmaps it.
func (a *Actor) Destroy() {
	if a.parent != nil {
		a.parent.RemoveChild(a.node())
		return
	}
	if a.mapped {
		a.node().Unmap()
	}
}

// Round rounds to the nearest integer, halves up.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}
