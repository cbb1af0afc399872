// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package scene

import (
	"github.com/linuxdeepin/go-lib/log"
)

var logger = log.NewLogger("dde-shell-bridge/scene")

func SetLogLevel(level log.Priority) {
	logger.SetLogLevel(level)
}

type EventType int

const (
	EventNothing EventType = iota
	EventKeyPress
	EventKeyRelease
	EventMotion
)

func (t EventType) String() string {
	switch t {
	case EventKeyPress:
		return "key-press"
	case EventKeyRelease:
		return "key-release"
	case EventMotion:
		return "motion"
	default:
		return "nothing"
	}
}

type EventFlags uint32

const EventFlagNone EventFlags = 0

// DeviceCoreKeyboard and DeviceCorePointer name the core input devices.
const (
	DeviceCorePointer  = "core-pointer"
	DeviceCoreKeyboard = "core-keyboard"
)

type Event struct {
	Type   EventType
	Time   uint32
	Flags  EventFlags
	Stage  *Stage
	Device string

	ModifierState   uint16
	Keyval          uint32
	HardwareKeycode uint16
	UnicodeValue    rune

	X, Y float64
}

// Stage is the root actor. It also owns the queue of events waiting to be
// processed by the scene.
type Stage struct {
	Actor
	width, height float64

	queue        []*Event
	currentEvent *Event
	handler      func(ev *Event)
}

func NewStage(width, height float64) *Stage {
	s := &Stage{width: width, height: height}
	s.Init(s)
	return s
}

func (s *Stage) SetSize(width, height float64) {
	s.width, s.height = width, height
	s.QueueRelayout()
}

func (s *Stage) Size() (width, height float64) {
	return s.width, s.height
}

// SetEventHandler sets the function events are delivered to.
func (s *Stage) SetEventHandler(fn func(ev *Event)) {
	s.handler = fn
}

// Put appends ev to the event queue. It is delivered by the next
// ProcessEvents call.
func (s *Stage) Put(ev *Event) {
	if ev.Stage == nil {
		ev.Stage = s
	}
	s.queue = append(s.queue, ev)
}

func (s *Stage) PendingEvents() int {
	return len(s.queue)
}

// ProcessEvents delivers the queued events in order. CurrentEvent returns
// the event being delivered while the handler runs.
func (s *Stage) ProcessEvents() int {
	events := s.queue
	s.queue = nil
	for _, ev := range events {
		s.deliver(ev)
	}
	return len(events)
}

func (s *Stage) deliver(ev *Event) {
	prev := s.currentEvent
	s.currentEvent = ev
	defer func() {
		s.currentEvent = prev
	}()
	if s.handler != nil {
		s.handler(ev)
	} else {
		logger.Debugf("drop %v event, no handler", ev.Type)
	}
}

// CurrentEvent returns the event being delivered, or nil.
func (s *Stage) CurrentEvent() *Event {
	return s.currentEvent
}

// CurrentEventTime returns the time of the current event, or 0.
func (s *Stage) CurrentEventTime() uint32 {
	if s.currentEvent == nil {
		return 0
	}
	return s.currentEvent.Time
}

// Relayout runs a layout pass if one was queued.
func (s *Stage) Relayout() bool {
	if !s.NeedsRelayout() {
		return false
	}
	s.Allocate(Box{X2: s.width, Y2: s.height})
	return true
}
