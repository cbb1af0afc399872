// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package leisure runs deferred callbacks once no busy work is outstanding.
package leisure

import (
	"github.com/linuxdeepin/go-lib/log"
)

var logger = log.NewLogger("dde-shell-bridge/leisure")

func SetLogLevel(level log.Priority) {
	logger.SetLogLevel(level)
}

type Func func(data interface{})

// Idler schedules a low priority callback on the event loop.
type Idler interface {
	IdleAdd(fn func())
}

type closure struct {
	fn     Func
	data   interface{}
	notify Func
}

type Scheduler struct {
	idler     Idler
	workCount uint
	closures  []closure
	scheduled bool
}

func NewScheduler(idler Idler) *Scheduler {
	if idler == nil {
		panic("leisure: nil idler")
	}
	return &Scheduler{idler: idler}
}

// BeginWork marks the start of busy work. Leisure callbacks are held back
// until every BeginWork has been matched by EndWork.
func (s *Scheduler) BeginWork() {
	s.workCount++
}

func (s *Scheduler) EndWork() {
	if s.workCount == 0 {
		panic("leisure: EndWork called without matching BeginWork")
	}
	s.workCount--
	if s.workCount == 0 {
		s.schedule()
	}
}

// RunAtLeisure queues fn to be called with data the next time the work
// count is zero. notify, when not nil, is called with data right after fn.
// fn is never run inline, even when no work is outstanding.
func (s *Scheduler) RunAtLeisure(fn Func, data interface{}, notify Func) {
	s.closures = append(s.closures, closure{fn: fn, data: data, notify: notify})
	if s.workCount == 0 {
		s.schedule()
	}
}

func (s *Scheduler) WorkCount() uint {
	return s.workCount
}

// Pending returns the number of queued callbacks.
func (s *Scheduler) Pending() int {
	return len(s.closures)
}

// Scheduled reports whether a drain is waiting for the idle callback.
func (s *Scheduler) Scheduled() bool {
	return s.scheduled
}

func (s *Scheduler) schedule() {
	if s.scheduled {
		return
	}
	s.scheduled = true
	s.idler.IdleAdd(s.drain)
}

func (s *Scheduler) drain() {
	s.scheduled = false

	// work began after scheduling, the matching EndWork reschedules
	if s.workCount > 0 {
		return
	}

	closures := s.closures
	s.closures = nil
	if len(closures) > 0 {
		logger.Debugf("run %d leisure closures", len(closures))
	}
	for _, c := range closures {
		if c.fn != nil {
			c.fn(c.data)
		}
		if c.notify != nil {
			c.notify(c.data)
		}
	}
}
