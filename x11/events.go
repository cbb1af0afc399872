// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/linuxdeepin/dde-shell-bridge/toolkit"
	"golang.org/x/xerrors"
)

// Filter sees every X event before xgbutil dispatches it and reports
// whether the event was consumed.
type Filter func(ev interface{}) bool

// AddFilter appends f to the filters run by the event hook, in order.
func (c *Conn) AddFilter(f Filter) {
	c.filters = append(c.filters, f)
}

func (c *Conn) hook(xu *xgbutil.XUtil, ev interface{}) bool {
	c.eventTime = eventTime(ev)

	if e, ok := ev.(xproto.DestroyNotifyEvent); ok {
		if onDestroy, ok := c.tracked[e.Window]; ok {
			delete(c.tracked, e.Window)
			onDestroy()
		}
	}

	for _, f := range c.filters {
		if f(ev) {
			return false
		}
	}
	return true
}

// EventTime returns the timestamp of the event being dispatched, or 0
// outside of event dispatch.
func (c *Conn) EventTime() uint32 {
	return c.eventTime
}

// EndEvent marks the end of the current event dispatch.
func (c *Conn) EndEvent() {
	c.eventTime = 0
}

func eventTime(ev interface{}) uint32 {
	var t xproto.Timestamp
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		t = e.Time
	case xproto.KeyReleaseEvent:
		t = e.Time
	case xproto.ButtonPressEvent:
		t = e.Time
	case xproto.ButtonReleaseEvent:
		t = e.Time
	case xproto.MotionNotifyEvent:
		t = e.Time
	case xproto.EnterNotifyEvent:
		t = e.Time
	case xproto.LeaveNotifyEvent:
		t = e.Time
	case xproto.PropertyNotifyEvent:
		t = e.Time
	case xproto.SelectionClearEvent:
		t = e.Time
	case xproto.SelectionRequestEvent:
		t = e.Time
	case xproto.SelectionNotifyEvent:
		t = e.Time
	}
	return uint32(t)
}

// KeyFilter forwards key events of the stage window to the toolkit event
// queue. The events are left to xgbutil as well.
func (c *Conn) KeyFilter(d *toolkit.Dispatcher) Filter {
	return func(ev interface{}) bool {
		var e xproto.KeyPressEvent
		typ := toolkit.EventKeyPress
		switch k := ev.(type) {
		case xproto.KeyPressEvent:
			e = k
		case xproto.KeyReleaseEvent:
			e = xproto.KeyPressEvent(k)
			typ = toolkit.EventKeyRelease
		default:
			return false
		}
		if e.Event != c.stage {
			return false
		}
		d.Put(&toolkit.Event{
			Type:            typ,
			Window:          uint32(e.Event),
			Time:            uint32(e.Time),
			State:           e.State,
			Keyval:          uint32(c.keysym(e.Detail, e.State)),
			HardwareKeycode: uint16(e.Detail),
		})
		return false
	}
}

func (c *Conn) keysym(keycode xproto.Keycode, state uint16) xproto.Keysym {
	if state&xproto.ModMaskShift != 0 {
		if sym := keybind.KeysymGet(c.xu, keycode, 1); sym != 0 {
			return sym
		}
	}
	return keybind.KeysymGet(c.xu, keycode, 0)
}

// GrabFilter reports keyboard grabs taken by other clients. While another
// client holds a grab the stage loses focus with mode NotifyGrab and gets
// it back with NotifyUngrab. Our own modal grab is ignored.
func (c *Conn) GrabFilter(g *toolkit.GrabNotifier) Filter {
	return func(ev interface{}) bool {
		if c.modal {
			return false
		}
		switch e := ev.(type) {
		case xproto.FocusOutEvent:
			if e.Event == c.stage && e.Mode == xproto.NotifyModeGrab {
				g.Grab()
			}
		case xproto.FocusInEvent:
			if e.Event == c.stage && e.Mode == xproto.NotifyModeUngrab {
				g.Ungrab()
			}
		}
		return false
	}
}

// FocusFilter reports the stage losing the keyboard focus to another
// window with onFocusLost. Focus moves caused by grabs are left to
// GrabFilter, and moves into a child of the stage are ignored.
func (c *Conn) FocusFilter(onFocusLost func(win uint32)) Filter {
	return func(ev interface{}) bool {
		e, ok := ev.(xproto.FocusOutEvent)
		if !ok || e.Event != c.stage {
			return false
		}
		if e.Mode != xproto.NotifyModeNormal && e.Mode != xproto.NotifyModeWhileGrabbed {
			return false
		}
		if e.Detail == xproto.NotifyDetailInferior {
			return false
		}
		win, err := c.inputFocus()
		if err != nil {
			logger.Warning(err)
			return false
		}
		if win == xproto.InputFocusNone || win == xproto.InputFocusPointerRoot {
			win = c.root
		}
		if win != c.stage {
			onFocusLost(uint32(win))
		}
		return false
	}
}

func (c *Conn) queryInputFocus() (xproto.Window, error) {
	reply, err := xproto.GetInputFocus(c.xu.Conn()).Reply()
	if err != nil {
		return 0, xerrors.Errorf("get input focus: %w", err)
	}
	return reply.Focus, nil
}
