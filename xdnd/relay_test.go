// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package xdnd

import (
	"errors"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	overlayWin xproto.Window = 0x200
	stageWin   xproto.Window = 0x300
	sourceWin  xproto.Window = 0x5400007
)

var testAtoms = Atoms{
	XdndPosition: 301,
	XdndStatus:   302,
	XdndEnter:    303,
	XdndLeave:    304,
}

type sentMessage struct {
	dest xproto.Window
	ev   xproto.ClientMessageEvent
}

type propChange struct {
	win  xproto.Window
	prop string
	typ  string
	data []uint
}

type fakeConn struct {
	sent    []sentMessage
	props   []propChange
	sendErr error
	propErr error
}

func (c *fakeConn) SendClientMessage(dest xproto.Window, ev *xproto.ClientMessageEvent) error {
	c.sent = append(c.sent, sentMessage{dest: dest, ev: *ev})
	return c.sendErr
}

func (c *fakeConn) ChangeProp32(win xproto.Window, prop, typ string, data ...uint) error {
	if c.propErr != nil {
		return c.propErr
	}
	c.props = append(c.props, propChange{win, prop, typ, data})
	return nil
}

func clientMessage(win xproto.Window, typ xproto.Atom, l ...uint32) xproto.ClientMessageEvent {
	data := make([]uint32, 5)
	copy(data, l)
	return xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(data),
	}
}

func TestRelay_Position(t *testing.T) {
	conn := &fakeConn{}
	r := NewRelay(conn, testAtoms, overlayWin, stageWin)

	var gotX, gotY int
	var seenTs uint32
	calls := 0
	r.ConnectPositionChanged(func(x, y int) {
		calls++
		gotX, gotY = x, y
		seenTs = r.Timestamp()
	})

	ev := clientMessage(stageWin, testAtoms.XdndPosition,
		uint32(sourceWin), 0, (100<<16)|50, 987654, 0)
	assert.True(t, r.HandleEvent(ev))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 100, gotX)
	assert.Equal(t, 50, gotY)
	assert.Equal(t, uint32(987654), seenTs)
	assert.Zero(t, r.Timestamp())

	require.Len(t, conn.sent, 1)
	msg := conn.sent[0]
	assert.Equal(t, sourceWin, msg.dest)
	assert.Equal(t, sourceWin, msg.ev.Window)
	assert.Equal(t, testAtoms.XdndStatus, msg.ev.Type)
	assert.Equal(t, byte(32), msg.ev.Format)
	assert.Equal(t, []uint32{uint32(overlayWin), 3, 0, 0, 0}, msg.ev.Data.Data32)
}

func TestRelay_TimestampClearedOnPanic(t *testing.T) {
	r := NewRelay(&fakeConn{}, testAtoms, overlayWin, stageWin)
	r.ConnectPositionChanged(func(x, y int) {
		panic("listener failed")
	})

	ev := clientMessage(overlayWin, testAtoms.XdndPosition, uint32(sourceWin), 0, 0, 42, 0)
	assert.Panics(t, func() { r.HandleEvent(&ev) })
	assert.Zero(t, r.Timestamp())
}

func TestRelay_SendFailureStillEmits(t *testing.T) {
	conn := &fakeConn{sendErr: errors.New("BadWindow")}
	r := NewRelay(conn, testAtoms, overlayWin, stageWin)
	calls := 0
	r.ConnectPositionChanged(func(x, y int) { calls++ })

	ev := clientMessage(stageWin, testAtoms.XdndPosition, uint32(sourceWin), 0, 1<<16|1, 1, 0)
	assert.True(t, r.HandleEvent(ev))
	assert.Equal(t, 1, calls)
}

func TestRelay_EnterLeave(t *testing.T) {
	conn := &fakeConn{}
	r := NewRelay(conn, testAtoms, overlayWin, stageWin)
	var got []string
	r.ConnectEnter(func() { got = append(got, "enter") })
	id := r.ConnectLeave(func() { got = append(got, "leave") })

	assert.True(t, r.HandleEvent(clientMessage(overlayWin, testAtoms.XdndEnter)))
	assert.True(t, r.HandleEvent(clientMessage(stageWin, testAtoms.XdndLeave)))
	assert.Equal(t, []string{"enter", "leave"}, got)
	assert.Empty(t, conn.sent)

	assert.True(t, r.DisconnectLeave(id))
	assert.True(t, r.HandleEvent(clientMessage(stageWin, testAtoms.XdndLeave)))
	assert.Len(t, got, 2)
}

func TestRelay_Declines(t *testing.T) {
	conn := &fakeConn{}
	r := NewRelay(conn, testAtoms, overlayWin, stageWin)
	calls := 0
	r.ConnectPositionChanged(func(x, y int) { calls++ })
	r.ConnectEnter(func() { calls++ })

	// unrelated window
	assert.False(t, r.HandleEvent(clientMessage(0x999, testAtoms.XdndPosition, uint32(sourceWin))))
	// other message type on the stage
	assert.False(t, r.HandleEvent(clientMessage(stageWin, 999)))
	// drop is left to normal processing
	assert.False(t, r.HandleEvent(clientMessage(stageWin, testAtoms.XdndStatus)))
	// not a client message
	assert.False(t, r.HandleEvent(xproto.KeyPressEvent{Event: stageWin}))

	r.SetEnabled(false)
	assert.False(t, r.Enabled())
	assert.False(t, r.HandleEvent(clientMessage(stageWin, testAtoms.XdndEnter)))

	assert.Zero(t, calls)
	assert.Empty(t, conn.sent)
}

func TestRelay_Enable(t *testing.T) {
	conn := &fakeConn{}
	r := NewRelay(conn, testAtoms, overlayWin, stageWin)
	require.NoError(t, r.Enable())

	assert.Equal(t, []propChange{
		{stageWin, "XdndAware", "ATOM", []uint{5}},
		{overlayWin, "XdndProxy", "WINDOW", []uint{uint(stageWin)}},
		{stageWin, "XdndProxy", "WINDOW", []uint{uint(stageWin)}},
	}, conn.props)

	conn.propErr = errors.New("BadAlloc")
	assert.Error(t, r.Enable())
}
