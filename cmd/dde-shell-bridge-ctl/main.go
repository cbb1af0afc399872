// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/dde-shell-bridge/global"
	"github.com/linuxdeepin/dde-shell-bridge/inputmode"
	"github.com/linuxdeepin/go-lib/log"
	"golang.org/x/xerrors"
)

const (
	dbusDest = "org.deepin.dde.ShellBridge1"
	dbusPath = "/org/deepin/dde/ShellBridge1"
	dbusIFC  = dbusDest
)

var logger = log.NewLogger("dde-shell-bridge-ctl")

type stageRect struct {
	X      int16
	Y      int16
	Width  uint16
	Height uint16
}

type command struct {
	args  string
	nArgs int
	run   func(obj dbus.BusObject, args []string) error
}

var commands = map[string]command{
	"mode":         {"[nonreactive|normal|fullscreen|focused]", -1, runMode},
	"region":       {"X,Y,W,H...", -1, runRegion},
	"time":         {"", 0, runTime},
	"notify-error": {"MSG DETAILS", 2, runNotifyError},
	"barrier":      {"X1 Y1 X2 Y2 DIRECTIONS", 5, runBarrier},
	"unbarrier":    {"ID", 1, runUnbarrier},
	"pointer":      {"", 0, runPointer},
	"sync-pointer": {"", 0, runSyncPointer},
	"session-mode": {"", 0, runSessionMode},
	"embed":        {"XID X Y", 3, runEmbed},
	"release":      {"XID", 1, runRelease},
	"cursor":       {"[none|dnd-in-drag|dnd-unsupported-target|dnd-move|dnd-copy|pointing-hand]", 1, runCursor},
	"begin-work":   {"", 0, runBeginWork},
	"end-work":     {"", 0, runEndWork},
	"gc":           {"", 0, runGC},
	"gc-age":       {"", 0, runGCAge},
	"leisure":      {"ID", 1, nil},
	"monitor":      {"", 0, nil},
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s COMMAND [ARGS]\n\ncommands:\n", os.Args[0])
	for name, cmd := range commands {
		fmt.Fprintf(os.Stderr, "  %-13s %s\n", name, cmd.args)
	}
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	name, args := flag.Arg(0), flag.Args()[1:]
	cmd, ok := commands[name]
	if !ok || (cmd.nArgs >= 0 && len(args) != cmd.nArgs) {
		usage()
		os.Exit(2)
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		logger.Fatal(err)
	}

	switch name {
	case "monitor":
		err = monitor(conn)
	case "leisure":
		var id uint32
		id, err = parseUint32(args[0])
		if err == nil {
			err = runAtLeisure(conn, id)
		}
	default:
		err = cmd.run(conn.Object(dbusDest, dbusPath), args)
	}
	if err != nil {
		logger.Fatal(err)
	}
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	return uint32(v), err
}

func parseInts(args []string) ([]int32, error) {
	result := make([]int32, len(args))
	for i, arg := range args {
		v, err := strconv.ParseInt(arg, 0, 32)
		if err != nil {
			return nil, err
		}
		result[i] = int32(v)
	}
	return result, nil
}

func parseRect(s string) (stageRect, error) {
	var r stageRect
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return r, xerrors.Errorf("bad rectangle %q", s)
	}
	var values [4]int64
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 32)
		if err != nil {
			return r, xerrors.Errorf("bad rectangle %q: %w", s, err)
		}
		values[i] = v
	}
	if values[2] < 0 || values[3] < 0 {
		return r, xerrors.Errorf("bad rectangle %q: negative size", s)
	}
	r = stageRect{X: int16(values[0]), Y: int16(values[1]),
		Width: uint16(values[2]), Height: uint16(values[3])}
	return r, nil
}

func runMode(obj dbus.BusObject, args []string) error {
	switch len(args) {
	case 0:
		var mode uint32
		err := obj.Call(dbusIFC+".GetStageInputMode", 0).Store(&mode)
		if err != nil {
			return err
		}
		fmt.Println(inputmode.Mode(mode))
		return nil
	case 1:
		mode, err := inputmode.ParseMode(args[0])
		if err != nil {
			return err
		}
		return obj.Call(dbusIFC+".SetStageInputMode", 0, uint32(mode)).Err
	}
	return xerrors.New("mode takes at most one argument")
}

func runRegion(obj dbus.BusObject, args []string) error {
	rects := make([]stageRect, 0, len(args))
	for _, arg := range args {
		r, err := parseRect(arg)
		if err != nil {
			return err
		}
		rects = append(rects, r)
	}
	return obj.Call(dbusIFC+".SetStageInputRegion", 0, rects).Err
}

func runTime(obj dbus.BusObject, args []string) error {
	var timestamp uint32
	err := obj.Call(dbusIFC+".GetCurrentTime", 0).Store(&timestamp)
	if err != nil {
		return err
	}
	fmt.Println(timestamp)
	return nil
}

func runNotifyError(obj dbus.BusObject, args []string) error {
	return obj.Call(dbusIFC+".NotifyError", 0, args[0], args[1]).Err
}

func runBarrier(obj dbus.BusObject, args []string) error {
	v, err := parseInts(args[:4])
	if err != nil {
		return err
	}
	directions, err := parseUint32(args[4])
	if err != nil {
		return err
	}
	var id uint32
	err = obj.Call(dbusIFC+".CreatePointerBarrier", 0,
		v[0], v[1], v[2], v[3], directions).Store(&id)
	if err != nil {
		return err
	}
	if id == 0 {
		return xerrors.New("pointer barriers are not supported")
	}
	fmt.Println(id)
	return nil
}

func runUnbarrier(obj dbus.BusObject, args []string) error {
	id, err := parseUint32(args[0])
	if err != nil {
		return err
	}
	return obj.Call(dbusIFC+".DestroyPointerBarrier", 0, id).Err
}

func runPointer(obj dbus.BusObject, args []string) error {
	var x, y int32
	var mods uint32
	err := obj.Call(dbusIFC+".GetPointer", 0).Store(&x, &y, &mods)
	if err != nil {
		return err
	}
	fmt.Printf("%d %d %#x\n", x, y, mods)
	return nil
}

func runSyncPointer(obj dbus.BusObject, args []string) error {
	return obj.Call(dbusIFC+".SyncPointer", 0).Err
}

func runSessionMode(obj dbus.BusObject, args []string) error {
	var mode string
	err := obj.Call(dbusIFC+".GetSessionMode", 0).Store(&mode)
	if err != nil {
		return err
	}
	fmt.Println(mode)
	return nil
}

func runEmbed(obj dbus.BusObject, args []string) error {
	xid, err := parseUint32(args[0])
	if err != nil {
		return err
	}
	pos, err := parseInts(args[1:])
	if err != nil {
		return err
	}
	return obj.Call(dbusIFC+".EmbedWindow", 0, xid, pos[0], pos[1]).Err
}

func runRelease(obj dbus.BusObject, args []string) error {
	xid, err := parseUint32(args[0])
	if err != nil {
		return err
	}
	var released bool
	err = obj.Call(dbusIFC+".ReleaseEmbeddedWindow", 0, xid).Store(&released)
	if err != nil {
		return err
	}
	if !released {
		return xerrors.Errorf("window %#x is not embedded", xid)
	}
	return nil
}

func runCursor(obj dbus.BusObject, args []string) error {
	cursor, err := global.ParseCursor(args[0])
	if err != nil {
		return err
	}
	if cursor == global.CursorNone {
		return obj.Call(dbusIFC+".UnsetCursor", 0).Err
	}
	return obj.Call(dbusIFC+".SetCursor", 0, uint32(cursor)).Err
}

func runBeginWork(obj dbus.BusObject, args []string) error {
	return obj.Call(dbusIFC+".BeginWork", 0).Err
}

func runEndWork(obj dbus.BusObject, args []string) error {
	return obj.Call(dbusIFC+".EndWork", 0).Err
}

func runGC(obj dbus.BusObject, args []string) error {
	return obj.Call(dbusIFC+".NotifyGC", 0).Err
}

func runGCAge(obj dbus.BusObject, args []string) error {
	var seconds float64
	err := obj.Call(dbusIFC+".GetLastGCSecondsAgo", 0).Store(&seconds)
	if err != nil {
		return err
	}
	if seconds < 0 {
		fmt.Println("never")
	} else {
		fmt.Printf("%.1fs\n", seconds)
	}
	return nil
}

// runAtLeisure waits for the LeisureReached signal carrying id.
func runAtLeisure(conn *dbus.Conn, id uint32) error {
	err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(dbusPath),
		dbus.WithMatchInterface(dbusIFC),
		dbus.WithMatchMember("LeisureReached"),
	)
	if err != nil {
		return err
	}
	ch := make(chan *dbus.Signal, 10)
	conn.Signal(ch)
	defer conn.RemoveSignal(ch)

	err = conn.Object(dbusDest, dbusPath).Call(dbusIFC+".RunAtLeisure", 0, id).Err
	if err != nil {
		return err
	}
	for sig := range ch {
		if sig.Name != dbusIFC+".LeisureReached" || len(sig.Body) != 1 {
			continue
		}
		if got, ok := sig.Body[0].(uint32); ok && got == id {
			fmt.Println("leisure", id)
			return nil
		}
	}
	return xerrors.New("connection closed")
}

func monitor(conn *dbus.Conn) error {
	err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(dbusPath),
		dbus.WithMatchInterface(dbusIFC),
	)
	if err != nil {
		return err
	}

	ch := make(chan *dbus.Signal, 10)
	conn.Signal(ch)
	for sig := range ch {
		name := strings.TrimPrefix(sig.Name, dbusIFC+".")
		if name == "StageInputModeChanged" && len(sig.Body) == 1 {
			if mode, ok := sig.Body[0].(uint32); ok {
				fmt.Println(name, inputmode.Mode(mode))
				continue
			}
		}
		fmt.Println(name, sig.Body)
	}
	return nil
}
