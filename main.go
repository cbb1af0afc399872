// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/linuxdeepin/dde-shell-bridge/embed"
	"github.com/linuxdeepin/dde-shell-bridge/global"
	"github.com/linuxdeepin/dde-shell-bridge/inputmode"
	"github.com/linuxdeepin/dde-shell-bridge/keyredirect"
	"github.com/linuxdeepin/dde-shell-bridge/leisure"
	"github.com/linuxdeepin/dde-shell-bridge/mainloop"
	"github.com/linuxdeepin/dde-shell-bridge/scene"
	"github.com/linuxdeepin/dde-shell-bridge/toolkit"
	"github.com/linuxdeepin/dde-shell-bridge/wmfocus"
	"github.com/linuxdeepin/dde-shell-bridge/x11"
	"github.com/linuxdeepin/dde-shell-bridge/xdnd"
	"github.com/linuxdeepin/go-lib/log"
	"golang.org/x/xerrors"
)

var logger = log.NewLogger("dde-shell-bridge")

var (
	flagDebug       = flag.Bool("d", false, "debug")
	flagSessionMode = flag.String("session-mode", "", "the session mode reported to the shell")
	flagNoDBus      = flag.Bool("no-dbus", false, "do not export the D-Bus service")
)

const defaultStageName = "dde-shell-bridge stage"

func doSetLogLevel(level log.Priority) {
	logger.SetLogLevel(level)
	global.SetLogLevel(level)
	inputmode.SetLogLevel(level)
	xdnd.SetLogLevel(level)
	keyredirect.SetLogLevel(level)
	embed.SetLogLevel(level)
	leisure.SetLogLevel(level)
	scene.SetLogLevel(level)
	toolkit.SetLogLevel(level)
	wmfocus.SetLogLevel(level)
	x11.SetLogLevel(level)
}

func internXdndAtoms(conn *x11.Conn) (xdnd.Atoms, error) {
	var atoms xdnd.Atoms
	var err error
	for name, dst := range map[string]*xproto.Atom{
		"XdndPosition": &atoms.XdndPosition,
		"XdndStatus":   &atoms.XdndStatus,
		"XdndEnter":    &atoms.XdndEnter,
		"XdndLeave":    &atoms.XdndLeave,
	} {
		*dst, err = conn.Atom(name)
		if err != nil {
			return atoms, xerrors.Errorf("intern %s: %w", name, err)
		}
	}
	return atoms, nil
}

func main() {
	flag.Parse()

	cfgFile := getConfigPath()
	cfg := loadConfigOrDefault(cfgFile)
	if *flagDebug || cfg.Debug || debugFromEnv() {
		doSetLogLevel(log.LevelDebug)
	}

	sessionMode := *flagSessionMode
	if sessionMode == "" {
		sessionMode = cfg.SessionMode
	}
	stageName := cfg.StageWindowName
	if stageName == "" {
		stageName = defaultStageName
	}

	conn, err := x11.Open(stageName)
	if err != nil {
		logger.Fatal("failed to connect to X:", err)
	}
	defer conn.Close()

	atoms, err := internXdndAtoms(conn)
	if err != nil {
		logger.Fatal(err)
	}

	width, height := conn.ScreenSize()
	loop := mainloop.New()
	g, err := global.New(loop, global.XDisplay{Conn: conn}, global.Options{
		SessionMode:       sessionMode,
		DataDir:           os.Getenv(envDataDir),
		StageWindow:       uint32(conn.Stage()),
		OverlayWindow:     uint32(conn.Overlay()),
		ScreenWidth:       int(width),
		ScreenHeight:      int(height),
		XdndAtoms:         atoms,
		EnableKeyRedirect: cfg.keyRedirectEnabled(),
		EnableXdnd:        getXdndEnabled(),
	})
	if err != nil {
		logger.Fatal("failed to init global context:", err)
	}
	defer g.Destroy()

	conn.AddFilter(g.Xdnd().HandleEvent)
	conn.AddFilter(conn.KeyFilter(g.Toolkit()))
	conn.AddFilter(conn.GrabFilter(g.Grabs()))
	conn.AddFilter(conn.FocusFilter(g.FocusWindowChanged))
	before, after, quit := conn.MainPing()
	loop.AttachEventSource(before, after, quit, g.AfterEvent)

	watcher, err := wmfocus.NewWatcher()
	if err != nil {
		logger.Warning("failed to watch active window:", err)
	} else {
		go watcher.Run(func(win uint32) {
			loop.Invoke(func() {
				g.FocusWindowChanged(win)
			})
		})
		defer watcher.Stop()
	}

	stopWatch, err := watchConfig(cfgFile, loop, g)
	if err != nil {
		logger.Warning("failed to watch config:", err)
	} else {
		defer stopWatch()
	}

	listenXdndSettings(loop, g)

	if !*flagNoDBus {
		err = startDBus(loop, g)
		if err != nil {
			logger.Fatal("failed to export D-Bus service:", err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal:", sig)
		loop.Quit()
	}()

	logger.Info("dde-shell-bridge running, session mode:", g.SessionMode())
	loop.Run()
}
