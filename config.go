// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fsnotify/fsnotify"
	"github.com/linuxdeepin/dde-shell-bridge/mainloop"
	"github.com/linuxdeepin/go-lib/log"
	"github.com/linuxdeepin/go-lib/xdg/basedir"
	"golang.org/x/xerrors"
)

const (
	sysConfigFile = "/usr/share/dde-shell-bridge/config.json"

	envDataDir = "DDE_SHELL_BRIDGE_DATADIR"
	envDebug   = "DDE_SHELL_BRIDGE_DEBUG"
)

type configInfo struct {
	SessionMode       string `json:"session-mode"`
	Debug             bool   `json:"debug"`
	EnableKeyRedirect *bool  `json:"enable-key-redirect"`
	StageWindowName   string `json:"stage-window-name"`
}

// key redirection is on unless the config turns it off
func (c *configInfo) keyRedirectEnabled() bool {
	return c.EnableKeyRedirect == nil || *c.EnableKeyRedirect
}

func loadConfig(filename string) (*configInfo, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		content, err = os.ReadFile(sysConfigFile)
		if err != nil {
			return nil, err
		}
	}

	var info configInfo
	err = json.Unmarshal(content, &info)
	if err != nil {
		return nil, xerrors.Errorf("parse config: %w", err)
	}
	return &info, nil
}

func loadConfigOrDefault(filename string) *configInfo {
	info, err := loadConfig(filename)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warning("failed to load config:", err)
		}
		return &configInfo{}
	}
	return info
}

func getConfigPath() string {
	return filepath.Join(basedir.GetUserConfigDir(),
		"deepin", "dde-shell-bridge", "config.json")
}

func debugFromEnv() bool {
	v, err := strconv.ParseBool(os.Getenv(envDebug))
	return err == nil && v
}

// keyRedirectSetter is the part of the global context a reloaded config
// touches.
type keyRedirectSetter interface {
	SetKeyRedirect(enabled bool)
}

// watchConfig follows the user config file and applies the debug and
// enable-key-redirect keys live. The directory is watched so the file may be
// created later.
func watchConfig(filename string, loop *mainloop.Loop, g keyRedirectSetter) (func(), error) {
	dir := filepath.Dir(filename)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	err = watcher.Add(dir)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != filename || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				info, err := loadConfig(filename)
				if err != nil {
					logger.Warning("failed to reload config:", err)
					continue
				}
				loop.Invoke(func() {
					applyConfig(info, g)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warning(err)
			}
		}
	}()

	return func() {
		watcher.Close()
	}, nil
}

func applyConfig(info *configInfo, g keyRedirectSetter) {
	applyDebug(info.Debug)
	g.SetKeyRedirect(info.keyRedirectEnabled())
}

func applyDebug(debug bool) {
	if debug {
		doSetLogLevel(log.LevelDebug)
	} else if !*flagDebug {
		doSetLogLevel(log.LevelInfo)
	}
}
