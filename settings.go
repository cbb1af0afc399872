// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"github.com/linuxdeepin/dde-shell-bridge/global"
	"github.com/linuxdeepin/dde-shell-bridge/mainloop"
	gio "github.com/linuxdeepin/go-gir/gio-2.0"
	"github.com/linuxdeepin/go-lib/gsettings"
	"github.com/linuxdeepin/go-lib/utils"
)

const (
	gsSchemaShellBridge = "com.deepin.dde.shell-bridge"
	gsKeyXdndEnabled    = "xdnd-enabled"
)

// getXdndEnabled is true when the schema is not installed.
func getXdndEnabled() bool {
	s, err := utils.CheckAndNewGSettings(gsSchemaShellBridge)
	if err != nil {
		logger.Debug("no shell-bridge settings:", err)
		return true
	}
	defer s.Unref()
	return readXdndEnabled(s)
}

func readXdndEnabled(s *gio.Settings) bool {
	return s.GetBoolean(gsKeyXdndEnabled)
}

func listenXdndSettings(loop *mainloop.Loop, g *global.Global) {
	if !utils.IsGSchemaExist(gsSchemaShellBridge) {
		return
	}
	gsettings.ConnectChanged(gsSchemaShellBridge, gsKeyXdndEnabled, func(key string) {
		enabled := getXdndEnabled()
		loop.Invoke(func() {
			g.SetXdndEnabled(enabled)
		})
	})
	err := gsettings.StartMonitor()
	if err != nil {
		logger.Warning("failed to monitor gsettings:", err)
	}
}
