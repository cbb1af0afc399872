// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package global

import (
	"os"
	"path/filepath"

	"github.com/linuxdeepin/go-lib/xdg/basedir"
	"golang.org/x/xerrors"
)

const (
	DefaultDataDir = "/usr/share/dde-shell-bridge"
	userDataSubdir = "dde-shell-bridge"
)

type dirs struct {
	data     string
	image    string
	userData string
}

func newDirs(dataDir, userDataDir string) (dirs, error) {
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	d := dirs{
		data:  withSlash(dataDir),
		image: withSlash(dataDir),
	}

	images := filepath.Join(dataDir, "images")
	if info, err := os.Stat(images); err == nil && info.IsDir() {
		d.image = withSlash(images)
	}

	if userDataDir == "" {
		userDataDir = filepath.Join(basedir.GetUserDataDir(), userDataSubdir)
	}
	err := os.MkdirAll(userDataDir, 0700)
	if err != nil {
		return d, xerrors.Errorf("create user data dir: %w", err)
	}
	d.userData = withSlash(userDataDir)
	return d, nil
}

func withSlash(dir string) string {
	if dir == "" || dir[len(dir)-1] == os.PathSeparator {
		return dir
	}
	return dir + string(os.PathSeparator)
}

// DataDir returns the installed data directory, with a trailing slash.
func (g *Global) DataDir() string {
	return g.dirs.data
}

// ImageDir is the images subdirectory of DataDir when it exists,
// DataDir otherwise.
func (g *Global) ImageDir() string {
	return g.dirs.image
}

func (g *Global) UserDataDir() string {
	return g.dirs.userData
}
