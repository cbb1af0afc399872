// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package inputmode

import (
	"fmt"
)

// Mode governs which part of the stage accepts pointer input.
type Mode uint32

const (
	ModeNonreactive Mode = iota
	ModeNormal
	ModeFullscreen
	ModeFocused
)

func (m Mode) String() string {
	switch m {
	case ModeNonreactive:
		return "nonreactive"
	case ModeNormal:
		return "normal"
	case ModeFullscreen:
		return "fullscreen"
	case ModeFocused:
		return "focused"
	default:
		return fmt.Sprintf("Mode(%d)", uint32(m))
	}
}

func (m Mode) Valid() bool {
	return m <= ModeFocused
}

// ParseMode accepts the names returned by String.
func ParseMode(name string) (Mode, error) {
	for m := ModeNonreactive; m <= ModeFocused; m++ {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid stage input mode %q", name)
}

type Rectangle struct {
	X, Y          int16
	Width, Height uint16
}

// RegionID is a server side region handle.
type RegionID uint32

const RegionNone RegionID = 0
