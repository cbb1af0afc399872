// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package x11

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextureForget(t *testing.T) {
	c := newTestConn()
	c.composite = true
	tex := c.NewTexture()
	tex.window = 0x2a00001

	tex.Forget()
	assert.Zero(t, tex.Window())
	// no connection is set up, so reaching the server would panic
	assert.NotPanics(t, func() {
		tex.SetWindow(0, false)
	})
}

func TestTextureWithoutComposite(t *testing.T) {
	tex := newTestConn().NewTexture()
	tex.SetWindow(0x2a00001, false)
	assert.Equal(t, uint32(0x2a00001), tex.Window())
	tex.SetWindow(0, false)
	assert.Zero(t, tex.Window())
}
