// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseRect(t *testing.T) {
	r, err := parseRect("10, -20,300,40")
	require.NoError(t, err)
	assert.Equal(t, stageRect{X: 10, Y: -20, Width: 300, Height: 40}, r)

	for _, s := range []string{"", "1,2,3", "a,b,c,d", "0,0,-1,5"} {
		_, err = parseRect(s)
		assert.Error(t, err, s)
	}
}

func Test_parseNumbers(t *testing.T) {
	id, err := parseUint32("0x3a00005")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x3a00005), id)

	v, err := parseInts([]string{"1", "-2", "0x10"})
	require.NoError(t, err)
	assert.Equal(t, []int32{1, -2, 16}, v)

	_, err = parseInts([]string{"x"})
	assert.Error(t, err)
}

func Test_commandsArity(t *testing.T) {
	for name, cmd := range commands {
		if name == "monitor" || name == "leisure" {
			assert.Nil(t, cmd.run)
			continue
		}
		assert.NotNil(t, cmd.run, name)
	}
}
