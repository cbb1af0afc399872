// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package keyredirect

var functionKeys = map[uint32]rune{
	0xff08: '\b', // BackSpace
	0xff09: '\t', // Tab
	0xff0a: '\n', // Linefeed
	0xff0b: '\v', // Clear
	0xff0d: '\r', // Return
	0xff1b: 0x1b, // Escape
	0xffff: 0x7f, // Delete
	0xff80: ' ',  // KP_Space
	0xff89: '\t', // KP_Tab
	0xff8d: '\r', // KP_Enter
	0xffaa: '*',  // KP_Multiply
	0xffab: '+',  // KP_Add
	0xffac: ',',  // KP_Separator
	0xffad: '-',  // KP_Subtract
	0xffae: '.',  // KP_Decimal
	0xffaf: '/',  // KP_Divide
	0xffbd: '=',  // KP_Equal
}

// cyrillicLower holds the lower case letters of the 0x6c0 keysym block in
// KOI8 order. 0x6e0 is the same block in upper case.
var cyrillicLower = [32]rune{
	0x44e, 0x430, 0x431, 0x446, 0x434, 0x435, 0x444, 0x433,
	0x445, 0x438, 0x439, 0x43a, 0x43b, 0x43c, 0x43d, 0x43e,
	0x43f, 0x44f, 0x440, 0x441, 0x442, 0x443, 0x436, 0x432,
	0x44c, 0x44b, 0x437, 0x448, 0x44d, 0x449, 0x447, 0x44a,
}

// cyrillicExtra covers 0x6a1 to 0x6af, 0x6b1 to 0x6bf is its upper case.
var cyrillicExtra = [15]rune{
	0x452, 0x453, 0x451, 0x454, 0x455, 0x456, 0x457, 0x458,
	0x459, 0x45a, 0x45b, 0x45c, 0x491, 0x45e, 0x45f,
}

var greekAccented = map[uint32]rune{
	0x7a1: 0x386, 0x7a2: 0x388, 0x7a3: 0x389, 0x7a4: 0x38a,
	0x7a5: 0x3aa, 0x7a7: 0x38c, 0x7a8: 0x38e, 0x7a9: 0x3ab,
	0x7ab: 0x38f, 0x7ae: 0x385, 0x7af: 0x2015,
	0x7b1: 0x3ac, 0x7b2: 0x3ad, 0x7b3: 0x3ae, 0x7b4: 0x3af,
	0x7b5: 0x3ca, 0x7b6: 0x390, 0x7b7: 0x3cc, 0x7b8: 0x3cd,
	0x7b9: 0x3cb, 0x7ba: 0x3b0, 0x7bb: 0x3ce,
	0x7d2: 0x3a3, 0x7f2: 0x3c3, 0x7f3: 0x3c2,
}

func legacyToUnicode(keyval uint32) rune {
	switch {
	case keyval >= 0x6a1 && keyval <= 0x6af:
		return cyrillicExtra[keyval-0x6a1]
	case keyval == 0x6b0:
		return 0x2116 // numerosign
	case keyval >= 0x6b1 && keyval <= 0x6bf:
		r := cyrillicExtra[keyval-0x6b1]
		if r == 0x491 {
			return 0x490
		}
		return r - 0x50
	case keyval >= 0x6c0 && keyval <= 0x6df:
		return cyrillicLower[keyval-0x6c0]
	case keyval >= 0x6e0 && keyval <= 0x6ff:
		return cyrillicLower[keyval-0x6e0] - 0x20
	case keyval >= 0x7a1 && keyval <= 0x7f9:
		if r, ok := greekAccented[keyval]; ok {
			return r
		}
		if keyval >= 0x7c1 && keyval <= 0x7d9 && keyval != 0x7d3 {
			return rune(keyval - 0x7c1 + 0x391)
		}
		if keyval >= 0x7e1 {
			return rune(keyval - 0x7e1 + 0x3b1)
		}
	case keyval == 0xcdf:
		return 0x2017 // hebrew_doublelowline
	case keyval >= 0xce0 && keyval <= 0xcfa:
		return rune(keyval - 0xce0 + 0x5d0)
	case keyval >= 0xda1 && keyval <= 0xdda, keyval >= 0xddf && keyval <= 0xdf9:
		return rune(keyval + 0x60) // Thai
	}
	return 0
}

// keyvalToUnicode returns the character a keysym produces, or 0. Besides
// Latin-1, the keypad and the 0x01000000 Unicode range, the legacy Cyrillic,
// Greek, Hebrew and Thai blocks are translated. Other legacy blocks (Latin-2
// to 4, Arabic, Kana, Hangul, technical symbols) give 0; the keyval is still
// redirected.
func keyvalToUnicode(keyval uint32) rune {
	switch {
	case keyval >= 0x20 && keyval <= 0x7e, keyval >= 0xa0 && keyval <= 0xff:
		return rune(keyval)
	case keyval >= 0xffb0 && keyval <= 0xffb9:
		// KP_0 .. KP_9
		return rune('0' + keyval - 0xffb0)
	case keyval >= 0x01000000 && keyval <= 0x0110ffff:
		return rune(keyval - 0x01000000)
	case keyval < 0x1000:
		return legacyToUnicode(keyval)
	}
	return functionKeys[keyval]
}
