// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package encoding_test

import (
	"testing"

	"github.com/coonjones/pal8asm/pkg/encoding"
)

func TestPackUnpackWordRoundTrip(t *testing.T) {
	for _, v := range []uint{0, 1, 0o77, 0o100, 0o1234, 0o7777} {
		hi, lo := encoding.PackWord(v)
		if hi&0o300 != 0 || lo&0o300 != 0 {
			t.Errorf("PackWord(%04o) = %03o, %03o; tag bits should be clear", v, hi, lo)
		}
		if got := encoding.UnpackWord(hi, lo); got != v {
			t.Errorf("UnpackWord(PackWord(%04o)) = %04o, want %04o", v, got, v)
		}
	}
}

func TestOriginBytesTag(t *testing.T) {
	for _, loc := range []uint{0, 0o200, 0o7777} {
		hi, lo := encoding.OriginBytes(loc)
		if !encoding.IsOriginByte(hi) {
			t.Errorf("OriginBytes(%04o) hi byte %03o not recognized as an origin byte", loc, hi)
		}
		if encoding.IsLeaderByte(hi) {
			t.Errorf("OriginBytes(%04o) hi byte %03o collides with the leader byte", loc, hi)
		}
		if got := encoding.UnpackWord(hi, lo); got != loc {
			t.Errorf("UnpackWord(OriginBytes(%04o)) = %04o, want %04o", loc, got, loc)
		}
	}
}

// TestOriginZeroDoesNotLookLikeLeader guards against the specific
// regression where an origin of 0 packed to exactly 0x80, the leader
// byte's value, because the origin tag was OR'd in as 0x80 instead of
// the correct 0o100.
func TestOriginZeroDoesNotLookLikeLeader(t *testing.T) {
	hi, _ := encoding.OriginBytes(0)
	if hi == 0x80 {
		t.Fatal("origin-0's high byte must not equal the leader byte 0x80")
	}
	if !encoding.IsOriginByte(hi) {
		t.Error("origin-0's high byte should still be recognized as an origin byte")
	}
}

func TestIsLeaderByte(t *testing.T) {
	if !encoding.IsLeaderByte(0x80) {
		t.Error("0x80 should be the leader byte")
	}
	hi, _ := encoding.OriginBytes(0o200)
	if encoding.IsLeaderByte(hi) {
		t.Error("an origin high byte should never read as a leader byte")
	}
}

func TestFieldChangeByte(t *testing.T) {
	for field := uint(0); field < 8; field++ {
		b := encoding.FieldChangeByte(field)
		if !encoding.IsFieldChangeByte(b) {
			t.Errorf("FieldChangeByte(%d) = %03o not recognized as a field-change byte", field, b)
		}
		if encoding.IsOriginByte(b) || encoding.IsLeaderByte(b) {
			t.Errorf("FieldChangeByte(%d) = %03o collides with another tag class", field, b)
		}
		if got := (b >> 3) & 7; got != byte(field) {
			t.Errorf("FieldChangeByte(%d) = %03o encodes field %d", field, b, got)
		}
	}
}

func TestTagClassesAreDisjoint(t *testing.T) {
	hi, _ := encoding.OriginBytes(0o1234)
	fc := encoding.FieldChangeByte(3)
	dataHi, _ := encoding.PackWord(0o7777)

	classes := map[string]byte{
		"leader":       0x80,
		"origin":       hi,
		"field-change": fc,
		"data":         dataHi,
	}
	checks := map[string]func(byte) bool{
		"leader":       encoding.IsLeaderByte,
		"origin":       encoding.IsOriginByte,
		"field-change": encoding.IsFieldChangeByte,
	}

	for name, b := range classes {
		matches := 0
		for checkName, check := range checks {
			if check(b) {
				matches++
				if checkName != name && name != "data" {
					t.Errorf("%s byte %03o also matched the %s predicate", name, b, checkName)
				}
			}
		}
		if name == "data" && matches != 0 {
			t.Errorf("plain data byte %03o matched a tag predicate", b)
		}
		if name != "data" && matches != 1 {
			t.Errorf("%s byte %03o matched %d tag predicates, want exactly 1", name, b, matches)
		}
	}
}
