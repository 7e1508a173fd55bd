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

package loader_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/coonjones/pal8asm/pkg/assembler"
	"github.com/coonjones/pal8asm/pkg/encoding"
	"github.com/coonjones/pal8asm/pkg/loader"
)

// buildTape hand-assembles a byte stream the way the object punch
// would: a leader run, one origin pair, a run of contiguous data
// pairs, and optionally a trailing checksum word and closing leader.
func buildTape(t *testing.T, origin uint, words []uint, checksum *uint) []byte {
	t.Helper()
	var buf bytes.Buffer
	for i := 0; i < 6; i++ {
		buf.WriteByte(0x80)
	}
	hi, lo := encoding.OriginBytes(origin)
	buf.WriteByte(hi)
	buf.WriteByte(lo)
	for _, w := range words {
		hi, lo := encoding.PackWord(w)
		buf.WriteByte(hi)
		buf.WriteByte(lo)
	}
	if checksum != nil {
		hi, lo := encoding.PackWord(*checksum)
		buf.WriteByte(hi)
		buf.WriteByte(lo)
	}
	for i := 0; i < 6; i++ {
		buf.WriteByte(0x80)
	}
	return buf.Bytes()
}

func TestDecodeContiguousRun(t *testing.T) {
	sum := uint(0)
	for _, w := range []uint{0o7200, 0o7402} {
		hi, lo := encoding.PackWord(w)
		sum += uint(hi) + uint(lo)
	}
	hi, lo := encoding.OriginBytes(0o200)
	sum += uint(hi) + uint(lo)
	sum &= 0o7777

	tape := buildTape(t, 0o200, []uint{0o7200, 0o7402}, &sum)

	img, err := loader.Decode(tape, true)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := img.Words[0o200]; got != 0o7200 {
		t.Errorf("word at 0o200 = %04o, want 0o7200", got)
	}
	if got := img.Words[0o201]; got != 0o7402 {
		t.Errorf("word at 0o201 = %04o, want 0o7402", got)
	}
	if img.Checksum != sum {
		t.Errorf("decoded checksum %04o, want %04o", img.Checksum, sum)
	}
	if !loader.Verify(img) {
		t.Error("Verify should accept a correctly computed checksum")
	}
}

func TestVerifyRejectsCorruptedChecksum(t *testing.T) {
	bad := uint(0o1111)
	tape := buildTape(t, 0o200, []uint{0o7200, 0o7402}, &bad)

	img, err := loader.Decode(tape, true)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if loader.Verify(img) {
		t.Error("Verify should reject a tape whose trailing word doesn't match the data")
	}
}

func TestDecodeRimHasNoChecksum(t *testing.T) {
	tape := buildTape(t, 0o200, []uint{0o7200}, nil)

	img, err := loader.Decode(tape, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := img.Words[0o200]; got != 0o7200 {
		t.Errorf("word at 0o200 = %04o, want 0o7200", got)
	}
	if img.Checksum != 0 {
		t.Errorf("a tape with no trailing word should report checksum 0, got %04o", img.Checksum)
	}
}

func TestDecodeOriginZeroDoesNotStopAtLeader(t *testing.T) {
	// Regression test: an origin of 0 must not be indistinguishable
	// from the leader run that precedes it.
	tape := buildTape(t, 0, []uint{0o1234}, nil)

	img, err := loader.Decode(tape, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got, ok := img.Words[0]; !ok || got != 0o1234 {
		t.Errorf("word at origin 0 = %04o, ok=%v; want 0o1234, true", got, ok)
	}
}

func TestDecodeDataPairBeforeOriginIsAnError(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 6; i++ {
		buf.WriteByte(0x80)
	}
	hi, lo := encoding.PackWord(0o1234)
	buf.WriteByte(hi)
	buf.WriteByte(lo)

	if _, err := loader.Decode(buf.Bytes(), false); err == nil {
		t.Error("a data pair with no preceding origin should be rejected")
	}
}

func TestDecodeFieldChange(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 6; i++ {
		buf.WriteByte(0x80)
	}
	buf.WriteByte(encoding.FieldChangeByte(1))
	hi, lo := encoding.OriginBytes(0o200)
	buf.WriteByte(hi)
	buf.WriteByte(lo)
	hi, lo = encoding.PackWord(0o4567)
	buf.WriteByte(hi)
	buf.WriteByte(lo)
	for i := 0; i < 6; i++ {
		buf.WriteByte(0x80)
	}

	img, err := loader.Decode(buf.Bytes(), false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := uint(1)<<12 | 0o200
	if got, ok := img.Words[want]; !ok || got != 0o4567 {
		t.Errorf("word at field 1 address 0o200 = %04o, ok=%v; want 0o4567, true", got, ok)
	}
}

// TestRoundTripThroughAssembler exercises the loader as the BIN
// punch's actual consumer rather than against hand-built bytes: what
// the assembler emits must be exactly what the loader reads back.
func TestRoundTripThroughAssembler(t *testing.T) {
	var obj bytes.Buffer
	_, err := assembler.Assemble(strings.NewReader("*200\n TAD 17\n DCA 22\n HLT\n $\n"), "rt.pa", assembler.Outputs{
		Object: &obj,
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	img, err := loader.Load(bytes.NewReader(obj.Bytes()), true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(img.Words) != 3 {
		t.Fatalf("got %d words, want 3", len(img.Words))
	}
	if !loader.Verify(img) {
		t.Error("a freshly punched BIN tape must verify against its own checksum")
	}
}

func TestRoundTripNonContiguousOrigins(t *testing.T) {
	var obj bytes.Buffer
	_, err := assembler.Assemble(strings.NewReader("*200\n CLA\n *300\n HLT\n $\n"), "rt.pa", assembler.Outputs{
		Object: &obj,
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	img, err := loader.Load(bytes.NewReader(obj.Bytes()), true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := img.Words[0o200]; got != 0o7200 {
		t.Errorf("word at 0o200 = %04o, want 0o7200", got)
	}
	if got := img.Words[0o300]; got != 0o7402 {
		t.Errorf("word at 0o300 = %04o, want 0o7402", got)
	}
	if !loader.Verify(img) {
		t.Error("a tape with a re-origined gap must still verify")
	}
}
