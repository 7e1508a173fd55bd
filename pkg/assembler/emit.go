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

package assembler

import (
	"io"

	"github.com/coonjones/pal8asm/pkg/encoding"
)

// objectWriter is the §4.H byte-stream encoder, shared by RIM and BIN
// modes. RIM tags every word with its own origin pair; BIN emits an
// origin only when the address isn't contiguous with the last word
// written, and appends a trailing checksum.
type objectWriter struct {
	w   io.Writer
	rim bool

	curLoc  uint
	haveLoc bool

	checksum uint
	dataOut  bool
}

func newObjectWriter(w io.Writer, rim bool) *objectWriter {
	ow := &objectWriter{w: w, rim: rim}
	ow.writeLeader(DefaultLeaderBytes)
	return ow
}

func (o *objectWriter) putByte(b byte, countChecksum bool) {
	if o.w != nil {
		o.w.Write([]byte{b})
	}
	if countChecksum {
		o.checksum = (o.checksum + uint(b)) & WordMask
	}
}

func (o *objectWriter) writeLeader(n int) {
	for i := 0; i < n; i++ {
		o.putByte(0x80, false)
	}
}

// writeOrigin punches an origin pair: the high byte tagged (per
// encoding.OriginBytes) to mark it as an origin rather than data.
func (o *objectWriter) writeOrigin(loc uint) {
	hi, lo := encoding.OriginBytes(loc)
	o.putByte(hi, true)
	o.putByte(lo, true)
	o.curLoc = loc
	o.haveLoc = true
}

// writeFieldChange punches a field-change byte per §4.H. It does not
// contribute to the checksum.
func (o *objectWriter) writeFieldChange(field uint) {
	n := (field >> 12) & 7
	o.putByte(encoding.FieldChangeByte(n), false)
}

// writeDataWord punches one word pair, preceded by a fresh origin pair
// whenever RIM mode is active or the address isn't contiguous with the
// previous word.
func (o *objectWriter) writeDataWord(loc, value uint) {
	if o.rim || !o.haveLoc || loc != o.curLoc {
		o.writeOrigin(loc)
	}
	hi, lo := encoding.PackWord(value)
	o.putByte(hi, true)
	o.putByte(lo, true)
	o.curLoc = loc + 1
	o.dataOut = true
}

// switchToRim implements RIMPUNCH's tape-segment boundary: optionally
// write the trailing checksum, then a leader, before flipping modes.
func (o *objectWriter) switchToRim(leaderLen int, writeChecksum bool) {
	if !o.rim && o.dataOut && writeChecksum {
		hi, lo := encoding.PackWord(o.checksum)
		o.putByte(hi, false)
		o.putByte(lo, false)
	}
	o.writeLeader(leaderLen)
	o.rim = true
	o.haveLoc = false
	o.dataOut = false
}

// switchToBin implements BINPUNCH's tape-segment boundary: write a
// leader and reset the checksum before flipping modes.
func (o *objectWriter) switchToBin(leaderLen int) {
	o.writeLeader(leaderLen)
	o.rim = false
	o.checksum = 0
	o.haveLoc = false
	o.dataOut = false
}

// finish writes the trailing checksum (BIN mode, if any data was
// punched) and the closing trailer, per §4.H/§5.
func (o *objectWriter) finish(a *Assembler) {
	if !o.rim && o.dataOut {
		hi, lo := encoding.PackWord(o.checksum)
		o.putByte(hi, false)
		o.putByte(lo, false)
	}
	o.writeLeader(DefaultLeaderBytes)
}
