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

// Package loader reads a RIM or BIN paper-tape image back into a
// sparse memory map, the inverse of the assembler's object punch. It
// exists to round-trip the punch's own output rather than to read
// arbitrary third-party tapes.
package loader

import (
	"errors"
	"io"
	"sort"

	"github.com/coonjones/pal8asm/pkg/encoding"
)

// Image is the decoded contents of a tape: 12-bit words keyed by their
// absolute (field<<12 | address) location, plus the checksum BIN
// appends (zero for RIM, which carries none) and the sum, modulo 2^12,
// actually accumulated by Decode over the origin and data bytes read.
// Verify recomputes its own sum from Words rather than reading Computed.
type Image struct {
	Words    map[uint]uint
	Checksum uint
	Computed uint
}

// Load reads all of r and decodes it as a RIM or BIN tape. isBin tells
// the decoder whether to expect BIN's trailing checksum word (RIM
// carries none); the object punch itself makes the same distinction by
// construction, so a caller that knows which mode it punched in always
// has this in hand.
func Load(r io.Reader, isBin bool) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data, isBin)
}

// tapePair is one origin, field-change, or data pair isolated from the
// byte stream, kept in stream order so the trailing BIN checksum (which
// carries no tag of its own) can be recognized by position — it is
// always the last pair before the closing trailer — before the
// remaining pairs are replayed into an address-keyed word map.
type tapePair struct {
	isOrigin bool
	isField  bool
	field    uint
	value    uint
}

// Decode parses a byte-pair tape image already read into memory. The
// algorithm mirrors the classic skip-leader / read-pairs shape: skip
// the opening leader run, then alternate between origin pairs (high
// byte tagged per encoding.IsOriginByte), field-change bytes, and data
// pairs until the tape settles into a uniform trailer run.
func Decode(data []byte, isBin bool) (*Image, error) {
	img := &Image{Words: make(map[uint]uint)}

	i := 0
	for i < len(data) && encoding.IsLeaderByte(data[i]) {
		i++
	}

	var pairs []tapePair
	for i < len(data) {
		if allLeader(data[i:]) {
			break
		}

		if encoding.IsFieldChangeByte(data[i]) {
			pairs = append(pairs, tapePair{isField: true, field: uint((data[i]>>3)&7) << 12})
			i++
			continue
		}

		if i+1 >= len(data) {
			break
		}

		hi, lo := data[i], data[i+1]
		if encoding.IsOriginByte(hi) {
			pairs = append(pairs, tapePair{isOrigin: true, value: encoding.UnpackWord(hi, lo)})
		} else {
			pairs = append(pairs, tapePair{value: encoding.UnpackWord(hi, lo)})
		}
		i += 2
	}

	if isBin && len(pairs) > 0 {
		last := pairs[len(pairs)-1]
		if !last.isOrigin && !last.isField {
			img.Checksum = last.value
			pairs = pairs[:len(pairs)-1]
		}
	}

	var curLoc, field uint
	haveLoc := false
	for _, p := range pairs {
		switch {
		case p.isField:
			field = p.field
			curLoc = field
			haveLoc = true
		case p.isOrigin:
			curLoc = field | p.value
			haveLoc = true
			hi, lo := encoding.OriginBytes(p.value)
			img.Computed = (img.Computed + uint(hi) + uint(lo)) & 0o7777
		default:
			if !haveLoc {
				return nil, errors.New("loader: data pair before any origin")
			}
			img.Words[curLoc] = p.value
			hi, lo := encoding.PackWord(p.value)
			img.Computed = (img.Computed + uint(hi) + uint(lo)) & 0o7777
			curLoc++
		}
	}

	return img, nil
}

// allLeader reports whether every byte from data on is a leader byte,
// the condition that marks the tape's closing trailer run.
func allLeader(data []byte) bool {
	for _, b := range data {
		if !encoding.IsLeaderByte(b) {
			return false
		}
	}
	return true
}

// Verify recomputes the additive checksum over img's words, per
// §4.H/§5, replaying the same discontinuity-triggered origin pattern
// the BIN punch itself would emit, and reports whether it matches
// img.Checksum. It's only meaningful for a BIN image; a RIM image has
// no trailing checksum to check against.
func Verify(img *Image) bool {
	locs := make([]uint, 0, len(img.Words))
	for loc := range img.Words {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i] < locs[j] })

	var sum uint
	var next uint
	haveNext := false
	for _, loc := range locs {
		if !haveNext || loc != next {
			hi, lo := encoding.OriginBytes(loc)
			sum += uint(hi) + uint(lo)
		}
		hi, lo := encoding.PackWord(img.Words[loc])
		sum += uint(hi) + uint(lo)
		next = loc + 1
		haveNext = true
	}
	return sum&0o7777 == img.Checksum
}
