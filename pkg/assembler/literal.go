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

// Insert places value in the pool, reusing an existing slot holding
// the same value if one exists (§4.D). ok is false when the pool has
// no free slot left above index 0.
func (p *LiteralPool) Insert(value uint) (addr uint, ok bool) {
	value &= WordMask

	for i := p.Loc; i < PageSize; i++ {
		if p.Used[i] && p.Words[i] == value {
			return p.Base | uint(i), true
		}
	}

	if p.Loc == 0 {
		return 0, false
	}

	p.Loc--
	p.Words[p.Loc] = value
	p.Used[p.Loc] = true
	return p.Base | p.Loc, true
}

// CollidesWithCode reports whether the code region has grown up into
// the pool's allocated slots, per §4.D's "current code location >=
// pool loc" collision rule. inPageLoc is the in-page portion of the
// current location counter.
func (p *LiteralPool) CollidesWithCode(inPageLoc uint) bool {
	return inPageLoc >= p.Loc
}
