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

import "strings"

// dispatchDirective runs the pseudo-op named by id against the
// remainder of the current statement, per §4.F.
func (a *Assembler) dispatchDirective(id DirectiveID, lx *Lexer) {
	switch id {
	case D_OCTAL:
		a.Radix = 8
	case D_DECIMAL:
		a.Radix = 10
	case D_FIELD:
		a.doField(lx)
	case D_PAGE:
		a.doPage(lx)
	case D_SEGMNT:
		a.doSegmnt(lx)
	case D_FIXMRI:
		a.doFixmri(lx)
	case D_FIXTAB:
		a.Sym.FixTab()
	case D_EXPUNGE:
		a.Sym.Expunge()
	case D_ENPUNCH:
		a.Punching = true
	case D_NOPUNCH:
		a.Punching = false
	case D_RIMPUNCH:
		a.doRimpunch(lx)
	case D_BINPUNCH:
		a.doBinpunch(lx)
	case D_TEXT:
		a.doText(lx)
	case D_TITLE:
		a.doTitle(lx)
	case D_ZBLOCK:
		a.doZblock(lx)
	case D_EJECT:
		a.forcePageBreak = true
	case D_XLIST:
		a.doXlist(lx)
	case D_PAUSE:
		// no-op
	case D_RELOC:
		a.doReloc(lx)
	case D_IFDEF:
		a.doIfdef(lx, true)
	case D_IFNDEF:
		a.doIfdef(lx, false)
	case D_IFZERO:
		a.doIfzero(lx, true)
	case D_IFNZERO:
		a.doIfzero(lx, false)
	case D_DUBL:
		a.doDubl(lx)
	case D_FLTG:
		a.doFltg(lx)
	case D_BANK:
		a.diag(errUnimplemented(lx.cursor(), a.loc(), "BANK"))
		lx.Advance(len(lx.Rest()))
	}
}

// doField implements FIELD n, illegal while punching RIM per §4.F.
func (a *Assembler) doField(lx *Lexer) {
	n := (a.Field >> 12) + 1
	if a.hasMoreExpr(lx) {
		t, d := a.EvalExpr(lx)
		if d != nil {
			a.diag(d)
			return
		}
		n = t.value
	}
	if a.RimMode {
		a.diag(errIllegalChar(lx.cursor(), a.loc()))
		return
	}

	a.flushPool(&a.PZ)
	a.flushPool(&a.CP)
	a.Field = (n & 7) << 12
	a.FieldLC = PageSize
	a.PZ.reset(a.Field)
	a.CP.reset(a.Field | (a.page() << 7))

	if a.Pass == 2 && a.Punching {
		a.obj.writeFieldChange(a.Field)
		a.obj.writeOrigin(a.loc())
	}
	a.lineKind = LineVal
	a.lineValue = a.Field >> 12
}

// doPage implements PAGE [n]: flush the current-page pool and move to
// the start of page n, or the next page if n is omitted.
func (a *Assembler) doPage(lx *Lexer) {
	page := (a.page() + 1) & 0o37
	if a.hasMoreExpr(lx) {
		t, d := a.EvalExpr(lx)
		if d != nil {
			a.diag(d)
			return
		}
		page = t.value & 0o37
	}

	a.flushPool(&a.CP)
	a.FieldLC = ((page << 7) - a.Reloc) & WordMask
	a.CP.reset(a.Field | (page << 7))

	if a.Pass == 2 && a.Punching && !a.RimMode {
		a.obj.writeOrigin(a.loc())
	}
	a.lineKind = LineVal
	a.lineValue = a.loc()
}

// doSegmnt implements SEGMNT [n]: like PAGE, aligned to a 1 KW (8
// page) boundary. The argument, when present, is evaluated and used
// directly to set the location counter (§8 Open Question (c)).
func (a *Assembler) doSegmnt(lx *Lexer) {
	seg := ((a.page() >> 3) + 1) & 3
	if a.hasMoreExpr(lx) {
		t, d := a.EvalExpr(lx)
		if d != nil {
			a.diag(d)
			return
		}
		seg = t.value & 3
	}

	addr := seg << 10
	a.flushPool(&a.CP)
	a.FieldLC = (addr - a.Reloc) & WordMask
	a.CP.reset(a.Field | (a.page() << 7))

	if a.Pass == 2 && a.Punching && !a.RimMode {
		a.obj.writeOrigin(a.loc())
	}
	a.lineKind = LineVal
	a.lineValue = a.loc()
}

// doFixmri implements FIXMRI name=expr.
func (a *Assembler) doFixmri(lx *Lexer) {
	lx.SkipBlanks()
	name, d := lx.Next(true)
	if d != nil || name.Type != LEX_SYMBOL {
		a.diag(errIllegalChar(lx.cursor(), a.loc()))
		return
	}
	eq, d := lx.Next(true)
	if d != nil || eq.Text != "=" {
		a.diag(errIllegalEquals(lx.cursor(), a.loc()))
		return
	}
	t, d := a.EvalExpr(lx)
	if d != nil {
		a.diag(d)
		return
	}
	sym, ok := a.Sym.Lookup(name.Text)
	if !ok {
		a.diag(errSymbolTableFull(name.Pos, a.loc()))
		return
	}
	if !sym.IsFixed() {
		sym.Type = MRIFIX
		sym.Value = t.value & WordMask
	}
}

// doRimpunch implements RIMPUNCH [len], per §4.F.
func (a *Assembler) doRimpunch(lx *Lexer) {
	length := DefaultSwitchLeader
	writeChecksum := true
	if a.hasMoreExpr(lx) {
		t, d := a.EvalExpr(lx)
		if d != nil {
			a.diag(d)
			return
		}
		length = int(t.value)
		writeChecksum = t.value != WordMask // -1 encodes as all-ones in 12 bits
	}

	if !a.RimMode && a.BinaryDataOutput {
		a.flushPool(&a.PZ)
		a.flushPool(&a.CP)
		if a.Pass == 2 {
			a.obj.switchToRim(length, writeChecksum)
		}
	}
	a.RimMode = true
}

// doBinpunch implements BINPUNCH [len], per §4.F.
func (a *Assembler) doBinpunch(lx *Lexer) {
	length := DefaultSwitchLeader
	if a.hasMoreExpr(lx) {
		t, d := a.EvalExpr(lx)
		if d != nil {
			a.diag(d)
			return
		}
		length = int(t.value)
	}

	if a.RimMode {
		a.PZ.reset(a.PZ.Base)
		a.CP.reset(a.CP.Base)
		if a.Pass == 2 {
			a.obj.switchToBin(length)
		}
	}
	a.RimMode = false
	a.BinaryDataOutput = false
}

// doText implements TEXT <delim>chars<delim>, per §4.F.
func (a *Assembler) doText(lx *Lexer) {
	lx.SkipBlanks()
	if lx.AtEnd() {
		a.diag(errIllegalChar(lx.cursor(), a.loc()))
		return
	}
	delim := lx.PeekRaw()
	lx.Advance(1)

	rest := lx.Rest()
	text := rest
	if end := strings.IndexByte(rest, delim); end >= 0 {
		text = rest[:end]
		lx.Advance(end + 1)
	} else {
		lx.Advance(len(rest))
	}

	words := packText(text)
	if len(words) == 0 {
		a.emitWord(0)
		return
	}
	for _, w := range words {
		a.emitWord(w)
	}
}

// packText packs trimmed 6-bit ASCII two characters per word, per
// §4.F; a leftover character lands in the high 6 bits of a final word.
func packText(s string) []uint {
	var words []uint
	for i := 0; i < len(s); i += 2 {
		hi := uint(s[i]) & 0o77
		if i+1 < len(s) {
			words = append(words, (hi<<6)|(uint(s[i+1])&0o77))
		} else {
			words = append(words, hi<<6)
		}
	}
	return words
}

// doTitle implements TITLE <delim>text<delim>, with <delim><delim> as
// an escape for a literal delimiter character, per §4.F.
func (a *Assembler) doTitle(lx *Lexer) {
	lx.SkipBlanks()
	if lx.AtEnd() {
		return
	}
	delim := lx.PeekRaw()
	lx.Advance(1)

	var b strings.Builder
	for {
		rest := lx.Rest()
		idx := strings.IndexByte(rest, delim)
		if idx < 0 {
			b.WriteString(rest)
			lx.Advance(len(rest))
			break
		}
		b.WriteString(rest[:idx])
		lx.Advance(idx + 1)
		if lx.PeekRaw() == delim {
			b.WriteByte(delim)
			lx.Advance(1)
			continue
		}
		break
	}

	title := b.String()
	if len(title) > 63 {
		title = title[:63]
	}
	a.Title = title
	a.TitleSet = true
	a.forcePageBreak = true
}

// doZblock implements ZBLOCK n: emit n zero words, diagnosing a field
// overflow.
func (a *Assembler) doZblock(lx *Lexer) {
	t, d := a.EvalExpr(lx)
	if d != nil {
		a.diag(d)
		return
	}
	n := t.value
	if a.FieldLC+n > FieldSize {
		a.diag(errIllegalReference(lx.cursor(), a.loc()))
		return
	}
	for i := uint(0); i < n; i++ {
		a.emitWord(0)
	}
}

// doXlist implements XLIST [expr]: toggle, or explicitly disable (0)
// or enable (nonzero) listing output.
func (a *Assembler) doXlist(lx *Lexer) {
	if a.hasMoreExpr(lx) {
		t, d := a.EvalExpr(lx)
		if d != nil {
			a.diag(d)
			return
		}
		a.XList = t.value == 0
		return
	}
	a.XList = !a.XList
}

// doReloc implements RELOC [n]; omitted resets relocation to zero.
func (a *Assembler) doReloc(lx *Lexer) {
	if a.hasMoreExpr(lx) {
		t, d := a.EvalExpr(lx)
		if d != nil {
			a.diag(d)
			return
		}
		a.Reloc = t.value & WordMask
		return
	}
	a.Reloc = 0
}

// doIfdef implements IFDEF/IFNDEF s<...>: want is true for IFDEF.
func (a *Assembler) doIfdef(lx *Lexer, want bool) {
	lx.SkipBlanks()
	name, d := lx.Next(true)
	if d != nil || name.Type != LEX_SYMBOL {
		a.diag(errIllegalChar(lx.cursor(), a.loc()))
		return
	}
	sym, ok := a.Sym.Find(name.Text)
	defined := ok && sym.Defined()
	a.doConditional(lx, defined == want)
}

// doIfzero implements IFZERO/IFNZERO e<...>: want is true for IFZERO.
func (a *Assembler) doIfzero(lx *Lexer, want bool) {
	t, d := a.EvalExpr(lx)
	if d != nil {
		a.diag(d)
		return
	}
	isZero := (t.value & WordMask) == 0
	a.doConditional(lx, isZero == want)
}

// doConditional consumes the opening `<` and, when cond is false,
// skips to the matching `>` via skipConditional's cross-line state.
func (a *Assembler) doConditional(lx *Lexer, cond bool) {
	lx.SkipBlanks()
	if lx.PeekRaw() != '<' {
		a.diag(errIllegalChar(lx.cursor(), a.loc()))
		return
	}
	lx.Advance(1)
	if cond {
		return
	}

	a.skipDepth = 1
	rest := lx.Rest()
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '<':
			a.skipDepth++
		case '>':
			a.skipDepth--
			if a.skipDepth <= 0 {
				a.skipDepth = 0
				lx.Advance(i + 1)
				return
			}
		}
	}
	lx.Advance(len(rest))
}

// doDubl implements DUBL, entering numeric-consumption mode for any
// values on the remainder of this line and subsequent lines.
func (a *Assembler) doDubl(lx *Lexer) {
	a.numericMode = 1
	rest := strings.TrimSpace(lx.Rest())
	lx.Advance(len(lx.Rest()))
	if rest != "" {
		a.consumeNumericLine(rest)
	}
}

// doFltg implements FLTG, entering numeric-consumption mode for any
// values on the remainder of this line and subsequent lines.
func (a *Assembler) doFltg(lx *Lexer) {
	a.numericMode = 2
	rest := strings.TrimSpace(lx.Rest())
	lx.Advance(len(lx.Rest()))
	if rest != "" {
		a.consumeNumericLine(rest)
	}
}
