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

// assembleLine dispatches one physical source line, honoring any
// pending cross-line state (a skipped conditional block or a DUBL/FLTG
// numeric run) before falling back to normal statement parsing. It
// reports whether `$` ended the assembly.
func (a *Assembler) assembleLine(line string) bool {
	// Tabs are expanded once, up front, exactly as palbart's readLine
	// does: the expanded text is what both the lexer walks and what
	// the listing prints, so listing columns (and caret alignment)
	// agree with lexer cursor positions.
	line = expandTabs(line)

	a.lineKind = LineOnly
	a.lineLoc = 0
	a.lineValue = 0
	a.lineIndirect = false

	if a.skipDepth > 0 {
		ended, resume := a.skipConditional(line)
		if ended {
			a.queueListLine(line)
			return true
		}
		if resume == nil {
			a.queueListLine(line)
			return false
		}
		ended = a.runStatements(resume)
		a.queueListLine(line)
		return ended
	}

	if a.numericMode != 0 {
		if a.consumeNumericLine(line) {
			a.queueListLine(line)
			return false
		}
		a.numericMode = 0
	}

	ended := a.runStatements(NewLexer(a.CurLine, line))
	a.queueListLine(line)
	return ended
}

// runStatements consumes `;`-separated statements from lx until a
// comment, `$`, or end of line, per §4.G.
func (a *Assembler) runStatements(lx *Lexer) bool {
	for {
		lx.SkipBlanks()
		if lx.AtEnd() {
			return false
		}
		c := lx.PeekRaw()

		switch {
		case c == '/':
			return false

		case c == ';':
			lx.Advance(1)

		case c == '$':
			lx.Advance(1)
			a.endAssembly()
			return true

		case c == '*':
			lx.Advance(1)
			a.doOrigin(lx)

		case isAlpha(c):
			a.statementFromIdentifier(lx)

		default:
			t, d := a.EvalExpr(lx)
			if d != nil {
				a.diag(d)
				lx.Advance(len(lx.Rest()))
				return false
			}
			a.emitWord(t.value)
		}
	}
}

// statementFromIdentifier resolves the four forms that can start with
// a bare identifier: a label (`name,`), an assignment (`name=expr`),
// a pseudo-op dispatch, or an ordinary expression whose first term
// happens to be a symbol (including an MRI mnemonic).
func (a *Assembler) statementFromIdentifier(lx *Lexer) {
	lex, d := lx.Next(true)
	if d != nil {
		a.diag(d)
		return
	}

	switch lx.PeekRaw() {
	case ',':
		lx.Advance(1)
		a.defineLabel(lex)

	case '=':
		lx.Advance(1)
		a.defineAssignment(lx, lex)

	default:
		if sym, ok := a.Sym.Find(lex.Text); ok && sym.IsPseudo() {
			a.dispatchDirective(DirectiveID(sym.Value), lx)
			return
		}
		first, d := a.evalPrimaryLexeme(lx, lex)
		if d != nil {
			a.diag(d)
			return
		}
		result, d := a.EvalExprFrom(lx, first)
		if d != nil {
			a.diag(d)
			return
		}
		a.emitWord(result.value)
	}
}

// defineLabel implements the `name,` label form of §4.G: define at the
// current location, marking DUPLICATE on a conflicting redefinition.
func (a *Assembler) defineLabel(lex Lexeme) {
	sym, ok := a.Sym.Lookup(lex.Text)
	if !ok {
		a.diag(errSymbolTableFull(lex.Pos, a.loc()))
		return
	}
	a.defineSymbol(sym, a.loc(), lex.Pos, true)
	a.lineKind = LineVal
	a.lineValue = a.loc()
}

// defineAssignment implements `name=expr`, masked to 12 bits per §4.B.
func (a *Assembler) defineAssignment(lx *Lexer, lex Lexeme) {
	t, d := a.EvalExpr(lx)
	if d != nil {
		a.diag(d)
		return
	}
	sym, ok := a.Sym.Lookup(lex.Text)
	if !ok {
		a.diag(errSymbolTableFull(lex.Pos, a.loc()))
		return
	}
	a.defineSymbol(sym, t.value&WordMask, lex.Pos, false)
	a.lineKind = LineVal
	a.lineValue = t.value & WordMask
}

// defineSymbol applies §4.B's Define operation. Permanent symbols keep
// their value and diagnose ID (illegal redefinition) instead of being
// silently overwritten. A label redefined at a different value is
// marked DUPLICATE; an assignment redefined at a different value is
// marked REDEFINED, and scenario 4 of §8 is explicit that the second
// definition itself diagnoses, not only a third.
func (a *Assembler) defineSymbol(sym *Symbol, value uint, pos Cursor, isLabel bool) {
	if sym.IsFixed() {
		if a.Pass == 2 {
			a.diag(errIllegalRedefinition(pos, a.loc()))
		}
		return
	}

	changed := sym.Defined() && sym.Value != value
	if changed {
		if isLabel {
			sym.Type |= DUPLICATE
			if a.Pass == 2 {
				a.diag(errDuplicateTag(pos, a.loc()))
			}
		} else if a.Pass == 2 {
			sym.Type |= REDEFINED
			a.diag(errRedefined(pos, a.loc()))
		}
		sym.Type &^= CONDITION
	} else {
		sym.Type |= CONDITION
	}

	sym.Value = value
	sym.Type |= DEFINED
	if isLabel {
		sym.Type |= LABEL
	}
	if a.Pass == 2 {
		a.defLine[sym.Name] = pos.Line
	}
}

// doOrigin implements `*expr`: set the in-field location counter,
// flushing the current-page literal pool across a page change.
func (a *Assembler) doOrigin(lx *Lexer) {
	t, d := a.EvalExpr(lx)
	if d != nil {
		a.diag(d)
		return
	}
	virtual := t.value & WordMask
	oldPage := a.page()
	a.FieldLC = (virtual - a.Reloc) & WordMask

	if a.page() != oldPage {
		a.flushPool(&a.CP)
		a.CP.reset(a.Field | (a.page() << 7))
	}
	if a.Pass == 2 && a.Punching && !a.RimMode {
		a.obj.writeOrigin(a.loc())
	}

	a.lineKind = LineVal
	a.lineValue = virtual
}

// emitWord punches one data word at the current location and advances
// the location counter, per §4.G/§4.H.
func (a *Assembler) emitWord(value uint) {
	value &= WordMask
	if a.Pass == 2 && a.Punching {
		a.obj.writeDataWord(a.loc(), value)
		a.BinaryDataOutput = true
	}
	a.lineKind = LineLocVal
	a.lineLoc = a.loc()
	a.lineValue = value
	a.lineIndirect = a.IndirectGenerated
	a.IndirectGenerated = false
	a.incrementLC()
}

// endAssembly flushes both literal pools at `$`, per the data model's
// pool lifecycle.
func (a *Assembler) endAssembly() {
	a.flushPool(&a.PZ)
	a.flushPool(&a.CP)
}

// flushPool writes a pool's occupied slots to the object stream in
// ascending address order and resets it to empty, per §4.D.
func (a *Assembler) flushPool(p *LiteralPool) {
	if p.empty() {
		return
	}
	if a.Pass == 2 && a.Punching {
		for i := p.Loc; i < PageSize; i++ {
			if !p.Used[i] {
				continue
			}
			loc := p.Base | i
			a.obj.writeDataWord(loc, p.Words[i])
			a.listLines = append(a.listLines, ListLine{Kind: LocVal, Loc: loc, Value: p.Words[i], LineNo: a.CurLine})
		}
	}
	p.reset(p.Base)
}

// skipConditional scans raw line bytes for the matching `>` of a false
// conditional block, counting nested `<`/`>` and stopping early on
// `$`, per §4.F. If the block closes mid-line, it returns a lexer
// positioned right after the closing `>` so normal parsing can resume.
func (a *Assembler) skipConditional(line string) (endOfAssembly bool, resume *Lexer) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '$':
			a.endAssembly()
			return true, nil
		case '<':
			a.skipDepth++
		case '>':
			a.skipDepth--
			if a.skipDepth <= 0 {
				a.skipDepth = 0
				return false, NewLexer(a.CurLine, line[i+1:])
			}
		}
	}
	return false, nil
}

// consumeNumericLine treats line as a run of DUBL or FLTG literals
// separated by blanks, per §4.E. It returns false (staying in normal
// mode) if the line doesn't start with a numeric token, which is how
// DUBL/FLTG runs end.
func (a *Assembler) consumeNumericLine(line string) bool {
	lx := NewLexer(a.CurLine, line)
	lx.SkipBlanks()
	if lx.AtEnd() {
		return true
	}
	if c := lx.PeekRaw(); !(isDigit(c) || c == '-' || c == '+' || c == '.') {
		return false
	}

	for {
		lx.SkipBlanks()
		if lx.AtEnd() {
			break
		}
		c := lx.PeekRaw()
		if c == '/' || c == ';' || c == '$' {
			break
		}

		neg := false
		if c == '-' || c == '+' {
			neg = c == '-'
			lx.Advance(1)
		}
		start := lx.pos
		for !lx.AtEnd() && isNumericTokenChar(lx.PeekRaw()) {
			lx.Advance(1)
		}
		tok := lx.line[start:lx.pos]
		if tok == "" {
			break
		}

		if a.numericMode == 1 {
			v, overflow := EvalDubl(tok)
			if overflow {
				a.diag(errIllegalChar(lx.cursor(), a.loc()))
				v = 0
			}
			if neg {
				v = NegateDubl(v)
			}
			hi, lo := DublWords(v)
			a.emitWord(hi)
			a.emitWord(lo)
		} else {
			text := tok
			if neg {
				text = "-" + text
			}
			fv, ok := ParseFltg(text)
			if !ok {
				a.diag(errIllegalChar(lx.cursor(), a.loc()))
				continue
			}
			exp, hi, lo := fv.Words()
			a.emitWord(exp)
			a.emitWord(hi)
			a.emitWord(lo)
		}
	}
	return true
}

func isNumericTokenChar(c byte) bool {
	return isDigit(c) || c == '.' || c == 'E' || c == 'e' || c == '+' || c == '-'
}

// queueListLine records one printed listing row for the source line
// just processed; pass-1 doesn't produce a listing, and no row is
// recorded while XLIST has the listing suppressed.
func (a *Assembler) queueListLine(line string) {
	if a.Pass != 2 || a.XList {
		return
	}
	a.listLines = append(a.listLines, ListLine{
		Kind:            a.lineKind,
		Loc:             a.lineLoc,
		Value:           a.lineValue,
		Indirect:        a.lineIndirect,
		Source:          line,
		LineNo:          a.CurLine,
		PageBreakBefore: a.forcePageBreak,
	})
	a.forcePageBreak = false
}

// hasMoreExpr reports whether an expression follows on the remainder
// of the statement without consuming anything.
func (a *Assembler) hasMoreExpr(lx *Lexer) bool {
	save := lx.pos
	lx.SkipBlanks()
	ok := !lx.AtEnd() && isTermChar(lx.PeekRaw())
	lx.pos = save
	return ok
}
