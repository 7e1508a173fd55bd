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

import "fmt"

// Diagnostic codes, each paired with its listing tag and its longer
// error-file phrase. These follow the taxonomy palbart's error table
// uses: a two-letter code, a short tag for the listing, and a longer
// phrase for the .err file.
const (
	codeDT = "DT"
	codeIC = "IC"
	codeID = "ID"
	codeIE = "IE"
	codeII = "II"
	codeIR = "IR"
	codeND = "ND"
	codePE = "PE"
	codeZE = "ZE"
	codeRD = "RD"
	codeST = "ST"
	codeUD = "UD"
)

func newDiag(code, tag, message string, pos Cursor, loc uint, hasPos bool) *Diagnostic {
	return &Diagnostic{
		Code:    code,
		Tag:     tag,
		Message: message,
		Pos:     pos,
		Loc:     loc,
		HasPos:  hasPos,
	}
}

func errDuplicateTag(pos Cursor, loc uint) *Diagnostic {
	return newDiag(codeDT, "DT", "duplicate tag", pos, loc, true)
}

func errIllegalChar(pos Cursor, loc uint) *Diagnostic {
	return newDiag(codeIC, "IC", "illegal character, expression, or syntax", pos, loc, true)
}

func errRadix(pos Cursor, loc uint) *Diagnostic {
	return newDiag(codeIC, "IC", "number not in current radix", pos, loc, true)
}

func errIllegalRedefinition(pos Cursor, loc uint) *Diagnostic {
	return newDiag(codeID, "ID", "illegal redefinition of symbol", pos, loc, true)
}

func errIllegalEquals(pos Cursor, loc uint) *Diagnostic {
	return newDiag(codeIE, "IE", "illegal use of =", pos, loc, true)
}

func errIllegalIndirect(pos Cursor, loc uint) *Diagnostic {
	return newDiag(codeII, "II", "illegal indirect", pos, loc, true)
}

func errIllegalReference(pos Cursor, loc uint) *Diagnostic {
	return newDiag(codeIR, "IR", "illegal reference", pos, loc, true)
}

func errNoDollar(pos Cursor, loc uint) *Diagnostic {
	return newDiag(codeND, "ND", "no $ at end of file", pos, loc, true)
}

func errPageExceeded(pos Cursor, loc uint) *Diagnostic {
	return newDiag(codePE, "PE", "current page literal pool exceeded", pos, loc, true)
}

func errPageZeroExceeded(pos Cursor, loc uint) *Diagnostic {
	return newDiag(codeZE, "ZE", "page zero literal pool exceeded", pos, loc, true)
}

func errRedefined(pos Cursor, loc uint) *Diagnostic {
	return newDiag(codeRD, "RD", "redefined symbol", pos, loc, true)
}

func errSymbolTableFull(pos Cursor, loc uint) *Diagnostic {
	return newDiag(codeST, "ST", "symbol table full", pos, loc, true)
}

func errUndefined(pos Cursor, loc uint) *Diagnostic {
	return newDiag(codeUD, "UD", "undefined symbol", pos, loc, true)
}

func errOffPage(pos Cursor, loc uint) *Diagnostic {
	return newDiag(codeIR, "IR", "off page", pos, loc, true)
}

func errUnimplemented(pos Cursor, loc uint, name string) *Diagnostic {
	return newDiag(codeIC, "IC", fmt.Sprintf("%s not implemented", name), pos, loc, true)
}

// FormatErrorLine renders one diagnostic in the error-file format:
// <filename>(<line>:<col>) : error:  <message> at Loc = <loc-octal>
func FormatErrorLine(filename string, d *Diagnostic) string {
	return fmt.Sprintf(
		"%s(%d:%d) : error:  %s at Loc = %04o",
		filename, d.Pos.Line, d.Pos.Column, d.Message, d.Loc,
	)
}
