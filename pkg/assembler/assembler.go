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

// Package assembler implements a two-pass cross-assembler for the
// PDP-8 PAL dialect: lexing, symbol table lifecycle, expression
// evaluation with MRI address fusion, literal pools, directive
// processing, RIM/BIN object emission, and the listing/cross-reference
// printer.
package assembler

import (
	"bufio"
	"fmt"
	"io"
)

// Assembler is the single mutable context carried through both
// passes, per the spec's design note against global state: radix,
// field, location counter, relocation, the two literal pools, the
// symbol table, and the output sinks all live here instead of package
// globals.
type Assembler struct {
	Sym *SymbolTable

	Pass int // 1 or 2

	Radix uint // 8 or 10

	Field   uint // current field, 0-7, already shifted <<12
	FieldLC uint // in-field location counter, 0-4095 (no field bits)
	Reloc   uint // relocation offset

	LiteralsOn bool
	PZ         LiteralPool // page-zero literal pool
	CP         LiteralPool // current-page literal pool

	RimMode  bool
	Punching bool // ENPUNCH/NOPUNCH gate
	XList    bool // listing suppressed by XLIST
	listOn   bool

	BinaryDataOutput bool // true once any data word has been punched

	IndirectGenerated bool // set by MRI fusion case 3, consumed by the listing printer

	CurLine     int
	LineText    string
	ErrorInLine bool

	Title    string
	TitleSet bool

	Filename string

	errorsPass1 int
	errorsPass2 int

	diagsThisLine []*Diagnostic
	allErrors     []*Diagnostic // pass-2 diagnostics only, for the .err file

	listLines []ListLine

	obj *objectWriter

	xref    map[string][]int // pass-2 reference line numbers, by symbol name
	defLine map[string]int   // pass-2 defining line number, by symbol name

	unterminated bool // true if EOF reached with no trailing $

	skipDepth      int // >0 while skipping a false conditional block, counts nested '<'
	numericMode    int // 0 none, 1 DUBL, 2 FLTG: consuming subsequent lines as numeric data
	forcePageBreak bool

	lineKind     ListLineKind
	lineLoc      uint
	lineValue    uint
	lineIndirect bool
}

// NewAssembler creates an assembler context with a fresh permanent
// symbol table, octal radix, and BIN/no-literals defaults, matching
// palbart's own start-of-run defaults.
func NewAssembler(filename string) *Assembler {
	a := &Assembler{
		Sym:      NewSymbolTable(),
		Radix:    8,
		Punching: true,
		listOn:   true,
		Filename: filename,
		xref:     make(map[string][]int),
		defLine:  make(map[string]int),
	}
	a.PZ.reset(0)
	a.CP.reset(0)
	return a
}

// loc is the full 15-bit location counter: field plus in-field
// address.
func (a *Assembler) loc() uint { return a.Field | a.FieldLC }

// page returns the current page number (0-31) within the field.
func (a *Assembler) page() uint { return (a.FieldLC + a.Reloc) >> 7 }

func (a *Assembler) diag(d *Diagnostic) {
	if d == nil {
		return
	}
	d.Loc = a.loc()
	a.ErrorInLine = true
	a.diagsThisLine = append(a.diagsThisLine, d)
	if a.Pass == 2 {
		a.errorsPass2++
		a.allErrors = append(a.allErrors, d)
	} else {
		a.errorsPass1++
	}
}

// incrementLC advances the in-field location counter by one word,
// wrapping at the field boundary and checking for a literal-pool
// collision exactly as §4.G specifies.
func (a *Assembler) incrementLC() {
	a.FieldLC = (a.FieldLC + 1) & WordMask

	inPage := a.FieldLC & AddrMask
	if a.FieldLC < PageSize {
		if !a.PZ.Error && a.PZ.CollidesWithCode(inPage) {
			a.PZ.Error = true
			a.diag(errPageZeroExceeded(Cursor{Line: a.CurLine}, a.loc()))
		}
	} else if a.page() == (a.CP.Base>>7)&0o37 {
		if !a.CP.Error && a.CP.CollidesWithCode(inPage) {
			a.CP.Error = true
			a.diag(errPageExceeded(Cursor{Line: a.CurLine}, a.loc()))
		}
	}
}

// Outputs names every writer Assemble may produce. Any of them may be
// nil to suppress that artifact, matching the CLI flags in §6.
type Outputs struct {
	Object  io.Writer
	Listing io.Writer
	ErrFile io.Writer
	Dump    io.Writer // -d user symbol table
	Xref    io.Writer // -x cross reference
	Perm    io.Writer // -p permanent symbol file

	Rim      bool
	Literals bool
}

// Result reports whether assembly produced any pass-2 errors.
type Result struct {
	ErrorCount int
}

func (a *Assembler) resetPassState(rim bool) {
	a.FieldLC = 0o200
	a.Field = 0
	a.Reloc = 0
	a.Radix = 8
	a.RimMode = rim
	a.Punching = true
	a.listOn = true
	a.XList = false
	a.BinaryDataOutput = false
	a.unterminated = false
	a.skipDepth = 0
	a.numericMode = 0
	a.forcePageBreak = false
	a.PZ.reset(0)
	a.CP.reset(a.Field | (a.page() << 7))
}

// Assemble performs pass 1 (symbol table population) followed by
// pass 2 (object/listing/diagnostic emission) over src, which must
// support being read twice.
func Assemble(src io.ReadSeeker, filename string, out Outputs) (*Result, error) {
	a := NewAssembler(filename)

	a.Pass = 1
	a.resetPassState(out.Rim)
	a.LiteralsOn = out.Literals
	if err := a.runPass(src); err != nil {
		return nil, err
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	a.obj = newObjectWriter(out.Object, a.RimMode)
	a.Pass = 2
	a.resetPassState(out.Rim)
	a.LiteralsOn = out.Literals
	a.CurLine = 0
	if err := a.runPass(src); err != nil {
		return nil, err
	}
	a.obj.finish(a)

	if out.Listing != nil {
		writeListing(a, out.Listing)
	}
	if out.Dump != nil {
		writeSymbolDump(a, out.Dump)
	}
	if out.Xref != nil {
		writeCrossReference(a, out.Xref)
	}
	if out.Perm != nil {
		writePermanentFile(a, out.Perm)
	}
	if out.ErrFile != nil && len(a.allErrors) > 0 {
		w := bufio.NewWriter(out.ErrFile)
		for _, d := range a.allErrors {
			fmt.Fprintln(w, FormatErrorLine(a.Filename, d))
		}
		w.Flush()
	}

	return &Result{ErrorCount: len(a.allErrors)}, nil
}

// runPass executes one full pass over src, dispatching each line
// through the statement driver until `$` or EOF.
func (a *Assembler) runPass(src io.Reader) error {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 1024), maxLineLen*4)

	done := false
	for !done && scanner.Scan() {
		a.CurLine++
		a.LineText = scanner.Text()
		a.ErrorInLine = false
		a.diagsThisLine = nil

		done = a.assembleLine(a.LineText)

		if a.Pass == 2 {
			a.flushLineDiagnostics()
		}
	}

	if !done {
		a.unterminated = true
		a.diag(errNoDollar(Cursor{Line: a.CurLine}, a.loc()))
		if a.Pass == 2 {
			a.flushLineDiagnostics()
		}
	}

	return scanner.Err()
}

func (a *Assembler) flushLineDiagnostics() {
	if len(a.listLines) == 0 || a.XList {
		return
	}
	a.listLines[len(a.listLines)-1].Diagnostics = a.diagsThisLine
}
