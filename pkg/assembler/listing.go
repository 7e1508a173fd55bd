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
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// linesPerPage and headerLines implement §4.I's pagination: 55 lines
// per page, counting the header. The header printed is headerLines-1
// rows: one line carrying the title and the page number, then three
// blank lines. No sub-title line is printed.
const (
	linesPerPage = 55
	headerLines  = 5
)

// pager wraps a writer with the listing/xref printers' shared
// paginate-and-form-feed behavior.
type pager struct {
	w      *bufio.Writer
	title  string
	pageNo int
	lineNo int
}

func newPager(w io.Writer, title string) *pager {
	p := &pager{w: bufio.NewWriter(w), title: title}
	p.breakPage()
	return p
}

func (p *pager) breakPage() {
	if p.pageNo > 0 {
		fmt.Fprint(p.w, "\f")
	}
	p.pageNo++
	fmt.Fprintf(p.w, "%-63s PAGE %d\n", p.title, p.pageNo)
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w)
	p.lineNo = headerLines - 1
}

func (p *pager) line(format string, args ...interface{}) {
	if p.lineNo >= linesPerPage {
		p.breakPage()
	}
	fmt.Fprintf(p.w, format+"\n", args...)
	p.lineNo++
}

func (p *pager) flush() { p.w.Flush() }

// writeListing prints the paginated assembly listing, per §4.I: one
// row per source line shaped by its ListLineKind, with queued
// diagnostics and a caret immediately below the offending column.
func writeListing(a *Assembler, w io.Writer) {
	title := a.Title
	if title == "" {
		title = a.Filename
	}
	p := newPager(w, title)

	for _, ll := range a.listLines {
		if ll.PageBreakBefore {
			p.breakPage()
		}

		switch ll.Kind {
		case LineOnly:
			p.line("              %s", ll.Source)
		case LineVal:
			p.line("      %04o    %s", ll.Value, ll.Source)
		case LineLocVal:
			mark := " "
			if ll.Indirect {
				mark = "@"
			}
			p.line("%04o  %04o%s  %s", ll.Loc, ll.Value, mark, ll.Source)
		case LocVal:
			p.line("%04o  %04o", ll.Loc, ll.Value)
		}

		for _, d := range ll.Diagnostics {
			p.line("              %s %s", d.Tag, d.Message)
			if d.HasPos && d.Pos.Column > 0 {
				p.line("              %s^", strings.Repeat(" ", d.Pos.Column-1))
			}
		}
	}
	p.flush()
}

// writeSymbolDump prints the user symbol table (excluding the fixed
// prefix) in column-major order, per §4.I: `?` marks an undefined
// symbol, `#` a redefined one.
func writeSymbolDump(a *Assembler, w io.Writer) {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	entries := a.Sym.UserEntries()
	if len(entries) == 0 {
		return
	}

	const cols = 4
	rows := (len(entries) + cols - 1) / cols

	for r := 0; r < rows; r++ {
		var line strings.Builder
		for c := 0; c < cols; c++ {
			idx := c*rows + r
			if idx >= len(entries) {
				continue
			}
			sym := entries[idx]
			mark := " "
			if !sym.Defined() {
				mark = "?"
			} else if sym.Type&REDEFINED != 0 {
				mark = "#"
			}
			fmt.Fprintf(&line, "%s%-6s  %04o   ", mark, sym.Name, sym.Value&WordMask)
		}
		fmt.Fprintln(bw, strings.TrimRight(line.String(), " "))
	}
}

// writeCrossReference prints the concordance, per §4.I: each symbol's
// defining line, its A/M/U status, its name, then up to 8 reference
// line numbers per row with continuation rows for the remainder.
func writeCrossReference(a *Assembler, w io.Writer) {
	p := newPager(w, "CROSS REFERENCE")

	names := make([]string, 0, len(a.defLine)+len(a.xref))
	seen := make(map[string]bool)
	for _, sym := range a.Sym.UserEntries() {
		if seen[sym.Name] {
			continue
		}
		seen[sym.Name] = true
		names = append(names, sym.Name)
	}
	sort.Strings(names)

	const refsPerRow = 8

	for _, name := range names {
		sym, ok := a.Sym.Find(name)
		if !ok {
			continue
		}
		status := "U"
		switch {
		case sym.Type&REDEFINED != 0:
			status = "M"
		case sym.Defined():
			status = "A"
		}
		def := a.defLine[name]
		refs := a.xref[name]

		if len(refs) == 0 {
			p.line("%5d  %s  %-6s", def, status, name)
			continue
		}
		for i := 0; i < len(refs); i += refsPerRow {
			end := i + refsPerRow
			if end > len(refs) {
				end = len(refs)
			}
			row := refs[i:end]
			parts := make([]string, len(row))
			for j, ln := range row {
				parts[j] = fmt.Sprintf("%5d", ln)
			}
			if i == 0 {
				p.line("%5d  %s  %-6s  %s", def, status, name, strings.Join(parts, " "))
			} else {
				p.line("                      %s", strings.Join(parts, " "))
			}
		}
	}
	p.flush()
}

// writePermanentFile re-creates the current permanent table as
// reloadable source, per §6: an EXPUNGE, one FIXMRI per MRI symbol,
// one plain assignment per other fixed symbol, and a trailing FIXTAB.
func writePermanentFile(a *Assembler, w io.Writer) {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	fmt.Fprintln(bw, "EXPUNGE")
	for _, sym := range a.Sym.Entries() {
		if !sym.IsFixed() || sym.IsPseudo() {
			continue
		}
		if sym.IsMRI() {
			fmt.Fprintf(bw, "FIXMRI %s=%04o\n", sym.Name, sym.Value&WordMask)
		} else {
			fmt.Fprintf(bw, "%s=%04o\n", sym.Name, sym.Value&WordMask)
		}
	}
	fmt.Fprintln(bw, "FIXTAB")
}
