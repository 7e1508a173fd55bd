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

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/coonjones/pal8asm/pkg/assembler"
)

const version = "pal8asm 1.0"
const usage = "pal8asm [-d] [-l] [-p] [-r] [-x] inputfile"

var (
	dumpFlag    bool
	literalFlag bool
	permFlag    bool
	rimFlag     bool
	xrefFlag    bool
	versionFlag bool
	helpFlag    bool
)

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&dumpFlag, "d", false, "dump the user symbol table")
	flag.BoolVar(&literalFlag, "l", false, "enable literal generation")
	flag.BoolVar(&permFlag, "p", false, "emit a re-loadable permanent symbol file")
	flag.BoolVar(&rimFlag, "r", false, "emit RIM object instead of BIN")
	flag.BoolVar(&xrefFlag, "x", false, "emit a cross reference")
	flag.BoolVar(&versionFlag, "v", false, "print version and exit")
	flag.BoolVar(&helpFlag, "h", false, "print help and exit")
	flag.Parse()
}

// deriveName substitutes the suffix at the last '.' in path's base
// name, or appends one if path has no extension, per §6.
func deriveName(path, ext string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		base = base[:idx]
	}
	return filepath.Join(dir, base+ext)
}

func openOut(path string) *os.File {
	f, err := os.Create(path)
	if err != nil {
		log.Println(err)
		return nil
	}
	return f
}

func pal8asm() int {
	if versionFlag {
		fmt.Fprintln(os.Stderr, version)
		return 1
	}
	if helpFlag {
		fmt.Fprintln(os.Stderr, usage)
		flag.CommandLine.SetOutput(os.Stderr)
		flag.PrintDefaults()
		return 1
	}

	args := flag.Args()
	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	infile := args[0]
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(infile)))

	src, err := os.Open(infile)
	if err != nil {
		log.Println(err)
		return 1
	}
	defer src.Close()

	objExt := ".bin"
	if rimFlag {
		objExt = ".rim"
	}

	objFile := openOut(deriveName(infile, objExt))
	if objFile == nil {
		return 1
	}
	defer objFile.Close()

	lstFile := openOut(deriveName(infile, ".lst"))
	if lstFile == nil {
		return 1
	}
	defer lstFile.Close()

	errPath := deriveName(infile, ".err")
	errFile := openOut(errPath)
	if errFile == nil {
		return 1
	}

	out := assembler.Outputs{
		Object:   objFile,
		Listing:  lstFile,
		ErrFile:  errFile,
		Rim:      rimFlag,
		Literals: literalFlag,
	}

	var dumpFile, xrefFile, permFile *os.File
	if dumpFlag {
		dumpFile = openOut(deriveName(infile, ".sym"))
		if dumpFile == nil {
			return 1
		}
		defer dumpFile.Close()
		out.Dump = dumpFile
	}
	if xrefFlag {
		xrefFile = openOut(deriveName(infile, ".xrf"))
		if xrefFile == nil {
			return 1
		}
		defer xrefFile.Close()
		out.Xref = xrefFile
	}
	if permFlag {
		permFile = openOut(deriveName(infile, ".prm"))
		if permFile == nil {
			return 1
		}
		defer permFile.Close()
		out.Perm = permFile
	}

	result, err := assembler.Assemble(src, filepath.Base(infile), out)
	if err != nil {
		log.Println(err)
		return 1
	}

	errFile.Close()
	if result.ErrorCount == 0 {
		os.Remove(errPath)
		return 0
	}

	log.Printf("%d error(s); see %s", result.ErrorCount, errPath)
	return 1
}

func main() {
	os.Exit(pal8asm())
}
