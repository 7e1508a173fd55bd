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

// seedEntry is one row of the permanent symbol catalogue loaded into
// a fresh SymbolTable before any source line is read.
type seedEntry struct {
	Name  string
	Type  SymType
	Value uint
}

// permanentSymbols is the PDP-8 PAL-III/MACRO-8 mnemonic catalogue:
// the six MRI opcodes plus pseudo-addresses I and Z, the floating
// point interpreter's MRI-shaped opcodes, the Group 1/2 and MQ operate
// microinstructions, and the IOT mnemonics for the standard PDP-8
// peripherals. FEXT is listed once, as MRIFIX: the original table
// also carries a second FIXED "exit from interpreter" FEXT at value 0,
// which collides on name with the MRI entry and is dropped here since
// this symbol table requires unique names (a permanent-symbol is never
// both at once in any one program).
var permanentSymbols = []seedEntry{
	// Memory Reference Instructions
	{"AND", MRIFIX, 0o0000},
	{"TAD", MRIFIX, 0o1000},
	{"ISZ", MRIFIX, 0o2000},
	{"DCA", MRIFIX, 0o3000},
	{"I", MRIFIX, 0o0400},
	{"JMP", MRIFIX, 0o5000},
	{"JMS", MRIFIX, 0o4000},
	{"Z", MRIFIX, 0o0000},

	// Floating Point Interpreter Instructions
	{"FEXT", MRIFIX, 0o0000},
	{"FADD", MRIFIX, 0o1000},
	{"FSUB", MRIFIX, 0o2000},
	{"FMPY", MRIFIX, 0o3000},
	{"FDIV", MRIFIX, 0o4000},
	{"FGET", MRIFIX, 0o5000},
	{"FPUT", MRIFIX, 0o6000},
	{"FNOR", FIXED, 0o7000},
	{"SQUARE", FIXED, 0o0001},
	{"SQROOT", FIXED, 0o0002},

	// Group 1 Operate Microinstructions
	{"NOP", FIXED, 0o7000},
	{"IAC", FIXED, 0o7001},
	{"RAL", FIXED, 0o7004},
	{"RTL", FIXED, 0o7006},
	{"RAR", FIXED, 0o7010},
	{"RTR", FIXED, 0o7012},
	{"CML", FIXED, 0o7020},
	{"CMA", FIXED, 0o7040},
	{"CLL", FIXED, 0o7100},
	{"CLA", FIXED, 0o7200},

	// Group 2 Operate Microinstructions
	{"BSW", FIXED, 0o7002},
	{"HLT", FIXED, 0o7402},
	{"OSR", FIXED, 0o7404},
	{"SKP", FIXED, 0o7410},
	{"SNL", FIXED, 0o7420},
	{"SZL", FIXED, 0o7430},
	{"SZA", FIXED, 0o7440},
	{"SNA", FIXED, 0o7450},
	{"SMA", FIXED, 0o7500},
	{"SPA", FIXED, 0o7510},

	// Combined Operate Microinstructions
	{"CIA", FIXED, 0o7041},
	{"STL", FIXED, 0o7120},
	{"GLK", FIXED, 0o7204},
	{"STA", FIXED, 0o7240},
	{"LAS", FIXED, 0o7604},

	// MQ Instructions (PDP-8/e)
	{"MQL", FIXED, 0o7421},
	{"MQA", FIXED, 0o7501},
	{"SWP", FIXED, 0o7521},
	{"ACL", FIXED, 0o7701},

	// Program Interrupt
	{"IOT", FIXED, 0o6000},
	{"ION", FIXED, 0o6001},
	{"IOF", FIXED, 0o6002},

	// Program Interrupt, PDP-8/e
	{"SKON", FIXED, 0o6000},
	{"SRQ", FIXED, 0o6003},
	{"GTF", FIXED, 0o6004},
	{"RTF", FIXED, 0o6005},
	{"SGT", FIXED, 0o6006},
	{"CAF", FIXED, 0o6007},

	// Keyboard/Reader
	{"KSF", FIXED, 0o6031},
	{"KCC", FIXED, 0o6032},
	{"KRS", FIXED, 0o6034},
	{"KRB", FIXED, 0o6036},

	// Teleprinter/Punch
	{"TSF", FIXED, 0o6041},
	{"TCF", FIXED, 0o6042},
	{"TPC", FIXED, 0o6044},
	{"TLS", FIXED, 0o6046},

	// High Speed Paper Tape Reader
	{"RSF", FIXED, 0o6011},
	{"RRB", FIXED, 0o6012},
	{"RFC", FIXED, 0o6014},

	// PC8-E High Speed Paper Tape Reader & Punch
	{"RPE", FIXED, 0o6010},
	{"PCE", FIXED, 0o6020},
	{"RCC", FIXED, 0o6016},

	// High Speed Paper Tape Punch
	{"PSF", FIXED, 0o6021},
	{"PCF", FIXED, 0o6022},
	{"PPC", FIXED, 0o6024},
	{"PLS", FIXED, 0o6026},

	// DECtape Transport Type TU55 and DECtape Control Type TC01
	{"DTRA", FIXED, 0o6761},
	{"DTCA", FIXED, 0o6762},
	{"DTXA", FIXED, 0o6764},
	{"DTLA", FIXED, 0o6766},
	{"DTSF", FIXED, 0o6771},
	{"DTRB", FIXED, 0o6772},
	{"DTLB", FIXED, 0o6774},

	// Disk File and Control, Type DF32
	{"DCMA", FIXED, 0o6601},
	{"DMAR", FIXED, 0o6603},
	{"DMAW", FIXED, 0o6605},
	{"DCEA", FIXED, 0o6611},
	{"DSAC", FIXED, 0o6612},
	{"DEAL", FIXED, 0o6615},
	{"DEAC", FIXED, 0o6616},
	{"DFSE", FIXED, 0o6621},
	{"DFSC", FIXED, 0o6622},
	{"DMAC", FIXED, 0o6626},

	// Disk File and Control, Type RF08
	{"DCIM", FIXED, 0o6611},
	{"DIML", FIXED, 0o6615},
	{"DIMA", FIXED, 0o6616},
	{"DISK", FIXED, 0o6623},
	{"DCXA", FIXED, 0o6641},
	{"DXAL", FIXED, 0o6643},
	{"DXAC", FIXED, 0o6645},
	{"DMMT", FIXED, 0o6646},

	// Memory Extension Control, Type 183
	{"CDF", FIXED, 0o6201},
	{"CIF", FIXED, 0o6202},
	{"CDI", FIXED, 0o6203},
	{"RDF", FIXED, 0o6214},
	{"RIF", FIXED, 0o6224},
	{"RIB", FIXED, 0o6234},
	{"RMF", FIXED, 0o6224},

	// Memory Parity, Type MP8/I (MP8/L)
	{"SMP", FIXED, 0o6101},
	{"CMP", FIXED, 0o6104},

	// Memory Parity, Type MP8-E (PDP-8/e)
	{"DPI", FIXED, 0o6100},
	{"SNP", FIXED, 0o6101},
	{"EPI", FIXED, 0o6103},
	{"CNP", FIXED, 0o6104},
	{"CEP", FIXED, 0o6106},
	{"SPO", FIXED, 0o6107},

	// Data Communications Systems, Type 680I
	{"TTINCR", FIXED, 0o6401},
	{"TTI", FIXED, 0o6402},
	{"TTO", FIXED, 0o6404},
	{"TTCL", FIXED, 0o6411},
	{"TTSL", FIXED, 0o6412},
	{"TTRL", FIXED, 0o6414},
	{"TTSKP", FIXED, 0o6421},
	{"TTXON", FIXED, 0o6424},
	{"TTXOF", FIXED, 0o6422},
}

// pseudoOps is the pseudo-op mnemonic table. Each entry seeds as
// PSEUDO|FIXED|DEFINED with Value holding the DirectiveID so the
// directive processor can dispatch on a plain symbol table lookup,
// exactly as palbart's pseudo-operators table does.
var pseudoOps = []seedEntry{
	{"OCTAL", PSEUDO | FIXED | DEFINED, uint(D_OCTAL)},
	{"DECIMAL", PSEUDO | FIXED | DEFINED, uint(D_DECIMAL)},
	{"FIELD", PSEUDO | FIXED | DEFINED, uint(D_FIELD)},
	{"PAGE", PSEUDO | FIXED | DEFINED, uint(D_PAGE)},
	{"SEGMNT", PSEUDO | FIXED | DEFINED, uint(D_SEGMNT)},
	{"FIXMRI", PSEUDO | FIXED | DEFINED, uint(D_FIXMRI)},
	{"FIXTAB", PSEUDO | FIXED | DEFINED, uint(D_FIXTAB)},
	{"EXPUNGE", PSEUDO | FIXED | DEFINED, uint(D_EXPUNGE)},
	{"ENPUNCH", PSEUDO | FIXED | DEFINED, uint(D_ENPUNCH)},
	{"NOPUNCH", PSEUDO | FIXED | DEFINED, uint(D_NOPUNCH)},
	{"RIMPUNCH", PSEUDO | FIXED | DEFINED, uint(D_RIMPUNCH)},
	{"BINPUNCH", PSEUDO | FIXED | DEFINED, uint(D_BINPUNCH)},
	{"TEXT", PSEUDO | FIXED | DEFINED, uint(D_TEXT)},
	{"TITLE", PSEUDO | FIXED | DEFINED, uint(D_TITLE)},
	{"ZBLOCK", PSEUDO | FIXED | DEFINED, uint(D_ZBLOCK)},
	{"EJECT", PSEUDO | FIXED | DEFINED, uint(D_EJECT)},
	{"XLIST", PSEUDO | FIXED | DEFINED, uint(D_XLIST)},
	{"PAUSE", PSEUDO | FIXED | DEFINED, uint(D_PAUSE)},
	{"RELOC", PSEUDO | FIXED | DEFINED, uint(D_RELOC)},
	{"IFDEF", PSEUDO | FIXED | DEFINED, uint(D_IFDEF)},
	{"IFNDEF", PSEUDO | FIXED | DEFINED, uint(D_IFNDEF)},
	{"IFZERO", PSEUDO | FIXED | DEFINED, uint(D_IFZERO)},
	{"IFNZERO", PSEUDO | FIXED | DEFINED, uint(D_IFNZERO)},
	{"DUBL", PSEUDO | FIXED | DEFINED, uint(D_DUBL)},
	{"FLTG", PSEUDO | FIXED | DEFINED, uint(D_FLTG)},
	{"BANK", PSEUDO | FIXED | DEFINED, uint(D_BANK)},
}
