// Package io reads and writes SMILES batch files.
//
// # Format
//
// A batch file holds one molecule per line. The first whitespace-separated
// field is the SMILES string, the rest of the line is an optional name:
//
//	# analgesics
//	CC(=O)Oc1ccccc1C(=O)O aspirin
//	CC(C)Cc1ccc(cc1)C(C)C(=O)O ibuprofen
//	c1ccccc1
//
// Blank lines and lines starting with # are skipped. Entries remember their
// 1-based line number so errors can point back into the file.
//
// The format is the common .smi layout understood by most cheminformatics
// tools, so files written by [WriteSMILES] can be read back with
// [ReadSMILES] and by other programs.
//
// Entries are not validated here; parsing happens in the pipeline, where
// each failure is reported against its line.
package io
