package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadSMILES(t *testing.T) {
	input := `# analgesics
CC(=O)Oc1ccccc1C(=O)O aspirin

CC(C)Cc1ccc(cc1)C(C)C(=O)O	ibuprofen (racemic)
   c1ccccc1   
  # indented comment
`
	entries, err := ReadSMILES(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSMILES() error: %v", err)
	}

	want := []Entry{
		{SMILES: "CC(=O)Oc1ccccc1C(=O)O", Name: "aspirin", Line: 2},
		{SMILES: "CC(C)Cc1ccc(cc1)C(C)C(=O)O", Name: "ibuprofen (racemic)", Line: 4},
		{SMILES: "c1ccccc1", Line: 5},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(entries), len(want), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestReadSMILESEmpty(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"CommentsOnly", "# a\n# b\n"},
		{"BlankLines", "\n\n  \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ReadSMILES(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadSMILES() error: %v", err)
			}
			if len(entries) != 0 {
				t.Errorf("got %d entries, want 0", len(entries))
			}
		})
	}
}

func TestReadSMILESLongLine(t *testing.T) {
	long := strings.Repeat("C", 200_000)
	entries, err := ReadSMILES(strings.NewReader(long + " wax\n"))
	if err != nil {
		t.Fatalf("ReadSMILES() error: %v", err)
	}
	if len(entries) != 1 || len(entries[0].SMILES) != len(long) || entries[0].Name != "wax" {
		t.Errorf("long line not read intact")
	}
}

func TestEntryLabel(t *testing.T) {
	if got := (Entry{SMILES: "CCO", Name: "ethanol"}).Label(); got != "ethanol" {
		t.Errorf("Label() = %q, want ethanol", got)
	}
	if got := (Entry{SMILES: "CCO"}).Label(); got != "CCO" {
		t.Errorf("Label() = %q, want CCO", got)
	}
}

func TestWriteSMILESRoundTrip(t *testing.T) {
	in := []Entry{
		{SMILES: "CCO", Name: "ethanol", Line: 1},
		{SMILES: "c1ccccc1", Line: 2},
	}

	var buf bytes.Buffer
	if err := WriteSMILES(in, &buf); err != nil {
		t.Fatalf("WriteSMILES() error: %v", err)
	}
	if got, want := buf.String(), "CCO ethanol\nc1ccccc1\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	out, err := ReadSMILES(&buf)
	if err != nil {
		t.Fatalf("ReadSMILES() error: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("entry %d = %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestSMILESFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mols.smi")
	in := []Entry{{SMILES: "O", Name: "water", Line: 1}}
	if err := ExportSMILES(in, path); err != nil {
		t.Fatalf("ExportSMILES() error: %v", err)
	}
	out, err := ReadSMILESFile(path)
	if err != nil {
		t.Fatalf("ReadSMILESFile() error: %v", err)
	}
	if len(out) != 1 || out[0] != in[0] {
		t.Errorf("got %+v, want %+v", out, in)
	}

	if _, err := ReadSMILESFile(filepath.Join(t.TempDir(), "missing.smi")); err == nil {
		t.Error("expected error for missing file")
	}
}
