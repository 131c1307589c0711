package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds a single line. Large macrocycles and peptides can run
// well past bufio's default token size.
const maxLineSize = 1 << 20

// Entry is one molecule of a batch file.
type Entry struct {
	SMILES string `json:"smiles" yaml:"smiles"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Line   int    `json:"line" yaml:"line"`
}

// Label returns the name of the entry, or its SMILES when unnamed.
func (e Entry) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.SMILES
}

// ReadSMILES reads batch entries from r. Blank lines and # comments are
// skipped; a name is whatever follows the SMILES on the same line.
//
// ReadSMILES does not close r.
func ReadSMILES(r io.Reader) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var entries []Entry
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e := Entry{SMILES: line, Line: n}
		if i := strings.IndexAny(line, " \t"); i >= 0 {
			e.SMILES = line[:i]
			e.Name = strings.TrimSpace(line[i+1:])
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return entries, nil
}

// ReadSMILESFile reads the batch file at path with [ReadSMILES].
func ReadSMILESFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSMILES(f)
}
