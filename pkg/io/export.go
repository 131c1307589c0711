package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// WriteSMILES writes entries to w, one per line, in the format read by
// [ReadSMILES].
func WriteSMILES(entries []Entry, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		var err error
		if e.Name != "" {
			_, err = fmt.Fprintf(bw, "%s %s\n", e.SMILES, e.Name)
		} else {
			_, err = fmt.Fprintln(bw, e.SMILES)
		}
		if err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportSMILES writes entries to a file at path.
// This is a convenience wrapper around [WriteSMILES] for file-based output.
func ExportSMILES(entries []Entry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteSMILES(entries, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
