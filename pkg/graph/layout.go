package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInvalidLayout is returned when decoded data does not describe a layout.
var ErrInvalidLayout = errors.New("graph: invalid layout")

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Bonds must reference atoms present in the layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayout writes a Layout as JSON to an io.Writer.
func WriteLayout(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadLayout decodes a JSON layout from an io.Reader.
func ReadLayout(r io.Reader) (Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("decode: %w", err)
	}
	if err := l.validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func (l *Layout) validate() error {
	if len(l.Atoms) == 0 {
		return fmt.Errorf("%w: no atoms", ErrInvalidLayout)
	}
	ids := make(map[int]bool, len(l.Atoms))
	for _, a := range l.Atoms {
		if ids[a.ID] {
			return fmt.Errorf("%w: duplicate atom %d", ErrInvalidLayout, a.ID)
		}
		ids[a.ID] = true
	}
	for _, b := range l.Bonds {
		if !ids[b.From] || !ids[b.To] {
			return fmt.Errorf("%w: bond %d references unknown atom", ErrInvalidLayout, b.ID)
		}
	}
	return nil
}
