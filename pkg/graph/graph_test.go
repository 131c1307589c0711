package graph

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/smilesdraw/pkg/layout"
	"github.com/matzehuels/smilesdraw/pkg/smiles"
)

func drawLayout(t *testing.T, s string) Layout {
	t.Helper()
	d := layout.New(layout.DefaultOptions())
	if err := d.Draw(smiles.MustParse(s)); err != nil {
		t.Fatalf("Draw(%q) error: %v", s, err)
	}
	l, err := FromDrawer(d, s)
	if err != nil {
		t.Fatalf("FromDrawer(%q) error: %v", s, err)
	}
	return l
}

func TestFromDrawer(t *testing.T) {
	tests := []struct {
		name      string
		smiles    string
		wantAtoms int
		wantBonds int
		wantRings int
		check     func(t *testing.T, l Layout)
	}{
		{
			name:      "Methane",
			smiles:    "C",
			wantAtoms: 1,
			check: func(t *testing.T, l Layout) {
				a := l.Atoms[0]
				if !a.Label {
					t.Error("lone carbon should be labelled")
				}
				if a.HCount != 4 {
					t.Errorf("HCount = %d, want 4", a.HCount)
				}
			},
		},
		{
			name:      "Ethanol",
			smiles:    "CCO",
			wantAtoms: 3,
			wantBonds: 2,
			check: func(t *testing.T, l Layout) {
				o, _ := l.Atom(2)
				if !o.Label || o.HCount != 1 {
					t.Errorf("O label=%v hcount=%d, want true 1", o.Label, o.HCount)
				}
				c, _ := l.Atom(0)
				if c.Label {
					t.Error("chain carbon should not be labelled")
				}
				if l.Formula != "C2H6O" {
					t.Errorf("Formula = %q, want C2H6O", l.Formula)
				}
			},
		},
		{
			name:      "Benzene",
			smiles:    "c1ccccc1",
			wantAtoms: 6,
			wantBonds: 6,
			wantRings: 1,
			check: func(t *testing.T, l Layout) {
				for _, b := range l.Bonds {
					if b.Ring != 0 {
						t.Errorf("bond %d ring = %d, want 0", b.ID, b.Ring)
					}
				}
				if !l.Rings[0].Aromatic {
					t.Error("benzene ring should be aromatic")
				}
				if l.Rings[0].Class() != "isolated" {
					t.Errorf("Class = %q, want isolated", l.Rings[0].Class())
				}
			},
		},
		{
			name:      "Ammonium",
			smiles:    "[NH4+]",
			wantAtoms: 1,
			check: func(t *testing.T, l Layout) {
				a := l.Atoms[0]
				if a.Charge != 1 || a.HCount != 4 {
					t.Errorf("charge=%d hcount=%d, want 1 4", a.Charge, a.HCount)
				}
			},
		},
		{
			name:      "Naphthalene",
			smiles:    "c1ccc2ccccc2c1",
			wantAtoms: 10,
			wantBonds: 11,
			wantRings: 2,
			check: func(t *testing.T, l Layout) {
				for _, r := range l.Rings {
					if r.Class() != "fused" {
						t.Errorf("ring %d class = %q, want fused", r.ID, r.Class())
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := drawLayout(t, tt.smiles)
			if len(l.Atoms) != tt.wantAtoms {
				t.Errorf("atoms = %d, want %d", len(l.Atoms), tt.wantAtoms)
			}
			if len(l.Bonds) != tt.wantBonds {
				t.Errorf("bonds = %d, want %d", len(l.Bonds), tt.wantBonds)
			}
			if len(l.Rings) != tt.wantRings {
				t.Errorf("rings = %d, want %d", len(l.Rings), tt.wantRings)
			}
			if tt.check != nil {
				tt.check(t, l)
			}
		})
	}
}

func TestFromDrawerCoordinates(t *testing.T) {
	l := drawLayout(t, "CCCCCC")
	minX, minY := l.Atoms[0].X, l.Atoms[0].Y
	for _, a := range l.Atoms {
		minX, minY = min(minX, a.X), min(minY, a.Y)
		if a.X > l.Width-l.Padding+1e-9 || a.Y > l.Height-l.Padding+1e-9 {
			t.Errorf("atom %d at (%v,%v) outside %vx%v", a.ID, a.X, a.Y, l.Width, l.Height)
		}
	}
	if diff := minX - l.Padding; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("min x = %v, want %v", minX, l.Padding)
	}
	if diff := minY - l.Padding; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("min y = %v, want %v", minY, l.Padding)
	}
}

func TestFromDrawerNotProcessed(t *testing.T) {
	d := layout.New(layout.DefaultOptions())
	if _, err := FromDrawer(d, "C"); !errors.Is(err, ErrNotProcessed) {
		t.Errorf("err = %v, want ErrNotProcessed", err)
	}
}

func TestStereoBondsExported(t *testing.T) {
	l := drawLayout(t, "C[S@](=O)CC")
	var wedges int
	for _, b := range l.Bonds {
		if b.Wedge != "" {
			wedges++
			if b.WedgeOrigin != 1 {
				t.Errorf("wedge origin = %d, want 1", b.WedgeOrigin)
			}
		}
	}
	if wedges != 2 {
		t.Errorf("wedges = %d, want 2", wedges)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	l := drawLayout(t, "OC(=O)c1ccccc1O")
	l.Name = "salicylic acid"

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout() error: %v", err)
	}
	back, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error: %v", err)
	}
	if back.Name != l.Name || back.Formula != l.Formula || back.SMILES != l.SMILES {
		t.Errorf("header mismatch: %+v", back)
	}
	if len(back.Atoms) != len(l.Atoms) || len(back.Bonds) != len(l.Bonds) || len(back.Rings) != len(l.Rings) {
		t.Errorf("content mismatch after round trip")
	}

	var buf bytes.Buffer
	if err := WriteLayout(l, &buf); err != nil {
		t.Fatalf("WriteLayout() error: %v", err)
	}
	if _, err := ReadLayout(&buf); err != nil {
		t.Fatalf("ReadLayout() error: %v", err)
	}
}

func TestLayoutFile(t *testing.T) {
	l := drawLayout(t, "CCO")
	path := filepath.Join(t.TempDir(), "ethanol.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile() error: %v", err)
	}
	back, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error: %v", err)
	}
	if back.Formula != "C2H6O" {
		t.Errorf("Formula = %q, want C2H6O", back.Formula)
	}

	if _, err := ReadLayoutFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestUnmarshalLayoutInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"NotJSON", `{`},
		{"NoAtoms", `{"smiles":"C","atoms":[]}`},
		{"DuplicateAtom", `{"atoms":[{"id":0,"element":"C"},{"id":0,"element":"O"}]}`},
		{"DanglingBond", `{"atoms":[{"id":0,"element":"C"}],"bonds":[{"id":0,"from":0,"to":5}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalLayout([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := UnmarshalLayout([]byte(`{"atoms":[]}`))
	if !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("err = %v, want ErrInvalidLayout", err)
	}
	if !strings.Contains(err.Error(), "no atoms") {
		t.Errorf("err = %q, want mention of no atoms", err)
	}
}

func TestIsFormat(t *testing.T) {
	for _, f := range Formats {
		if !IsFormat(f) {
			t.Errorf("IsFormat(%q) = false", f)
		}
	}
	if IsFormat("gif") {
		t.Error("IsFormat(gif) = true")
	}
}
