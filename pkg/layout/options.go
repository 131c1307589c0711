package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidOption is returned by [Options.Validate].
var ErrInvalidOption = errors.New("layout: invalid option")

// Options control the layout heuristics. None of them changes the topology
// of the molecular graph.
type Options struct {
	Width           float64 `json:"width" toml:"width"`
	Height          float64 `json:"height" toml:"height"`
	BondThickness   float64 `json:"bond_thickness" toml:"bond_thickness"`
	BondLength      float64 `json:"bond_length" toml:"bond_length"`
	ShortBondLength float64 `json:"short_bond_length" toml:"short_bond_length"`
	BondSpacing     float64 `json:"bond_spacing" toml:"bond_spacing"`

	Isomeric          bool `json:"isomeric" toml:"isomeric"`
	ExplicitHydrogens bool `json:"explicit_hydrogens" toml:"explicit_hydrogens"`
	CompactDrawing    bool `json:"compact_drawing" toml:"compact_drawing"`
	ExperimentalSSSR  bool `json:"experimental_sssr" toml:"experimental_sssr"`

	// OverlapSensitivity is the average subtree overlap score above which a
	// rotation is attempted during the iterated search.
	OverlapSensitivity          float64 `json:"overlap_sensitivity" toml:"overlap_sensitivity"`
	OverlapResolutionIterations int     `json:"overlap_resolution_iterations" toml:"overlap_resolution_iterations"`

	FontSizeLarge float64 `json:"font_size_large" toml:"font_size_large"`
	FontSizeSmall float64 `json:"font_size_small" toml:"font_size_small"`
	Padding       float64 `json:"padding" toml:"padding"`

	// Kamada–Kawai parameters for bridged ring systems.
	KKThreshold         float64 `json:"kk_threshold" toml:"kk_threshold"`
	KKInnerThreshold    float64 `json:"kk_inner_threshold" toml:"kk_inner_threshold"`
	KKMaxIteration      int     `json:"kk_max_iteration" toml:"kk_max_iteration"`
	KKMaxInnerIteration int     `json:"kk_max_inner_iteration" toml:"kk_max_inner_iteration"`
	KKMaxEnergy         float64 `json:"kk_max_energy" toml:"kk_max_energy"`
}

// DefaultOptions returns the stock layout options.
func DefaultOptions() Options {
	return Options{
		Width:                       500,
		Height:                      500,
		BondThickness:               1,
		BondLength:                  30,
		ShortBondLength:             0.8,
		BondSpacing:                 0.17 * 30,
		Isomeric:                    true,
		ExplicitHydrogens:           true,
		CompactDrawing:              true,
		OverlapSensitivity:          0.42,
		OverlapResolutionIterations: 1,
		FontSizeLarge:               11,
		FontSizeSmall:               3,
		Padding:                     10,
		KKThreshold:                 0.1,
		KKInnerThreshold:            0.1,
		KKMaxIteration:              20000,
		KKMaxInnerIteration:         50,
		KKMaxEnergy:                 1e9,
	}
}

// BondLengthSq returns the squared bond length.
func (o Options) BondLengthSq() float64 { return o.BondLength * o.BondLength }

// HalfBondSpacing returns half the double-bond spacing.
func (o Options) HalfBondSpacing() float64 { return o.BondSpacing / 2 }

// Validate checks that the numeric options are usable.
func (o Options) Validate() error {
	switch {
	case o.BondLength <= 0:
		return fmt.Errorf("%w: bond length must be positive, got %g", ErrInvalidOption, o.BondLength)
	case o.OverlapResolutionIterations < 0:
		return fmt.Errorf("%w: overlap resolution iterations must not be negative, got %d", ErrInvalidOption, o.OverlapResolutionIterations)
	case o.OverlapSensitivity < 0:
		return fmt.Errorf("%w: overlap sensitivity must not be negative, got %g", ErrInvalidOption, o.OverlapSensitivity)
	case o.Width < 0 || o.Height < 0:
		return fmt.Errorf("%w: canvas size must not be negative", ErrInvalidOption)
	case o.KKMaxIteration < 0 || o.KKMaxInnerIteration < 0:
		return fmt.Errorf("%w: Kamada–Kawai iteration limits must not be negative", ErrInvalidOption)
	}
	return nil
}
