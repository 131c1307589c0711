package pipeline

import "github.com/matzehuels/smilesdraw/pkg/graph"

// Info summarizes a laid-out molecule for the info command and endpoint.
type Info struct {
	SMILES       string         `json:"smiles" yaml:"smiles"`
	Name         string         `json:"name,omitempty" yaml:"name,omitempty"`
	Formula      string         `json:"formula" yaml:"formula"`
	Atoms        int            `json:"atoms" yaml:"atoms"`
	HeavyAtoms   int            `json:"heavy_atoms" yaml:"heavy_atoms"`
	Bonds        int            `json:"bonds" yaml:"bonds"`
	Rings        int            `json:"rings" yaml:"rings"`
	RingClasses  map[string]int `json:"ring_classes,omitempty" yaml:"ring_classes,omitempty"`
	Aromatic     int            `json:"aromatic_rings" yaml:"aromatic_rings"`
	Bridged      bool           `json:"bridged" yaml:"bridged"`
	OverlapScore float64        `json:"overlap_score" yaml:"overlap_score"`
	Width        float64        `json:"width" yaml:"width"`
	Height       float64        `json:"height" yaml:"height"`
}

// Describe builds the summary of l.
func Describe(l graph.Layout) Info {
	info := Info{
		SMILES:       l.SMILES,
		Name:         l.Name,
		Formula:      l.Formula,
		Atoms:        len(l.Atoms),
		Bonds:        len(l.Bonds),
		Rings:        len(l.Rings),
		OverlapScore: metaFloat(l.Meta, "overlap_score"),
		Width:        l.Width,
		Height:       l.Height,
	}
	for _, a := range l.Atoms {
		if a.Element != "H" {
			info.HeavyAtoms++
		}
	}
	if len(l.Rings) > 0 {
		info.RingClasses = make(map[string]int)
	}
	for _, r := range l.Rings {
		info.RingClasses[r.Class()]++
		if r.Aromatic {
			info.Aromatic++
		}
		if r.Bridged {
			info.Bridged = true
		}
	}
	return info
}

// metaFloat reads a number from layout metadata, which holds float64 after
// a JSON round trip and the original type before.
func metaFloat(meta map[string]any, key string) float64 {
	switch v := meta[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
