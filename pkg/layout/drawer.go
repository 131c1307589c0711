package layout

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/smilesdraw/pkg/molecule"
	"github.com/matzehuels/smilesdraw/pkg/ring"
	"github.com/matzehuels/smilesdraw/pkg/smiles"
	"github.com/matzehuels/smilesdraw/pkg/sssr"
)

// ErrNotInitialized is returned when Process runs before Init.
var ErrNotInitialized = errors.New("layout: drawer not initialized")

// Drawer computes the 2D layout of one molecule. It owns the graph, rings
// and ring connections of that molecule exclusively. A Drawer is not safe
// for concurrent use; create one per draw.
type Drawer struct {
	opts Options

	graph *molecule.Graph
	rings []*ring.Ring
	conns []*ring.Connection

	// Ring state from initialization, restored after bridged systems were
	// merged for positioning.
	originalRings []*ring.Ring
	originalConns []*ring.Connection
	backedUp      []int

	bridged      bool
	totalOverlap float64
	processed    bool
}

// New returns a drawer with the given options.
func New(opts Options) *Drawer {
	return &Drawer{opts: opts}
}

// Options returns the options of the drawer.
func (d *Drawer) Options() Options { return d.opts }

// Graph returns the molecular graph, or nil before Init.
func (d *Drawer) Graph() *molecule.Graph { return d.graph }

// Rings returns the rings of the molecule, indexed by ring id.
func (d *Drawer) Rings() []*ring.Ring { return d.rings }

// Connections returns the ring connections.
func (d *Drawer) Connections() []*ring.Connection { return d.conns }

// Draw runs Init and Process.
func (d *Drawer) Draw(tree *smiles.Node) error {
	if err := d.Init(tree); err != nil {
		return err
	}
	return d.Process()
}

// Init builds the molecular graph from a parse tree, detects and classifies
// its rings and, when ExplicitHydrogens is set, fills free valences with
// hydrogen vertices. Any previous state of the drawer is discarded.
func (d *Drawer) Init(tree *smiles.Node) error {
	if err := d.opts.Validate(); err != nil {
		return err
	}
	g, err := molecule.Build(tree, d.opts.Isomeric)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	d.graph = g
	d.rings = nil
	d.conns = nil
	d.backedUp = nil
	d.bridged = false
	d.totalOverlap = 0
	d.processed = false

	d.initRings()
	if d.opts.ExplicitHydrogens {
		g.AddImplicitHydrogens()
	}
	return nil
}

func (d *Drawer) initRings() {
	g := d.graph
	for i, members := range sssr.Rings(g, d.opts.ExperimentalSSSR) {
		r := ring.New(i, members)
		for _, m := range members {
			g.Vertices[m].Atom.AddRing(r.ID)
		}
		d.rings = append(d.rings, r)
	}

	d.conns = ring.Connect(d.rings)
	ring.Classify(d.rings, d.conns, g)
	for _, r := range d.rings {
		if r.IsBridged {
			d.bridged = true
		}
	}

	d.originalRings = slices.Clone(d.rings)
	d.originalConns = cloneConnections(d.conns)
}

// Process lays out the molecule: position every vertex, resolve overlaps,
// annotate stereochemistry, mark pseudo elements and rotate the drawing to a
// canonical orientation. It never fails on degenerate topology.
func (d *Drawer) Process() error {
	if d.graph == nil {
		return ErrNotInitialized
	}

	d.position()
	d.restoreRingInformation()

	d.resolvePrimaryOverlaps()
	score := d.OverlapScore()
	d.totalOverlap = score.Total
	for range d.opts.OverlapResolutionIterations {
		score = d.rotationPass(d.opts.OverlapSensitivity, score)
	}
	d.resolveSecondaryOverlaps(score.Pairs)

	if d.opts.Isomeric {
		d.annotateStereochemistry()
	}
	if d.opts.CompactDrawing {
		d.initPseudoElements()
	}
	d.rotateDrawing()

	d.processed = true
	return nil
}

// Processed reports whether Process has completed.
func (d *Drawer) Processed() bool { return d.processed }

func cloneConnections(conns []*ring.Connection) []*ring.Connection {
	out := make([]*ring.Connection, len(conns))
	for i, c := range conns {
		cp := *c
		cp.Vertices = slices.Clone(c.Vertices)
		out[i] = &cp
	}
	return out
}
