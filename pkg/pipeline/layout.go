package pipeline

import (
	"context"
	"time"

	apperrors "github.com/matzehuels/smilesdraw/pkg/errors"
	"github.com/matzehuels/smilesdraw/pkg/graph"
	"github.com/matzehuels/smilesdraw/pkg/layout"
	"github.com/matzehuels/smilesdraw/pkg/observability"
)

// GenerateLayout parses opts.SMILES, lays the molecule out and exports the
// result. It does not touch the cache; see Runner.ParseAndLayout.
func GenerateLayout(ctx context.Context, opts Options) (graph.Layout, error) {
	d, err := Parse(ctx, opts)
	if err != nil {
		return graph.Layout{}, err
	}
	return LayoutDrawer(ctx, d, opts)
}

// LayoutDrawer runs the layout stage on an initialized drawer.
func LayoutDrawer(ctx context.Context, d *layout.Drawer, opts Options) (graph.Layout, error) {
	if err := ctx.Err(); err != nil {
		return graph.Layout{}, canceled(err)
	}

	atoms, rings := len(d.Graph().Vertices), d.RingCount()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, atoms, rings)
	start := time.Now()

	l, err := layoutDrawer(d, opts)
	hooks.OnLayoutComplete(ctx, atoms, rings, time.Since(start), err)
	return l, err
}

func layoutDrawer(d *layout.Drawer, opts Options) (graph.Layout, error) {
	if err := d.Process(); err != nil {
		return graph.Layout{}, apperrors.Wrap(apperrors.ErrCodeInternal, err, "layout")
	}
	l, err := graph.FromDrawer(d, opts.SMILES)
	if err != nil {
		return graph.Layout{}, apperrors.Wrap(apperrors.ErrCodeInternal, err, "export layout")
	}
	l.Name = opts.Name
	return l, nil
}
