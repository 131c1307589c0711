package pipeline

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/matzehuels/smilesdraw/pkg/errors"
	"github.com/matzehuels/smilesdraw/pkg/layout"
	"github.com/matzehuels/smilesdraw/pkg/observability"
	"github.com/matzehuels/smilesdraw/pkg/smiles"
)

// Parse reads opts.SMILES and initializes a drawer with the molecular graph
// and its rings. The returned drawer is ready for Process.
func Parse(ctx context.Context, opts Options) (*layout.Drawer, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.SMILES)
	start := time.Now()

	d, err := parse(opts)
	atoms := 0
	if err == nil {
		atoms = len(d.Graph().Vertices)
	}
	hooks.OnParseComplete(ctx, opts.SMILES, atoms, time.Since(start), err)
	return d, err
}

func parse(opts Options) (*layout.Drawer, error) {
	tree, err := smiles.Parse(opts.SMILES)
	if err != nil {
		var se *smiles.SyntaxError
		if errors.As(err, &se) {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidSMILES, err, "invalid SMILES at position %d", se.Pos)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidSMILES, err, "invalid SMILES")
	}
	d := layout.New(*opts.Layout)
	if err := d.Init(tree); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidSMILES, err, "build molecule")
	}
	return d, nil
}

// canceled maps context errors to coded errors.
func canceled(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.ErrCodeTimeout, err, "operation timed out")
	}
	return apperrors.Wrap(apperrors.ErrCodeCanceled, err, "operation canceled")
}
