package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	smilesio "github.com/matzehuels/smilesdraw/pkg/io"
)

// BatchItem is the outcome for one entry of a batch. Exactly one of Result
// and Err is set.
type BatchItem struct {
	Entry  smilesio.Entry
	Result *Result
	Err    error
}

// ExecuteBatch runs the pipeline for every entry with at most workers runs
// in flight (GOMAXPROCS when workers <= 0). Each entry gets a copy of base
// with its SMILES and name filled in. A failing entry does not stop the
// batch; only cancellation of ctx does.
//
// Items are returned in entry order. fn, if non-nil, is called as each
// entry finishes and may be called concurrently.
func (r *Runner) ExecuteBatch(ctx context.Context, entries []smilesio.Entry, base Options, workers int, fn func(BatchItem)) ([]BatchItem, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	items := make([]BatchItem, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return canceled(err)
			}
			opts := base
			opts.SMILES = e.SMILES
			opts.Name = e.Name
			opts.Formats = append([]string(nil), base.Formats...)
			opts.validated = false

			res, err := r.Execute(gctx, opts)
			items[i] = BatchItem{Entry: e, Result: res, Err: err}
			if fn != nil {
				fn(items[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return items, err
	}
	return items, ctx.Err()
}
