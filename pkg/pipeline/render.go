package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/smilesdraw/pkg/graph"
	"github.com/matzehuels/smilesdraw/pkg/observability"
	"github.com/matzehuels/smilesdraw/pkg/render"
)

// RenderFromLayout produces every format in opts.Formats. It does not touch
// the cache; see Runner.RenderWithCacheInfo.
func RenderFromLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	return renderFormats(ctx, l, opts, opts.Formats)
}

func renderFormats(ctx context.Context, l graph.Layout, opts Options, formats []string) (map[string][]byte, error) {
	ropts, err := opts.RenderOptions()
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()

	out := make(map[string][]byte, len(formats))
	for _, format := range formats {
		if err = ctx.Err(); err != nil {
			err = canceled(err)
			break
		}
		var data []byte
		data, err = render.Render(ctx, l, format, ropts...)
		if err != nil {
			err = fmt.Errorf("render %s: %w", format, err)
			break
		}
		out[format] = data
	}
	hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}
