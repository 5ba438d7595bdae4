package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/deplayer/pkg/errors"
	"github.com/matzehuels/deplayer/pkg/graph"
	"github.com/matzehuels/deplayer/pkg/observability"
	"github.com/matzehuels/deplayer/pkg/render"
	"github.com/matzehuels/deplayer/pkg/render/nodelink"
	"github.com/matzehuels/deplayer/pkg/render/svg"
)

// Render generates output artifacts in the requested formats.
//
// SVG comes from the selected backend. PNG and PDF are converted from that
// SVG. DOT is always produced from the computed layers, whatever the backend.
func (r *Runner) Render(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if res == nil || res.Concrete == nil {
		return nil, errors.New(errors.ErrCodeInternal, "render called without a layout")
	}

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, opts.Backend, opts.Formats)
	start := time.Now()

	artifacts, err := r.render(ctx, res, opts)

	hooks.OnRenderComplete(ctx, opts.Backend, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	dotFor := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(res.Graph, res.Organization.Layers, nodelink.Options{})
		}
		return dot
	}

	var svgData []byte
	svgFor := func() ([]byte, error) {
		if svgData != nil {
			return svgData, nil
		}
		if opts.IsGraphviz() {
			data, err := nodelink.RenderSVG(ctx, dotFor())
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeRender, err, "graphviz")
			}
			svgData = data
		} else {
			svgData = svg.RenderSVG(res.Concrete, svg.WithGraph(res.Graph), svg.WithSizer(opts.Sizer()))
		}
		return svgData, nil
	}

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = svgFor()
		case FormatDOT:
			data = []byte(dotFor())
		case FormatPNG:
			if data, err = svgFor(); err == nil {
				data, err = render.ToPNG(data, opts.Scale)
			}
		case FormatPDF:
			if data, err = svgFor(); err == nil {
				data, err = render.ToPDF(data)
			}
		case FormatJSON:
			data, err = graph.MarshalLayout(res.Layout)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		r.Logger.Debug("rendered artifact", "format", format, "bytes", len(data))
	}

	return artifacts, nil
}
