package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/smilesdraw/pkg/errors"
	"github.com/matzehuels/smilesdraw/pkg/graph"
	"github.com/matzehuels/smilesdraw/pkg/layout"
	"github.com/matzehuels/smilesdraw/pkg/pipeline"
	"github.com/matzehuels/smilesdraw/pkg/render"
)

// renderFlags holds the command-line flags for the render command. Only
// flags the user set override the configuration.
type renderFlags struct {
	output   string
	formats  string
	name     string
	theme    string
	scale    float64
	pseudo   bool
	graphviz bool
	noCache  bool
	refresh  bool
	fromJSON string

	width, height float64
	bondLength    float64
	iterations    int
	sensitivity   float64
	noIsomeric    bool
	noHydrogens   bool
	noCompact     bool
	expSSSR       bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render SMILES",
		Short: "Draw a molecule to SVG, PNG, PDF, JSON or DOT",
		Example: `  smilesdraw render 'CC(=O)Oc1ccccc1C(=O)O' --name aspirin
  smilesdraw render 'c1ccccc1' -f svg,png --theme dark -o benzene
  smilesdraw render 'C1CC2CCC1C2' -f svg -o -
  smilesdraw render --from-json benzene.json -f png`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.fromJSON != "" {
				if len(args) > 0 {
					return apperrors.New(apperrors.ErrCodeInvalidInput, "--from-json takes no SMILES argument")
				}
				return c.runRenderLayout(cmd, &f)
			}
			if len(args) != 1 {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "expected one SMILES argument")
			}
			opts, err := c.renderOptions(cmd, args[0], &f)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), opts, &f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output file (single format), base path (several), or - for stdout")
	fl.StringVarP(&f.formats, "format", "f", "", "output format(s): svg, png, pdf, json, dot (comma-separated)")
	fl.StringVar(&f.name, "name", "", "molecule name, used for the output file name")
	fl.StringVar(&f.theme, "theme", "", "color theme")
	fl.Float64Var(&f.scale, "scale", 0, "raster scale for PNG output")
	fl.BoolVar(&f.pseudo, "pseudo", false, "mark compacted carbons")
	fl.BoolVar(&f.graphviz, "graphviz", false, "render SVG through Graphviz")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the cache")
	fl.BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
	fl.StringVar(&f.fromJSON, "from-json", "", "render a layout written with -f json instead of a SMILES string")
	addLayoutFlags(cmd, &f)

	_ = cmd.RegisterFlagCompletionFunc("theme", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return render.ThemeNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// addLayoutFlags registers the layout tuning flags shared by commands that
// lay molecules out.
func addLayoutFlags(cmd *cobra.Command, f *renderFlags) {
	def := layout.DefaultOptions()
	fl := cmd.Flags()
	fl.Float64Var(&f.width, "width", def.Width, "canvas width hint")
	fl.Float64Var(&f.height, "height", def.Height, "canvas height hint")
	fl.Float64Var(&f.bondLength, "bond-length", def.BondLength, "bond length")
	fl.IntVar(&f.iterations, "iterations", def.OverlapResolutionIterations, "overlap resolution iterations")
	fl.Float64Var(&f.sensitivity, "sensitivity", def.OverlapSensitivity, "overlap sensitivity")
	fl.BoolVar(&f.noIsomeric, "no-isomeric", false, "ignore stereochemistry")
	fl.BoolVar(&f.noHydrogens, "no-hydrogens", false, "hide explicit hydrogens")
	fl.BoolVar(&f.noCompact, "no-compact", false, "draw terminal carbons explicitly")
	fl.BoolVar(&f.expSSSR, "experimental-sssr", false, "use the experimental ring search")
}

// applyLayoutFlags overlays the flags the user set onto lo.
func applyLayoutFlags(cmd *cobra.Command, f *renderFlags, lo *layout.Options) {
	changed := cmd.Flags().Changed
	if changed("width") {
		lo.Width = f.width
	}
	if changed("height") {
		lo.Height = f.height
	}
	if changed("bond-length") {
		lo.BondLength = f.bondLength
		lo.BondSpacing = 0.17 * f.bondLength
	}
	if changed("iterations") {
		lo.OverlapResolutionIterations = f.iterations
	}
	if changed("sensitivity") {
		lo.OverlapSensitivity = f.sensitivity
	}
	if f.noIsomeric {
		lo.Isomeric = false
	}
	if f.noHydrogens {
		lo.ExplicitHydrogens = false
	}
	if f.noCompact {
		lo.CompactDrawing = false
	}
	if f.expSSSR {
		lo.ExperimentalSSSR = true
	}
}

// renderOptions builds pipeline options from the configuration and flags.
func (c *CLI) renderOptions(cmd *cobra.Command, smiles string, f *renderFlags) (pipeline.Options, error) {
	opts := c.baseOptions()
	opts.SMILES = smiles
	opts.Name = f.name
	opts.Refresh = f.refresh
	applyLayoutFlags(cmd, f, opts.Layout)

	changed := cmd.Flags().Changed
	if changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if changed("theme") {
		opts.Theme = f.theme
	}
	if changed("scale") {
		opts.Scale = f.scale
	}
	if changed("pseudo") {
		opts.Pseudo = f.pseudo
	}
	if changed("graphviz") {
		opts.Graphviz = f.graphviz
	}

	if f.name != "" && f.output == "" {
		if err := apperrors.ValidateName(f.name); err != nil {
			return opts, err
		}
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	if f.output == "-" && len(opts.Formats) != 1 {
		return opts, apperrors.New(apperrors.ErrCodeInvalidInput, "-o - needs exactly one format, got %d", len(opts.Formats))
	}
	return opts, nil
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, stdout io.Writer, opts pipeline.Options, f *renderFlags) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	toStdout := f.output == "-"
	var spinner *Spinner
	if !toStdout {
		spinner = newSpinner(ctx, "Drawing "+opts.SMILES)
		spinner.Start()
	}

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done("rendered molecule", "formula", res.Layout.Formula, "formats", opts.Formats)

	if toStdout {
		_, err := stdout.Write(res.Artifacts[opts.Formats[0]])
		return err
	}

	printSuccess("%s %s", StyleTitle.Render(res.Layout.Formula), StyleDim.Render(opts.SMILES))
	printStats(res.Stats.Atoms, res.Stats.Bonds, res.Stats.Rings, res.CacheInfo.LayoutHit)
	return writeArtifacts(res.Artifacts, f.output, opts)
}

// runRenderLayout renders a previously exported layout. Layout flags have
// no effect since the coordinates are already fixed.
func (c *CLI) runRenderLayout(cmd *cobra.Command, f *renderFlags) error {
	l, err := graph.ReadLayoutFile(f.fromJSON)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read layout")
	}
	if f.name == "" {
		f.name = l.Name
	}
	opts, err := c.renderOptions(cmd, l.SMILES, f)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(cmd.Context()))
	artifacts, err := pipeline.RenderFromLayout(cmd.Context(), l, opts)
	if err != nil {
		return err
	}
	prog.done("rendered layout", "formula", l.Formula, "formats", opts.Formats)

	if f.output == "-" {
		_, err := cmd.OutOrStdout().Write(artifacts[opts.Formats[0]])
		return err
	}
	printSuccess("%s %s", StyleTitle.Render(l.Formula), StyleDim.Render(f.fromJSON))
	return writeArtifacts(artifacts, f.output, opts)
}

// writeArtifacts writes one file per requested format.
func writeArtifacts(artifacts map[string][]byte, output string, opts pipeline.Options) error {
	for _, path := range outputPaths(output, opts.Name, opts.Formats) {
		data := artifacts[path.format]
		if err := writeFile(path.path, data); err != nil {
			return err
		}
		printFile(path.path, len(data))
	}
	return nil
}

type outputPath struct {
	format string
	path   string
}

// outputPaths maps each format to its file. A single format with an
// explicit -o is written exactly there.
func outputPaths(output, name string, formats []string) []outputPath {
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		return []outputPath{{formats[0], output}}
	}
	base := basePath(output, name)
	out := make([]outputPath, 0, len(formats))
	for _, format := range slices.Compact(slices.Clone(formats)) {
		out = append(out, outputPath{format, base + render.Extension(format)})
	}
	return out
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
