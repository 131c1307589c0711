package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/smilesdraw/pkg/errors"
	smilesio "github.com/matzehuels/smilesdraw/pkg/io"
	"github.com/matzehuels/smilesdraw/pkg/pipeline"
	"github.com/matzehuels/smilesdraw/pkg/render"
)

// batchSummary is written after a batch run, one entry per input line.
type batchSummary struct {
	Input   string       `yaml:"input"`
	OutDir  string       `yaml:"out_dir"`
	Total   int          `yaml:"total"`
	Failed  int          `yaml:"failed"`
	Entries []batchEntry `yaml:"entries"`
}

type batchEntry struct {
	Line    int      `yaml:"line"`
	SMILES  string   `yaml:"smiles"`
	Name    string   `yaml:"name,omitempty"`
	Formula string   `yaml:"formula,omitempty"`
	Cached  bool     `yaml:"cached,omitempty"`
	Files   []string `yaml:"files,omitempty"`
	Error   string   `yaml:"error,omitempty"`
}

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		f       renderFlags
		outDir  string
		summary string
		failed  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Render every molecule of a .smi file",
		Long: `Render every line of a SMILES file into an output directory.

Each line holds a SMILES string optionally followed by a name. Blank lines
and lines starting with # are skipped. Files are named after the molecule,
or after the line number when the name is missing or not a valid file name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := smilesio.ReadSMILESFile(args[0])
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "read batch file")
			}
			if len(entries) == 0 {
				printWarning("No molecules in %s", args[0])
				return nil
			}

			base, err := c.batchOptions(cmd, &f)
			if err != nil {
				return err
			}

			s, err := c.runBatch(cmd, entries, base, outDir, workers, f.noCache)
			if err != nil {
				return err
			}
			s.Input = args[0]
			if err := writeSummary(cmd.OutOrStdout(), summary, s); err != nil {
				return err
			}
			if failed != "" && s.Failed > 0 {
				if err := smilesio.ExportSMILES(failedEntries(s), failed); err != nil {
					return err
				}
				printDetail("Failed molecules written to %s", failed)
			}
			if s.Failed > 0 {
				return fmt.Errorf("%d of %d molecules failed", s.Failed, s.Total)
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&outDir, "out-dir", "d", ".", "output directory")
	fl.StringVar(&summary, "summary", "", "write the YAML summary to this file instead of stdout")
	fl.StringVar(&failed, "failed", "", "write the molecules that failed to this .smi file")
	fl.IntVarP(&workers, "workers", "w", 0, "molecules drawn in parallel (default GOMAXPROCS)")
	fl.StringVarP(&f.formats, "format", "f", "", "output format(s): svg, png, pdf, json, dot (comma-separated)")
	fl.StringVar(&f.theme, "theme", "", "color theme")
	fl.Float64Var(&f.scale, "scale", 0, "raster scale for PNG output")
	fl.BoolVar(&f.pseudo, "pseudo", false, "mark compacted carbons")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the cache")
	fl.BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
	addLayoutFlags(cmd, &f)
	return cmd
}

// batchOptions builds the options shared by every entry.
func (c *CLI) batchOptions(cmd *cobra.Command, f *renderFlags) (pipeline.Options, error) {
	opts := c.baseOptions()
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

	// Validate everything but the SMILES once up front.
	opts.SetRenderDefaults()
	opts.SetLayoutDefaults()
	if err := opts.ValidateForRender(); err != nil {
		return opts, err
	}
	if err := opts.Layout.Validate(); err != nil {
		return opts, apperrors.Wrap(apperrors.ErrCodeInvalidOption, err, "invalid layout options")
	}
	return opts, nil
}

func (c *CLI) runBatch(cmd *cobra.Command, entries []smilesio.Entry, opts pipeline.Options, outDir string, workers int, noCache bool) (batchSummary, error) {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return batchSummary{}, err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Drawing %d molecules", len(entries)))
	spinner.Start()

	var done atomic.Int64
	prog := newProgress(loggerFromContext(ctx))
	items, err := runner.ExecuteBatch(ctx, entries, opts, workers, func(pipeline.BatchItem) {
		n := done.Add(1)
		spinner.SetMessage(fmt.Sprintf("Drawing %d/%d", n, len(entries)))
	})
	spinner.Stop()
	if err != nil {
		return batchSummary{}, err
	}
	prog.done("batch finished", "molecules", len(entries))

	s := batchSummary{OutDir: outDir, Total: len(items)}
	for _, item := range items {
		e := batchEntry{Line: item.Entry.Line, SMILES: item.Entry.SMILES, Name: item.Entry.Name}
		if item.Err != nil {
			e.Error = apperrors.UserMessage(item.Err)
			s.Failed++
			printError("line %d: %s", e.Line, e.Error)
			s.Entries = append(s.Entries, e)
			continue
		}
		e.Formula = item.Result.Layout.Formula
		e.Cached = item.Result.CacheInfo.LayoutHit
		base := filepath.Join(outDir, entryBaseName(item.Entry))
		for _, format := range slices.Compact(slices.Clone(opts.Formats)) {
			path := base + render.Extension(format)
			if err := writeFile(path, item.Result.Artifacts[format]); err != nil {
				return s, err
			}
			e.Files = append(e.Files, path)
		}
		s.Entries = append(s.Entries, e)
	}

	printSuccess("Drew %d of %d molecules into %s", s.Total-s.Failed, s.Total, outDir)
	return s, nil
}

// failedEntries returns the entries of s that have an error, in a form
// that can be fed back to the batch command.
func failedEntries(s batchSummary) []smilesio.Entry {
	var out []smilesio.Entry
	for _, e := range s.Entries {
		if e.Error != "" {
			out = append(out, smilesio.Entry{SMILES: e.SMILES, Name: e.Name, Line: e.Line})
		}
	}
	return out
}

// entryBaseName names the files of one batch entry.
func entryBaseName(e smilesio.Entry) string {
	if e.Name != "" && apperrors.ValidateName(e.Name) == nil {
		return e.Name
	}
	return fmt.Sprintf("line-%04d", e.Line)
}

func writeSummary(stdout io.Writer, path string, s batchSummary) error {
	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create summary: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return enc.Close()
}
