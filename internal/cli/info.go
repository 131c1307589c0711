package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/smilesdraw/pkg/errors"
	"github.com/matzehuels/smilesdraw/pkg/graph"
	"github.com/matzehuels/smilesdraw/pkg/pipeline"
)

// Output encodings of the info command.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	var (
		f       renderFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "info SMILES",
		Short: "Print formula, atom and ring counts of a molecule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.layoutFor(cmd, args[0], &f, noCache)
			if err != nil {
				return err
			}
			return writeInfo(cmd.OutOrStdout(), pipeline.Describe(l), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output encoding: text, json, yaml")
	cmd.Flags().StringVar(&f.name, "name", "", "molecule name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the cache")
	addLayoutFlags(cmd, &f)
	return cmd
}

// layoutFor lays out smiles with the configured options and flags.
func (c *CLI) layoutFor(cmd *cobra.Command, smiles string, f *renderFlags, noCache bool) (graph.Layout, error) {
	ctx := cmd.Context()
	opts := c.baseOptions()
	opts.SMILES = smiles
	opts.Name = f.name
	applyLayoutFlags(cmd, f, opts.Layout)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return graph.Layout{}, err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	l, hit, err := runner.ParseAndLayout(ctx, opts)
	if err != nil {
		return graph.Layout{}, err
	}
	prog.done("computed layout", "atoms", len(l.Atoms), "cached", hit)
	return l, nil
}

func writeInfo(w io.Writer, info pipeline.Info, output string) error {
	switch output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	case outputText, "":
		writeInfoText(w, info)
		return nil
	}
	return apperrors.New(apperrors.ErrCodeInvalidInput, "unknown output %q (want text, json or yaml)", output)
}

func writeInfoText(w io.Writer, info pipeline.Info) {
	title := info.Formula
	if info.Name != "" {
		title = info.Name + "  " + info.Formula
	}
	fmt.Fprintln(w, StyleTitle.Render(title))
	printKeyValue(w, "SMILES", info.SMILES)
	printKeyValue(w, "Atoms", strconv.Itoa(info.Atoms))
	printKeyValue(w, "Heavy atoms", strconv.Itoa(info.HeavyAtoms))
	printKeyValue(w, "Bonds", strconv.Itoa(info.Bonds))
	printKeyValue(w, "Rings", ringSummary(info))
	printKeyValue(w, "Overlap", strconv.FormatFloat(info.OverlapScore, 'f', 3, 64))
	printKeyValue(w, "Size", fmt.Sprintf("%.0f × %.0f", info.Width, info.Height))
}

func ringSummary(info pipeline.Info) string {
	if info.Rings == 0 {
		return "0"
	}
	classes := make([]string, 0, len(info.RingClasses))
	for class, n := range info.RingClasses {
		classes = append(classes, fmt.Sprintf("%d %s", n, class))
	}
	sort.Strings(classes)
	s := fmt.Sprintf("%d (%s)", info.Rings, strings.Join(classes, ", "))
	if info.Aromatic > 0 {
		s += fmt.Sprintf(", %d aromatic", info.Aromatic)
	}
	return s
}

// =============================================================================
// rings
// =============================================================================

// ringsCommand creates the rings command.
func (c *CLI) ringsCommand() *cobra.Command {
	var (
		f       renderFlags
		noCache bool
		raw     bool
	)

	cmd := &cobra.Command{
		Use:   "rings SMILES",
		Short: "Tabulate the rings of a molecule",
		Long: `Tabulate the smallest set of smallest rings of a molecule.

With --raw, print one line per ring as
  id;size;neighbours;spiro;fused;bridged;sourceRings;`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if raw {
				return c.writeRingInfo(cmd, args[0], &f)
			}
			l, err := c.layoutFor(cmd, args[0], &f, noCache)
			if err != nil {
				return err
			}
			if len(l.Rings) == 0 {
				printInfo("%s has no rings", l.Formula)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ringTable(l))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the cache")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the semicolon-separated ring records")
	addLayoutFlags(cmd, &f)
	return cmd
}

// writeRingInfo lays smiles out without the cache and prints the drawer's
// ring records, which include the rings merged for bridged systems.
func (c *CLI) writeRingInfo(cmd *cobra.Command, smiles string, f *renderFlags) error {
	ctx := cmd.Context()
	opts := c.baseOptions()
	opts.SMILES = smiles
	applyLayoutFlags(cmd, f, opts.Layout)

	d, err := pipeline.Parse(ctx, opts)
	if err != nil {
		return err
	}
	if _, err := pipeline.LayoutDrawer(ctx, d, opts); err != nil {
		return err
	}
	if info := d.RingInfo(); info != "" {
		fmt.Fprintln(cmd.OutOrStdout(), info)
	}
	return nil
}

// ringTable renders the rings of l as a bordered table.
func ringTable(l graph.Layout) string {
	rows := make([][]string, 0, len(l.Rings))
	for _, r := range l.Rings {
		aromatic := ""
		if r.Aromatic {
			aromatic = iconSuccess
		}
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(len(r.Members)),
			r.Class(),
			aromatic,
			ringMembers(l, r),
			fmt.Sprintf("%.1f, %.1f", r.X, r.Y),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Ring", "Size", "Class", "Aromatic", "Members", "Center").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1: // header
				return styleHeader.Padding(0, 1)
			case col == 2:
				return base.Foreground(colorCyan)
			case col == 3:
				return base.Foreground(colorGreen)
			case col == 5:
				return base.Foreground(colorDim)
			}
			return base
		}).
		Render()
}

// ringMembers lists a ring's atoms as element symbols with ids, e.g.
// "C0 C1 N2".
func ringMembers(l graph.Layout, r graph.Ring) string {
	parts := make([]string, 0, len(r.Members))
	for _, id := range r.Members {
		sym := "?"
		if a, ok := l.Atom(id); ok {
			sym = a.Element
		}
		parts = append(parts, sym+strconv.Itoa(id))
	}
	return strings.Join(parts, " ")
}
