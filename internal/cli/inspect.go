package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/smilesdraw/pkg/graph"
)

// inspectCommand creates the interactive inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		f       renderFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "inspect SMILES",
		Short: "Browse the atoms and rings of a laid-out molecule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.layoutFor(cmd, args[0], &f, noCache)
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewInspectModel(l), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the cache")
	addLayoutFlags(cmd, &f)
	return cmd
}

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	tabActiveStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactiveStyle  = lipgloss.NewStyle().Foreground(colorGray)
)

// inspectTab selects the list shown by the inspect model.
type inspectTab int

const (
	tabAtoms inspectTab = iota
	tabRings
)

// =============================================================================
// InspectModel - Interactive atom and ring browser
// =============================================================================

// InspectModel is the bubbletea model of the inspect command.
type InspectModel struct {
	Layout graph.Layout
	Tab    inspectTab
	Cursor int
	Offset int
	Height int

	neighbours map[int][]int
}

// NewInspectModel creates a browser over l.
func NewInspectModel(l graph.Layout) InspectModel {
	nb := make(map[int][]int, len(l.Atoms))
	for _, b := range l.Bonds {
		nb[b.From] = append(nb[b.From], b.To)
		nb[b.To] = append(nb[b.To], b.From)
	}
	return InspectModel{Layout: l, Height: 12, neighbours: nb}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) len() int {
	if m.Tab == tabRings {
		return len(m.Layout.Rings)
	}
	return len(m.Layout.Atoms)
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "left", "right", "h", "l":
			if m.Tab == tabAtoms && len(m.Layout.Rings) > 0 {
				m.Tab = tabRings
			} else {
				m.Tab = tabAtoms
			}
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.len()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(m.len()-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	title := m.Layout.Formula
	if m.Layout.Name != "" {
		title = m.Layout.Name + "  " + title
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.Layout.SMILES))
	b.WriteString("\n")

	atoms := fmt.Sprintf("Atoms (%d)", len(m.Layout.Atoms))
	rings := fmt.Sprintf("Rings (%d)", len(m.Layout.Rings))
	if m.Tab == tabAtoms {
		b.WriteString(tabActiveStyle.Render(atoms) + "  " + tabInactiveStyle.Render(rings))
	} else {
		b.WriteString(tabInactiveStyle.Render(atoms) + "  " + tabActiveStyle.Render(rings))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab switch  q quit"))
	b.WriteString("\n\n")

	if m.Tab == tabRings {
		b.WriteString(m.ringList())
	} else {
		b.WriteString(m.atomList())
	}
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, m.len()), m.len())))
	return b.String()
}

func (m InspectModel) window() (int, int) {
	end := min(m.Offset+m.Height, m.len())
	return m.Offset, end
}

func (m InspectModel) atomList() string {
	start, end := m.window()
	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		a := m.Layout.Atoms[i]
		rows = append(rows, []string{
			cursorMark(i == m.Cursor),
			strconv.Itoa(a.ID),
			a.Element,
			strconv.Itoa(len(m.neighbours[a.ID])),
			signed(a.Charge),
			strconv.Itoa(a.HCount),
			fmt.Sprintf("%.1f, %.1f", a.X, a.Y),
		})
	}
	return m.table(rows, start, "", "Id", "Element", "Degree", "Charge", "H", "Position")
}

func (m InspectModel) ringList() string {
	start, end := m.window()
	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		r := m.Layout.Rings[i]
		rows = append(rows, []string{
			cursorMark(i == m.Cursor),
			strconv.Itoa(r.ID),
			strconv.Itoa(len(r.Members)),
			r.Class(),
			strconv.FormatBool(r.Aromatic),
		})
	}
	return m.table(rows, start, "", "Id", "Size", "Class", "Aromatic")
}

func (m InspectModel) table(rows [][]string, start int, headers ...string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if start+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// detail describes the selected atom or ring.
func (m InspectModel) detail() string {
	if m.len() == 0 {
		return listDimStyle.Render("  nothing to show")
	}
	if m.Tab == tabRings {
		r := m.Layout.Rings[m.Cursor]
		return fmt.Sprintf("  %s %s  %s",
			StyleTitle.Render(fmt.Sprintf("Ring %d", r.ID)),
			ringMembers(m.Layout, r),
			listDimStyle.Render(fmt.Sprintf("center %.1f, %.1f", r.X, r.Y)))
	}

	a := m.Layout.Atoms[m.Cursor]
	var nb []string
	for _, id := range m.neighbours[a.ID] {
		if n, ok := m.Layout.Atom(id); ok {
			nb = append(nb, renderElement(n.Element)+strconv.Itoa(id))
		}
	}
	line := fmt.Sprintf("  %s  bonded to %s", renderElement(a.Element)+strconv.Itoa(a.ID), strings.Join(nb, " "))
	if len(a.Rings) > 0 {
		ids := make([]string, len(a.Rings))
		for i, r := range a.Rings {
			ids[i] = strconv.Itoa(r)
		}
		line += listDimStyle.Render("  rings " + strings.Join(ids, ","))
	}
	return line
}

func cursorMark(on bool) string {
	if on {
		return "▸"
	}
	return " "
}

func signed(n int) string {
	switch {
	case n > 0:
		return "+" + strconv.Itoa(n)
	case n < 0:
		return strconv.Itoa(n)
	}
	return ""
}
