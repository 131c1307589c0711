package render

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DefaultTheme is used when no theme is named.
const DefaultTheme = "light"

// ErrUnknownTheme is returned by LookupTheme for names without a palette.
var ErrUnknownTheme = errors.New("render: unknown theme")

// Theme is a named palette keyed by upper-case element symbol plus
// BACKGROUND.
type Theme struct {
	Name   string
	Colors map[string]string
}

// Color returns the color of an element. Unknown elements use the carbon
// color.
func (t Theme) Color(element string) string {
	if c, ok := t.Colors[strings.ToUpper(element)]; ok {
		return c
	}
	return t.Colors["C"]
}

// Background returns the background color.
func (t Theme) Background() string { return t.Colors["BACKGROUND"] }

// LookupTheme returns the theme with the given name. An empty name selects
// DefaultTheme.
func LookupTheme(name string) (Theme, error) {
	if name == "" {
		name = DefaultTheme
	}
	colors, ok := palettes[name]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return Theme{Name: name, Colors: colors}, nil
}

// ThemeNames returns the names of all themes, sorted.
func ThemeNames() []string {
	return slices.Sorted(maps.Keys(palettes))
}

// palette builds a theme from the colors of C, O, N, F, CL, BR, I, P, S, B,
// SI, H and the background, in that order.
func palette(c ...string) map[string]string {
	keys := []string{"C", "O", "N", "F", "CL", "BR", "I", "P", "S", "B", "SI", "H", "BACKGROUND"}
	m := make(map[string]string, len(keys))
	for i, k := range keys {
		m[k] = c[i]
	}
	return m
}

var palettes = map[string]map[string]string{
	"dark": palette("#fff", "#e74c3c", "#3498db", "#27ae60", "#16a085", "#d35400",
		"#8e44ad", "#d35400", "#f1c40f", "#e67e22", "#e67e22", "#aaa", "#141414"),
	"light": palette("#222", "#e74c3c", "#3498db", "#27ae60", "#16a085", "#d35400",
		"#8e44ad", "#d35400", "#f1c40f", "#e67e22", "#e67e22", "#666", "#fff"),
	"oldschool": palette("#000", "#000", "#000", "#000", "#000", "#000",
		"#000", "#000", "#000", "#000", "#000", "#000", "#fff"),
	"solarized": palette("#586e75", "#dc322f", "#268bd2", "#859900", "#16a085", "#cb4b16",
		"#6c71c4", "#d33682", "#b58900", "#2aa198", "#2aa198", "#657b83", "#fff"),
	"solarized-dark": palette("#93a1a1", "#dc322f", "#268bd2", "#859900", "#16a085", "#cb4b16",
		"#6c71c4", "#d33682", "#b58900", "#2aa198", "#2aa198", "#839496", "#fff"),
	"matrix": palette("#678c61", "#2fc079", "#4f7e7e", "#90d762", "#82d967", "#23755a",
		"#409931", "#c1ff8a", "#faff00", "#50b45a", "#409931", "#426644", "#fff"),
	"github": palette("#24292f", "#cf222e", "#0969da", "#2da44e", "#6fdd8b", "#bc4c00",
		"#8250df", "#bf3989", "#d4a72c", "#fb8f44", "#bc4c00", "#57606a", "#fff"),
	"carbon": palette("#161616", "#da1e28", "#0f62fe", "#198038", "#007d79", "#fa4d56",
		"#8a3ffc", "#ff832b", "#f1c21b", "#8a3800", "#e67e22", "#525252", "#fff"),
	"cyberpunk": palette("#ea00d9", "#ff3131", "#0abdc6", "#00ff9f", "#00fe00", "#fe9f20",
		"#ff00ff", "#fe7f00", "#fcee0c", "#ff00ff", "#ffffff", "#913cb1", "#fff"),
	"gruvbox": palette("#665c54", "#cc241d", "#458588", "#98971a", "#79740e", "#d65d0e",
		"#b16286", "#af3a03", "#d79921", "#689d6a", "#427b58", "#7c6f64", "#fbf1c7"),
	"gruvbox-dark": palette("#ebdbb2", "#cc241d", "#458588", "#98971a", "#b8bb26", "#d65d0e",
		"#b16286", "#fe8019", "#d79921", "#8ec07c", "#83a598", "#bdae93", "#282828"),
}
