package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	smilesio "github.com/matzehuels/smilesdraw/pkg/io"
	"github.com/matzehuels/smilesdraw/pkg/pipeline"
)

// execute runs the root command with isolated config and cache
// directories and returns what the command wrote to its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	old := statusOut
	statusOut = io.Discard
	t.Cleanup(func() { statusOut = old })

	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg,png", []string{"svg", "png"}},
		{" svg , json ,", []string{"svg", "json"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name, output, mol, want string
	}{
		{"defaults to molecule", "", "", "molecule"},
		{"uses name", "", "aspirin", "aspirin"},
		{"strips format extension", "out/benzene.svg", "", "out/benzene"},
		{"strips graphviz extension", "ring.gv", "", "ring"},
		{"keeps unknown extension", "v1.2", "", "v1.2"},
		{"output wins over name", "x", "aspirin", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.mol); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.mol, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		mol     string
		formats []string
		want    []outputPath
	}{
		{"single exact", "drawing.image", "", []string{"png"}, []outputPath{{"png", "drawing.image"}}},
		{"single by name", "", "aspirin", []string{"svg"}, []outputPath{{"svg", "aspirin.svg"}}},
		{"several", "out/benzene.svg", "", []string{"svg", "png", "dot"}, []outputPath{
			{"svg", "out/benzene.svg"}, {"png", "out/benzene.png"}, {"dot", "out/benzene.gv"},
		}},
		{"adjacent duplicates collapse", "", "", []string{"svg", "svg"}, []outputPath{{"svg", "molecule.svg"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPaths(tt.output, tt.mol, tt.formats); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntryBaseName(t *testing.T) {
	tests := []struct {
		entry smilesio.Entry
		want  string
	}{
		{smilesio.Entry{SMILES: "CCO", Name: "ethanol", Line: 3}, "ethanol"},
		{smilesio.Entry{SMILES: "CCO", Line: 12}, "line-0012"},
		{smilesio.Entry{SMILES: "CCO", Name: "../escape", Line: 7}, "line-0007"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := entryBaseName(tt.entry); got != tt.want {
				t.Errorf("entryBaseName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayAddr(t *testing.T) {
	if got := displayAddr(":8080"); got != "localhost:8080" {
		t.Errorf("displayAddr(:8080) = %q", got)
	}
	if got := displayAddr("0.0.0.0:9000"); got != "0.0.0.0:9000" {
		t.Errorf("displayAddr(0.0.0.0:9000) = %q", got)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "benzene")

	if _, err := execute(t, "render", "c1ccccc1", "--no-cache", "-f", "svg,json", "-o", base); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("svg output does not contain an <svg> element")
	}

	data, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var l struct {
		Formula string `json:"formula"`
	}
	if err := json.Unmarshal(data, &l); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if l.Formula != "C6H6" {
		t.Errorf("formula = %q, want C6H6", l.Formula)
	}
}

func TestRenderCommandStdout(t *testing.T) {
	out, err := execute(t, "render", "CCO", "--no-cache", "-f", "svg", "-o", "-")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<svg") {
		t.Errorf("stdout does not contain an <svg> element")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad smiles", []string{"render", "C1CC", "--no-cache", "-o", "-"}},
		{"unknown format", []string{"render", "CCO", "--no-cache", "-f", "bmp", "-o", "-"}},
		{"unknown theme", []string{"render", "CCO", "--no-cache", "--theme", "neon", "-o", "-"}},
		{"stdout with several formats", []string{"render", "CCO", "--no-cache", "-f", "svg,png", "-o", "-"}},
		{"bad name", []string{"render", "CCO", "--no-cache", "--name", "a/b"}},
		{"bad bond length", []string{"render", "CCO", "--no-cache", "--bond-length", "-1", "-o", "-"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestInfoCommand(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "info", "c1ccc2ccccc2c1", "--no-cache", "-o", "json")
		if err != nil {
			t.Fatalf("info: %v", err)
		}
		var info pipeline.Info
		if err := json.Unmarshal([]byte(out), &info); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if info.Formula != "C10H8" || info.Rings != 2 {
			t.Errorf("got formula %s with %d rings, want C10H8 with 2", info.Formula, info.Rings)
		}
		if info.RingClasses["fused"] != 2 {
			t.Errorf("ring classes = %v, want 2 fused", info.RingClasses)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := execute(t, "info", "CCO", "--no-cache", "--name", "ethanol", "-o", "yaml")
		if err != nil {
			t.Fatalf("info: %v", err)
		}
		var info pipeline.Info
		if err := yaml.Unmarshal([]byte(out), &info); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if info.Name != "ethanol" || info.Formula != "C2H6O" {
			t.Errorf("got %s %s, want ethanol C2H6O", info.Name, info.Formula)
		}
	})

	t.Run("text", func(t *testing.T) {
		out, err := execute(t, "info", "CCO", "--no-cache")
		if err != nil {
			t.Fatalf("info: %v", err)
		}
		if !strings.Contains(out, "C2H6O") || !strings.Contains(out, "Heavy atoms") {
			t.Errorf("unexpected text output:\n%s", out)
		}
	})

	t.Run("unknown output", func(t *testing.T) {
		if _, err := execute(t, "info", "CCO", "--no-cache", "-o", "xml"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestRingsCommand(t *testing.T) {
	out, err := execute(t, "rings", "C1CCC2(CC1)CCCC2", "--no-cache")
	if err != nil {
		t.Fatalf("rings: %v", err)
	}
	if !strings.Contains(out, "spiro") {
		t.Errorf("rings table does not mention spiro:\n%s", out)
	}
}

func TestRingSummary(t *testing.T) {
	info := pipeline.Info{Rings: 3, RingClasses: map[string]int{"fused": 2, "isolated": 1}, Aromatic: 3}
	want := "3 (1 isolated, 2 fused), 3 aromatic"
	if got := ringSummary(info); got != want {
		t.Errorf("ringSummary() = %q, want %q", got, want)
	}
	if got := ringSummary(pipeline.Info{}); got != "0" {
		t.Errorf("ringSummary(empty) = %q, want 0", got)
	}
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.smi")
	content := "# test molecules\nc1ccccc1 benzene\n\nCCO\nC1CC broken\n"
	if err := os.WriteFile(input, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "out")
	summary := filepath.Join(dir, "summary.yaml")

	_, err := execute(t, "batch", input, "--no-cache", "-d", outDir, "--summary", summary, "-w", "2")
	if err == nil || !strings.Contains(err.Error(), "1 of 3") {
		t.Fatalf("batch error = %v, want one failure of three", err)
	}

	for _, name := range []string{"benzene.svg", "line-0004.svg"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(summary)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var s batchSummary
	if err := yaml.Unmarshal(data, &s); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if s.Total != 3 || s.Failed != 1 || len(s.Entries) != 3 {
		t.Fatalf("summary = %+v", s)
	}
	if s.Entries[0].Formula != "C6H6" {
		t.Errorf("first entry formula = %q, want C6H6", s.Entries[0].Formula)
	}
	if s.Entries[2].Error == "" || s.Entries[2].Line != 5 {
		t.Errorf("last entry = %+v, want an error on line 5", s.Entries[2])
	}
}

func TestCachePathCommand(t *testing.T) {
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), "smilesdraw"); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	if _, err := execute(t, "render", "CCO", "-o", filepath.Join(t.TempDir(), "e.svg")); err != nil {
		t.Fatalf("render: %v", err)
	}
	dir := filepath.Join(os.Getenv("XDG_CACHE_HOME"), "smilesdraw")
	before, _ := os.ReadDir(dir)
	if len(before) == 0 {
		t.Fatalf("render left no cache entries in %s", dir)
	}

	// execute resets XDG_CACHE_HOME, so point the config at the same directory.
	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[cache]\ndir = "+strconvQuote(dir)+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", cfgPath, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	after, _ := os.ReadDir(dir)
	if len(after) != 0 {
		t.Errorf("cache still holds %d entries", len(after))
	}
}

func strconvQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestInspectModel(t *testing.T) {
	l, err := pipeline.GenerateLayout(context.Background(), pipeline.Options{SMILES: "c1ccc2ccccc2c1"})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	key := func(s string) tea.KeyMsg {
		switch s {
		case "down":
			return tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			return tea.KeyMsg{Type: tea.KeyUp}
		case "tab":
			return tea.KeyMsg{Type: tea.KeyTab}
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	update := func(m InspectModel, k string) InspectModel {
		next, _ := m.Update(key(k))
		return next.(InspectModel)
	}

	m := NewInspectModel(l)
	if !strings.Contains(m.View(), "C10H8") {
		t.Errorf("view does not show the formula")
	}

	m = update(m, "up")
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the first atom: %d", m.Cursor)
	}
	m = update(update(m, "down"), "j")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.Cursor)
	}
	m = update(m, "G")
	if m.Cursor != len(l.Atoms)-1 {
		t.Errorf("cursor = %d, want last atom %d", m.Cursor, len(l.Atoms)-1)
	}

	m = update(m, "tab")
	if m.Tab != tabRings || m.Cursor != 0 {
		t.Fatalf("tab switch: tab=%d cursor=%d", m.Tab, m.Cursor)
	}
	if !strings.Contains(m.View(), "fused") {
		t.Errorf("ring view does not show the ring class")
	}
	m = update(update(update(m, "down"), "down"), "down")
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want 1 (two rings)", m.Cursor)
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestInspectModelScrolls(t *testing.T) {
	l, err := pipeline.GenerateLayout(context.Background(), pipeline.Options{SMILES: "CCCCCCCCCCCCCCCCCCCC"})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	m := NewInspectModel(l)
	m.Height = 5
	for i := 0; i < 7; i++ {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(InspectModel)
	}
	if m.Cursor != 7 || m.Offset != 3 {
		t.Errorf("cursor=%d offset=%d, want 7 and 3", m.Cursor, m.Offset)
	}
}

func TestRingsCommandRaw(t *testing.T) {
	out, err := execute(t, "rings", "c1ccc2ccccc2c1", "--raw")
	if err != nil {
		t.Fatalf("rings --raw: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d ring records, want 2:\n%s", len(lines), out)
	}
	for _, line := range lines {
		if fields := strings.Split(line, ";"); len(fields) != 8 || fields[1] != "6" || fields[4] != "true" {
			t.Errorf("record %q, want a fused ring of size 6", line)
		}
	}
}

func TestRenderFromJSON(t *testing.T) {
	dir := t.TempDir()
	layoutPath := filepath.Join(dir, "phenol.json")
	if _, err := execute(t, "render", "Oc1ccccc1", "--no-cache", "--name", "phenol", "-f", "json", "-o", layoutPath); err != nil {
		t.Fatalf("render json: %v", err)
	}

	out, err := execute(t, "render", "--from-json", layoutPath, "-f", "dot", "-o", "-")
	if err != nil {
		t.Fatalf("render --from-json: %v", err)
	}
	if !strings.Contains(out, "graph") {
		t.Errorf("dot output does not declare a graph:\n%s", out)
	}

	if _, err := execute(t, "render", "CCO", "--from-json", layoutPath); err == nil {
		t.Error("expected an error for a SMILES argument with --from-json")
	}
	if _, err := execute(t, "render", "--from-json", filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected an error for a missing layout file")
	}
}

func TestBatchCommandFailedFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.smi")
	if err := os.WriteFile(input, []byte("CCO ethanol\nC1CC broken\nC(C ok\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	failed := filepath.Join(dir, "failed.smi")

	_, err := execute(t, "batch", input, "--no-cache", "-d", filepath.Join(dir, "out"), "--summary", filepath.Join(dir, "s.yaml"), "--failed", failed)
	if err == nil {
		t.Fatal("expected the batch to report failures")
	}

	entries, err := smilesio.ReadSMILESFile(failed)
	if err != nil {
		t.Fatalf("read failed file: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "broken" || entries[1].SMILES != "C(C" {
		t.Errorf("failed entries = %+v", entries)
	}
}
