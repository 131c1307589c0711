package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/smilesdraw/pkg/cache"
	apperrors "github.com/matzehuels/smilesdraw/pkg/errors"
	"github.com/matzehuels/smilesdraw/pkg/graph"
	smilesio "github.com/matzehuels/smilesdraw/pkg/io"
	"github.com/matzehuels/smilesdraw/pkg/layout"
)

// memCache is an in-memory cache that counts calls.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	sets int
	err  error
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.err != nil {
		return nil, false, c.err
	}
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.err != nil {
		return c.err
	}
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func (c *memCache) keys(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode apperrors.Code
	}{
		{"Valid", Options{SMILES: "CCO"}, ""},
		{"EmptySMILES", Options{}, apperrors.ErrCodeInvalidSMILES},
		{"TooLong", Options{SMILES: strings.Repeat("C", apperrors.MaxSMILESLength+1)}, apperrors.ErrCodeInvalidSMILES},
		{"BadFormat", Options{SMILES: "C", Formats: []string{"gif"}}, apperrors.ErrCodeInvalidFormat},
		{"BadTheme", Options{SMILES: "C", Theme: "neon"}, apperrors.ErrCodeInvalidTheme},
		{"BadLayout", Options{SMILES: "C", Layout: &layout.Options{}}, apperrors.ErrCodeInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("ValidateAndSetDefaults() error = %v", err)
				}
				return
			}
			if got := apperrors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %v, want %v (err %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{SMILES: "C"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Layout == nil || *opts.Layout != layout.DefaultOptions() {
		t.Errorf("Layout = %+v, want defaults", opts.Layout)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != graph.FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Theme != DefaultTheme || opts.Scale != DefaultScale {
		t.Errorf("Theme = %q Scale = %v", opts.Theme, opts.Scale)
	}

	// Idempotent: a second call must not reset anything.
	opts.Theme = "dark"
	if err := opts.ValidateAndSetDefaults(); err != nil || opts.Theme != "dark" {
		t.Errorf("second call changed options: %v %q", err, opts.Theme)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Theme: "dark", Scale: 3, Graphviz: true}
	if k := opts.ArtifactKeyOpts(graph.FormatPNG); k.Scale != 3 || k.Graphviz {
		t.Errorf("png key = %+v", k)
	}
	if k := opts.ArtifactKeyOpts(graph.FormatSVG); k.Scale != 0 || !k.Graphviz {
		t.Errorf("svg key = %+v", k)
	}
	if k := opts.ArtifactKeyOpts(graph.FormatJSON); k.Theme != "dark" || k.Format != graph.FormatJSON {
		t.Errorf("json key = %+v", k)
	}
}

func TestParseInvalidSMILES(t *testing.T) {
	_, err := Parse(context.Background(), Options{SMILES: "C1CC"})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidSMILES) {
		t.Fatalf("err = %v, want INVALID_SMILES", err)
	}
	if !strings.Contains(err.Error(), "position") {
		t.Errorf("err = %q, want position", err)
	}
}

func TestGenerateLayout(t *testing.T) {
	l, err := GenerateLayout(context.Background(), Options{SMILES: "c1ccccc1O", Name: "phenol"})
	if err != nil {
		t.Fatalf("GenerateLayout() error: %v", err)
	}
	if l.Name != "phenol" || l.Formula != "C6H6O" {
		t.Errorf("Name = %q Formula = %q", l.Name, l.Formula)
	}
	if len(l.Atoms) != 7 || len(l.Rings) != 1 {
		t.Errorf("atoms = %d rings = %d, want 7 1", len(l.Atoms), len(l.Rings))
	}
}

func TestGenerateLayoutCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GenerateLayout(ctx, Options{SMILES: "CCO"})
	if !apperrors.Is(err, apperrors.ErrCodeCanceled) {
		t.Errorf("err = %v, want CANCELED", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want to wrap context.Canceled", err)
	}
}

func TestRenderFromLayout(t *testing.T) {
	ctx := context.Background()
	l, err := GenerateLayout(ctx, Options{SMILES: "CCO"})
	if err != nil {
		t.Fatal(err)
	}
	out, err := RenderFromLayout(ctx, l, Options{Formats: []string{"svg", "json", "dot"}})
	if err != nil {
		t.Fatalf("RenderFromLayout() error: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("artifacts = %d, want 3", len(out))
	}
	if !strings.HasPrefix(string(out["svg"]), "<svg") {
		t.Errorf("svg artifact does not start with <svg")
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	opts := Options{SMILES: "CC(=O)O", Name: "acetic acid", Formats: []string{"svg", "png"}}
	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if first.Stats.Atoms != 4 || first.Stats.Bonds != 3 {
		t.Errorf("Stats = %+v", first.Stats)
	}
	if first.LayoutHash == "" || len(first.Artifacts) != 2 {
		t.Errorf("hash = %q artifacts = %d", first.LayoutHash, len(first.Artifacts))
	}
	if n := c.keys("layout:"); n != 1 {
		t.Errorf("layout entries = %d, want 1", n)
	}
	if n := c.keys("artifact:"); n != 2 {
		t.Errorf("artifact entries = %d, want 2", n)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if second.Layout.Name != "acetic acid" {
		t.Errorf("cached layout name = %q", second.Layout.Name)
	}
	if second.LayoutHash != first.LayoutHash {
		t.Error("layout hash changed between runs")
	}
	if string(second.Artifacts["svg"]) != string(first.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}
}

func TestRunnerPartialRenderHit(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)

	if _, err := r.Execute(ctx, Options{SMILES: "CCN", Formats: []string{"svg"}}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{SMILES: "CCN", Formats: []string{"svg", "json"}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want layout hit and render miss", res.CacheInfo)
	}
	if len(res.Artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(res.Artifacts))
	}
}

func TestRunnerRefresh(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)
	if _, err := r.Execute(ctx, Options{SMILES: "CCO"}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{SMILES: "CCO", Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want misses with Refresh", res.CacheInfo)
	}
}

func TestRunnerCacheErrors(t *testing.T) {
	c := newMemCache()
	c.err = errors.New("backend down")
	r := NewRunner(c, nil, nil)

	res, err := r.Execute(context.Background(), Options{SMILES: "CCO"})
	if err != nil {
		t.Fatalf("cache errors should not fail the run: %v", err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("unexpected layout hit")
	}
}

func TestRunnerLayoutOptionsChangeKey(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	long := layout.DefaultOptions()
	long.BondLength = 40
	long.BondSpacing = 0.17 * 40

	if _, _, err := r.ParseAndLayout(ctx, Options{SMILES: "CCO"}); err != nil {
		t.Fatal(err)
	}
	l, hit, err := r.ParseAndLayout(ctx, Options{SMILES: "CCO", Layout: &long})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("different layout options should miss")
	}
	if l.BondLength != 40 {
		t.Errorf("BondLength = %v, want 40", l.BondLength)
	}
	if n := c.keys("layout:"); n != 2 {
		t.Errorf("layout entries = %d, want 2", n)
	}
}

func TestRunnerStoredRender(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)

	s := StoredRender{ID: "abc", SMILES: "C", Formula: "CH4", Artifacts: map[string][]byte{"svg": []byte("<svg/>")}}
	if err := r.StoreRender(ctx, s); err != nil {
		t.Fatalf("StoreRender() error: %v", err)
	}
	got, err := r.LoadRender(ctx, "abc")
	if err != nil {
		t.Fatalf("LoadRender() error: %v", err)
	}
	if got.Formula != "CH4" || string(got.Artifacts["svg"]) != "<svg/>" {
		t.Errorf("LoadRender() = %+v", got)
	}

	if _, err := r.LoadRender(ctx, "missing"); !apperrors.Is(err, apperrors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestRunnerNullCache(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, ok := r.Cache.(*cache.NullCache); !ok {
		t.Errorf("Cache = %T, want *cache.NullCache", r.Cache)
	}
	res, err := r.Execute(context.Background(), Options{SMILES: "N#N"})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("null cache should never hit")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestExecuteBatch(t *testing.T) {
	entries := []smilesio.Entry{
		{SMILES: "CCO", Name: "ethanol", Line: 1},
		{SMILES: "C1CC", Name: "broken", Line: 2},
		{SMILES: "c1ccccc1", Name: "benzene", Line: 3},
	}
	r := NewRunner(newMemCache(), nil, nil)

	var mu sync.Mutex
	seen := 0
	items, err := r.ExecuteBatch(context.Background(), entries, Options{Formats: []string{"svg"}}, 2, func(BatchItem) {
		mu.Lock()
		seen++
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("ExecuteBatch() error: %v", err)
	}
	if seen != 3 || len(items) != 3 {
		t.Fatalf("seen = %d items = %d, want 3 3", seen, len(items))
	}
	if items[0].Err != nil || items[0].Result.Layout.Name != "ethanol" {
		t.Errorf("item 0 = %+v", items[0])
	}
	if !apperrors.Is(items[1].Err, apperrors.ErrCodeInvalidSMILES) {
		t.Errorf("item 1 err = %v, want INVALID_SMILES", items[1].Err)
	}
	if items[2].Err != nil || items[2].Result.Stats.Rings != 1 {
		t.Errorf("item 2 = %+v", items[2])
	}
}

func TestDescribe(t *testing.T) {
	l, err := GenerateLayout(context.Background(), Options{SMILES: "c1ccc2ccccc2c1"})
	if err != nil {
		t.Fatal(err)
	}
	info := Describe(l)
	if info.Formula != "C10H8" || info.HeavyAtoms != 10 || info.Rings != 2 {
		t.Errorf("Describe() = %+v", info)
	}
	if info.RingClasses["fused"] != 2 || info.Aromatic != 2 || info.Bridged {
		t.Errorf("ring summary = %+v", info)
	}

	// Metadata survives a JSON round trip as float64.
	data, _ := graph.MarshalLayout(l)
	back, _ := graph.UnmarshalLayout(data)
	if got := Describe(back).OverlapScore; got != info.OverlapScore {
		t.Errorf("OverlapScore after round trip = %v, want %v", got, info.OverlapScore)
	}
}
