package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stackplan/stackplan/pkg/advisor"
	"github.com/stackplan/stackplan/pkg/cache"
	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/errors"
	"github.com/stackplan/stackplan/pkg/manifest"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

const validManifest = `{
  "regions": ["eu-west-1", "us-east-1"],
  "ha_mode": "active-active",
  "services": [
    {"kind": "web_app"},
    {"kind": "sql_database"}
  ]
}`

const invalidManifest = `{
  "regions": [],
  "services": [{"kind": "web_app"}]
}`

func testRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, quietLogger())
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestExecuteFullPipeline(t *testing.T) {
	r := testRunner(t)

	result, err := r.Execute(context.Background(), Options{
		ManifestData: []byte(validManifest),
		Formats:      []string{FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(result.ValidationErrors) != 0 {
		t.Fatalf("unexpected validation errors: %v", result.ValidationErrors)
	}
	if result.Graph == nil {
		t.Fatal("Graph should be set")
	}
	if result.Pattern != "ha-multiregion" {
		t.Errorf("Pattern = %q", result.Pattern)
	}
	if result.GraphHash == "" {
		t.Error("GraphHash should be set")
	}
	if len(result.Artifacts[FormatDOT]) == 0 {
		t.Error("dot artifact missing")
	}
	if len(result.Artifacts[FormatJSON]) == 0 {
		t.Error("json artifact missing")
	}
	if result.Stats.NodeCount == 0 || result.Stats.EdgeCount == 0 {
		t.Errorf("Stats = %+v, want populated counts", result.Stats)
	}
	// web_app and sql_database pull in their required dependencies.
	if result.Stats.IntentCount <= 2 {
		t.Errorf("IntentCount = %d, want expanded beyond the declared two", result.Stats.IntentCount)
	}
}

func TestExecuteStopsOnValidationFindings(t *testing.T) {
	r := testRunner(t)

	result, err := r.Execute(context.Background(), Options{
		ManifestData: []byte(invalidManifest),
		Formats:      []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("validation findings must not be an error: %v", err)
	}
	if len(result.ValidationErrors) == 0 {
		t.Fatal("expected validation findings for empty regions")
	}
	if result.Graph != nil {
		t.Error("Graph should be nil when validation fails")
	}
	if len(result.Artifacts) != 0 {
		t.Error("no artifacts should be rendered when validation fails")
	}
}

func TestExecuteGraphCache(t *testing.T) {
	r := testRunner(t)

	first, err := r.Execute(context.Background(), Options{
		ManifestData: []byte(validManifest),
		Formats:      []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.GraphHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}

	second, err := r.Execute(context.Background(), Options{
		ManifestData: []byte(validManifest),
		Formats:      []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.GraphHit {
		t.Error("second run should hit the graph cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if second.GraphHash != first.GraphHash {
		t.Error("cached graph must hash identically")
	}
}

func TestExecuteRefreshBypassesCache(t *testing.T) {
	r := testRunner(t)

	if _, err := r.Execute(context.Background(), Options{
		ManifestData: []byte(validManifest),
		Formats:      []string{FormatDOT},
	}); err != nil {
		t.Fatalf("warm-up Execute: %v", err)
	}

	refreshed, err := r.Execute(context.Background(), Options{
		ManifestData: []byte(validManifest),
		Formats:      []string{FormatDOT},
		Refresh:      true,
	})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if refreshed.CacheInfo.GraphHit || refreshed.CacheInfo.RenderHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestExecuteUnknownPattern(t *testing.T) {
	r := testRunner(t)

	_, err := r.Execute(context.Background(), Options{
		ManifestData: []byte(validManifest),
		Pattern:      "hub-and-spoke",
	})
	if !errors.Is(err, errors.ErrCodePatternNotFound) {
		t.Errorf("err = %v, want pattern-not-found", err)
	}
}

func TestExecuteInvalidFormat(t *testing.T) {
	r := testRunner(t)

	_, err := r.Execute(context.Background(), Options{
		ManifestData: []byte(validManifest),
		Formats:      []string{"pdf"},
	})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want invalid-format", err)
	}
}

func TestExecuteRequiresManifest(t *testing.T) {
	r := testRunner(t)

	_, err := r.Execute(context.Background(), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("err = %v, want invalid-manifest", err)
	}
}

func TestExecuteLoadsManifestFromFile(t *testing.T) {
	r := testRunner(t)

	path := filepath.Join(t.TempDir(), "app.yaml")
	yaml := "regions:\n  - eu-west-1\nservices:\n  - kind: web_app\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	result, err := r.Execute(context.Background(), Options{
		ManifestPath: path,
		Formats:      []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Graph == nil {
		t.Fatal("Graph should be set")
	}
}

// brokenAdvisor always fails; the pipeline must behave as if no
// advisor were configured.
type brokenAdvisor struct{}

func (brokenAdvisor) RecommendPattern(context.Context, manifest.Requirements) (string, error) {
	panic("advisor exploded")
}

func (brokenAdvisor) InferDependencies(context.Context, []manifest.ServiceIntent) ([]manifest.ServiceIntent, error) {
	panic("advisor exploded")
}

func (brokenAdvisor) SuggestGrouping(context.Context, []manifest.ServiceIntent, manifest.Requirements) (map[catalog.Group][]manifest.ServiceIntent, error) {
	panic("advisor exploded")
}

func TestExecuteWithFailingAdvisorMatchesNoAdvisor(t *testing.T) {
	ctx := context.Background()

	plain, err := testRunner(t).Execute(ctx, Options{
		ManifestData: []byte(validManifest),
		Formats:      []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute without advisor: %v", err)
	}

	advised, err := testRunner(t).Execute(ctx, Options{
		ManifestData:   []byte(validManifest),
		Formats:        []string{FormatDOT},
		Advisor:        brokenAdvisor{},
		AdvisorTimeout: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Execute with failing advisor: %v", err)
	}

	if string(advised.Artifacts[FormatDOT]) != string(plain.Artifacts[FormatDOT]) {
		t.Error("failing advisor must produce the same output as no advisor")
	}
}

func TestExecuteWithHeuristicAdvisor(t *testing.T) {
	r := testRunner(t)

	result, err := r.Execute(context.Background(), Options{
		ManifestData: []byte(validManifest),
		Formats:      []string{FormatJSON},
		Advisor:      advisor.Heuristic{},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	found := false
	for _, intent := range result.Intents {
		if intent.Kind == catalog.KindKeyVault {
			found = true
		}
	}
	if !found {
		t.Error("heuristic advisor should add a key vault for the database")
	}
}

func TestValidateAndSetDefaultsIsIdempotent(t *testing.T) {
	opts := Options{ManifestData: []byte(validManifest)}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want svg default", opts.Formats)
	}
	if opts.Format != manifest.FormatJSON {
		t.Errorf("Format = %q, want json default for inline data", opts.Format)
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second call: %v", err)
	}
}
