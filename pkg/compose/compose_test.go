package compose

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/errors"
	"github.com/stackplan/stackplan/pkg/layout"
	"github.com/stackplan/stackplan/pkg/manifest"
	"github.com/stackplan/stackplan/pkg/resolve"
)

// expand resolves intents quietly for composition tests.
func expand(t *testing.T, intents []manifest.ServiceIntent) []manifest.ServiceIntent {
	t.Helper()
	opts := resolve.DefaultOptions()
	opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	out, err := resolve.Expand(context.Background(), intents, opts)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	return out
}

func activeActiveRequirements() manifest.Requirements {
	return manifest.Requirements{
		Regions: []string{"r1", "r2"},
		HAMode:  manifest.HAActiveActive,
		Services: []manifest.ServiceIntent{
			{Kind: catalog.KindWebApp},
			{Kind: catalog.KindSQLDatabase},
		},
	}
}

func TestComposeEndToEndExample(t *testing.T) {
	req := activeActiveRequirements()
	intents := expand(t, req.Services)

	g, err := Compose(req, intents, PatternHAMultiRegion)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	// Two compute clusters, one per region, each holding a web_app.
	for _, region := range []string{"r1", "r2"} {
		cluster := "compute-" + region
		if _, ok := g.Clusters[cluster]; !ok {
			t.Fatalf("missing cluster %q", cluster)
		}
		apps := 0
		for _, n := range g.NodesIn(cluster) {
			if n.Kind == catalog.KindWebApp {
				apps++
			}
		}
		if apps != 1 {
			t.Errorf("cluster %q has %d web_app nodes, want 1", cluster, apps)
		}

		data := "data-" + region
		dbs := 0
		for _, n := range g.NodesIn(data) {
			if n.Kind == catalog.KindSQLDatabase {
				dbs++
			}
		}
		if dbs != 1 {
			t.Errorf("cluster %q has %d sql_database nodes, want 1", data, dbs)
		}
	}

	// A labeled data-flow edge from each region's web_app to its database.
	for _, region := range []string{"r1", "r2"} {
		found := false
		for _, e := range g.Edges {
			if e.Source == "web_app-"+region && e.Target == "sql_database-"+region {
				if e.Label == "" {
					t.Errorf("data edge in %s has no label", region)
				}
				if e.Style != layout.StyleSolid {
					t.Errorf("data edge style = %q, want solid", e.Style)
				}
				found = true
			}
		}
		if !found {
			t.Errorf("missing web_app -> sql_database edge in region %s", region)
		}
	}
}

func TestComposeRegionReplication(t *testing.T) {
	req := activeActiveRequirements()
	req.Services = []manifest.ServiceIntent{{Kind: catalog.KindWebApp}}

	g, err := Compose(req, expand(t, req.Services), "")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	apps := g.NodesOfKind(catalog.KindWebApp)
	if len(apps) != 2 {
		t.Fatalf("web_app nodes = %d, want 2", len(apps))
	}
	clusters := map[string]bool{}
	for _, n := range apps {
		clusters[n.Cluster] = true
	}
	if !clusters["compute-r1"] || !clusters["compute-r2"] {
		t.Errorf("web_app clusters = %v, want compute-r1 and compute-r2", clusters)
	}
}

func TestComposeSingleRegion(t *testing.T) {
	req := manifest.Requirements{
		Regions:  []string{"r1"},
		HAMode:   manifest.HASingleRegion,
		Services: []manifest.ServiceIntent{{Kind: catalog.KindWebApp}},
	}

	g, err := Compose(req, expand(t, req.Services), "")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if n := len(g.NodesOfKind(catalog.KindWebApp)); n != 1 {
		t.Errorf("web_app nodes = %d, want 1", n)
	}
	for _, e := range g.Edges {
		if e.Label == "replicates to" {
			t.Error("single-region design must not have replication edges")
		}
	}
}

func TestComposeDeterminism(t *testing.T) {
	req := activeActiveRequirements()
	req.EdgeServices = []string{"cdn"}
	intents := expand(t, req.AllIntents())

	a, err := Compose(req, intents, PatternHAMultiRegion)
	if err != nil {
		t.Fatalf("first Compose: %v", err)
	}
	b, err := Compose(req, intents, PatternHAMultiRegion)
	if err != nil {
		t.Fatalf("second Compose: %v", err)
	}

	if !reflect.DeepEqual(a.Nodes, b.Nodes) {
		t.Error("node lists differ across runs")
	}
	if !reflect.DeepEqual(a.Edges, b.Edges) {
		t.Error("edge lists differ across runs")
	}
	if !reflect.DeepEqual(a.Clusters, b.Clusters) {
		t.Error("clusters differ across runs")
	}
}

func TestComposeStepMonotonicity(t *testing.T) {
	req := activeActiveRequirements()
	req.EdgeServices = []string{"dns", "cdn"}
	intents := expand(t, req.AllIntents())

	g, err := Compose(req, intents, "")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	last := 0
	primary := 0
	for _, e := range g.Edges {
		if e.Step == 0 {
			continue
		}
		primary++
		if e.Step <= last {
			t.Errorf("step %d not strictly increasing after %d", e.Step, last)
		}
		if !strings.HasPrefix(e.Label, fmt.Sprintf("%d.", e.Step)) {
			t.Errorf("primary edge label %q does not carry step %d", e.Label, e.Step)
		}
		last = e.Step
	}
	if primary == 0 {
		t.Fatal("no primary-flow edges synthesized")
	}

	// A fresh run restarts the counter at 1.
	g2, err := Compose(req, intents, "")
	if err != nil {
		t.Fatalf("second Compose: %v", err)
	}
	for _, e := range g2.Edges {
		if e.Step != 0 {
			if e.Step != 1 {
				t.Errorf("first primary step = %d, want 1", e.Step)
			}
			break
		}
	}
}

func TestComposeReferentialIntegrity(t *testing.T) {
	req := activeActiveRequirements()
	req.EdgeServices = []string{"dns", "cdn", "waf"}
	req.IdentityServices = []string{"identity_provider"}
	req.Services = append(req.Services,
		manifest.ServiceIntent{Kind: catalog.KindWorker},
		manifest.ServiceIntent{Kind: catalog.KindCache},
	)

	g, err := Compose(req, expand(t, req.AllIntents()), "")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if err := g.Verify(); err != nil {
		t.Errorf("composed graph fails Verify: %v", err)
	}
}

func TestComposeReplicationEdges(t *testing.T) {
	tests := []struct {
		mode manifest.HAMode
		want bool
	}{
		{manifest.HAActiveActive, true},
		{manifest.HAMultiRegion, true},
		{manifest.HAActivePassive, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			req := activeActiveRequirements()
			req.HAMode = tt.mode

			g, err := Compose(req, expand(t, req.Services), "")
			if err != nil {
				t.Fatalf("Compose: %v", err)
			}

			found := false
			for _, e := range g.Edges {
				if e.Label == "replicates to" {
					found = true
					if e.Style != layout.StyleDashed {
						t.Errorf("replication edge style = %q, want dashed", e.Style)
					}
				}
			}
			if found != tt.want {
				t.Errorf("replication edges present = %v, want %v", found, tt.want)
			}
		})
	}
}

func TestComposeActivePassiveStandby(t *testing.T) {
	req := activeActiveRequirements()
	req.HAMode = manifest.HAActivePassive

	g, err := Compose(req, expand(t, req.Services), "")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	// One active region only: compute lives in r1, not r2.
	if n := len(g.NodesIn("compute-r1")); n == 0 {
		t.Error("active region r1 has no compute nodes")
	}
	if n := len(g.NodesIn("compute-r2")); n != 0 {
		t.Errorf("standby region r2 has %d compute nodes, want 0", n)
	}

	// Data replicates to the standby with a failover edge.
	dbs := g.NodesOfKind(catalog.KindSQLDatabase)
	if len(dbs) != 2 {
		t.Fatalf("sql_database nodes = %d, want 2 (active + standby)", len(dbs))
	}
	found := false
	for _, e := range g.Edges {
		if e.Label == "fails over to" && e.Source == "sql_database-r1" && e.Target == "sql_database-r2" {
			found = true
		}
	}
	if !found {
		t.Error("missing failover edge to standby database")
	}

	// The standby region container is marked.
	region, ok := g.Clusters["region-r2"]
	if !ok {
		t.Fatal("missing standby region cluster")
	}
	if !strings.Contains(region.Label, "standby") {
		t.Errorf("standby region label = %q, want standby marker", region.Label)
	}
}

func TestComposeUnknownKindPlacedNotDropped(t *testing.T) {
	req := activeActiveRequirements()
	req.Services = append(req.Services, manifest.ServiceIntent{Kind: "legacy_mainframe"})

	g, err := Compose(req, expand(t, req.Services), "")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	nodes := g.NodesOfKind("legacy_mainframe")
	if len(nodes) != 1 {
		t.Fatalf("legacy_mainframe nodes = %d, want 1", len(nodes))
	}
	if nodes[0].Cluster != string(catalog.GroupUnassigned) {
		t.Errorf("unknown kind cluster = %q, want %q", nodes[0].Cluster, catalog.GroupUnassigned)
	}
}

func TestComposeUnknownPattern(t *testing.T) {
	req := activeActiveRequirements()
	_, err := Compose(req, req.Services, "escher-tessellation")
	if err == nil {
		t.Fatal("expected pattern error")
	}
	if !errors.Is(err, errors.ErrCodePatternNotFound) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodePatternNotFound)
	}
}

func TestComposeNodesSortedByRank(t *testing.T) {
	req := activeActiveRequirements()
	req.EdgeServices = []string{"dns"}

	g, err := Compose(req, expand(t, req.AllIntents()), "")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	for i := 1; i < len(g.Nodes); i++ {
		if g.Nodes[i-1].Rank > g.Nodes[i].Rank {
			t.Fatalf("nodes not sorted by rank at index %d: %d > %d",
				i, g.Nodes[i-1].Rank, g.Nodes[i].Rank)
		}
	}
}

func TestComposeClusterRankHints(t *testing.T) {
	req := activeActiveRequirements()
	req.EdgeServices = []string{"dns"}

	g, err := Compose(req, expand(t, req.AllIntents()), "")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if got := g.Clusters["edge"].RankHint; got != layout.RankHintMin {
		t.Errorf("edge cluster rank hint = %q, want min", got)
	}
	if got := g.Clusters["data-r1"].RankHint; got != layout.RankHintMax {
		t.Errorf("data cluster rank hint = %q, want max", got)
	}
	if got := g.Clusters["region-r1"].RankHint; got != "" {
		t.Errorf("region cluster rank hint = %q, want empty", got)
	}
}

func TestComposeExplicitDuplicatesGetDistinctIDs(t *testing.T) {
	req := activeActiveRequirements()
	req.HAMode = manifest.HASingleRegion
	req.Regions = []string{"r1"}
	req.Services = []manifest.ServiceIntent{
		{Kind: catalog.KindWebApp, Name: "storefront"},
		{Kind: catalog.KindWebApp, Name: "admin"},
	}

	g, err := Compose(req, expand(t, req.Services), "")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	apps := g.NodesOfKind(catalog.KindWebApp)
	if len(apps) != 2 {
		t.Fatalf("web_app nodes = %d, want 2", len(apps))
	}
	if apps[0].ID == apps[1].ID {
		t.Errorf("duplicate intents share node id %q", apps[0].ID)
	}
}

func TestPatterns(t *testing.T) {
	names := Patterns()
	if len(names) == 0 {
		t.Fatal("no patterns registered")
	}
	if !Known(PatternHAMultiRegion) {
		t.Error("reference pattern not registered")
	}
}
