package manifest

import (
	"testing"

	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/errors"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"stack.json", FormatJSON},
		{"stack.yaml", FormatYAML},
		{"stack.yml", FormatYAML},
		{"stack.toml", FormatTOML},
		{"stack.hcl", FormatHCL},
		{"stack.tf", FormatHCL},
		{"stack", FormatJSON},
		{"STACK.YAML", FormatYAML},
	}

	for _, tt := range tests {
		if got := DetectFormat(tt.filename); got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestLoadJSON(t *testing.T) {
	data := []byte(`{
		"regions": ["eu-west-1", "us-east-1"],
		"ha_mode": "active-active",
		"services": [
			{"kind": "web_app", "name": "storefront", "properties": {"runtime": "node20"}},
			{"kind": "sql_database"}
		]
	}`)

	req, err := Load(data, FormatJSON, "stack.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if req.HAMode != HAActiveActive {
		t.Errorf("HAMode = %q, want %q", req.HAMode, HAActiveActive)
	}
	if len(req.Services) != 2 {
		t.Fatalf("Services = %d, want 2", len(req.Services))
	}
	if req.Services[0].Name != "storefront" {
		t.Errorf("Services[0].Name = %q, want storefront", req.Services[0].Name)
	}
	if req.Services[0].Properties["runtime"] != "node20" {
		t.Errorf("runtime property = %v, want node20", req.Services[0].Properties["runtime"])
	}
}

func TestLoadYAML(t *testing.T) {
	data := []byte(`
regions:
  - eu-west-1
ha_mode: single-region
services:
  - kind: web_app
  - kind: cache
    properties:
      engine: redis
`)

	req, err := Load(data, FormatYAML, "stack.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(req.Regions) != 1 || req.Regions[0] != "eu-west-1" {
		t.Errorf("Regions = %v", req.Regions)
	}
	if req.Services[1].Properties["engine"] != "redis" {
		t.Errorf("engine property = %v, want redis", req.Services[1].Properties["engine"])
	}
}

func TestLoadTOML(t *testing.T) {
	data := []byte(`
regions = ["eu-west-1"]
ha_mode = "single-region"

[[services]]
kind = "web_app"
name = "storefront"
`)

	req, err := Load(data, FormatTOML, "stack.toml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(req.Services) != 1 || req.Services[0].Kind != catalog.KindWebApp {
		t.Errorf("Services = %+v", req.Services)
	}
}

func TestLoadHCL(t *testing.T) {
	data := []byte(`
regions = ["eu-west-1", "us-east-1"]
ha_mode = "active-active"

service "web_app" {
  name       = "storefront"
  properties = { runtime = "node20", instances = 2 }
}

service "sql_database" {}
`)

	req, err := Load(data, FormatHCL, "stack.hcl")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(req.Services) != 2 {
		t.Fatalf("Services = %d, want 2", len(req.Services))
	}
	if req.Services[0].Kind != catalog.KindWebApp {
		t.Errorf("Services[0].Kind = %q", req.Services[0].Kind)
	}
	if req.Services[0].Properties["runtime"] != "node20" {
		t.Errorf("runtime property = %v", req.Services[0].Properties["runtime"])
	}
	if req.Services[0].Properties["instances"] != float64(2) {
		t.Errorf("instances property = %v (%T), want float64(2)",
			req.Services[0].Properties["instances"], req.Services[0].Properties["instances"])
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	req, err := Load([]byte(`{"regions": ["eu-west-1"], "services": [{"kind": "web_app"}]}`), FormatJSON, "stack.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if req.HAMode != HASingleRegion {
		t.Errorf("default HAMode = %q, want %q", req.HAMode, HASingleRegion)
	}
	if req.Environment != "production" {
		t.Errorf("default Environment = %q, want production", req.Environment)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
	}{
		{"malformed json", `{"regions": [`, FormatJSON},
		{"malformed yaml", "regions: [\n  - :", FormatYAML},
		{"malformed hcl", `regions = [`, FormatHCL},
		{"hcl missing regions", `ha_mode = "single-region"`, FormatHCL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data), tt.format, "stack")
			if err == nil {
				t.Fatal("Load should fail")
			}
			if !errors.Is(err, errors.ErrCodeInvalidManifest) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidManifest)
			}
		})
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load([]byte(`{}`), "xml", "stack.xml")
	if err == nil {
		t.Fatal("Load should fail for unsupported format")
	}
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
	}
}

func TestAllIntentsMergesLists(t *testing.T) {
	req := Requirements{
		Regions:          []string{"eu-west-1"},
		EdgeServices:     []string{"cdn", "waf"},
		IdentityServices: []string{"identity_provider"},
		Services: []ServiceIntent{
			{Kind: catalog.KindWebApp},
			{Kind: catalog.KindCDN, Name: "my-cdn"}, // already explicit, list entry skipped
		},
	}

	intents := req.AllIntents()
	if len(intents) != 4 {
		t.Fatalf("AllIntents = %d intents, want 4", len(intents))
	}
	if intents[0].Kind != catalog.KindWebApp || intents[1].Kind != catalog.KindCDN {
		t.Error("explicit services must come first, in order")
	}
	if intents[2].Kind != catalog.KindWAF || intents[3].Kind != catalog.KindIdentityProvider {
		t.Errorf("list intents out of order: %v, %v", intents[2].Kind, intents[3].Kind)
	}
}
