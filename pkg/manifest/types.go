package manifest

import (
	"encoding/json"
	"strings"

	"github.com/stackplan/stackplan/pkg/catalog"
)

// HAMode selects the availability strategy for a design.
type HAMode string

// Supported availability modes.
const (
	HASingleRegion  HAMode = "single-region"
	HAMultiRegion   HAMode = "multi-region"
	HAActivePassive HAMode = "active-passive"
	HAActiveActive  HAMode = "active-active"
)

// ValidHAModes maps each supported mode to true, for validation and
// user-facing listings.
var ValidHAModes = map[HAMode]bool{
	HASingleRegion:  true,
	HAMultiRegion:   true,
	HAActivePassive: true,
	HAActiveActive:  true,
}

// Valid reports whether the mode is one of the supported modes.
func (m HAMode) Valid() bool {
	return ValidHAModes[m]
}

// NeedsMultipleRegions reports whether the mode requires at least two
// regions to be deployable.
func (m HAMode) NeedsMultipleRegions() bool {
	switch m {
	case HAMultiRegion, HAActivePassive, HAActiveActive:
		return true
	}
	return false
}

// ServiceIntent is a single requested service. Name is optional; kinds
// outside the builtin catalog are allowed and carried through opaquely.
type ServiceIntent struct {
	Kind       catalog.Kind   `json:"kind" yaml:"kind" toml:"kind" bson:"kind"`
	Name       string         `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty" bson:"name,omitempty"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty" toml:"properties,omitempty" bson:"properties,omitempty"`
}

// Requirements is the declarative input of the compiler: which regions
// to deploy into, how available the design must be, and which services
// the user wants.
type Requirements struct {
	Name             string          `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty" bson:"name,omitempty"`
	Regions          []string        `json:"regions" yaml:"regions" toml:"regions" bson:"regions"`
	HAMode           HAMode          `json:"ha_mode" yaml:"ha_mode" toml:"ha_mode" bson:"ha_mode"`
	Environment      string          `json:"environment,omitempty" yaml:"environment,omitempty" toml:"environment,omitempty" bson:"environment,omitempty"`
	EdgeServices     []string        `json:"edge_services,omitempty" yaml:"edge_services,omitempty" toml:"edge_services,omitempty" bson:"edge_services,omitempty"`
	IdentityServices []string        `json:"identity_services,omitempty" yaml:"identity_services,omitempty" toml:"identity_services,omitempty" bson:"identity_services,omitempty"`
	Services         []ServiceIntent `json:"services" yaml:"services" toml:"services" bson:"services"`
}

// ApplyDefaults fills unset fields with their documented defaults.
// Loaders call this after decoding; the validator never mutates.
func (r *Requirements) ApplyDefaults() {
	if r.HAMode == "" {
		r.HAMode = HASingleRegion
	}
	if r.Environment == "" {
		r.Environment = "production"
	}
}

// Normalize trims whitespace from regions, kinds and service lists.
func (r *Requirements) Normalize() {
	for i, region := range r.Regions {
		r.Regions[i] = strings.TrimSpace(region)
	}
	for i, s := range r.EdgeServices {
		r.EdgeServices[i] = strings.TrimSpace(s)
	}
	for i, s := range r.IdentityServices {
		r.IdentityServices[i] = strings.TrimSpace(s)
	}
	for i := range r.Services {
		r.Services[i].Kind = catalog.Kind(strings.TrimSpace(string(r.Services[i].Kind)))
		r.Services[i].Name = strings.TrimSpace(r.Services[i].Name)
	}
}

// AllIntents merges explicit service intents with the edge and identity
// service lists into a single intent slice, in a stable order: explicit
// services first, then edge services, then identity services. List
// entries whose kind already appears as an explicit intent are skipped.
func (r Requirements) AllIntents() []ServiceIntent {
	out := make([]ServiceIntent, 0, len(r.Services)+len(r.EdgeServices)+len(r.IdentityServices))
	seen := make(map[catalog.Kind]bool)

	for _, s := range r.Services {
		out = append(out, s)
		seen[s.Kind] = true
	}
	for _, list := range [][]string{r.EdgeServices, r.IdentityServices} {
		for _, name := range list {
			k := catalog.Kind(name)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, ServiceIntent{Kind: k})
		}
	}
	return out
}

// CanonicalJSON returns a stable JSON encoding of the requirements,
// suitable as cache key input. Struct field order is fixed and map keys
// are sorted by the encoder.
func (r Requirements) CanonicalJSON() ([]byte, error) {
	return json.Marshal(r)
}
