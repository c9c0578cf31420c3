// Package pipeline provides the core composition pipeline.
//
// It implements the complete load → resolve → validate → compose →
// render flow shared by the CLI, the API, and the Lambda entry point.
// Centralizing the flow keeps behavior consistent across all entry
// points and puts caching in one place.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Parse the manifest (JSON, YAML, TOML, or HCL) into requirements
//  2. Resolve: Expand service intents with their catalog dependencies
//  3. Compose: Apply an architecture pattern to produce a layout graph
//  4. Render: Generate output artifacts (DOT, SVG, PNG, JSON)
//
// Validation runs between resolve and compose; a manifest that fails
// validation stops the pipeline with the findings in the result rather
// than an error, so callers can report all problems at once.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ManifestPath: "app.yaml",
//	    Formats:      []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if len(result.ValidationErrors) > 0 {
//	    // report and stop
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stackplan/stackplan/pkg/advisor"
	"github.com/stackplan/stackplan/pkg/cache"
	"github.com/stackplan/stackplan/pkg/compose"
	"github.com/stackplan/stackplan/pkg/errors"
	"github.com/stackplan/stackplan/pkg/layout"
	"github.com/stackplan/stackplan/pkg/manifest"
	"github.com/stackplan/stackplan/pkg/resolve"
)

// Format constants for output artifacts.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// DefaultAdvisorTimeout bounds each advisor consultation during a run.
const DefaultAdvisorTimeout = advisor.DefaultTimeout

// Options contains all configuration for the composition pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Manifest input: a path, or raw data with an explicit format.
	// ManifestData takes precedence when both are set.
	ManifestPath string `json:"manifest_path,omitempty"`
	ManifestData []byte `json:"manifest_data,omitempty"`
	Format       string `json:"format,omitempty"`

	// Pattern selects the architecture pattern. Empty consults the
	// advisor and falls back to the default pattern.
	Pattern string `json:"pattern,omitempty"`

	// IncludeOptional expands optional catalog dependencies too.
	IncludeOptional bool `json:"include_optional,omitempty"`

	// Formats lists the artifacts to render.
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses the cache and recomputes everything.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Advisor        advisor.Advisor `json:"-"`
	AdvisorTimeout time.Duration   `json:"-"`
	Logger         *log.Logger     `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Requirements is the loaded, defaulted manifest.
	Requirements manifest.Requirements

	// Intents is the resolved service list, dependencies included.
	Intents []manifest.ServiceIntent

	// ValidationErrors holds manifest findings. When non-empty the
	// pipeline stopped before composition and Graph is nil.
	ValidationErrors []manifest.ValidationError

	// Pattern is the pattern actually applied.
	Pattern string

	// Graph is the composed layout graph.
	Graph *layout.Graph

	// GraphHash is the content hash of the composed graph.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	IntentCount int
	NodeCount   int
	EdgeCount   int
	ResolveTime time.Duration
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GraphHit  bool // Whether the composed graph came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: dot, svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.ManifestPath == "" && len(o.ManifestData) == 0 {
		return errors.New(errors.ErrCodeInvalidManifest, "manifest path or data is required")
	}
	if len(o.ManifestData) > 0 && o.Format == "" {
		o.Format = manifest.FormatJSON
	}
	if o.Pattern != "" {
		if err := errors.ValidatePatternName(o.Pattern); err != nil {
			return err
		}
		if !compose.Known(o.Pattern) {
			return errors.New(errors.ErrCodePatternNotFound, "unknown pattern %q", o.Pattern)
		}
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.AdvisorTimeout <= 0 {
		o.AdvisorTimeout = DefaultAdvisorTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// GraphKeyOpts returns cache key options for graph composition.
func (o *Options) GraphKeyOpts(pattern string) cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Pattern:         pattern,
		IncludeOptional: o.IncludeOptional,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format}
}

// resolveOptions translates pipeline options to resolver options.
func (o *Options) resolveOptions() resolve.Options {
	opts := resolve.DefaultOptions()
	opts.IncludeOptional = o.IncludeOptional
	opts.Logger = o.Logger
	return opts
}
