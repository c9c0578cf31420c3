package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stackplan/stackplan/pkg/advisor"
	"github.com/stackplan/stackplan/pkg/cache"
	"github.com/stackplan/stackplan/pkg/compose"
	"github.com/stackplan/stackplan/pkg/errors"
	"github.com/stackplan/stackplan/pkg/layout"
	"github.com/stackplan/stackplan/pkg/manifest"
	"github.com/stackplan/stackplan/pkg/observability"
	"github.com/stackplan/stackplan/pkg/render"
	"github.com/stackplan/stackplan/pkg/resolve"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → resolve → validate → compose →
// render pipeline with caching. Validation findings stop the pipeline
// without an error; the findings are returned in the result.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	req, err := r.Load(opts)
	if err != nil {
		return nil, err
	}
	result.Requirements = *req

	// Stage 2: Resolve
	resolveStart := time.Now()
	intents, err := r.Resolve(ctx, *req, opts)
	if err != nil {
		return nil, err
	}
	result.Intents = intents
	result.Stats.IntentCount = len(intents)
	result.Stats.ResolveTime = time.Since(resolveStart)
	observability.Pipeline().OnResolveComplete(ctx, len(req.AllIntents()), len(intents), result.Stats.ResolveTime, nil)

	r.Logger.Info("resolved services",
		"declared", len(req.AllIntents()),
		"resolved", len(intents),
		"duration", result.Stats.ResolveTime)

	// Validation gate: report findings without composing.
	if findings := manifest.Validate(*req); len(findings) > 0 {
		result.ValidationErrors = findings
		r.Logger.Warn("manifest failed validation", "findings", len(findings))
		return result, nil
	}

	// Stage 3: Compose
	pattern := r.selectPattern(ctx, *req, opts)
	result.Pattern = pattern

	composeStart := time.Now()
	observability.Pipeline().OnComposeStart(ctx, pattern, len(intents))
	g, graphHit, err := r.ComposeWithCacheInfo(ctx, *req, intents, pattern, opts)
	composeTime := time.Since(composeStart)
	if err != nil {
		observability.Pipeline().OnComposeComplete(ctx, pattern, 0, 0, composeTime, err)
		return nil, err
	}
	observability.Pipeline().OnComposeComplete(ctx, pattern, g.NodeCount(), g.EdgeCount(), composeTime, nil)
	result.Graph = g
	result.Stats.ComposeTime = composeTime
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.GraphHit = graphHit

	if graphData, err := layout.MarshalGraph(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("composed graph",
		"pattern", pattern,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cached", graphHit,
		"duration", result.Stats.ComposeTime)

	// Stage 4: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, result.GraphHash, opts)
	renderTime := time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, renderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = renderTime
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load decodes the manifest from opts. Inline data takes precedence
// over a path.
func (r *Runner) Load(opts Options) (*manifest.Requirements, error) {
	if len(opts.ManifestData) > 0 {
		filename := opts.ManifestPath
		if filename == "" {
			filename = "manifest." + opts.Format
		}
		return manifest.Load(opts.ManifestData, opts.Format, filename)
	}
	return manifest.LoadFile(opts.ManifestPath)
}

// Resolve expands the declared intents with catalog dependencies and
// any dependencies the advisor infers on top.
func (r *Runner) Resolve(ctx context.Context, req manifest.Requirements, opts Options) ([]manifest.ServiceIntent, error) {
	declared := req.AllIntents()
	observability.Pipeline().OnResolveStart(ctx, len(declared))

	if opts.Advisor != nil {
		bounded := advisor.NewBounded(opts.Advisor, opts.AdvisorTimeout, r.Logger)
		inferred, _ := bounded.InferDependencies(ctx, declared)
		if len(inferred) > 0 {
			r.Logger.Debug("advisor inferred dependencies", "count", len(inferred))
			declared = append(declared, inferred...)
		}
	}

	return resolve.Expand(ctx, declared, opts.resolveOptions())
}

// selectPattern picks the pattern for the run: the explicit option,
// then the advisor's recommendation, then the default.
func (r *Runner) selectPattern(ctx context.Context, req manifest.Requirements, opts Options) string {
	if opts.Pattern != "" {
		return opts.Pattern
	}
	if opts.Advisor != nil {
		bounded := advisor.NewBounded(opts.Advisor, opts.AdvisorTimeout, r.Logger)
		if recommended, _ := bounded.RecommendPattern(ctx, req); recommended != "" && compose.Known(recommended) {
			r.Logger.Debug("using advisor-recommended pattern", "pattern", recommended)
			return recommended
		}
	}
	return compose.DefaultPattern
}

// ComposeWithCacheInfo composes the graph with caching and returns
// cache hit info. Runs that consult an advisor bypass the graph cache:
// advisor-added intents are not part of the key, so a cached graph
// could silently drop them.
func (r *Runner) ComposeWithCacheInfo(ctx context.Context, req manifest.Requirements, intents []manifest.ServiceIntent, pattern string, opts Options) (*layout.Graph, bool, error) {
	cacheable := opts.Advisor == nil && !opts.Refresh

	var cacheKey string
	if cacheable {
		canonical, err := req.CanonicalJSON()
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "canonicalize manifest")
		}
		cacheKey = r.Keyer.GraphKey(cache.Hash(canonical), opts.GraphKeyOpts(pattern))

		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if g, err := layout.UnmarshalGraph(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "graph")
				return g, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	g, err := compose.Compose(req, intents, pattern)
	if err != nil {
		return nil, false, err
	}

	if cacheable {
		if data, err := layout.MarshalGraph(g); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.GraphTTL)
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		}
	}

	return g, false, nil
}

// Compose is a convenience wrapper that discards the cache hit info.
func (r *Runner) Compose(ctx context.Context, req manifest.Requirements, intents []manifest.ServiceIntent, pattern string, opts Options) (*layout.Graph, error) {
	g, _, err := r.ComposeWithCacheInfo(ctx, req, intents, pattern, opts)
	return g, err
}

// RenderWithCacheInfo renders all requested formats with caching and
// returns cache hit info. A hit requires every format to be cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *layout.Graph, graphHash string, opts Options) (map[string][]byte, bool, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte)

	if graphHash != "" && !opts.Refresh {
		allCached := true
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := r.renderFormat(ctx, g, format)
		if err != nil {
			return nil, false, err
		}
		rendered[format] = data
	}

	if graphHash != "" {
		for format, data := range rendered {
			cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			_ = r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL)
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *layout.Graph, graphHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, graphHash, opts)
	return artifacts, err
}

func (r *Runner) renderFormat(ctx context.Context, g *layout.Graph, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return layout.MarshalGraph(g)
	case FormatDOT:
		dot, err := render.ToDOT(g)
		if err != nil {
			return nil, err
		}
		return []byte(dot), nil
	case FormatSVG:
		return render.SVG(ctx, g)
	case FormatPNG:
		return render.PNG(ctx, g)
	default:
		return nil, ValidateFormat(format)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
