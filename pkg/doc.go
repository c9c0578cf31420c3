// Package pkg provides the core libraries for Stackplan architecture
// composition.
//
// # Overview
//
// Stackplan turns a declarative service manifest ("what my application
// needs") into a resolved, validated and styled architecture layout
// that can be rendered as a diagram. The pkg directory is organized
// around the stages of that transformation:
//
//  1. [manifest] - Manifest loading (JSON/YAML/TOML/HCL) and validation
//  2. [catalog] - The built-in service catalog (kinds, groups, dependencies)
//  3. [resolve] - Dependency expansion from declared intents
//  4. [compose] - Pattern-driven layout composition (clusters, ranks, styles)
//  5. [layout] - The layout graph model and its JSON codec
//  6. [render] - DOT/SVG/PNG rendering via Graphviz
//  7. [pipeline] - Orchestration with caching, used by CLI, API and Lambda
//
// Supporting packages: [advisor] (optional recommendation hooks),
// [cache] (file/Redis result cache), [store] (design persistence),
// [errors] (coded errors), [observability] (stage hooks).
//
// # Architecture
//
// The typical data flow:
//
//	manifest file (JSON/YAML/TOML/HCL)
//	         ↓
//	    [manifest] package (load + validate requirements)
//	         ↓
//	    [resolve] package (expand catalog dependencies)
//	         ↓
//	    [compose] package (pattern → clusters, ranks, styles)
//	         ↓
//	    [render] package (DOT → SVG/PNG)
//
// # Quick Start
//
// Compose a manifest and render it:
//
//	import (
//	    "context"
//	    "github.com/stackplan/stackplan/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    ManifestPath: "app.yaml",
//	    Formats:      []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    // handle
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// Lower-level use without the pipeline:
//
//	req, _ := manifest.LoadFile("app.yaml")
//	intents, _ := resolve.Expand(ctx, req.AllIntents(), resolve.DefaultOptions())
//	graph, _ := compose.Compose(req, intents, compose.DefaultPattern)
//	dot, _ := render.ToDOT(graph)
//
// # Main Packages
//
// [manifest] - Requirements types plus format-detecting loaders for
// JSON, YAML, TOML and HCL manifests, and the validation rules that
// gate composition.
//
// [catalog] - The service catalog: every known service kind with its
// display name, group, and required/recommended dependencies.
//
// [resolve] - Breadth-first expansion of declared service intents into
// the full intent set, honoring required vs optional dependencies and
// a visit limit.
//
// [compose] - Architecture patterns. A pattern takes requirements and
// resolved intents and produces a layout graph with region/group
// clusters, rank hints and edge styles. The default pattern is
// "ha-multiregion".
//
// [layout] - The layout graph model (nodes, edges, nested clusters),
// structural verification, and a stable JSON codec.
//
// [render] - Deterministic DOT emission and SVG/PNG rasterization via
// go-graphviz.
//
// [pipeline] - The end-to-end runner: load → resolve → validate →
// compose → render, with content-addressed caching of composed graphs
// and rendered artifacts.
//
// [advisor] - Optional advisors that recommend a pattern, infer extra
// dependencies or suggest grouping. Advisor failures never fail a run.
//
// [cache] - The result cache: file-based for the CLI, Redis for the
// API, with TTLs and retry helpers.
//
// [store] - Saved designs: in-memory for tests and development,
// MongoDB for the API.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/compose/...  # Specific package
//
// [manifest]: https://pkg.go.dev/github.com/stackplan/stackplan/pkg/manifest
// [catalog]: https://pkg.go.dev/github.com/stackplan/stackplan/pkg/catalog
// [resolve]: https://pkg.go.dev/github.com/stackplan/stackplan/pkg/resolve
// [compose]: https://pkg.go.dev/github.com/stackplan/stackplan/pkg/compose
// [layout]: https://pkg.go.dev/github.com/stackplan/stackplan/pkg/layout
// [render]: https://pkg.go.dev/github.com/stackplan/stackplan/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/stackplan/stackplan/pkg/pipeline
// [advisor]: https://pkg.go.dev/github.com/stackplan/stackplan/pkg/advisor
// [cache]: https://pkg.go.dev/github.com/stackplan/stackplan/pkg/cache
// [store]: https://pkg.go.dev/github.com/stackplan/stackplan/pkg/store
// [errors]: https://pkg.go.dev/github.com/stackplan/stackplan/pkg/errors
// [observability]: https://pkg.go.dev/github.com/stackplan/stackplan/pkg/observability
package pkg
