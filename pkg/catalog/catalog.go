package catalog

import (
	"fmt"
	"sort"
)

// Dependency declares that a kind needs (or benefits from) another kind.
type Dependency struct {
	Kind     Kind           // Target service kind
	Required bool           // Required dependencies are always synthesized
	Defaults map[string]any // Default properties for a synthesized intent
}

// Prompt is a configuration question attached to a kind, consumed by
// interactive front-ends.
type Prompt struct {
	Key      string // Property key the answer is stored under
	Question string // Question shown to the user
	Default  string // Suggested answer
}

// Definition describes a builtin service kind: identity, grouping and
// the dependencies it pulls into a design.
type Definition struct {
	Kind         Kind
	DisplayName  string
	Group        Group
	Description  string
	Dependencies []Dependency
	Prompts      []Prompt
}

// definitions is the builtin catalog. The table is immutable after
// package init; lookups hand out copies so callers can never mutate it.
var definitions = map[Kind]Definition{
	KindDNS: {
		Kind:        KindDNS,
		DisplayName: "DNS Zone",
		Group:       GroupEdge,
		Description: "Authoritative DNS resolution for the public entry point.",
	},
	KindCDN: {
		Kind:        KindCDN,
		DisplayName: "CDN",
		Group:       GroupEdge,
		Description: "Edge caching and global traffic acceleration.",
		Dependencies: []Dependency{
			{Kind: KindDNS, Required: true},
		},
	},
	KindWAF: {
		Kind:        KindWAF,
		DisplayName: "Web Application Firewall",
		Group:       GroupEdge,
		Description: "Request inspection and filtering at the edge.",
	},
	KindIdentityProvider: {
		Kind:        KindIdentityProvider,
		DisplayName: "Identity Provider",
		Group:       GroupIdentity,
		Description: "User authentication and token issuance.",
		Dependencies: []Dependency{
			{Kind: KindKeyVault, Required: false},
		},
		Prompts: []Prompt{
			{Key: "protocol", Question: "Which federation protocol do clients use?", Default: "oidc"},
		},
	},
	KindKeyVault: {
		Kind:        KindKeyVault,
		DisplayName: "Key Vault",
		Group:       GroupIdentity,
		Description: "Secret and certificate storage.",
	},
	KindVirtualNetwork: {
		Kind:        KindVirtualNetwork,
		DisplayName: "Virtual Network",
		Group:       GroupNetwork,
		Description: "Private address space isolating a region's workloads.",
	},
	KindLoadBalancer: {
		Kind:        KindLoadBalancer,
		DisplayName: "Load Balancer",
		Group:       GroupNetwork,
		Description: "Traffic distribution across a region's compute.",
		Dependencies: []Dependency{
			{Kind: KindVirtualNetwork, Required: true},
		},
	},
	KindWebApp: {
		Kind:        KindWebApp,
		DisplayName: "Web Application",
		Group:       GroupCompute,
		Description: "User-facing web workload.",
		Dependencies: []Dependency{
			{Kind: KindLoadBalancer, Required: true},
			{Kind: KindVirtualNetwork, Required: true},
			{Kind: KindMonitoring, Required: false},
		},
		Prompts: []Prompt{
			{Key: "runtime", Question: "Which runtime stack does the app use?", Default: "node20"},
			{Key: "instances", Question: "How many instances per region?", Default: "2"},
		},
	},
	KindAPIService: {
		Kind:        KindAPIService,
		DisplayName: "API Service",
		Group:       GroupCompute,
		Description: "Backend HTTP API workload.",
		Dependencies: []Dependency{
			{Kind: KindLoadBalancer, Required: true},
			{Kind: KindVirtualNetwork, Required: true},
			{Kind: KindMonitoring, Required: false},
		},
		Prompts: []Prompt{
			{Key: "runtime", Question: "Which runtime stack does the service use?", Default: "go"},
		},
	},
	KindWorker: {
		Kind:        KindWorker,
		DisplayName: "Background Worker",
		Group:       GroupCompute,
		Description: "Asynchronous job processing.",
		Dependencies: []Dependency{
			{Kind: KindMessageQueue, Required: true},
			{Kind: KindVirtualNetwork, Required: true},
			{Kind: KindMonitoring, Required: false},
		},
	},
	KindFunctionApp: {
		Kind:        KindFunctionApp,
		DisplayName: "Function App",
		Group:       GroupCompute,
		Description: "Event-driven serverless functions.",
		Dependencies: []Dependency{
			{Kind: KindObjectStorage, Required: false},
			{Kind: KindMonitoring, Required: false},
		},
	},
	KindContainerCluster: {
		Kind:        KindContainerCluster,
		DisplayName: "Container Cluster",
		Group:       GroupCompute,
		Description: "Orchestrated container workloads.",
		Dependencies: []Dependency{
			{Kind: KindLoadBalancer, Required: true},
			{Kind: KindVirtualNetwork, Required: true},
			{Kind: KindMonitoring, Required: false},
		},
		Prompts: []Prompt{
			{Key: "orchestrator", Question: "Which orchestrator runs the cluster?", Default: "kubernetes"},
		},
	},
	KindSQLDatabase: {
		Kind:        KindSQLDatabase,
		DisplayName: "SQL Database",
		Group:       GroupData,
		Description: "Relational data store.",
		Dependencies: []Dependency{
			{Kind: KindVirtualNetwork, Required: true},
			{Kind: KindKeyVault, Required: false},
			{Kind: KindMonitoring, Required: false},
		},
		Prompts: []Prompt{
			{Key: "engine", Question: "Which database engine?", Default: "postgres"},
		},
	},
	KindNoSQLDatabase: {
		Kind:        KindNoSQLDatabase,
		DisplayName: "NoSQL Database",
		Group:       GroupData,
		Description: "Document or key-value data store.",
		Dependencies: []Dependency{
			{Kind: KindVirtualNetwork, Required: true},
			{Kind: KindMonitoring, Required: false},
		},
	},
	KindCache: {
		Kind:        KindCache,
		DisplayName: "Cache",
		Group:       GroupData,
		Description: "In-memory cache for hot data.",
		Dependencies: []Dependency{
			{Kind: KindVirtualNetwork, Required: true},
		},
		Prompts: []Prompt{
			{Key: "engine", Question: "Which cache engine?", Default: "redis"},
		},
	},
	KindObjectStorage: {
		Kind:        KindObjectStorage,
		DisplayName: "Object Storage",
		Group:       GroupData,
		Description: "Blob and static asset storage.",
	},
	KindMessageQueue: {
		Kind:        KindMessageQueue,
		DisplayName: "Message Queue",
		Group:       GroupData,
		Description: "Asynchronous message delivery between services.",
		Dependencies: []Dependency{
			{Kind: KindMonitoring, Required: false},
		},
		Prompts: []Prompt{
			{Key: "delivery", Question: "Which delivery guarantee is needed?", Default: "at-least-once"},
		},
	},
	KindMonitoring: {
		Kind:        KindMonitoring,
		DisplayName: "Monitoring",
		Group:       GroupMonitoring,
		Description: "Metrics, traces and alerting.",
		Dependencies: []Dependency{
			{Kind: KindLogAnalytics, Required: false},
		},
	},
	KindLogAnalytics: {
		Kind:        KindLogAnalytics,
		DisplayName: "Log Analytics",
		Group:       GroupMonitoring,
		Description: "Centralized log aggregation and search.",
	},
}

func init() {
	if err := verify(); err != nil {
		panic(fmt.Sprintf("catalog: corrupt builtin table: %v", err))
	}
}

// Get returns the definition for a kind. The boolean reports whether the
// kind is part of the builtin catalog; a miss is not an error.
func Get(k Kind) (Definition, bool) {
	def, ok := definitions[k]
	if !ok {
		return Definition{}, false
	}
	return copyDefinition(def), true
}

// Known reports whether a kind is part of the builtin catalog.
func Known(k Kind) bool {
	_, ok := definitions[k]
	return ok
}

// Dependencies returns the declared dependencies of a kind. Unknown
// kinds have none.
func Dependencies(k Kind) []Dependency {
	def, ok := definitions[k]
	if !ok {
		return nil
	}
	return copyDependencies(def.Dependencies)
}

// Kinds returns all builtin kinds sorted by identifier.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(definitions))
	for k := range definitions {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Categories returns the builtin kinds grouped by semantic group, each
// group's kinds sorted by rank.
func Categories() map[Group][]Kind {
	out := make(map[Group][]Kind)
	for k, def := range definitions {
		out[def.Group] = append(out[def.Group], k)
	}
	for g := range out {
		kinds := out[g]
		sort.Slice(kinds, func(i, j int) bool {
			ri, rj := RankFor(kinds[i]), RankFor(kinds[j])
			if ri != rj {
				return ri < rj
			}
			return kinds[i] < kinds[j]
		})
	}
	return out
}

func copyDefinition(def Definition) Definition {
	out := def
	out.Dependencies = copyDependencies(def.Dependencies)
	if def.Prompts != nil {
		out.Prompts = make([]Prompt, len(def.Prompts))
		copy(out.Prompts, def.Prompts)
	}
	return out
}

func copyDependencies(deps []Dependency) []Dependency {
	if deps == nil {
		return nil
	}
	out := make([]Dependency, len(deps))
	copy(out, deps)
	for i, d := range deps {
		if d.Defaults != nil {
			m := make(map[string]any, len(d.Defaults))
			for k, v := range d.Defaults {
				m[k] = v
			}
			out[i].Defaults = m
		}
	}
	return out
}

// verify checks the builtin table for referential integrity and cycles.
// It runs once at init; any failure means the table itself was edited
// incorrectly and is unrecoverable at runtime.
func verify() error {
	for k, def := range definitions {
		if def.Kind != k {
			return fmt.Errorf("definition %q registered under key %q", def.Kind, k)
		}
		if def.DisplayName == "" {
			return fmt.Errorf("definition %q has no display name", k)
		}
		if _, ok := groupRanks[def.Group]; !ok {
			return fmt.Errorf("definition %q has unknown group %q", k, def.Group)
		}
		for _, dep := range def.Dependencies {
			if _, ok := definitions[dep.Kind]; !ok {
				return fmt.Errorf("definition %q depends on unregistered kind %q", k, dep.Kind)
			}
			if dep.Kind == k {
				return fmt.Errorf("definition %q depends on itself", k)
			}
		}
	}
	return detectCycles()
}

// detectCycles runs a three-color DFS over the dependency relation.
func detectCycles() error {
	const (
		white = iota // unvisited
		gray         // in progress
		black        // done
	)

	colors := make(map[Kind]int, len(definitions))

	var visit func(k Kind, path []Kind) error
	visit = func(k Kind, path []Kind) error {
		colors[k] = gray
		path = append(path, k)

		for _, dep := range definitions[k].Dependencies {
			switch colors[dep.Kind] {
			case gray:
				return fmt.Errorf("dependency cycle: %v -> %s", path, dep.Kind)
			case white:
				if err := visit(dep.Kind, path); err != nil {
					return err
				}
			}
		}

		colors[k] = black
		return nil
	}

	for _, k := range Kinds() {
		if colors[k] == white {
			if err := visit(k, nil); err != nil {
				return err
			}
		}
	}
	return nil
}
