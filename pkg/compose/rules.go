package compose

import (
	"fmt"

	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/layout"
	"github.com/stackplan/stackplan/pkg/manifest"
)

// Category classifies a connection rule and decides its visual weight.
type Category string

// Rule categories, from heaviest to lightest layout influence.
const (
	CategoryPrimary     Category = "primary"     // main request path, solid, carries step numbers
	CategoryData        Category = "data"        // persistence traffic, solid
	CategoryAsync       Category = "async"       // queues and caches, dashed
	CategorySecurity    Category = "security"    // auth and secrets, dotted
	CategoryMonitoring  Category = "monitoring"  // telemetry, dotted
	CategoryReplication Category = "replication" // cross-region sync, dashed
	CategoryFailover    Category = "failover"    // active-passive standby, dashed
)

// Scope restricts which (source, target) instance pairs a rule fires on.
type Scope string

// Rule scopes.
const (
	// ScopeAny pairs every source instance with every target instance.
	ScopeAny Scope = "any"
	// ScopeSameRegion pairs instances placed in the same region.
	ScopeSameRegion Scope = "same-region"
	// ScopeCrossRegion pairs same-kind replicas in distinct active
	// regions, once per unordered region pair.
	ScopeCrossRegion Scope = "cross-region"
	// ScopeToStandby pairs same-kind active-region instances with
	// their standby replica.
	ScopeToStandby Scope = "to-standby"
)

// Edge weights per category. Heavier edges get stronger layout
// constraints in the render backend, keeping the primary flow straight.
const (
	weightPrimary     = 10
	weightData        = 5
	weightAsync       = 3
	weightSecurity    = 2
	weightReplication = 2
	weightMonitoring  = 1
)

// Edge colors per category.
const (
	colorPrimary     = "#1a73e8"
	colorData        = "#188038"
	colorAsync       = "#e8710a"
	colorSecurity    = "#9334e6"
	colorMonitoring  = "#80868b"
	colorReplication = "#d93025"
)

// Rule declares how instances of the source kinds connect to instances
// of the target kinds. Rules fire in table order for every present
// (source-instance, target-instance) pair within scope, excluding
// self-pairs.
type Rule struct {
	Name          string
	Category      Category
	Sources       []catalog.Kind
	Targets       []catalog.Kind
	Label         string
	Style         string
	Color         string
	Weight        int
	Scope         Scope
	Unless        []catalog.Kind    // suppress the rule when any of these kinds is present
	HAOnly        []manifest.HAMode // restrict the rule to these availability modes
	Bidirectional bool
}

var computeKinds = []catalog.Kind{
	catalog.KindWebApp,
	catalog.KindAPIService,
	catalog.KindContainerCluster,
	catalog.KindFunctionApp,
	catalog.KindWorker,
}

var databaseKinds = []catalog.Kind{
	catalog.KindSQLDatabase,
	catalog.KindNoSQLDatabase,
}

var replicatedDataKinds = []catalog.Kind{
	catalog.KindSQLDatabase,
	catalog.KindNoSQLDatabase,
	catalog.KindObjectStorage,
	catalog.KindCache,
}

var telemetrySourceKinds = []catalog.Kind{
	catalog.KindLoadBalancer,
	catalog.KindWebApp,
	catalog.KindAPIService,
	catalog.KindContainerCluster,
	catalog.KindFunctionApp,
	catalog.KindWorker,
	catalog.KindSQLDatabase,
	catalog.KindNoSQLDatabase,
	catalog.KindCache,
	catalog.KindMessageQueue,
}

// connectionRules is the ordered rule table. Primary-flow rules come
// first so step numbers follow the request path top to bottom; table
// order is part of the determinism contract.
var connectionRules = []Rule{
	// Primary traffic flow, entry point downwards.
	{
		Name:     "dns-to-cdn",
		Category: CategoryPrimary,
		Sources:  []catalog.Kind{catalog.KindDNS},
		Targets:  []catalog.Kind{catalog.KindCDN},
		Label:    "resolves to",
		Style:    layout.StyleSolid,
		Color:    colorPrimary,
		Weight:   weightPrimary,
		Scope:    ScopeAny,
	},
	{
		Name:     "dns-to-waf",
		Category: CategoryPrimary,
		Sources:  []catalog.Kind{catalog.KindDNS},
		Targets:  []catalog.Kind{catalog.KindWAF},
		Label:    "routes to",
		Style:    layout.StyleSolid,
		Color:    colorPrimary,
		Weight:   weightPrimary,
		Scope:    ScopeAny,
		Unless:   []catalog.Kind{catalog.KindCDN},
	},
	{
		Name:     "dns-to-lb",
		Category: CategoryPrimary,
		Sources:  []catalog.Kind{catalog.KindDNS},
		Targets:  []catalog.Kind{catalog.KindLoadBalancer},
		Label:    "routes to",
		Style:    layout.StyleSolid,
		Color:    colorPrimary,
		Weight:   weightPrimary,
		Scope:    ScopeAny,
		Unless:   []catalog.Kind{catalog.KindCDN, catalog.KindWAF},
	},
	{
		Name:     "cdn-to-waf",
		Category: CategoryPrimary,
		Sources:  []catalog.Kind{catalog.KindCDN},
		Targets:  []catalog.Kind{catalog.KindWAF},
		Label:    "forwards to",
		Style:    layout.StyleSolid,
		Color:    colorPrimary,
		Weight:   weightPrimary,
		Scope:    ScopeAny,
	},
	{
		Name:     "cdn-to-lb",
		Category: CategoryPrimary,
		Sources:  []catalog.Kind{catalog.KindCDN},
		Targets:  []catalog.Kind{catalog.KindLoadBalancer},
		Label:    "forwards to",
		Style:    layout.StyleSolid,
		Color:    colorPrimary,
		Weight:   weightPrimary,
		Scope:    ScopeAny,
		Unless:   []catalog.Kind{catalog.KindWAF},
	},
	{
		Name:     "waf-to-lb",
		Category: CategoryPrimary,
		Sources:  []catalog.Kind{catalog.KindWAF},
		Targets:  []catalog.Kind{catalog.KindLoadBalancer},
		Label:    "filters to",
		Style:    layout.StyleSolid,
		Color:    colorPrimary,
		Weight:   weightPrimary,
		Scope:    ScopeAny,
	},
	{
		Name:     "lb-to-compute",
		Category: CategoryPrimary,
		Sources:  []catalog.Kind{catalog.KindLoadBalancer},
		Targets:  []catalog.Kind{catalog.KindWebApp, catalog.KindAPIService, catalog.KindContainerCluster},
		Label:    "balances to",
		Style:    layout.StyleSolid,
		Color:    colorPrimary,
		Weight:   weightPrimary,
		Scope:    ScopeSameRegion,
	},
	{
		Name:     "webapp-to-api",
		Category: CategoryPrimary,
		Sources:  []catalog.Kind{catalog.KindWebApp},
		Targets:  []catalog.Kind{catalog.KindAPIService},
		Label:    "calls",
		Style:    layout.StyleSolid,
		Color:    colorPrimary,
		Weight:   weightPrimary,
		Scope:    ScopeSameRegion,
	},

	// Data flow.
	{
		Name:     "compute-to-database",
		Category: CategoryData,
		Sources:  computeKinds,
		Targets:  databaseKinds,
		Label:    "reads/writes",
		Style:    layout.StyleSolid,
		Color:    colorData,
		Weight:   weightData,
		Scope:    ScopeSameRegion,
	},
	{
		Name:     "compute-to-storage",
		Category: CategoryData,
		Sources:  computeKinds,
		Targets:  []catalog.Kind{catalog.KindObjectStorage},
		Label:    "stores objects in",
		Style:    layout.StyleSolid,
		Color:    colorData,
		Weight:   weightData,
		Scope:    ScopeSameRegion,
	},

	// Async, cache and messaging.
	{
		Name:     "compute-to-cache",
		Category: CategoryAsync,
		Sources:  []catalog.Kind{catalog.KindWebApp, catalog.KindAPIService, catalog.KindContainerCluster},
		Targets:  []catalog.Kind{catalog.KindCache},
		Label:    "caches in",
		Style:    layout.StyleDashed,
		Color:    colorAsync,
		Weight:   weightAsync,
		Scope:    ScopeSameRegion,
	},
	{
		Name:     "compute-to-queue",
		Category: CategoryAsync,
		Sources:  []catalog.Kind{catalog.KindWebApp, catalog.KindAPIService, catalog.KindContainerCluster},
		Targets:  []catalog.Kind{catalog.KindMessageQueue},
		Label:    "enqueues",
		Style:    layout.StyleDashed,
		Color:    colorAsync,
		Weight:   weightAsync,
		Scope:    ScopeSameRegion,
	},
	{
		Name:     "queue-to-consumer",
		Category: CategoryAsync,
		Sources:  []catalog.Kind{catalog.KindMessageQueue},
		Targets:  []catalog.Kind{catalog.KindWorker, catalog.KindFunctionApp},
		Label:    "delivers to",
		Style:    layout.StyleDashed,
		Color:    colorAsync,
		Weight:   weightAsync,
		Scope:    ScopeSameRegion,
	},

	// Security and auth.
	{
		Name:     "compute-to-idp",
		Category: CategorySecurity,
		Sources:  []catalog.Kind{catalog.KindWebApp, catalog.KindAPIService, catalog.KindContainerCluster},
		Targets:  []catalog.Kind{catalog.KindIdentityProvider},
		Label:    "authenticates via",
		Style:    layout.StyleDotted,
		Color:    colorSecurity,
		Weight:   weightSecurity,
		Scope:    ScopeAny,
	},
	{
		Name:     "workload-to-vault",
		Category: CategorySecurity,
		Sources:  append(append([]catalog.Kind{}, computeKinds...), databaseKinds...),
		Targets:  []catalog.Kind{catalog.KindKeyVault},
		Label:    "reads secrets from",
		Style:    layout.StyleDotted,
		Color:    colorSecurity,
		Weight:   weightSecurity,
		Scope:    ScopeAny,
	},

	// Monitoring and telemetry.
	{
		Name:     "telemetry",
		Category: CategoryMonitoring,
		Sources:  telemetrySourceKinds,
		Targets:  []catalog.Kind{catalog.KindMonitoring},
		Label:    "emits telemetry",
		Style:    layout.StyleDotted,
		Color:    colorMonitoring,
		Weight:   weightMonitoring,
		Scope:    ScopeAny,
	},
	{
		Name:     "monitoring-to-logs",
		Category: CategoryMonitoring,
		Sources:  []catalog.Kind{catalog.KindMonitoring},
		Targets:  []catalog.Kind{catalog.KindLogAnalytics},
		Label:    "ships logs to",
		Style:    layout.StyleDotted,
		Color:    colorMonitoring,
		Weight:   weightMonitoring,
		Scope:    ScopeAny,
	},

	// Inter-region replication.
	{
		Name:          "data-replication",
		Category:      CategoryReplication,
		Sources:       replicatedDataKinds,
		Targets:       replicatedDataKinds,
		Label:         "replicates to",
		Style:         layout.StyleDashed,
		Color:         colorReplication,
		Weight:        weightReplication,
		Scope:         ScopeCrossRegion,
		HAOnly:        []manifest.HAMode{manifest.HAMultiRegion, manifest.HAActiveActive},
		Bidirectional: true,
	},

	// Active-passive failover.
	{
		Name:     "data-failover",
		Category: CategoryFailover,
		Sources:  replicatedDataKinds,
		Targets:  replicatedDataKinds,
		Label:    "fails over to",
		Style:    layout.StyleDashed,
		Color:    colorReplication,
		Weight:   weightReplication,
		Scope:    ScopeToStandby,
		HAOnly:   []manifest.HAMode{manifest.HAActivePassive},
	},
}

func init() {
	if err := validateRules(connectionRules); err != nil {
		panic(fmt.Sprintf("compose: corrupt rule table: %v", err))
	}
}

// Rules returns a copy of the builtin connection rule table, in firing
// order.
func Rules() []Rule {
	out := make([]Rule, len(connectionRules))
	copy(out, connectionRules)
	return out
}

// validateRules checks every rule against the closed kind set. Rules
// are static data; a bad entry is a programming error caught at init.
func validateRules(rules []Rule) error {
	for _, r := range rules {
		if r.Name == "" {
			return fmt.Errorf("rule with empty name")
		}
		if len(r.Sources) == 0 || len(r.Targets) == 0 {
			return fmt.Errorf("rule %q has empty kind set", r.Name)
		}
		if !layout.ValidStyles[r.Style] {
			return fmt.Errorf("rule %q has invalid style %q", r.Name, r.Style)
		}
		if r.Weight <= 0 {
			return fmt.Errorf("rule %q has non-positive weight", r.Name)
		}
		for _, set := range [][]catalog.Kind{r.Sources, r.Targets, r.Unless} {
			for _, k := range set {
				if !catalog.Known(k) {
					return fmt.Errorf("rule %q references unknown kind %q", r.Name, k)
				}
			}
		}
		for _, mode := range r.HAOnly {
			if !mode.Valid() {
				return fmt.Errorf("rule %q references unknown ha_mode %q", r.Name, mode)
			}
		}
		switch r.Scope {
		case ScopeAny, ScopeSameRegion, ScopeCrossRegion, ScopeToStandby:
		default:
			return fmt.Errorf("rule %q has unknown scope %q", r.Name, r.Scope)
		}
	}
	return nil
}
