package catalog

import "strings"

// Kind identifies a service type in the catalog, e.g. "web_app" or
// "sql_database". Kinds outside the builtin set are carried through the
// pipeline opaquely.
type Kind string

// Builtin service kinds. These form a closed set: grouping, ranking and
// edge rules are defined against these constants, never against name
// substrings.
const (
	KindDNS              Kind = "dns"
	KindCDN              Kind = "cdn"
	KindWAF              Kind = "waf"
	KindIdentityProvider Kind = "identity_provider"
	KindKeyVault         Kind = "key_vault"
	KindVirtualNetwork   Kind = "virtual_network"
	KindLoadBalancer     Kind = "load_balancer"
	KindWebApp           Kind = "web_app"
	KindAPIService       Kind = "api_service"
	KindWorker           Kind = "worker"
	KindFunctionApp      Kind = "function_app"
	KindContainerCluster Kind = "container_cluster"
	KindSQLDatabase      Kind = "sql_database"
	KindNoSQLDatabase    Kind = "nosql_database"
	KindCache            Kind = "cache"
	KindObjectStorage    Kind = "object_storage"
	KindMessageQueue     Kind = "message_queue"
	KindMonitoring       Kind = "monitoring"
	KindLogAnalytics     Kind = "log_analytics"
)

// Group is the semantic cluster a kind belongs to in a composed layout.
type Group string

// Semantic groups. Network, compute and data replicate per region; the
// rest are global. GroupUnassigned is the explicit default for kinds the
// catalog does not know.
const (
	GroupEdge       Group = "edge"
	GroupIdentity   Group = "identity"
	GroupNetwork    Group = "network"
	GroupCompute    Group = "compute"
	GroupData       Group = "data"
	GroupMonitoring Group = "monitoring"
	GroupUnassigned Group = "unassigned"
)

// String returns the group identifier.
func (g Group) String() string {
	return string(g)
}

// PerRegion reports whether members of the group are replicated into
// every active region.
func (g Group) PerRegion() bool {
	switch g {
	case GroupNetwork, GroupCompute, GroupData:
		return true
	}
	return false
}

// Label returns the human-readable cluster label for the group.
func (g Group) Label() string {
	switch g {
	case GroupEdge:
		return "Edge & Ingress"
	case GroupIdentity:
		return "Identity & Security"
	case GroupNetwork:
		return "Network"
	case GroupCompute:
		return "Compute"
	case GroupData:
		return "Data & Storage"
	case GroupMonitoring:
		return "Monitoring"
	case GroupUnassigned:
		return "Additional Services"
	}
	return string(g)
}

// Groups returns all groups in rank order, entry point first.
func Groups() []Group {
	return []Group{
		GroupEdge,
		GroupIdentity,
		GroupNetwork,
		GroupCompute,
		GroupData,
		GroupMonitoring,
		GroupUnassigned,
	}
}

// Rank bands per group. Lower ranks sit closer to the traffic entry
// point; kinds get a small offset within their band so members of a
// cluster keep a stable relative order.
const (
	rankEdge       = 10
	rankIdentity   = 20
	rankNetwork    = 30
	rankCompute    = 40
	rankData       = 50
	rankMonitoring = 60
	rankUnassigned = 70
)

var groupRanks = map[Group]int{
	GroupEdge:       rankEdge,
	GroupIdentity:   rankIdentity,
	GroupNetwork:    rankNetwork,
	GroupCompute:    rankCompute,
	GroupData:       rankData,
	GroupMonitoring: rankMonitoring,
	GroupUnassigned: rankUnassigned,
}

var kindRanks = map[Kind]int{
	KindDNS:              rankEdge,
	KindCDN:              rankEdge + 1,
	KindWAF:              rankEdge + 2,
	KindIdentityProvider: rankIdentity,
	KindKeyVault:         rankIdentity + 1,
	KindVirtualNetwork:   rankNetwork,
	KindLoadBalancer:     rankNetwork + 1,
	KindWebApp:           rankCompute,
	KindAPIService:       rankCompute + 1,
	KindContainerCluster: rankCompute + 2,
	KindFunctionApp:      rankCompute + 3,
	KindWorker:           rankCompute + 4,
	KindSQLDatabase:      rankData,
	KindNoSQLDatabase:    rankData + 1,
	KindCache:            rankData + 2,
	KindObjectStorage:    rankData + 3,
	KindMessageQueue:     rankData + 4,
	KindMonitoring:       rankMonitoring,
	KindLogAnalytics:     rankMonitoring + 1,
}

// GroupFor returns the semantic group for a kind. Unknown kinds map to
// GroupUnassigned; the function is total.
func GroupFor(k Kind) Group {
	if def, ok := definitions[k]; ok {
		return def.Group
	}
	return GroupUnassigned
}

// RankFor returns the layout rank for a kind. Unknown kinds share the
// unassigned band; the function is total.
func RankFor(k Kind) int {
	if r, ok := kindRanks[k]; ok {
		return r
	}
	return rankUnassigned
}

// RankForGroup returns the base rank of a group.
func RankForGroup(g Group) int {
	if r, ok := groupRanks[g]; ok {
		return r
	}
	return rankUnassigned
}

// DisplayNameFor returns a human-readable name for a kind. Builtin kinds
// use their catalog display name; unknown kinds are humanized from their
// snake_case identifier.
func DisplayNameFor(k Kind) string {
	if def, ok := definitions[k]; ok {
		return def.DisplayName
	}
	return humanize(string(k))
}

func humanize(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
