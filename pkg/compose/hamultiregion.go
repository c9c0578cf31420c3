package compose

import (
	"fmt"

	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/layout"
	"github.com/stackplan/stackplan/pkg/manifest"
)

// composeHAMultiRegion is the reference pattern. It proceeds in fixed
// steps: select active regions, place nodes into region-nested
// clusters, synthesize edges from the rule table, then annotate the
// result for crossing reduction. Every step iterates in input or table
// order, never over maps, so output ordering is reproducible.
func composeHAMultiRegion(r *run) error {
	r.selectRegions()
	r.placeNodes()
	if err := r.synthesizeEdges(); err != nil {
		return err
	}
	r.annotate()
	return nil
}

// selectRegions picks the active regions for the run: two for
// multi-region and active-active, otherwise one. Active-passive
// additionally designates the second region as standby.
func (r *run) selectRegions() {
	active := 1
	switch r.req.HAMode {
	case manifest.HAMultiRegion, manifest.HAActiveActive:
		active = 2
	}
	if active > len(r.req.Regions) {
		active = len(r.req.Regions)
	}
	r.activeRegions = r.req.Regions[:active]

	if r.req.HAMode == manifest.HAActivePassive && len(r.req.Regions) > 1 {
		r.standbyRegion = r.req.Regions[1]
	}
}

// placeNodes creates one node per resolved intent per applicable
// region. Per-region groups replicate across every active region with
// region-qualified ids and names; global groups place a single node.
// The standby region receives replicas of the data group only.
func (r *run) placeNodes() {
	for _, intent := range r.intents {
		group := catalog.GroupFor(intent.Kind)
		if !group.PerRegion() {
			r.placeGlobal(intent, group)
			continue
		}
		for _, region := range r.activeRegions {
			r.placeRegional(intent, group, region, false)
		}
		if r.standbyRegion != "" && group == catalog.GroupData {
			r.placeRegional(intent, group, r.standbyRegion, true)
		}
	}
}

func (r *run) placeGlobal(intent manifest.ServiceIntent, group catalog.Group) {
	cluster := string(group)
	r.ensureCluster(cluster, styleCluster(group, group.Label(), ""))
	r.addNode(layout.Node{
		ID:         r.allocateID(string(intent.Kind)),
		Kind:       intent.Kind,
		Name:       displayName(intent, ""),
		Cluster:    cluster,
		Rank:       catalog.RankFor(intent.Kind),
		Properties: intent.Properties,
	})
}

func (r *run) placeRegional(intent manifest.ServiceIntent, group catalog.Group, region string, standby bool) {
	parent := "region-" + region
	parentLabel := "Region " + region
	if standby {
		parentLabel += " (standby)"
	}
	r.ensureCluster(parent, styleRegion(parentLabel, standby))

	cluster := fmt.Sprintf("%s-%s", group, region)
	r.ensureCluster(cluster, styleCluster(group, group.Label(), parent))

	r.addNode(layout.Node{
		ID:         r.allocateID(fmt.Sprintf("%s-%s", intent.Kind, region)),
		Kind:       intent.Kind,
		Name:       displayName(intent, region),
		Cluster:    cluster,
		Rank:       catalog.RankFor(intent.Kind),
		Region:     region,
		Properties: intent.Properties,
	})
}

// displayName derives a node label from the intent, region-qualified
// for replicated nodes.
func displayName(intent manifest.ServiceIntent, region string) string {
	name := intent.Name
	if name == "" {
		name = catalog.DisplayNameFor(intent.Kind)
	}
	if region == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, region)
}

// synthesizeEdges walks the rule table in order and fires each rule for
// every in-scope (source, target) instance pair. Primary-flow edges
// take the next step ordinal as they are created, so step numbers
// follow rule-application order.
func (r *run) synthesizeEdges() error {
	for _, rule := range connectionRules {
		if !r.ruleApplies(rule) {
			continue
		}
		for _, sk := range rule.Sources {
			for _, tk := range rule.Targets {
				for _, src := range r.placed[sk] {
					for _, tgt := range r.placed[tk] {
						if src.ID == tgt.ID {
							continue
						}
						if !r.inScope(rule, src, tgt) {
							continue
						}
						r.fireRule(rule, src, tgt)
					}
				}
			}
		}
	}
	return nil
}

// ruleApplies checks the rule's availability-mode restriction and its
// suppression set.
func (r *run) ruleApplies(rule Rule) bool {
	if len(rule.HAOnly) > 0 {
		ok := false
		for _, mode := range rule.HAOnly {
			if r.req.HAMode == mode {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, k := range rule.Unless {
		if len(r.placed[k]) > 0 {
			return false
		}
	}
	return true
}

// inScope applies the rule's pairing scope. Cross-region and standby
// scopes pair same-kind replicas only; cross-region additionally fires
// once per unordered region pair, in active-region order.
func (r *run) inScope(rule Rule, src, tgt layout.Node) bool {
	switch rule.Scope {
	case ScopeSameRegion:
		// Global sources reach every region; regional pairs must match.
		if src.Region == "" || tgt.Region == "" {
			return src.Region == tgt.Region || src.Region == ""
		}
		return src.Region == tgt.Region
	case ScopeCrossRegion:
		if src.Kind != tgt.Kind || src.Region == "" || tgt.Region == "" {
			return false
		}
		if src.Region == r.standbyRegion || tgt.Region == r.standbyRegion {
			return false
		}
		return r.regionIndex(src.Region) < r.regionIndex(tgt.Region)
	case ScopeToStandby:
		return src.Kind == tgt.Kind &&
			src.Region != "" && src.Region != r.standbyRegion &&
			tgt.Region == r.standbyRegion
	default: // ScopeAny
		return true
	}
}

func (r *run) regionIndex(region string) int {
	for i, candidate := range r.activeRegions {
		if candidate == region {
			return i
		}
	}
	return len(r.activeRegions)
}

// fireRule creates one edge for the pair, deduplicated on (source,
// target, rule label) so overlapping kind sets never double-connect.
func (r *run) fireRule(rule Rule, src, tgt layout.Node) {
	key := src.ID + "\x00" + tgt.ID + "\x00" + rule.Label
	if r.edgeSet[key] {
		return
	}
	r.edgeSet[key] = true

	e := layout.Edge{
		Source:        src.ID,
		Target:        tgt.ID,
		Label:         rule.Label,
		Style:         rule.Style,
		Color:         rule.Color,
		Weight:        rule.Weight,
		Bidirectional: rule.Bidirectional,
	}
	if rule.Category == CategoryPrimary {
		e.Step = r.nextStep()
		e.Label = fmt.Sprintf("%d. %s", e.Step, rule.Label)
	}
	r.graph.Edges = append(r.graph.Edges, e)
}
