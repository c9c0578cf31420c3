package compose

import (
	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/layout"
)

// groupStyle holds the visual hints for one semantic group.
type groupStyle struct {
	background string
	border     string
}

// groupStyles maps each group to its cluster colors. Styling is a pure
// function of the group; two clusters of the same group always look
// identical, regardless of region or content.
var groupStyles = map[catalog.Group]groupStyle{
	catalog.GroupEdge:       {background: "#e8f0fe", border: "#1a73e8"},
	catalog.GroupIdentity:   {background: "#f3e8fd", border: "#9334e6"},
	catalog.GroupNetwork:    {background: "#e6f4ea", border: "#188038"},
	catalog.GroupCompute:    {background: "#fef7e0", border: "#f9ab00"},
	catalog.GroupData:       {background: "#fce8e6", border: "#d93025"},
	catalog.GroupMonitoring: {background: "#f1f3f4", border: "#80868b"},
	catalog.GroupUnassigned: {background: "#f8f9fa", border: "#bdc1c6"},
}

// styleCluster builds the cluster for a semantic group.
func styleCluster(group catalog.Group, label, parent string) layout.Cluster {
	s := groupStyles[group]
	return layout.Cluster{
		Label:      label,
		Background: s.background,
		Border:     s.border,
		Parent:     parent,
	}
}

// styleRegion builds the containing cluster for a region. Standby
// regions are drawn with a dashed border to signal they carry no
// traffic until failover.
func styleRegion(label string, standby bool) layout.Cluster {
	c := layout.Cluster{
		Label:      label,
		Background: "#ffffff",
		Border:     "#5f6368",
	}
	if standby {
		c.BorderStyle = layout.StyleDashed
	}
	return c
}
