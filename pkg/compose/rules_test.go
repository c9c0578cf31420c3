package compose

import (
	"testing"

	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/layout"
	"github.com/stackplan/stackplan/pkg/manifest"
)

func TestBuiltinRuleTableIsValid(t *testing.T) {
	if err := validateRules(connectionRules); err != nil {
		t.Fatalf("builtin rule table invalid: %v", err)
	}
}

func TestValidateRulesRejectsBadRules(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
	}{
		{"empty name", Rule{
			Sources: []catalog.Kind{catalog.KindDNS},
			Targets: []catalog.Kind{catalog.KindCDN},
			Style:   layout.StyleSolid, Weight: 1, Scope: ScopeAny,
		}},
		{"empty sources", Rule{
			Name:    "x",
			Targets: []catalog.Kind{catalog.KindCDN},
			Style:   layout.StyleSolid, Weight: 1, Scope: ScopeAny,
		}},
		{"unknown kind", Rule{
			Name:    "x",
			Sources: []catalog.Kind{"warp_drive"},
			Targets: []catalog.Kind{catalog.KindCDN},
			Style:   layout.StyleSolid, Weight: 1, Scope: ScopeAny,
		}},
		{"invalid style", Rule{
			Name:    "x",
			Sources: []catalog.Kind{catalog.KindDNS},
			Targets: []catalog.Kind{catalog.KindCDN},
			Style:   "wavy", Weight: 1, Scope: ScopeAny,
		}},
		{"zero weight", Rule{
			Name:    "x",
			Sources: []catalog.Kind{catalog.KindDNS},
			Targets: []catalog.Kind{catalog.KindCDN},
			Style:   layout.StyleSolid, Scope: ScopeAny,
		}},
		{"unknown scope", Rule{
			Name:    "x",
			Sources: []catalog.Kind{catalog.KindDNS},
			Targets: []catalog.Kind{catalog.KindCDN},
			Style:   layout.StyleSolid, Weight: 1, Scope: "sideways",
		}},
		{"unknown ha mode", Rule{
			Name:    "x",
			Sources: []catalog.Kind{catalog.KindDNS},
			Targets: []catalog.Kind{catalog.KindCDN},
			Style:   layout.StyleSolid, Weight: 1, Scope: ScopeAny,
			HAOnly:  []manifest.HAMode{"quantum"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateRules([]Rule{tt.rule}); err == nil {
				t.Error("validateRules should reject rule")
			}
		})
	}
}

func TestPrimaryRulesComeFirst(t *testing.T) {
	// Step numbers follow table order, so every primary rule must
	// precede the first non-primary rule.
	seenOther := false
	for _, r := range connectionRules {
		if r.Category == CategoryPrimary {
			if seenOther {
				t.Fatalf("primary rule %q after non-primary rules", r.Name)
			}
			continue
		}
		seenOther = true
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	rules := Rules()
	if len(rules) == 0 {
		t.Fatal("no rules")
	}
	rules[0].Name = "mutated"
	if connectionRules[0].Name == "mutated" {
		t.Error("Rules() must return a copy")
	}
}
