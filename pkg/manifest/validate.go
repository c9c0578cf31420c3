package manifest

import (
	"fmt"

	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/errors"
)

// ValidationError is a single user-facing validation failure. Field
// names the offending manifest field; Message is suitable for direct
// display.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface for single-error contexts; the
// validator itself returns a plain slice, never a wrapped error.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the structural consistency of the requirements and
// returns every problem found. An empty slice means the requirements
// are valid. The function is pure: it never mutates its input.
//
// Composition must not run while the returned slice is non-empty; the
// pipeline runner enforces this.
func Validate(req Requirements) []ValidationError {
	var errs []ValidationError

	if len(req.Regions) == 0 {
		errs = append(errs, ValidationError{
			Field:   "regions",
			Message: "at least one region is required",
		})
	}

	seen := make(map[string]bool, len(req.Regions))
	for i, region := range req.Regions {
		field := fmt.Sprintf("regions[%d]", i)
		if err := errors.ValidateRegionName(region); err != nil {
			errs = append(errs, ValidationError{Field: field, Message: errors.UserMessage(err)})
			continue
		}
		if seen[region] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate region %q", region),
			})
		}
		seen[region] = true
	}

	if !req.HAMode.Valid() {
		errs = append(errs, ValidationError{
			Field:   "ha_mode",
			Message: fmt.Sprintf("unknown ha_mode %q (must be one of: single-region, multi-region, active-passive, active-active)", req.HAMode),
		})
	} else if req.HAMode.NeedsMultipleRegions() && len(req.Regions) < 2 {
		errs = append(errs, ValidationError{
			Field:   "ha_mode",
			Message: fmt.Sprintf("ha_mode %q requires at least two regions, got %d", req.HAMode, len(req.Regions)),
		})
	}

	if len(req.Services)+len(req.EdgeServices)+len(req.IdentityServices) == 0 {
		errs = append(errs, ValidationError{
			Field:   "services",
			Message: "at least one service is required",
		})
	}

	for i, intent := range req.Services {
		field := fmt.Sprintf("services[%d].kind", i)
		if err := errors.ValidateKindName(string(intent.Kind)); err != nil {
			errs = append(errs, ValidationError{Field: field, Message: errors.UserMessage(err)})
		}
	}

	errs = append(errs, validateGroupList(req.EdgeServices, "edge_services", catalog.GroupEdge)...)
	errs = append(errs, validateGroupList(req.IdentityServices, "identity_services", catalog.GroupIdentity)...)

	return errs
}

// validateGroupList checks that every entry in a group-scoped service
// list is a well-formed kind belonging to the expected group. Unknown
// kinds are rejected here: the shortcut lists exist precisely to pick
// from the builtin edge and identity services.
func validateGroupList(entries []string, field string, want catalog.Group) []ValidationError {
	var errs []ValidationError
	for i, entry := range entries {
		f := fmt.Sprintf("%s[%d]", field, i)
		if err := errors.ValidateKindName(entry); err != nil {
			errs = append(errs, ValidationError{Field: f, Message: errors.UserMessage(err)})
			continue
		}
		k := catalog.Kind(entry)
		if !catalog.Known(k) {
			errs = append(errs, ValidationError{
				Field:   f,
				Message: fmt.Sprintf("unknown service kind %q", entry),
			})
			continue
		}
		if g := catalog.GroupFor(k); g != want {
			errs = append(errs, ValidationError{
				Field:   f,
				Message: fmt.Sprintf("service %q belongs to group %q, not %q", entry, g, want),
			})
		}
	}
	return errs
}
