// Package resolve expands explicit service intents into the full set
// of transitively required dependencies.
//
// Expansion walks the catalog's dependency relation breadth-first,
// seeded by the explicit intents. Required dependencies are always
// synthesized; optional dependencies follow a default-inclusive policy
// that callers can disable. Synthesized intents are collapsed to one
// per kind, while explicit intents of the same kind stay distinct.
//
// The walk is bounded by a defensive visited-count cap: the builtin
// catalog is verified acyclic at startup, so exceeding the cap signals
// a corrupted catalog and raises a RESOLUTION_LIMIT error rather than
// looping forever.
package resolve
