// Package catalog defines the builtin service taxonomy: the closed set
// of service kinds, their semantic groups, layout ranks and declared
// dependencies.
//
// # Lookups
//
// All lookups are total and never fail at runtime. [Get] reports a miss
// through its boolean; [GroupFor], [RankFor] and [DisplayNameFor] fall
// back to explicit defaults for kinds outside the builtin set, so
// user-supplied kinds flow through the pipeline without special cases.
//
//	def, ok := catalog.Get(catalog.KindWebApp)
//	if !ok {
//	    // unknown kind, carried through opaquely
//	}
//
// # Dependencies
//
// Each definition declares the kinds it needs ([Dependency.Required])
// or benefits from. The relation forms a DAG; a cycle or a dangling
// target in the builtin table is a programming error and panics at
// package init.
//
// The table itself is immutable: lookups return copies.
package catalog
