// Package manifest defines the declarative input of the compiler: the
// [Requirements] a user writes down (regions, availability mode,
// service intents) and the loaders and validator that turn raw files
// into checked requirements.
//
// # Formats
//
// Manifests decode from JSON, YAML, TOML and HCL; [DetectFormat]
// infers the format from the filename. All formats produce the same
// [Requirements] value, so the rest of the pipeline is format-agnostic.
//
// # Validation
//
// [Validate] returns a list of user-facing (field, message) errors and
// never mutates its input. Validation is structural only: it does not
// resolve dependencies or consult anything beyond the catalog's kind
// and group tables.
package manifest
