// Package tagschema resolves the tag of YAML-style nodes.
//
// A Schema answers two questions for a decoder: which tag an untagged scalar
// should get (non-specific resolution), and what an explicitly written tag
// refers to (specific resolution). Encoders ask the reverse question through
// IsScalarTagImplicit: would the tag be inferred anyway, so it can be omitted?
//
// RegexSchema infers scalar tags from an ordered rule table. Each rule claims
// the value space of a tag with a pattern that must match the whole text;
// the first matching rule wins, and several patterns declared for one tag form
// a composite rule tried in declaration order. An optional fallback tag takes
// any text no rule matches.
//
// Design policy:
//   - Keep the protocol and rule types in the root package; ready-made schemas
//     live under schemas/, the yaml.v3 adapter under yamlnode/, the CLI under
//     cmd/yamltag.
//   - Schemas and tables are immutable once built and safe for concurrent use.
//   - Rule tags are decode-only; Represent reports unsupported_operation.
//
// Typical usage:
//
//	tbl := tagschema.NewTableBuilder().
//		Add(`true|false`, tagschema.TagBool, parseBool).
//		MustBuild()
//	s := tagschema.NewRegexSchema(tbl, tagschema.FailsafeString)
//	v, err := tagschema.ConstructScalar(s, tagschema.Scalar{Value: "true"}, nil)
package tagschema
