// Package yamlnode connects gopkg.in/yaml.v3 node trees to a tagschema.Schema:
// Decode builds native values by resolving every node through the schema, and
// StripImplicitTags drops explicit tags the schema would infer anyway.
package yamlnode

import (
	"gopkg.in/yaml.v3"

	ts "github.com/reoring/tagschema"
)

// ScalarOf converts a scalar node into a resolution event. A tag counts as
// explicit only when the node carries yaml.TaggedStyle; untagged quoted and
// block scalars get the non-specific "!" tag.
func ScalarOf(n *yaml.Node) ts.Scalar {
	s := ts.Scalar{Value: n.Value, Style: styleOf(n.Style)}
	switch {
	case n.Style&yaml.TaggedStyle != 0:
		s.Tag = explicitTag(n)
	case s.Style != ts.StylePlain:
		s.Tag = ts.TagNonSpecific
	}
	return s
}

// MappingStartOf converts a mapping node into a resolution event.
func MappingStartOf(n *yaml.Node) ts.MappingStart {
	var tag ts.TagName
	if n.Style&yaml.TaggedStyle != 0 {
		tag = explicitTag(n)
	}
	return ts.MappingStart{Tag: tag}
}

// SequenceStartOf converts a sequence node into a resolution event.
func SequenceStartOf(n *yaml.Node) ts.SequenceStart {
	var tag ts.TagName
	if n.Style&yaml.TaggedStyle != 0 {
		tag = explicitTag(n)
	}
	return ts.SequenceStart{Tag: tag}
}

func explicitTag(n *yaml.Node) ts.TagName {
	if n.Tag == "" {
		return ""
	}
	return ts.TagName(n.LongTag())
}

func styleOf(st yaml.Style) ts.ScalarStyle {
	switch {
	case st&yaml.DoubleQuotedStyle != 0:
		return ts.StyleDoubleQuoted
	case st&yaml.SingleQuotedStyle != 0:
		return ts.StyleSingleQuoted
	case st&yaml.LiteralStyle != 0:
		return ts.StyleLiteral
	case st&yaml.FoldedStyle != 0:
		return ts.StyleFolded
	default:
		return ts.StylePlain
	}
}
