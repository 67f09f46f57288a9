package yamlnode

import (
	"gopkg.in/yaml.v3"

	ts "github.com/reoring/tagschema"
)

// StripImplicitTags removes explicit tags from nodes whose tag s would infer
// anyway, so that encoding n omits them. It returns the number of tags
// removed. Nodes reached through aliases are visited at their anchor. Tags on
// quoted and block scalars are kept, since dropping them turns the value into
// a string.
func StripImplicitTags(s ts.Schema, n *yaml.Node) int {
	return strip(s, n, nil)
}

func strip(s ts.Schema, n *yaml.Node, path ts.Path) int {
	if n == nil {
		return 0
	}
	removed := 0
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			removed += strip(s, c, path)
		}
	case yaml.ScalarNode:
		ev := ScalarOf(n)
		if n.Style&yaml.TaggedStyle != 0 && ev.Style == ts.StylePlain && s.IsScalarTagImplicit(ev, path) {
			untag(n)
			removed++
		}
	case yaml.MappingNode:
		ev := MappingStartOf(n)
		if n.Style&yaml.TaggedStyle != 0 && s.IsMappingTagImplicit(ev, path) {
			untag(n)
			removed++
		}
		inner := path.Push(ev)
		for _, c := range n.Content {
			removed += strip(s, c, inner)
		}
	case yaml.SequenceNode:
		ev := SequenceStartOf(n)
		if n.Style&yaml.TaggedStyle != 0 && s.IsSequenceTagImplicit(ev, path) {
			untag(n)
			removed++
		}
		inner := path.Push(ev)
		for _, c := range n.Content {
			removed += strip(s, c, inner)
		}
	}
	return removed
}

func untag(n *yaml.Node) {
	n.Style &^= yaml.TaggedStyle
	n.Tag = ""
}
