package tagschema

import (
	"regexp"
)

// Constructor turns a scalar known to belong to a tag into a native value.
type Constructor func(node Scalar) (any, error)

// Rule is a ScalarTag that can also recognize the text it owns.
// Match reports the concrete tag to construct with: a pattern rule resolves to
// itself, a composite rule to the sub-rule that matched.
type Rule interface {
	ScalarTag
	Match(value string) Match
}

// patternRule binds a tag name to one anchored pattern.
type patternRule struct {
	name        TagName
	pattern     *regexp.Regexp
	constructor Constructor
}

func (r *patternRule) Name() TagName { return r.name }

func (r *patternRule) Match(value string) Match {
	if r.pattern.MatchString(value) {
		return Matched(r)
	}
	return NoMatch
}

// Construct returns the constructor's result and error as is.
func (r *patternRule) Construct(node Scalar) (any, error) { return r.constructor(node) }

// compositeRule groups alternative pattern rules for one tag, tried in
// declaration order. Sub-rules are never composites themselves.
type compositeRule struct {
	name  TagName
	rules []*patternRule
}

func (c *compositeRule) Name() TagName { return c.name }

func (c *compositeRule) Match(value string) Match {
	for _, r := range c.rules {
		if m := r.Match(value); m.OK() {
			return m
		}
	}
	return NoMatch
}

// Construct dispatches to the first sub-rule matching the node text. A node
// explicitly tagged with this name whose text fits none of the sub-rules is a
// tag_value_mismatch.
func (c *compositeRule) Construct(node Scalar) (any, error) {
	if m := c.Match(node.Value); m.OK() {
		return m.Tag().Construct(node)
	}
	return nil, Issues{IssueFor(CodeTagValueMismatch, c.name, node.Value, nil)}
}

// anchorPattern compiles a pattern source so that it must match the whole text.
// Dot matches newlines.
func anchorPattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?s)^(?:` + pattern + `)$`)
}

// anchorRegexp re-anchors a compiled expression, keeping the flags written in it.
// The result always uses leftmost-first semantics, even for an expression built
// with regexp.CompilePOSIX. Only whole-text matches are tested, so this does not
// change which texts match.
func anchorRegexp(re *regexp.Regexp) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + re.String() + `)$`)
}
