package tagschema

// Match is the outcome of testing scalar text against a rule: either no match,
// or a match together with the concrete tag that should construct the value.
// The zero value is NoMatch.
type Match struct {
	tag ScalarTag
}

// NoMatch is the failed Match.
var NoMatch = Match{}

// Matched returns a successful Match resolving to tag.
func Matched(tag ScalarTag) Match { return Match{tag: tag} }

// OK reports whether the text matched.
func (m Match) OK() bool { return m.tag != nil }

// Tag returns the resolved tag, or nil for NoMatch.
func (m Match) Tag() ScalarTag { return m.tag }
