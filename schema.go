package tagschema

// Schema infers tags for untagged nodes and looks up explicitly stated tags.
// Implementations are immutable after construction and safe for concurrent use.
type Schema interface {
	// ResolveNonSpecificScalar infers the tag of an untagged scalar.
	ResolveNonSpecificScalar(node Scalar, path Path) (ScalarTag, bool)
	// ResolveNonSpecificMapping infers the tag of an untagged mapping.
	ResolveNonSpecificMapping(node MappingStart, path Path) (*MappingTag, bool)
	// ResolveNonSpecificSequence infers the tag of an untagged sequence.
	ResolveNonSpecificSequence(node SequenceStart, path Path) (*SequenceTag, bool)

	// ResolveSpecificScalar looks up an explicitly stated scalar tag.
	ResolveSpecificScalar(tag TagName) (ScalarTag, bool)
	// ResolveSpecificMapping looks up an explicitly stated mapping tag.
	ResolveSpecificMapping(tag TagName) (*MappingTag, bool)
	// ResolveSpecificSequence looks up an explicitly stated sequence tag.
	ResolveSpecificSequence(tag TagName) (*SequenceTag, bool)

	// IsScalarTagImplicit reports whether the node's stated tag would be
	// inferred anyway, so an encoder may omit it.
	IsScalarTagImplicit(node Scalar, path Path) bool
	IsMappingTagImplicit(node MappingStart, path Path) bool
	IsSequenceTagImplicit(node SequenceStart, path Path) bool
}

// RegexSchema infers scalar tags from an ordered rule table, with an optional
// fallback for text no rule matches. Collections always get the generic
// mapping and sequence tags.
type RegexSchema struct {
	table    *Table
	fallback ScalarTag
}

var _ Schema = (*RegexSchema)(nil)

// NewRegexSchema returns a schema over table. fallback may be nil, in which
// case unmatched untagged scalars are unresolvable. A nil table is empty.
func NewRegexSchema(table *Table, fallback ScalarTag) *RegexSchema {
	if table == nil {
		table = &Table{rules: map[TagName]Rule{}}
	}
	return &RegexSchema{table: table, fallback: fallback}
}

// Table returns the rule table.
func (s *RegexSchema) Table() *Table { return s.table }

// Fallback returns the fallback tag, or nil.
func (s *RegexSchema) Fallback() ScalarTag { return s.fallback }

// ResolveNonSpecificScalar returns the first rule, in table order, whose
// pattern matches the text, else the fallback.
//
// A node that already carries a tag is answered with the generic string tag
// without consulting the table; callers route explicit tags through
// ResolveSpecificScalar.
func (s *RegexSchema) ResolveNonSpecificScalar(node Scalar, _ Path) (ScalarTag, bool) {
	if !node.Tag.IsEmpty() {
		return FailsafeString, true
	}
	for _, r := range s.table.All() {
		if m := r.Match(node.Value); m.OK() {
			return m.Tag(), true
		}
	}
	if s.fallback != nil {
		return s.fallback, true
	}
	return nil, false
}

func (s *RegexSchema) ResolveNonSpecificMapping(MappingStart, Path) (*MappingTag, bool) {
	return FailsafeMapping, true
}

func (s *RegexSchema) ResolveNonSpecificSequence(SequenceStart, Path) (*SequenceTag, bool) {
	return FailsafeSequence, true
}

// ResolveSpecificScalar succeeds for table keys and for the fallback's name.
func (s *RegexSchema) ResolveSpecificScalar(tag TagName) (ScalarTag, bool) {
	if r, ok := s.table.Lookup(tag); ok {
		return r, true
	}
	if s.fallback != nil && tag == s.fallback.Name() {
		return s.fallback, true
	}
	return nil, false
}

// ResolveSpecificMapping always fails; the schema defines no mapping tags.
func (s *RegexSchema) ResolveSpecificMapping(TagName) (*MappingTag, bool) { return nil, false }

// ResolveSpecificSequence always fails; the schema defines no sequence tags.
func (s *RegexSchema) ResolveSpecificSequence(TagName) (*SequenceTag, bool) { return nil, false }

// IsScalarTagImplicit is true when the stated tag is in the table and its
// pattern matches the text. Scalar style is not taken into account.
func (s *RegexSchema) IsScalarTagImplicit(node Scalar, _ Path) bool {
	r, ok := s.table.Lookup(node.Tag)
	return ok && r.Match(node.Value).OK()
}

func (s *RegexSchema) IsMappingTagImplicit(MappingStart, Path) bool { return false }

func (s *RegexSchema) IsSequenceTagImplicit(SequenceStart, Path) bool { return false }

// ResolveScalar picks the resolution path for node: untagged and "!" scalars go
// through non-specific resolution, everything else through the specific
// lookup. Failure is reported as an unresolvable_tag issue.
func ResolveScalar(s Schema, node Scalar, path Path) (ScalarTag, error) {
	var (
		tag ScalarTag
		ok  bool
	)
	if node.Tag.IsNonSpecific() {
		tag, ok = s.ResolveNonSpecificScalar(node, path)
	} else {
		tag, ok = s.ResolveSpecificScalar(node.Tag)
	}
	if !ok {
		return nil, Issues{IssueFor(CodeUnresolvableTag, node.Tag, node.Value, nil)}
	}
	return tag, nil
}

// ConstructScalar resolves node and builds its native value. An explicit tag
// backed by a Rule must match the text, otherwise the result is a
// tag_value_mismatch. Errors returned by the constructor are passed through
// unchanged.
func ConstructScalar(s Schema, node Scalar, path Path) (any, error) {
	tag, err := ResolveScalar(s, node, path)
	if err != nil {
		return nil, err
	}
	if !node.Tag.IsNonSpecific() {
		if r, ok := tag.(Rule); ok && !r.Match(node.Value).OK() {
			return nil, Issues{IssueFor(CodeTagValueMismatch, node.Tag, node.Value, nil)}
		}
	}
	return tag.Construct(node)
}

// Represent converts value back to scalar text when tag supports it. Tags
// without that capability, which includes every rule of a RegexSchema, yield
// an unsupported_operation issue.
func Represent(tag ScalarTag, value any) (Scalar, error) {
	if rep, ok := tag.(ScalarRepresenter); ok {
		return rep.Represent(value)
	}
	var name TagName
	if tag != nil {
		name = tag.Name()
	}
	return Scalar{}, Issues{IssueFor(CodeUnsupportedOperation, name, "", map[string]any{"op": "represent"})}
}
