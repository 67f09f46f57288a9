package tagschema

// FailsafeSchema reads every scalar as a string and every collection as a
// generic mapping or sequence.
type FailsafeSchema struct{}

var _ Schema = FailsafeSchema{}

func (FailsafeSchema) ResolveNonSpecificScalar(Scalar, Path) (ScalarTag, bool) {
	return FailsafeString, true
}

func (FailsafeSchema) ResolveNonSpecificMapping(MappingStart, Path) (*MappingTag, bool) {
	return FailsafeMapping, true
}

func (FailsafeSchema) ResolveNonSpecificSequence(SequenceStart, Path) (*SequenceTag, bool) {
	return FailsafeSequence, true
}

func (FailsafeSchema) ResolveSpecificScalar(tag TagName) (ScalarTag, bool) {
	if tag == TagString {
		return FailsafeString, true
	}
	return nil, false
}

func (FailsafeSchema) ResolveSpecificMapping(tag TagName) (*MappingTag, bool) {
	if tag == TagMapping {
		return FailsafeMapping, true
	}
	return nil, false
}

func (FailsafeSchema) ResolveSpecificSequence(tag TagName) (*SequenceTag, bool) {
	if tag == TagSequence {
		return FailsafeSequence, true
	}
	return nil, false
}

func (FailsafeSchema) IsScalarTagImplicit(node Scalar, _ Path) bool {
	return node.Tag == TagString
}

func (FailsafeSchema) IsMappingTagImplicit(node MappingStart, _ Path) bool {
	return node.Tag == TagMapping
}

func (FailsafeSchema) IsSequenceTagImplicit(node SequenceStart, _ Path) bool {
	return node.Tag == TagSequence
}
