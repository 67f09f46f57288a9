package tagschema

// TagName identifies the semantic type a node is interpreted as.
// Schemas compare tag names by plain string equality.
type TagName string

// IsEmpty reports whether no tag was stated.
func (t TagName) IsEmpty() bool { return t == "" }

// IsNonSpecific reports whether t is empty or the non-specific "!" tag.
func (t TagName) IsNonSpecific() bool { return t == "" || t == TagNonSpecific }

func (t TagName) String() string { return string(t) }

// Well-known tag names (long form).
const (
	TagNonSpecific TagName = "!"

	TagString   TagName = "tag:yaml.org,2002:str"
	TagMapping  TagName = "tag:yaml.org,2002:map"
	TagSequence TagName = "tag:yaml.org,2002:seq"
	TagNull     TagName = "tag:yaml.org,2002:null"
	TagBool     TagName = "tag:yaml.org,2002:bool"
	TagInt      TagName = "tag:yaml.org,2002:int"
	TagFloat    TagName = "tag:yaml.org,2002:float"
)

// Tag is anything carrying a tag name.
type Tag interface {
	Name() TagName
}

// ScalarTag turns a scalar node into a native value. It is decode-only.
type ScalarTag interface {
	Tag
	Construct(node Scalar) (any, error)
}

// ScalarRepresenter is a ScalarTag that can also turn a native value back into
// scalar text. Tags built by the regex schema never implement it.
type ScalarRepresenter interface {
	ScalarTag
	Represent(value any) (Scalar, error)
}

// MappingTag names the type of a mapping.
type MappingTag struct{ name TagName }

// NewMappingTag returns a mapping tag with the given name.
func NewMappingTag(name TagName) *MappingTag { return &MappingTag{name: name} }

func (t *MappingTag) Name() TagName { return t.name }

// SequenceTag names the type of a sequence.
type SequenceTag struct{ name TagName }

// NewSequenceTag returns a sequence tag with the given name.
func NewSequenceTag(name TagName) *SequenceTag { return &SequenceTag{name: name} }

func (t *SequenceTag) Name() TagName { return t.name }

// Baseline tags shared by every schema. They hold no mutable state.
var (
	FailsafeString   ScalarTag    = stringTag{}
	FailsafeMapping  *MappingTag  = NewMappingTag(TagMapping)
	FailsafeSequence *SequenceTag = NewSequenceTag(TagSequence)
)

// stringTag constructs the raw scalar text and can represent strings back.
type stringTag struct{}

func (stringTag) Name() TagName { return TagString }

func (stringTag) Construct(node Scalar) (any, error) { return node.Value, nil }

func (stringTag) Represent(value any) (Scalar, error) {
	s, ok := value.(string)
	if !ok {
		return Scalar{}, Issues{IssueFor(CodeInvalidValue, TagString, "", map[string]any{"got": typeName(value)})}
	}
	return Scalar{Tag: TagString, Value: s}, nil
}
