package tagschema

// ScalarStyle records how a scalar was written in the source document.
type ScalarStyle int

const (
	StyleAny ScalarStyle = iota
	StylePlain
	StyleSingleQuoted
	StyleDoubleQuoted
	StyleLiteral
	StyleFolded
)

// Scalar is a leaf node: raw text plus an optional explicit tag.
type Scalar struct {
	Tag   TagName // Empty when no tag was written.
	Value string
	Style ScalarStyle
}

// CollectionEvent marks the start of a mapping or a sequence.
type CollectionEvent interface {
	CollectionTag() TagName
	isCollection()
}

// MappingStart begins a mapping.
type MappingStart struct {
	Tag TagName
}

func (m MappingStart) CollectionTag() TagName { return m.Tag }
func (MappingStart) isCollection()            {}

// SequenceStart begins a sequence.
type SequenceStart struct {
	Tag TagName
}

func (s SequenceStart) CollectionTag() TagName { return s.Tag }
func (SequenceStart) isCollection()            {}

// Path is the chain of collections enclosing a node, outermost first.
type Path []CollectionEvent

// Push returns a new Path with ev appended; p is left untouched.
func (p Path) Push(ev CollectionEvent) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, ev)
}
