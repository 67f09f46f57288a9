package tagschema

import (
	"strconv"
	"strings"
)

// PathRef builds JSON Pointer paths in a chain-safe way. Decoders use it to
// locate issues inside a document.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
}

// RootRef returns the PathRef of the document root.
func RootRef() PathRef { return &pathRef{parts: nil} }

type pathRef struct {
	parts []string
}

func (p *pathRef) Field(name string) PathRef {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return &pathRef{parts: append(append([]string{}, p.parts...), esc)}
}

func (p *pathRef) Index(i int) PathRef {
	return &pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p *pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}
