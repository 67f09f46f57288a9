package tagschema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes
const (
	CodeUnresolvableTag      = "unresolvable_tag"
	CodeTagValueMismatch     = "tag_value_mismatch"
	CodeUnsupportedOperation = "unsupported_operation"
	CodeInvalidValue         = "invalid_value"
	CodeDepthExceeded        = "depth_exceeded"
	CodeDuplicateKey         = "duplicate_key"
	CodeExcessiveAliasing    = "excessive_aliasing"
)

// Sentinel errors carried as Issue.Cause, for use with errors.Is.
var (
	// ErrUnresolvableTag: an untagged scalar matched no rule and the schema has
	// no fallback, or an explicit tag is unknown to the schema.
	ErrUnresolvableTag = errors.New("tagschema: unresolvable tag")
	// ErrTagValueMismatch: the text of an explicitly tagged scalar matches
	// none of the tag's patterns.
	ErrTagValueMismatch = errors.New("tagschema: value does not match tag")
	// ErrUnsupportedOperation: the tag cannot represent native values as text.
	ErrUnsupportedOperation = errors.New("tagschema: unsupported operation")
)

var codeSentinels = map[string]error{
	CodeUnresolvableTag:      ErrUnresolvableTag,
	CodeTagValueMismatch:     ErrTagValueMismatch,
	CodeUnsupportedOperation: ErrUnsupportedOperation,
}

// Issue represents a single resolution or construction failure.
type Issue struct {
	Path    string // JSON Pointer into the document when known (for example: /items/2).
	Code    string // One of the codes listed above.
	Message string
	Tag     TagName // Tag being resolved or constructed.
	Value   string  // Offending scalar text.
	Cause   error   // Optional: underlying error.
	// Params carries structured parameters for i18n and observability.
	Params map[string]any
}

func (it Issue) String() string {
	b := &strings.Builder{}
	b.WriteString(it.Code)
	if it.Path != "" {
		fmt.Fprintf(b, " at %s", it.Path)
	}
	if !it.Tag.IsEmpty() {
		fmt.Fprintf(b, " (tag %s", it.Tag)
		if it.Value != "" {
			fmt.Fprintf(b, ", value %q", it.Value)
		}
		b.WriteString(")")
	} else if it.Value != "" {
		fmt.Fprintf(b, " (value %q)", it.Value)
	}
	return b.String()
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].String())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is and errors.As see through Issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries an issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}
