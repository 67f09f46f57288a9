package tagschema

import (
	"fmt"

	"github.com/reoring/tagschema/i18n"
)

// IssueFor creates an Issue for tag and value with a translated message.
// The cause defaults to the sentinel registered for code, if any.
func IssueFor(code string, tag TagName, value string, params map[string]any) Issue {
	data := map[string]string{"tag": string(tag), "value": value}
	for k, v := range params {
		data[k] = fmt.Sprint(v)
	}
	return Issue{
		Code:    code,
		Message: i18n.T(code, data),
		Tag:     tag,
		Value:   value,
		Cause:   codeSentinels[code],
		Params:  params,
	}
}

// WithCause returns a copy of it wrapping cause. The code's sentinel stays
// reachable through errors.Is.
func (it Issue) WithCause(cause error) Issue {
	if cause == nil {
		return it
	}
	if it.Cause != nil {
		cause = fmt.Errorf("%w: %w", it.Cause, cause)
	}
	it.Cause = cause
	return it
}

// At returns a copy of it located at the given JSON Pointer.
func (it Issue) At(p PathRef) Issue {
	it.Path = p.Pointer()
	return it
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
