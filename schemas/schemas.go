// Package schemas provides the YAML 1.2 JSON and Core schemas built on
// tagschema.RegexSchema.
package schemas

import (
	"math"
	"strconv"
	"strings"
	"sync"

	ts "github.com/reoring/tagschema"
)

// JSON returns the YAML 1.2 JSON schema. It has no fallback: a plain scalar
// that is not null, a boolean or a number is unresolvable.
func JSON() *ts.RegexSchema { return jsonSchema() }

// Core returns the YAML 1.2 Core schema. Scalars that match no rule are
// strings.
func Core() *ts.RegexSchema { return coreSchema() }

var jsonSchema = sync.OnceValue(func() *ts.RegexSchema {
	tbl := ts.NewTableBuilder().
		Add(`null`, ts.TagNull, constructNull).
		Add(`true|false`, ts.TagBool, constructBool).
		Add(`-?(0|[1-9][0-9]*)`, ts.TagInt, constructDecimal).
		Add(`-?(0|[1-9][0-9]*)(\.[0-9]*)?([eE][-+]?[0-9]+)?`, ts.TagFloat, constructFloat).
		MustBuild()
	return ts.NewRegexSchema(tbl, nil)
})

var coreSchema = sync.OnceValue(func() *ts.RegexSchema {
	tbl := ts.NewTableBuilder().
		Add(`null|Null|NULL|~|`, ts.TagNull, constructNull).
		Add(`true|True|TRUE|false|False|FALSE`, ts.TagBool, constructBool).
		Add(`[-+]?[0-9]+`, ts.TagInt, constructDecimal).
		Add(`0o[0-7]+`, ts.TagInt, constructRadix(2, 8)).
		Add(`0x[0-9a-fA-F]+`, ts.TagInt, constructRadix(2, 16)).
		Add(`[-+]?(\.[0-9]+|[0-9]+(\.[0-9]*)?)([eE][-+]?[0-9]+)?`, ts.TagFloat, constructFloat).
		Add(`[-+]?\.(inf|Inf|INF)`, ts.TagFloat, constructInf).
		Add(`\.(nan|NaN|NAN)`, ts.TagFloat, constructNaN).
		MustBuild()
	return ts.NewRegexSchema(tbl, ts.FailsafeString)
})

func constructNull(ts.Scalar) (any, error) { return nil, nil }

func constructBool(n ts.Scalar) (any, error) {
	switch n.Value {
	case "true", "True", "TRUE":
		return true, nil
	case "false", "False", "FALSE":
		return false, nil
	}
	return nil, invalid(n, ts.TagBool, nil)
}

// constructDecimal yields int64, or uint64 for positive values above MaxInt64.
func constructDecimal(n ts.Scalar) (any, error) {
	i, err := strconv.ParseInt(n.Value, 10, 64)
	if err == nil {
		return i, nil
	}
	if u, uerr := strconv.ParseUint(strings.TrimPrefix(n.Value, "+"), 10, 64); uerr == nil {
		return u, nil
	}
	return nil, invalid(n, ts.TagInt, err)
}

// constructRadix parses text after a prefix of the given length.
func constructRadix(prefix, base int) ts.Constructor {
	return func(n ts.Scalar) (any, error) {
		if len(n.Value) <= prefix {
			return nil, invalid(n, ts.TagInt, nil)
		}
		digits := n.Value[prefix:]
		if i, err := strconv.ParseInt(digits, base, 64); err == nil {
			return i, nil
		}
		u, err := strconv.ParseUint(digits, base, 64)
		if err != nil {
			return nil, invalid(n, ts.TagInt, err)
		}
		return u, nil
	}
}

func constructFloat(n ts.Scalar) (any, error) {
	f, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		return nil, invalid(n, ts.TagFloat, err)
	}
	return f, nil
}

func constructInf(n ts.Scalar) (any, error) {
	if strings.HasPrefix(n.Value, "-") {
		return math.Inf(-1), nil
	}
	return math.Inf(1), nil
}

func constructNaN(ts.Scalar) (any, error) { return math.NaN(), nil }

func invalid(n ts.Scalar, tag ts.TagName, cause error) error {
	return ts.Issues{ts.IssueFor(ts.CodeInvalidValue, tag, n.Value, nil).WithCause(cause)}
}
