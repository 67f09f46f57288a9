package tagschema_test

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ts "github.com/reoring/tagschema"
)

func parseBool(n ts.Scalar) (any, error) { return strconv.ParseBool(n.Value) }

// boolSchema: ^(true|false)$ -> boolean, fallback string.
func boolSchema(t *testing.T) *ts.RegexSchema {
	t.Helper()
	tbl, err := ts.NewTableBuilder().
		Add(`^(true|false)$`, "boolean", parseBool).
		Build()
	require.NoError(t, err)
	return ts.NewRegexSchema(tbl, ts.FailsafeString)
}

func TestRegexSchema_BooleanWithFallback(t *testing.T) {
	s := boolSchema(t)

	tag, ok := s.ResolveNonSpecificScalar(ts.Scalar{Value: "true"}, nil)
	require.True(t, ok)
	assert.Equal(t, ts.TagName("boolean"), tag.Name())
	v, err := tag.Construct(ts.Scalar{Value: "true"})
	require.NoError(t, err)
	assert.Equal(t, true, v)

	tag, ok = s.ResolveNonSpecificScalar(ts.Scalar{Value: "banana"}, nil)
	require.True(t, ok)
	assert.Equal(t, ts.TagString, tag.Name())

	// explicit boolean on non-boolean text
	tag, ok = s.ResolveSpecificScalar("boolean")
	require.True(t, ok)
	assert.Equal(t, ts.TagName("boolean"), tag.Name())
	assert.False(t, s.IsScalarTagImplicit(ts.Scalar{Tag: "boolean", Value: "banana"}, nil))

	_, err = ts.ConstructScalar(s, ts.Scalar{Tag: "boolean", Value: "banana"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ts.ErrTagValueMismatch)
	iss, ok := ts.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "banana", iss[0].Value)
	assert.Equal(t, ts.TagName("boolean"), iss[0].Tag)
}

func TestRegexSchema_ExplicitSingleRuleMismatchIsConstructorBusiness(t *testing.T) {
	s := boolSchema(t)
	tag, ok := s.ResolveSpecificScalar("boolean")
	require.True(t, ok)
	// a single pattern rule hands the text to its constructor as is
	_, err := tag.Construct(ts.Scalar{Tag: "boolean", Value: "banana"})
	var numErr *strconv.NumError
	assert.ErrorAs(t, err, &numErr)
}

func TestRegexSchema_ExplicitCompositeMismatch(t *testing.T) {
	tbl := ts.NewTableBuilder().
		Add(`true|false`, "boolean", parseBool).
		Add(`yes|no`, "boolean", func(n ts.Scalar) (any, error) { return n.Value == "yes", nil }).
		MustBuild()
	s := ts.NewRegexSchema(tbl, ts.FailsafeString)

	_, err := ts.ConstructScalar(s, ts.Scalar{Tag: "boolean", Value: "banana"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ts.ErrTagValueMismatch)
	assert.True(t, ts.HasCode(err, ts.CodeTagValueMismatch))
	assert.Contains(t, err.Error(), "banana")
	assert.Contains(t, err.Error(), "boolean")

	v, err := ts.ConstructScalar(s, ts.Scalar{Tag: "boolean", Value: "yes"}, nil)
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestRegexSchema_FirstMatchingRuleWins(t *testing.T) {
	tbl := ts.NewTableBuilder().
		Add(`[0-9]+`, "int", constant(nil)).
		Add(`[0-9.]+`, "float", constant(nil)).
		MustBuild()
	s := ts.NewRegexSchema(tbl, nil)

	tag, ok := s.ResolveNonSpecificScalar(ts.Scalar{Value: "12"}, nil)
	require.True(t, ok)
	assert.Equal(t, ts.TagName("int"), tag.Name())

	tag, ok = s.ResolveNonSpecificScalar(ts.Scalar{Value: "1.5"}, nil)
	require.True(t, ok)
	assert.Equal(t, ts.TagName("float"), tag.Name())
}

func TestRegexSchema_NoFallbackIsUnresolvable(t *testing.T) {
	tbl := ts.NewTableBuilder().Add(`[0-9]+`, "int", constant(nil)).MustBuild()
	s := ts.NewRegexSchema(tbl, nil)

	tag, ok := s.ResolveNonSpecificScalar(ts.Scalar{Value: "banana"}, nil)
	assert.False(t, ok)
	assert.Nil(t, tag)

	_, err := ts.ResolveScalar(s, ts.Scalar{Value: "banana"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ts.ErrUnresolvableTag)
	iss, ok := ts.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "banana", iss[0].Value)
}

func TestRegexSchema_ExplicitTagShortCircuitsToString(t *testing.T) {
	tbl := ts.NewTableBuilder().Add(`.*`, "anything", constant(1)).MustBuild()
	s := ts.NewRegexSchema(tbl, nil)

	for _, tag := range []ts.TagName{"anything", "unknown", ts.TagNonSpecific, ts.TagInt} {
		got, ok := s.ResolveNonSpecificScalar(ts.Scalar{Tag: tag, Value: "x"}, nil)
		require.True(t, ok, tag)
		assert.Equal(t, ts.TagString, got.Name(), tag)
	}

	// "!" routes through non-specific resolution in ResolveScalar
	v, err := ts.ConstructScalar(s, ts.Scalar{Tag: ts.TagNonSpecific, Value: "42"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}

func TestRegexSchema_ResolveSpecificScalar(t *testing.T) {
	tbl := ts.NewTableBuilder().
		Add(`a`, "A", constant(nil)).
		Add(`b`, "B", constant(nil)).
		Add(`bb`, "B", constant(nil)).
		MustBuild()

	withFallback := ts.NewRegexSchema(tbl, ts.FailsafeString)
	noFallback := ts.NewRegexSchema(tbl, nil)

	cases := []struct {
		tag        ts.TagName
		withFB, no bool
	}{
		{"A", true, true},
		{"B", true, true},
		{ts.TagString, true, false},
		{"C", false, false},
		{"", false, false},
		{ts.TagMapping, false, false},
	}
	for _, c := range cases {
		_, ok := withFallback.ResolveSpecificScalar(c.tag)
		assert.Equal(t, c.withFB, ok, "with fallback %q", c.tag)
		_, ok = noFallback.ResolveSpecificScalar(c.tag)
		assert.Equal(t, c.no, ok, "without fallback %q", c.tag)
	}

	fb, ok := withFallback.ResolveSpecificScalar(ts.TagString)
	require.True(t, ok)
	assert.Equal(t, ts.FailsafeString, fb)
}

func TestRegexSchema_Collections(t *testing.T) {
	s := boolSchema(t)
	path := ts.Path{ts.MappingStart{}, ts.SequenceStart{}}

	m, ok := s.ResolveNonSpecificMapping(ts.MappingStart{}, path)
	require.True(t, ok)
	assert.Equal(t, ts.TagMapping, m.Name())
	assert.Same(t, ts.FailsafeMapping, m)

	q, ok := s.ResolveNonSpecificSequence(ts.SequenceStart{}, path)
	require.True(t, ok)
	assert.Equal(t, ts.TagSequence, q.Name())
	assert.Same(t, ts.FailsafeSequence, q)

	for _, tag := range []ts.TagName{ts.TagMapping, ts.TagSequence, "boolean", "x"} {
		_, ok = s.ResolveSpecificMapping(tag)
		assert.False(t, ok)
		_, ok = s.ResolveSpecificSequence(tag)
		assert.False(t, ok)
	}
	assert.False(t, s.IsMappingTagImplicit(ts.MappingStart{Tag: ts.TagMapping}, path))
	assert.False(t, s.IsSequenceTagImplicit(ts.SequenceStart{Tag: ts.TagSequence}, path))
}

func TestRegexSchema_IsScalarTagImplicit(t *testing.T) {
	tbl := ts.NewTableBuilder().
		Add(`true|false`, "boolean", parseBool).
		Add(`[0-9]+`, "integer", parseUint).
		Add(`-[0-9]+`, "integer", parseInt).
		MustBuild()
	s := ts.NewRegexSchema(tbl, ts.FailsafeString)

	cases := []struct {
		node ts.Scalar
		want bool
	}{
		{ts.Scalar{Tag: "boolean", Value: "true"}, true},
		{ts.Scalar{Tag: "boolean", Value: "banana"}, false},
		{ts.Scalar{Tag: "integer", Value: "-7"}, true},
		{ts.Scalar{Tag: "integer", Value: "7"}, true},
		{ts.Scalar{Tag: "integer", Value: "7x"}, false},
		// fallback is not in the table
		{ts.Scalar{Tag: ts.TagString, Value: "banana"}, false},
		{ts.Scalar{Tag: "unknown", Value: "true"}, false},
		{ts.Scalar{Value: "true"}, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, s.IsScalarTagImplicit(c.node, nil), "%+v", c.node)
	}
}

func TestRegexSchema_NilTable(t *testing.T) {
	s := ts.NewRegexSchema(nil, ts.FailsafeString)
	assert.Equal(t, 0, s.Table().Len())
	assert.Equal(t, ts.FailsafeString, s.Fallback())

	tag, ok := s.ResolveNonSpecificScalar(ts.Scalar{Value: "anything"}, nil)
	require.True(t, ok)
	assert.Equal(t, ts.TagString, tag.Name())
}

func TestRegexSchema_Idempotent(t *testing.T) {
	s := boolSchema(t)
	first, ok := s.ResolveNonSpecificScalar(ts.Scalar{Value: "false"}, nil)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, ok := s.ResolveNonSpecificScalar(ts.Scalar{Value: "false"}, nil)
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestRegexSchema_ConcurrentReads(t *testing.T) {
	s := boolSchema(t)
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text := "banana"
			want := ts.TagString
			if i%2 == 0 {
				text, want = "true", "boolean"
			}
			tag, ok := s.ResolveNonSpecificScalar(ts.Scalar{Value: text}, nil)
			if !ok || tag.Name() != want {
				errs <- errors.New("unexpected resolution for " + text)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestRepresent_Unsupported(t *testing.T) {
	s := boolSchema(t)
	tag, ok := s.ResolveSpecificScalar("boolean")
	require.True(t, ok)

	_, err := ts.Represent(tag, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ts.ErrUnsupportedOperation)
	assert.True(t, ts.HasCode(err, ts.CodeUnsupportedOperation))

	_, err = ts.Represent(nil, true)
	assert.ErrorIs(t, err, ts.ErrUnsupportedOperation)
}

func TestRepresent_FailsafeString(t *testing.T) {
	out, err := ts.Represent(ts.FailsafeString, "hello")
	require.NoError(t, err)
	assert.Equal(t, ts.Scalar{Tag: ts.TagString, Value: "hello"}, out)

	_, err = ts.Represent(ts.FailsafeString, 3)
	assert.True(t, ts.HasCode(err, ts.CodeInvalidValue))
}

func TestFailsafeSchema(t *testing.T) {
	var s ts.Schema = ts.FailsafeSchema{}

	tag, ok := s.ResolveNonSpecificScalar(ts.Scalar{Value: "true"}, nil)
	require.True(t, ok)
	assert.Equal(t, ts.TagString, tag.Name())

	_, ok = s.ResolveSpecificScalar(ts.TagString)
	assert.True(t, ok)
	_, ok = s.ResolveSpecificScalar(ts.TagBool)
	assert.False(t, ok)
	_, ok = s.ResolveSpecificMapping(ts.TagMapping)
	assert.True(t, ok)
	_, ok = s.ResolveSpecificSequence(ts.TagSequence)
	assert.True(t, ok)
	_, ok = s.ResolveSpecificSequence(ts.TagMapping)
	assert.False(t, ok)

	assert.True(t, s.IsScalarTagImplicit(ts.Scalar{Tag: ts.TagString, Value: "x"}, nil))
	assert.False(t, s.IsScalarTagImplicit(ts.Scalar{Tag: ts.TagInt, Value: "1"}, nil))
	assert.True(t, s.IsMappingTagImplicit(ts.MappingStart{Tag: ts.TagMapping}, nil))
	assert.True(t, s.IsSequenceTagImplicit(ts.SequenceStart{Tag: ts.TagSequence}, nil))

	v, err := ts.ConstructScalar(s, ts.Scalar{Value: "12"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "12", v)
}
