package tagschema

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
)

// TableBuilder collects (pattern, tag, constructor) declarations in the order
// they are added. Declarations that share a tag name become alternatives of one
// composite rule.
//
//	tbl, err := tagschema.NewTableBuilder().
//		Add(`true|false`, tagschema.TagBool, parseBool).
//		Add(`[0-9]+`, tagschema.TagInt, parseUint).
//		Add(`-[0-9]+`, tagschema.TagInt, parseInt).
//		Build()
type TableBuilder struct {
	entries []*patternRule
	errs    []error
}

// NewTableBuilder returns an empty builder.
func NewTableBuilder() *TableBuilder { return &TableBuilder{} }

// Add compiles pattern and declares it for tag. The pattern must match the
// whole scalar text; anchors are added when compiling.
func (b *TableBuilder) Add(pattern string, tag TagName, ctor Constructor) *TableBuilder {
	re, err := anchorPattern(pattern)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("tagschema: compile pattern %q for %s: %w", pattern, tag, err))
		return b
	}
	return b.add(re, tag, ctor)
}

// AddRegexp declares a precompiled expression for tag. The expression is
// re-anchored to whole-text matching; its own flags are kept.
func (b *TableBuilder) AddRegexp(re *regexp.Regexp, tag TagName, ctor Constructor) *TableBuilder {
	if re == nil {
		b.errs = append(b.errs, fmt.Errorf("tagschema: nil pattern for %s", tag))
		return b
	}
	anchored, err := anchorRegexp(re)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("tagschema: anchor pattern %q for %s: %w", re.String(), tag, err))
		return b
	}
	return b.add(anchored, tag, ctor)
}

func (b *TableBuilder) add(re *regexp.Regexp, tag TagName, ctor Constructor) *TableBuilder {
	if tag.IsNonSpecific() {
		b.errs = append(b.errs, fmt.Errorf("tagschema: pattern %q declared without a specific tag", re.String()))
		return b
	}
	if ctor == nil {
		b.errs = append(b.errs, fmt.Errorf("tagschema: nil constructor for %s", tag))
		return b
	}
	b.entries = append(b.entries, &patternRule{name: tag, pattern: re, constructor: ctor})
	return b
}

// Build groups the declarations by tag name. Tag names keep the order in which
// they were first declared; alternatives keep their declaration order.
func (b *TableBuilder) Build() (*Table, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	groups := make(map[TagName][]*patternRule, len(b.entries))
	var order []TagName
	for _, e := range b.entries {
		if _, seen := groups[e.name]; !seen {
			order = append(order, e.name)
		}
		groups[e.name] = append(groups[e.name], e)
	}
	t := &Table{
		names: order,
		rules: make(map[TagName]Rule, len(order)),
	}
	for _, name := range order {
		g := groups[name]
		if len(g) == 1 {
			t.rules[name] = g[0]
			continue
		}
		t.rules[name] = &compositeRule{name: name, rules: append([]*patternRule(nil), g...)}
	}
	return t, nil
}

// MustBuild is like Build but panics on error. Intended for package-level
// schema definitions with constant patterns.
func (b *TableBuilder) MustBuild() *Table {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// Table is an immutable, ordered association from tag name to rule.
type Table struct {
	names []TagName
	rules map[TagName]Rule
}

// Len returns the number of distinct tag names.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Names returns the tag names in declaration order.
func (t *Table) Names() []TagName {
	if t == nil {
		return nil
	}
	return append([]TagName(nil), t.names...)
}

// Lookup returns the rule registered for name.
func (t *Table) Lookup(name TagName) (Rule, bool) {
	if t == nil {
		return nil, false
	}
	r, ok := t.rules[name]
	return r, ok
}

// All iterates the rules in declaration order.
func (t *Table) All() iter.Seq2[TagName, Rule] {
	return func(yield func(TagName, Rule) bool) {
		if t == nil {
			return
		}
		for _, name := range t.names {
			if !yield(name, t.rules[name]) {
				return
			}
		}
	}
}
