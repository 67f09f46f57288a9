package yamlnode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	ts "github.com/reoring/tagschema"
)

// DefaultMaxDepth bounds nesting (aliases included) when Options.MaxDepth is 0.
const DefaultMaxDepth = 512

// Options configures decoding.
type Options struct {
	// FailFast stops at the first issue instead of collecting all of them.
	FailFast bool
	// MaxDepth limits collection and alias nesting; 0 means DefaultMaxDepth.
	MaxDepth int
	// RejectDuplicateKeys reports a duplicate_key issue for repeated mapping
	// keys. Otherwise the last occurrence wins.
	RejectDuplicateKeys bool
}

func mergeOpts(opts []Options) Options {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// Decode builds a native value from n, resolving every node through s.
// Mappings become map[string]any, sequences []any, and scalars whatever the
// resolved tag constructs. Resolution and construction failures are returned
// as tagschema.Issues located with JSON Pointers; constructor errors that are
// not Issues are attached as the cause of an invalid_value issue.
func Decode(ctx context.Context, s ts.Schema, n *yaml.Node, opts ...Options) (any, error) {
	d := &decoder{ctx: ctx, schema: s, opt: mergeOpts(opts)}
	v, err := d.node(n, nil, ts.RootRef(), 0)
	if err != nil {
		return nil, err
	}
	if len(d.issues) > 0 {
		return nil, d.issues
	}
	return v, nil
}

// Unmarshal decodes every document of a YAML stream. In collect mode the
// issues of all documents are returned together.
func Unmarshal(ctx context.Context, s ts.Schema, data []byte, opts ...Options) ([]any, error) {
	o := mergeOpts(opts)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var (
		docs   []any
		issues ts.Issues
	)
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return docs, fmt.Errorf("yamlnode: parse document %d: %w", len(docs), err)
		}
		v, err := Decode(ctx, s, &doc, o)
		if err != nil {
			iss, ok := ts.AsIssues(err)
			if !ok || o.FailFast {
				return docs, err
			}
			issues = ts.AppendIssues(issues, iss...)
		}
		docs = append(docs, v)
	}
	if len(issues) > 0 {
		return docs, issues
	}
	return docs, nil
}

type decoder struct {
	ctx    context.Context
	schema ts.Schema
	opt    Options
	issues ts.Issues

	// nodes counts every node visited; aliased counts those visited while
	// expanding an alias.
	nodes      int
	aliased    int
	aliasDepth int
}

// allowedAliasRatio bounds aliased/nodes. Small documents may consist almost
// entirely of alias expansions; large ones must not.
func allowedAliasRatio(nodes int) float64 {
	switch {
	case nodes <= 400_000:
		return 0.99
	case nodes >= 4_000_000:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(nodes-400_000)/3_600_000)
	}
}

func (d *decoder) excessiveAliasing() bool {
	return d.aliased > 100 && d.nodes > 1000 &&
		float64(d.aliased)/float64(d.nodes) > allowedAliasRatio(d.nodes)
}

// fatal records an issue that stops decoding in either mode.
func (d *decoder) fatal(it ts.Issue) error {
	d.issues = ts.AppendIssues(d.issues, it)
	return d.issues
}

// report records an issue. It returns a non-nil error when decoding must stop.
func (d *decoder) report(it ts.Issue) error {
	d.issues = ts.AppendIssues(d.issues, it)
	if d.opt.FailFast {
		return d.issues
	}
	return nil
}

func (d *decoder) node(n *yaml.Node, path ts.Path, ref ts.PathRef, depth int) (any, error) {
	if n == nil {
		return nil, nil
	}
	if depth > d.opt.MaxDepth {
		it := ts.IssueFor(ts.CodeDepthExceeded, "", "", map[string]any{"max": d.opt.MaxDepth})
		return nil, d.fatal(it.At(ref))
	}
	d.nodes++
	if d.aliasDepth > 0 {
		d.aliased++
	}
	if d.excessiveAliasing() {
		it := ts.IssueFor(ts.CodeExcessiveAliasing, "", "", map[string]any{"nodes": d.nodes, "aliased": d.aliased})
		return nil, d.fatal(it.At(ref))
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.node(n.Content[0], path, ref, depth)
	case yaml.AliasNode:
		d.aliasDepth++
		v, err := d.node(n.Alias, path, ref, depth+1)
		d.aliasDepth--
		return v, err
	case yaml.MappingNode:
		return d.mapping(n, path, ref, depth)
	case yaml.SequenceNode:
		return d.sequence(n, path, ref, depth)
	case yaml.ScalarNode:
		return d.scalar(n, path, ref)
	default:
		return nil, nil
	}
}

func (d *decoder) scalar(n *yaml.Node, path ts.Path, ref ts.PathRef) (any, error) {
	ev := ScalarOf(n)
	v, err := ts.ConstructScalar(d.schema, ev, path)
	if err == nil {
		return v, nil
	}
	iss, ok := ts.AsIssues(err)
	if !ok {
		iss = ts.Issues{ts.IssueFor(ts.CodeInvalidValue, ev.Tag, ev.Value, nil).WithCause(err)}
	}
	for _, it := range iss {
		if it.Path == "" || it.Path == "/" {
			it = it.At(ref)
		}
		if stop := d.report(it); stop != nil {
			return nil, stop
		}
	}
	return nil, nil
}

func (d *decoder) mapping(n *yaml.Node, path ts.Path, ref ts.PathRef, depth int) (any, error) {
	if err := d.ctx.Err(); err != nil {
		return nil, err
	}
	ev := MappingStartOf(n)
	if !d.resolveMapping(ev, path) {
		if stop := d.report(ts.IssueFor(ts.CodeUnresolvableTag, ev.Tag, "", nil).At(ref)); stop != nil {
			return nil, stop
		}
	}
	inner := path.Push(ev)
	out := make(map[string]any, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, err := d.node(n.Content[i], inner, ref, depth+1)
		if err != nil {
			return nil, err
		}
		key := keyString(k)
		if _, dup := out[key]; dup && d.opt.RejectDuplicateKeys {
			if stop := d.report(ts.IssueFor(ts.CodeDuplicateKey, "", key, nil).At(ref.Field(key))); stop != nil {
				return nil, stop
			}
		}
		v, err := d.node(n.Content[i+1], inner, ref.Field(key), depth+1)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func (d *decoder) sequence(n *yaml.Node, path ts.Path, ref ts.PathRef, depth int) (any, error) {
	if err := d.ctx.Err(); err != nil {
		return nil, err
	}
	ev := SequenceStartOf(n)
	if !d.resolveSequence(ev, path) {
		if stop := d.report(ts.IssueFor(ts.CodeUnresolvableTag, ev.Tag, "", nil).At(ref)); stop != nil {
			return nil, stop
		}
	}
	inner := path.Push(ev)
	out := make([]any, 0, len(n.Content))
	for i, c := range n.Content {
		v, err := d.node(c, inner, ref.Index(i), depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// resolveMapping accepts the generic mapping tag even when the schema defines
// no specific collection tags.
func (d *decoder) resolveMapping(ev ts.MappingStart, path ts.Path) bool {
	if ev.Tag.IsNonSpecific() {
		_, ok := d.schema.ResolveNonSpecificMapping(ev, path)
		return ok
	}
	if _, ok := d.schema.ResolveSpecificMapping(ev.Tag); ok {
		return true
	}
	return ev.Tag == ts.TagMapping
}

func (d *decoder) resolveSequence(ev ts.SequenceStart, path ts.Path) bool {
	if ev.Tag.IsNonSpecific() {
		_, ok := d.schema.ResolveNonSpecificSequence(ev, path)
		return ok
	}
	if _, ok := d.schema.ResolveSpecificSequence(ev.Tag); ok {
		return true
	}
	return ev.Tag == ts.TagSequence
}

func keyString(k any) string {
	switch t := k.(type) {
	case string:
		return t
	case nil:
		return "null"
	default:
		return fmt.Sprint(t)
	}
}
