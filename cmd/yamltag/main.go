package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	ts "github.com/reoring/tagschema"
	"github.com/reoring/tagschema/i18n"
	"github.com/reoring/tagschema/schemas"
	"github.com/reoring/tagschema/yamlnode"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "decode":
		return decodeCmd(ctx, args[1:], stdin, stdout, stderr)
	case "normalize":
		return normalizeCmd(args[1:], stdin, stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "yamltag CLI\n\nUsage:\n  yamltag decode [-schema core|json|failsafe] [-fail-fast] [-max-depth N] [-strict-keys] [-indent] [file]\n  yamltag normalize [-schema core|json|failsafe] [file]\n\nNotes:\n  - Reads stdin when no file is given.\n  - decode prints one JSON document per line.")
}

// common holds the flags shared by every subcommand.
type common struct {
	schema  string
	lang    string
	verbose bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.schema, "schema", "core", "tag schema: core, json or failsafe")
	fs.StringVar(&c.lang, "lang", "en", "message language: en or ja")
	fs.BoolVar(&c.verbose, "v", false, "enable debug logs")
}

func (c *common) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func schemaByName(name string) (ts.Schema, error) {
	switch name {
	case "core":
		return schemas.Core(), nil
	case "json":
		return schemas.JSON(), nil
	case "failsafe":
		return ts.FailsafeSchema{}, nil
	default:
		return nil, fmt.Errorf("unknown schema %q", name)
	}
}

func readInput(fs *flag.FlagSet, stdin io.Reader) ([]byte, string, error) {
	if fs.NArg() == 0 || fs.Arg(0) == "-" {
		b, err := io.ReadAll(stdin)
		return b, "<stdin>", err
	}
	b, err := os.ReadFile(fs.Arg(0))
	return b, fs.Arg(0), err
}

func decodeCmd(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	var opt yamlnode.Options
	var indent bool
	c.register(fs)
	fs.BoolVar(&opt.FailFast, "fail-fast", false, "stop at the first issue")
	fs.IntVar(&opt.MaxDepth, "max-depth", yamlnode.DefaultMaxDepth, "maximum nesting depth")
	fs.BoolVar(&indent, "indent", false, "indent JSON output")
	fs.BoolVar(&opt.RejectDuplicateKeys, "strict-keys", false, "reject duplicate mapping keys")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	log := c.logger(stderr)
	i18n.SetLanguage(c.lang)

	s, err := schemaByName(c.schema)
	if err != nil {
		fmt.Fprintf(stderr, "decode: %v\n", err)
		return 2
	}
	data, name, err := readInput(fs, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "decode: reading input: %v\n", err)
		return 1
	}
	log.Debug("decoding", "component", "yamltag", "input", name, "schema", c.schema, "bytes", len(data))

	docs, err := yamlnode.Unmarshal(ctx, s, data, opt)
	if err != nil {
		reportError(stderr, name, err)
		log.Debug("decode failed", "component", "yamltag", "input", name, "documents", len(docs), "error", err)
		return 1
	}
	for _, doc := range docs {
		var out []byte
		if indent {
			out, err = json.MarshalIndent(doc, "", "  ")
		} else {
			out, err = json.Marshal(doc)
		}
		if err != nil {
			fmt.Fprintf(stderr, "decode: encoding JSON: %v\n", err)
			return 1
		}
		out = append(out, '\n')
		if _, err := stdout.Write(out); err != nil {
			fmt.Fprintf(stderr, "decode: writing output: %v\n", err)
			return 1
		}
	}
	log.Debug("decoded", "component", "yamltag", "input", name, "documents", len(docs))
	return 0
}

func normalizeCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("normalize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	log := c.logger(stderr)
	i18n.SetLanguage(c.lang)

	s, err := schemaByName(c.schema)
	if err != nil {
		fmt.Fprintf(stderr, "normalize: %v\n", err)
		return 2
	}
	data, name, err := readInput(fs, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "normalize: reading input: %v\n", err)
		return 1
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	removed := 0
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			fmt.Fprintf(stderr, "normalize: %s: %v\n", name, err)
			return 1
		}
		removed += yamlnode.StripImplicitTags(s, &doc)
		if err := enc.Encode(&doc); err != nil {
			fmt.Fprintf(stderr, "normalize: encoding YAML: %v\n", err)
			return 1
		}
	}
	if err := enc.Close(); err != nil {
		fmt.Fprintf(stderr, "normalize: encoding YAML: %v\n", err)
		return 1
	}
	log.Debug("normalized", "component", "yamltag", "input", name, "schema", c.schema, "tags_removed", removed)
	return 0
}

func reportError(w io.Writer, name string, err error) {
	iss, ok := ts.AsIssues(err)
	if !ok {
		fmt.Fprintf(w, "%s: %v\n", name, err)
		return
	}
	for _, it := range iss {
		fmt.Fprintf(w, "%s:%s: %s: %s\n", name, it.Path, it.Code, it.Message)
	}
}
