// Package exchange reads and writes export bundles and feedback payloads as
// JSON or YAML. Every document is checked against an embedded JSON Schema
// before it is decoded.
package exchange

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/gengoka/internal/learning"
)

// Format is a serialization format for bundle files.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
}

// FormatFromPath picks a format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

//go:embed bundle.schema.json
var bundleSchemaDoc []byte

const bundleSchemaURL = "schema://gengoka/bundle.schema.json"

// Schema locations within the embedded document.
const (
	schemaBundle   = bundleSchemaURL
	schemaFeedback = bundleSchemaURL + "#/$defs/feedback"
)

// schemaCache caches compiled JSON schemas by location.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(loc string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(loc); ok {
		return cached.(*jsonschema.Schema), nil
	}

	var doc any
	if err := json.Unmarshal(bundleSchemaDoc, &doc); err != nil {
		return nil, fmt.Errorf("parse schema document: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(bundleSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(loc)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", loc, err)
	}

	schemaCache.Store(loc, compiled)
	return compiled, nil
}

// Encode writes b to w. JSON output is indented.
func Encode(w io.Writer, b *learning.ExportBundle, format Format) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	case FormatYAML:
		// Go through JSON so YAML keys match the JSON field names.
		raw, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal bundle: %w", err)
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("reparse bundle: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", format)
}

// Decode reads a JSON or YAML bundle from r and validates it against the
// bundle schema. Semantic checks (version, ids, phases) happen on import.
func Decode(r io.Reader) (*learning.ExportBundle, error) {
	var b learning.ExportBundle
	if err := decodeValidated(r, schemaBundle, "bundle", &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// DecodeFeedback reads a JSON or YAML feedback payload from r.
func DecodeFeedback(r io.Reader) (*learning.Feedback, error) {
	var f learning.Feedback
	if err := decodeValidated(r, schemaFeedback, "feedback", &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func decodeValidated(r io.Reader, loc, field string, v any) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read %s: %w", field, err)
	}
	doc, err := toJSON(raw)
	if err != nil {
		return &learning.ErrValidation{Field: field, Reason: err.Error()}
	}

	var parsed any
	if err := json.Unmarshal(doc, &parsed); err != nil {
		return &learning.ErrValidation{Field: field, Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	compiled, err := getCompiledSchema(loc)
	if err != nil {
		return err
	}
	if err := compiled.Validate(parsed); err != nil {
		return &learning.ErrValidation{Field: field, Reason: fmt.Sprintf("schema validation failed: %v", err)}
	}

	if err := json.Unmarshal(doc, v); err != nil {
		return &learning.ErrValidation{Field: field, Reason: err.Error()}
	}
	return nil
}

// toJSON returns raw unchanged when it looks like JSON, otherwise parses it
// as YAML and re-encodes it as JSON.
func toJSON(raw []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return trimmed, nil
	}
	var doc any
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert YAML: %w", err)
	}
	return out, nil
}
