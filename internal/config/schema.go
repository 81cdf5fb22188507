package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

type format int

const (
	formatJSON format = iota
	formatYAML
	formatTOML
)

const schemaResource = "descriptor.schema.json"

//go:embed schema/descriptor.schema.json
var schemaBytes []byte

//nolint:gochecknoglobals // The embedded schema is compiled once per process.
var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// formatOf picks the decoder from the descriptor file extension.
func formatOf(source string) (format, error) {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json", "":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnknownFormat, filepath.Ext(source))
	}
}

// getSchema compiles the embedded descriptor schema once.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err = c.AddResource(schemaResource, doc); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		compiledSchema, compileErr = c.Compile(schemaResource)
	})

	return compiledSchema, compileErr
}

// validateSchema checks raw descriptor contents against the embedded schema.
func validateSchema(contents []byte, f format) error {
	schema, err := getSchema()
	if err != nil {
		return err
	}

	jsonData := contents

	if f != formatJSON {
		var raw any

		if f == formatTOML {
			err = toml.Unmarshal(contents, &raw)
		} else {
			err = yaml.Unmarshal(contents, &raw)
		}

		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}

		if jsonData, err = json.Marshal(normalize(raw)); err != nil {
			return fmt.Errorf("convert to JSON: %w", err)
		}
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if err = schema.Validate(inst); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("schema: %s", strings.Join(leafMessages(validationErr), "; "))
		}

		return err
	}

	return nil
}

// leafMessages flattens a validation error tree into "location: message" lines.
func leafMessages(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		return []string{"/" + strings.Join(ve.InstanceLocation, "/") + ": " + ve.Error()}
	}

	var messages []string
	for _, cause := range ve.Causes {
		messages = append(messages, leafMessages(cause)...)
	}

	return messages
}

// normalize converts YAML's map[any]any nodes into JSON-compatible maps.
func normalize(v any) any {
	switch node := v.(type) {
	case map[string]any:
		for key, value := range node {
			node[key] = normalize(value)
		}

		return node
	case map[any]any:
		out := make(map[string]any, len(node))
		for key, value := range node {
			out[fmt.Sprint(key)] = normalize(value)
		}

		return out
	case []any:
		for i, value := range node {
			node[i] = normalize(value)
		}

		return node
	default:
		return v
	}
}
