// Package manifest generates and validates the host plugin manifest.
//
// The manifest registers one host command per entry of [command.All] and
// groups them under a Container and a Children submenu. [Validate] checks
// a manifest against an embedded schema; [FetchSchema] downloads the
// published host schema so [ValidateWith] can check against it instead.
package manifest

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/matzehuels/spacemark/pkg/command"
	"github.com/matzehuels/spacemark/pkg/errors"
	"github.com/matzehuels/spacemark/pkg/httputil"
)

// SchemaURL is where the host publishes its manifest schema.
const SchemaURL = "https://raw.githubusercontent.com/sketch-hq/SketchAPI/develop/docs/sketch-plugin-manifest-schema.json"

// Script is the bundled plugin entry point every command calls into.
const Script = "./add-spacing.js"

//go:embed schema/manifest.schema.json
var embeddedSchema []byte

// Manifest is the host plugin descriptor.
type Manifest struct {
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Author            string    `json:"author,omitempty"`
	Identifier        string    `json:"identifier"`
	Version           string    `json:"version"`
	CompatibleVersion string    `json:"compatibleVersion,omitempty"`
	BundleVersion     int       `json:"bundleVersion,omitempty"`
	Commands          []Command `json:"commands"`
	Menu              *Menu     `json:"menu,omitempty"`
}

// Command is one manifest command entry.
type Command struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Script     string `json:"script"`
	Handler    string `json:"handler,omitempty"`
}

// Menu is a (sub)menu. Items are command identifiers or nested menus.
type Menu struct {
	Title  string `json:"title,omitempty"`
	IsRoot bool   `json:"isRoot,omitempty"`
	Items  []any  `json:"items"`
}

// Generate builds a manifest for the full command set.
func Generate(name, version string) *Manifest {
	m := &Manifest{
		Name:              name,
		Description:       "Spacing annotations for fixed and dynamic layout",
		Identifier:        "com.spacemark." + slug(name),
		Version:           version,
		CompatibleVersion: "3",
		BundleVersion:     1,
	}

	menus := map[command.Kind]*Menu{
		command.Container: {Title: command.Container.String()},
		command.Children:  {Title: command.Children.String()},
	}
	for _, s := range command.All() {
		m.Commands = append(m.Commands, Command{
			Name:       s.ID(),
			Identifier: s.Slug(),
			Script:     Script,
			Handler:    handlerName(s),
		})
		menus[s.Kind].Items = append(menus[s.Kind].Items, s.Slug())
	}
	m.Menu = &Menu{
		Title: name,
		Items: []any{menus[command.Container], menus[command.Children]},
	}
	return m
}

// JSON returns the indented manifest.
func (m *Manifest) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Validate checks data against the embedded schema and reports every
// violation in one error.
func Validate(data []byte) error {
	compileOnce.Do(func() {
		compiledSchema, compileErr = compile(embeddedSchema)
	})
	if compileErr != nil {
		return fmt.Errorf("compile embedded schema: %w", compileErr)
	}
	return validate(compiledSchema, data)
}

// ValidateWith checks data against the given schema document.
func ValidateWith(schema, data []byte) error {
	s, err := compile(schema)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "invalid schema")
	}
	return validate(s, data)
}

// FetchSchema downloads a schema document through f.
func FetchSchema(ctx context.Context, f *httputil.Fetcher, url string) ([]byte, error) {
	data, err := f.Get(ctx, "schema", url)
	if err != nil {
		return nil, fmt.Errorf("fetch schema: %w", err)
	}
	if !json.Valid(data) {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "schema at %s is not JSON", url)
	}
	return data, nil
}

func compile(schema []byte) (*jsonschema.Schema, error) {
	const url = "mem://manifest.schema.json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, bytes.NewReader(schema)); err != nil {
		return nil, err
	}
	return c.Compile(url)
}

func validate(s *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "manifest is not JSON")
	}
	if err := s.Validate(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "manifest does not match schema")
	}
	return nil
}

// handlerName returns e.g. "onChildrenHorizontalFixed".
func handlerName(s command.Spec) string {
	return "on" + s.Kind.String() + strings.ReplaceAll(s.Label, " ", "")
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.':
			b.WriteByte('-')
		}
	}
	return b.String()
}
