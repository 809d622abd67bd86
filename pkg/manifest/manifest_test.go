package manifest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/spacemark/pkg/command"
	"github.com/matzehuels/spacemark/pkg/errors"
	"github.com/matzehuels/spacemark/pkg/httputil"
)

func TestGenerate(t *testing.T) {
	m := Generate("Spacing Marks", "1.2.0")

	if m.Identifier != "com.spacemark.spacing-marks" {
		t.Errorf("Identifier = %q", m.Identifier)
	}
	if len(m.Commands) != len(command.All()) {
		t.Fatalf("got %d commands, want %d", len(m.Commands), len(command.All()))
	}
	first := m.Commands[0]
	if first.Name != "[Container] All Fixed" || first.Identifier != "all-fixed" || first.Handler != "onContainerAllFixed" {
		t.Errorf("first command = %+v", first)
	}
	last := m.Commands[len(m.Commands)-1]
	if last.Handler != "onChildrenVerticalDynamic" {
		t.Errorf("last handler = %q", last.Handler)
	}

	if m.Menu == nil || len(m.Menu.Items) != 2 {
		t.Fatalf("menu = %+v", m.Menu)
	}
	children := m.Menu.Items[1].(*Menu)
	if children.Title != "Children" || len(children.Items) != 4 {
		t.Errorf("children menu = %+v", children)
	}
}

func TestGeneratedManifestValidates(t *testing.T) {
	data, err := Generate("spacemark", "0.1.0").JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if err := Validate(data); err != nil {
		t.Errorf("generated manifest should validate: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"missing commands", `{"name":"x","identifier":"x","version":"1"}`},
		{"empty commands", `{"name":"x","identifier":"x","version":"1","commands":[]}`},
		{"bad identifier", `{"name":"x","identifier":"a b","version":"1","commands":[{"name":"c","identifier":"c","script":"s.js"}]}`},
		{"command without script", `{"name":"x","identifier":"x","version":"1","commands":[{"name":"c","identifier":"c"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.data))
			if !errors.Is(err, errors.ErrCodeInvalidManifest) {
				t.Errorf("err = %v, want INVALID_MANIFEST", err)
			}
		})
	}
}

func TestValidateWith(t *testing.T) {
	schema := `{"type":"object","required":["name"]}`
	if err := ValidateWith([]byte(schema), []byte(`{"name":"x"}`)); err != nil {
		t.Errorf("ValidateWith: %v", err)
	}
	if err := ValidateWith([]byte(schema), []byte(`{}`)); err == nil {
		t.Error("missing name should fail")
	}
	if err := ValidateWith([]byte(`{"type": 12}`), []byte(`{}`)); !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("bad schema: err = %v", err)
	}
}

func TestFetchSchema(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/bad") {
			w.Write([]byte("<html>"))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"type": "object"})
	}))
	defer srv.Close()

	f := httputil.NewFetcher(nil, nil)
	data, err := FetchSchema(context.Background(), f, srv.URL+"/schema.json")
	if err != nil {
		t.Fatalf("FetchSchema: %v", err)
	}
	if err := ValidateWith(data, []byte(`{}`)); err != nil {
		t.Errorf("fetched schema should accept an object: %v", err)
	}

	if _, err := FetchSchema(context.Background(), f, srv.URL+"/bad"); !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("non-JSON schema: err = %v", err)
	}
}

func TestSchemaURL(t *testing.T) {
	if !strings.HasPrefix(SchemaURL, "https://") {
		t.Errorf("SchemaURL = %q", SchemaURL)
	}
}
