package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRootCommandSubcommands(t *testing.T) {
	root := newTestCLI().RootCommand()

	want := []string{"annotate", "cache", "commands", "completion", "layers", "manifest", "panel", "resolve", "serve"}
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	for _, name := range want {
		found := false
		for _, g := range got {
			if g == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q (have %v)", name, got)
		}
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	root := newTestCLI().RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommandsCommand(t *testing.T) {
	out, err := execute(t, "commands")
	if err != nil {
		t.Fatalf("commands: %v", err)
	}
	for _, want := range []string{"horizontal-fixed", "[Container] All Fixed", "vertical-dynamic"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestResolveCommandJSON(t *testing.T) {
	out, err := execute(t, "resolve", "--extent", "343", "--cross", "48", "--json", "283:343", "0:24", "40:160")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	var got struct {
		Gaps []struct {
			Start float64 `json:"start"`
			End   float64 `json:"end"`
		} `json:"gaps"`
		Rectangles []struct {
			Frame struct {
				X, Y, Width, Height float64
			} `json:"frame"`
		} `json:"rectangles"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(got.Gaps) != 2 || got.Gaps[0].Start != 24 || got.Gaps[1].End != 283 {
		t.Errorf("gaps = %+v", got.Gaps)
	}
	if len(got.Rectangles) != 2 || got.Rectangles[1].Frame.Y != 12 || got.Rectangles[1].Frame.Width != 123 {
		t.Errorf("rectangles = %+v", got.Rectangles)
	}
}

func TestResolveCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing extent", []string{"resolve", "0:10"}},
		{"bad interval", []string{"resolve", "--extent", "10", "0-10"}},
		{"bad axis", []string{"resolve", "--extent", "10", "--axis", "z", "0:10"}},
		{"bad style", []string{"resolve", "--extent", "10", "--style", "loud", "0:10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}

func TestManifestGenerateCommand(t *testing.T) {
	out, err := execute(t, "manifest", "generate", "--name", "Spacing", "--version", "1.2.0")
	if err != nil {
		t.Fatalf("manifest generate: %v", err)
	}
	var m struct {
		Name     string `json:"name"`
		Version  string `json:"version"`
		Commands []any  `json:"commands"`
	}
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if diff := cmp.Diff([]any{"Spacing", "1.2.0", 8}, []any{m.Name, m.Version, len(m.Commands)}); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestLayersCommandDOT(t *testing.T) {
	out, err := execute(t, "layers", "testdata/checkout.yaml")
	if err != nil {
		t.Fatalf("layers: %v", err)
	}
	if !strings.HasPrefix(out, "digraph") {
		t.Errorf("output is not DOT:\n%s", out)
	}
	if !strings.Contains(out, `"row"`) {
		t.Error("DOT missing row layer")
	}
}

func TestLayersCommandBadFormat(t *testing.T) {
	if _, err := execute(t, "layers", "-f", "png", "testdata/checkout.yaml"); err == nil {
		t.Error("expected error for png layer tree")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"json, png", []string{"json", "png"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, parseFormats(tt.in)); diff != "" {
				t.Errorf("parseFormats(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}
