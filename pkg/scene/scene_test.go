package scene

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/spacemark/pkg/errors"
	"github.com/matzehuels/spacemark/pkg/geom"
)

func loadCheckout(t *testing.T) *Document {
	t.Helper()
	doc, err := Load("testdata/checkout.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return doc
}

func TestLoad(t *testing.T) {
	doc := loadCheckout(t)
	if doc.Name != "Checkout" {
		t.Errorf("Name = %q", doc.Name)
	}
	ix := doc.Index()
	if ix.Len() != 6 {
		t.Errorf("Len() = %d, want 6", ix.Len())
	}
	label, ok := ix.Find("label")
	if !ok {
		t.Fatal("label not found")
	}
	if label.Type != TypeText || len(label.Fragments) != 1 {
		t.Errorf("label = %+v", label)
	}
	if p := ix.Parent(label); p == nil || p.ID != "row" {
		t.Errorf("Parent(label) = %v, want row", p)
	}
	if board, _ := ix.Find("board"); ix.Parent(board) != nil {
		t.Error("top-level layer should have no parent")
	}
	if pg := ix.Page(label); pg == nil || pg.ID != "p1" {
		t.Errorf("Page(label) = %v", pg)
	}
}

func TestDecodeJSON(t *testing.T) {
	src := `{"pages":[{"id":"p","layers":[{"id":"a","type":"Artboard","frame":{"x":0,"y":0,"width":10,"height":10}}]}],"selection":["a"]}`
	doc, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := len(doc.Index().Selected()); got != 1 {
		t.Errorf("Selected() = %d layers, want 1", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", "empty document"},
		{"duplicate", "pages: [{id: p, layers: [{id: a, type: Group}, {id: a, type: Text}]}]", "duplicate layer id"},
		{"unknown type", "pages: [{id: p, layers: [{id: a, type: Blob}]}]", "unknown type"},
		{"missing id", "pages: [{id: p, layers: [{type: Group}]}]", "without id"},
		{"bad selection", "selection: [zz]\npages: [{id: p, layers: [{id: a, type: Group}]}]", "unknown layer"},
		{"unknown field", "pages: []\ncolor: red", "decode scene"},
		{"inf frame", "pages: [{id: p, layers: [{id: a, type: Group, frame: {width: .inf}}]}]", "non-finite frame"},
		{"nan frame", "pages: [{id: p, layers: [{id: a, type: Group, frame: {x: .nan}}]}]", "non-finite frame"},
		{"inf fragment", "pages: [{id: p, layers: [{id: a, type: Text, fragments: [{x: 0, width: -.inf}]}]}]", "non-finite fragment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidScene) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidScene)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir() + "/nope.yaml")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestArtboardAndTransforms(t *testing.T) {
	doc := loadCheckout(t)
	ix := doc.Index()
	label, _ := ix.Find("label")
	row, _ := ix.Find("row")
	board, _ := ix.Find("board")
	loose, _ := ix.Find("loose")

	if ab := ix.Artboard(label); ab != board {
		t.Errorf("Artboard(label) = %v, want board", ab)
	}
	if ab := ix.Artboard(board); ab != board {
		t.Error("an artboard is its own artboard")
	}
	if ab := ix.Artboard(loose); ab != nil {
		t.Errorf("Artboard(loose) = %v, want nil", ab)
	}

	frag := label.Fragments[0]
	if diff := cmp.Diff(geom.Rect{X: 40, Y: 14, Width: 120, Height: 20}, ix.LocalToParent(label, frag)); diff != "" {
		t.Errorf("LocalToParent mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geom.Rect{X: 56, Y: 114, Width: 120, Height: 20}, ix.ToArtboard(label, frag)); diff != "" {
		t.Errorf("ToArtboard mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geom.Rect{X: 16, Y: 100, Width: 343, Height: 48}, ix.ToArtboard(row, row.Bounds())); diff != "" {
		t.Errorf("ToArtboard(row) mismatch (-want +got):\n%s", diff)
	}
}

func TestLineFragments(t *testing.T) {
	doc := loadCheckout(t)
	price, _ := doc.Index().Find("price")
	got := price.LineFragments()
	want := []geom.Rect{{Width: 60, Height: 20}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LineFragments mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		selection []string
		code      errors.Code
		msg       string
	}{
		{"ok", []string{"row"}, "", ""},
		{"empty", nil, errors.ErrCodeEmptySelection, MsgEmptySelection},
		{"no artboard", []string{"loose"}, errors.ErrCodeNoArtboard, MsgNoArtboard},
		{"multiple", []string{"row", "icon"}, errors.ErrCodeMultipleSelection, MsgMultipleSelection},
		{"first wins", []string{"loose", "row"}, errors.ErrCodeNoArtboard, MsgNoArtboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := loadCheckout(t)
			doc.Selection = tt.selection
			err := Validate(doc)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Fatalf("code = %v, want %v", errors.GetCode(err), tt.code)
			}
			if errors.UserMessage(err) != tt.msg {
				t.Errorf("message = %q, want %q", errors.UserMessage(err), tt.msg)
			}
			if IsWarning(err) != (tt.code == errors.ErrCodeMultipleSelection) {
				t.Errorf("IsWarning = %v", IsWarning(err))
			}
		})
	}
}

func TestValidateDisallowedType(t *testing.T) {
	doc := &Document{
		Pages: []*Page{{ID: "p", Layers: []*Layer{
			{ID: "a", Type: TypeArtboard, Layers: []*Layer{{ID: "pg", Type: TypePage}}},
		}}},
		Selection: []string{"pg"},
	}
	err := Validate(doc)
	if !errors.Is(err, errors.ErrCodeLayerNotAllowed) {
		t.Fatalf("err = %v", err)
	}
	if got := errors.UserMessage(err); got != "Currently Page selection is not allowed." {
		t.Errorf("message = %q", got)
	}
}

func TestAllowedSelection(t *testing.T) {
	for _, typ := range knownTypes {
		want := typ != TypePage
		if got := AllowedSelection(typ); got != want {
			t.Errorf("AllowedSelection(%s) = %v, want %v", typ, got, want)
		}
	}
	if AllowedSelection("Blob") {
		t.Error("unknown types are not selectable")
	}
}

func mustHash(t *testing.T, d *Document) string {
	t.Helper()
	h, err := Hash(d)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	return h
}

func TestHashStable(t *testing.T) {
	a := loadCheckout(t)
	b := loadCheckout(t)
	if mustHash(t, a) != mustHash(t, b) {
		t.Error("same content should hash equally")
	}
	b.Selection = []string{"icon"}
	if mustHash(t, a) == mustHash(t, b) {
		t.Error("selection change should change the hash")
	}
}

func TestHashNonFinite(t *testing.T) {
	doc := loadCheckout(t)
	doc.Pages[0].Layers[0].Frame.Width = math.Inf(1)
	if _, err := Hash(doc); !errors.Is(err, errors.ErrCodeInvalidScene) {
		t.Errorf("err = %v, want INVALID_SCENE", err)
	}
}

func TestWalk(t *testing.T) {
	doc := loadCheckout(t)
	var ids []string
	doc.Walk(func(l *Layer, depth int) bool {
		ids = append(ids, strings.Repeat(".", depth)+l.ID)
		return true
	})
	want := []string{"board", ".row", "..icon", "..label", "..price", "loose"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("Walk order mismatch (-want +got):\n%s", diff)
	}
}
