package docs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cratelore/cratelore/internal/corpus"
)

func strPtr(s string) *string { return &s }

func pub() json.RawMessage { return json.RawMessage(`"public"`) }

func TestBuildGraph_ModuleTree(t *testing.T) {
	t.Parallel()

	crate := &RustdocCrate{
		Root: 0,
		Index: map[string]RustdocItem{
			"0": {ID: 0, Name: strPtr("mycrate"), Visibility: pub(), Docs: strPtr("The crate."),
				Inner: json.RawMessage(`{"module":{"items":[1,2]}}`)},
			"1": {ID: 1, Name: strPtr("util"), Visibility: pub(),
				Inner: json.RawMessage(`{"module":{"items":[3]}}`)},
			"2": {ID: 2, Name: strPtr("f"), Visibility: pub(), Docs: strPtr("Does X."),
				Inner: json.RawMessage(`{"function":{}}`)},
			"3": {ID: 3, Name: strPtr("g"), Visibility: json.RawMessage(`"crate"`),
				Inner: json.RawMessage(`{"function":{}}`)},
		},
		Paths: map[string]RustdocSummary{
			"0": {CrateID: 0, Path: []string{"mycrate"}, Kind: "module"},
			"1": {CrateID: 0, Path: []string{"mycrate", "util"}, Kind: "module"},
			"2": {CrateID: 0, Path: []string{"mycrate", "f"}, Kind: "function"},
		},
	}

	g := BuildGraph(crate, "mycrate", "1.0.0")

	root, err := g.RootItem()
	if err != nil {
		t.Fatalf("RootItem: %v", err)
	}
	if root.Kind != corpus.KindModule || !root.Public || root.Docs != "The crate." {
		t.Errorf("root = %+v", root)
	}
	if len(root.Children) != 2 {
		t.Fatalf("root children = %v", root.Children)
	}

	f, ok := g.Get("2")
	if !ok {
		t.Fatal("function f missing from graph")
	}
	if f.Kind != corpus.KindFunction || f.Name() != "f" {
		t.Errorf("f = %+v", f)
	}

	hidden, ok := g.Get("3")
	if !ok {
		t.Fatal("crate-visible item should still convert")
	}
	if hidden.Public {
		t.Error("pub(crate) item converted as public")
	}
}

func TestBuildGraph_StructMembers(t *testing.T) {
	t.Parallel()

	crate := &RustdocCrate{
		Root: 0,
		Index: map[string]RustdocItem{
			"0": {ID: 0, Name: strPtr("mycrate"), Visibility: pub(),
				Inner: json.RawMessage(`{"module":{"items":[1]}}`)},
			"1": {ID: 1, Name: strPtr("Command"), Visibility: pub(), Docs: strPtr("A builder."),
				Inner: json.RawMessage(`{"struct":{"kind":{"plain":{"fields":[]}},"impls":[2]}}`)},
			"2": {ID: 2, Visibility: json.RawMessage(`"default"`),
				Inner: json.RawMessage(`{"impl":{"items":[3]}}`)},
			"3": {ID: 3, Name: strPtr("new"), Visibility: pub(), Docs: strPtr("Creates a Command."),
				Inner: json.RawMessage(`{"function":{}}`)},
		},
		Paths: map[string]RustdocSummary{
			"0": {CrateID: 0, Path: []string{"mycrate"}, Kind: "module"},
			"1": {CrateID: 0, Path: []string{"mycrate", "Command"}, Kind: "struct"},
		},
	}

	g := BuildGraph(crate, "mycrate", "1.0.0")

	method, ok := g.Get("3")
	if !ok {
		t.Fatal("method missing from graph")
	}
	if method.Kind != corpus.KindMethod {
		t.Errorf("method kind = %s, want method (functions in impl bodies are members)", method.Kind)
	}
	wantPath := []string{"mycrate", "Command", "new"}
	if len(method.Path) != 3 || method.Path[2] != "new" {
		t.Errorf("method path = %v, want %v", method.Path, wantPath)
	}

	impl, _ := g.Get("2")
	if impl.Kind != corpus.KindImpl {
		t.Errorf("impl kind = %s", impl.Kind)
	}
	if got := impl.Path; len(got) != 2 || got[1] != "Command" {
		t.Errorf("unnamed impl should stay on the container path, got %v", got)
	}
}

func TestBuildGraph_ReexportTarget(t *testing.T) {
	t.Parallel()

	// Item defined in a private module, surfaced only through pub use.
	crate := &RustdocCrate{
		Root: 0,
		Index: map[string]RustdocItem{
			"0": {ID: 0, Name: strPtr("mycrate"), Visibility: pub(),
				Inner: json.RawMessage(`{"module":{"items":[1]}}`)},
			"1": {ID: 1, Name: strPtr("Thing"), Visibility: pub(),
				Inner: json.RawMessage(`{"use":{"name":"Thing","id":5,"is_glob":false}}`)},
			"5": {ID: 5, Name: strPtr("Thing"), Visibility: pub(), Docs: strPtr("A thing."),
				Inner: json.RawMessage(`{"struct":{"kind":"unit","impls":[]}}`)},
		},
		Paths: map[string]RustdocSummary{
			"0": {CrateID: 0, Path: []string{"mycrate"}, Kind: "module"},
			"5": {CrateID: 0, Path: []string{"mycrate", "detail", "Thing"}, Kind: "struct"},
		},
	}

	g := BuildGraph(crate, "mycrate", "1.0.0")

	use, ok := g.Get("1")
	if !ok || use.Kind != corpus.KindUse {
		t.Fatalf("use item = %+v", use)
	}
	if use.Target != "5" {
		t.Errorf("use target = %q, want 5", use.Target)
	}

	target, ok := g.Get("5")
	if !ok {
		t.Fatal("re-export target not converted")
	}
	if len(target.Path) != 3 || target.Path[1] != "detail" {
		t.Errorf("target path = %v, want the paths-table path", target.Path)
	}
}

func TestBuildGraph_ExternalTargetOmitted(t *testing.T) {
	t.Parallel()

	crate := &RustdocCrate{
		Root: 0,
		Index: map[string]RustdocItem{
			"0": {ID: 0, Name: strPtr("mycrate"), Visibility: pub(),
				Inner: json.RawMessage(`{"module":{"items":[1]}}`)},
			"1": {ID: 1, Name: strPtr("Value"), Visibility: pub(),
				Inner: json.RawMessage(`{"use":{"name":"Value","id":100,"is_glob":false}}`)},
		},
		Paths: map[string]RustdocSummary{
			"0":   {CrateID: 0, Path: []string{"mycrate"}, Kind: "module"},
			"100": {CrateID: 7, Path: []string{"dep", "Value"}, Kind: "struct"},
		},
	}

	g := BuildGraph(crate, "mycrate", "1.0.0")
	if _, ok := g.Get("100"); ok {
		t.Error("external re-export target must not be converted")
	}
}

func TestBuildGraph_VersionFromCrate(t *testing.T) {
	t.Parallel()

	v := "2.3.4"
	crate := &RustdocCrate{
		Root:         0,
		CrateVersion: &v,
		Index: map[string]RustdocItem{
			"0": {ID: 0, Name: strPtr("mycrate"), Visibility: pub(),
				Inner: json.RawMessage(`{"module":{"items":[]}}`)},
		},
	}

	if g := BuildGraph(crate, "mycrate", ""); g.CrateVersion != "2.3.4" {
		t.Errorf("CrateVersion = %q, want 2.3.4", g.CrateVersion)
	}
	if g := BuildGraph(crate, "mycrate", "9.9.9"); g.CrateVersion != "9.9.9" {
		t.Errorf("explicit version not honored: %q", g.CrateVersion)
	}
}

func TestIsPublic(t *testing.T) {
	tests := []struct {
		vis  string
		want bool
	}{
		{`"public"`, true},
		{`"default"`, false},
		{`"crate"`, false},
		{`{"restricted":{"parent":3,"path":"::detail"}}`, false},
		{``, false},
	}
	for _, tt := range tests {
		it := RustdocItem{Visibility: json.RawMessage(tt.vis)}
		if got := it.IsPublic(); got != tt.want {
			t.Errorf("IsPublic(%s) = %v, want %v", tt.vis, got, tt.want)
		}
	}
}

func TestBuildGraph_ImplVisibilityInherited(t *testing.T) {
	t.Parallel()

	// rustdoc marks impl blocks, variants, and trait items "default";
	// they take their container's visibility instead of being private.
	crate := &RustdocCrate{
		Root: 0,
		Index: map[string]RustdocItem{
			"0": {ID: 0, Name: strPtr("mycrate"), Visibility: pub(),
				Inner: json.RawMessage(`{"module":{"items":[1,4,6]}}`)},
			"1": {ID: 1, Name: strPtr("Command"), Visibility: pub(),
				Inner: json.RawMessage(`{"struct":{"kind":{"plain":{"fields":[]}},"impls":[2]}}`)},
			"2": {ID: 2, Visibility: json.RawMessage(`"default"`),
				Inner: json.RawMessage(`{"impl":{"items":[3]}}`)},
			"3": {ID: 3, Name: strPtr("fmt"), Visibility: json.RawMessage(`"default"`),
				Inner: json.RawMessage(`{"function":{}}`)},
			"4": {ID: 4, Name: strPtr("Mode"), Visibility: pub(),
				Inner: json.RawMessage(`{"enum":{"variants":[5],"impls":[]}}`)},
			"5": {ID: 5, Name: strPtr("Fast"), Visibility: json.RawMessage(`"default"`),
				Inner: json.RawMessage(`{"variant":{}}`)},
			"6": {ID: 6, Name: strPtr("Run"), Visibility: pub(),
				Inner: json.RawMessage(`{"trait":{"items":[7]}}`)},
			"7": {ID: 7, Name: strPtr("run"), Visibility: json.RawMessage(`"default"`),
				Inner: json.RawMessage(`{"function":{}}`)},
		},
	}

	g := BuildGraph(crate, "mycrate", "1.0.0")

	for id, what := range map[corpus.ID]string{
		"2": "impl block",
		"3": "trait-impl method",
		"5": "enum variant",
		"7": "trait item",
	} {
		it, ok := g.Get(id)
		if !ok {
			t.Fatalf("%s missing from graph", what)
		}
		if !it.Public {
			t.Errorf("%s not traversable, visibility inheritance broken", what)
		}
	}
}

func TestBuildGraph_PrivateContainerNotInherited(t *testing.T) {
	t.Parallel()

	// The impl of a pub(crate) struct stays unreachable, and a private
	// struct field never borrows its container's visibility.
	crate := &RustdocCrate{
		Root: 0,
		Index: map[string]RustdocItem{
			"0": {ID: 0, Name: strPtr("mycrate"), Visibility: pub(),
				Inner: json.RawMessage(`{"module":{"items":[1,4]}}`)},
			"1": {ID: 1, Name: strPtr("Hidden"), Visibility: json.RawMessage(`"crate"`),
				Inner: json.RawMessage(`{"struct":{"kind":{"plain":{"fields":[]}},"impls":[2]}}`)},
			"2": {ID: 2, Visibility: json.RawMessage(`"default"`),
				Inner: json.RawMessage(`{"impl":{"items":[3]}}`)},
			"3": {ID: 3, Name: strPtr("new"), Visibility: pub(), Docs: strPtr("Hidden ctor."),
				Inner: json.RawMessage(`{"function":{}}`)},
			"4": {ID: 4, Name: strPtr("Open"), Visibility: pub(),
				Inner: json.RawMessage(`{"struct":{"kind":{"plain":{"fields":[5]}},"impls":[]}}`)},
			"5": {ID: 5, Name: strPtr("inner"), Visibility: json.RawMessage(`"default"`),
				Inner: json.RawMessage(`{"struct_field":{}}`)},
		},
	}

	g := BuildGraph(crate, "mycrate", "1.0.0")

	if impl, _ := g.Get("2"); impl != nil && impl.Public {
		t.Error("impl of a pub(crate) struct converted as public")
	}
	if field, _ := g.Get("5"); field == nil || field.Public {
		t.Errorf("private struct field = %+v, want converted non-public", field)
	}
}

func TestBuildGraph_MethodDocsReachBuild(t *testing.T) {
	t.Parallel()

	crate := &RustdocCrate{
		Root: 0,
		Index: map[string]RustdocItem{
			"0": {ID: 0, Name: strPtr("mycrate"), Visibility: pub(),
				Inner: json.RawMessage(`{"module":{"items":[1]}}`)},
			"1": {ID: 1, Name: strPtr("Command"), Visibility: pub(), Docs: strPtr("A builder."),
				Inner: json.RawMessage(`{"struct":{"kind":{"plain":{"fields":[]}},"impls":[2]}}`)},
			"2": {ID: 2, Visibility: json.RawMessage(`"default"`),
				Inner: json.RawMessage(`{"impl":{"items":[3]}}`)},
			"3": {ID: 3, Name: strPtr("new"), Visibility: pub(), Docs: strPtr("Creates a Command."),
				Inner: json.RawMessage(`{"function":{}}`)},
		},
		Paths: map[string]RustdocSummary{
			"0": {CrateID: 0, Path: []string{"mycrate"}, Kind: "module"},
			"1": {CrateID: 0, Path: []string{"mycrate", "Command"}, Kind: "struct"},
		},
	}

	docs, err := corpus.Build(BuildGraph(crate, "mycrate", "1.0.0"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var page string
	for _, f := range docs.FullSessions {
		if f.Link == "https://docs.rs/mycrate/1.0.0/mycrate/struct.Command.html" {
			page = f.Content
		}
	}
	want := "A builder.\n\nCreates a Command."
	if page != want {
		t.Errorf("struct page = %q, want %q (method docs must survive the impl block)", page, want)
	}
}

func TestBuildGraph_LibNameFallback(t *testing.T) {
	t.Parallel()

	crate := &RustdocCrate{
		Root: 0,
		Index: map[string]RustdocItem{
			"0": {ID: 0, Name: strPtr("mycrate"), Visibility: pub(), Docs: strPtr("The crate."),
				Inner: json.RawMessage(`{"module":{"items":[]}}`)},
		},
	}

	g := BuildGraph(crate, "", "1.0.0")
	if g.CrateName != "mycrate" {
		t.Fatalf("CrateName = %q, want the lib name from the root item", g.CrateName)
	}

	docs, err := corpus.Build(g)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if docs.CrateName != "mycrate" {
		t.Errorf("CrateDocs.CrateName = %q", docs.CrateName)
	}
	for _, s := range docs.Sessions {
		if strings.Contains(s.Link, "docs.rs//") {
			t.Errorf("malformed link %q", s.Link)
		}
	}
}
