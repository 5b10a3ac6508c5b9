package dotpath

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetCreatesIntermediateObjects(t *testing.T) {
	tree := Set(Tree{}, "a.b.c", 1)
	want := Tree{"a": map[string]interface{}{"b": map[string]interface{}{"c": 1}}}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Errorf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestSetOverwritesNonObjectIntermediates(t *testing.T) {
	tree := Tree{"a": "scalar"}
	tree = Set(tree, "a.b.c", 2.0)
	got, ok := Get(tree, "a.b.c")
	if !ok || got != 2.0 {
		t.Errorf("got %v (%v), want 2", got, ok)
	}

	tree = Tree{"a": map[string]interface{}{"b": []interface{}{1.0}}}
	tree = Set(tree, "a.b.c", "x")
	if diff := cmp.Diff(Tree{"a": map[string]interface{}{"b": map[string]interface{}{"c": "x"}}}, tree); diff != "" {
		t.Errorf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestSetNilTree(t *testing.T) {
	tree := Set(nil, "g.m", true)
	if got, _ := Get(tree, "g.m"); got != true {
		t.Errorf("got %v, want true", got)
	}
}

func TestGetMissing(t *testing.T) {
	tree := Tree{"a": map[string]interface{}{"b": 1.0}, "s": "str"}
	for _, path := range []string{"x", "a.x", "a.b.c", "s.length", "a.b.c.d"} {
		if got, ok := Get(tree, path); ok || got != nil {
			t.Errorf("Get(%q) = %v, %v; want nil, false", path, got, ok)
		}
	}
}

func TestGetRoot(t *testing.T) {
	tree := Tree{"a": 1.0}
	got, ok := Get(tree, "")
	if !ok {
		t.Fatal("root should always be found")
	}
	if diff := cmp.Diff(tree, got); diff != "" {
		t.Errorf("unexpected root (-want +got):\n%s", diff)
	}
}

func TestGetNullValue(t *testing.T) {
	tree := Tree{"a": nil}
	got, ok := Get(tree, "a")
	if !ok || got != nil {
		t.Errorf("got %v, %v; want nil, true", got, ok)
	}
}

func TestRemove(t *testing.T) {
	tree := Tree{"g": map[string]interface{}{"m": map[string]interface{}{"money": 1.0, "bank": 2.0}}}
	if !Remove(tree, "g.m.money") {
		t.Fatal("expected key to be removed")
	}
	want := Tree{"g": map[string]interface{}{"m": map[string]interface{}{"bank": 2.0}}}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Errorf("unexpected tree (-want +got):\n%s", diff)
	}
	if Remove(tree, "g.x.money") {
		t.Error("removing below a missing intermediate should report false")
	}
	if Remove(tree, "g.m.money") {
		t.Error("removing a missing key should report false")
	}
	if Remove(tree, "") {
		t.Error("the root cannot be removed")
	}
}

func TestJoin(t *testing.T) {
	if got := Join("g", "", "m", "money"); got != "g.m.money" {
		t.Errorf("got %q", got)
	}
	if got := Split(""); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
