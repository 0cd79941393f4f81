package pinvoke_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sharpgen/internal/codegen"
	"sharpgen/internal/decl"
)

// TestGoldenArtifact runs the pass over a model exercising every emission
// rule at once: a reference-counted hierarchy, owned and borrowed string
// types, a skipped static field and a skipped free variable.
func TestGoldenArtifact(t *testing.T) {
	ref := newClass("RefCounted", "Urho3D__RefCounted")
	node := newClass("Node", "Urho3D__Node", ref)
	addVariable(node, "name", "Node_name", "String", false)
	addVariable(node, "instanceCount", "Node_instanceCount", "int", true)
	addConstructor(node, "Node_Node")
	addMethod(node, "Update", "Node_Update", "void", true,
		decl.Param{Name: "dt", Type: decl.TypeRef{Name: "float"}})
	addMethod(node, "GetName", "Node_GetName", "char*", false)
	free := &decl.Variable{
		Declaration: decl.Declaration{Name: "gravity", CFunc: "get_gravity"},
		Type:        decl.TypeRef{Name: "float"},
	}
	model := &decl.Model{Decls: []decl.Node{ref, node, free}}

	ctx := newContext(codegen.NewMemSink())
	ctx.Namespace = "Urho3D"
	ctx.Library = "Urho3DCSharp"
	ctx.RefCountedRoot = "Urho3D__RefCounted"
	out := generate(t, ctx, model)

	// Skipped declarations surface as warnings, never as output.
	require.Equal(t, 2, ctx.Diags.Warnings())
	require.Zero(t, ctx.Diags.Errors())

	goldenFile := filepath.Join("testdata", "pinvoke.cs.golden")
	updateGolden(t, goldenFile, out)
	compareGolden(t, goldenFile, out)
}

// Golden file helpers

func updateGolden(t *testing.T, path, content string) {
	t.Helper()
	if os.Getenv("UPDATE_GOLDEN") == "" {
		return
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("creating testdata dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("updating golden file: %v", err)
	}
}

func compareGolden(t *testing.T, path, got string) {
	t.Helper()
	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Logf("Golden file %s does not exist. Run with UPDATE_GOLDEN=1 to create.", path)
		return
	}
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	if string(expected) != got {
		t.Errorf("output differs from golden file %s.\nRun with UPDATE_GOLDEN=1 to update.", path)
	}
}
