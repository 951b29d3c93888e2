package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/specialistvlad/asmtree/internal/ctxlog"
	"github.com/specialistvlad/asmtree/internal/testutil"
	"github.com/specialistvlad/asmtree/internal/tree"
)

func newTree(t *testing.T) (*tree.Registry, *testutil.Scenario) {
	t.Helper()
	s := testutil.NewScenario()
	reg, err := tree.NewRegistry(s.Set, nil)
	require.NoError(t, err)
	for _, a := range s.Set.Assemblies() {
		_, err := reg.Add(a)
		require.NoError(t, err)
	}
	return reg, s
}

func TestCaptureRestore_AcrossRebuild(t *testing.T) {
	reg, s := newTree(t)
	appNode, ok := reg.Locate(s.App)
	require.True(t, ok)
	appNode.SetExpanded(true)
	refs := appNode.Children()[0]
	refs.SetExpanded(true)
	libRef := refs.Children()[0]

	// Collapsed parents hide expanded children.
	widget := appNode.Children()[1]
	widget.SetExpanded(true)
	widget.Children()[0].SetExpanded(true)
	widget.SetExpanded(false)

	snap := Capture(reg.Root(), libRef)
	assert.Equal(t, SchemaVersion, snap.Schema)
	want := []string{
		appNode.IdentityPath().String(),
		refs.IdentityPath().String(),
	}
	if diff := cmp.Diff(want, snap.Expanded); diff != "" {
		t.Errorf("expanded mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, libRef.IdentityPath().String(), snap.Selected)

	fresh, _ := newTree(t)
	ctx := ctxlog.Discard(context.Background())
	selected := Restore(ctx, fresh.Root(), snap)
	require.NotNil(t, selected)
	assert.True(t, libRef.IdentityPath().Equal(selected.IdentityPath()))

	freshApp := fresh.Root().Children()[0]
	assert.True(t, freshApp.IsExpanded())
	assert.True(t, freshApp.Children()[0].IsExpanded())
}

func TestRestore_SkipsStalePaths(t *testing.T) {
	reg, _ := newTree(t)
	ctx := ctxlog.Discard(context.Background())

	selected := Restore(ctx, reg.Root(), Snapshot{
		Schema:   SchemaVersion,
		Expanded: []string{`asmlist/asm("Gone")`, "not a path"},
		Selected: `asmlist/asm("Gone")`,
	})
	assert.Nil(t, selected)
}

func TestFile_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.mp")
	f := NewFile(path)

	_, ok, err := f.Load()
	require.NoError(t, err)
	assert.False(t, ok, "missing file is not an error")

	in := Snapshot{Expanded: []string{"asmlist/asmrefs"}, Selected: "asmlist"}
	require.NoError(t, f.Save(in))

	out, ok, err := f.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, SchemaVersion, out.Schema)
	assert.Equal(t, in.Expanded, out.Expanded)
	assert.Equal(t, in.Selected, out.Selected)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestFile_IgnoresOtherSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.mp")
	data, err := msgpack.Marshal(&Snapshot{Schema: SchemaVersion + 1, Selected: "x"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, ok, err := NewFile(path).Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.mp")
	require.NoError(t, os.WriteFile(path, []byte{0xc1}, 0o644))

	_, _, err := NewFile(path).Load()
	require.Error(t, err)
}

func TestFile_NilIsNoop(t *testing.T) {
	var f *File
	assert.Nil(t, NewFile(""))
	require.NoError(t, f.Save(Snapshot{}))
	_, ok, err := f.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", f.Path())
}
