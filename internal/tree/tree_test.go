package tree

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/asmtree/internal/language"
	"github.com/specialistvlad/asmtree/internal/metadata"
	"github.com/specialistvlad/asmtree/internal/nodeid"
	"github.com/specialistvlad/asmtree/internal/testutil"
)

type recordingSelector struct {
	selected []*Node
}

func (s *recordingSelector) SelectAndFocus(n *Node) {
	s.selected = append(s.selected, n)
}

type fixture struct {
	s       *testutil.Scenario
	reg     *Registry
	sel     *recordingSelector
	appNode *Node
	libNode *Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := testutil.NewScenario()
	reg, err := NewRegistry(s.Set, nil)
	require.NoError(t, err)
	sel := &recordingSelector{}
	reg.SetSelector(sel)

	appNode, err := reg.Add(s.App)
	require.NoError(t, err)
	libNode, err := reg.Add(s.Lib)
	require.NoError(t, err)

	return &fixture{s: s, reg: reg, sel: sel, appNode: appNode, libNode: libNode}
}

// child returns the child of n whose text (as rendered by the plain
// formatter) equals text.
func child(t *testing.T, n *Node, text string) *Node {
	t.Helper()
	f := language.NewPlain(nil, false)
	for _, c := range n.Children() {
		if c.Text(f) == text {
			return c
		}
	}
	require.Failf(t, "child not found", "no child %q under %s", text, n.IdentityPath())
	return nil
}

func texts(nodes []*Node) []string {
	f := language.NewPlain(nil, false)
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Text(f))
	}
	return out
}

func TestNewRegistry_RequiresResolver(t *testing.T) {
	_, err := NewRegistry(nil, nil)
	require.ErrorIs(t, err, ErrNilResolver)
}

func TestRegistry_AddAndLocate(t *testing.T) {
	fx := newFixture(t)

	assert.Equal(t, []string{"App", "Lib"}, texts(fx.reg.Root().Children()))
	assert.Equal(t, 2, fx.reg.Len())

	got, ok := fx.reg.Locate(fx.s.App)
	require.True(t, ok)
	assert.Same(t, fx.appNode, got)
	assert.Same(t, fx.reg.Root(), got.Parent())

	_, err := fx.reg.Add(fx.s.App)
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	_, err = fx.reg.Add(nil)
	require.ErrorIs(t, err, ErrNilEntity)

	_, ok = fx.reg.Locate(metadata.NewAssembly(metadata.AssemblyName{Name: "Nope"}))
	assert.False(t, ok)
}

func TestRegistry_LocateType(t *testing.T) {
	fx := newFixture(t)

	n, ok := fx.reg.Locate(fx.s.Base)
	require.True(t, ok)
	assert.Same(t, fx.libNode, n.Parent())
	assert.Equal(t, fx.s.Base, n.Data().(*TypeData).Type)

	_, ok = fx.reg.Locate(&metadata.TypeDef{Name: "Detached"})
	assert.False(t, ok)
}

func TestRegistry_Remove(t *testing.T) {
	fx := newFixture(t)
	before := fx.reg.Root().Children()

	require.True(t, fx.reg.Remove(fx.s.Lib))
	assert.False(t, fx.reg.Remove(fx.s.Lib))

	assert.Equal(t, []string{"App"}, texts(fx.reg.Root().Children()))
	assert.Equal(t, []string{"App", "Lib"}, texts(before), "earlier snapshot must not change")
	assert.Nil(t, fx.libNode.Parent())
	_, ok := fx.reg.Locate(fx.s.Lib)
	assert.False(t, ok)
}

func TestRegistry_LocateTypeMatchesEntityNotToken(t *testing.T) {
	set := metadata.NewSet()
	lib := metadata.NewAssembly(metadata.AssemblyName{Name: "Lib"})
	first := lib.AddType(&metadata.TypeDef{Namespace: "Lib", Name: "First"})
	// Hand-built metadata may carry clashing tokens.
	second := lib.AddType(&metadata.TypeDef{Namespace: "Lib", Name: "Second", Token: first.Token})
	app := metadata.NewAssembly(metadata.AssemblyName{Name: "App"})
	secondRef := metadata.ParseTypeRef("[Lib]Lib.Second")
	app.AddType(&metadata.TypeDef{Namespace: "App", Name: "Widget", BaseType: &secondRef})
	require.NoError(t, set.Add(lib))
	require.NoError(t, set.Add(app))

	reg, err := NewRegistry(set, nil)
	require.NoError(t, err)
	sel := &recordingSelector{}
	reg.SetSelector(sel)
	_, err = reg.Add(lib)
	require.NoError(t, err)
	appNode, err := reg.Add(app)
	require.NoError(t, err)

	for _, td := range []*metadata.TypeDef{first, second} {
		n, ok := reg.Locate(td)
		require.True(t, ok)
		assert.Same(t, td, n.Data().(*TypeData).Type)
	}

	folder := child(t, child(t, appNode, "App.Widget"), "Base Types")
	require.True(t, child(t, folder, "Lib.Second").Activate())
	require.Len(t, sel.selected, 1)
	assert.Equal(t, "Lib.Second", sel.selected[0].Data().(*TypeData).Type.FullName())
}

func TestRegistry_AddAttachesBeforePublishing(t *testing.T) {
	s := testutil.NewScenario()
	reg, err := NewRegistry(s.Set, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Guarded accessors are usable from other goroutines.
		for range 100 {
			_ = reg.Len()
			reg.SetSelector(&recordingSelector{})
		}
	}()

	for _, a := range []*metadata.Assembly{s.App, s.Lib} {
		added, err := reg.Add(a)
		require.NoError(t, err)
		n, ok := reg.Locate(a)
		require.True(t, ok)
		assert.Same(t, added, n)
		assert.Same(t, reg.Root(), n.Parent(), "a located node is always attached")
		assert.Contains(t, reg.Root().Children(), n)
	}
	<-done

	require.True(t, reg.Remove(s.Lib))
	_, ok := reg.Locate(s.Lib)
	assert.False(t, ok)
	assert.Len(t, reg.Root().Children(), 1)
}

func TestAssemblyNode_Children(t *testing.T) {
	fx := newFixture(t)

	assert.Equal(t, NotLoaded, fx.appNode.State())
	got := texts(fx.appNode.Children())
	assert.Equal(t, []string{"References", "App.Widget", "App.Orphan", "App.Plain"}, got)
	assert.Equal(t, Loaded, fx.appNode.State())
}

func TestChildren_LoadedOnce(t *testing.T) {
	fx := newFixture(t)
	refs := child(t, fx.appNode, "References")

	first := refs.Children()
	second := refs.Children()
	require.Len(t, first, 3)
	require.Len(t, second, 3)
	for i := range first {
		assert.Same(t, first[i], second[i])
	}
}

func TestAssemblyReference_ChildrenAreResolvedReferences(t *testing.T) {
	fx := newFixture(t)
	refs := child(t, fx.appNode, "References")
	assert.Equal(t, []string{"Lib", "Missing", "Windows"}, texts(refs.Children()))

	t.Run("loaded target contributes its references", func(t *testing.T) {
		libRef := child(t, refs, "Lib")
		got := libRef.Children()
		assert.Equal(t, []string{"App", "mscorlib"}, texts(got))
		for _, c := range got {
			d, ok := c.Data().(*AssemblyRefData)
			require.True(t, ok)
			assert.Same(t, fx.libNode, d.Owner(), "children are owned by the canonical node of the target")
		}
	})

	t.Run("unloaded target has no children", func(t *testing.T) {
		missing := child(t, refs, "Missing")
		assert.Empty(t, missing.Children())
		assert.Equal(t, Loaded, missing.State())
	})

	t.Run("cycle expands one level at a time", func(t *testing.T) {
		appRef := child(t, child(t, refs, "Lib"), "App")
		assert.Equal(t, NotLoaded, appRef.State())
		assert.Equal(t, []string{"Lib", "Missing", "Windows"}, texts(appRef.Children()))
	})
}

func TestAssemblyReference_DoesNotDuplicateCanonicalNodes(t *testing.T) {
	fx := newFixture(t)
	refs := child(t, fx.appNode, "References")
	libRef := child(t, refs, "Lib")
	libRef.Children()

	assert.Equal(t, 2, fx.reg.Len())
	assert.Len(t, fx.reg.Root().Children(), 2)
	assert.Equal(t, NotLoaded, fx.libNode.State(), "resolving a reference must not load the target's subtree")
}

func TestHasChildren(t *testing.T) {
	fx := newFixture(t)

	libRefs := child(t, fx.libNode, "References")
	corlib := child(t, libRefs, "mscorlib")
	assert.Equal(t, NotLoaded, corlib.State())
	assert.False(t, corlib.HasChildren())
	assert.Equal(t, Loaded, corlib.State(), "core library references load eagerly")

	appRefs := child(t, fx.appNode, "References")
	missing := child(t, appRefs, "Missing")
	assert.True(t, missing.HasChildren(), "unloaded references are assumed to have children")
	assert.Equal(t, NotLoaded, missing.State())

	plain := child(t, fx.appNode, "App.Plain")
	assert.True(t, plain.HasChildren())
	plain.EnsureChildren()
	assert.False(t, plain.HasChildren())
}

func TestInvalidate(t *testing.T) {
	fx := newFixture(t)
	refs := child(t, fx.appNode, "References")
	before := refs.Children()
	beforePaths := make([]nodeid.Address, 0, len(before))
	for _, n := range before {
		beforePaths = append(beforePaths, n.IdentityPath())
	}

	refs.Invalidate()
	assert.Equal(t, NotLoaded, refs.State())
	assert.Len(t, before, 3, "previously returned children are left intact")

	after := refs.Children()
	require.Len(t, after, 3)
	for i := range after {
		assert.NotSame(t, before[i], after[i])
		assert.True(t, beforePaths[i].Equal(after[i].IdentityPath()))
	}
}

func TestInvalidate_NoopOnNonLazyNodes(t *testing.T) {
	fx := newFixture(t)
	fx.reg.Root().Invalidate()
	assert.Len(t, fx.reg.Root().Children(), 2)
}

func TestBaseTypesFolder(t *testing.T) {
	fx := newFixture(t)
	f := language.NewPlain(nil, false)
	widget := child(t, fx.appNode, "App.Widget")
	folder := child(t, widget, "Base Types")

	want := []string{"Lib.Base", "Lib.IFirst", "Lib.ISecond"}
	assert.Equal(t, want, texts(folder.Children()))

	kids := folder.Children()
	assert.Equal(t, GroupBaseType, kids[0].Group())
	assert.Equal(t, GroupInterfaceBaseType, kids[1].Group())
	assert.Equal(t, GroupInterfaceBaseType, kids[2].Group())
	assert.Equal(t, language.IconInterface, kids[1].Icon(f, false))

	assert.Equal(t, language.IconBaseTypeClosed, folder.Icon(f, false))
	assert.Equal(t, language.IconBaseTypeOpened, folder.Icon(f, true))

	folder.Invalidate()
	assert.Equal(t, want, texts(folder.Children()), "order survives invalidation")

	assert.Empty(t, child(t, fx.appNode, "App.Plain").Children(), "no folder without base types")
}

func TestBaseTypeNode_ChildTypes(t *testing.T) {
	fx := newFixture(t)
	folder := child(t, child(t, fx.appNode, "App.Widget"), "Base Types")
	base := child(t, folder, "Lib.Base")

	b, ifaces, ok := base.ChildTypes()
	require.True(t, ok)
	assert.Nil(t, b)
	assert.Empty(t, ifaces)
	assert.Empty(t, base.Children(), "a base type without bases of its own has no folder")

	_, _, ok = fx.appNode.ChildTypes()
	assert.False(t, ok)

	nested, err := NewBaseTypesFolder(base)
	require.NoError(t, err)
	assert.Empty(t, nested.Children())
}

func TestActivate(t *testing.T) {
	fx := newFixture(t)
	refs := child(t, fx.appNode, "References")

	t.Run("assembly reference selects the canonical node", func(t *testing.T) {
		fx.sel.selected = nil
		require.True(t, child(t, refs, "Lib").Activate())
		require.Len(t, fx.sel.selected, 1)
		assert.Same(t, fx.libNode, fx.sel.selected[0])
	})

	t.Run("unloaded reference is a no-op", func(t *testing.T) {
		fx.sel.selected = nil
		assert.False(t, child(t, refs, "Missing").Activate())
		assert.Empty(t, fx.sel.selected)
	})

	t.Run("base type selects the type node", func(t *testing.T) {
		fx.sel.selected = nil
		folder := child(t, child(t, fx.appNode, "App.Widget"), "Base Types")
		require.True(t, child(t, folder, "Lib.IFirst").Activate())
		require.Len(t, fx.sel.selected, 1)
		assert.Equal(t, fx.s.IFirst, fx.sel.selected[0].Data().(*TypeData).Type)
	})

	t.Run("unresolved base type is a no-op", func(t *testing.T) {
		fx.sel.selected = nil
		folder := child(t, child(t, fx.appNode, "App.Orphan"), "Base Types")
		assert.False(t, child(t, folder, "Missing.Thing").Activate())
		assert.Empty(t, fx.sel.selected)
	})

	t.Run("non-reference nodes do not navigate", func(t *testing.T) {
		assert.False(t, fx.appNode.Activate())
	})
}

func TestActivate_WithoutSelector(t *testing.T) {
	s := testutil.NewScenario()
	reg, err := NewRegistry(s.Set, nil)
	require.NoError(t, err)
	appNode, err := reg.Add(s.App)
	require.NoError(t, err)
	_, err = reg.Add(s.Lib)
	require.NoError(t, err)

	assert.False(t, child(t, child(t, appNode, "References"), "Lib").Activate())
}

func TestResolve_AttemptedFreshEachTime(t *testing.T) {
	fx := newFixture(t)
	libRef := child(t, child(t, fx.appNode, "References"), "Lib")

	e, ok := libRef.Resolve()
	require.True(t, ok)
	assert.Equal(t, fx.s.Lib, e)

	require.True(t, fx.s.Set.Remove(fx.s.Lib.Key()))
	require.True(t, fx.reg.Remove(fx.s.Lib))
	_, ok = libRef.Resolve()
	assert.False(t, ok)
	assert.False(t, libRef.Activate())

	libRef.Invalidate()
	assert.Empty(t, libRef.Children())
}

func TestWriteComment(t *testing.T) {
	fx := newFixture(t)
	f := language.NewPlain(nil, false)
	refs := child(t, fx.appNode, "References")

	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"bridge reference", child(t, refs, "Windows"), "// Windows [WinRT]\n"},
		{"plain reference", child(t, refs, "Lib"), "// Lib, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null\n"},
		{"assembly", fx.appNode, "// App, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null\n"},
		{"type", child(t, fx.appNode, "App.Widget"), "// App.Widget\n"},
		{"folder", refs, "// References\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tc.node.WriteComment(&buf, f))
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestAssemblyReference_TextDisambiguatesDuplicates(t *testing.T) {
	set := metadata.NewSet()
	asm := metadata.NewAssembly(metadata.AssemblyName{Name: "Host"})
	asm.AddReference(metadata.AssemblyRef{AssemblyName: metadata.AssemblyName{Name: "Dup", Version: metadata.Version{Major: 1}}})
	asm.AddReference(metadata.AssemblyRef{AssemblyName: metadata.AssemblyName{Name: "Dup", Version: metadata.Version{Major: 2}}})
	asm.AddReference(metadata.AssemblyRef{AssemblyName: metadata.AssemblyName{Name: "Single"}})
	require.NoError(t, set.Add(asm))

	reg, err := NewRegistry(set, nil)
	require.NoError(t, err)
	n, err := reg.Add(asm)
	require.NoError(t, err)

	refs := n.Children()[0]
	assert.Equal(t, []string{"Dup @23000001", "Dup @23000002", "Single"}, texts(refs.Children()))
}

func TestConstructors_RejectMissingOrWrongOwner(t *testing.T) {
	fx := newFixture(t)
	widget := child(t, fx.appNode, "App.Widget")

	tests := []struct {
		name    string
		build   func() (*Node, error)
		wantErr error
	}{
		{"reference without owner", func() (*Node, error) { return NewAssemblyReferenceNode(fx.s.RefLib, nil) }, ErrNilOwner},
		{"reference owned by a type", func() (*Node, error) { return NewAssemblyReferenceNode(fx.s.RefLib, widget) }, ErrOwnerKind},
		{"references folder without owner", func() (*Node, error) { return NewReferencesFolder(nil) }, ErrNilOwner},
		{"base types folder without owner", func() (*Node, error) { return NewBaseTypesFolder(nil) }, ErrNilOwner},
		{"base types folder over an assembly", func() (*Node, error) { return NewBaseTypesFolder(fx.appNode) }, ErrOwnerKind},
		{"base type without owner", func() (*Node, error) { return NewBaseTypeNode(*fx.s.Widget.BaseType, true, nil) }, ErrNilOwner},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := tc.build()
			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, n)
		})
	}
}

func TestIdentityPath_AndFind(t *testing.T) {
	fx := newFixture(t)
	refs := child(t, fx.appNode, "References")
	appViaLib := child(t, child(t, refs, "Lib"), "App")

	want := `asmlist/asm("App, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null")/asmrefs/` +
		`asmref("Lib, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null")@23000001/` +
		`asmref("App, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null")@23000001`
	path := appViaLib.IdentityPath()
	assert.Equal(t, want, path.String())

	parsed, err := nodeid.Parse(path.String())
	require.NoError(t, err)
	if diff := cmp.Diff(path, parsed); diff != "" {
		t.Errorf("parsed path mismatch (-want +got):\n%s", diff)
	}

	// Unrelated invalidation keeps the address valid.
	child(t, fx.appNode, "App.Widget").Invalidate()
	found, ok := fx.reg.Root().Find(parsed)
	require.True(t, ok)
	assert.Same(t, appViaLib, found)

	refs.Invalidate()
	found, ok = fx.reg.Root().Find(parsed)
	require.True(t, ok)
	assert.NotSame(t, appViaLib, found)
	assert.True(t, path.Equal(found.IdentityPath()))

	_, ok = fx.reg.Root().Find(nodeid.MustParse(`asmlist/asm("Nope")`))
	assert.False(t, ok)
	_, ok = fx.appNode.Find(path)
	assert.False(t, ok, "address must start at the receiver")
}

func TestWalk_DoesNotLoad(t *testing.T) {
	fx := newFixture(t)
	child(t, fx.appNode, "References")

	var visited []string
	fx.reg.Root().Walk(func(n *Node) bool {
		visited = append(visited, n.IdentityPath().String())
		return true
	})
	assert.Len(t, visited, 7, "root, two assemblies and App's four loaded children")
	assert.Equal(t, NotLoaded, fx.libNode.State())
}

func TestSetExpanded_LoadsChildren(t *testing.T) {
	fx := newFixture(t)
	fx.libNode.SetExpanded(true)
	assert.True(t, fx.libNode.IsExpanded())
	assert.Equal(t, Loaded, fx.libNode.State())
}

func TestResolve_DistinctReferencesShareCanonicalNode(t *testing.T) {
	fx := newFixture(t)
	libRef := child(t, child(t, fx.appNode, "References"), "Lib")
	nestedLibRef := child(t, child(t, libRef, "App"), "Lib")
	require.NotSame(t, libRef, nestedLibRef)
	assert.False(t, libRef.IdentityPath().Equal(nestedLibRef.IdentityPath()))

	for _, ref := range []*Node{libRef, nestedLibRef} {
		e, ok := ref.Resolve()
		require.True(t, ok)
		located, ok := fx.reg.Locate(e)
		require.True(t, ok)
		assert.Same(t, fx.libNode, located)
	}

	fx.sel.selected = nil
	require.True(t, libRef.Activate())
	require.True(t, nestedLibRef.Activate())
	require.Len(t, fx.sel.selected, 2)
	assert.Same(t, fx.libNode, fx.sel.selected[0])
	assert.Same(t, fx.sel.selected[0], fx.sel.selected[1])
}

func TestBaseTypeNode_DrillsIntoItsOwnBases(t *testing.T) {
	fx := newFixture(t)
	fx.s.Base.Interfaces = []metadata.TypeRef{metadata.ParseTypeRef("[Lib]Lib.IFirst")}

	folder := child(t, child(t, fx.appNode, "App.Widget"), "Base Types")
	base := child(t, folder, "Lib.Base")
	assert.Equal(t, NotLoaded, base.State())
	assert.True(t, base.HasChildren())

	nested := child(t, base, "Base Types")
	assert.Same(t, base, nested.Data().(*BaseTypesFolderData).Owner())
	require.Equal(t, []string{"Lib.IFirst"}, texts(nested.Children()))

	iface := nested.Children()[0]
	iface.EnsureChildren()
	assert.False(t, iface.HasChildren(), "IFirst has no bases of its own")

	fx.sel.selected = nil
	require.True(t, iface.Activate())
	require.Len(t, fx.sel.selected, 1)
	assert.Same(t, fx.s.IFirst, fx.sel.selected[0].Data().(*TypeData).Type)

	found, ok := fx.reg.Root().Find(iface.IdentityPath())
	require.True(t, ok)
	assert.Same(t, iface, found)

	orphanBase := child(t, child(t, child(t, fx.appNode, "App.Orphan"), "Base Types"), "Missing.Thing")
	assert.Empty(t, orphanBase.Children(), "unresolved base types have no children")
}

// flakyData panics in its child factory while fail is set.
type flakyData struct {
	fail bool
}

func (*flakyData) segment() nodeid.Segment { return nodeid.NewSegment("flaky", "") }

func (*flakyData) lazy() bool { return true }

func (d *flakyData) createChildren(*Node) []*Node {
	if d.fail {
		panic("factory failed")
	}
	return []*Node{newNode(&flakyData{}, GroupType)}
}

func (*flakyData) text(*Node, language.Formatter) string { return "flaky" }

func (*flakyData) icon(*Node, language.Formatter, bool) language.IconID { return language.IconClass }

func (*flakyData) comment(*Node) string { return "flaky" }

func TestEnsureChildren_PanickingFactoryLeavesNodeLoadable(t *testing.T) {
	d := &flakyData{fail: true}
	n := newNode(d, GroupType)

	assert.Panics(t, func() { n.EnsureChildren() })
	assert.Equal(t, NotLoaded, n.State())
	assert.Empty(t, n.children)

	d.fail = false
	assert.Len(t, n.Children(), 1)
	assert.Equal(t, Loaded, n.State())
}
