package testutil

import (
	"github.com/specialistvlad/asmtree/internal/metadata"
)

// Scenario is a small loaded world shared by tree, state and viewer tests.
//
//	App  -> Lib, Missing (not loaded), Windows (WinRT, not loaded)
//	Lib  -> App (cycle), mscorlib (not loaded)
//
// App.Widget derives from [Lib]Lib.Base and implements [Lib]Lib.IFirst and
// [Lib]Lib.ISecond. App.Orphan derives from a type in Missing. App.Plain
// has no base types at all.
type Scenario struct {
	Set *metadata.Set

	App *metadata.Assembly
	Lib *metadata.Assembly

	// References declared by App.
	RefLib     metadata.AssemblyRef
	RefMissing metadata.AssemblyRef
	RefWinRT   metadata.AssemblyRef
	// References declared by Lib.
	RefApp    metadata.AssemblyRef
	RefCorLib metadata.AssemblyRef

	Widget *metadata.TypeDef
	Orphan *metadata.TypeDef
	Plain  *metadata.TypeDef

	Base    *metadata.TypeDef
	IFirst  *metadata.TypeDef
	ISecond *metadata.TypeDef
}

// NewScenario builds the scenario and loads App and Lib into a fresh set.
func NewScenario() *Scenario {
	v1 := metadata.Version{Major: 1}
	s := &Scenario{Set: metadata.NewSet()}

	s.App = metadata.NewAssembly(metadata.AssemblyName{Name: "App", Version: v1})
	s.Lib = metadata.NewAssembly(metadata.AssemblyName{Name: "Lib", Version: v1})

	s.RefLib = s.App.AddReference(metadata.AssemblyRef{AssemblyName: s.Lib.AssemblyName})
	s.RefMissing = s.App.AddReference(metadata.AssemblyRef{
		AssemblyName: metadata.AssemblyName{Name: "Missing", Version: v1},
	})
	s.RefWinRT = s.App.AddReference(metadata.AssemblyRef{
		AssemblyName: metadata.AssemblyName{Name: "Windows", Version: metadata.Version{Major: 255, Minor: 255, Build: 255, Revision: 255}},
		ContentType:  metadata.ContentTypeWindowsRuntime,
	})
	s.RefApp = s.Lib.AddReference(metadata.AssemblyRef{AssemblyName: s.App.AssemblyName})
	s.RefCorLib = s.Lib.AddReference(metadata.AssemblyRef{
		AssemblyName: metadata.AssemblyName{Name: "mscorlib", Version: metadata.Version{Major: 4}},
	})

	s.Base = s.Lib.AddType(&metadata.TypeDef{Namespace: "Lib", Name: "Base"})
	s.IFirst = s.Lib.AddType(&metadata.TypeDef{Namespace: "Lib", Name: "IFirst", Interface: true})
	s.ISecond = s.Lib.AddType(&metadata.TypeDef{Namespace: "Lib", Name: "ISecond", Interface: true})

	base := metadata.ParseTypeRef("[Lib]Lib.Base")
	s.Widget = s.App.AddType(&metadata.TypeDef{
		Namespace: "App",
		Name:      "Widget",
		BaseType:  &base,
		Interfaces: []metadata.TypeRef{
			metadata.ParseTypeRef("[Lib]Lib.IFirst"),
			metadata.ParseTypeRef("[Lib]Lib.ISecond"),
		},
	})
	orphanBase := metadata.ParseTypeRef("[Missing]Missing.Thing")
	s.Orphan = s.App.AddType(&metadata.TypeDef{Namespace: "App", Name: "Orphan", BaseType: &orphanBase})
	s.Plain = s.App.AddType(&metadata.TypeDef{Namespace: "App", Name: "Plain"})

	// Errors are impossible here: the two assemblies have distinct identities.
	_ = s.Set.Add(s.App)
	_ = s.Set.Add(s.Lib)
	return s
}
