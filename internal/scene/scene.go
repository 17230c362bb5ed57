// Package scene models the editor scene the wizard operates on.
//
// A scene is loaded from a manifest file listing objects and their
// components. Only MeshFilter components carry a mesh; the mesh itself is a
// reference to a resource owned by the host (a file on disk) that this
// program never reads or writes directly.
package scene

// Component kinds recognised in scene manifests.
const (
	KindMeshFilter = "mesh_filter"
)

// Mesh is a reference to a host-owned mesh resource.
type Mesh struct {
	Name string
	Path string
}

// Component is anything attached to an Object.
type Component interface {
	Kind() string
}

// MeshFilter is the component that holds an object's mesh.
type MeshFilter struct {
	Mesh *Mesh
}

// Kind implements Component.
func (MeshFilter) Kind() string { return KindMeshFilter }

// Generic is any component this program does not interpret.
type Generic struct {
	Type string
}

// Kind implements Component.
func (g Generic) Kind() string { return g.Type }

// MeshProvider is implemented by selectable things that may carry a mesh.
type MeshProvider interface {
	// TryGetMesh reports the attached mesh, if any.
	TryGetMesh() (*Mesh, bool)
}

// Object is a named scene object.
type Object struct {
	Name       string
	Components []Component
}

// TryGetMesh returns the mesh of the first MeshFilter component.
func (o *Object) TryGetMesh() (*Mesh, bool) {
	if o == nil {
		return nil, false
	}
	for _, c := range o.Components {
		if mf, ok := c.(MeshFilter); ok && mf.Mesh != nil {
			return mf.Mesh, true
		}
	}
	return nil, false
}

// DisplayName implements the optional naming hook used by the resolver.
func (o *Object) DisplayName() string {
	return o.Name
}

// Scene is a loaded manifest.
type Scene struct {
	Version string
	Name    string
	Objects []*Object

	// Path is the manifest file the scene was loaded from.
	Path string
}

// Find returns the object with the given name.
func (s *Scene) Find(name string) (*Object, bool) {
	for _, o := range s.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}

// Names returns object names in manifest order.
func (s *Scene) Names() []string {
	names := make([]string, len(s.Objects))
	for i, o := range s.Objects {
		names[i] = o.Name
	}
	return names
}
