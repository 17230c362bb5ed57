package engine

import (
	"github.com/rshade/uvwizard/internal/scene"
)

// namer is implemented by selected objects that have a display name.
type namer interface {
	DisplayName() string
}

// Resolve builds the worklist from a selection.
//
// Each selected value that implements scene.MeshProvider and reports a mesh
// becomes one MeshHandle; nil entries and values without a mesh are skipped.
// Input order is preserved and a handle already in the worklist is not added
// again. Resolve never fails and has no side effects.
func Resolve(selected []any) []MeshHandle {
	handles := make([]MeshHandle, 0, len(selected))
	seen := make(map[MeshHandle]struct{}, len(selected))

	for _, obj := range selected {
		if obj == nil {
			continue
		}
		provider, ok := obj.(scene.MeshProvider)
		if !ok {
			continue
		}
		mesh, ok := provider.TryGetMesh()
		if !ok || mesh == nil {
			continue
		}

		name := mesh.Name
		if n, ok := obj.(namer); ok {
			name = n.DisplayName()
		}
		h := MeshHandle{Name: name, Mesh: mesh}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		handles = append(handles, h)
	}

	return handles
}
