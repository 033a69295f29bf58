// Package kernel defines the geometry kernel used to turn a grid plan into
// solids. The sdfx package provides the implementation; the abstraction keeps
// the tessellator independent of the backend.
package kernel

import "errors"

// ErrExportFailed is returned when a kernel cannot write a mesh file.
var ErrExportFailed = errors.New("kernel: export failed")

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Box returns a box whose minimum corner sits at the origin.
	Box(x, y, z float64) Solid

	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid

	Translate(s Solid, x, y, z float64) Solid

	// ToMesh tessellates a solid into a triangle mesh.
	ToMesh(s Solid) (*Mesh, error)
	// ExportSTL writes a solid to path as STL.
	ExportSTL(s Solid, path string) error
}
