// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"
	"os"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/mattlean/gridnik/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

// minSamples is the number of cells kept across the thinnest side of a solid.
// Grid slabs are far thinner than they are long, and a uniform cell sized
// from the longest side would step over them.
const minSamples = 3

// maxCells caps the adaptive resolution along the longest side.
const maxCells = 2048

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a new SdfxKernel that tessellates with the given number of
// marching cubes cells along the longest axis. Non-positive values select
// DefaultMeshCells.
func New(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// Cells returns the tessellation resolution.
func (k *SdfxKernel) Cells() int { return k.cells }

// resolution returns the cell count along the longest side of s: the
// configured count, raised so the thinnest side still gets minSamples cells.
func (k *SdfxKernel) resolution(s sdf.SDF3) int {
	size := s.BoundingBox().Size()
	longest := math.Max(size.X, math.Max(size.Y, size.Z))
	thinnest := math.Min(size.X, math.Min(size.Y, size.Z))
	cells := k.cells
	if thinnest > 0 {
		if need := int(math.Ceil(minSamples * longest / thinnest)); need > cells {
			cells = need
		}
	}
	return min(cells, max(k.cells, maxCells))
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with the given dimensions and its minimum corner at the
// origin, so a plan rectangle at (x, y) becomes Translate(Box(w, h, d), x, y, 0).
// sdf.Box3D centers the box at the origin, so we translate by half-dimensions.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
// Cells are cubic, so resolution follows the thinnest side.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	solid := unwrap(s)
	triangles := render.ToTriangles(solid, render.NewMarchingCubesUniform(k.resolution(solid)))

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// ExportSTL renders a solid with marching cubes and writes it to path.
// sdfx reports write failures on its own, so the file is checked afterwards.
func (k *SdfxKernel) ExportSTL(s kernel.Solid, path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", kernel.ErrExportFailed)
	}
	_ = os.Remove(path)

	solid := unwrap(s)
	render.ToSTL(solid, path, render.NewMarchingCubesUniform(k.resolution(solid)))

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", kernel.ErrExportFailed, path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", kernel.ErrExportFailed, path)
	}
	return nil
}
