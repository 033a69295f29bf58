//go:build manifold

// Package manifold meshes grid slabs with the Manifold C library
// (https://github.com/elalish/manifold). Slabs are boxes, so corners stay
// exact at any canvas size. Requires libmanifoldc; build with -tags=manifold.
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/mattlean/gridnik/pkg/kernel"
)

var (
	_ kernel.Kernel = (*ManifoldKernel)(nil)
	_ kernel.Solid  = (*slab)(nil)
)

// slab owns a manifold handle; the finalizer releases it.
type slab struct {
	ptr *C.ManifoldManifold
}

func own(ptr *C.ManifoldManifold) *slab {
	s := &slab{ptr: ptr}
	runtime.SetFinalizer(s, func(s *slab) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

func (s *slab) BoundingBox() (lo, hi [3]float64) {
	box := C.manifold_bounding_box(C.manifold_alloc_box(), s.ptr)
	defer C.manifold_delete_box(box)
	lo = [3]float64{float64(C.manifold_box_min_x(box)), float64(C.manifold_box_min_y(box)), float64(C.manifold_box_min_z(box))}
	hi = [3]float64{float64(C.manifold_box_max_x(box)), float64(C.manifold_box_max_y(box)), float64(C.manifold_box_max_z(box))}
	return lo, hi
}

// ManifoldKernel implements kernel.Kernel.
type ManifoldKernel struct{}

// New returns a ManifoldKernel.
func New() (kernel.Kernel, error) {
	return &ManifoldKernel{}, nil
}

// Box creates a box with its minimum corner at the origin.
func (k *ManifoldKernel) Box(x, y, z float64) kernel.Solid {
	return own(C.manifold_cube(C.manifold_alloc_manifold(), C.double(x), C.double(y), C.double(z), 0))
}

func (k *ManifoldKernel) Union(a, b kernel.Solid) kernel.Solid {
	return own(C.manifold_union(C.manifold_alloc_manifold(), a.(*slab).ptr, b.(*slab).ptr))
}

func (k *ManifoldKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return own(C.manifold_difference(C.manifold_alloc_manifold(), a.(*slab).ptr, b.(*slab).ptr))
}

func (k *ManifoldKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return own(C.manifold_translate(C.manifold_alloc_manifold(), s.(*slab).ptr, C.double(x), C.double(y), C.double(z)))
}

// ExportSTL meshes the solid and writes it as binary STL.
func (k *ManifoldKernel) ExportSTL(s kernel.Solid, path string) error {
	m, err := k.ToMesh(s)
	if err != nil {
		return fmt.Errorf("%w: %v", kernel.ErrExportFailed, err)
	}
	if m.IsEmpty() {
		return fmt.Errorf("%w: empty mesh", kernel.ErrExportFailed)
	}
	return kernel.WriteSTLFile(path, m)
}

// ToMesh copies positions and triangles out of the solid's MeshGL. Normals
// are recomputed from the faces since slabs carry no vertex properties
// beyond position.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	gl := C.manifold_get_meshgl(C.manifold_alloc_meshgl(), s.(*slab).ptr)
	defer C.manifold_delete_meshgl(gl)

	nv := int(C.manifold_meshgl_num_vert(gl))
	nt := int(C.manifold_meshgl_num_tri(gl))
	stride := int(C.manifold_meshgl_num_prop(gl))
	if nv == 0 || nt == 0 {
		return &kernel.Mesh{}, nil
	}
	if stride < 3 {
		return nil, fmt.Errorf("manifold: %d vertex properties, need at least 3", stride)
	}

	props := make([]float32, nv*stride)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&props[0])), gl)

	m := &kernel.Mesh{
		Vertices: make([]float32, 0, nv*3),
		Indices:  make([]uint32, nt*3),
	}
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&m.Indices[0])), gl)
	for i := 0; i < len(props); i += stride {
		m.Vertices = append(m.Vertices, props[i:i+3]...)
	}
	m.ComputeNormals()
	return m, nil
}
