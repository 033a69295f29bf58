package kernel

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// WriteSTL writes m to w in binary STL. Facet normals are recomputed from
// the triangle winding.
func WriteSTL(w io.Writer, m *Mesh) error {
	var header [80]byte
	copy(header[:], "gridnik")
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
		return err
	}

	var facet [12]float32
	for t := 0; t < m.TriangleCount(); t++ {
		for c := 0; c < 3; c++ {
			i := m.Indices[t*3+c]
			if int(i) >= m.VertexCount() {
				return fmt.Errorf("triangle %d: vertex %d out of range", t, i)
			}
			copy(facet[3+c*3:6+c*3], m.Vertices[i*3:i*3+3])
		}
		n := faceNormal(facet[3:6], facet[6:9], facet[9:12])
		copy(facet[:3], n[:])
		if err := binary.Write(w, binary.LittleEndian, facet); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return err
		}
	}
	return nil
}

// WriteSTLFile writes m to path, replacing any existing file.
func WriteSTLFile(path string, m *Mesh) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrExportFailed)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	bw := bufio.NewWriter(f)
	if err := WriteSTL(bw, m); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return f.Close()
}

func faceNormal(a, b, c []float32) [3]float32 {
	n := cross(
		[3]float64{float64(a[0]), float64(a[1]), float64(a[2])},
		[3]float64{float64(b[0]), float64(b[1]), float64(b[2])},
		[3]float64{float64(c[0]), float64(c[1]), float64(c[2])},
	)
	l := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if l < 1e-12 {
		return [3]float32{}
	}
	return [3]float32{float32(n[0] / l), float32(n[1] / l), float32(n[2] / l)}
}
