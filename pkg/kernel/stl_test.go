package kernel

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func triangle() *Mesh {
	return &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2},
	}
}

func TestWriteSTL(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSTL(&buf, triangle()); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}
	// header + count + one 50 byte facet
	if buf.Len() != 80+4+50 {
		t.Fatalf("size = %d, want 134", buf.Len())
	}

	data := buf.Bytes()
	if n := binary.LittleEndian.Uint32(data[80:84]); n != 1 {
		t.Errorf("triangle count = %d, want 1", n)
	}
	var normal [3]float32
	if err := binary.Read(bytes.NewReader(data[84:96]), binary.LittleEndian, &normal); err != nil {
		t.Fatal(err)
	}
	if normal != [3]float32{0, 0, 1} {
		t.Errorf("normal = %v, want +z", normal)
	}
}

func TestWriteSTLBadIndex(t *testing.T) {
	m := triangle()
	m.Indices[2] = 7
	if err := WriteSTL(&bytes.Buffer{}, m); err == nil {
		t.Error("expected an out of range error")
	}
}

func TestWriteSTLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.stl")
	if err := WriteSTLFile(path, triangle()); err != nil {
		t.Fatalf("WriteSTLFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 134 {
		t.Errorf("size = %d, want 134", info.Size())
	}

	if err := WriteSTLFile("", triangle()); !errors.Is(err, ErrExportFailed) {
		t.Errorf("empty path: err = %v, want ErrExportFailed", err)
	}
}
