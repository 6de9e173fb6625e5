package preview

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/soypat/geometry/ms3"
)

// stlHeader fills the fixed 80 byte binary STL preamble.
var stlHeader = [80]byte{'f', 'l', 'o', 'w', 'c', 'h', 'a', 'm', 'b', 'e', 'r', ' ', 'p', 'r', 'e', 'v', 'i', 'e', 'w'}

// WriteBinarySTL writes triangles as a binary STL solid. The output is
// 84+50*len(tris) bytes. Facet normals are recomputed from the triangle
// winding; degenerate triangles get a zero normal.
func WriteBinarySTL(w io.Writer, tris []ms3.Triangle) (int, error) {
	ngot, err := w.Write(stlHeader[:])
	if err != nil {
		return ngot, err
	}
	var record [50]byte
	binary.LittleEndian.PutUint32(record[:4], uint32(len(tris)))
	n, err := w.Write(record[:4])
	ngot += n
	if err != nil {
		return ngot, err
	}
	for _, t := range tris {
		norm := ms3.Cross(ms3.Sub(t[1], t[0]), ms3.Sub(t[2], t[0]))
		if ms3.Norm(norm) > 0 {
			norm = ms3.Unit(norm)
		}
		put := func(off int, v ms3.Vec) {
			binary.LittleEndian.PutUint32(record[off:], math.Float32bits(v.X))
			binary.LittleEndian.PutUint32(record[off+4:], math.Float32bits(v.Y))
			binary.LittleEndian.PutUint32(record[off+8:], math.Float32bits(v.Z))
		}
		put(0, norm)
		put(12, t[0])
		put(24, t[1])
		put(36, t[2])
		record[48], record[49] = 0, 0
		n, err = w.Write(record[:])
		ngot += n
		if err != nil {
			return ngot, err
		}
	}
	return ngot, nil
}
