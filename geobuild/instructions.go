package geobuild

import (
	"strconv"

	"github.com/soypat/geometry/md3"
)

const (
	opDifference = "BooleanDifference"
	opFuse       = "BooleanFuse"
)

// Instruction is a single .geo statement. Implementations are created
// exclusively through [Builder] methods.
type Instruction interface {
	// Name returns the instruction mnemonic, i.e. "Box" or "BooleanFuse".
	Name() string
	// AppendGeo appends the gmsh OpenCASCADE text of the instruction
	// without a trailing newline.
	AppendGeo(b []byte) []byte
	// handles returns the handles the instruction creates, reads and
	// invalidates. Used by [Program.Validate].
	handles() (def, use, consume []Handle)
	// class groups instructions into script sections for layout.
	class() int
}

// Script sections in emission order within a .geo file.
const (
	classPrimitive = iota
	classBoolean
	classPhysical
	classMesh
)

type boxInstr struct {
	h            Handle
	tag          int
	origin, size md3.Vec
}

func (boxInstr) Name() string { return "Box" }
func (boxInstr) class() int   { return classPrimitive }
func (bi boxInstr) handles() (def, use, consume []Handle) {
	return []Handle{bi.h}, nil, nil
}

func (bi boxInstr) AppendGeo(b []byte) []byte {
	b = append(b, "Box("...)
	b = strconv.AppendInt(b, int64(bi.tag), 10)
	b = append(b, ") = {"...)
	b = appendVec(b, bi.origin)
	b = append(b, ',', ' ')
	b = appendVec(b, bi.size)
	b = append(b, '}', ';')
	return b
}

type cylinderInstr struct {
	h          Handle
	tag        int
	base, axis md3.Vec
	r          float64
}

func (cylinderInstr) Name() string { return "Cylinder" }
func (cylinderInstr) class() int   { return classPrimitive }
func (ci cylinderInstr) handles() (def, use, consume []Handle) {
	return []Handle{ci.h}, nil, nil
}

func (ci cylinderInstr) AppendGeo(b []byte) []byte {
	b = append(b, "Cylinder("...)
	b = strconv.AppendInt(b, int64(ci.tag), 10)
	b = append(b, ") = {"...)
	b = appendVec(b, ci.base)
	b = append(b, ',', ' ')
	b = appendVec(b, ci.axis)
	b = append(b, ',', ' ')
	b = appendFloat(b, ci.r)
	b = append(b, '}', ';')
	return b
}

type booleanInstr struct {
	op         string
	result     Handle
	resultTag  int
	targets    []Handle
	targetTags []int
	tools      []Handle
	toolTags   []int
}

func (bi booleanInstr) Name() string { return bi.op }
func (booleanInstr) class() int      { return classBoolean }
func (bi booleanInstr) handles() (def, use, consume []Handle) {
	consume = append(consume, bi.targets...)
	consume = append(consume, bi.tools...)
	return []Handle{bi.result}, nil, consume
}

func (bi booleanInstr) AppendGeo(b []byte) []byte {
	b = append(b, bi.op...)
	b = appendVolumeOperand(b, bi.targetTags)
	b = appendVolumeOperand(b, bi.toolTags)
	return b
}

// appendVolumeOperand emits one operand block of a boolean operation with
// Delete semantics, which is what frees the operand tags for reuse by the
// result.
func appendVolumeOperand(b []byte, tags []int) []byte {
	b = append(b, "{ Volume{"...)
	b = appendTags(b, tags)
	b = append(b, "}; Delete; }"...)
	return b
}

type physVolumeInstr struct {
	name string
	vols []Handle
	tags []int
}

func (physVolumeInstr) Name() string { return "PhysicalVolume" }
func (physVolumeInstr) class() int   { return classPhysical }
func (pi physVolumeInstr) handles() (def, use, consume []Handle) {
	return nil, pi.vols, nil
}

func (pi physVolumeInstr) AppendGeo(b []byte) []byte {
	b = append(b, `Physical Volume("`...)
	b = append(b, pi.name...)
	b = append(b, `") = {`...)
	b = appendTags(b, pi.tags)
	b = append(b, '}', ';')
	return b
}

type physSurfaceInstr struct {
	name string
	box  md3.Box
	all  bool
}

func (physSurfaceInstr) Name() string { return "PhysicalSurface" }
func (physSurfaceInstr) class() int   { return classPhysical }
func (physSurfaceInstr) handles() (def, use, consume []Handle) {
	return nil, nil, nil
}

func (pi physSurfaceInstr) AppendGeo(b []byte) []byte {
	b = append(b, `Physical Surface("`...)
	b = append(b, pi.name...)
	b = append(b, `") = `...)
	if pi.all {
		b = append(b, `Surface "*";`...)
		return b
	}
	b = append(b, "Surface In BoundingBox{"...)
	b = appendVec(b, pi.box.Min)
	b = append(b, ',', ' ')
	b = appendVec(b, pi.box.Max)
	b = append(b, "};"...)
	return b
}

type meshSizeInstr struct {
	vol  Handle
	tag  int
	size float64
}

func (meshSizeInstr) Name() string { return "CharacteristicLength" }
func (meshSizeInstr) class() int   { return classMesh }
func (mi meshSizeInstr) handles() (def, use, consume []Handle) {
	return nil, []Handle{mi.vol}, nil
}

func (mi meshSizeInstr) AppendGeo(b []byte) []byte {
	b = append(b, "Characteristic Length{PointsOf{Volume{"...)
	b = strconv.AppendInt(b, int64(mi.tag), 10)
	b = append(b, "};}} = "...)
	b = appendFloat(b, mi.size)
	b = append(b, ';')
	return b
}

type optionInstr struct {
	name  string
	value float64
}

func (optionInstr) Name() string { return "Option" }
func (optionInstr) class() int   { return classMesh }
func (optionInstr) handles() (def, use, consume []Handle) {
	return nil, nil, nil
}

func (oi optionInstr) AppendGeo(b []byte) []byte {
	b = append(b, oi.name...)
	b = append(b, " = "...)
	b = appendFloat(b, oi.value)
	b = append(b, ';')
	return b
}

// appendFloat appends the shortest decimal representation that parses back
// to v. The .geo grammar accepts exponent notation.
func appendFloat(b []byte, v float64) []byte {
	return strconv.AppendFloat(b, v, 'g', -1, 64)
}

func appendFloats(b []byte, sep byte, vs ...float64) []byte {
	for i, v := range vs {
		b = appendFloat(b, v)
		if sep != 0 && i != len(vs)-1 {
			b = append(b, sep)
		}
	}
	return b
}

func appendVec(b []byte, v md3.Vec) []byte {
	return appendFloats(b, ',', v.X, v.Y, v.Z)
}

func appendTags(b []byte, tags []int) []byte {
	for i, t := range tags {
		b = strconv.AppendInt(b, int64(t), 10)
		if i != len(tags)-1 {
			b = append(b, ',')
		}
	}
	return b
}
