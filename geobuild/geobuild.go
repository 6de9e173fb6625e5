// Package geobuild assembles constructive solid geometry programs in the
// gmsh OpenCASCADE .geo dialect. Solids are referenced by opaque handles;
// boolean operations consume their operand handles in the same way gmsh
// deletes tool volumes, so a consumed handle can never appear in a later
// instruction. Programs are symbolic only: no geometry is evaluated here,
// malformed solids surface when the external mesher runs the script.
package geobuild

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/md3"
)

// Handle references a solid volume created by a primitive or boolean
// instruction. The zero Handle is invalid. Handles are single-use on the
// consuming side: once passed to [Builder.Difference] or [Builder.Fuse]
// they are dead and any further use is an emission error.
type Handle int

// entity tracks the gmsh volume tag behind a handle and which instruction
// consumed it, -1 while alive.
type entity struct {
	tag  int
	dead int
}

// Builder accumulates CSG instructions and checks handle validity as they
// are emitted. Misuse panics unless NoEmitPanic is set, in which case
// errors accumulate and are returned by Err and Program.
type Builder struct {
	NoEmitPanic bool
	accumErrs   []error
	instrs      []Instruction
	ents        []entity
	nextTag     int
}

func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

func (bld *Builder) emitErrorf(msg string, args ...any) {
	if !bld.NoEmitPanic {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

// newEntity allocates a handle backed by a fresh gmsh tag.
func (bld *Builder) newEntity() (Handle, int) {
	bld.nextTag++
	bld.ents = append(bld.ents, entity{tag: bld.nextTag, dead: -1})
	return Handle(len(bld.ents)), bld.nextTag
}

// inherit allocates a handle that reuses an existing gmsh tag. Boolean
// results keep the tag of their first target since the operands are
// deleted by the operation.
func (bld *Builder) inherit(tag int) Handle {
	bld.ents = append(bld.ents, entity{tag: tag, dead: -1})
	return Handle(len(bld.ents))
}

func (bld *Builder) valid(h Handle) bool {
	return h > 0 && int(h) <= len(bld.ents)
}

// use validates handles an instruction reads without consuming them.
func (bld *Builder) use(op string, hs ...Handle) bool {
	ok := true
	for _, h := range hs {
		switch {
		case !bld.valid(h):
			bld.emitErrorf("%s references unknown volume handle %d", op, h)
			ok = false
		case bld.ents[h-1].dead >= 0:
			consumer := op // operand repeated within the consuming instruction itself
			if dead := bld.ents[h-1].dead; dead < len(bld.instrs) {
				consumer = bld.instrs[dead].Name()
			}
			bld.emitErrorf("%s references volume handle %d consumed by %s", op, h, consumer)
			ok = false
		}
	}
	return ok
}

// consume validates and kills handles, recording the consuming instruction
// index for error messages.
func (bld *Builder) consume(op string, at int, hs ...Handle) bool {
	ok := bld.use(op, hs...)
	for _, h := range hs {
		if bld.valid(h) && bld.ents[h-1].dead < 0 {
			bld.ents[h-1].dead = at
		}
	}
	return ok
}

func (bld *Builder) tags(hs []Handle) []int {
	tags := make([]int, 0, len(hs))
	for _, h := range hs {
		if bld.valid(h) {
			tags = append(tags, bld.ents[h-1].tag)
		}
	}
	return tags
}

// Box emits an axis aligned box primitive with one corner at origin
// spanning size along each axis.
func (bld *Builder) Box(origin, size md3.Vec) Handle {
	h, tag := bld.newEntity()
	bld.instrs = append(bld.instrs, boxInstr{h: h, tag: tag, origin: origin, size: size})
	return h
}

// Cylinder emits a cylinder primitive from base along axis. The axis
// vector carries both direction and length and may point any way,
// including into negative coordinates for recesses.
func (bld *Builder) Cylinder(base, axis md3.Vec, radius float64) Handle {
	h, tag := bld.newEntity()
	bld.instrs = append(bld.instrs, cylinderInstr{h: h, tag: tag, base: base, axis: axis, r: radius})
	return h
}

// Difference subtracts the remove volumes from the keep volumes. All
// operand handles are consumed; the result inherits the tag of keep[0].
func (bld *Builder) Difference(keep, remove []Handle) Handle {
	return bld.boolean(opDifference, keep, remove)
}

// Fuse unions the add volumes into the base volumes. All operand handles
// are consumed; the result inherits the tag of base[0].
func (bld *Builder) Fuse(base, add []Handle) Handle {
	return bld.boolean(opFuse, base, add)
}

func (bld *Builder) boolean(op string, targets, tools []Handle) Handle {
	at := len(bld.instrs)
	if len(targets) == 0 || len(tools) == 0 {
		bld.emitErrorf("%s needs at least one target and one tool volume", op)
	}
	bld.consume(op, at, targets...)
	bld.consume(op, at, tools...)
	resultTag := 0
	if len(targets) > 0 && bld.valid(targets[0]) {
		resultTag = bld.ents[targets[0]-1].tag
	}
	result := bld.inherit(resultTag)
	bld.instrs = append(bld.instrs, booleanInstr{
		op: op, result: result, resultTag: resultTag,
		targets: append([]Handle{}, targets...), targetTags: bld.tags(targets),
		tools: append([]Handle{}, tools...), toolTags: bld.tags(tools),
	})
	return result
}

// TagVolume names volumes as a physical group for the mesher.
func (bld *Builder) TagVolume(name string, vols ...Handle) {
	if len(vols) == 0 {
		bld.emitErrorf("physical volume %q needs at least one volume", name)
	}
	bld.use("Physical Volume", vols...)
	bld.instrs = append(bld.instrs, physVolumeInstr{name: name, vols: append([]Handle{}, vols...), tags: bld.tags(vols)})
}

// TagSurfacesIn names every surface inside box as a physical group.
// Surfaces may satisfy several tagged boxes; precedence between groups is
// purely their emission order.
func (bld *Builder) TagSurfacesIn(name string, box md3.Box) {
	bld.instrs = append(bld.instrs, physSurfaceInstr{name: name, box: box})
}

// TagRemainingSurfaces names the complement: every surface not claimed by
// a physical group emitted before it. Emit it last.
func (bld *Builder) TagRemainingSurfaces(name string) {
	bld.instrs = append(bld.instrs, physSurfaceInstr{name: name, all: true})
}

// MeshSizeAt sets the characteristic mesh length at every point of a
// volume. Values are forwarded verbatim to the mesher.
func (bld *Builder) MeshSizeAt(vol Handle, size float64) {
	bld.use("Characteristic Length", vol)
	tag := 0
	if bld.valid(vol) {
		tag = bld.ents[vol-1].tag
	}
	bld.instrs = append(bld.instrs, meshSizeInstr{vol: vol, tag: tag, size: size})
}

// Option emits a bare gmsh option assignment such as
// Mesh.CharacteristicLengthExtend = 0.
func (bld *Builder) Option(name string, value float64) {
	if name == "" {
		bld.emitErrorf("empty option name")
	}
	bld.instrs = append(bld.instrs, optionInstr{name: name, value: value})
}

// Program returns the instruction sequence built so far after checking
// accumulated errors and re-validating handle use over the whole sequence.
func (bld *Builder) Program() (*Program, error) {
	if err := bld.Err(); err != nil {
		return nil, err
	}
	p := &Program{instrs: append([]Instruction{}, bld.instrs...)}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
