package geobuild

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// geoHeader selects the OpenCASCADE kernel, which provides the solid
// primitives and boolean operations the instructions rely on.
const geoHeader = `SetFactory("OpenCASCADE");`

// Program is a finished CSG instruction sequence ready for emission.
// Programs are built with [Builder.Program] and are immutable.
type Program struct {
	instrs []Instruction
}

// Instructions returns a copy of the instruction sequence in emission
// order.
func (p *Program) Instructions() []Instruction {
	return append([]Instruction{}, p.instrs...)
}

// Validate walks the instruction sequence and reports every reference to
// a handle that was never defined or was already consumed by an earlier
// boolean operation. A nil result means every instruction only touches
// live volumes.
func (p *Program) Validate() error {
	var errs []error
	state := make(map[Handle]int) // handle -> index of consuming instruction, -1 while alive.
	check := func(i int, h Handle, kill bool) {
		at, ok := state[h]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("instruction %d %s references undefined volume handle %d", i, p.instrs[i].Name(), h))
		case at >= 0:
			errs = append(errs, fmt.Errorf("instruction %d %s references volume handle %d consumed by instruction %d %s", i, p.instrs[i].Name(), h, at, p.instrs[at].Name()))
		case kill:
			state[h] = i
		}
	}
	for i, instr := range p.instrs {
		def, use, consume := instr.handles()
		for _, h := range use {
			check(i, h, false)
		}
		for _, h := range consume {
			check(i, h, true)
		}
		for _, h := range def {
			if _, ok := state[h]; ok {
				errs = append(errs, fmt.Errorf("instruction %d %s redefines volume handle %d", i, instr.Name(), h))
				continue
			}
			state[h] = -1
		}
	}
	return errors.Join(errs...)
}

// WriteTo emits the .geo script. Instructions are separated into blank
// line delimited sections following the conventional script layout:
// primitives, booleans, physical groups, mesh controls.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	var n int64
	write := func(b []byte) error {
		ngot, err := w.Write(b)
		n += int64(ngot)
		return err
	}
	scratch := make([]byte, 0, 128)
	scratch = append(scratch, geoHeader...)
	scratch = append(scratch, '\n')
	if err := write(scratch); err != nil {
		return n, err
	}
	prevClass := -1
	for _, instr := range p.instrs {
		scratch = scratch[:0]
		if c := instr.class(); c != prevClass {
			scratch = append(scratch, '\n')
			prevClass = c
		}
		scratch = instr.AppendGeo(scratch)
		scratch = append(scratch, '\n')
		if err := write(scratch); err != nil {
			return n, err
		}
	}
	return n, nil
}

// String renders the program as .geo source.
func (p *Program) String() string {
	var sb strings.Builder
	p.WriteTo(&sb)
	return sb.String()
}
