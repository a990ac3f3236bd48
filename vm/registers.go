package vm

import (
	"strings"

	"github.com/emu3/trivm/ternary"
)

// Register names one of the 24 fixed roles a general register can hold
// (spec.md §3: "An index 0..24 naming a role").
type Register int

const (
	ZERO Register = iota
	LO
	HI
	SP
	FP
	RA
	A0
	A1
	A2
	A3
	A4
	A5
	S0
	S1
	S2
	S3
	S4
	S5
	T0
	T1
	T2
	T3
	T4
	T5

	RegisterCount = 24
)

var registerNames = [RegisterCount]string{
	"ZERO", "LO", "HI", "SP", "FP", "RA",
	"A0", "A1", "A2", "A3", "A4", "A5",
	"S0", "S1", "S2", "S3", "S4", "S5",
	"T0", "T1", "T2", "T3", "T4", "T5",
}

func (r Register) String() string {
	if r < 0 || int(r) >= RegisterCount {
		return "?"
	}
	return registerNames[r]
}

// ParseRegister looks up a register by its name (case-insensitive), as used
// when an operator names registers on the command line (e.g. a trace
// filter list).
func ParseRegister(name string) (Register, error) {
	upper := strings.ToUpper(name)
	for i, n := range registerNames {
		if n == upper {
			return Register(i), nil
		}
	}
	return 0, newError(InvalidRegister, "unknown register name %q", name)
}

// RegisterFromIndex validates a decoded register-selector integer (spec.md
// §4.6: "Register selectors are themselves 4-trit encodings through the
// same integer table; an index outside 0..24 fails with InvalidRegister").
func RegisterFromIndex(i int) (Register, error) {
	if i < 0 || i >= RegisterCount {
		return 0, newError(InvalidRegister, "register index %d is outside [0,%d)", i, RegisterCount)
	}
	return Register(i), nil
}

// RegisterFile is the VM's 24-register bank, each holding one Word
// (spec.md §3: "Mapping from Register to T24 (word)").
type RegisterFile struct {
	regs [RegisterCount]ternary.Word
}

// Get returns the current value of r.
func (f *RegisterFile) Get(r Register) ternary.Word {
	return f.regs[r]
}

// Set writes v into r.
func (f *RegisterFile) Set(r Register, v ternary.Word) {
	f.regs[r] = v
}

// ClearZero rewrites ZERO to +0, unconditionally (spec.md §4.8: "After
// every instruction, the ZERO register is rewritten to +0. This includes
// instructions that nominally wrote to ZERO").
func (f *RegisterFile) ClearZero() {
	f.regs[ZERO] = ternary.ZeroWord
}

// Reset zeroes every register.
func (f *RegisterFile) Reset() {
	for i := range f.regs {
		f.regs[i] = ternary.ZeroWord
	}
}

// Snapshot returns a copy of every register's current value, used by
// callers that want to diff register state across a step (e.g. tracing).
func (f *RegisterFile) Snapshot() [RegisterCount]ternary.Word {
	return f.regs
}
