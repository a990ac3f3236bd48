package vm

import "github.com/emu3/trivm/ternary"

// VM is the fetch/decode/dispatch engine (spec.md §4.8). State: a running
// flag, PC, the register file, and memory. Every handler below is grounded
// on the corresponding op_* method of original_source/src/vm.rs; three
// places where this engine's behavior differs from that source are spelled
// out where they occur, because spec.md states the behavior explicitly and
// spec.md is the contract (see DESIGN.md's Open Question decisions for the
// full reasoning): DIV's LO/HI assignment, J/JAL/JR/JALR being absolute
// rather than relative, and ANDI performing a bitwise AND rather than an
// add.
type VM struct {
	Running   bool
	PC        int32
	Cycles    uint64
	Registers RegisterFile
	Memory    *Memory

	// CycleLimit halts Run with a CycleLimitExceeded error once reached; 0
	// means unbounded. Step itself never consults this field — only Run
	// does, since a caller driving Step directly (tests, a future
	// debugger) is assumed to manage its own stopping condition.
	CycleLimit uint64

	// Syscall is invoked by the SYSCALL instruction; its behavior is a host
	// concern (spec.md §4.8: "SYSCALL is a hook whose behavior is
	// delegated to the host"). A nil hook makes SYSCALL a no-op.
	Syscall func(vm *VM) error

	// Trace and Statistics are optional instrumentation hooks, populated
	// by the launcher when the operator asks for them; Step leaves them
	// alone when nil.
	Trace      *ExecutionTrace
	Statistics *PerformanceStatistics
	Coverage   *CodeCoverage
}

// NewVM constructs a VM with a fresh memSize-tryte memory and a zeroed
// register file.
func NewVM(memSize int) *VM {
	return &VM{
		Memory:  NewMemory(memSize),
		Syscall: func(*VM) error { return nil },
	}
}

// Run sets PC and executes steps until BREAK clears Running or a step
// returns an error.
func (vm *VM) Run(pc0 int32) error {
	vm.PC = pc0
	vm.Running = true
	for vm.Running {
		if vm.CycleLimit > 0 && vm.Cycles >= vm.CycleLimit {
			vm.Running = false
			return newError(CycleLimitExceeded, "exceeded cycle limit of %d", vm.CycleLimit)
		}
		if err := vm.Step(); err != nil {
			vm.Running = false
			return err
		}
	}
	return nil
}

// Step fetches one instruction word at PC, advances PC by 4, decodes and
// dispatches it, then restores the ZERO register invariant.
func (vm *VM) Step() error {
	fetchPC := vm.PC
	word, err := vm.Memory.ReadWord(vm.PC)
	if err != nil {
		return err
	}
	vm.PC += 4

	inst, err := DecodeInstruction(word)
	if err != nil {
		return err
	}

	if err := vm.dispatch(inst); err != nil {
		return err
	}
	vm.Registers.ClearZero()
	vm.Cycles++

	if vm.Statistics != nil {
		vm.Statistics.RecordInstruction(inst.Op.String(), uint32(fetchPC), 1)
	}
	if vm.Coverage != nil {
		vm.Coverage.RecordExecution(uint32(fetchPC), vm.Cycles)
	}
	if vm.Trace != nil {
		vm.Trace.RecordInstruction(vm, fetchPC, inst.Op.String())
	}
	return nil
}

func (vm *VM) dispatch(inst Instruction) error {
	switch inst.Op {
	case OpAND:
		return vm.binaryRRR(inst.Operand.(OperandRRR), ternary.Word.And)
	case OpOR:
		return vm.binaryRRR(inst.Operand.(OperandRRR), ternary.Word.Or)
	case OpTMUL:
		return vm.binaryRRR(inst.Operand.(OperandRRR), ternary.Word.Tmul)
	case OpTCMP:
		return vm.binaryRRR(inst.Operand.(OperandRRR), ternary.Word.Tcmp)
	case OpCMP:
		return vm.opCmp(inst.Operand.(OperandRRR))
	case OpSHF:
		return vm.opShf(inst.Operand.(OperandRRR))
	case OpADD:
		return vm.opAdd(inst.Operand.(OperandRRR))
	case OpMUL:
		return vm.opMul(inst.Operand.(OperandRR))
	case OpDIV:
		return vm.opDiv(inst.Operand.(OperandRR))

	case OpANDI:
		return vm.binaryRRI(inst.Operand.(OperandRRI), ternary.Word.And)
	case OpORI:
		return vm.binaryRRI(inst.Operand.(OperandRRI), ternary.Word.Or)
	case OpTMULI:
		return vm.binaryRRI(inst.Operand.(OperandRRI), ternary.Word.Tmul)
	case OpTCMPI:
		return vm.binaryRRI(inst.Operand.(OperandRRI), ternary.Word.Tcmp)
	case OpSHFI:
		return vm.opShfi(inst.Operand.(OperandRRI))
	case OpADDI:
		return vm.opAddi(inst.Operand.(OperandRRI))

	case OpLUI:
		return vm.opLui(inst.Operand.(OperandRI))

	case OpLT:
		return vm.load(inst.Operand.(OperandRRO), 1)
	case OpLH:
		return vm.load(inst.Operand.(OperandRRO), 2)
	case OpLW:
		return vm.load(inst.Operand.(OperandRRO), 4)
	case OpST:
		return vm.store(inst.Operand.(OperandRRO), 1)
	case OpSH:
		return vm.store(inst.Operand.(OperandRRO), 2)
	case OpSW:
		return vm.store(inst.Operand.(OperandRRO), 4)

	case OpBT:
		return vm.branch(inst.Operand.(OperandRO), branchCases[OpBT])
	case OpB0:
		return vm.branch(inst.Operand.(OperandRO), branchCases[OpB0])
	case OpB1:
		return vm.branch(inst.Operand.(OperandRO), branchCases[OpB1])
	case OpBT0:
		return vm.branch(inst.Operand.(OperandRO), branchCases[OpBT0])
	case OpBT1:
		return vm.branch(inst.Operand.(OperandRO), branchCases[OpBT1])
	case OpB01:
		return vm.branch(inst.Operand.(OperandRO), branchCases[OpB01])

	case OpBAL:
		return vm.opBal(inst.Operand.(OperandO))
	case OpJ:
		return vm.opJ(inst.Operand.(OperandA))
	case OpJAL:
		return vm.opJal(inst.Operand.(OperandA))
	case OpJR:
		return vm.opJr(inst.Operand.(OperandR))
	case OpJALR:
		return vm.opJalr(inst.Operand.(OperandR))

	case OpSYSCALL:
		return vm.Syscall(vm)
	case OpBREAK:
		vm.Running = false
		return nil
	}
	return newError(InvalidOpcode, "unhandled opcode %s", inst.Op)
}

// binaryRRR implements AND/OR/TMUL/TCMP: dest = op(reg[lhs], reg[rhs]).
func (vm *VM) binaryRRR(o OperandRRR, op func(ternary.Word, ternary.Word) ternary.Word) error {
	lhs, rhs := vm.Registers.Get(o.Lhs), vm.Registers.Get(o.Rhs)
	vm.Registers.Set(o.Dest, op(lhs, rhs))
	return nil
}

// binaryRRI implements ANDI/ORI/TMULI/TCMPI: dest = op(reg[src], imm),
// with the immediate sign-extended to a full word before the operation
// (balanced ternary's zero padding is sign-preserving, so this is a plain
// widen, not a special-cased extension).
func (vm *VM) binaryRRI(o OperandRRI, op func(ternary.Word, ternary.Word) ternary.Word) error {
	imm, err := ternary.WordFromInt(o.Immediate)
	if err != nil {
		return err
	}
	vm.Registers.Set(o.Dest, op(vm.Registers.Get(o.Src), imm))
	return nil
}

// opCmp writes only trit 0 of dest to the overall (MSB-to-LSB) comparison
// of lhs and rhs, leaving the rest of dest — and HI — untouched apart from
// the usual ZERO-register reset (the first Open Question resolution in
// DESIGN.md).
func (vm *VM) opCmp(o OperandRRR) error {
	lhs, rhs := vm.Registers.Get(o.Lhs), vm.Registers.Get(o.Rhs)
	cmp := lhs.Compare(rhs)
	dest := vm.Registers.Get(o.Dest).SetTrit(0, cmp)
	vm.Registers.Set(o.Dest, dest)
	return nil
}

// opShf and opShfi shift reg[lhs]/reg[src] by the given offset, writing
// the 3-word-wide result's middle third to dest and the low/high thirds to
// LO/HI (spec.md §4.8).
func (vm *VM) opShf(o OperandRRR) error {
	offset, err := vm.Registers.Get(o.Rhs).ToInt()
	if err != nil {
		return err
	}
	return vm.shiftInto(o.Dest, vm.Registers.Get(o.Lhs), int(offset))
}

func (vm *VM) opShfi(o OperandRRI) error {
	return vm.shiftInto(o.Dest, vm.Registers.Get(o.Src), int(o.Immediate))
}

func (vm *VM) shiftInto(dest Register, value ternary.Word, offset int) error {
	low, mid, high := value.Shift(offset).Split()
	vm.Registers.Set(dest, mid)
	vm.Registers.Set(LO, low)
	vm.Registers.Set(HI, high)
	return nil
}

// opAdd and opAddi add with carry, writing the carry trit into HI's
// trit 0 (HI is otherwise cleared) and the sum to dest.
func (vm *VM) opAdd(o OperandRRR) error {
	lhs, rhs := vm.Registers.Get(o.Lhs), vm.Registers.Get(o.Rhs)
	return vm.addInto(o.Dest, lhs, rhs)
}

func (vm *VM) opAddi(o OperandRRI) error {
	imm, err := ternary.WordFromInt(o.Immediate)
	if err != nil {
		return err
	}
	return vm.addInto(o.Dest, vm.Registers.Get(o.Src), imm)
}

func (vm *VM) addInto(dest Register, lhs, rhs ternary.Word) error {
	sum, carry := lhs.AddCarry(rhs, ternary.Zero)
	vm.Registers.Set(dest, sum)
	vm.Registers.Set(HI, ternary.ZeroWord.SetTrit(0, carry))
	return nil
}

// opMul multiplies reg[lhs] by reg[rhs] into a double-width product, low
// half to LO and high half to HI (spec.md §4.8). There is no dest operand:
// MUL is RR-shaped, the result always lands in LO/HI.
func (vm *VM) opMul(o OperandRR) error {
	product := ternary.MultiplyWords(vm.Registers.Get(o.Lhs), vm.Registers.Get(o.Rhs))
	lo, hi := product.SplitWords()
	vm.Registers.Set(LO, lo)
	vm.Registers.Set(HI, hi)
	return nil
}

// opDiv divides reg[lhs] by reg[rhs], quotient to LO and remainder to HI
// (spec.md §4.8's explicit statement, which this engine follows over the
// original source's LO/HI having been swapped — see DESIGN.md).
func (vm *VM) opDiv(o OperandRR) error {
	lhs, rhs := vm.Registers.Get(o.Lhs), vm.Registers.Get(o.Rhs)
	quotient, remainder, err := lhs.DivRem(rhs)
	if err != nil {
		return err
	}
	vm.Registers.Set(LO, quotient)
	vm.Registers.Set(HI, remainder)
	return nil
}

// opLui places the 12-trit immediate verbatim into the high half of dest
// (trits 12..23), zeroing the low half.
func (vm *VM) opLui(o OperandRI) error {
	high, err := ternary.HalfFromInt(o.Immediate)
	if err != nil {
		return err
	}
	var w ternary.Word
	w[2], w[3] = high[0], high[1]
	vm.Registers.Set(o.Dest, w)
	return nil
}

// load reads n trytes from reg[src]+offset and zero-extends them into
// dest — in balanced ternary, zero-padding the unread high trytes is
// exactly sign extension, since every trit beyond the value's own length
// contributes nothing to its magnitude regardless of sign. n==2 and n==4
// go through Memory's alignment-checked ReadHalf/ReadWord (spec.md §4.8:
// "alignment is 1, 2, 4 respectively"); n==1 has no alignment requirement,
// so it reads the single tryte directly.
func (vm *VM) load(o OperandRRO, n int) error {
	addr, err := vm.effectiveAddress(o)
	if err != nil {
		return err
	}
	var w ternary.Word
	switch n {
	case 1:
		t, err := vm.Memory.ReadTryte(addr)
		if err != nil {
			return err
		}
		w[0] = t
	case 2:
		h, err := vm.Memory.ReadHalf(addr)
		if err != nil {
			return err
		}
		w[0], w[1] = h[0], h[1]
	case 4:
		w, err = vm.Memory.ReadWord(addr)
		if err != nil {
			return err
		}
	}
	vm.Registers.Set(o.Dest, w)
	if vm.Statistics != nil {
		vm.Statistics.RecordMemoryRead(uint64(n))
	}
	return nil
}

// store writes the low n trytes of reg[dest] (the data register — the RRO
// shape's "dest" field names the value to write, not a write destination,
// when reused by the store family) to reg[src]+offset. n==2 and n==4 go
// through Memory's alignment-checked WriteHalf/WriteWord; n==1 has no
// alignment requirement.
func (vm *VM) store(o OperandRRO, n int) error {
	addr, err := vm.effectiveAddress(o)
	if err != nil {
		return err
	}
	value := vm.Registers.Get(o.Dest)
	var err2 error
	switch n {
	case 1:
		err2 = vm.Memory.WriteTryte(addr, value[0])
	case 2:
		var h ternary.Half
		h[0], h[1] = value[0], value[1]
		err2 = vm.Memory.WriteHalf(addr, h)
	case 4:
		err2 = vm.Memory.WriteWord(addr, value)
	}
	if err2 != nil {
		return err2
	}
	if vm.Statistics != nil {
		vm.Statistics.RecordMemoryWrite(uint64(n))
	}
	return nil
}

func (vm *VM) effectiveAddress(o OperandRRO) (int32, error) {
	base, err := vm.Registers.Get(o.Src).ToInt()
	if err != nil {
		return 0, err
	}
	return int32(base + o.Offset), nil
}

// branchCase is a [3]bool indexed by tritIndex(selector): which of the
// three selector values (−1, 0, +1) make this mnemonic jump.
type branchCase = [3]bool

var branchCases = map[Opcode]branchCase{
	OpBT:  {true, false, false},
	OpB0:  {false, true, false},
	OpB1:  {false, false, true},
	OpBT0: {true, true, false},
	OpBT1: {true, false, true},
	OpB01: {false, true, true},
}

func tritIndex(t ternary.Trit) int {
	switch t {
	case ternary.Neg:
		return 0
	case ternary.Pos:
		return 2
	default:
		return 1
	}
}

// branch reads the selector (trit 0 of reg[src]) and adds offset to PC —
// which has already advanced past the instruction — only when the
// selector's case is active for this mnemonic (spec.md §4.8).
func (vm *VM) branch(o OperandRO, cases branchCase) error {
	selector := vm.Registers.Get(o.Src).Trit(0)
	if cases[tritIndex(selector)] {
		vm.PC += int32(o.Offset)
	}
	return nil
}

// opBal is BAL: relative unconditional branch that also saves RA.
func (vm *VM) opBal(o OperandO) error {
	vm.saveReturnAddress()
	vm.PC += int32(o.Offset)
	return nil
}

// opJ, opJal, opJr, opJalr are the absolute call/jump family (spec.md
// §4.8). This engine treats J/JAL's 20-trit field as an absolute address
// and JR/JALR's target as an absolute register value, per spec.md's
// explicit wording — original_source/src/vm.rs instead treats all four as
// PC-relative; see DESIGN.md.
func (vm *VM) opJ(o OperandA) error {
	vm.PC = int32(o.Address)
	return nil
}

func (vm *VM) opJal(o OperandA) error {
	vm.saveReturnAddress()
	vm.PC = int32(o.Address)
	return nil
}

func (vm *VM) opJr(o OperandR) error {
	target, err := vm.Registers.Get(o.Src).ToInt()
	if err != nil {
		return err
	}
	vm.PC = int32(target)
	return nil
}

func (vm *VM) opJalr(o OperandR) error {
	target, err := vm.Registers.Get(o.Src).ToInt()
	if err != nil {
		return err
	}
	vm.saveReturnAddress()
	vm.PC = int32(target)
	return nil
}

func (vm *VM) saveReturnAddress() {
	ra, err := ternary.WordFromInt(int64(vm.PC))
	if err != nil {
		// PC is always far inside a word's ±141-billion range.
		panic(err)
	}
	vm.Registers.Set(RA, ra)
}
