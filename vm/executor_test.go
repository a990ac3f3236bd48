package vm

import (
	"testing"

	"github.com/emu3/trivm/ternary"
)

// stepWord places a single-word instruction at the current PC and runs exactly one step.
func stepWord(t *testing.T, m *VM, w ternary.Word) {
	t.Helper()
	if err := m.Memory.WriteWord(m.PC, w); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	if err := m.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
}

func setReg(t *testing.T, m *VM, r Register, n int64) {
	t.Helper()
	w, err := ternary.WordFromInt(n)
	if err != nil {
		t.Fatalf("WordFromInt(%d): %v", n, err)
	}
	m.Registers.Set(r, w)
}

func getInt(t *testing.T, m *VM, r Register) int64 {
	t.Helper()
	n, err := m.Registers.Get(r).ToInt()
	if err != nil {
		t.Fatalf("ToInt: %v", err)
	}
	return n
}

func TestStepAdvancesPCAndCycles(t *testing.T) {
	m := NewVM(200)
	w := buildWord(t, field{0, int64(OpAND)}, field{4, int64(T0)})
	stepWord(t, m, w)
	if m.PC != 4 {
		t.Errorf("PC = %d, want 4", m.PC)
	}
	if m.Cycles != 1 {
		t.Errorf("Cycles = %d, want 1", m.Cycles)
	}
}

func TestBinaryRRRAnd(t *testing.T) {
	m := NewVM(200)
	setReg(t, m, T1, 5)
	setReg(t, m, T2, -3)
	w := buildWord(t, field{0, int64(OpAND)}, field{4, int64(T0)}, field{8, int64(T1)}, field{12, int64(T2)})
	stepWord(t, m, w)
	lhs, _ := ternary.WordFromInt(5)
	rhs, _ := ternary.WordFromInt(-3)
	want := lhs.And(rhs)
	if got := m.Registers.Get(T0); got != want {
		t.Errorf("T0 = %v, want %v", got, want)
	}
}

func TestBinaryRRIAndi(t *testing.T) {
	m := NewVM(200)
	setReg(t, m, T1, 7)
	w := buildWord(t, field{0, int64(OpANDI)}, field{4, int64(T0)}, field{8, int64(T1)}, field{12, -2})
	stepWord(t, m, w)
	lhs, _ := ternary.WordFromInt(7)
	rhs, _ := ternary.WordFromInt(-2)
	want := lhs.And(rhs)
	if got := m.Registers.Get(T0); got != want {
		t.Errorf("T0 = %v, want %v", got, want)
	}
}

func TestOpCmpWritesOnlyTritZero(t *testing.T) {
	m := NewVM(200)
	setReg(t, m, T1, 10)
	setReg(t, m, T2, 3)
	// Seed dest with a nonzero value in the higher trits to confirm only
	// trit 0 changes.
	setReg(t, m, T0, 5)
	w := buildWord(t, field{0, int64(OpCMP)}, field{4, int64(T0)}, field{8, int64(T1)}, field{12, int64(T2)})
	stepWord(t, m, w)
	dest := m.Registers.Get(T0)
	want, _ := ternary.WordFromInt(5)
	want = want.SetTrit(0, ternary.Pos) // 10 > 3
	if dest != want {
		t.Errorf("CMP dest = %v, want %v", dest, want)
	}
}

func TestOpAddCarryIntoHI(t *testing.T) {
	m := NewVM(200)
	// Pick values whose sum overflows a single word to force a carry.
	big := int64(1)
	for i := 0; i < 24; i++ {
		big *= 3
	}
	half := big / 2
	setReg(t, m, T1, half)
	setReg(t, m, T2, half)
	w := buildWord(t, field{0, int64(OpADD)}, field{4, int64(T0)}, field{8, int64(T1)}, field{12, int64(T2)})
	stepWord(t, m, w)
	lhs, _ := ternary.WordFromInt(half)
	sum, carry := lhs.AddCarry(lhs, ternary.Zero)
	if got := m.Registers.Get(T0); got != sum {
		t.Errorf("T0 = %v, want %v", got, sum)
	}
	wantHI := ternary.ZeroWord.SetTrit(0, carry)
	if got := m.Registers.Get(HI); got != wantHI {
		t.Errorf("HI = %v, want %v", got, wantHI)
	}
}

func TestOpMulSplitsIntoLoHi(t *testing.T) {
	m := NewVM(200)
	setReg(t, m, T0, 1000000)
	setReg(t, m, T1, 1000000)
	w := buildWord(t, field{0, int64(OpMUL)}, field{4, int64(T0)}, field{8, int64(T1)})
	stepWord(t, m, w)
	a, _ := ternary.WordFromInt(1000000)
	product := ternary.MultiplyWords(a, a)
	lo, hi := product.SplitWords()
	if got := m.Registers.Get(LO); got != lo {
		t.Errorf("LO = %v, want %v", got, lo)
	}
	if got := m.Registers.Get(HI); got != hi {
		t.Errorf("HI = %v, want %v", got, hi)
	}
}

func TestOpDivQuotientLoRemainderHi(t *testing.T) {
	m := NewVM(200)
	setReg(t, m, T0, 17)
	setReg(t, m, T1, 5)
	w := buildWord(t, field{0, int64(OpDIV)}, field{4, int64(T0)}, field{8, int64(T1)})
	stepWord(t, m, w)
	if got := getInt(t, m, LO); got != 17/5 {
		t.Errorf("LO = %d, want %d", got, 17/5)
	}
	if got := getInt(t, m, HI); got != 17%5 {
		t.Errorf("HI = %d, want %d", got, 17%5)
	}
}

func TestOpShfSplitsAcrossLoDestHi(t *testing.T) {
	m := NewVM(200)
	setReg(t, m, T0, 42)
	setReg(t, m, T1, 3) // shift amount
	w := buildWord(t, field{0, int64(OpSHF)}, field{4, int64(T2)}, field{8, int64(T0)}, field{12, int64(T1)})
	stepWord(t, m, w)
	value, _ := ternary.WordFromInt(42)
	low, mid, high := value.Shift(3).Split()
	if got := m.Registers.Get(T2); got != mid {
		t.Errorf("dest = %v, want %v", got, mid)
	}
	if got := m.Registers.Get(LO); got != low {
		t.Errorf("LO = %v, want %v", got, low)
	}
	if got := m.Registers.Get(HI); got != high {
		t.Errorf("HI = %v, want %v", got, high)
	}
}

func TestOpLuiPlacesHighHalf(t *testing.T) {
	m := NewVM(200)
	w := buildWord(t, field{0, int64(OpLUI)}, field{4, int64(T0)}, field{12, 555})
	stepWord(t, m, w)
	high, _ := ternary.HalfFromInt(555)
	var want ternary.Word
	want[2], want[3] = high[0], high[1]
	if got := m.Registers.Get(T0); got != want {
		t.Errorf("T0 = %v, want %v", got, want)
	}
}

func TestLoadStoreRoundTrip(t *testing.T) {
	m := NewVM(200)
	setReg(t, m, SP, 0)
	setReg(t, m, T0, -777)
	// SW reg[T0] into [SP+8]
	sw := buildWord(t, field{0, int64(OpSW)}, field{4, int64(T0)}, field{8, int64(SP)}, field{12, 8})
	stepWord(t, m, sw)

	lw := buildWord(t, field{0, int64(OpLW)}, field{4, int64(T1)}, field{8, int64(SP)}, field{12, 8})
	stepWord(t, m, lw)
	if got := getInt(t, m, T1); got != -777 {
		t.Errorf("loaded value = %d, want -777", got)
	}
}

func TestLoadStoreRejectMisalignedAddress(t *testing.T) {
	tests := []struct {
		name string
		op   Opcode
	}{
		{"LH", OpLH},
		{"LW", OpLW},
		{"SH", OpSH},
		{"SW", OpSW},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewVM(200)
			setReg(t, m, SP, 0)
			setReg(t, m, T0, 1)
			// offset 1 off SP=0 is never 2- or 4-tryte aligned.
			w := buildWord(t, field{0, int64(tc.op)}, field{4, int64(T0)}, field{8, int64(SP)}, field{12, 1})
			if err := m.Memory.WriteWord(m.PC, w); err != nil {
				t.Fatalf("WriteWord: %v", err)
			}
			err := m.Step()
			if err == nil {
				t.Fatalf("%s at a misaligned address should fail, got nil", tc.name)
			}
			vmErr, ok := err.(*Error)
			if !ok || vmErr.Kind != InvalidAlignment {
				t.Errorf("%s err = %v, want an InvalidAlignment *Error", tc.name, err)
			}
		})
	}
}

func TestBranchTakenAndNotTaken(t *testing.T) {
	m := NewVM(200)
	setReg(t, m, T0, 1) // selector trit0 = +1
	bt1 := buildWord(t, field{0, int64(OpBT1)}, field{4, int64(T0)}, field{8, 100})
	stepWord(t, m, bt1)
	if m.PC != 4+100 {
		t.Errorf("PC after taken BT1 = %d, want %d", m.PC, 104)
	}

	m2 := NewVM(200)
	setReg(t, m2, T0, 1)
	b0 := buildWord(t, field{0, int64(OpB0)}, field{4, int64(T0)}, field{8, 100})
	stepWord(t, m2, b0)
	if m2.PC != 4 {
		t.Errorf("PC after untaken B0 = %d, want 4 (no jump)", m2.PC)
	}
}

func TestOpBalSavesReturnAddress(t *testing.T) {
	m := NewVM(200)
	w := buildWord(t, field{0, int64(OpBAL)}, field{4, 40})
	stepWord(t, m, w)
	if m.PC != 4+40 {
		t.Errorf("PC = %d, want 44", m.PC)
	}
	if got := getInt(t, m, RA); got != 4 {
		t.Errorf("RA = %d, want 4 (address after the BAL instruction)", got)
	}
}

func TestOpJAbsoluteNoLink(t *testing.T) {
	m := NewVM(200)
	w := buildWord(t, field{0, int64(OpJ)}, field{4, 20})
	stepWord(t, m, w)
	if m.PC != 20 {
		t.Errorf("PC = %d, want 20 (absolute, not PC-relative)", m.PC)
	}
	if got := getInt(t, m, RA); got != 0 {
		t.Errorf("RA = %d, want 0 (J does not link)", got)
	}
}

func TestOpJalAbsoluteWithLink(t *testing.T) {
	m := NewVM(200)
	w := buildWord(t, field{0, int64(OpJAL)}, field{4, 20})
	stepWord(t, m, w)
	if m.PC != 20 {
		t.Errorf("PC = %d, want 20", m.PC)
	}
	if got := getInt(t, m, RA); got != 4 {
		t.Errorf("RA = %d, want 4", got)
	}
}

func TestOpJrAndJalr(t *testing.T) {
	m := NewVM(200)
	setReg(t, m, T0, 60)
	w := buildWord(t, field{0, int64(OpJR)}, field{4, int64(T0)})
	stepWord(t, m, w)
	if m.PC != 60 {
		t.Errorf("PC = %d, want 60", m.PC)
	}

	m2 := NewVM(200)
	setReg(t, m2, T0, 60)
	w2 := buildWord(t, field{0, int64(OpJALR)}, field{4, int64(T0)})
	stepWord(t, m2, w2)
	if m2.PC != 60 {
		t.Errorf("PC = %d, want 60", m2.PC)
	}
	if got := getInt(t, m2, RA); got != 4 {
		t.Errorf("RA = %d, want 4", got)
	}
}

func TestSyscallHookInvoked(t *testing.T) {
	m := NewVM(200)
	called := false
	m.Syscall = func(*VM) error {
		called = true
		return nil
	}
	w := buildWord(t, field{0, int64(OpSYSCALL)})
	stepWord(t, m, w)
	if !called {
		t.Fatal("SYSCALL did not invoke the Syscall hook")
	}
}

func TestBreakStopsRunning(t *testing.T) {
	m := NewVM(200)
	m.Running = true
	w := buildWord(t, field{0, int64(OpBREAK)})
	stepWord(t, m, w)
	if m.Running {
		t.Error("BREAK should clear Running")
	}
}

func TestClearZeroAfterEveryStep(t *testing.T) {
	m := NewVM(200)
	// ADDI writing into ZERO should still read back as +0 afterward.
	w := buildWord(t, field{0, int64(OpADDI)}, field{4, int64(ZERO)}, field{8, int64(ZERO)}, field{12, 77})
	stepWord(t, m, w)
	if got := m.Registers.Get(ZERO); got != ternary.ZeroWord {
		t.Errorf("ZERO after Step = %v, want ZeroWord", got)
	}
}

func TestRunStopsOnBreak(t *testing.T) {
	m := NewVM(200)
	addWord := buildWord(t, field{0, int64(OpADDI)}, field{4, int64(T0)}, field{8, int64(ZERO)}, field{12, 1})
	breakWord := buildWord(t, field{0, int64(OpBREAK)})
	if err := m.Memory.WriteWord(0, addWord); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	if err := m.Memory.WriteWord(4, breakWord); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	if err := m.Run(0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.Running {
		t.Error("Run should have stopped after BREAK")
	}
	if got := getInt(t, m, T0); got != 1 {
		t.Errorf("T0 = %d, want 1", got)
	}
	if m.Cycles != 2 {
		t.Errorf("Cycles = %d, want 2", m.Cycles)
	}
}

func TestRunStopsAtCycleLimit(t *testing.T) {
	m := NewVM(200)
	m.CycleLimit = 2
	// Freshly allocated memory is all-zero trytes, which decodes as
	// AND ZERO,ZERO,ZERO (opcode 0) everywhere — a program that never
	// reaches BREAK on its own.
	err := m.Run(0)
	if err == nil {
		t.Fatal("expected a cycle-limit error")
	}
	vmErr, ok := err.(*Error)
	if !ok || vmErr.Kind != CycleLimitExceeded {
		t.Errorf("err = %v, want a CycleLimitExceeded *Error", err)
	}
	if m.Running {
		t.Error("Run should have cleared Running when the cycle limit was hit")
	}
	if m.Cycles != 2 {
		t.Errorf("Cycles = %d, want 2", m.Cycles)
	}
}
