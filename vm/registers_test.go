package vm

import (
	"testing"

	"github.com/emu3/trivm/ternary"
)

func TestRegisterFromIndexBounds(t *testing.T) {
	r, err := RegisterFromIndex(18)
	if err != nil || r != T0 {
		t.Errorf("RegisterFromIndex(18) = (%v,%v), want (T0,nil)", r, err)
	}
	if _, err := RegisterFromIndex(24); err == nil {
		t.Fatal("expected error for index 24 (out of [0,24))")
	}
	if _, err := RegisterFromIndex(-1); err == nil {
		t.Fatal("expected error for negative index")
	}
}

func TestRegisterStringNames(t *testing.T) {
	tests := map[Register]string{ZERO: "ZERO", LO: "LO", HI: "HI", RA: "RA", T0: "T0", T5: "T5"}
	for r, want := range tests {
		if got := r.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", r, got, want)
		}
	}
	if got := Register(99).String(); got != "?" {
		t.Errorf("out-of-range Register.String() = %q, want \"?\"", got)
	}
}

func TestParseRegisterKnownNames(t *testing.T) {
	tests := map[string]Register{"T0": T0, "t5": T5, "ra": RA, "ZERO": ZERO}
	for name, want := range tests {
		got, err := ParseRegister(name)
		if err != nil || got != want {
			t.Errorf("ParseRegister(%q) = (%v,%v), want (%v,nil)", name, got, err, want)
		}
	}
}

func TestParseRegisterUnknownName(t *testing.T) {
	if _, err := ParseRegister("X9"); err == nil {
		t.Fatal("expected error for an unknown register name")
	}
}

func TestRegisterFileGetSet(t *testing.T) {
	var f RegisterFile
	w, _ := ternary.WordFromInt(12345)
	f.Set(T0, w)
	if got := f.Get(T0); got != w {
		t.Errorf("Get(T0) = %v, want %v", got, w)
	}
	if got := f.Get(T1); got != ternary.ZeroWord {
		t.Errorf("an untouched register should read ZeroWord, got %v", got)
	}
}

func TestRegisterFileClearZero(t *testing.T) {
	var f RegisterFile
	w, _ := ternary.WordFromInt(1)
	f.Set(ZERO, w)
	f.ClearZero()
	if got := f.Get(ZERO); got != ternary.ZeroWord {
		t.Errorf("ClearZero should rewrite ZERO to +0, got %v", got)
	}
}

func TestRegisterFileReset(t *testing.T) {
	var f RegisterFile
	w, _ := ternary.WordFromInt(1)
	f.Set(T0, w)
	f.Set(S0, w)
	f.Reset()
	for r := Register(0); int(r) < RegisterCount; r++ {
		if got := f.Get(r); got != ternary.ZeroWord {
			t.Errorf("after Reset, %s = %v, want ZeroWord", r, got)
		}
	}
}

func TestRegisterFileSnapshot(t *testing.T) {
	var f RegisterFile
	w, _ := ternary.WordFromInt(7)
	f.Set(A0, w)
	snap := f.Snapshot()
	if snap[A0] != w {
		t.Errorf("Snapshot()[A0] = %v, want %v", snap[A0], w)
	}
	// The snapshot is a copy: later mutation must not alter it.
	f.Set(A0, ternary.ZeroWord)
	if snap[A0] != w {
		t.Errorf("Snapshot should be a copy, but later Set mutated it")
	}
}
