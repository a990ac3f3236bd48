package vm

import "testing"

func TestDecodeRIRejectsNonZeroGap(t *testing.T) {
	w := buildWord(t,
		field{0, int64(OpLUI)},
		field{4, int64(T0)},
		field{8, 1},
		field{12, 100},
	)
	if _, err := DecodeInstruction(w); err == nil {
		t.Fatal("expected error for a non-zero gap field in an RI-shape instruction")
	}
}

func TestDecodeROWideOffsetRange(t *testing.T) {
	// The RO shape's 16-trit offset is wider than the 12-trit immediate
	// fields; a value outside a tryte pair's range must still decode.
	w := buildWord(t,
		field{0, int64(OpB0)},
		field{4, int64(T1)},
		field{8, 1000000},
	)
	inst, err := DecodeInstruction(w)
	if err != nil {
		t.Fatalf("DecodeInstruction: %v", err)
	}
	ro := inst.Operand.(OperandRO)
	if ro.Src != T1 || ro.Offset != 1000000 {
		t.Errorf("RO = %+v, want {Src:T1 Offset:1000000}", ro)
	}
}

func TestDecodeONegativeOffset(t *testing.T) {
	w := buildWord(t, field{0, int64(OpBAL)}, field{4, -100000})
	inst, err := DecodeInstruction(w)
	if err != nil {
		t.Fatalf("DecodeInstruction: %v", err)
	}
	o := inst.Operand.(OperandO)
	if o.Offset != -100000 {
		t.Errorf("O.Offset = %d, want -100000", o.Offset)
	}
}

func TestDecodeRROAddressArithmeticShape(t *testing.T) {
	w := buildWord(t,
		field{0, int64(OpST)},
		field{4, int64(S0)},
		field{8, int64(SP)},
		field{12, -1},
	)
	inst, err := DecodeInstruction(w)
	if err != nil {
		t.Fatalf("DecodeInstruction: %v", err)
	}
	rro := inst.Operand.(OperandRRO)
	if rro.Dest != S0 || rro.Src != SP || rro.Offset != -1 {
		t.Errorf("RRO = %+v, want {Dest:S0 Src:SP Offset:-1}", rro)
	}
}
