package vm

import "github.com/emu3/trivm/ternary"

// Opcode names one of the 35 instruction mnemonics (spec.md §4.5).
type Opcode int

const (
	OpAND Opcode = iota
	OpOR
	OpTMUL
	OpTCMP
	OpCMP
	OpSHF
	OpADD
	OpMUL
	OpDIV
	OpANDI
	OpORI
	OpTMULI
	OpTCMPI
	OpSHFI
	OpADDI
	OpLUI
	OpLT
	OpLH
	OpLW
	OpST
	OpSH
	OpSW
	OpBT
	OpB0
	OpB1
	OpBT0
	OpBT1
	OpB01
	OpBAL
	OpJ
	OpJAL
	OpJR
	OpJALR
	OpSYSCALL
	OpBREAK

	opcodeCount = 35
)

var opcodeNames = [opcodeCount]string{
	"AND", "OR", "TMUL", "TCMP", "CMP", "SHF", "ADD", "MUL", "DIV",
	"ANDI", "ORI", "TMULI", "TCMPI", "SHFI", "ADDI",
	"LUI", "LT", "LH", "LW", "ST", "SH", "SW",
	"BT", "B0", "B1", "BT0", "BT1", "B01", "BAL",
	"J", "JAL", "JR", "JALR", "SYSCALL", "BREAK",
}

func (o Opcode) String() string {
	if o < 0 || int(o) >= opcodeCount {
		return "?"
	}
	return opcodeNames[o]
}

// DecodeOpcode reads the low 4 trits of word's low tryte and interprets
// them as a signed balanced-base-3 integer, which is directly the
// opcode's ordinal — the same generic field decode register selectors use
// (spec.md §4.5: "A 4-trit opcode field ... maps through a table to a
// small integer"; the original's literal 256-entry lookup table
// (original_source/src/tables.rs's TRIT4_TO_U8) is replaced here with the
// closed-form balanced-base-3 evaluation it computes).
func DecodeOpcode(word ternary.Word) (Opcode, error) {
	v, err := decodeSignedTritField(word[0], 4)
	if err != nil {
		return 0, err
	}
	if v < 0 || v >= opcodeCount {
		return 0, newError(InvalidOpcode, "opcode ordinal %d is outside [0,%d)", v, opcodeCount)
	}
	return Opcode(v), nil
}

// decodeSignedTritField returns the value of t's low n trits interpreted as
// a signed balanced-base-3 integer (trit 0 is the least significant).
func decodeSignedTritField(t ternary.Tryte, n int) (int, error) {
	v := 0
	pow := 1
	for i := 0; i < n; i++ {
		tr, err := t.GetTrit(i)
		if err != nil {
			return 0, err
		}
		v += int(tr) * pow
		pow *= 3
	}
	return v, nil
}
