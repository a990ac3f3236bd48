package vm

import "github.com/emu3/trivm/ternary"

// Each decoder below extracts a specific bit-level layout from the 24-trit
// word, opcode already stripped (spec.md §4.6). Trit positions are numbered
// from the low end of the word (position 0 is the least significant trit
// of tryte 0); a field of width n occupies positions [start, start+n).

// OperandEmpty is used by SYSCALL/BREAK: no operand fields, and every trit
// above the opcode must be zero.
type OperandEmpty struct{}

// OperandR holds a single register selector (used by JR/JALR, per spec.md
// §4.6).
type OperandR struct{ Src Register }

// OperandRR holds two register selectors (used by MUL/DIV).
type OperandRR struct{ Lhs, Rhs Register }

// OperandRRR holds a destination plus two source registers (AND/OR/TMUL/
// TCMP/CMP/SHF/ADD).
type OperandRRR struct{ Dest, Lhs, Rhs Register }

// OperandRI holds a destination register and a 12-trit immediate, with a
// zeroed 4-trit gap where RRI carries a second register (LUI).
type OperandRI struct {
	Dest      Register
	Immediate int64
}

// OperandRRI holds a destination, a source register, and a 12-trit
// immediate — identical layout to OperandRRO, used where the immediate is
// an arithmetic operand rather than a memory offset.
type OperandRRI struct {
	Dest      Register
	Src       Register
	Immediate int64
}

// OperandRRO holds a destination, a base-address register, and a 12-trit
// signed tryte offset (LT/LH/LW/ST/SH/SW).
type OperandRRO struct {
	Dest   Register
	Src    Register
	Offset int64
}

// OperandRO holds a branch-selector register and a 16-trit relative offset
// (the branch family BT/B0/B1/BT0/BT1/B01).
type OperandRO struct {
	Src    Register
	Offset int64
}

// OperandO holds a 20-trit relative offset with no register (BAL).
type OperandO struct{ Offset int64 }

// OperandA holds a 20-trit absolute address (J/JAL).
type OperandA struct{ Address int64 }

const (
	fieldStart    = 4  // every shape's first operand field starts after the opcode
	regFieldWidth = 4
)

// readSignedField reads the n trits of word starting at trit position
// start as a signed balanced-base-3 integer.
func readSignedField(word ternary.Word, start, n int) int64 {
	v := int64(0)
	pow := int64(1)
	for i := 0; i < n; i++ {
		v += int64(word.Trit(start+i)) * pow
		pow *= 3
	}
	return v
}

func readRegister(word ternary.Word, start int) (Register, error) {
	return RegisterFromIndex(int(readSignedField(word, start, regFieldWidth)))
}

// DecodeEmpty validates that every trit above the opcode is zero.
func DecodeEmpty(word ternary.Word) (OperandEmpty, error) {
	if readSignedField(word, fieldStart, 20) != 0 {
		return OperandEmpty{}, newError(InvalidEncoding, "non-zero padding in an Empty-shape instruction")
	}
	return OperandEmpty{}, nil
}

// DecodeR decodes the R shape: opcode | src(4).
func DecodeR(word ternary.Word) (OperandR, error) {
	src, err := readRegister(word, fieldStart)
	if err != nil {
		return OperandR{}, err
	}
	return OperandR{Src: src}, nil
}

// DecodeRR decodes the RR shape: opcode | lhs(4) | rhs(4).
func DecodeRR(word ternary.Word) (OperandRR, error) {
	lhs, err := readRegister(word, fieldStart)
	if err != nil {
		return OperandRR{}, err
	}
	rhs, err := readRegister(word, fieldStart+regFieldWidth)
	if err != nil {
		return OperandRR{}, err
	}
	return OperandRR{Lhs: lhs, Rhs: rhs}, nil
}

// DecodeRRR decodes the RRR shape: opcode | dest(4) | lhs(4) | rhs(4).
func DecodeRRR(word ternary.Word) (OperandRRR, error) {
	dest, err := readRegister(word, fieldStart)
	if err != nil {
		return OperandRRR{}, err
	}
	lhs, err := readRegister(word, fieldStart+regFieldWidth)
	if err != nil {
		return OperandRRR{}, err
	}
	rhs, err := readRegister(word, fieldStart+2*regFieldWidth)
	if err != nil {
		return OperandRRR{}, err
	}
	return OperandRRR{Dest: dest, Lhs: lhs, Rhs: rhs}, nil
}

// DecodeRI decodes the RI shape: opcode | dest(4) | zero(4) | immediate(12).
func DecodeRI(word ternary.Word) (OperandRI, error) {
	dest, err := readRegister(word, fieldStart)
	if err != nil {
		return OperandRI{}, err
	}
	if readSignedField(word, fieldStart+regFieldWidth, regFieldWidth) != 0 {
		return OperandRI{}, newError(InvalidEncoding, "non-zero gap field in an RI-shape instruction")
	}
	imm := readSignedField(word, fieldStart+2*regFieldWidth, 12)
	return OperandRI{Dest: dest, Immediate: imm}, nil
}

// DecodeRRI decodes the RRI shape: opcode | dest(4) | src(4) | immediate(12).
func DecodeRRI(word ternary.Word) (OperandRRI, error) {
	dest, err := readRegister(word, fieldStart)
	if err != nil {
		return OperandRRI{}, err
	}
	src, err := readRegister(word, fieldStart+regFieldWidth)
	if err != nil {
		return OperandRRI{}, err
	}
	imm := readSignedField(word, fieldStart+2*regFieldWidth, 12)
	return OperandRRI{Dest: dest, Src: src, Immediate: imm}, nil
}

// DecodeRRO decodes the RRO (memory/offset) shape: opcode | dest(4) |
// src(4) | offset(12). Src is the base-address register; the effective
// address is reg[src] + offset (spec.md §4.8).
func DecodeRRO(word ternary.Word) (OperandRRO, error) {
	dest, err := readRegister(word, fieldStart)
	if err != nil {
		return OperandRRO{}, err
	}
	src, err := readRegister(word, fieldStart+regFieldWidth)
	if err != nil {
		return OperandRRO{}, err
	}
	offset := readSignedField(word, fieldStart+2*regFieldWidth, 12)
	return OperandRRO{Dest: dest, Src: src, Offset: offset}, nil
}

// DecodeRO decodes the RO (short branch) shape: opcode | src(4) | offset(16).
func DecodeRO(word ternary.Word) (OperandRO, error) {
	src, err := readRegister(word, fieldStart)
	if err != nil {
		return OperandRO{}, err
	}
	offset := readSignedField(word, fieldStart+regFieldWidth, 16)
	return OperandRO{Src: src, Offset: offset}, nil
}

// DecodeO decodes the O (BAL) shape: opcode | offset(20).
func DecodeO(word ternary.Word) (OperandO, error) {
	return OperandO{Offset: readSignedField(word, fieldStart, 20)}, nil
}

// DecodeA decodes the A (J/JAL) shape: opcode | 20-trit address.
func DecodeA(word ternary.Word) (OperandA, error) {
	return OperandA{Address: readSignedField(word, fieldStart, 20)}, nil
}
