package vm

import "github.com/emu3/trivm/ternary"

// Operand is implemented by every OperandXxx shape in operand.go; it exists
// only to let Instruction carry any one of them in a single typed field.
type Operand interface{ isOperand() }

func (OperandEmpty) isOperand() {}
func (OperandR) isOperand()     {}
func (OperandRR) isOperand()    {}
func (OperandRRR) isOperand()   {}
func (OperandRI) isOperand()    {}
func (OperandRRI) isOperand()   {}
func (OperandRRO) isOperand()   {}
func (OperandRO) isOperand()    {}
func (OperandO) isOperand()     {}
func (OperandA) isOperand()     {}

// Instruction is a decoded opcode paired with its typed operand tuple
// (spec.md §4.7).
type Instruction struct {
	Op      Opcode
	Operand Operand
}

// opcodeShape names which operand decoder a given opcode dispatches to.
var opcodeShape = [opcodeCount]func(ternary.Word) (Operand, error){
	OpAND:  decodeAsOperand(DecodeRRR),
	OpOR:   decodeAsOperand(DecodeRRR),
	OpTMUL: decodeAsOperand(DecodeRRR),
	OpTCMP: decodeAsOperand(DecodeRRR),
	OpCMP:  decodeAsOperand(DecodeRRR),
	OpSHF:  decodeAsOperand(DecodeRRR),
	OpADD:  decodeAsOperand(DecodeRRR),
	OpMUL:  decodeAsOperand(DecodeRR),
	OpDIV:  decodeAsOperand(DecodeRR),

	OpANDI:  decodeAsOperand(DecodeRRI),
	OpORI:   decodeAsOperand(DecodeRRI),
	OpTMULI: decodeAsOperand(DecodeRRI),
	OpTCMPI: decodeAsOperand(DecodeRRI),
	OpSHFI:  decodeAsOperand(DecodeRRI),
	OpADDI:  decodeAsOperand(DecodeRRI),

	OpLUI: decodeAsOperand(DecodeRI),

	OpLT: decodeAsOperand(DecodeRRO),
	OpLH: decodeAsOperand(DecodeRRO),
	OpLW: decodeAsOperand(DecodeRRO),
	OpST: decodeAsOperand(DecodeRRO),
	OpSH: decodeAsOperand(DecodeRRO),
	OpSW: decodeAsOperand(DecodeRRO),

	OpBT:  decodeAsOperand(DecodeRO),
	OpB0:  decodeAsOperand(DecodeRO),
	OpB1:  decodeAsOperand(DecodeRO),
	OpBT0: decodeAsOperand(DecodeRO),
	OpBT1: decodeAsOperand(DecodeRO),
	OpB01: decodeAsOperand(DecodeRO),

	OpBAL: decodeAsOperand(DecodeO),

	OpJ:   decodeAsOperand(DecodeA),
	OpJAL: decodeAsOperand(DecodeA),

	OpJR:   decodeAsOperand(DecodeR),
	OpJALR: decodeAsOperand(DecodeR),

	OpSYSCALL: decodeAsOperand(DecodeEmpty),
	OpBREAK:   decodeAsOperand(DecodeEmpty),
}

// decodeAsOperand adapts a concretely-typed DecodeXxx function into the
// Operand-returning shape opcodeShape needs, so the table above can name
// each decoder directly instead of hand-writing a closure per entry.
func decodeAsOperand[T Operand](decode func(ternary.Word) (T, error)) func(ternary.Word) (Operand, error) {
	return func(word ternary.Word) (Operand, error) {
		return decode(word)
	}
}

// DecodeInstruction parses the opcode, then dispatches to the matching
// operand decoder, returning the tagged instruction (spec.md §4.7).
func DecodeInstruction(word ternary.Word) (Instruction, error) {
	op, err := DecodeOpcode(word)
	if err != nil {
		return Instruction{}, err
	}
	operand, err := opcodeShape[op](word)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{Op: op, Operand: operand}, nil
}
