package ternary

// TryteTritLen is the number of trits in a tryte (6, per spec.md §3/GLOSSARY).
const TryteTritLen = 6

// signMask selects the sign bit of every 2-bit trit field packed into a
// tryte; XOR-ing a tryte's bits with its own low bits shifted left and
// masked by signMask negates every trit at once, leaving zero trits (00)
// unchanged (spec.md §4.2: "negation ... toggle only the sign bit of each
// legal trit").
const signMask uint16 = 0b10_10_10_10_10_10

// tryteMask keeps only the low 12 bits a Tryte actually uses.
const tryteMask uint16 = 0x0FFF

// TryteMin and TryteMax are the representable range of a single tryte,
// ±364 (spec.md §3).
const (
	TryteMin = -364
	TryteMax = 364
)

// Tryte is 6 trits packed into the low 12 bits of a 16-bit word; the upper
// 4 bits are always zero.
type Tryte uint16

// ZeroTryte is the additive identity.
const ZeroTryte Tryte = 0

// GetTrit returns trit i (0 = least significant) of the tryte.
func (t Tryte) GetTrit(i int) (Trit, error) {
	if i < 0 || i >= TryteTritLen {
		return 0, newError(InvalidDataLength, "trit index %d out of range [0,%d)", i, TryteTritLen)
	}
	bits := uint8(t>>(uint(i)*2)) & 0b11
	return DecodeTrit(bits)
}

// MustGetTrit panics if i is out of range; used internally where i is
// always statically in range.
func (t Tryte) MustGetTrit(i int) Trit {
	tr, err := t.GetTrit(i)
	if err != nil {
		panic(err)
	}
	return tr
}

// SetTrit returns a copy of t with trit i set to v.
func (t Tryte) SetTrit(i int, v Trit) (Tryte, error) {
	if i < 0 || i >= TryteTritLen {
		return 0, newError(InvalidDataLength, "trit index %d out of range [0,%d)", i, TryteTritLen)
	}
	shift := uint(i) * 2
	cleared := uint16(t) &^ (0b11 << shift)
	return Tryte(cleared | uint16(v.Bits())<<shift), nil
}

// LowTrit4 extracts the low 4 trits (8 bits) of the tryte, used for opcode
// and register-selector fields (spec.md §4.2/§4.5/§4.6).
func (t Tryte) LowTrit4() uint8 {
	return uint8(t) & 0xFF
}

// Negate returns −t, toggling the sign bit of every non-zero trit.
func (t Tryte) Negate() Tryte {
	v := uint16(t)
	return Tryte((v ^ ((v << 1) & signMask)) & tryteMask)
}

// And returns the elementwise ternary AND of t and other.
func (t Tryte) And(other Tryte) Tryte { return elementwise(t, other, Trit.And) }

// Or returns the elementwise ternary OR of t and other.
func (t Tryte) Or(other Tryte) Tryte { return elementwise(t, other, Trit.Or) }

// Tcmp returns the elementwise ternary compare of t and other.
func (t Tryte) Tcmp(other Tryte) Tryte { return elementwise(t, other, Trit.Tcmp) }

// Tmul returns the elementwise ternary product of t and other.
func (t Tryte) Tmul(other Tryte) Tryte { return elementwise(t, other, Trit.Mul) }

func elementwise(a, b Tryte, op func(Trit, Trit) Trit) Tryte {
	var result Tryte
	for i := 0; i < TryteTritLen; i++ {
		v := op(a.MustGetTrit(i), b.MustGetTrit(i))
		result, _ = result.SetTrit(i, v)
	}
	return result
}

// AddCarry adds t + other + carryIn trit-by-trit, returning the sum tryte
// and the final carry-out trit.
func (t Tryte) AddCarry(other Tryte, carryIn Trit) (sum Tryte, carryOut Trit) {
	carry := carryIn
	for i := 0; i < TryteTritLen; i++ {
		a := t.MustGetTrit(i)
		b := other.MustGetTrit(i)
		var s Trit
		s, carry = a.AddCarry(b, carry)
		sum, _ = sum.SetTrit(i, s)
	}
	return sum, carry
}

// Bytes serializes the tryte as two little-endian bytes carrying its 12
// packed bits, validating every 2-bit field on the way in via FromBytes.
func (t Tryte) Bytes() [2]byte {
	v := uint16(t) & tryteMask
	return [2]byte{byte(v), byte(v >> 8)}
}

// TryteFromBytes decodes a tryte from its 2-byte little-endian form,
// validating each of the 6 packed 2-bit fields.
func TryteFromBytes(b [2]byte) (Tryte, error) {
	v := uint16(b[0]) | uint16(b[1])<<8
	if v&^tryteMask != 0 {
		return 0, newError(InvalidEncoding, "non-zero high bits 0x%04X in tryte encoding", v)
	}
	var t Tryte
	for i := 0; i < TryteTritLen; i++ {
		bits := uint8(v>>(uint(i)*2)) & 0b11
		tr, err := DecodeTrit(bits)
		if err != nil {
			return 0, err
		}
		t, _ = t.SetTrit(i, tr)
	}
	return t, nil
}
