package ternary

// Concrete N-tryte integer types (spec.md §3: "N=1,2,4,8 trytes used: tryte,
// half=T12, word=T24, dword=T48"). Tryte itself (sizes.go's sibling file,
// tryte.go) is the N=1 case; Half/Word/Dword are fixed-size arrays that
// forward all arithmetic to the shared []Tryte-based implementation in
// tint.go (see that file's header comment for why: no const generics).

// Half is a 2-tryte (12-trit) integer.
type Half [2]Tryte

// Word is a 4-tryte (24-trit) integer — the register and instruction width.
type Word [4]Tryte

// Dword is an 8-tryte (48-trit) integer — the double-width product/shift
// result.
type Dword [8]Tryte

func (h Half) slice() []Tryte  { return h[:] }
func (w Word) slice() []Tryte  { return w[:] }
func (d Dword) slice() []Tryte { return d[:] }

func halfFrom(s []Tryte) Half   { var h Half; copy(h[:], s); return h }
func wordFrom(s []Tryte) Word   { var w Word; copy(w[:], s); return w }
func dwordFrom(s []Tryte) Dword { var d Dword; copy(d[:], s); return d }

// ZeroHalf, ZeroWord, ZeroDword are the additive identities.
var (
	ZeroHalf  Half
	ZeroWord  Word
	ZeroDword Dword
)

// --- Half ---

func (h Half) ToInt() (int64, error)      { return ToInt(h.slice()) }
func HalfFromInt(n int64) (Half, error) {
	s, err := FromInt(n, 2)
	if err != nil {
		return ZeroHalf, err
	}
	return halfFrom(s), nil
}
func (h Half) Negate() Half            { return halfFrom(Negate(h.slice())) }
func (h Half) And(o Half) Half         { return halfFrom(And(h.slice(), o.slice())) }
func (h Half) Or(o Half) Half          { return halfFrom(Or(h.slice(), o.slice())) }
func (h Half) Tcmp(o Half) Half        { return halfFrom(Tcmp(h.slice(), o.slice())) }
func (h Half) Tmul(o Half) Half        { return halfFrom(Tmul(h.slice(), o.slice())) }
func (h Half) Compare(o Half) Trit     { return Compare(h.slice(), o.slice()) }
func (h Half) AddCarry(o Half, cin Trit) (Half, Trit) {
	s, cout := AddCarry(h.slice(), o.slice(), cin)
	return halfFrom(s), cout
}
func (h Half) String() string          { return TritString(h.slice()) }
func HalfFromTritString(s string) (Half, error) {
	t, err := FromTritString(s, 2)
	if err != nil {
		return ZeroHalf, err
	}
	return halfFrom(t), nil
}
func (h Half) HyteString() string { return HyteString(h.slice()) }
func (h Half) Bytes() []byte      { return ToBytes(h.slice()) }

// ResizeToWord widens a Half to a Word, sign-extending the high trit.
func (h Half) ResizeToWord() Word {
	n, err := ToInt(h.slice())
	if err != nil {
		// A valid Half always fits in a Word's much larger range.
		panic(err)
	}
	w, err := FromInt(n, 4)
	if err != nil {
		panic(err)
	}
	return wordFrom(w)
}

// --- Word ---

func (w Word) ToInt() (int64, error) { return ToInt(w.slice()) }
func WordFromInt(n int64) (Word, error) {
	s, err := FromInt(n, 4)
	if err != nil {
		return ZeroWord, err
	}
	return wordFrom(s), nil
}
func (w Word) Negate() Word         { return wordFrom(Negate(w.slice())) }
func (w Word) And(o Word) Word      { return wordFrom(And(w.slice(), o.slice())) }
func (w Word) Or(o Word) Word       { return wordFrom(Or(w.slice(), o.slice())) }
func (w Word) Tcmp(o Word) Word     { return wordFrom(Tcmp(w.slice(), o.slice())) }
func (w Word) Tmul(o Word) Word     { return wordFrom(Tmul(w.slice(), o.slice())) }
func (w Word) Compare(o Word) Trit  { return Compare(w.slice(), o.slice()) }
func (w Word) AddCarry(o Word, cin Trit) (Word, Trit) {
	s, cout := AddCarry(w.slice(), o.slice(), cin)
	return wordFrom(s), cout
}
func (w Word) DivRem(o Word) (quotient, remainder Word, err error) {
	q, r, err := DivRem(w.slice(), o.slice())
	if err != nil {
		return ZeroWord, ZeroWord, err
	}
	return wordFrom(q), wordFrom(r), nil
}
func (w Word) String() string { return TritString(w.slice()) }
func WordFromTritString(s string) (Word, error) {
	t, err := FromTritString(s, 4)
	if err != nil {
		return ZeroWord, err
	}
	return wordFrom(t), nil
}
func (w Word) HyteString() string { return HyteString(w.slice()) }
func (w Word) Bytes() []byte      { return ToBytes(w.slice()) }
func WordFromBytes(b []byte) (Word, error) {
	t, err := FromBytes(b, 4)
	if err != nil {
		return ZeroWord, err
	}
	return wordFrom(t), nil
}

// ResizeToDword widens a Word to a Dword (sign-extending), used when a Word
// needs to participate in double-width multiplication.
func (w Word) ResizeToDword() Dword {
	n, err := ToInt(w.slice())
	if err != nil {
		panic(err)
	}
	s, err := FromInt(n, 8)
	if err != nil {
		panic(err)
	}
	return dwordFrom(s)
}

// Trit returns trit i (0 = least significant) of the word.
func (w Word) Trit(i int) Trit { return getTrit(w.slice(), i) }

// SetTrit returns a copy of w with trit i set to v.
func (w Word) SetTrit(i int, v Trit) Word {
	s := append([]Tryte(nil), w.slice()...)
	setTrit(s, i, v)
	return wordFrom(s)
}

// LowTrit4 returns the low 4 trits of the word's low tryte (the
// opcode/register-selector field).
func (w Word) LowTrit4() uint8 { return w[0].LowTrit4() }

// ShiftResult is the 3-word-wide (12-tryte) window SHF/SHFI shift into
// (spec.md §4.3/§9: "Shift's triple-wide result ... a 3-word scratch
// buffer, not truncate in place"). This is wider than Dword (2 words) and
// has no separate name in the TInt⟨N⟩ family (N=1,2,4,8) because nothing
// but the shift handler ever holds a 3N-wide value.
type ShiftResult [12]Tryte

// Shift produces the 3-word window for SHF/SHFI (ternary/tint.go's Shift).
func (w Word) Shift(offset int) ShiftResult {
	var r ShiftResult
	copy(r[:], Shift(w.slice(), offset))
	return r
}

// Split divides a shift result into its low, middle, and high Word thirds
// (spec.md §4.8: "the middle third to the destination and the low/high
// thirds to LO/HI").
func (r ShiftResult) Split() (low, mid, high Word) {
	return wordFrom(r[0:4]), wordFrom(r[4:8]), wordFrom(r[8:12])
}

// --- Dword ---

func (d Dword) Negate() Dword   { return dwordFrom(Negate(d.slice())) }
func (d Dword) String() string  { return TritString(d.slice()) }
func (d Dword) Bytes() []byte   { return ToBytes(d.slice()) }

// SplitWords splits a Dword into its low and high Word halves (low tryte
// index 0..3 is LO, 4..7 is HI) — used by MUL's "product goes to (HI,LO)"
// semantics (spec.md §4.3).
func (d Dword) SplitWords() (lo, hi Word) {
	return wordFrom(d[:4]), wordFrom(d[4:])
}

// MultiplyWords computes the double-width product of two Words directly,
// the operation the execution engine's MUL handler actually needs.
func MultiplyWords(a, b Word) Dword {
	return dwordFrom(Multiply(a.slice(), b.slice()))
}
