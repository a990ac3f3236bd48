package ternary

import (
	"math/big"
	"strings"
)

// This file implements the shared arithmetic contract for TInt⟨N⟩ (spec.md
// §4.3) once, operating over a plain []Tryte in little-endian tryte order
// (index 0 is the least-significant tryte). Go has no const generics, so
// there is no single TInt[N] type; instead Half, Word, and Dword (sizes.go)
// are concrete fixed-size array types that forward to these slice-based
// functions. This mirrors the original's `Ternary` trait plus its
// `impl Ternary for [Tryte]` (original_source/src/ternary/mod.rs).

func tritLenOf(a []Tryte) int { return len(a) * TryteTritLen }

func getTrit(a []Tryte, i int) Trit {
	return a[i/TryteTritLen].MustGetTrit(i % TryteTritLen)
}

func setTrit(a []Tryte, i int, v Trit) {
	t, _ := a[i/TryteTritLen].SetTrit(i%TryteTritLen, v)
	a[i/TryteTritLen] = t
}

// Negate returns the elementwise negation of a.
func Negate(a []Tryte) []Tryte {
	result := make([]Tryte, len(a))
	for i, t := range a {
		result[i] = t.Negate()
	}
	return result
}

// And, Or, Tcmp, Tmul apply the corresponding Tryte operation elementwise.
func And(a, b []Tryte) []Tryte  { return zip(a, b, Tryte.And) }
func Or(a, b []Tryte) []Tryte   { return zip(a, b, Tryte.Or) }
func Tcmp(a, b []Tryte) []Tryte { return zip(a, b, Tryte.Tcmp) }
func Tmul(a, b []Tryte) []Tryte { return zip(a, b, Tryte.Tmul) }

func zip(a, b []Tryte, op func(Tryte, Tryte) Tryte) []Tryte {
	result := make([]Tryte, len(a))
	for i := range a {
		result[i] = op(a[i], b[i])
	}
	return result
}

// AddCarry ripples addition across every trit of a and b (spec.md §4.3:
// "Addition: ripple across all N·6 trits with carry; the final carry-out is
// exposed to the engine").
func AddCarry(a, b []Tryte, carryIn Trit) (sum []Tryte, carryOut Trit) {
	n := tritLenOf(a)
	sum = make([]Tryte, len(a))
	carry := carryIn
	for i := 0; i < n; i++ {
		var s Trit
		s, carry = getTrit(a, i).AddCarry(getTrit(b, i), carry)
		setTrit(sum, i, s)
	}
	return sum, carry
}

// Multiply computes a·b into a 2·len(a)-tryte result via shift-and-add:
// each trit of b scales a, added at that trit's position with carry
// propagated into the next-higher position (spec.md §4.3).
func Multiply(a, b []Tryte) []Tryte {
	n := tritLenOf(a)
	result := make([]Tryte, 2*len(a))
	resultTrits := tritLenOf(result)

	for i := 0; i < n; i++ {
		multiplier := getTrit(b, i)
		if multiplier == Zero {
			continue
		}
		carry := Zero
		pos := i
		for j := 0; j < n && pos < resultTrits; j++ {
			product := getTrit(a, j).Mul(multiplier)
			var s Trit
			s, carry = getTrit(result, pos).AddCarry(product, carry)
			setTrit(result, pos, s)
			pos++
		}
		for carry != Zero && pos < resultTrits {
			var s Trit
			s, carry = getTrit(result, pos).AddCarry(Zero, carry)
			setTrit(result, pos, s)
			pos++
		}
	}
	return result
}

// DivRem returns the truncated-toward-zero quotient and a remainder whose
// sign matches the dividend (spec.md §4.3, §8 property 8), computed via
// big.Int since N-tryte values may exceed int64 (Dword).
func DivRem(a, b []Tryte) (quotient, remainder []Tryte, err error) {
	aInt := toBigInt(a)
	bInt := toBigInt(b)
	qInt, rInt := new(big.Int).QuoRem(aInt, bInt, new(big.Int))

	quotient, err = fromBigInt(qInt, len(a))
	if err != nil {
		return nil, nil, err
	}
	remainder, err = fromBigInt(rInt, len(a))
	if err != nil {
		return nil, nil, err
	}
	return quotient, remainder, nil
}

// Shift produces a 3·len(a)-tryte result with a placed at logical offset
// `offset` from center: trit j of a lands at window position
// `offset + tritLen(a) + j`. Positions outside the 3N-wide window are lost;
// positions never written stay zero (spec.md §4.3, §9).
func Shift(a []Tryte, offset int) []Tryte {
	n := tritLenOf(a)
	window := make([]Tryte, 3*len(a))
	windowTrits := tritLenOf(window)
	for j := 0; j < n; j++ {
		pos := offset + n + j
		if pos < 0 || pos >= windowTrits {
			continue
		}
		setTrit(window, pos, getTrit(a, j))
	}
	return window
}

// Compare walks from the most significant trit to the least significant,
// returning the first non-zero tcmp result, or Zero if every trit matches
// (spec.md §4.3 scalar compare; §8 property 9).
func Compare(a, b []Tryte) Trit {
	n := tritLenOf(a)
	for i := n - 1; i >= 0; i-- {
		if c := getTrit(a, i).Tcmp(getTrit(b, i)); c != Zero {
			return c
		}
	}
	return Zero
}

// ToInt converts a to a host int64, failing with IntegerOutOfBounds if the
// value does not fit.
func ToInt(a []Tryte) (int64, error) {
	v := toBigInt(a)
	if !v.IsInt64() {
		return 0, newError(IntegerOutOfBounds, "ternary value %s does not fit in int64", v.String())
	}
	return v.Int64(), nil
}

func toBigInt(a []Tryte) *big.Int {
	n := tritLenOf(a)
	v := new(big.Int)
	three := big.NewInt(3)
	for i := n - 1; i >= 0; i-- {
		v.Mul(v, three)
		v.Add(v, big.NewInt(int64(getTrit(a, i))))
	}
	return v
}

// FromInt converts a host int64 into a numTrytes-tryte value, failing with
// IntegerOutOfBounds if n is outside the representable range. The digit
// extraction follows spec.md §4.3's "From host int" algorithm exactly:
// sign-separate, then repeatedly take n mod 3 adjusted into {−1,0,+1},
// carrying when the raw remainder is 2.
func FromInt(n int64, numTrytes int) ([]Tryte, error) {
	return fromBigInt(big.NewInt(n), numTrytes)
}

func fromBigInt(n *big.Int, numTrytes int) ([]Tryte, error) {
	tritLen := numTrytes * TryteTritLen
	min, max := rangeBounds(tritLen)
	if n.Cmp(min) < 0 || n.Cmp(max) > 0 {
		return nil, newError(IntegerOutOfBounds, "value %s outside %d-tryte range [%s,%s]", n, numTrytes, min, max)
	}

	neg := n.Sign() < 0
	m := new(big.Int).Abs(n)
	three := big.NewInt(3)
	rem := new(big.Int)
	result := make([]Tryte, numTrytes)

	for i := 0; i < tritLen; i++ {
		m.DivMod(m, three, rem)
		d := Trit(rem.Int64())
		if d == 2 {
			d = Neg
			m.Add(m, big.NewInt(1))
		}
		if neg {
			d = d.Negate()
		}
		setTrit(result, i, d)
	}
	return result, nil
}

// rangeBounds returns the inclusive [min,max] representable range for a
// value with tritLen trits: ±(3^tritLen − 1)/2.
func rangeBounds(tritLen int) (min, max *big.Int) {
	pow := new(big.Int).Exp(big.NewInt(3), big.NewInt(int64(tritLen)), nil)
	max = new(big.Int).Sub(pow, big.NewInt(1))
	max.Div(max, big.NewInt(2))
	min = new(big.Int).Neg(max)
	return min, max
}

// TritString renders a as a fixed-width string, most significant trit
// first ('T'/'0'/'1').
func TritString(a []Tryte) string {
	n := tritLenOf(a)
	runes := make([]rune, n)
	for i := 0; i < n; i++ {
		runes[n-1-i] = tritRune(getTrit(a, i))
	}
	return string(runes)
}

func tritRune(t Trit) rune {
	switch t {
	case Neg:
		return 'T'
	case Pos:
		return '1'
	default:
		return '0'
	}
}

// FromTritString parses a fixed-width trit string (most significant first)
// into a numTrytes-tryte value.
func FromTritString(s string, numTrytes int) ([]Tryte, error) {
	runes := []rune(s)
	tritLen := numTrytes * TryteTritLen
	if len(runes) != tritLen {
		return nil, newError(InvalidDataLength, "trit string %q has %d characters, want %d", s, len(runes), tritLen)
	}
	result := make([]Tryte, numTrytes)
	for i, r := range runes {
		t, err := TritFromChar(r)
		if err != nil {
			return nil, err
		}
		setTrit(result, tritLen-1-i, t)
	}
	return result, nil
}

// HyteString renders a as hyte characters, most significant tryte first,
// high hyte before low hyte within each tryte (spec.md §6).
func HyteString(a []Tryte) string {
	var sb strings.Builder
	for i := len(a) - 1; i >= 0; i-- {
		sb.WriteString(a[i].HyteString())
	}
	return sb.String()
}

// FromHyteString parses a hyte string (2 characters per tryte, most
// significant tryte first) into a numTrytes-tryte value.
func FromHyteString(s string, numTrytes int) ([]Tryte, error) {
	if len(s) != 2*numTrytes {
		return nil, newError(InvalidDataLength, "hyte string %q has %d characters, want %d", s, len(s), 2*numTrytes)
	}
	result := make([]Tryte, numTrytes)
	for i := 0; i < numTrytes; i++ {
		chunk := s[2*i : 2*i+2]
		t, err := TryteFromHyteString(chunk)
		if err != nil {
			return nil, err
		}
		result[numTrytes-1-i] = t
	}
	return result, nil
}

// ToBytes serializes a in little-endian tryte order, 2 bytes per tryte.
func ToBytes(a []Tryte) []byte {
	out := make([]byte, len(a)*2)
	for i, t := range a {
		b := t.Bytes()
		out[2*i], out[2*i+1] = b[0], b[1]
	}
	return out
}

// FromBytes deserializes a little-endian byte sequence into numTrytes
// trytes, validating each tryte's packed bit pattern.
func FromBytes(b []byte, numTrytes int) ([]Tryte, error) {
	if len(b) != numTrytes*2 {
		return nil, newError(InvalidDataLength, "byte slice has length %d, want %d", len(b), numTrytes*2)
	}
	result := make([]Tryte, numTrytes)
	for i := 0; i < numTrytes; i++ {
		t, err := TryteFromBytes([2]byte{b[2*i], b[2*i+1]})
		if err != nil {
			return nil, err
		}
		result[i] = t
	}
	return result, nil
}
