package ternary

// Hyte is a 3-trit half-tryte, range [−13, +13] (GLOSSARY), printed as one
// character from a 27-character alphabet. It is represented as the packed
// 6-bit encoding of its 3 constituent trits (same 2-bits-per-trit scheme as
// Tryte, just half as wide).
type Hyte uint8

const hyteTritLen = 3

// hyteChars pairs every legal packed 6-bit hyte pattern with its printable
// character, lowest-value patterns first. There is no const-generic perfect
// hash in the Go ecosystem pulled into this pack (the original's `phf`
// crate has no equivalent among the example repos), so this is a plain
// array of (pattern, character) pairs from which init builds the
// pattern->char and char->pattern maps.
var hyteChars = [...]struct {
	bits uint8
	ch   rune
}{
	{0b11_11_11, 'm'}, {0b11_11_00, 'l'}, {0b11_11_01, 'k'},
	{0b11_00_11, 'j'}, {0b11_00_00, 'i'}, {0b11_00_01, 'h'},
	{0b11_01_11, 'g'}, {0b11_01_00, 'f'}, {0b11_01_01, 'e'},
	{0b00_11_11, 'd'}, {0b00_11_00, 'c'}, {0b00_11_01, 'b'},
	{0b00_00_11, 'a'}, {0b00_00_00, '0'}, {0b00_00_01, 'A'},
	{0b00_01_11, 'B'}, {0b00_01_00, 'C'}, {0b00_01_01, 'D'},
	{0b01_11_11, 'E'}, {0b01_11_00, 'F'}, {0b01_11_01, 'G'},
	{0b01_00_11, 'H'}, {0b01_00_00, 'I'}, {0b01_00_01, 'J'},
	{0b01_01_11, 'K'}, {0b01_01_00, 'L'}, {0b01_01_01, 'M'},
}

var (
	hyteBitsToChar = map[uint8]rune{}
	hyteCharToBits = map[rune]uint8{}
)

func init() {
	for _, e := range hyteChars {
		hyteBitsToChar[e.bits] = e.ch
		hyteCharToBits[e.ch] = e.bits
	}
}

// Char returns the printable character for a Hyte.
func (h Hyte) Char() rune {
	if ch, ok := hyteBitsToChar[uint8(h)]; ok {
		return ch
	}
	return '?'
}

// HyteFromChar parses one of the 27 hyte alphabet characters into a Hyte.
func HyteFromChar(c rune) (Hyte, error) {
	bits, ok := hyteCharToBits[c]
	if !ok {
		return 0, newError(InvalidCharacter, "unrecognized hyte character %q", c)
	}
	return Hyte(bits), nil
}

// HighHyte and LowHyte split a Tryte into its two 3-trit halves, high hyte
// first in text form (spec.md §4.2: "Two characters encode a tryte, high
// hyte first").
func (t Tryte) HighHyte() Hyte {
	return Hyte(uint8(t>>(hyteTritLen*2)) & 0x3F)
}

func (t Tryte) LowHyte() Hyte {
	return Hyte(uint8(t) & 0x3F)
}

// TryteFromHytes reassembles a Tryte from its high and low hytes.
func TryteFromHytes(high, low Hyte) Tryte {
	return Tryte(uint16(high)<<(hyteTritLen*2) | uint16(low))
}

// HyteString renders a Tryte as two hyte characters, high hyte first.
func (t Tryte) HyteString() string {
	return string([]rune{t.HighHyte().Char(), t.LowHyte().Char()})
}

// TryteFromHyteString parses a 2-character hyte string into a Tryte.
func TryteFromHyteString(s string) (Tryte, error) {
	r := []rune(s)
	if len(r) != 2 {
		return 0, newError(InvalidDataLength, "hyte string %q must be exactly 2 characters", s)
	}
	high, err := HyteFromChar(r[0])
	if err != nil {
		return 0, err
	}
	low, err := HyteFromChar(r[1])
	if err != nil {
		return 0, err
	}
	return TryteFromHytes(high, low), nil
}
