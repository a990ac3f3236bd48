package ternary

import "testing"

func TestNegateSlice(t *testing.T) {
	a, _ := FromInt(42, 2)
	neg := Negate(a)
	n, err := ToInt(neg)
	if err != nil || n != -42 {
		t.Errorf("Negate(42) = %d, want -42", n)
	}
}

func TestLogicSlice(t *testing.T) {
	a, _ := FromInt(5, 1)
	b, _ := FromInt(-3, 1)
	if got := And(a, b); len(got) != 1 {
		t.Fatalf("And result length = %d, want 1", len(got))
	}
	// Spot check via the elementwise Tryte op directly instead of hand
	// deriving trit patterns.
	want := a[0].And(b[0])
	got := And(a, b)
	if got[0] != want {
		t.Errorf("And(a,b)[0] = %v, want %v", got[0], want)
	}
	if got := Or(a, b); got[0] != a[0].Or(b[0]) {
		t.Errorf("Or mismatch")
	}
	if got := Tcmp(a, b); got[0] != a[0].Tcmp(b[0]) {
		t.Errorf("Tcmp mismatch")
	}
	if got := Tmul(a, b); got[0] != a[0].Tmul(b[0]) {
		t.Errorf("Tmul mismatch")
	}
}

func TestAddCarrySlice(t *testing.T) {
	a, _ := FromInt(1000, 2)
	b, _ := FromInt(-1, 2)
	sum, carry := AddCarry(a, b, Zero)
	n, err := ToInt(sum)
	if err != nil || n != 999 || carry != Zero {
		t.Errorf("1000+(-1) = (%d,%v), want (999,Zero)", n, carry)
	}
}

func TestMultiplySlice(t *testing.T) {
	a, _ := FromInt(123, 2)
	b, _ := FromInt(-45, 2)
	product := Multiply(a, b)
	if len(product) != 4 {
		t.Fatalf("Multiply result length = %d, want 4", len(product))
	}
	n, err := ToInt(product)
	if err != nil || n != 123*-45 {
		t.Errorf("123*-45 = %d, want %d", n, 123*-45)
	}
}

func TestDivRemSlice(t *testing.T) {
	a, _ := FromInt(100, 2)
	b, _ := FromInt(7, 2)
	q, r, err := DivRem(a, b)
	if err != nil {
		t.Fatalf("DivRem: %v", err)
	}
	qi, _ := ToInt(q)
	ri, _ := ToInt(r)
	if qi != 14 || ri != 2 {
		t.Errorf("100/7 = (%d,%d), want (14,2)", qi, ri)
	}
}

func TestCompareSlice(t *testing.T) {
	a, _ := FromInt(10, 2)
	b, _ := FromInt(10, 2)
	c, _ := FromInt(-10, 2)
	if Compare(a, b) != Zero {
		t.Error("10 cmp 10 should be Zero")
	}
	if Compare(a, c) != Pos {
		t.Error("10 cmp -10 should be Pos")
	}
	if Compare(c, a) != Neg {
		t.Error("-10 cmp 10 should be Neg")
	}
}

func TestFromIntRangeBounds(t *testing.T) {
	min, max := rangeBounds(TryteTritLen) // single tryte
	if min.Int64() != TryteMin || max.Int64() != TryteMax {
		t.Errorf("rangeBounds(%d) = [%s,%s], want [%d,%d]", TryteTritLen, min, max, TryteMin, TryteMax)
	}
	if _, err := FromInt(max.Int64()+1, 1); err == nil {
		t.Fatal("expected IntegerOutOfBounds beyond single-tryte range")
	}
}

func TestTritStringRoundTrip(t *testing.T) {
	a, _ := FromInt(-777, 2)
	s := TritString(a)
	if len(s) != 2*TryteTritLen {
		t.Fatalf("TritString length = %d, want %d", len(s), 2*TryteTritLen)
	}
	back, err := FromTritString(s, 2)
	if err != nil {
		t.Fatalf("FromTritString(%q): %v", s, err)
	}
	n, err := ToInt(back)
	if err != nil || n != -777 {
		t.Errorf("round trip = %d, want -777", n)
	}
}

func TestFromTritStringRejectsWrongLength(t *testing.T) {
	if _, err := FromTritString("001", 1); err == nil {
		t.Fatal("expected error for a trit string shorter than numTrytes*6")
	}
}

func TestHyteStringMultiTryteRoundTrip(t *testing.T) {
	a, _ := FromInt(-12345, 3)
	s := HyteString(a)
	back, err := FromHyteString(s, 3)
	if err != nil {
		t.Fatalf("FromHyteString(%q): %v", s, err)
	}
	n, err := ToInt(back)
	if err != nil || n != -12345 {
		t.Errorf("round trip = %d, want -12345", n)
	}
}

func TestFromHyteStringRejectsWrongLength(t *testing.T) {
	if _, err := FromHyteString("00", 2); err == nil {
		t.Fatal("expected error for a hyte string shorter than 2*numTrytes")
	}
}

func TestBytesSliceRoundTrip(t *testing.T) {
	a, _ := FromInt(98765, 3)
	b := ToBytes(a)
	if len(b) != 6 {
		t.Fatalf("ToBytes length = %d, want 6", len(b))
	}
	back, err := FromBytes(b, 3)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	n, err := ToInt(back)
	if err != nil || n != 98765 {
		t.Errorf("round trip = %d, want 98765", n)
	}
}

func TestFromBytesRejectsWrongLength(t *testing.T) {
	if _, err := FromBytes([]byte{0, 0}, 2); err == nil {
		t.Fatal("expected error for a byte slice shorter than numTrytes*2")
	}
}

func TestShiftSlice(t *testing.T) {
	a, _ := FromInt(1, 1)
	w := Shift(a, 0)
	if len(w) != 3 {
		t.Fatalf("Shift window length = %d, want 3", len(w))
	}
	if got := getTrit(w, TryteTritLen); got != Pos {
		t.Errorf("Shift(1,0) center trit = %v, want Pos", got)
	}
}
