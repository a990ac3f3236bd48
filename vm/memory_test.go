package vm

import (
	"testing"

	"github.com/emu3/trivm/ternary"
)

func TestMemoryBoundsCentered(t *testing.T) {
	m := NewMemory(100)
	low, high := m.Bounds()
	if low != -50 || high != 50 {
		t.Errorf("Bounds() = (%d,%d), want (-50,50)", low, high)
	}
}

func TestMemoryTryteRoundTrip(t *testing.T) {
	m := NewMemory(100)
	tr, _ := ternary.FromInt(42, 1)
	if err := m.WriteTryte(-10, tr[0]); err != nil {
		t.Fatalf("WriteTryte: %v", err)
	}
	got, err := m.ReadTryte(-10)
	if err != nil || got != tr[0] {
		t.Errorf("ReadTryte(-10) = (%v,%v), want (%v,nil)", got, err, tr[0])
	}
	if m.AccessCount != 2 || m.ReadCount != 1 || m.WriteCount != 1 {
		t.Errorf("counters = (%d,%d,%d), want (2,1,1)", m.AccessCount, m.ReadCount, m.WriteCount)
	}
}

func TestMemoryRejectsOutOfRange(t *testing.T) {
	m := NewMemory(100)
	low, high := m.Bounds()
	if _, err := m.ReadTryte(low - 1); err == nil {
		t.Fatal("expected error reading below the low bound")
	}
	if _, err := m.ReadTryte(high); err == nil {
		t.Fatal("expected error reading at/above the high bound")
	}
}

func TestMemoryWordRoundTrip(t *testing.T) {
	m := NewMemory(200)
	w, _ := ternary.WordFromInt(-123456)
	if err := m.WriteWord(0, w); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	got, err := m.ReadWord(0)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	n, err := got.ToInt()
	if err != nil || n != -123456 {
		t.Errorf("ReadWord round trip = %d, want -123456", n)
	}
}

func TestMemoryWordRejectsMisalignment(t *testing.T) {
	m := NewMemory(200)
	if err := m.WriteWord(1, ternary.ZeroWord); err == nil {
		t.Fatal("expected alignment error writing a word at an odd address")
	}
}

func TestMemoryHalfRejectsMisalignment(t *testing.T) {
	m := NewMemory(200)
	if _, err := m.ReadHalf(1); err == nil {
		t.Fatal("expected alignment error reading a half at an odd address")
	}
}

func TestMemoryLoadTrytes(t *testing.T) {
	m := NewMemory(200)
	data, _ := ternary.FromInt(999, 4)
	low, _ := m.Bounds()
	if err := m.LoadTrytes(low, data); err != nil {
		t.Fatalf("LoadTrytes: %v", err)
	}
	for i, want := range data {
		got, err := m.ReadTryte(low + int32(i))
		if err != nil || got != want {
			t.Errorf("tryte %d = (%v,%v), want %v", i, got, err, want)
		}
	}
}

func TestMemoryReset(t *testing.T) {
	m := NewMemory(100)
	tr, _ := ternary.FromInt(5, 1)
	_ = m.WriteTryte(0, tr[0])
	m.Reset()
	got, err := m.ReadTryte(0)
	if err != nil || got != ternary.ZeroTryte {
		t.Errorf("after Reset, tryte = (%v,%v), want (ZeroTryte,nil)", got, err)
	}
	if m.AccessCount != 1 || m.ReadCount != 1 || m.WriteCount != 0 {
		t.Errorf("counters after Reset = (%d,%d,%d), want (1,1,0)", m.AccessCount, m.ReadCount, m.WriteCount)
	}
}
