package vm

import "github.com/emu3/trivm/ternary"

// Memory is a flat, centered tryte store (spec.md §3: "Addresses are
// signed integers in the range [−S/2, +S/2) where S is the tryte count").
// Adapted from the teacher's segmented MemorySegment design down to a
// single region, since this architecture has no MMU or per-segment
// permission bits (spec.md's Non-goals rule those out); what survives is
// the teacher's access-counting and alignment-checking style.
type Memory struct {
	trytes []ternary.Tryte

	AccessCount uint64
	ReadCount   uint64
	WriteCount  uint64
}

// NewMemory allocates a zero-filled memory of size trytes.
func NewMemory(size int) *Memory {
	return &Memory{trytes: make([]ternary.Tryte, size)}
}

// Size returns the memory's tryte count.
func (m *Memory) Size() int { return len(m.trytes) }

// Bounds returns the inclusive-low, exclusive-high addressable range
// [−S/2, +S/2).
func (m *Memory) Bounds() (low, high int32) {
	s := int32(len(m.trytes))
	return -(s / 2), -(s / 2) + s
}

func (m *Memory) index(address int32) (int, error) {
	low, high := m.Bounds()
	if address < low || address >= high {
		return 0, newError(InvalidAddress, "address %d is outside memory range [%d,%d)", address, low, high)
	}
	return int(address - low), nil
}

func checkAlignment(address int32, size int32) error {
	if address%size != 0 {
		return newError(InvalidAlignment, "address %d is not %d-tryte aligned", address, size)
	}
	return nil
}

// ReadTryte reads a single tryte; tryte access has no alignment
// requirement.
func (m *Memory) ReadTryte(address int32) (ternary.Tryte, error) {
	idx, err := m.index(address)
	if err != nil {
		return 0, err
	}
	m.AccessCount++
	m.ReadCount++
	return m.trytes[idx], nil
}

// WriteTryte writes a single tryte.
func (m *Memory) WriteTryte(address int32, t ternary.Tryte) error {
	idx, err := m.index(address)
	if err != nil {
		return err
	}
	m.AccessCount++
	m.WriteCount++
	m.trytes[idx] = t
	return nil
}

// ReadHalf reads a 2-tryte half starting at address (alignment 2).
func (m *Memory) ReadHalf(address int32) (ternary.Half, error) {
	if err := checkAlignment(address, 2); err != nil {
		return ternary.ZeroHalf, err
	}
	var h ternary.Half
	for i := 0; i < 2; i++ {
		t, err := m.ReadTryte(address + int32(i))
		if err != nil {
			return ternary.ZeroHalf, err
		}
		h[i] = t
	}
	return h, nil
}

// WriteHalf writes a 2-tryte half starting at address (alignment 2).
func (m *Memory) WriteHalf(address int32, h ternary.Half) error {
	if err := checkAlignment(address, 2); err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		if err := m.WriteTryte(address+int32(i), h[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReadWord reads a 4-tryte word starting at address (alignment 4).
func (m *Memory) ReadWord(address int32) (ternary.Word, error) {
	if err := checkAlignment(address, 4); err != nil {
		return ternary.ZeroWord, err
	}
	var w ternary.Word
	for i := 0; i < 4; i++ {
		t, err := m.ReadTryte(address + int32(i))
		if err != nil {
			return ternary.ZeroWord, err
		}
		w[i] = t
	}
	return w, nil
}

// WriteWord writes a 4-tryte word starting at address (alignment 4).
func (m *Memory) WriteWord(address int32, w ternary.Word) error {
	if err := checkAlignment(address, 4); err != nil {
		return err
	}
	for i := 0; i < 4; i++ {
		if err := m.WriteTryte(address+int32(i), w[i]); err != nil {
			return err
		}
	}
	return nil
}

// LoadTrytes copies data into memory starting at address, without
// alignment checks — used by the image loader to seed program/data
// regions (spec.md §6's memory image format).
func (m *Memory) LoadTrytes(address int32, data []ternary.Tryte) error {
	for i, t := range data {
		if err := m.WriteTryte(address+int32(i), t); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears every tryte and the access counters.
func (m *Memory) Reset() {
	for i := range m.trytes {
		m.trytes[i] = ternary.ZeroTryte
	}
	m.AccessCount, m.ReadCount, m.WriteCount = 0, 0, 0
}
