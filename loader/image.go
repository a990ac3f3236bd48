// Package loader reads and writes the flat memory-image format described
// in spec.md §6: a dense little-endian sequence of trytes, two bytes per
// tryte, carrying the packed 12-bit representation.
package loader

import (
	"fmt"
	"os"

	"github.com/emu3/trivm/ternary"
	"github.com/emu3/trivm/vm"
)

// ReadImage reads an image file and decodes it into a tryte slice. The
// file size must be an even number of bytes (two per tryte); an odd
// length or an invalid packed bit pattern is an error.
func ReadImage(path string) ([]ternary.Tryte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied image path
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("image %s has odd length %d, want a multiple of 2", path, len(data))
	}
	trytes, err := ternary.FromBytes(data, len(data)/2)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return trytes, nil
}

// WriteImage encodes trytes into the packed byte format and writes it to
// path, creating or truncating the file.
func WriteImage(path string, trytes []ternary.Tryte) error {
	if err := os.WriteFile(path, ternary.ToBytes(trytes), 0644); err != nil { // #nosec G306 -- a memory image is not sensitive
		return fmt.Errorf("failed to write image %s: %w", path, err)
	}
	return nil
}

// LoadIntoMemory reads the image at path and copies it into mem starting
// at mem's low address bound, so an image exactly mem.Size() trytes long
// fills memory completely; a shorter image leaves the remainder zeroed.
// It returns the number of trytes the image held, so a caller can derive
// the loaded program's address range (e.g. for code-coverage tracking).
func LoadIntoMemory(mem *vm.Memory, path string) (int, error) {
	trytes, err := ReadImage(path)
	if err != nil {
		return 0, err
	}
	low, high := mem.Bounds()
	if len(trytes) > int(high-low) {
		return 0, fmt.Errorf("image %s has %d trytes, larger than memory's %d", path, len(trytes), high-low)
	}
	if err := mem.LoadTrytes(low, trytes); err != nil {
		return 0, err
	}
	return len(trytes), nil
}

// SaveFromMemory dumps mem's entire contents to path as an image.
func SaveFromMemory(mem *vm.Memory, path string) error {
	low, high := mem.Bounds()
	trytes := make([]ternary.Tryte, 0, high-low)
	for addr := low; addr < high; addr++ {
		t, err := mem.ReadTryte(addr)
		if err != nil {
			return fmt.Errorf("failed to read memory at %d while saving image: %w", addr, err)
		}
		trytes = append(trytes, t)
	}
	return WriteImage(path, trytes)
}
