// Package hostmem provides the simulated host memory that job buffers live
// in.
package hostmem

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/snapsim/snap"
)

// baseAddr is the first address handed out by Alloc. Address 0 stays
// unmapped so that a zero address in a descriptor never aliases a buffer.
const baseAddr = 0x1000

// Memory is a byte addressable host memory with a bump allocator.
type Memory struct {
	storage  *mem.Storage
	capacity uint64
	next     uint64
}

// New creates a memory with the given capacity in bytes.
func New(capacity uint64) *Memory {
	return &Memory{
		storage:  mem.NewStorage(capacity),
		capacity: capacity,
		next:     baseAddr,
	}
}

// Capacity returns the number of addressable bytes.
func (m *Memory) Capacity() uint64 {
	return m.capacity
}

// Alloc reserves size bytes aligned to align and returns the start address.
func (m *Memory) Alloc(size, align uint64) (uint64, error) {
	if align == 0 {
		align = 1
	}

	if align&(align-1) != 0 {
		return 0, fmt.Errorf("alignment %d is not a power of two", align)
	}

	addr := (m.next + align - 1) &^ (align - 1)
	if err := m.checkBounds(addr, size); err != nil {
		return 0, err
	}

	m.next = addr + size

	return addr, nil
}

// Reset releases every allocation. The content is kept.
func (m *Memory) Reset() {
	m.next = baseAddr
}

func (m *Memory) checkBounds(address, length uint64) error {
	unmapped := length > 0 && address < baseAddr
	if unmapped || address > m.capacity || length > m.capacity-address {
		return &snap.OutOfBoundsError{
			Address:  address,
			Len:      length,
			Capacity: m.capacity,
		}
	}

	return nil
}

// Read returns length bytes starting at address.
func (m *Memory) Read(address uint64, length uint64) ([]byte, error) {
	if err := m.checkBounds(address, length); err != nil {
		return nil, err
	}

	if length == 0 {
		return []byte{}, nil
	}

	return m.storage.Read(address, length)
}

// Write stores data starting at address.
func (m *Memory) Write(address uint64, data []byte) error {
	if err := m.checkBounds(address, uint64(len(data))); err != nil {
		return err
	}

	if len(data) == 0 {
		return nil
	}

	return m.storage.Write(address, data)
}

// WriteFloat64s stores the values as little endian doubles.
func (m *Memory) WriteFloat64s(address uint64, values []float64) error {
	return m.Write(address, EncodeFloat64s(values))
}

// ReadFloat64s loads n little endian doubles.
func (m *Memory) ReadFloat64s(address uint64, n int) ([]float64, error) {
	data, err := m.Read(address, uint64(n)*snap.ElementSize)
	if err != nil {
		return nil, err
	}

	return DecodeFloat64s(data), nil
}

// AllocFloat64s allocates a buffer for n doubles and describes it.
func (m *Memory) AllocFloat64s(n int, flags uint16) (snap.Addr, error) {
	addr, err := m.Alloc(uint64(n)*snap.ElementSize, 64)
	if err != nil {
		return snap.Addr{}, err
	}

	return snap.Addr{
		Addr:  addr,
		Size:  uint32(n),
		Type:  snap.AddrTypeHostDRAM,
		Flags: snap.AddrFlagAddr | flags,
	}, nil
}

// EncodeFloat64s converts the values to their memory representation.
func EncodeFloat64s(values []float64) []byte {
	data := make([]byte, len(values)*snap.ElementSize)
	for i, v := range values {
		binary.LittleEndian.PutUint64(
			data[i*snap.ElementSize:], math.Float64bits(v))
	}

	return data
}

// DecodeFloat64s converts memory bytes to doubles. Trailing bytes that do
// not form a whole element are ignored.
func DecodeFloat64s(data []byte) []float64 {
	values := make([]float64, len(data)/snap.ElementSize)
	for i := range values {
		values[i] = math.Float64frombits(
			binary.LittleEndian.Uint64(data[i*snap.ElementSize:]))
	}

	return values
}
