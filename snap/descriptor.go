package snap

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Sizes of the job descriptor parts, in bytes.
const (
	ControlSize    = 16
	AddrSize       = 16
	PayloadSize    = 2 * AddrSize
	JobSize        = 108
	PaddingSize    = JobSize - PayloadSize
	DescriptorSize = 124

	retcOffset = 4
)

// Fails to compile unless the parts add up to DescriptorSize.
var _ [ControlSize + PayloadSize + PaddingSize - DescriptorSize]struct{} = [0]struct{}{}

// ElementSize is the byte size of one buffer element, an IEEE-754 double.
const ElementSize = 8

// Address types.
const (
	AddrTypeHostDRAM uint16 = 0x0000
	AddrTypeCardDRAM uint16 = 0x0001
	AddrTypeNVMe     uint16 = 0x0002
	AddrTypeUnused   uint16 = 0xffff
)

// ParseAddrType converts an address type name to its tag. The empty name
// is host DRAM.
func ParseAddrType(name string) (uint16, error) {
	switch name {
	case "", "host_dram":
		return AddrTypeHostDRAM, nil
	case "card_dram":
		return AddrTypeCardDRAM, nil
	case "nvme":
		return AddrTypeNVMe, nil
	case "unused":
		return AddrTypeUnused, nil
	default:
		return 0, fmt.Errorf("unknown address type %q", name)
	}
}

// Address flags.
const (
	AddrFlagAddr uint16 = 0x01
	AddrFlagDst  uint16 = 0x02
	AddrFlagSrc  uint16 = 0x04
	AddrFlagEnd  uint16 = 0x08
)

// Control is the generic header owned by the framework.
type Control struct {
	Sat      uint8
	Flags    uint8
	Seq      uint16
	Retc     uint32
	Reserved uint64
}

// Addr describes a buffer in host memory. Size counts elements, not bytes.
type Addr struct {
	Addr  uint64
	Size  uint32
	Type  uint16
	Flags uint16
}

// ByteLen returns the number of bytes the buffer spans.
func (a Addr) ByteLen() uint64 {
	return uint64(a.Size) * ElementSize
}

// DoubleMultJob is the payload of the double mult action.
type DoubleMultJob struct {
	In  Addr
	Out Addr
}

// JobDescriptor is the fixed size record passed to an action.
type JobDescriptor struct {
	Control Control
	Job     DoubleMultJob
	Padding [PaddingSize]byte
}

// NewJobDescriptor creates a descriptor for the given buffers. The return
// code starts as failure so that an action that never runs is not mistaken
// for a successful one.
func NewJobDescriptor(in, out Addr) *JobDescriptor {
	return &JobDescriptor{
		Control: Control{Retc: uint32(RetcFailure)},
		Job: DoubleMultJob{
			In:  in,
			Out: out,
		},
	}
}

// Retc returns the return code in the control header.
func (d *JobDescriptor) Retc() Retc {
	return Retc(d.Control.Retc)
}

// MarshalBinary encodes the descriptor in little endian byte order.
func (d *JobDescriptor) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, DescriptorSize))

	err := binary.Write(buf, binary.LittleEndian, d)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary decodes the descriptor. The data must hold exactly
// DescriptorSize bytes.
func (d *JobDescriptor) UnmarshalBinary(data []byte) error {
	if len(data) != DescriptorSize {
		return &InvalidJobError{Len: len(data), Expected: DescriptorSize}
	}

	return binary.Read(bytes.NewReader(data), binary.LittleEndian, d)
}

// DecodeDescriptor decodes a raw job.
func DecodeDescriptor(job []byte) (*JobDescriptor, error) {
	d := &JobDescriptor{}

	err := d.UnmarshalBinary(job)
	if err != nil {
		return nil, err
	}

	return d, nil
}

// SetRetc writes the return code into a raw job without touching any other
// field.
func SetRetc(job []byte, retc Retc) error {
	if len(job) != DescriptorSize {
		return &InvalidJobError{Len: len(job), Expected: DescriptorSize}
	}

	binary.LittleEndian.PutUint32(job[retcOffset:], uint32(retc))

	return nil
}
