// Package snap defines the commonly used data structure for SNAP actions.
package snap

// Well known identifiers. An identifier equal to one of the Any values
// matches every value in that position.
const (
	VendorIDAny   uint16 = 0xffff
	DeviceIDAny   uint16 = 0xffff
	ActionTypeAny uint32 = 0xffffffff

	VendorIDIBM uint16 = 0x1014

	DoubleMultActionType uint32 = 0x10141009
)

// Retc is the return code an action leaves in the control header.
type Retc uint32

const (
	RetcSuccess Retc = 0x102
	RetcFailure Retc = 0x104
)

// Name returns the name of the return code.
func (r Retc) Name() string {
	switch r {
	case RetcSuccess:
		return "SUCCESS"
	case RetcFailure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

// ActionState is the state of a simulated action.
type ActionState int

const (
	ActionIdle ActionState = iota
	ActionRunning
	ActionDone
)

// Name returns the name of the state.
func (s ActionState) Name() string {
	switch s {
	case ActionIdle:
		return "Idle"
	case ActionRunning:
		return "Running"
	case ActionDone:
		return "Done"
	default:
		panic("invalid action state")
	}
}

// Memory is the host memory that buffer addresses refer to.
type Memory interface {
	Read(address uint64, len uint64) ([]byte, error)
	Write(address uint64, data []byte) error
}

// An Action is a unit of offloadable work. It receives the raw job
// descriptor and may only modify the retc field of it.
type Action interface {
	// Main runs one job. The job slice must hold exactly DescriptorSize
	// bytes.
	Main(mem Memory, job []byte) error

	// MMIOWrite32 writes a 32-bit action register.
	MMIOWrite32(offset uint64, data uint32) error

	// MMIORead32 reads a 32-bit action register into data.
	MMIORead32(offset uint64, data *uint32) error
}
