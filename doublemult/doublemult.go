// Package doublemult implements the simulated double mult action.
//
// The action reads the input buffer as doubles and writes one output
// element for every three input elements. In the default copy mode output
// element i is input element i, which is what the hardware action of this
// example currently does. The multiply mode writes the product of the i-th
// triple instead and has to be selected explicitly.
package doublemult

import (
	"fmt"

	"github.com/sarchlab/snapsim/hostmem"
	"github.com/sarchlab/snapsim/registry"
	"github.com/sarchlab/snapsim/snap"
)

// Mode selects how output elements are produced.
type Mode int

const (
	// ModeCopy copies input[i] to output[i].
	ModeCopy Mode = iota
	// ModeMultiply writes input[3i] * input[3i+1] * input[3i+2].
	ModeMultiply
)

// Name returns the name of the mode.
func (m Mode) Name() string {
	switch m {
	case ModeCopy:
		return "copy"
	case ModeMultiply:
		return "multiply"
	default:
		panic("invalid mode")
	}
}

// ParseMode converts a mode name back to a Mode. The empty name is copy.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "copy":
		return ModeCopy, nil
	case "multiply":
		return ModeMultiply, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", name)
	}
}

// GroupSize is the number of input elements consumed per output element.
const GroupSize = 3

// Action is the double mult action.
type Action struct {
	mode Mode
}

// An Option configures an Action.
type Option func(a *Action)

// WithMode sets the processing mode.
func WithMode(mode Mode) Option {
	return func(a *Action) {
		a.mode = mode
	}
}

// New creates an action in copy mode unless configured otherwise.
func New(opts ...Option) *Action {
	a := &Action{mode: ModeCopy}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Mode returns the processing mode.
func (a *Action) Mode() Mode {
	return a.mode
}

// Main runs one job. On failure the return code in the job is set to
// failure and the error is returned.
func (a *Action) Main(mem snap.Memory, job []byte) error {
	snap.Trace("Action",
		"Behavior", "Main",
		"JobLen", len(job),
		"DescriptorSize", snap.DescriptorSize,
		"Mode", a.mode.Name(),
	)

	js, err := snap.DecodeDescriptor(job)
	if err != nil {
		return err
	}

	err = a.process(mem, js)
	if err != nil {
		_ = snap.SetRetc(job, snap.RetcFailure)
		return err
	}

	return snap.SetRetc(job, snap.RetcSuccess)
}

func (a *Action) process(mem snap.Memory, js *snap.JobDescriptor) error {
	in, out := js.Job.In, js.Job.Out
	size := uint64(in.Size)
	count := size / GroupSize

	snap.Trace("Action",
		"Behavior", "Copy",
		"TypeIn", in.Type,
		"TypeOut", out.Type,
		"Src", in.Addr,
		"Dst", out.Addr,
		"Doubles", size,
	)

	if size == 0 {
		return nil
	}

	data, err := mem.Read(in.Addr, in.ByteLen())
	if err != nil {
		return err
	}

	src := hostmem.DecodeFloat64s(data)
	dst := make([]float64, count)

	for i := range dst {
		switch a.mode {
		case ModeCopy:
			dst[i] = src[i]
		case ModeMultiply:
			dst[i] = src[GroupSize*i] * src[GroupSize*i+1] * src[GroupSize*i+2]
		}

		snap.Trace("Action",
			"Behavior", "Output",
			"Index", i,
			"Value", dst[i],
		)
	}

	if count == 0 {
		return nil
	}

	return mem.Write(out.Addr, hostmem.EncodeFloat64s(dst))
}

// MMIOWrite32 only traces the access.
func (a *Action) MMIOWrite32(offset uint64, data uint32) error {
	snap.Trace("Action",
		"Behavior", "MMIOWrite32",
		"Offset", offset,
		"Data", data,
	)

	return nil
}

// MMIORead32 only traces the access. data is left unchanged.
func (a *Action) MMIORead32(offset uint64, data *uint32) error {
	snap.Trace("Action",
		"Behavior", "MMIORead32",
		"Offset", offset,
	)

	return nil
}

// Key returns the identity the action registers under.
func Key() registry.Key {
	return registry.Key{
		VendorID:   snap.VendorIDAny,
		DeviceID:   snap.DeviceIDAny,
		ActionType: snap.DoubleMultActionType,
	}
}

// Registrar registers a new action with the given options.
func Registrar(opts ...Option) registry.Registrar {
	return func(r *registry.Registry) error {
		r.Register(registry.Entry{
			Key:    Key(),
			Name:   "hls_double_mult",
			Action: New(opts...),
		})

		return nil
	}
}
