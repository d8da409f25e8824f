// Package config provides a default configuration for a simulated SNAP card.
package config

import (
	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/snapsim/api"
	"github.com/sarchlab/snapsim/doublemult"
	"github.com/sarchlab/snapsim/hostmem"
	"github.com/sarchlab/snapsim/registry"
	"github.com/sarchlab/snapsim/snap"
)

// DefaultMemoryCapacity is the host memory size of a card, in bytes.
const DefaultMemoryCapacity = 64 * 1024 * 1024

// A Card bundles everything needed to run jobs on a simulated card.
type Card struct {
	Name     string
	Engine   sim.Engine
	Memory   *hostmem.Memory
	Registry *registry.Registry
	Driver   api.Driver
}

// CardBuilder can build simulated cards.
type CardBuilder struct {
	engine     sim.Engine
	freq       sim.Freq
	capacity   uint64
	deviceID   uint16
	registry   *registry.Registry
	registrars []registry.Registrar
	observers  []api.JobObserver
	monitor    *monitoring.Monitor
}

// MakeCardBuilder creates a builder with the default configuration. The
// double mult action is registered in copy mode.
func MakeCardBuilder() CardBuilder {
	return CardBuilder{
		freq:       1 * sim.GHz,
		capacity:   DefaultMemoryCapacity,
		deviceID:   snap.DeviceIDAny,
		registrars: []registry.Registrar{doublemult.Registrar()},
	}
}

// WithEngine sets the engine that drives the card simulation.
func (b CardBuilder) WithEngine(engine sim.Engine) CardBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the card.
func (b CardBuilder) WithFreq(freq sim.Freq) CardBuilder {
	b.freq = freq
	return b
}

// WithMemoryCapacity sets the host memory size in bytes.
func (b CardBuilder) WithMemoryCapacity(capacity uint64) CardBuilder {
	b.capacity = capacity
	return b
}

// WithDeviceID sets the device id the driver presents during lookups.
func (b CardBuilder) WithDeviceID(id uint16) CardBuilder {
	b.deviceID = id
	return b
}

// WithMode registers the double mult action in the given mode instead of
// the default copy mode.
func (b CardBuilder) WithMode(mode doublemult.Mode) CardBuilder {
	b.registrars = []registry.Registrar{
		doublemult.Registrar(doublemult.WithMode(mode)),
	}
	return b
}

// WithRegistrars replaces the actions registered on the card.
func (b CardBuilder) WithRegistrars(registrars ...registry.Registrar) CardBuilder {
	b.registrars = registrars
	return b
}

// WithRegistry makes the card use an existing registry, such as the process
// wide one. Registrars are not applied to it.
func (b CardBuilder) WithRegistry(r *registry.Registry) CardBuilder {
	b.registry = r
	return b
}

// WithObserver adds a job observer to the driver.
func (b CardBuilder) WithObserver(o api.JobObserver) CardBuilder {
	b.observers = append(b.observers, o)
	return b
}

// WithMonitor registers the engine and the driver with the monitor.
func (b CardBuilder) WithMonitor(monitor *monitoring.Monitor) CardBuilder {
	b.monitor = monitor
	return b
}

// Build creates a card.
func (b CardBuilder) Build(name string) (*Card, error) {
	engine := b.engine
	if engine == nil {
		engine = sim.NewSerialEngine()
	}

	r := b.registry
	if r == nil {
		r = registry.New()
		if err := r.Apply(b.registrars...); err != nil {
			return nil, err
		}
	}

	memory := hostmem.New(b.capacity)

	driverBuilder := api.MakeDriverBuilder().
		WithEngine(engine).
		WithFreq(b.freq).
		WithMemory(memory).
		WithRegistry(r).
		WithDeviceID(b.deviceID)
	for _, o := range b.observers {
		driverBuilder = driverBuilder.WithObserver(o)
	}

	card := &Card{
		Name:     name,
		Engine:   engine,
		Memory:   memory,
		Registry: r,
		Driver:   driverBuilder.Build(name + ".Driver"),
	}

	if b.monitor != nil {
		b.monitor.RegisterEngine(engine)
		b.monitor.RegisterComponent(card.Driver)
	}

	return card, nil
}

// Result is the outcome of RunDoubles.
type Result struct {
	Job    *api.Job
	Output []float64
}

// BufferTypes holds the address type tags written into a descriptor.
type BufferTypes struct {
	In  uint16
	Out uint16
}

// HostBuffers tags both buffers as host DRAM.
var HostBuffers = BufferTypes{
	In:  snap.AddrTypeHostDRAM,
	Out: snap.AddrTypeHostDRAM,
}

// RunDoubles places the input in host memory, runs one double mult job on
// the card and reads back floor(len(input)/3) output elements. The buffers
// are released when the call returns, so a card can run any number of
// jobs.
func (c *Card) RunDoubles(input []float64) (*Result, error) {
	return c.RunDoublesWithTypes(input, HostBuffers)
}

// RunDoublesWithTypes is RunDoubles with explicit buffer type tags.
func (c *Card) RunDoublesWithTypes(
	input []float64,
	types BufferTypes,
) (*Result, error) {
	defer c.Memory.Reset()

	in, err := c.Memory.AllocFloat64s(len(input), snap.AddrFlagSrc)
	if err != nil {
		return nil, err
	}
	in.Type = types.In

	err = c.Memory.WriteFloat64s(in.Addr, input)
	if err != nil {
		return nil, err
	}

	outLen := len(input) / doublemult.GroupSize
	out, err := c.Memory.AllocFloat64s(outLen, snap.AddrFlagDst|snap.AddrFlagEnd)
	if err != nil {
		return nil, err
	}
	out.Type = types.Out

	err = c.Driver.Attach(snap.DoubleMultActionType)
	if err != nil {
		return nil, err
	}
	defer c.Driver.Detach()

	job, err := c.Driver.ExecuteJob(snap.NewJobDescriptor(in, out))
	if err != nil {
		return &Result{Job: job}, err
	}

	output, err := c.Memory.ReadFloat64s(out.Addr, outLen)
	if err != nil {
		return &Result{Job: job}, err
	}

	return &Result{Job: job, Output: output}, nil
}
