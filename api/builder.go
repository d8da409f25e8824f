package api

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/snapsim/registry"
	"github.com/sarchlab/snapsim/snap"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine    sim.Engine
	freq      sim.Freq
	memory    snap.Memory
	registry  *registry.Registry
	vendorID  uint16
	deviceID  uint16
	observers []JobObserver
}

// MakeDriverBuilder creates a builder with the default card identity.
func MakeDriverBuilder() DriverBuilder {
	return DriverBuilder{
		freq:     1 * sim.GHz,
		vendorID: snap.VendorIDIBM,
		deviceID: snap.DeviceIDAny,
	}
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the driver.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithMemory sets the host memory that job buffers point into.
func (b DriverBuilder) WithMemory(memory snap.Memory) DriverBuilder {
	b.memory = memory
	return b
}

// WithRegistry sets the registry actions are looked up in. The process
// wide registry is used when none is given.
func (b DriverBuilder) WithRegistry(r *registry.Registry) DriverBuilder {
	b.registry = r
	return b
}

// WithVendorID sets the vendor id of the simulated card.
func (b DriverBuilder) WithVendorID(id uint16) DriverBuilder {
	b.vendorID = id
	return b
}

// WithDeviceID sets the device id of the simulated card.
func (b DriverBuilder) WithDeviceID(id uint16) DriverBuilder {
	b.deviceID = id
	return b
}

// WithObserver adds an observer that sees every completed job.
func (b DriverBuilder) WithObserver(o JobObserver) DriverBuilder {
	b.observers = append(b.observers, o)
	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	if b.engine == nil {
		panic("engine is not set")
	}

	if b.memory == nil {
		panic("memory is not set")
	}

	r := b.registry
	if r == nil {
		r = registry.Default()
	}

	if r == nil {
		panic("registry is not initialized")
	}

	d := &driverImpl{
		memory:    b.memory,
		registry:  r,
		vendorID:  b.vendorID,
		deviceID:  b.deviceID,
		jobRegs:   make([]byte, snap.DescriptorSize),
		observers: append([]JobObserver(nil), b.observers...),
	}

	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)

	return d
}
