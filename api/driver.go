// Package api defines the driver API for simulated SNAP actions.
package api

import (
	"errors"

	"github.com/rs/xid"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/snapsim/registry"
	"github.com/sarchlab/snapsim/snap"
)

var (
	// ErrNotAttached is returned when a job is submitted before an action
	// is attached.
	ErrNotAttached = errors.New("no action attached")

	// ErrBusy is returned when a job is submitted while another job is in
	// flight.
	ErrBusy = errors.New("action busy")
)

// Driver provides the interface to control an action.
type Driver interface {
	sim.Component

	// Attach binds the driver to the registered action of the given type.
	// The card's vendor and device ids take part in the lookup.
	Attach(actionType uint32) error

	// Detach releases the attached action. A job still in flight fails
	// with ErrNotAttached.
	Detach()

	// State returns the state of the attached action.
	State() snap.ActionState

	// SubmitJob hands a job to the action. Only one job can be in flight.
	// The descriptor receives the return code when the job completes.
	SubmitJob(job *snap.JobDescriptor) (*Job, error)

	// ExecuteJob submits the job and runs it to completion.
	ExecuteJob(job *snap.JobDescriptor) (*Job, error)

	// MMIOWrite32 writes an action register.
	MMIOWrite32(offset uint64, data uint32) error

	// MMIORead32 reads an action register.
	MMIORead32(offset uint64, data *uint32) error

	// Run will run the submitted job.
	Run() error
}

// A JobObserver is told about every completed job.
type JobObserver interface {
	JobCompleted(job *Job)
}

type jobPhase int

const (
	phaseLoad jobPhase = iota
	phaseExecute
	phaseComplete
)

// Job tracks one submitted job.
type Job struct {
	ID         string
	ActionName string
	Descriptor *snap.JobDescriptor
	Retc       snap.Retc
	Err        error

	SubmitTime sim.VTimeInSec
	StartTime  sim.VTimeInSec
	EndTime    sim.VTimeInSec

	phase jobPhase
	done  bool
}

// Done tells if the job has completed.
func (j *Job) Done() bool {
	return j.done
}

type driverImpl struct {
	*sim.TickingComponent

	memory   snap.Memory
	registry *registry.Registry
	vendorID uint16
	deviceID uint16

	action    *registry.Entry
	state     snap.ActionState
	jobRegs   []byte
	current   *Job
	observers []JobObserver
}

// Tick runs the driver for one cycle.
func (d *driverImpl) Tick() (madeProgress bool) {
	if d.current == nil {
		return false
	}

	switch d.current.phase {
	case phaseLoad:
		return d.doLoad()
	case phaseExecute:
		return d.doExecute()
	case phaseComplete:
		return d.doComplete()
	default:
		panic("invalid job phase")
	}
}

func (d *driverImpl) doLoad() bool {
	data, err := d.current.Descriptor.MarshalBinary()
	if err != nil {
		d.current.Err = err
		d.current.phase = phaseComplete

		return true
	}

	copy(d.jobRegs, data)

	d.state = snap.ActionRunning
	d.current.StartTime = d.now()
	d.current.phase = phaseExecute

	snap.Trace("Driver",
		"Behavior", "LoadJob",
		"Time", float64(d.now()*1e9),
		"Job", d.current.ID,
	)

	return true
}

func (d *driverImpl) doExecute() bool {
	if d.action == nil {
		d.current.Err = ErrNotAttached
	} else {
		d.current.Err = d.action.Action.Main(d.memory, d.jobRegs)
	}

	d.state = snap.ActionDone
	d.current.phase = phaseComplete

	snap.Trace("Driver",
		"Behavior", "ExecuteJob",
		"Time", float64(d.now()*1e9),
		"Job", d.current.ID,
		"Error", d.current.Err,
	)

	return true
}

func (d *driverImpl) doComplete() bool {
	job := d.current

	regs, err := snap.DecodeDescriptor(d.jobRegs)
	if err == nil {
		job.Descriptor.Control.Retc = regs.Control.Retc
	} else if job.Err == nil {
		job.Err = err
	}

	job.Retc = job.Descriptor.Retc()
	job.EndTime = d.now()
	job.done = true

	d.current = nil
	d.state = snap.ActionIdle

	snap.Trace("Driver",
		"Behavior", "CompleteJob",
		"Time", float64(d.now()*1e9),
		"Job", job.ID,
		"Retc", job.Retc.Name(),
	)

	for _, o := range d.observers {
		o.JobCompleted(job)
	}

	return true
}

func (d *driverImpl) now() sim.VTimeInSec {
	if d.Engine == nil {
		return 0
	}

	return d.Engine.CurrentTime()
}

// Attach binds the driver to an action from the registry.
func (d *driverImpl) Attach(actionType uint32) error {
	if d.current != nil {
		return ErrBusy
	}

	entry, err := d.registry.Lookup(d.vendorID, d.deviceID, actionType)
	if err != nil {
		return err
	}

	d.action = &entry
	d.state = snap.ActionIdle

	snap.Trace("Driver",
		"Behavior", "Attach",
		"Action", entry.Name,
		"Key", entry.Key.String(),
	)

	return nil
}

// Detach releases the attached action.
func (d *driverImpl) Detach() {
	d.action = nil
	d.state = snap.ActionIdle
}

// State returns the state of the attached action.
func (d *driverImpl) State() snap.ActionState {
	return d.state
}

// SubmitJob hands a job to the action.
func (d *driverImpl) SubmitJob(desc *snap.JobDescriptor) (*Job, error) {
	if d.action == nil {
		return nil, ErrNotAttached
	}

	if d.current != nil {
		return nil, ErrBusy
	}

	job := &Job{
		ID:         xid.New().String(),
		ActionName: d.action.Name,
		Descriptor: desc,
		SubmitTime: d.now(),
		phase:      phaseLoad,
	}
	d.current = job

	return job, nil
}

// ExecuteJob submits the job and runs the simulation until it completes.
func (d *driverImpl) ExecuteJob(desc *snap.JobDescriptor) (*Job, error) {
	job, err := d.SubmitJob(desc)
	if err != nil {
		return nil, err
	}

	err = d.Run()
	if err != nil {
		return job, err
	}

	return job, job.Err
}

// MMIOWrite32 forwards the register write to the attached action.
func (d *driverImpl) MMIOWrite32(offset uint64, data uint32) error {
	if d.action == nil {
		return ErrNotAttached
	}

	return d.action.Action.MMIOWrite32(offset, data)
}

// MMIORead32 forwards the register read to the attached action.
func (d *driverImpl) MMIORead32(offset uint64, data *uint32) error {
	if d.action == nil {
		return ErrNotAttached
	}

	return d.action.Action.MMIORead32(offset, data)
}

// Run runs the simulation until the submitted job is done.
func (d *driverImpl) Run() error {
	d.TickLater()
	return d.Engine.Run()
}
