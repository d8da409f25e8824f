// Package registry keeps the table that maps action identities to action
// implementations.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sarchlab/snapsim/snap"
)

var (
	// ErrNotInitialized is returned by the package level lookup before
	// Initialize runs.
	ErrNotInitialized = errors.New("registry not initialized")

	// ErrAlreadyInitialized is returned by a second Initialize without a
	// Teardown in between.
	ErrAlreadyInitialized = errors.New("registry already initialized")
)

// Key identifies an action. Any field may hold the matching Any wildcard.
type Key struct {
	VendorID   uint16
	DeviceID   uint16
	ActionType uint32
}

// Matches reports whether two keys identify the same action.
func (k Key) Matches(other Key) bool {
	return matchID(k.VendorID, other.VendorID, snap.VendorIDAny) &&
		matchID(k.DeviceID, other.DeviceID, snap.DeviceIDAny) &&
		matchID(k.ActionType, other.ActionType, snap.ActionTypeAny)
}

func matchID[T comparable](a, b, wildcard T) bool {
	return a == b || a == wildcard || b == wildcard
}

func (k Key) String() string {
	return fmt.Sprintf("%04x:%04x:%08x", k.VendorID, k.DeviceID, k.ActionType)
}

// Entry binds an action implementation to its key.
type Entry struct {
	Key

	Name   string
	Action snap.Action
}

// A Registrar adds entries to a registry.
type Registrar func(r *Registry) error

// Registry is an ordered list of entries.
type Registry struct {
	lock    sync.RWMutex
	entries []Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Register appends the entry. Entries are not deduplicated.
func (r *Registry) Register(entry Entry) {
	r.lock.Lock()
	defer r.lock.Unlock()

	snap.Trace("Registry",
		"Behavior", "Register",
		"Name", entry.Name,
		"Key", entry.Key.String(),
	)

	r.entries = append(r.entries, entry)
}

// Lookup returns the first registered entry that matches the key.
func (r *Registry) Lookup(
	vendorID, deviceID uint16,
	actionType uint32,
) (Entry, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	key := Key{VendorID: vendorID, DeviceID: deviceID, ActionType: actionType}
	for _, e := range r.entries {
		if e.Key.Matches(key) {
			return e, nil
		}
	}

	return Entry{}, &snap.NotFoundError{
		VendorID:   vendorID,
		DeviceID:   deviceID,
		ActionType: actionType,
	}
}

// Entries returns a copy of the entries in registration order.
func (r *Registry) Entries() []Entry {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return append([]Entry(nil), r.entries...)
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.entries)
}

// Apply runs the registrars against the registry in order.
func (r *Registry) Apply(registrars ...Registrar) error {
	for _, reg := range registrars {
		if err := reg(r); err != nil {
			return err
		}
	}

	return nil
}

var process struct {
	sync.Mutex
	registry *Registry
}

// Initialize creates the process wide registry and fills it with the
// registrars. It must run before any package level Lookup.
func Initialize(registrars ...Registrar) error {
	process.Lock()
	defer process.Unlock()

	if process.registry != nil {
		return ErrAlreadyInitialized
	}

	r := New()
	if err := r.Apply(registrars...); err != nil {
		return err
	}

	process.registry = r

	return nil
}

// Teardown drops the process wide registry.
func Teardown() {
	process.Lock()
	defer process.Unlock()

	process.registry = nil
}

// Default returns the process wide registry, or nil before Initialize.
func Default() *Registry {
	process.Lock()
	defer process.Unlock()

	return process.registry
}

// Lookup searches the process wide registry.
func Lookup(vendorID, deviceID uint16, actionType uint32) (Entry, error) {
	r := Default()
	if r == nil {
		return Entry{}, ErrNotInitialized
	}

	return r.Lookup(vendorID, deviceID, actionType)
}
