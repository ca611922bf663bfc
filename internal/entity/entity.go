// Package entity tracks the set of entities a device has advertised
// during discovery. Its Registry mirrors the map/mutex style of the
// connection managers in cmd/relay-server/manager (lock-protected maps
// with a small, explicit read/write surface), adapted here for a
// single-writer/many-reader registry that is sealed once instead of
// continuously mutated.
package entity

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownEntity is returned by lookups that miss both indices.
var ErrUnknownEntity = errors.New("entity: unknown entity")

// ErrAlreadySealed is returned when Register is called after Seal.
var ErrAlreadySealed = errors.New("entity: registry is sealed")

// Kind enumerates every entity platform ESPHome's native API exposes.
type Kind int

const (
	KindBinarySensor Kind = iota
	KindCover
	KindFan
	KindLight
	KindSensor
	KindSwitch
	KindTextSensor
	KindCamera
	KindClimate
	KindNumber
	KindSelect
	KindLock
	KindButton
	KindMediaPlayer
	KindAlarmControlPanel
	KindText
	KindDate
	KindTime
	KindDateTime
	KindValve
	KindUpdate
	KindEvent
	KindService
)

// String renders the lowercase platform name used to build IDs, e.g.
// "switch", "binary_sensor".
func (k Kind) String() string {
	switch k {
	case KindBinarySensor:
		return "binary_sensor"
	case KindCover:
		return "cover"
	case KindFan:
		return "fan"
	case KindLight:
		return "light"
	case KindSensor:
		return "sensor"
	case KindSwitch:
		return "switch"
	case KindTextSensor:
		return "text_sensor"
	case KindCamera:
		return "camera"
	case KindClimate:
		return "climate"
	case KindNumber:
		return "number"
	case KindSelect:
		return "select"
	case KindLock:
		return "lock"
	case KindButton:
		return "button"
	case KindMediaPlayer:
		return "media_player"
	case KindAlarmControlPanel:
		return "alarm_control_panel"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindDateTime:
		return "datetime"
	case KindValve:
		return "valve"
	case KindUpdate:
		return "update"
	case KindEvent:
		return "event"
	case KindService:
		return "service"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Descriptor is the immutable metadata ESPHome sends once per entity
// during discovery (a ListEntities<Kind>Response). It holds only the
// fields common to every kind, which is what lookup and routing need;
// kind-specific extra fields (e.g. a light's supported color modes) are
// not kept.
type Descriptor struct {
	Kind        Kind
	ObjectID    string
	Key         uint32
	Name        string
	UniqueID    string
	DisableByDefault bool
	Icon        string
	EntityCategory int32
}

// ID is the registry's human-addressable identifier: "<kind>-<object_id>".
func (d Descriptor) ID() string {
	return strings.ToLower(d.Kind.String()) + "-" + d.ObjectID
}

// Registry indexes discovered entities by their numeric key and by their
// derived string ID. It is built up one Register call per
// ListEntities<Kind>Response and becomes read-only once Seal is called
// on ListEntitiesDoneResponse, matching the device's own discovery
// contract: descriptors never change after discovery completes.
type Registry struct {
	mu     sync.RWMutex
	byKey  map[uint32]Descriptor
	byID   map[string]Descriptor
	sealed bool
}

// NewRegistry returns an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey: make(map[uint32]Descriptor),
		byID:  make(map[string]Descriptor),
	}
}

// Register adds a descriptor discovered via a ListEntities<Kind>Response.
// It fails once the registry has been sealed.
func (r *Registry) Register(d Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return ErrAlreadySealed
	}
	r.byKey[d.Key] = d
	r.byID[d.ID()] = d
	return nil
}

// Seal marks discovery complete (on ListEntitiesDoneResponse). Further
// Register calls fail; descriptors are now immutable.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether discovery has completed.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// ByKey looks up a descriptor by its numeric key, the value every state
// and command message carries on the wire.
func (r *Registry) ByKey(key uint32) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byKey[key]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: key %d", ErrUnknownEntity, key)
	}
	return d, nil
}

// ByID looks up a descriptor by its "<kind>-<object_id>" string form, the
// identifier consumers address entities by when issuing commands.
func (r *Registry) ByID(id string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: id %q", ErrUnknownEntity, id)
	}
	return d, nil
}

// All returns a snapshot of every registered descriptor. Safe to call
// before Seal, though the result may grow on subsequent calls.
func (r *Registry) All() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.byKey))
	for _, d := range r.byKey {
		out = append(out, d)
	}
	return out
}

// OfKind filters All() to a single platform, e.g. every switch.
func (r *Registry) OfKind(k Kind) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0)
	for _, d := range r.byKey {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}
