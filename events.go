package espclient

import "github.com/esphome-go/client/internal/entity"

// Event is delivered to Config.OnState once per state/event message. The
// Descriptor identifies which entity it's about (looked up from the
// registry by key); State holds the kind-specific payload from
// internal/apimsg (a SwitchState, LightState, EventResponse, ...) — type
// switch on it the same way you'd switch on Kind.
type Event struct {
	Descriptor entity.Descriptor
	State      interface{}
}
