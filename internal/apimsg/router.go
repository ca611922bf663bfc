package apimsg

import "github.com/esphome-go/client/internal/entity"

// StateDecoder decodes one <Kind>StateResponse/EventResponse body into
// its typed Go value.
type StateDecoder func(body []byte) (interface{}, error)

// stateDecoders and stateKindByType let the session loop dispatch a
// frame's message type to both "what entity kind is this" and "how do I
// decode its payload" without a growing switch statement at the call
// site; adding a kind means adding one map entry here.
var stateDecoders = map[uint32]StateDecoder{
	TypeBinarySensorStateResponse: func(b []byte) (interface{}, error) { return DecodeBinarySensorState(b) },
	TypeSensorStateResponse:       func(b []byte) (interface{}, error) { return DecodeSensorState(b) },
	TypeTextSensorStateResponse:   func(b []byte) (interface{}, error) { return DecodeTextSensorState(b) },
	TypeSwitchStateResponse:       func(b []byte) (interface{}, error) { return DecodeSwitchState(b) },
	TypeCoverStateResponse:        func(b []byte) (interface{}, error) { return DecodeCoverState(b) },
	TypeFanStateResponse:          func(b []byte) (interface{}, error) { return DecodeFanState(b) },
	TypeLightStateResponse:        func(b []byte) (interface{}, error) { return DecodeLightState(b) },
	TypeClimateStateResponse:      func(b []byte) (interface{}, error) { return DecodeClimateState(b) },
	TypeNumberStateResponse:       func(b []byte) (interface{}, error) { return DecodeNumberState(b) },
	TypeSelectStateResponse:       func(b []byte) (interface{}, error) { return DecodeSelectState(b) },
	TypeLockStateResponse:         func(b []byte) (interface{}, error) { return DecodeLockState(b) },
	TypeMediaPlayerStateResponse:  func(b []byte) (interface{}, error) { return DecodeMediaPlayerState(b) },
	TypeAlarmControlPanelStateResponse: func(b []byte) (interface{}, error) { return DecodeAlarmControlPanelState(b) },
	TypeTextStateResponse:         func(b []byte) (interface{}, error) { return DecodeTextState(b) },
	TypeDateStateResponse:         func(b []byte) (interface{}, error) { return DecodeDateState(b) },
	TypeTimeStateResponse:         func(b []byte) (interface{}, error) { return DecodeTimeState(b) },
	TypeDateTimeStateResponse:     func(b []byte) (interface{}, error) { return DecodeDateTimeState(b) },
	TypeValveStateResponse:        func(b []byte) (interface{}, error) { return DecodeValveState(b) },
	TypeUpdateStateResponse:       func(b []byte) (interface{}, error) { return DecodeUpdateState(b) },
	TypeEventResponse:             func(b []byte) (interface{}, error) { return DecodeEventResponse(b) },
}

var stateKindByType = map[uint32]entity.Kind{
	TypeBinarySensorStateResponse:      entity.KindBinarySensor,
	TypeSensorStateResponse:            entity.KindSensor,
	TypeTextSensorStateResponse:        entity.KindTextSensor,
	TypeSwitchStateResponse:            entity.KindSwitch,
	TypeCoverStateResponse:             entity.KindCover,
	TypeFanStateResponse:               entity.KindFan,
	TypeLightStateResponse:             entity.KindLight,
	TypeClimateStateResponse:           entity.KindClimate,
	TypeNumberStateResponse:            entity.KindNumber,
	TypeSelectStateResponse:            entity.KindSelect,
	TypeLockStateResponse:              entity.KindLock,
	TypeMediaPlayerStateResponse:       entity.KindMediaPlayer,
	TypeAlarmControlPanelStateResponse: entity.KindAlarmControlPanel,
	TypeTextStateResponse:              entity.KindText,
	TypeDateStateResponse:              entity.KindDate,
	TypeTimeStateResponse:              entity.KindTime,
	TypeDateTimeStateResponse:          entity.KindDateTime,
	TypeValveStateResponse:             entity.KindValve,
	TypeUpdateStateResponse:            entity.KindUpdate,
	TypeEventResponse:                  entity.KindEvent,
}

// DecodeState dispatches a state/event frame body to its typed decoder
// and reports which entity kind it belongs to. ok is false for message
// types that aren't state/event messages at all (the caller should fall
// through to its other message-type handling, not treat this as an
// error).
func DecodeState(msgType uint32, body []byte) (kind entity.Kind, payload interface{}, ok bool, err error) {
	dec, known := stateDecoders[msgType]
	if !known {
		return 0, nil, false, nil
	}
	payload, err = dec(body)
	if err != nil {
		return 0, nil, true, err
	}
	return stateKindByType[msgType], payload, true, nil
}

// KeyOf extracts the entity key from any decoded state/event payload.
// Every shape in stateDecoders' output carries a Key field at the same
// conceptual position, so this is a small type switch rather than a
// reflection-based accessor.
func KeyOf(payload interface{}) uint32 {
	switch v := payload.(type) {
	case BinarySensorState:
		return v.Key
	case SensorState:
		return v.Key
	case TextSensorState:
		return v.Key
	case SwitchState:
		return v.Key
	case CoverState:
		return v.Key
	case FanState:
		return v.Key
	case LightState:
		return v.Key
	case ClimateState:
		return v.Key
	case NumberState:
		return v.Key
	case SelectState:
		return v.Key
	case LockState:
		return v.Key
	case MediaPlayerState:
		return v.Key
	case AlarmControlPanelState:
		return v.Key
	case TextState:
		return v.Key
	case DateState:
		return v.Key
	case TimeState:
		return v.Key
	case DateTimeState:
		return v.Key
	case ValveState:
		return v.Key
	case UpdateState:
		return v.Key
	case EventResponse:
		return v.Key
	default:
		return 0
	}
}
