package apimsg

import "github.com/esphome-go/client/internal/wire"

// Every <Kind>StateResponse shares the same leading field: the entity's
// key (field 1). decodeKeyed is the common prefix every decoder below
// starts from before switching on its own kind-specific fields.
func decodeKeyed(body []byte, fn func(wire.Field) error) (key uint32, err error) {
	err = wire.Decode(body, func(f wire.Field) error {
		if f.Num == 1 {
			key = uint32(f.U64)
			return nil
		}
		return fn(f)
	})
	return key, err
}

type BinarySensorState struct {
	Key   uint32
	State bool
}

func DecodeBinarySensorState(body []byte) (BinarySensorState, error) {
	var m BinarySensorState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		if f.Num == 2 {
			m.State = f.U64 != 0
		}
		return nil
	})
	m.Key = key
	return m, err
}

type SensorState struct {
	Key       uint32
	State     float32
	MissingState bool
}

func DecodeSensorState(body []byte) (SensorState, error) {
	var m SensorState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		switch f.Num {
		case 2:
			m.State = wire.Float32FromBits(f.U32)
		case 3:
			m.MissingState = f.U64 != 0
		}
		return nil
	})
	m.Key = key
	return m, err
}

type TextSensorState struct {
	Key          uint32
	State        string
	MissingState bool
}

func DecodeTextSensorState(body []byte) (TextSensorState, error) {
	var m TextSensorState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		switch f.Num {
		case 2:
			m.State = string(f.Buf)
		case 3:
			m.MissingState = f.U64 != 0
		}
		return nil
	})
	m.Key = key
	return m, err
}

type SwitchState struct {
	Key   uint32
	State bool
}

func DecodeSwitchState(body []byte) (SwitchState, error) {
	var m SwitchState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		if f.Num == 2 {
			m.State = f.U64 != 0
		}
		return nil
	})
	m.Key = key
	return m, err
}

type CoverState struct {
	Key      uint32
	Position float32
	Tilt     float32
	CurrentOperation uint32
}

func DecodeCoverState(body []byte) (CoverState, error) {
	var m CoverState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		switch f.Num {
		case 2:
			m.Position = wire.Float32FromBits(f.U32)
		case 3:
			m.Tilt = wire.Float32FromBits(f.U32)
		case 4:
			m.CurrentOperation = uint32(f.U64)
		}
		return nil
	})
	m.Key = key
	return m, err
}

type FanState struct {
	Key         uint32
	State       bool
	Oscillating bool
	Speed       uint32
	Direction   uint32
	SpeedLevel  int32
}

func DecodeFanState(body []byte) (FanState, error) {
	var m FanState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		switch f.Num {
		case 2:
			m.State = f.U64 != 0
		case 3:
			m.Oscillating = f.U64 != 0
		case 4:
			m.Speed = uint32(f.U64)
		case 5:
			m.Direction = uint32(f.U64)
		case 6:
			m.SpeedLevel = int32(f.U64)
		}
		return nil
	})
	m.Key = key
	return m, err
}

type LightState struct {
	Key         uint32
	State       bool
	Brightness  float32
	ColorMode   uint32
	ColorTemperature float32
	Red, Green, Blue, White float32
	Effect      string
}

func DecodeLightState(body []byte) (LightState, error) {
	var m LightState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		switch f.Num {
		case 2:
			m.State = f.U64 != 0
		case 3:
			m.Brightness = wire.Float32FromBits(f.U32)
		case 4:
			m.ColorMode = uint32(f.U64)
		case 6:
			m.ColorTemperature = wire.Float32FromBits(f.U32)
		case 8:
			m.Red = wire.Float32FromBits(f.U32)
		case 9:
			m.Green = wire.Float32FromBits(f.U32)
		case 10:
			m.Blue = wire.Float32FromBits(f.U32)
		case 11:
			m.White = wire.Float32FromBits(f.U32)
		case 13:
			m.Effect = string(f.Buf)
		}
		return nil
	})
	m.Key = key
	return m, err
}

type ClimateState struct {
	Key              uint32
	Mode             uint32
	CurrentTemperature float32
	TargetTemperature float32
	TargetTemperatureLow  float32
	TargetTemperatureHigh float32
	Action           uint32
	FanMode          uint32
	SwingMode        uint32
	Preset           uint32
}

func DecodeClimateState(body []byte) (ClimateState, error) {
	var m ClimateState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		switch f.Num {
		case 2:
			m.Mode = uint32(f.U64)
		case 3:
			m.CurrentTemperature = wire.Float32FromBits(f.U32)
		case 4:
			m.TargetTemperature = wire.Float32FromBits(f.U32)
		case 5:
			m.TargetTemperatureLow = wire.Float32FromBits(f.U32)
		case 6:
			m.TargetTemperatureHigh = wire.Float32FromBits(f.U32)
		case 7:
			m.Action = uint32(f.U64)
		case 8:
			m.FanMode = uint32(f.U64)
		case 9:
			m.SwingMode = uint32(f.U64)
		case 10:
			m.Preset = uint32(f.U64)
		}
		return nil
	})
	m.Key = key
	return m, err
}

type NumberState struct {
	Key          uint32
	State        float32
	MissingState bool
}

func DecodeNumberState(body []byte) (NumberState, error) {
	var m NumberState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		switch f.Num {
		case 2:
			m.State = wire.Float32FromBits(f.U32)
		case 3:
			m.MissingState = f.U64 != 0
		}
		return nil
	})
	m.Key = key
	return m, err
}

type SelectState struct {
	Key          uint32
	State        string
	MissingState bool
}

func DecodeSelectState(body []byte) (SelectState, error) {
	var m SelectState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		switch f.Num {
		case 2:
			m.State = string(f.Buf)
		case 3:
			m.MissingState = f.U64 != 0
		}
		return nil
	})
	m.Key = key
	return m, err
}

type LockState struct {
	Key   uint32
	State uint32
}

func DecodeLockState(body []byte) (LockState, error) {
	var m LockState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		if f.Num == 2 {
			m.State = uint32(f.U64)
		}
		return nil
	})
	m.Key = key
	return m, err
}

type MediaPlayerState struct {
	Key    uint32
	State  uint32
	Volume float32
	Muted  bool
}

func DecodeMediaPlayerState(body []byte) (MediaPlayerState, error) {
	var m MediaPlayerState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		switch f.Num {
		case 2:
			m.State = uint32(f.U64)
		case 3:
			m.Volume = wire.Float32FromBits(f.U32)
		case 4:
			m.Muted = f.U64 != 0
		}
		return nil
	})
	m.Key = key
	return m, err
}

type AlarmControlPanelState struct {
	Key   uint32
	State uint32
}

func DecodeAlarmControlPanelState(body []byte) (AlarmControlPanelState, error) {
	var m AlarmControlPanelState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		if f.Num == 2 {
			m.State = uint32(f.U64)
		}
		return nil
	})
	m.Key = key
	return m, err
}

type TextState struct {
	Key          uint32
	State        string
	MissingState bool
}

func DecodeTextState(body []byte) (TextState, error) {
	var m TextState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		switch f.Num {
		case 2:
			m.State = string(f.Buf)
		case 3:
			m.MissingState = f.U64 != 0
		}
		return nil
	})
	m.Key = key
	return m, err
}

type DateState struct {
	Key                uint32
	MissingState       bool
	Year, Month, Day    uint32
}

func DecodeDateState(body []byte) (DateState, error) {
	var m DateState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		switch f.Num {
		case 2:
			m.MissingState = f.U64 != 0
		case 3:
			m.Year = uint32(f.U64)
		case 4:
			m.Month = uint32(f.U64)
		case 5:
			m.Day = uint32(f.U64)
		}
		return nil
	})
	m.Key = key
	return m, err
}

type TimeState struct {
	Key                     uint32
	MissingState            bool
	Hour, Minute, Second    uint32
}

func DecodeTimeState(body []byte) (TimeState, error) {
	var m TimeState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		switch f.Num {
		case 2:
			m.MissingState = f.U64 != 0
		case 3:
			m.Hour = uint32(f.U64)
		case 4:
			m.Minute = uint32(f.U64)
		case 5:
			m.Second = uint32(f.U64)
		}
		return nil
	})
	m.Key = key
	return m, err
}

type DateTimeState struct {
	Key          uint32
	MissingState bool
	EpochSeconds uint32
}

func DecodeDateTimeState(body []byte) (DateTimeState, error) {
	var m DateTimeState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		switch f.Num {
		case 2:
			m.MissingState = f.U64 != 0
		case 3:
			m.EpochSeconds = uint32(f.U64)
		}
		return nil
	})
	m.Key = key
	return m, err
}

type ValveState struct {
	Key              uint32
	Position         float32
	CurrentOperation uint32
}

func DecodeValveState(body []byte) (ValveState, error) {
	var m ValveState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		switch f.Num {
		case 2:
			m.Position = wire.Float32FromBits(f.U32)
		case 3:
			m.CurrentOperation = uint32(f.U64)
		}
		return nil
	})
	m.Key = key
	return m, err
}

// UpdateState reports the minimal fields consumers need to know an
// update is available and how far an install has progressed; release
// notes and other descriptive fields are not decoded.
type UpdateState struct {
	Key             uint32
	MissingState    bool
	InProgress      bool
	HasProgress     bool
	Progress        float32
	CurrentVersion  string
	LatestVersion   string
}

func DecodeUpdateState(body []byte) (UpdateState, error) {
	var m UpdateState
	key, err := decodeKeyed(body, func(f wire.Field) error {
		switch f.Num {
		case 2:
			m.MissingState = f.U64 != 0
		case 3:
			m.InProgress = f.U64 != 0
		case 4:
			m.HasProgress = f.U64 != 0
		case 5:
			m.Progress = wire.Float32FromBits(f.U32)
		case 6:
			m.CurrentVersion = string(f.Buf)
		case 7:
			m.LatestVersion = string(f.Buf)
		}
		return nil
	})
	m.Key = key
	return m, err
}

// EventResponse fires from a generic "event" entity (e.g. a button press
// captured by Home Assistant automations) carrying a free-form event type
// string rather than a fixed state shape.
type EventResponse struct {
	Key       uint32
	EventType string
}

func DecodeEventResponse(body []byte) (EventResponse, error) {
	var m EventResponse
	key, err := decodeKeyed(body, func(f wire.Field) error {
		if f.Num == 2 {
			m.EventType = string(f.Buf)
		}
		return nil
	})
	m.Key = key
	return m, err
}
