package apimsg

import "github.com/esphome-go/client/internal/wire"

// Every <Kind>CommandRequest leads with the target entity's key (field
// 1). Optional float/enum fields ESPHome's real protocol guards with a
// companion "has_x" bool are modeled here as Go pointers: nil means
// "don't touch this field", matching the has_x semantics without a
// second bool per field.

type SwitchCommand struct {
	Key   uint32
	State bool
}

func (c SwitchCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	return wire.AppendBoolField(out, 2, c.State)
}

type CoverCommand struct {
	Key      uint32
	Position *float32
	Tilt     *float32
	Stop     bool
}

func (c CoverCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	if c.Position != nil {
		out = wire.AppendBoolField(out, 2, true)
		out = wire.AppendFloatField(out, 3, *c.Position)
	}
	if c.Tilt != nil {
		out = wire.AppendBoolField(out, 4, true)
		out = wire.AppendFloatField(out, 5, *c.Tilt)
	}
	out = wire.AppendBoolField(out, 6, c.Stop)
	return out
}

type FanCommand struct {
	Key         uint32
	State       *bool
	Oscillating *bool
	Speed       *uint32
	Direction   *uint32
	SpeedLevel  *int32
}

func (c FanCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	if c.State != nil {
		out = wire.AppendBoolField(out, 2, true)
		out = wire.AppendBoolField(out, 3, *c.State)
	}
	if c.Oscillating != nil {
		out = wire.AppendBoolField(out, 4, true)
		out = wire.AppendBoolField(out, 5, *c.Oscillating)
	}
	if c.Speed != nil {
		out = wire.AppendBoolField(out, 6, true)
		out = wire.AppendUint32Field(out, 7, *c.Speed)
	}
	if c.Direction != nil {
		out = wire.AppendBoolField(out, 8, true)
		out = wire.AppendUint32Field(out, 9, *c.Direction)
	}
	if c.SpeedLevel != nil {
		out = wire.AppendBoolField(out, 10, true)
		out = wire.AppendInt32Field(out, 11, *c.SpeedLevel)
	}
	return out
}

type LightCommand struct {
	Key              uint32
	State            *bool
	Brightness       *float32
	ColorMode        *uint32
	ColorTemperature *float32
	Red, Green, Blue, White *float32
	Effect           *string
	Transition       *float32
	Flash            *float32
}

func (c LightCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	if c.State != nil {
		out = wire.AppendBoolField(out, 2, true)
		out = wire.AppendBoolField(out, 3, *c.State)
	}
	if c.Brightness != nil {
		out = wire.AppendBoolField(out, 4, true)
		out = wire.AppendFloatField(out, 5, *c.Brightness)
	}
	if c.ColorMode != nil {
		out = wire.AppendBoolField(out, 22, true)
		out = wire.AppendUint32Field(out, 23, *c.ColorMode)
	}
	if c.ColorTemperature != nil {
		out = wire.AppendBoolField(out, 10, true)
		out = wire.AppendFloatField(out, 11, *c.ColorTemperature)
	}
	if c.Red != nil {
		out = wire.AppendBoolField(out, 14, true)
		out = wire.AppendFloatField(out, 15, *c.Red)
	}
	if c.Green != nil {
		out = wire.AppendBoolField(out, 14, true)
		out = wire.AppendFloatField(out, 16, *c.Green)
	}
	if c.Blue != nil {
		out = wire.AppendBoolField(out, 14, true)
		out = wire.AppendFloatField(out, 17, *c.Blue)
	}
	if c.White != nil {
		out = wire.AppendBoolField(out, 18, true)
		out = wire.AppendFloatField(out, 19, *c.White)
	}
	if c.Effect != nil {
		out = wire.AppendBoolField(out, 24, true)
		out = wire.AppendStringField(out, 25, *c.Effect)
	}
	if c.Transition != nil {
		out = wire.AppendBoolField(out, 8, true)
		out = wire.AppendFloatField(out, 9, *c.Transition)
	}
	if c.Flash != nil {
		out = wire.AppendBoolField(out, 12, true)
		out = wire.AppendFloatField(out, 13, *c.Flash)
	}
	return out
}

type ClimateCommand struct {
	Key                   uint32
	Mode                  *uint32
	TargetTemperature     *float32
	TargetTemperatureLow  *float32
	TargetTemperatureHigh *float32
	FanMode               *uint32
	SwingMode             *uint32
	Preset                *uint32
}

func (c ClimateCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	if c.Mode != nil {
		out = wire.AppendBoolField(out, 2, true)
		out = wire.AppendUint32Field(out, 3, *c.Mode)
	}
	if c.TargetTemperature != nil {
		out = wire.AppendBoolField(out, 4, true)
		out = wire.AppendFloatField(out, 5, *c.TargetTemperature)
	}
	if c.TargetTemperatureLow != nil {
		out = wire.AppendBoolField(out, 6, true)
		out = wire.AppendFloatField(out, 7, *c.TargetTemperatureLow)
	}
	if c.TargetTemperatureHigh != nil {
		out = wire.AppendBoolField(out, 8, true)
		out = wire.AppendFloatField(out, 9, *c.TargetTemperatureHigh)
	}
	if c.FanMode != nil {
		out = wire.AppendBoolField(out, 10, true)
		out = wire.AppendUint32Field(out, 11, *c.FanMode)
	}
	if c.SwingMode != nil {
		out = wire.AppendBoolField(out, 12, true)
		out = wire.AppendUint32Field(out, 13, *c.SwingMode)
	}
	if c.Preset != nil {
		out = wire.AppendBoolField(out, 14, true)
		out = wire.AppendUint32Field(out, 15, *c.Preset)
	}
	return out
}

type NumberCommand struct {
	Key   uint32
	State float32
}

func (c NumberCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	return wire.AppendFloatField(out, 2, c.State)
}

type SelectCommand struct {
	Key   uint32
	State string
}

func (c SelectCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	return wire.AppendStringField(out, 2, c.State)
}

type LockCommand struct {
	Key   uint32
	State uint32
	Code  *string
}

func (c LockCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	out = wire.AppendUint32Field(out, 2, c.State)
	if c.Code != nil {
		out = wire.AppendBoolField(out, 3, true)
		out = wire.AppendStringField(out, 4, *c.Code)
	}
	return out
}

type ButtonCommand struct {
	Key uint32
}

func (c ButtonCommand) Encode() []byte {
	return wire.AppendUint32Field(nil, 1, c.Key)
}

type MediaPlayerCommand struct {
	Key     uint32
	Command *uint32
	Volume  *float32
	MediaURL *string
}

func (c MediaPlayerCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	if c.Command != nil {
		out = wire.AppendBoolField(out, 2, true)
		out = wire.AppendUint32Field(out, 3, *c.Command)
	}
	if c.Volume != nil {
		out = wire.AppendBoolField(out, 4, true)
		out = wire.AppendFloatField(out, 5, *c.Volume)
	}
	if c.MediaURL != nil {
		out = wire.AppendBoolField(out, 6, true)
		out = wire.AppendStringField(out, 7, *c.MediaURL)
	}
	return out
}

type AlarmControlPanelCommand struct {
	Key   uint32
	State uint32
	Code  *string
}

func (c AlarmControlPanelCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	out = wire.AppendUint32Field(out, 2, c.State)
	if c.Code != nil {
		out = wire.AppendStringField(out, 3, *c.Code)
	}
	return out
}

type TextCommand struct {
	Key   uint32
	State string
}

func (c TextCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	return wire.AppendStringField(out, 2, c.State)
}

type DateCommand struct {
	Key               uint32
	Year, Month, Day  uint32
}

func (c DateCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	out = wire.AppendUint32Field(out, 2, c.Year)
	out = wire.AppendUint32Field(out, 3, c.Month)
	return wire.AppendUint32Field(out, 4, c.Day)
}

type TimeCommand struct {
	Key                   uint32
	Hour, Minute, Second  uint32
}

func (c TimeCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	out = wire.AppendUint32Field(out, 2, c.Hour)
	out = wire.AppendUint32Field(out, 3, c.Minute)
	return wire.AppendUint32Field(out, 4, c.Second)
}

type DateTimeCommand struct {
	Key          uint32
	EpochSeconds uint32
}

func (c DateTimeCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	return wire.AppendUint32Field(out, 2, c.EpochSeconds)
}

type ValveCommand struct {
	Key      uint32
	Position *float32
	Stop     bool
}

func (c ValveCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	if c.Position != nil {
		out = wire.AppendBoolField(out, 2, true)
		out = wire.AppendFloatField(out, 3, *c.Position)
	}
	out = wire.AppendBoolField(out, 4, c.Stop)
	return out
}

// ExecuteServiceArg is one of a service's declared parameters. The
// non-nil member (bool, int32, float32 or string) is encoded by
// field-number convention shared with ESPHome's UserServiceArg union;
// array-typed arguments are not supported.
type ExecuteServiceArg struct {
	Bool    *bool
	Int     *int32
	Float   *float32
	String  *string
}

type ExecuteServiceRequest struct {
	Key  uint32
	Args []ExecuteServiceArg
}

func (c ExecuteServiceRequest) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	for _, a := range c.Args {
		argBytes := encodeServiceArg(a)
		out = wire.AppendBytesField(out, 2, argBytes)
	}
	return out
}

func encodeServiceArg(a ExecuteServiceArg) []byte {
	var out []byte
	if a.Bool != nil {
		out = wire.AppendBoolField(out, 1, *a.Bool)
	}
	if a.Int != nil {
		out = wire.AppendInt32Field(out, 2, *a.Int)
	}
	if a.Float != nil {
		out = wire.AppendFloatField(out, 3, *a.Float)
	}
	if a.String != nil {
		out = wire.AppendStringField(out, 4, *a.String)
	}
	return out
}

type UpdateCommand struct {
	Key     uint32
	Command uint32
}

func (c UpdateCommand) Encode() []byte {
	out := wire.AppendUint32Field(nil, 1, c.Key)
	return wire.AppendUint32Field(out, 2, c.Command)
}
