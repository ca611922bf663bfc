package apimsg

import (
	"github.com/esphome-go/client/internal/entity"
	"github.com/esphome-go/client/internal/wire"
)

// commonListEntitiesFields are present on every ListEntities<Kind>Response
// at the same field numbers, the part of the message the entity registry
// cares about. Kind-specific trailing fields (e.g. a light's supported
// color modes, a number's min/max/step) are handed to the extra callback
// when one is given and skipped otherwise.
type commonListEntitiesFields struct {
	ObjectID         string
	Key              uint32
	Name             string
	UniqueID         string
	Icon             string
	DisableByDefault bool
	EntityCategory   int32
}

func decodeCommonListEntitiesFields(body []byte, extra func(wire.Field) error) (commonListEntitiesFields, error) {
	var c commonListEntitiesFields
	err := wire.Decode(body, func(f wire.Field) error {
		switch f.Num {
		case 1:
			c.ObjectID = string(f.Buf)
		case 2:
			c.Key = uint32(f.U64)
		case 3:
			c.Name = string(f.Buf)
		case 4:
			c.UniqueID = string(f.Buf)
		case 5:
			c.Icon = string(f.Buf)
		case 6:
			c.DisableByDefault = f.U64 != 0
		case 7:
			c.EntityCategory = int32(f.U64)
		default:
			if extra != nil {
				return extra(f)
			}
		}
		return nil
	})
	return c, err
}

func (c commonListEntitiesFields) descriptor(kind entity.Kind) entity.Descriptor {
	return entity.Descriptor{
		Kind:             kind,
		ObjectID:         c.ObjectID,
		Key:              c.Key,
		Name:             c.Name,
		UniqueID:         c.UniqueID,
		Icon:             c.Icon,
		DisableByDefault: c.DisableByDefault,
		EntityCategory:   c.EntityCategory,
	}
}

// DecodeListEntitiesResponse decodes any ListEntities<Kind>Response body
// into a Descriptor given the kind implied by the frame's message type.
// Kind-specific trailing fields beyond the common set (e.g. supported
// feature flags) are skipped and do not appear in the Descriptor.
func DecodeListEntitiesResponse(kind entity.Kind, body []byte) (entity.Descriptor, error) {
	c, err := decodeCommonListEntitiesFields(body, nil)
	if err != nil {
		return entity.Descriptor{}, err
	}
	return c.descriptor(kind), nil
}

// listEntitiesKindByType maps each ListEntities<Kind>Response message type
// to the entity kind it describes, used by the router to dispatch without
// a giant switch at every call site.
var listEntitiesKindByType = map[uint32]entity.Kind{
	TypeListEntitiesBinarySensorResponse:      entity.KindBinarySensor,
	TypeListEntitiesCoverResponse:             entity.KindCover,
	TypeListEntitiesFanResponse:               entity.KindFan,
	TypeListEntitiesLightResponse:             entity.KindLight,
	TypeListEntitiesSensorResponse:            entity.KindSensor,
	TypeListEntitiesSwitchResponse:            entity.KindSwitch,
	TypeListEntitiesTextSensorResponse:        entity.KindTextSensor,
	TypeListEntitiesClimateResponse:           entity.KindClimate,
	TypeListEntitiesNumberResponse:            entity.KindNumber,
	TypeListEntitiesSelectResponse:            entity.KindSelect,
	TypeListEntitiesLockResponse:              entity.KindLock,
	TypeListEntitiesButtonResponse:            entity.KindButton,
	TypeListEntitiesMediaPlayerResponse:       entity.KindMediaPlayer,
	TypeListEntitiesAlarmControlPanelResponse: entity.KindAlarmControlPanel,
	TypeListEntitiesTextResponse:              entity.KindText,
	TypeListEntitiesDateResponse:              entity.KindDate,
	TypeListEntitiesTimeResponse:              entity.KindTime,
	TypeListEntitiesDateTimeResponse:          entity.KindDateTime,
	TypeListEntitiesValveResponse:             entity.KindValve,
	TypeListEntitiesUpdateResponse:            entity.KindUpdate,
	TypeListEntitiesEventResponse:             entity.KindEvent,
	TypeListEntitiesServicesResponse:          entity.KindService,
	TypeListEntitiesCameraResponse:            entity.KindCamera,
}

// ListEntitiesKind reports the entity kind for a ListEntities<Kind>Response
// message type, and whether that type is recognized at all.
func ListEntitiesKind(msgType uint32) (entity.Kind, bool) {
	k, ok := listEntitiesKindByType[msgType]
	return k, ok
}
