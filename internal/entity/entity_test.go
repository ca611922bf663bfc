package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescriptorID(t *testing.T) {
	d := Descriptor{Kind: KindSwitch, ObjectID: "garage_door"}
	require.Equal(t, "switch-garage_door", d.ID())
}

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	d := Descriptor{Kind: KindLight, ObjectID: "kitchen", Key: 7, Name: "Kitchen Light"}
	require.NoError(t, r.Register(d))

	byKey, err := r.ByKey(7)
	require.NoError(t, err)
	require.Equal(t, d, byKey)

	byID, err := r.ByID("light-kitchen")
	require.NoError(t, err)
	require.Equal(t, d, byID)
}

func TestUnknownEntityLookup(t *testing.T) {
	r := NewRegistry()
	_, err := r.ByKey(99)
	require.ErrorIs(t, err, ErrUnknownEntity)
	_, err = r.ByID("switch-nope")
	require.ErrorIs(t, err, ErrUnknownEntity)
}

func TestSealPreventsFurtherRegistration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Descriptor{Kind: KindSensor, ObjectID: "temp", Key: 1}))
	r.Seal()
	require.True(t, r.Sealed())

	err := r.Register(Descriptor{Kind: KindSensor, ObjectID: "humidity", Key: 2})
	require.ErrorIs(t, err, ErrAlreadySealed)
}

func TestOfKindFiltersByPlatform(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Descriptor{Kind: KindSwitch, ObjectID: "a", Key: 1}))
	require.NoError(t, r.Register(Descriptor{Kind: KindSwitch, ObjectID: "b", Key: 2}))
	require.NoError(t, r.Register(Descriptor{Kind: KindLight, ObjectID: "c", Key: 3}))

	switches := r.OfKind(KindSwitch)
	require.Len(t, switches, 2)
}
